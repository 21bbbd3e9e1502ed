// Package db
package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kardiachain/governance-backend/types"
)

func (m *mongoDB) UpsertBank(ctx context.Context, bank *types.Bank) error {
	if _, err := m.wrapper.C(cBanks).Replace(ctx, bson.M{"id": bank.ID}, bank); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) Bank(ctx context.Context, id types.BankID) (*types.Bank, error) {
	var result *types.Bank
	if err := m.wrapper.C(cBanks).FindOne(ctx, bson.M{"id": id}).Decode(&result); err != nil {
		return nil, notFound(err)
	}
	return result, nil
}

func (m *mongoDB) Banks(ctx context.Context, pagination *types.Pagination) ([]*types.Bank, uint64, error) {
	var result []*types.Bank
	cursor, err := m.wrapper.C(cBanks).Find(ctx, bson.M{}, findOptions(pagination, bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, 0, err
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, err
	}
	total, err := m.wrapper.C(cBanks).Count(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return result, uint64(total), nil
}

func (m *mongoDB) CountBanks(ctx context.Context, org types.OrgID) (uint64, error) {
	total, err := m.wrapper.C(cBanks).Count(ctx, bson.M{"org": org})
	if err != nil {
		return 0, err
	}
	return uint64(total), nil
}

func (m *mongoDB) UpsertSpend(ctx context.Context, spend *types.Spend) error {
	if _, err := m.wrapper.C(cSpends).Replace(ctx, bson.M{"bank": spend.Bank, "id": spend.ID}, spend); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) Spend(ctx context.Context, key types.BankSpend) (*types.Spend, error) {
	var result *types.Spend
	if err := m.wrapper.C(cSpends).FindOne(ctx, bson.M{"bank": key.Bank, "id": key.Spend}).Decode(&result); err != nil {
		return nil, notFound(err)
	}
	return result, nil
}

func (m *mongoDB) Spends(ctx context.Context, bank types.BankID, pagination *types.Pagination) ([]*types.Spend, uint64, error) {
	var result []*types.Spend
	filter := bson.M{"bank": bank}
	cursor, err := m.wrapper.C(cSpends).Find(ctx, filter, findOptions(pagination, bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, 0, err
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, err
	}
	total, err := m.wrapper.C(cSpends).Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return result, uint64(total), nil
}

func (m *mongoDB) SpendsByState(ctx context.Context, state types.SpendState) ([]*types.Spend, error) {
	var result []*types.Spend
	sort := findOptions(nil, bson.D{{Key: "bank", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := m.wrapper.C(cSpends).Find(ctx, bson.M{"state": state}, sort)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}
