// Package db
package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kardiachain/governance-backend/types"
)

type counterDoc struct {
	Name  string `bson:"_id"`
	Value uint64 `bson:"value"`
}

func (m *mongoDB) Account(ctx context.Context, id types.AccountID) (*types.Account, error) {
	var result *types.Account
	if err := m.wrapper.C(cBalances).FindOne(ctx, bson.M{"id": id}).Decode(&result); err != nil {
		return nil, notFound(err)
	}
	return result, nil
}

func (m *mongoDB) UpsertAccount(ctx context.Context, account *types.Account) error {
	if _, err := m.wrapper.C(cBalances).Replace(ctx, bson.M{"id": account.ID}, account); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) RemoveAccount(ctx context.Context, id types.AccountID) error {
	_, err := m.wrapper.C(cBalances).Remove(ctx, bson.M{"id": id})
	return err
}

//region Counter

func (m *mongoDB) NextID(ctx context.Context, counter string) (uint64, error) {
	var doc counterDoc
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := m.wrapper.C(cCounters).FindOneAndUpdate(ctx, bson.M{"_id": counter}, bson.M{"$inc": bson.M{"value": uint64(1)}}, opts).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Value, nil
}

func (m *mongoDB) Counter(ctx context.Context, counter string) (uint64, error) {
	var doc counterDoc
	err := m.wrapper.C(cCounters).FindOne(ctx, bson.M{"_id": counter}).Decode(&doc)
	if err != nil {
		if notFound(err) == types.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return doc.Value, nil
}

func (m *mongoDB) SetCounter(ctx context.Context, counter string, value uint64) error {
	_, err := m.wrapper.C(cCounters).Upsert(ctx, bson.M{"_id": counter}, bson.M{"value": value})
	return err
}

//endregion Counter
