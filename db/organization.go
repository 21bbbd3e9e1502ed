// Package db
package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
)

func (m *mongoDB) InsertOrganization(ctx context.Context, org *types.Organization) error {
	if _, err := m.wrapper.C(cOrganizations).Insert(ctx, org); err != nil {
		return duplicate(err)
	}
	return nil
}

func (m *mongoDB) Organization(ctx context.Context, id types.OrgID) (*types.Organization, error) {
	var result *types.Organization
	if err := m.wrapper.C(cOrganizations).FindOne(ctx, bson.M{"id": id}).Decode(&result); err != nil {
		return nil, notFound(err)
	}
	return result, nil
}

func (m *mongoDB) UpdateOrganization(ctx context.Context, org *types.Organization) error {
	res, err := m.wrapper.C(cOrganizations).Update(ctx, bson.M{"id": org.ID}, bson.M{"$set": org})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return types.ErrRecordNotFound
	}
	return nil
}

func (m *mongoDB) Organizations(ctx context.Context, pagination *types.Pagination) ([]*types.Organization, uint64, error) {
	var result []*types.Organization
	cursor, err := m.wrapper.C(cOrganizations).Find(ctx, bson.M{}, findOptions(pagination, bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, 0, err
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, err
	}
	total, err := m.wrapper.C(cOrganizations).Count(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return result, uint64(total), nil
}

func (m *mongoDB) UpsertProfile(ctx context.Context, profile *shares.Record) error {
	filter := bson.M{"org": profile.Org, "account": profile.Account}
	if _, err := m.wrapper.C(cProfiles).Replace(ctx, filter, profile); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) Profile(ctx context.Context, org types.OrgID, account types.AccountID) (*shares.Record, error) {
	var result *shares.Record
	if err := m.wrapper.C(cProfiles).FindOne(ctx, bson.M{"org": org, "account": account}).Decode(&result); err != nil {
		return nil, notFound(err)
	}
	return result, nil
}

func (m *mongoDB) RemoveProfile(ctx context.Context, org types.OrgID, account types.AccountID) error {
	_, err := m.wrapper.C(cProfiles).Remove(ctx, bson.M{"org": org, "account": account})
	return err
}

func (m *mongoDB) Profiles(ctx context.Context, org types.OrgID) ([]*shares.Record, error) {
	var result []*shares.Record
	cursor, err := m.wrapper.C(cProfiles).Find(ctx, bson.M{"org": org}, m.wrapper.FindSetSort("account"))
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}
