// Package db
package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kardiachain/governance-backend/types"
)

func (m *mongoDB) UpsertDispute(ctx context.Context, dispute *types.Dispute) error {
	if _, err := m.wrapper.C(cDisputes).Replace(ctx, bson.M{"id": dispute.ID}, dispute); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) Dispute(ctx context.Context, id types.DisputeID) (*types.Dispute, error) {
	var result *types.Dispute
	if err := m.wrapper.C(cDisputes).FindOne(ctx, bson.M{"id": id}).Decode(&result); err != nil {
		return nil, notFound(err)
	}
	return result, nil
}

func (m *mongoDB) Disputes(ctx context.Context, pagination *types.Pagination) ([]*types.Dispute, uint64, error) {
	var result []*types.Dispute
	cursor, err := m.wrapper.C(cDisputes).Find(ctx, bson.M{}, findOptions(pagination, bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, 0, err
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, err
	}
	total, err := m.wrapper.C(cDisputes).Count(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return result, uint64(total), nil
}

func (m *mongoDB) DisputesByState(ctx context.Context, state types.DisputeState) ([]*types.Dispute, error) {
	var result []*types.Dispute
	cursor, err := m.wrapper.C(cDisputes).Find(ctx, bson.M{"state": state}, m.wrapper.FindSetSort("id"))
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}
