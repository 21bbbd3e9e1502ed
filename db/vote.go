// Package db
package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

func (m *mongoDB) UpsertVote(ctx context.Context, record *vote.Record) error {
	if _, err := m.wrapper.C(cVoteStates).Replace(ctx, bson.M{"voteId": record.VoteID}, record); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) Vote(ctx context.Context, id types.VoteID) (*vote.Record, error) {
	var result *vote.Record
	if err := m.wrapper.C(cVoteStates).FindOne(ctx, bson.M{"voteId": id}).Decode(&result); err != nil {
		return nil, notFound(err)
	}
	return result, nil
}

func (m *mongoDB) Votes(ctx context.Context, pagination *types.Pagination) ([]*vote.Record, uint64, error) {
	var result []*vote.Record
	cursor, err := m.wrapper.C(cVoteStates).Find(ctx, bson.M{}, findOptions(pagination, bson.D{{Key: "voteId", Value: 1}}))
	if err != nil {
		return nil, 0, err
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, err
	}
	total, err := m.wrapper.C(cVoteStates).Count(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return result, uint64(total), nil
}

func (m *mongoDB) UpsertReceipt(ctx context.Context, receipt *vote.Receipt) error {
	filter := bson.M{"voteId": receipt.VoteID, "voter": receipt.Voter}
	if _, err := m.wrapper.C(cVoteReceipts).Replace(ctx, filter, receipt); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) Receipt(ctx context.Context, id types.VoteID, voter types.AccountID) (*vote.Receipt, error) {
	var result *vote.Receipt
	if err := m.wrapper.C(cVoteReceipts).FindOne(ctx, bson.M{"voteId": id, "voter": voter}).Decode(&result); err != nil {
		return nil, notFound(err)
	}
	return result, nil
}

func (m *mongoDB) Receipts(ctx context.Context, id types.VoteID) ([]*vote.Receipt, error) {
	var result []*vote.Receipt
	cursor, err := m.wrapper.C(cVoteReceipts).Find(ctx, bson.M{"voteId": id}, m.wrapper.FindSetSort("voter"))
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}
