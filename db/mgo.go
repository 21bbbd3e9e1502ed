// Package db
package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/types"
)

const (
	cOrganizations = "Organizations"
	cProfiles      = "Profiles"
	cVoteStates    = "VoteStates"
	cVoteReceipts  = "VoteReceipts"
	cBanks         = "Banks"
	cSpends        = "Spends"
	cDisputes      = "Disputes"
	cBalances      = "Balances"
	cCounters      = "Counters"
)

var collections = []string{
	cOrganizations, cProfiles, cVoteStates, cVoteReceipts, cBanks, cSpends, cDisputes, cBalances, cCounters,
}

type mongoDB struct {
	logger  *zap.Logger
	wrapper *KaiMgo
	client  *mongo.Client
}

func newMongoDB(cfg Config) (*mongoDB, error) {
	ctx := context.Background()
	dbClient := &mongoDB{
		logger:  cfg.Logger,
		wrapper: &KaiMgo{},
	}
	if dbClient.logger == nil {
		dbClient.logger = zap.NewNop()
	}
	mgoOptions := options.Client()
	mgoOptions.ApplyURI(cfg.URL)
	mgoOptions.SetMinPoolSize(uint64(cfg.MinConn))
	mgoOptions.SetMaxPoolSize(uint64(cfg.MaxConn))
	mgoClient, err := mongo.NewClient(mgoOptions)
	if err != nil {
		return nil, err
	}

	if err := mgoClient.Connect(ctx); err != nil {
		return nil, err
	}
	dbClient.client = mgoClient
	dbClient.wrapper.Database(mgoClient.Database(cfg.DbName))

	if cfg.FlushDB {
		dbClient.logger.Info("Start flush database")
		if err := mgoClient.Database(cfg.DbName).Drop(ctx); err != nil {
			return nil, err
		}
	}
	// collections must exist before the first transaction writes to them
	for _, c := range collections {
		if err := dbClient.wrapper.EnsureCollection(ctx, c); err != nil {
			return nil, err
		}
	}
	if err := createIndexes(ctx, dbClient); err != nil {
		dbClient.logger.Warn("Cannot create indexes", zap.Error(err))
	}

	return dbClient, nil
}

func createIndexes(ctx context.Context, dbClient *mongoDB) error {
	type CIndex struct {
		c     string
		model []mongo.IndexModel
	}

	indexes := []CIndex{
		{c: cOrganizations, model: []mongo.IndexModel{{Keys: bson.M{"id": 1}, Options: options.Index().SetUnique(true)}}},
		{c: cProfiles, model: []mongo.IndexModel{{Keys: bson.D{{Key: "org", Value: 1}, {Key: "account", Value: 1}}, Options: options.Index().SetUnique(true)}}},
		{c: cVoteStates, model: []mongo.IndexModel{{Keys: bson.M{"voteId": 1}, Options: options.Index().SetUnique(true)}}},
		{c: cVoteReceipts, model: []mongo.IndexModel{{Keys: bson.D{{Key: "voteId", Value: 1}, {Key: "voter", Value: 1}}, Options: options.Index().SetUnique(true)}}},
		{c: cBanks, model: []mongo.IndexModel{
			{Keys: bson.M{"id": 1}, Options: options.Index().SetUnique(true)},
			{Keys: bson.M{"org": 1}},
		}},
		{c: cSpends, model: []mongo.IndexModel{
			{Keys: bson.D{{Key: "bank", Value: 1}, {Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.M{"state": 1}},
		}},
		{c: cDisputes, model: []mongo.IndexModel{
			{Keys: bson.M{"id": 1}, Options: options.Index().SetUnique(true)},
			{Keys: bson.M{"state": 1}},
		}},
		{c: cBalances, model: []mongo.IndexModel{{Keys: bson.M{"id": 1}, Options: options.Index().SetUnique(true)}}},
	}
	for _, cIdx := range indexes {
		if err := dbClient.wrapper.C(cIdx.c).EnsureIndex(ctx, cIdx.model); err != nil {
			return err
		}
	}
	return nil
}

//region General

func (m *mongoDB) ping() error {
	return m.client.Ping(context.Background(), nil)
}

func (m *mongoDB) dropDatabase(ctx context.Context) error {
	return m.wrapper.DropDatabase(ctx)
}

// RunInTx needs a replica set; the session context carries the transaction into every wrapper call.
func (m *mongoDB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

//endregion General

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.ErrRecordNotFound
	}
	return err
}

// duplicate maps a unique index violation to ErrRecordExist.
func duplicate(err error) error {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return types.ErrRecordExist
			}
		}
	}
	return err
}

func findOptions(pagination *types.Pagination, sort bson.D) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if pagination != nil {
		pagination.Sanitize()
		opts.SetSkip(int64(pagination.Skip)).SetLimit(int64(pagination.Limit))
	}
	return opts
}
