/*
 *  Copyright 2018 KardiaChain
 *  This file is part of the go-kardia library.
 *
 *  The go-kardia library is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU Lesser General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  The go-kardia library is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 *  GNU Lesser General Public License for more details.
 *
 *  You should have received a copy of the GNU Lesser General Public License
 *  along with the go-kardia library. If not, see <http://www.gnu.org/licenses/>.
 */

package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/bank"
	"github.com/kardiachain/governance-backend/cache"
	"github.com/kardiachain/governance-backend/court"
	"github.com/kardiachain/governance-backend/currency"
	"github.com/kardiachain/governance-backend/db"
	"github.com/kardiachain/governance-backend/donate"
	"github.com/kardiachain/governance-backend/events"
	"github.com/kardiachain/governance-backend/org"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/voting"
)

const CounterBlock = "block"

type Config struct {
	StorageAdapter db.Adapter
	StorageURI     string
	StorageDB      string
	StorageMinConn int
	StorageMaxConn int
	StorageIsFlush bool

	CacheAdapter     cache.Adapter
	CacheURL         string
	CacheDB          int
	CachePassword    string
	CacheIsFlush     bool
	CacheExpiredTime time.Duration
	EventBuffer      int64

	ExistentialDeposit types.Balance
	BankMinDeposit     types.Balance
	BankMaxPerOrg      uint64
	CourtMinDispute    types.Balance
	// SpendVoteDuration bounds spend votes; nil leaves them open until decided.
	SpendVoteDuration *types.BlockNumber

	PollerPoolSize int
	// HttpRequestSecret gates the admin routes.
	HttpRequestSecret string

	Logger *zap.Logger
}

// Server owns every governance module and runs each external call as one atomic unit.
type Server struct {
	mu sync.Mutex

	db        db.Client
	cache     cache.Client
	feed      events.Feed
	publisher events.Publisher
	clock     *blockClock

	ledger *currency.Ledger
	orgs   *org.Module
	votes  *voting.Registry
	bank   *bank.Module
	court  *court.Module
	donate *donate.Module

	pool   *ants.PoolWithFunc
	secret string
	logger *zap.Logger
}

func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	cfg.Logger.Info("Create new server instance", zap.String("storage", string(cfg.StorageAdapter)),
		zap.String("cache", string(cfg.CacheAdapter)))
	dbClient, err := db.NewClient(db.Config{
		DbAdapter: cfg.StorageAdapter,
		DbName:    cfg.StorageDB,
		URL:       cfg.StorageURI,
		MinConn:   cfg.StorageMinConn,
		MaxConn:   cfg.StorageMaxConn,
		FlushDB:   cfg.StorageIsFlush,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	var cacheClient cache.Client
	if cfg.CacheAdapter != "" {
		cacheClient, err = cache.New(cache.Config{
			Adapter:            cfg.CacheAdapter,
			URL:                cfg.CacheURL,
			DB:                 cfg.CacheDB,
			Password:           cfg.CachePassword,
			IsFlush:            cfg.CacheIsFlush,
			EventBuffer:        cfg.EventBuffer,
			DefaultExpiredTime: cfg.CacheExpiredTime,
			Logger:             cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
	}
	return newServer(cfg, dbClient, cacheClient)
}

func newServer(cfg Config, dbClient db.Client, cacheClient cache.Client) (*Server, error) {
	ctx := context.Background()
	height, err := dbClient.Counter(ctx, CounterBlock)
	if err != nil {
		return nil, err
	}
	clock := &blockClock{}
	clock.set(types.BlockNumber(height))

	if cfg.BankMinDeposit == 0 {
		cfg.BankMinDeposit = bank.DefaultMinDeposit
	}
	if cfg.BankMaxPerOrg == 0 {
		cfg.BankMaxPerOrg = bank.DefaultMaxTreasuryPerOrg
	}
	if cfg.CourtMinDispute == 0 {
		cfg.CourtMinDispute = court.DefaultMinimumDisputeAmount
	}
	if cfg.ExistentialDeposit == 0 {
		cfg.ExistentialDeposit = 1
	}

	s := &Server{
		db:     dbClient,
		cache:  cacheClient,
		clock:  clock,
		secret: cfg.HttpRequestSecret,
		logger: cfg.Logger.With(zap.String("server", "governance")),
	}
	if cacheClient != nil {
		s.feed = cacheClient
	} else {
		s.feed = events.NewRing(int(cfg.EventBuffer))
	}
	s.publisher = events.Multi(events.NewLogPublisher(cfg.Logger), s.feed)

	s.ledger = currency.New(dbClient, currency.Config{ExistentialDeposit: cfg.ExistentialDeposit, Logger: cfg.Logger})
	s.orgs = org.New(dbClient, cfg.Logger)
	s.votes = voting.New(dbClient, s.orgs, clock, cfg.Logger)
	s.bank = bank.New(dbClient, s.orgs, s.votes, s.ledger, clock, bank.Config{
		MinDeposit:        cfg.BankMinDeposit,
		MaxTreasuryPerOrg: cfg.BankMaxPerOrg,
		VoteDuration:      cfg.SpendVoteDuration,
		Logger:            cfg.Logger,
	})
	s.court = court.New(dbClient, s.votes, s.ledger, clock, court.Config{
		MinimumDisputeAmount: cfg.CourtMinDispute,
		Logger:               cfg.Logger,
	})
	s.donate = donate.New(s.orgs, s.ledger, cfg.Logger)

	poolSize := cfg.PollerPoolSize
	if poolSize <= 0 {
		poolSize = 8
	}
	s.pool, err = ants.NewPoolWithFunc(poolSize, func(i interface{}) {
		job := i.(*pollJob)
		defer job.wg.Done()
		job.run()
	}, ants.WithPreAlloc(true))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the poller pool.
func (s *Server) Close() {
	s.pool.Release()
}

func (s *Server) BlockNumber() types.BlockNumber {
	return s.clock.BlockNumber()
}

// dispatch runs fn inside one storage transaction. Events are published only after the commit.
func (s *Server) dispatch(ctx context.Context, call string, fn func(ctx context.Context) ([]types.Event, error)) ([]types.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var emitted []types.Event
	err := s.db.RunInTx(ctx, func(ctx context.Context) error {
		// the transaction may be retried, keep only the last attempt
		emitted = nil
		evs, err := fn(ctx)
		if err != nil {
			return err
		}
		emitted = evs
		return nil
	})
	lgr := s.logger.With(zap.String("call", call), zap.Uint64("block", uint64(s.clock.BlockNumber())))
	if err != nil {
		lgr.Warn("Call failed", zap.Error(err))
		return nil, err
	}
	lgr.Info("Call committed", zap.Int("events", len(emitted)))
	s.publish(ctx, emitted)
	return emitted, nil
}

func (s *Server) publish(ctx context.Context, emitted []types.Event) {
	if len(emitted) == 0 {
		return
	}
	block := s.clock.BlockNumber()
	records := make([]types.EventRecord, 0, len(emitted))
	for _, ev := range emitted {
		if submitted, ok := ev.(*types.VoteSubmitted); ok && s.cache != nil {
			if err := s.cache.InvalidateVote(ctx, submitted.VoteID); err != nil {
				s.logger.Warn("cannot invalidate cached vote", zap.Uint64("vote", uint64(submitted.VoteID)), zap.Error(err))
			}
		}
		records = append(records, events.NewRecord(block, ev))
	}
	if err := s.publisher.Publish(ctx, records); err != nil {
		s.logger.Warn("cannot publish events", zap.Error(err))
	}
}

type blockClock struct {
	n uint64
}

func (c *blockClock) BlockNumber() types.BlockNumber {
	return types.BlockNumber(atomic.LoadUint64(&c.n))
}

func (c *blockClock) set(n types.BlockNumber) {
	atomic.StoreUint64(&c.n, uint64(n))
}
