package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/types"
)

type pollJob struct {
	wg  *sync.WaitGroup
	run func()
}

// OnBlock advances the block number and polls every spend and dispute still under vote.
// It returns how many of them were closed.
func (s *Server) OnBlock(ctx context.Context) (int, error) {
	next, err := s.clock.BlockNumber().Add(1)
	if err != nil {
		return 0, err
	}
	if _, err := s.dispatch(ctx, "on_block", func(ctx context.Context) ([]types.Event, error) {
		return nil, s.db.SetCounter(ctx, CounterBlock, uint64(next))
	}); err != nil {
		return 0, err
	}
	s.clock.set(next)
	if s.cache != nil {
		if err := s.cache.UpdateLatestBlockHeight(ctx, next); err != nil {
			s.logger.Warn("cannot cache block height", zap.Error(err))
		}
	}
	return s.pollUnderVote(ctx)
}

func (s *Server) pollUnderVote(ctx context.Context) (int, error) {
	spends, err := s.bank.SpendsUnderVote(ctx)
	if err != nil {
		return 0, err
	}
	disputes, err := s.court.DisputesUnderVote(ctx)
	if err != nil {
		return 0, err
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		closed int
	)
	record := func(err error) {
		if err == nil {
			mu.Lock()
			closed++
			mu.Unlock()
			return
		}
		if !errors.Is(err, types.ErrVoteOutcomeInconclusive) {
			s.logger.Warn("cannot poll", zap.Error(err))
		}
	}
	invoke := func(run func()) {
		wg.Add(1)
		if err := s.pool.Invoke(&pollJob{wg: &wg, run: run}); err != nil {
			wg.Done()
			s.logger.Error("invoke poll error", zap.Error(err))
		}
	}
	// readiness checks run on the pool in parallel; only decided or expired proposals
	// reach dispatch, where they serialize on the call lock
	for _, sp := range spends {
		key, voteID := sp.Key(), sp.VoteID
		invoke(func() {
			if !s.pollable(ctx, voteID) {
				return
			}
			_, err := s.PollSpend(ctx, key)
			record(err)
		})
	}
	for _, d := range disputes {
		id, voteID := d.ID, d.VoteID
		invoke(func() {
			if !s.pollable(ctx, voteID) {
				return
			}
			_, err := s.PollDispute(ctx, types.AccountID{}, id)
			record(err)
		})
	}
	wg.Wait()
	if closed > 0 {
		s.logger.Info("Polled proposals", zap.Int("closed", closed), zap.Uint64("block", uint64(s.clock.BlockNumber())))
	}
	return closed, nil
}

// pollable reports whether the vote behind a proposal is decided or expired.
func (s *Server) pollable(ctx context.Context, id *types.VoteID) bool {
	if id == nil {
		return false
	}
	state, err := s.votes.State(ctx, *id)
	if err != nil {
		s.logger.Warn("cannot load vote state", zap.Uint64("vote", uint64(*id)), zap.Error(err))
		return false
	}
	return state.Outcome().IsTerminal() || state.Expired(s.clock.BlockNumber())
}

// Run produces a block every interval until ctx is done.
func (s *Server) Run(ctx context.Context, interval time.Duration) {
	lgr := s.logger.With(zap.String("task", "block_producer"))
	lgr.Info("Start block ticker", zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			lgr.Info("Stop block ticker")
			return
		case <-ticker.C:
			if _, err := s.OnBlock(ctx); err != nil {
				lgr.Error("cannot process block", zap.Error(err))
			}
		}
	}
}
