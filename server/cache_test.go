// Package server
package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/db"
	"github.com/kardiachain/governance-backend/events"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

// memCache is a cache.Client kept in process memory.
type memCache struct {
	*events.Ring

	mu     sync.Mutex
	votes  map[types.VoteID]vote.Record
	height types.BlockNumber

	// beforeFill runs once, ahead of the first stored vote record.
	beforeFill func()
}

func newMemCache() *memCache {
	return &memCache{Ring: events.NewRing(64), votes: map[types.VoteID]vote.Record{}}
}

func (c *memCache) VoteState(ctx context.Context, id types.VoteID) (*vote.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.votes[id]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return &rec, nil
}

func (c *memCache) UpdateVoteState(ctx context.Context, record *vote.Record) error {
	c.mu.Lock()
	hook := c.beforeFill
	c.beforeFill = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.votes[record.VoteID] = *record
	return nil
}

func (c *memCache) InvalidateVote(ctx context.Context, id types.VoteID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.votes, id)
	return nil
}

func (c *memCache) LatestBlockHeight(ctx context.Context) (types.BlockNumber, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height, nil
}

func (c *memCache) UpdateLatestBlockHeight(ctx context.Context, height types.BlockNumber) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height = height
	return nil
}

func createCachedTestSrv(t *testing.T, c *memCache) *Server {
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	dbClient, err := db.NewClient(db.Config{DbAdapter: db.Memory, Logger: logger})
	require.NoError(t, err)
	srv, err := newServer(Config{Logger: logger, EventBuffer: 64}, dbClient, c)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	applied, err := srv.ApplyGenesis(context.Background(), testGenesis())
	require.NoError(t, err)
	require.True(t, applied)
	return srv
}

func openSpendVote(t *testing.T, srv *Server) types.VoteID {
	ctx := context.Background()
	_, err := srv.OpenBankAccount(ctx, acc(1), 1, 20, nil)
	require.NoError(t, err)
	_, err = srv.ProposeSpend(ctx, acc(1), 1, 10, acc(3))
	require.NoError(t, err)
	triggered, err := srv.TriggerSpendVote(ctx, types.NewBankSpend(1, 1))
	require.NoError(t, err)
	return triggered.VoteID
}

func TestServer_VoteCacheNeverServesOlderTally(t *testing.T) {
	c := newMemCache()
	srv := createCachedTestSrv(t, c)
	ctx := context.Background()
	id := openSpendVote(t, srv)

	// a ballot lands while the first read is filling the cache
	submitted := make(chan error, 1)
	c.beforeFill = func() {
		go func() {
			_, _, err := srv.SubmitVote(ctx, acc(2), id, vote.InFavor, nil)
			submitted <- err
		}()
		select {
		case err := <-submitted:
			submitted <- err
		case <-time.After(200 * time.Millisecond):
		}
	}

	first, err := srv.Vote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.Signal(0), first.InFavor)
	require.NoError(t, <-submitted)

	stored, err := srv.votes.Record(ctx, id)
	require.NoError(t, err)
	require.Equal(t, types.Signal(1), stored.InFavor)

	served, err := srv.Vote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, stored.InFavor, served.InFavor)
	assert.Equal(t, stored.Turnout, served.Turnout)
}

func TestServer_VoteCacheInvalidatedOnBallot(t *testing.T) {
	c := newMemCache()
	srv := createCachedTestSrv(t, c)
	ctx := context.Background()
	id := openSpendVote(t, srv)

	_, err := srv.Vote(ctx, id)
	require.NoError(t, err)
	_, err = c.VoteState(ctx, id)
	require.NoError(t, err)

	_, _, err = srv.SubmitVote(ctx, acc(3), id, vote.Against, nil)
	require.NoError(t, err)
	_, err = c.VoteState(ctx, id)
	assert.ErrorIs(t, err, types.ErrRecordNotFound)

	rec, err := srv.Vote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.Signal(1), rec.Against)
}

func TestServer_LatestBlockHeight(t *testing.T) {
	c := newMemCache()
	srv := createCachedTestSrv(t, c)
	ctx := context.Background()

	assert.Equal(t, types.BlockNumber(0), srv.LatestBlockHeight(ctx))
	_, err := srv.OnBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.BlockNumber(1), srv.LatestBlockHeight(ctx))

	// another instance sharing the cache produced further blocks
	require.NoError(t, c.UpdateLatestBlockHeight(ctx, 42))
	assert.Equal(t, types.BlockNumber(42), srv.LatestBlockHeight(ctx))
	assert.Equal(t, types.BlockNumber(1), srv.BlockNumber())

	plain := createTestSrv(t, Config{})
	_, err = plain.OnBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.BlockNumber(1), plain.LatestBlockHeight(ctx))
}

func TestServer_PollSkipsUndecidedWithoutLocking(t *testing.T) {
	srv := createTestSrv(t, Config{})
	ctx := context.Background()
	openSpendVote(t, srv)

	srv.mu.Lock()
	defer srv.mu.Unlock()

	done := make(chan int, 1)
	go func() {
		closed, err := srv.pollUnderVote(ctx)
		assert.NoError(t, err)
		done <- closed
	}()
	select {
	case closed := <-done:
		assert.Equal(t, 0, closed)
	case <-time.After(2 * time.Second):
		t.Fatal("undecided proposals waited on the call lock")
	}
}
