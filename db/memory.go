// Package db
package db

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

type memState struct {
	orgs     map[types.OrgID]types.Organization
	profiles map[types.OrgID]map[types.AccountID]shares.Record
	votes    map[types.VoteID]vote.Record
	receipts map[types.VoteID]map[types.AccountID]vote.Receipt
	banks    map[types.BankID]types.Bank
	spends   map[types.BankSpend]types.Spend
	disputes map[types.DisputeID]types.Dispute
	accounts map[types.AccountID]types.Account
	counters map[string]uint64
}

func newMemState() memState {
	return memState{
		orgs:     map[types.OrgID]types.Organization{},
		profiles: map[types.OrgID]map[types.AccountID]shares.Record{},
		votes:    map[types.VoteID]vote.Record{},
		receipts: map[types.VoteID]map[types.AccountID]vote.Receipt{},
		banks:    map[types.BankID]types.Bank{},
		spends:   map[types.BankSpend]types.Spend{},
		disputes: map[types.DisputeID]types.Dispute{},
		accounts: map[types.AccountID]types.Account{},
		counters: map[string]uint64{},
	}
}

// clone copies every map. Stored records are replaced wholesale, never mutated, so values are shared safely.
func (s memState) clone() memState {
	c := newMemState()
	for k, v := range s.orgs {
		c.orgs[k] = v
	}
	for org, members := range s.profiles {
		m := make(map[types.AccountID]shares.Record, len(members))
		for k, v := range members {
			m[k] = v
		}
		c.profiles[org] = m
	}
	for k, v := range s.votes {
		c.votes[k] = v
	}
	for id, voters := range s.receipts {
		m := make(map[types.AccountID]vote.Receipt, len(voters))
		for k, v := range voters {
			m[k] = v
		}
		c.receipts[id] = m
	}
	for k, v := range s.banks {
		c.banks[k] = v
	}
	for k, v := range s.spends {
		c.spends[k] = v
	}
	for k, v := range s.disputes {
		c.disputes[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	return c
}

type memoryDB struct {
	logger *zap.Logger

	txMu sync.Mutex
	mu   sync.RWMutex
	s    memState
}

func newMemoryDB(cfg Config) *memoryDB {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &memoryDB{logger: logger, s: newMemState()}
}

func (m *memoryDB) ping() error {
	return nil
}

func (m *memoryDB) dropDatabase(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = newMemState()
	return nil
}

type txKey struct{}

// RunInTx runs fn against a private copy of the state and swaps it in on success.
// Calls made with a context outside fn never observe uncommitted writes.
func (m *memoryDB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	working := m.s.clone()
	m.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, &working)); err != nil {
		return err
	}
	m.mu.Lock()
	m.s = working
	m.mu.Unlock()
	return nil
}

// state returns the transaction's working copy when ctx carries one, otherwise the committed state.
// A write outside a transaction waits for running transactions so it is not lost on their commit.
func (m *memoryDB) state(ctx context.Context, write bool) (*memState, func()) {
	if working, ok := ctx.Value(txKey{}).(*memState); ok {
		return working, func() {}
	}
	if write {
		m.txMu.Lock()
		m.mu.Lock()
		return &m.s, func() {
			m.mu.Unlock()
			m.txMu.Unlock()
		}
	}
	m.mu.RLock()
	return &m.s, m.mu.RUnlock
}

func window(total int, pagination *types.Pagination) (int, int) {
	if pagination == nil {
		return 0, total
	}
	return pagination.Window(total)
}

//region Org

func (m *memoryDB) InsertOrganization(ctx context.Context, org *types.Organization) error {
	st, done := m.state(ctx, true)
	defer done()
	if _, ok := st.orgs[org.ID]; ok {
		return types.ErrRecordExist
	}
	st.orgs[org.ID] = *org
	return nil
}

func (m *memoryDB) Organization(ctx context.Context, id types.OrgID) (*types.Organization, error) {
	st, done := m.state(ctx, false)
	defer done()
	o, ok := st.orgs[id]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return &o, nil
}

func (m *memoryDB) UpdateOrganization(ctx context.Context, org *types.Organization) error {
	st, done := m.state(ctx, true)
	defer done()
	if _, ok := st.orgs[org.ID]; !ok {
		return types.ErrRecordNotFound
	}
	st.orgs[org.ID] = *org
	return nil
}

func (m *memoryDB) Organizations(ctx context.Context, pagination *types.Pagination) ([]*types.Organization, uint64, error) {
	st, done := m.state(ctx, false)
	defer done()
	ids := make([]types.OrgID, 0, len(st.orgs))
	for id := range st.orgs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	start, end := window(len(ids), pagination)
	out := make([]*types.Organization, 0, end-start)
	for _, id := range ids[start:end] {
		o := st.orgs[id]
		out = append(out, &o)
	}
	return out, uint64(len(ids)), nil
}

func (m *memoryDB) UpsertProfile(ctx context.Context, profile *shares.Record) error {
	st, done := m.state(ctx, true)
	defer done()
	members, ok := st.profiles[profile.Org]
	if !ok {
		members = map[types.AccountID]shares.Record{}
		st.profiles[profile.Org] = members
	}
	members[profile.Account] = *profile
	return nil
}

func (m *memoryDB) Profile(ctx context.Context, org types.OrgID, account types.AccountID) (*shares.Record, error) {
	st, done := m.state(ctx, false)
	defer done()
	p, ok := st.profiles[org][account]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return &p, nil
}

func (m *memoryDB) RemoveProfile(ctx context.Context, org types.OrgID, account types.AccountID) error {
	st, done := m.state(ctx, true)
	defer done()
	delete(st.profiles[org], account)
	return nil
}

func (m *memoryDB) Profiles(ctx context.Context, org types.OrgID) ([]*shares.Record, error) {
	st, done := m.state(ctx, false)
	defer done()
	out := make([]*shares.Record, 0, len(st.profiles[org]))
	for _, p := range st.profiles[org] {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account.Hex() < out[j].Account.Hex() })
	return out, nil
}

//endregion Org

//region Vote

func (m *memoryDB) UpsertVote(ctx context.Context, record *vote.Record) error {
	st, done := m.state(ctx, true)
	defer done()
	st.votes[record.VoteID] = *record
	return nil
}

func (m *memoryDB) Vote(ctx context.Context, id types.VoteID) (*vote.Record, error) {
	st, done := m.state(ctx, false)
	defer done()
	r, ok := st.votes[id]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return &r, nil
}

func (m *memoryDB) Votes(ctx context.Context, pagination *types.Pagination) ([]*vote.Record, uint64, error) {
	st, done := m.state(ctx, false)
	defer done()
	ids := make([]types.VoteID, 0, len(st.votes))
	for id := range st.votes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	start, end := window(len(ids), pagination)
	out := make([]*vote.Record, 0, end-start)
	for _, id := range ids[start:end] {
		r := st.votes[id]
		out = append(out, &r)
	}
	return out, uint64(len(ids)), nil
}

func (m *memoryDB) UpsertReceipt(ctx context.Context, receipt *vote.Receipt) error {
	st, done := m.state(ctx, true)
	defer done()
	voters, ok := st.receipts[receipt.VoteID]
	if !ok {
		voters = map[types.AccountID]vote.Receipt{}
		st.receipts[receipt.VoteID] = voters
	}
	voters[receipt.Voter] = *receipt
	return nil
}

func (m *memoryDB) Receipt(ctx context.Context, id types.VoteID, voter types.AccountID) (*vote.Receipt, error) {
	st, done := m.state(ctx, false)
	defer done()
	r, ok := st.receipts[id][voter]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return &r, nil
}

func (m *memoryDB) Receipts(ctx context.Context, id types.VoteID) ([]*vote.Receipt, error) {
	st, done := m.state(ctx, false)
	defer done()
	out := make([]*vote.Receipt, 0, len(st.receipts[id]))
	for _, r := range st.receipts[id] {
		r := r
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Voter.Hex() < out[j].Voter.Hex() })
	return out, nil
}

//endregion Vote

//region Bank

func (m *memoryDB) UpsertBank(ctx context.Context, bank *types.Bank) error {
	st, done := m.state(ctx, true)
	defer done()
	st.banks[bank.ID] = *bank
	return nil
}

func (m *memoryDB) Bank(ctx context.Context, id types.BankID) (*types.Bank, error) {
	st, done := m.state(ctx, false)
	defer done()
	b, ok := st.banks[id]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return &b, nil
}

func (m *memoryDB) Banks(ctx context.Context, pagination *types.Pagination) ([]*types.Bank, uint64, error) {
	st, done := m.state(ctx, false)
	defer done()
	ids := make([]types.BankID, 0, len(st.banks))
	for id := range st.banks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	start, end := window(len(ids), pagination)
	out := make([]*types.Bank, 0, end-start)
	for _, id := range ids[start:end] {
		b := st.banks[id]
		out = append(out, &b)
	}
	return out, uint64(len(ids)), nil
}

func (m *memoryDB) CountBanks(ctx context.Context, org types.OrgID) (uint64, error) {
	st, done := m.state(ctx, false)
	defer done()
	var n uint64
	for _, b := range st.banks {
		if b.Org == org {
			n++
		}
	}
	return n, nil
}

func (m *memoryDB) UpsertSpend(ctx context.Context, spend *types.Spend) error {
	st, done := m.state(ctx, true)
	defer done()
	st.spends[spend.Key()] = *spend
	return nil
}

func (m *memoryDB) Spend(ctx context.Context, key types.BankSpend) (*types.Spend, error) {
	st, done := m.state(ctx, false)
	defer done()
	s, ok := st.spends[key]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return &s, nil
}

func (m *memoryDB) Spends(ctx context.Context, bank types.BankID, pagination *types.Pagination) ([]*types.Spend, uint64, error) {
	st, done := m.state(ctx, false)
	defer done()
	var all []*types.Spend
	for _, s := range st.spends {
		if s.Bank == bank {
			s := s
			all = append(all, &s)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start, end := window(len(all), pagination)
	return all[start:end], uint64(len(all)), nil
}

func (m *memoryDB) SpendsByState(ctx context.Context, state types.SpendState) ([]*types.Spend, error) {
	st, done := m.state(ctx, false)
	defer done()
	var out []*types.Spend
	for _, s := range st.spends {
		if s.State == state {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bank != out[j].Bank {
			return out[i].Bank < out[j].Bank
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

//endregion Bank

//region Court

func (m *memoryDB) UpsertDispute(ctx context.Context, dispute *types.Dispute) error {
	st, done := m.state(ctx, true)
	defer done()
	st.disputes[dispute.ID] = *dispute
	return nil
}

func (m *memoryDB) Dispute(ctx context.Context, id types.DisputeID) (*types.Dispute, error) {
	st, done := m.state(ctx, false)
	defer done()
	d, ok := st.disputes[id]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return &d, nil
}

func (m *memoryDB) Disputes(ctx context.Context, pagination *types.Pagination) ([]*types.Dispute, uint64, error) {
	st, done := m.state(ctx, false)
	defer done()
	ids := make([]types.DisputeID, 0, len(st.disputes))
	for id := range st.disputes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	start, end := window(len(ids), pagination)
	out := make([]*types.Dispute, 0, end-start)
	for _, id := range ids[start:end] {
		d := st.disputes[id]
		out = append(out, &d)
	}
	return out, uint64(len(ids)), nil
}

func (m *memoryDB) DisputesByState(ctx context.Context, state types.DisputeState) ([]*types.Dispute, error) {
	st, done := m.state(ctx, false)
	defer done()
	var out []*types.Dispute
	for _, d := range st.disputes {
		if d.State == state {
			d := d
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

//endregion Court

//region Balance

func (m *memoryDB) Account(ctx context.Context, id types.AccountID) (*types.Account, error) {
	st, done := m.state(ctx, false)
	defer done()
	a, ok := st.accounts[id]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return &a, nil
}

func (m *memoryDB) UpsertAccount(ctx context.Context, account *types.Account) error {
	st, done := m.state(ctx, true)
	defer done()
	st.accounts[account.ID] = *account
	return nil
}

func (m *memoryDB) RemoveAccount(ctx context.Context, id types.AccountID) error {
	st, done := m.state(ctx, true)
	defer done()
	delete(st.accounts, id)
	return nil
}

//endregion Balance

//region Counter

func (m *memoryDB) NextID(ctx context.Context, counter string) (uint64, error) {
	st, done := m.state(ctx, true)
	defer done()
	next := st.counters[counter] + 1
	st.counters[counter] = next
	return next, nil
}

func (m *memoryDB) Counter(ctx context.Context, counter string) (uint64, error) {
	st, done := m.state(ctx, false)
	defer done()
	return st.counters[counter], nil
}

func (m *memoryDB) SetCounter(ctx context.Context, counter string, value uint64) error {
	st, done := m.state(ctx, true)
	defer done()
	st.counters[counter] = value
	return nil
}

//endregion Counter
