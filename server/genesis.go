package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/types"
)

// Genesis seeds balances and the root organization. Accounts are hex addresses or decimal shorthands.
type Genesis struct {
	Balances     []GenesisBalance `json:"balances"`
	Organization GenesisOrg       `json:"organization"`
}

type GenesisBalance struct {
	Account string        `json:"account"`
	Balance types.Balance `json:"balance"`
}

type GenesisOrg struct {
	Supervisor   string   `json:"supervisor"`
	Constitution string   `json:"constitution"`
	Members      []string `json:"members"`
}

func LoadGenesis(path string) (*Genesis, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var g Genesis
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidGenesis, err)
	}
	return &g, nil
}

// ApplyGenesis is a no-op once an organization exists, so restarts keep their state.
func (s *Server) ApplyGenesis(ctx context.Context, g *Genesis) (bool, error) {
	count, err := s.orgs.OrganizationCounter(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		s.logger.Info("Genesis already applied", zap.Uint64("organizations", count))
		return false, nil
	}

	supervisor, err := types.ParseAccount(g.Organization.Supervisor)
	if err != nil {
		return false, err
	}
	var constitution types.Hash
	if g.Organization.Constitution != "" {
		if constitution, err = types.ParseHash(g.Organization.Constitution); err != nil {
			return false, err
		}
	}
	members := make([]types.AccountID, 0, len(g.Organization.Members))
	for _, m := range g.Organization.Members {
		member, err := types.ParseAccount(m)
		if err != nil {
			return false, err
		}
		members = append(members, member)
	}
	if len(members) == 0 {
		return false, fmt.Errorf("genesis organization: %w", types.ErrEmptyOrganization)
	}

	_, err = s.dispatch(ctx, "genesis", func(ctx context.Context) ([]types.Event, error) {
		for _, b := range g.Balances {
			acc, err := types.ParseAccount(b.Account)
			if err != nil {
				return nil, err
			}
			if err := s.ledger.Deposit(ctx, acc, b.Balance); err != nil {
				return nil, err
			}
		}
		ev, err := s.orgs.RegisterGenesisOrg(ctx, supervisor, constitution, members)
		if err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
