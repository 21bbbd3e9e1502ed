// Package api
package api

import (
	"context"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
)

type memberShare struct {
	Account string       `json:"account"`
	Shares  types.Shares `json:"shares"`
}

type registerOrgRequest struct {
	Sudo         *string  `json:"sudo"`
	Parent       *uint64  `json:"parent"`
	Constitution string   `json:"constitution"`
	Members      []string `json:"members"`
}

type registerWeightedOrgRequest struct {
	Sudo         *string       `json:"sudo"`
	Parent       *uint64       `json:"parent"`
	Constitution string        `json:"constitution"`
	Members      []memberShare `json:"members"`
}

type sharesRequest struct {
	Account string       `json:"account"`
	Amount  types.Shares `json:"amount"`
}

type batchSharesRequest struct {
	Batch []memberShare `json:"batch"`
}

func toAccountShares(in []memberShare) ([]shares.AccountShare, error) {
	out := make([]shares.AccountShare, 0, len(in))
	for _, m := range in {
		a, err := types.ParseAccount(m.Account)
		if err != nil {
			return nil, err
		}
		out = append(out, shares.AccountShare{Account: a, Shares: m.Shares})
	}
	return out, nil
}

func orgHeader(sudo *string, parent *uint64, constitution string) (*types.AccountID, *types.OrgID, types.Hash, error) {
	s, err := optionalAccount(sudo)
	if err != nil {
		return nil, nil, types.Hash{}, err
	}
	var p *types.OrgID
	if parent != nil {
		id := types.OrgID(*parent)
		p = &id
	}
	var h types.Hash
	if constitution != "" {
		if h, err = types.ParseHash(constitution); err != nil {
			return nil, nil, types.Hash{}, err
		}
	}
	return s, p, h, nil
}

// Organizations query params: ?page=1&limit=25
func (s *Server) Organizations(c echo.Context) error {
	pagination, page, limit := getPagingOption(c)
	orgs, total, err := s.gov.Organizations(context.Background(), pagination)
	if err != nil {
		s.logger.Warn("cannot get organizations", zap.Error(err))
		return Fail(c, err)
	}
	return OK.SetData(PagingResponse{
		Page:  page,
		Limit: limit,
		Total: total,
		Data:  orgs,
	}).Build(c)
}

func (s *Server) Organization(c echo.Context) error {
	id, err := uintParam(c, "orgID")
	if err != nil {
		return Invalid.Build(c)
	}
	summary, err := s.gov.Organization(context.Background(), types.OrgID(id))
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(summary).Build(c)
}

func (s *Server) Profile(c echo.Context) error {
	id, err := uintParam(c, "orgID")
	if err != nil {
		return Invalid.Build(c)
	}
	account, err := accountParam(c)
	if err != nil {
		return Fail(c, err)
	}
	profile, err := s.gov.Profile(context.Background(), types.OrgID(id), account)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(profile).Build(c)
}

func (s *Server) RegisterFlatOrg(c echo.Context) error {
	lgr := s.logger.With(zap.String("method", "RegisterFlatOrg"))
	from, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	var req registerOrgRequest
	if err := c.Bind(&req); err != nil {
		lgr.Debug("cannot bind request", zap.Error(err))
		return Invalid.Build(c)
	}
	sudo, parent, constitution, err := orgHeader(req.Sudo, req.Parent, req.Constitution)
	if err != nil {
		return Fail(c, err)
	}
	members := make([]types.AccountID, 0, len(req.Members))
	for _, m := range req.Members {
		a, err := types.ParseAccount(m)
		if err != nil {
			return Fail(c, err)
		}
		members = append(members, a)
	}
	ev, err := s.gov.RegisterFlatOrg(context.Background(), from, sudo, parent, constitution, members)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(ev).Build(c)
}

func (s *Server) RegisterWeightedOrg(c echo.Context) error {
	lgr := s.logger.With(zap.String("method", "RegisterWeightedOrg"))
	from, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	var req registerWeightedOrgRequest
	if err := c.Bind(&req); err != nil {
		lgr.Debug("cannot bind request", zap.Error(err))
		return Invalid.Build(c)
	}
	sudo, parent, constitution, err := orgHeader(req.Sudo, req.Parent, req.Constitution)
	if err != nil {
		return Fail(c, err)
	}
	members, err := toAccountShares(req.Members)
	if err != nil {
		return Fail(c, err)
	}
	ev, err := s.gov.RegisterWeightedOrg(context.Background(), from, sudo, parent, constitution, members)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(ev).Build(c)
}

type sharesCall func(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID,
	amount types.Shares) (interface{}, error)

func (s *Server) sharesAmount(c echo.Context, call sharesCall) error {
	from, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	id, err := uintParam(c, "orgID")
	if err != nil {
		return Invalid.Build(c)
	}
	var req sharesRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	who, err := types.ParseAccount(req.Account)
	if err != nil {
		return Fail(c, err)
	}
	ev, err := call(context.Background(), from, types.OrgID(id), who, req.Amount)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(ev).Build(c)
}

func (s *Server) IssueShares(c echo.Context) error {
	return s.sharesAmount(c, func(ctx context.Context, from types.AccountID, id types.OrgID, who types.AccountID,
		amount types.Shares) (interface{}, error) {
		return s.gov.IssueShares(ctx, from, id, who, amount)
	})
}

func (s *Server) BurnShares(c echo.Context) error {
	return s.sharesAmount(c, func(ctx context.Context, from types.AccountID, id types.OrgID, who types.AccountID,
		amount types.Shares) (interface{}, error) {
		return s.gov.BurnShares(ctx, from, id, who, amount)
	})
}

type batchCall func(ctx context.Context, caller types.AccountID, id types.OrgID, batch []shares.AccountShare) (interface{}, error)

func (s *Server) sharesBatch(c echo.Context, call batchCall) error {
	from, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	id, err := uintParam(c, "orgID")
	if err != nil {
		return Invalid.Build(c)
	}
	var req batchSharesRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	batch, err := toAccountShares(req.Batch)
	if err != nil {
		return Fail(c, err)
	}
	ev, err := call(context.Background(), from, types.OrgID(id), batch)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(ev).Build(c)
}

func (s *Server) BatchIssueShares(c echo.Context) error {
	return s.sharesBatch(c, func(ctx context.Context, from types.AccountID, id types.OrgID, batch []shares.AccountShare) (interface{}, error) {
		return s.gov.BatchIssueShares(ctx, from, id, batch)
	})
}

func (s *Server) BatchBurnShares(c echo.Context) error {
	return s.sharesBatch(c, func(ctx context.Context, from types.AccountID, id types.OrgID, batch []shares.AccountShare) (interface{}, error) {
		return s.gov.BatchBurnShares(ctx, from, id, batch)
	})
}

type profileCall func(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID) (interface{}, error)

// profileFlag serves the reserve, unreserve, lock and unlock routes.
func (s *Server) profileFlag(c echo.Context, call profileCall) error {
	from, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	id, err := uintParam(c, "orgID")
	if err != nil {
		return Invalid.Build(c)
	}
	who, err := accountParam(c)
	if err != nil {
		return Fail(c, err)
	}
	ev, err := call(context.Background(), from, types.OrgID(id), who)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(ev).Build(c)
}

func (s *Server) ReserveShares(c echo.Context) error {
	return s.profileFlag(c, func(ctx context.Context, from types.AccountID, id types.OrgID, who types.AccountID) (interface{}, error) {
		return s.gov.ReserveShares(ctx, from, id, who)
	})
}

func (s *Server) UnreserveShares(c echo.Context) error {
	return s.profileFlag(c, func(ctx context.Context, from types.AccountID, id types.OrgID, who types.AccountID) (interface{}, error) {
		return s.gov.UnreserveShares(ctx, from, id, who)
	})
}

func (s *Server) LockShares(c echo.Context) error {
	return s.profileFlag(c, func(ctx context.Context, from types.AccountID, id types.OrgID, who types.AccountID) (interface{}, error) {
		return s.gov.LockShares(ctx, from, id, who)
	})
}

func (s *Server) UnlockShares(c echo.Context) error {
	return s.profileFlag(c, func(ctx context.Context, from types.AccountID, id types.OrgID, who types.AccountID) (interface{}, error) {
		return s.gov.UnlockShares(ctx, from, id, who)
	})
}
