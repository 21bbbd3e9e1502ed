// Package api
package api

import (
	"context"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/types"
)

type openBankRequest struct {
	Org      types.OrgID   `json:"org"`
	Seed     types.Balance `json:"seed"`
	Operator *string       `json:"operator"`
}

type proposeSpendRequest struct {
	Amount types.Balance `json:"amount"`
	Dest   string        `json:"dest"`
}

// Banks query params: ?page=1&limit=25
func (s *Server) Banks(c echo.Context) error {
	pagination, page, limit := getPagingOption(c)
	banks, total, err := s.gov.Banks(context.Background(), pagination)
	if err != nil {
		s.logger.Warn("cannot get banks", zap.Error(err))
		return Fail(c, err)
	}
	return OK.SetData(PagingResponse{
		Page:  page,
		Limit: limit,
		Total: total,
		Data:  banks,
	}).Build(c)
}

func (s *Server) Bank(c echo.Context) error {
	id, err := uintParam(c, "bankID")
	if err != nil {
		return Invalid.Build(c)
	}
	b, err := s.gov.Bank(context.Background(), types.BankID(id))
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(b).Build(c)
}

func (s *Server) OpenBankAccount(c echo.Context) error {
	from, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	var req openBankRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	operator, err := optionalAccount(req.Operator)
	if err != nil {
		return Fail(c, err)
	}
	ev, err := s.gov.OpenBankAccount(context.Background(), from, req.Org, req.Seed, operator)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(ev).Build(c)
}

// Spends query params: ?page=1&limit=25
func (s *Server) Spends(c echo.Context) error {
	id, err := uintParam(c, "bankID")
	if err != nil {
		return Invalid.Build(c)
	}
	pagination, page, limit := getPagingOption(c)
	spends, total, err := s.gov.Spends(context.Background(), types.BankID(id), pagination)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(PagingResponse{
		Page:  page,
		Limit: limit,
		Total: total,
		Data:  spends,
	}).Build(c)
}

func (s *Server) Spend(c echo.Context) error {
	key, err := bankSpendParam(c)
	if err != nil {
		return Invalid.Build(c)
	}
	spend, err := s.gov.Spend(context.Background(), key)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(spend).Build(c)
}

func (s *Server) ProposeSpend(c echo.Context) error {
	from, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	id, err := uintParam(c, "bankID")
	if err != nil {
		return Invalid.Build(c)
	}
	var req proposeSpendRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	dest, err := types.ParseAccount(req.Dest)
	if err != nil {
		return Fail(c, err)
	}
	ev, err := s.gov.ProposeSpend(context.Background(), from, types.BankID(id), req.Amount, dest)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(ev).Build(c)
}

func (s *Server) TriggerSpendVote(c echo.Context) error {
	key, err := bankSpendParam(c)
	if err != nil {
		return Invalid.Build(c)
	}
	ev, err := s.gov.TriggerSpendVote(context.Background(), key)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(ev).Build(c)
}

func (s *Server) PollSpend(c echo.Context) error {
	key, err := bankSpendParam(c)
	if err != nil {
		return Invalid.Build(c)
	}
	ev, err := s.gov.PollSpend(context.Background(), key)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(eventBody{Name: ev.EventName(), Data: ev}).Build(c)
}

func (s *Server) SudoApproveSpend(c echo.Context) error {
	from, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	key, err := bankSpendParam(c)
	if err != nil {
		return Invalid.Build(c)
	}
	ev, err := s.gov.SudoApproveSpend(context.Background(), from, key)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(ev).Build(c)
}

// eventBody names the event when a call can end in more than one way.
type eventBody struct {
	Name string      `json:"name"`
	Data types.Event `json:"data"`
}
