// Package api
package api

import (
	"context"

	"github.com/labstack/echo"

	"github.com/kardiachain/governance-backend/types"
)

type transferRequest struct {
	To     string        `json:"to"`
	Amount types.Balance `json:"amount"`
}

func (s *Server) Balance(c echo.Context) error {
	account, err := accountParam(c)
	if err != nil {
		return Fail(c, err)
	}
	acc, err := s.gov.Balance(context.Background(), account)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(acc).Build(c)
}

func (s *Server) Transfer(c echo.Context) error {
	from, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	to, err := types.ParseAccount(req.To)
	if err != nil {
		return Fail(c, err)
	}
	ev, err := s.gov.Transfer(context.Background(), from, to, req.Amount)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(ev).Build(c)
}
