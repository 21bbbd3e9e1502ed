// Package api
package api

import (
	"context"

	"github.com/labstack/echo"

	"github.com/kardiachain/governance-backend/types"
)

type donationRequest struct {
	// Rep is "weighted" for a share-proportional split or "equal" for one part per member.
	Rep       string        `json:"rep"`
	Amount    types.Balance `json:"amount"`
	Remainder string        `json:"remainder"`
}

func (s *Server) Donate(c echo.Context) error {
	sender, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	id, err := uintParam(c, "orgID")
	if err != nil {
		return Invalid.Build(c)
	}
	var req donationRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	remainder := sender
	if req.Remainder != "" {
		if remainder, err = types.ParseAccount(req.Remainder); err != nil {
			return Fail(c, err)
		}
	}
	ctx := context.Background()
	switch req.Rep {
	case types.Weighted.String():
		ev, err := s.gov.MakePropDonation(ctx, sender, types.OrgID(id), remainder, req.Amount)
		if err != nil {
			return Fail(c, err)
		}
		return OK.SetData(ev).Build(c)
	case types.Equal.String():
		ev, err := s.gov.MakeEqualDonation(ctx, sender, types.OrgID(id), remainder, req.Amount)
		if err != nil {
			return Fail(c, err)
		}
		return OK.SetData(ev).Build(c)
	}
	return Invalid.SetMsg("unknown representation").Build(c)
}
