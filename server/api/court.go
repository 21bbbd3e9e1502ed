// Package api
package api

import (
	"context"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/types"
)

type registerDisputeRequest struct {
	Amount     types.Balance        `json:"amount"`
	Raiser     string               `json:"raiser"`
	Resolution types.ResolutionPath `json:"resolution"`
}

// Disputes query params: ?page=1&limit=25
func (s *Server) Disputes(c echo.Context) error {
	pagination, page, limit := getPagingOption(c)
	disputes, total, err := s.gov.Disputes(context.Background(), pagination)
	if err != nil {
		s.logger.Warn("cannot get disputes", zap.Error(err))
		return Fail(c, err)
	}
	return OK.SetData(PagingResponse{
		Page:  page,
		Limit: limit,
		Total: total,
		Data:  disputes,
	}).Build(c)
}

func (s *Server) Dispute(c echo.Context) error {
	id, err := uintParam(c, "disputeID")
	if err != nil {
		return Invalid.Build(c)
	}
	d, err := s.gov.Dispute(context.Background(), types.DisputeID(id))
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(d).Build(c)
}

// RegisterDispute locks the caller's funds behind a resolution path.
func (s *Server) RegisterDispute(c echo.Context) error {
	locker, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	var req registerDisputeRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	raiser, err := types.ParseAccount(req.Raiser)
	if err != nil {
		return Fail(c, err)
	}
	ev, err := s.gov.RegisterDispute(context.Background(), locker, req.Amount, raiser, req.Resolution)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(ev).Build(c)
}

func (s *Server) RaiseDispute(c echo.Context) error {
	from, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	id, err := uintParam(c, "disputeID")
	if err != nil {
		return Invalid.Build(c)
	}
	ev, err := s.gov.RaiseDispute(context.Background(), from, types.DisputeID(id))
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(ev).Build(c)
}

func (s *Server) PollDispute(c echo.Context) error {
	from, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	id, err := uintParam(c, "disputeID")
	if err != nil {
		return Invalid.Build(c)
	}
	ev, err := s.gov.PollDispute(context.Background(), from, types.DisputeID(id))
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(eventBody{Name: ev.EventName(), Data: ev}).Build(c)
}
