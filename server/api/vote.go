// Package api
package api

import (
	"context"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

type submitVoteRequest struct {
	Direction     string `json:"direction"`
	Justification string `json:"justification"`
}

type submitVoteResponse struct {
	Submitted *types.VoteSubmitted      `json:"submitted"`
	Outcome   *types.VoteOutcomeReached `json:"outcome,omitempty"`
}

// Votes query params: ?page=1&limit=25
func (s *Server) Votes(c echo.Context) error {
	pagination, page, limit := getPagingOption(c)
	votes, total, err := s.gov.Votes(context.Background(), pagination)
	if err != nil {
		s.logger.Warn("cannot get votes", zap.Error(err))
		return Fail(c, err)
	}
	return OK.SetData(PagingResponse{
		Page:  page,
		Limit: limit,
		Total: total,
		Data:  votes,
	}).Build(c)
}

func (s *Server) Vote(c echo.Context) error {
	id, err := uintParam(c, "voteID")
	if err != nil {
		return Invalid.Build(c)
	}
	rec, err := s.gov.Vote(context.Background(), types.VoteID(id))
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(rec).Build(c)
}

func (s *Server) Receipts(c echo.Context) error {
	id, err := uintParam(c, "voteID")
	if err != nil {
		return Invalid.Build(c)
	}
	receipts, err := s.gov.Receipts(context.Background(), types.VoteID(id))
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(receipts).Build(c)
}

func (s *Server) SubmitVote(c echo.Context) error {
	voter, err := caller(c)
	if err != nil {
		return Unauthorized.Build(c)
	}
	id, err := uintParam(c, "voteID")
	if err != nil {
		return Invalid.Build(c)
	}
	var req submitVoteRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	direction, err := vote.ParseVoterView(req.Direction)
	if err != nil {
		return Invalid.SetMsg(err.Error()).Build(c)
	}
	justification, err := optionalHash(req.Justification)
	if err != nil {
		return Fail(c, err)
	}
	submitted, outcome, err := s.gov.SubmitVote(context.Background(), voter, types.VoteID(id), direction, justification)
	if err != nil {
		return Fail(c, err)
	}
	return OK.SetData(submitVoteResponse{Submitted: submitted, Outcome: outcome}).Build(c)
}
