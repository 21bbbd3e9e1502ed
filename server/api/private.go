// Package api
package api

import (
	"context"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/server"
)

type IPrivate interface {
	// Admin sector
	NextBlock(c echo.Context) error
	ApplyGenesis(c echo.Context) error
}

func bindPrivateAPIs(gr *echo.Group, srv RestServer) {
	apis := []restDefinition{
		{
			method:      echo.PUT,
			path:        "/admin/blocks/next",
			fn:          srv.NextBlock,
			middlewares: nil,
		},
		{
			method:      echo.POST,
			path:        "/admin/genesis",
			fn:          srv.ApplyGenesis,
			middlewares: nil,
		},
	}
	register(gr, apis)
}

// NextBlock advances the chain by one block and polls every open vote.
func (s *Server) NextBlock(c echo.Context) error {
	lgr := s.logger.With(zap.String("method", "NextBlock"))
	if !s.isAdmin(c) {
		lgr.Warn("Cannot authorization request")
		return Unauthorized.Build(c)
	}
	closed, err := s.gov.OnBlock(context.Background())
	if err != nil {
		lgr.Error("cannot advance block", zap.Error(err))
		return Fail(c, err)
	}
	type blockResult struct {
		Block  uint64 `json:"block"`
		Closed int    `json:"closed"`
	}
	return OK.SetData(&blockResult{Block: uint64(s.gov.BlockNumber()), Closed: closed}).Build(c)
}

func (s *Server) ApplyGenesis(c echo.Context) error {
	lgr := s.logger.With(zap.String("method", "ApplyGenesis"))
	if !s.isAdmin(c) {
		lgr.Warn("Cannot authorization request")
		return Unauthorized.Build(c)
	}
	var g server.Genesis
	if err := c.Bind(&g); err != nil {
		lgr.Error("cannot bind genesis", zap.Error(err))
		return Invalid.Build(c)
	}
	applied, err := s.gov.ApplyGenesis(context.Background(), &g)
	if err != nil {
		return Fail(c, err)
	}
	type genesisResult struct {
		Applied bool `json:"applied"`
	}
	return OK.SetData(&genesisResult{Applied: applied}).Build(c)
}
