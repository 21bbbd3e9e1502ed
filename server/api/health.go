// Package api
package api

import (
	"context"
	"strconv"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/cfg"
	"github.com/kardiachain/governance-backend/types"
)

func (s *Server) Ping(c echo.Context) error {
	type pingStat struct {
		Version string `json:"version"`
	}
	stats := &pingStat{Version: cfg.ServerVersion}
	return OK.SetData(stats).Build(c)
}

func (s *Server) Status(c echo.Context) error {
	type status struct {
		Block types.BlockNumber `json:"block"`
	}
	return OK.SetData(&status{Block: s.gov.LatestBlockHeight(context.Background())}).Build(c)
}

// Events returns the latest published events, newest first. Query params: ?limit=25
func (s *Server) Events(c echo.Context) error {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = 25
	}
	if limit > types.MaximumLimit {
		limit = types.MaximumLimit
	}
	records, err := s.gov.Events(context.Background(), limit)
	if err != nil {
		s.logger.Warn("cannot get events", zap.Error(err))
		return InternalServer.Build(c)
	}
	return OK.SetData(records).Build(c)
}
