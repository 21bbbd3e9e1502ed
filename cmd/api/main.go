// Package main
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/cache"
	"github.com/kardiachain/governance-backend/cfg"
	"github.com/kardiachain/governance-backend/db"
	"github.com/kardiachain/governance-backend/server"
	"github.com/kardiachain/governance-backend/server/api"
	"github.com/kardiachain/governance-backend/types"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading config from environment")
	}

	serviceCfg, err := cfg.New()
	if err != nil {
		panic(err.Error())
	}

	if err := setupSentry(serviceCfg); err != nil {
		panic(err)
	}
	defer sentry.Flush(2 * time.Second)

	logger, err := newLogger(serviceCfg)
	if err != nil {
		panic("cannot init logger")
	}
	logger.Info("Start governance server...")

	defer func() {
		if err := recover(); err != nil {
			logger.Error("cannot recover")
		}
		if err := logger.Sync(); err != nil {
			logger.Error("cannot sync log")
		}
	}()

	srvConfig := server.Config{
		StorageAdapter: db.Adapter(serviceCfg.StorageDriver),
		StorageURI:     serviceCfg.StorageURI,
		StorageDB:      serviceCfg.StorageDB,
		StorageMinConn: serviceCfg.StorageMinConn,
		StorageMaxConn: serviceCfg.StorageMaxConn,
		StorageIsFlush: serviceCfg.StorageIsFlush,

		CacheAdapter:     cache.Adapter(serviceCfg.CacheEngine),
		CacheURL:         serviceCfg.CacheURL,
		CacheDB:          serviceCfg.CacheDB,
		CachePassword:    serviceCfg.CachePassword,
		CacheIsFlush:     serviceCfg.CacheIsFlush,
		CacheExpiredTime: serviceCfg.CacheExpiredTime,
		EventBuffer:      serviceCfg.EventBuffer,

		ExistentialDeposit: types.Balance(serviceCfg.ExistentialDeposit),
		BankMinDeposit:     types.Balance(serviceCfg.BankMinDeposit),
		BankMaxPerOrg:      serviceCfg.BankMaxPerOrg,
		CourtMinDispute:    types.Balance(serviceCfg.CourtMinDispute),

		PollerPoolSize:    serviceCfg.PollerPoolSize,
		HttpRequestSecret: serviceCfg.HttpRequestSecret,
		Logger:            logger,
	}
	if serviceCfg.SpendVoteDuration > 0 {
		d := types.BlockNumber(serviceCfg.SpendVoteDuration)
		srvConfig.SpendVoteDuration = &d
	}
	srv, err := server.New(srvConfig)
	if err != nil {
		log.Panicf("cannot create server instance %s", err.Error())
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if serviceCfg.GenesisFile != "" {
		g, err := server.LoadGenesis(serviceCfg.GenesisFile)
		if err != nil {
			log.Panicf("cannot load genesis %s", err.Error())
		}
		if _, err := srv.ApplyGenesis(ctx, g); err != nil {
			log.Panicf("cannot apply genesis %s", err.Error())
		}
	}

	go srv.Run(ctx, serviceCfg.BlockInterval)

	e := echo.New()
	restSrv := api.NewServer().
		SetGovernance(srv).
		SetSecret(serviceCfg.HttpRequestSecret).
		SetLogger(logger.With(zap.String("service", "api")))
	go func() {
		if err := api.Start(e, restSrv, serviceCfg.Port); err != nil {
			logger.Info("API server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("cannot shutdown API server", zap.Error(err))
	}
}

func setupSentry(cfg cfg.GovernanceConfig) error {
	opts := sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.ServerMode,
	}
	if err := sentry.Init(opts); err != nil {
		return err
	}
	return nil
}
