/*
 *  Copyright 2018 KardiaChain
 *  This file is part of the go-kardia library.
 *
 *  The go-kardia library is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU Lesser General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  The go-kardia library is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 *  GNU Lesser General Public License for more details.
 *
 *  You should have received a copy of the GNU Lesser General Public License
 *  along with the go-kardia library. If not, see <http://www.gnu.org/licenses/>.
 */

// Package cfg
package cfg

import (
	"os"
	"strconv"
	"time"
)

const (
	ModeDev        = "dev"
	ModeProduction = "prod"
)

const ServerVersion = "1.0.0"

type GovernanceConfig struct {
	ServerMode        string
	Port              string
	HttpRequestSecret string

	LogLevel  string
	SentryDSN string

	CacheEngine      string
	CacheURL         string
	CacheDB          int
	CachePassword    string
	CacheIsFlush     bool
	CacheExpiredTime time.Duration

	StorageDriver  string
	StorageURI     string
	StorageDB      string
	StorageMinConn int
	StorageMaxConn int
	StorageIsFlush bool

	BlockInterval  time.Duration
	PollerPoolSize int
	EventBuffer    int64
	GenesisFile    string

	ExistentialDeposit uint64
	BankMinDeposit     uint64
	BankMaxPerOrg      uint64
	CourtMinDispute    uint64
	// SpendVoteDuration in blocks, zero keeps spend votes open until decided.
	SpendVoteDuration uint64
}

func New() (GovernanceConfig, error) {
	cacheExpiredTimeStr := os.Getenv("CACHE_EXPIRED_TIME")
	cacheExpiredTime, err := time.ParseDuration(cacheExpiredTimeStr)
	if err != nil {
		cacheExpiredTime = 10 * time.Minute
	}

	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		cacheDB = 0
	}

	cacheIsFlushStr := os.Getenv("CACHE_IS_FLUSH")
	cacheIsFlush, err := strconv.ParseBool(cacheIsFlushStr)
	if err != nil {
		cacheIsFlush = false
	}

	storageMinConnStr := os.Getenv("STORAGE_MIN_CONN")
	storageMinConn, err := strconv.Atoi(storageMinConnStr)
	if err != nil {
		storageMinConn = 8
	}

	storageMaxConnStr := os.Getenv("STORAGE_MAX_CONN")
	storageMaxConn, err := strconv.Atoi(storageMaxConnStr)
	if err != nil {
		storageMaxConn = 32
	}

	storageIsFlushStr := os.Getenv("STORAGE_IS_FLUSH")
	storageIsFLush, err := strconv.ParseBool(storageIsFlushStr)
	if err != nil {
		storageIsFLush = false
	}

	blockIntervalStr := os.Getenv("BLOCK_INTERVAL")
	blockInterval, err := time.ParseDuration(blockIntervalStr)
	if err != nil {
		blockInterval = 5 * time.Second
	}

	pollerPoolSizeStr := os.Getenv("POLLER_POOL_SIZE")
	pollerPoolSize, err := strconv.Atoi(pollerPoolSizeStr)
	if err != nil || pollerPoolSize <= 0 {
		pollerPoolSize = 8
	}

	eventBufferStr := os.Getenv("EVENT_BUFFER")
	eventBuffer, err := strconv.ParseInt(eventBufferStr, 10, 64)
	if err != nil || eventBuffer <= 0 {
		eventBuffer = 1000
	}

	storageDriver := os.Getenv("STORAGE_DRIVER")
	if storageDriver == "" {
		storageDriver = "memory"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	cfg := GovernanceConfig{
		ServerMode:        os.Getenv("SERVER_MODE"),
		Port:              port,
		HttpRequestSecret: os.Getenv("HTTP_REQUEST_SECRET"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		SentryDSN:         os.Getenv("SENTRY_DSN"),

		CacheEngine:      os.Getenv("CACHE_ENGINE"),
		CacheURL:         os.Getenv("CACHE_URI"),
		CacheDB:          cacheDB,
		CachePassword:    os.Getenv("CACHE_PASSWORD"),
		CacheIsFlush:     cacheIsFlush,
		CacheExpiredTime: cacheExpiredTime,

		StorageDriver:  storageDriver,
		StorageURI:     os.Getenv("STORAGE_URI"),
		StorageDB:      os.Getenv("STORAGE_DB"),
		StorageMinConn: storageMinConn,
		StorageMaxConn: storageMaxConn,
		StorageIsFlush: storageIsFLush,

		BlockInterval:  blockInterval,
		PollerPoolSize: pollerPoolSize,
		EventBuffer:    eventBuffer,
		GenesisFile:    os.Getenv("GENESIS_FILE"),

		ExistentialDeposit: envUint64("EXISTENTIAL_DEPOSIT", 1),
		BankMinDeposit:     envUint64("BANK_MIN_DEPOSIT", 20),
		BankMaxPerOrg:      envUint64("BANK_MAX_PER_ORG", 50),
		CourtMinDispute:    envUint64("COURT_MIN_DISPUTE", 10),
		SpendVoteDuration:  envUint64("SPEND_VOTE_DURATION", 0),
	}

	return cfg, nil
}

func envUint64(key string, def uint64) uint64 {
	v, err := strconv.ParseUint(os.Getenv(key), 10, 64)
	if err != nil {
		return def
	}
	return v
}
