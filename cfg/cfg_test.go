package cfg

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setenv(t *testing.T, kv map[string]string) {
	for k, v := range kv {
		old, had := os.LookupEnv(k)
		require.NoError(t, os.Setenv(k, v))
		k := k
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, old)
				return
			}
			_ = os.Unsetenv(k)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	setenv(t, map[string]string{
		"STORAGE_DRIVER":      "",
		"PORT":                "",
		"BLOCK_INTERVAL":      "",
		"EXISTENTIAL_DEPOSIT": "",
		"BANK_MIN_DEPOSIT":    "oops",
	})
	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, "memory", c.StorageDriver)
	assert.Equal(t, "3000", c.Port)
	assert.Equal(t, 5*time.Second, c.BlockInterval)
	assert.Equal(t, uint64(1), c.ExistentialDeposit)
	assert.Equal(t, uint64(20), c.BankMinDeposit)
	assert.Equal(t, uint64(50), c.BankMaxPerOrg)
	assert.Equal(t, uint64(10), c.CourtMinDispute)
}

func TestNew_FromEnv(t *testing.T) {
	setenv(t, map[string]string{
		"STORAGE_DRIVER":      "mgo",
		"STORAGE_URI":         "mongodb://127.0.0.1:27017",
		"BLOCK_INTERVAL":      "250ms",
		"POLLER_POOL_SIZE":    "3",
		"COURT_MIN_DISPUTE":   "25",
		"CACHE_ENGINE":        "redis",
		"CACHE_DB":            "4",
		"SPEND_VOTE_DURATION": "12",
	})
	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, "mgo", c.StorageDriver)
	assert.Equal(t, 250*time.Millisecond, c.BlockInterval)
	assert.Equal(t, 3, c.PollerPoolSize)
	assert.Equal(t, uint64(25), c.CourtMinDispute)
	assert.Equal(t, "redis", c.CacheEngine)
	assert.Equal(t, 4, c.CacheDB)
	assert.Equal(t, uint64(12), c.SpendVoteDuration)
}
