package database

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arcade-hub-api/pkg/config"
)

func TestPostgresDSN(t *testing.T) {
	dsn := postgresDSN(config.DatabaseConfig{
		Host:           "db",
		Port:           5432,
		User:           "arcade",
		Password:       "p@ss word",
		Name:           "arcade_hub",
		SSLMode:        "disable",
		ConnectTimeout: 3 * time.Second,
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/arcade_hub", u.Path)
	password, _ := u.User.Password()
	assert.Equal(t, "p@ss word", password)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "arcade-hub", u.Query().Get("application_name"))
	assert.Equal(t, "3", u.Query().Get("connect_timeout"))
}

func TestPoolSizeFollowsStoreDriver(t *testing.T) {
	cfg := config.DatabaseConfig{MaxOpenConns: 10, MaxIdleConns: 5}

	open, idle := poolSize(cfg, config.StoreDriverPostgres)
	assert.Equal(t, 10, open)
	assert.Equal(t, 5, idle)

	open, idle = poolSize(cfg, config.StoreDriverMongo)
	assert.Equal(t, 2, open)
	assert.Equal(t, 1, idle)

	open, _ = poolSize(config.DatabaseConfig{MaxOpenConns: 1}, config.StoreDriverMongo)
	assert.Equal(t, 1, open)
}

func TestConnectTimeoutDefault(t *testing.T) {
	assert.Equal(t, 5*time.Second, connectTimeout(config.DatabaseConfig{}))
	assert.Equal(t, 8*time.Second, connectTimeout(config.DatabaseConfig{ConnectTimeout: 8 * time.Second}))
}
