package database

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/arcade-hub-api/pkg/config"
)

// With the Mongo content store Postgres only holds console accounts, sessions
// and audit rows, so a couple of connections is plenty.
const (
	authOnlyMaxOpen = 2
	authOnlyMaxIdle = 1
)

// NewPostgres opens the Postgres pool and pings it within cfg.ConnectTimeout.
// storeDriver decides how much of the content traffic the pool will carry.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig, storeDriver string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", postgresDSN(cfg))
	if err != nil {
		return nil, err
	}

	maxOpen, maxIdle := poolSize(cfg, storeDriver)
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout(cfg))
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}

	return db, nil
}

func postgresDSN(cfg config.DatabaseConfig) string {
	query := url.Values{}
	if cfg.SSLMode != "" {
		query.Set("sslmode", cfg.SSLMode)
	}
	query.Set("application_name", "arcade-hub")
	query.Set("connect_timeout", strconv.Itoa(int(connectTimeout(cfg).Seconds())))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: query.Encode(),
	}
	return u.String()
}

func poolSize(cfg config.DatabaseConfig, storeDriver string) (int, int) {
	if storeDriver != config.StoreDriverMongo {
		return cfg.MaxOpenConns, cfg.MaxIdleConns
	}
	maxOpen, maxIdle := authOnlyMaxOpen, authOnlyMaxIdle
	if cfg.MaxOpenConns > 0 && cfg.MaxOpenConns < maxOpen {
		maxOpen = cfg.MaxOpenConns
	}
	if cfg.MaxIdleConns > 0 && cfg.MaxIdleConns < maxIdle {
		maxIdle = cfg.MaxIdleConns
	}
	return maxOpen, maxIdle
}

func connectTimeout(cfg config.DatabaseConfig) time.Duration {
	if cfg.ConnectTimeout < time.Second {
		return 5 * time.Second
	}
	return cfg.ConnectTimeout
}
