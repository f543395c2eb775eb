package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	ShutdownTimeout time.Duration

	Database    DatabaseConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Store       StoreConfig
	Venue       VenueConfig
	Leaderboard LeaderboardConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
	Live        LiveConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int

	// ConnectTimeout bounds the initial dial and ping.
	ConnectTimeout time.Duration
}

// MongoConfig is only consulted when STORE_DRIVER=mongo.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// RedisConfig backs both the public payload cache and the live change feed.
type RedisConfig struct {
	Host           string
	Port           int
	Password       string
	DB             int
	KeyPrefix      string
	ChangesChannel string
	DialTimeout    time.Duration
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
	Issuer            string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig selects the content store backend.
type StoreConfig struct {
	Driver string
}

// VenueConfig describes the room whose live status is published.
type VenueConfig struct {
	Timezone              string
	StatusRefreshInterval time.Duration
	Location              *time.Location
}

// LeaderboardConfig controls the public highscore table.
type LeaderboardConfig struct {
	Size int
}

// CacheConfig governs Redis caching of public payloads.
type CacheConfig struct {
	Enabled bool
	SiteTTL time.Duration
}

// RateLimitConfig throttles anonymous write paths per client IP.
type RateLimitConfig struct {
	ScoreSubmitPerMinute float64
	ScoreSubmitBurst     int
	LoginPerMinute       float64
	LoginBurst           int
}

// LiveConfig tunes the websocket subscription feed.
type LiveConfig struct {
	Workers      int
	PingInterval time.Duration
	SendBuffer   int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),

		ConnectTimeout: parseDuration(v.GetString("DB_CONNECT_TIMEOUT"), 5*time.Second),
	}

	cfg.Mongo = MongoConfig{
		URI:      v.GetString("MONGO_URI"),
		Database: v.GetString("MONGO_DATABASE"),
		Timeout:  parseDuration(v.GetString("MONGO_TIMEOUT"), 10*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),

		KeyPrefix:      v.GetString("REDIS_KEY_PREFIX"),
		ChangesChannel: v.GetString("REDIS_CHANGES_CHANNEL"),
		DialTimeout:    parseDuration(v.GetString("REDIS_DIAL_TIMEOUT"), 5*time.Second),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
		Issuer:            v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Store = StoreConfig{Driver: strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER")))}
	if cfg.Store.Driver != StoreDriverMongo {
		cfg.Store.Driver = StoreDriverPostgres
	}

	cfg.Venue = VenueConfig{
		Timezone:              v.GetString("VENUE_TIMEZONE"),
		StatusRefreshInterval: parseDuration(v.GetString("STATUS_REFRESH_INTERVAL"), time.Minute),
	}
	loc, err := time.LoadLocation(cfg.Venue.Timezone)
	if err != nil {
		return nil, err
	}
	cfg.Venue.Location = loc

	size := v.GetInt("LEADERBOARD_SIZE")
	if size <= 0 {
		size = 10
	}
	cfg.Leaderboard = LeaderboardConfig{Size: size}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		SiteTTL: parseDuration(v.GetString("SITE_CACHE_TTL"), 30*time.Second),
	}

	cfg.RateLimit = RateLimitConfig{
		ScoreSubmitPerMinute: v.GetFloat64("SCORE_SUBMIT_RATE"),
		ScoreSubmitBurst:     v.GetInt("SCORE_SUBMIT_BURST"),
		LoginPerMinute:       v.GetFloat64("LOGIN_RATE"),
		LoginBurst:           v.GetInt("LOGIN_BURST"),
	}

	cfg.Live = LiveConfig{
		Workers:      v.GetInt("LIVE_WORKERS"),
		PingInterval: parseDuration(v.GetString("LIVE_PING_INTERVAL"), 30*time.Second),
		SendBuffer:   v.GetInt("LIVE_SEND_BUFFER"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "arcade_hub")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "arcade_hub")
	v.SetDefault("MONGO_TIMEOUT", "10s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "arcade:")
	v.SetDefault("REDIS_CHANGES_CHANNEL", "arcade:changes")
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")
	v.SetDefault("JWT_ISSUER", "arcade-hub")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)

	v.SetDefault("VENUE_TIMEZONE", "Europe/Brussels")
	v.SetDefault("STATUS_REFRESH_INTERVAL", "1m")
	v.SetDefault("LEADERBOARD_SIZE", 10)

	v.SetDefault("ENABLE_CACHE", true)
	v.SetDefault("SITE_CACHE_TTL", "30s")

	v.SetDefault("SCORE_SUBMIT_RATE", 5)
	v.SetDefault("SCORE_SUBMIT_BURST", 2)
	v.SetDefault("LOGIN_RATE", 10)
	v.SetDefault("LOGIN_BURST", 5)

	v.SetDefault("LIVE_WORKERS", 2)
	v.SetDefault("LIVE_PING_INTERVAL", "30s")
	v.SetDefault("LIVE_SEND_BUFFER", 16)
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
