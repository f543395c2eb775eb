package logger

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/arcade-hub-api/pkg/config"
	"github.com/noah-isme/arcade-hub-api/pkg/middleware/requestid"
)

const (
	actorIDKey   = "log.actor_id"
	actorRoleKey = "log.actor_role"
)

// Probe endpoints are hit every few seconds by orchestrators; they log at debug.
var quietPaths = map[string]struct{}{
	"/health":  {},
	"/ready":   {},
	"/metrics": {},
}

// New builds the process logger. Every entry carries the component, the content
// store driver and the venue timezone so multi-instance logs can be told apart.
func New(cfg *config.Config, component string) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.Log.Format == "console" {
		zapCfg.Encoding = "console"
	} else {
		zapCfg.Encoding = "json"
	}

	if cfg.Log.Level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.InitialFields = baseFields(cfg, component)

	return zapCfg.Build()
}

func baseFields(cfg *config.Config, component string) map[string]interface{} {
	fields := map[string]interface{}{
		"service":      "arcade-hub",
		"env":          cfg.Env,
		"store_driver": cfg.Store.Driver,
	}
	if component != "" {
		fields["component"] = component
	}
	if cfg.Venue.Timezone != "" {
		fields["venue_tz"] = cfg.Venue.Timezone
	}
	return fields
}

// SetActor tags the request with the signed-in console user for the access log.
func SetActor(c *gin.Context, userID, role string) {
	c.Set(actorIDKey, userID)
	c.Set(actorRoleKey, role)
}

// GinMiddleware writes one access log line per request. 5xx responses log at
// error, 4xx at warn and probe endpoints at debug.
func GinMiddleware(l *zap.Logger) gin.HandlerFunc {
	if l == nil {
		l = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if reqID := requestid.Value(c); reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}
		if id := c.GetString(actorIDKey); id != "" {
			fields = append(fields, zap.String("actor_id", id), zap.String("actor_role", c.GetString(actorRoleKey)))
		}
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			fields = append(fields, zap.Bool("live", true))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			l.Error("http_request", fields...)
		case status >= 400:
			l.Warn("http_request", fields...)
		case isQuiet(c.Request.URL.Path):
			l.Debug("http_request", fields...)
		default:
			l.Info("http_request", fields...)
		}
	}
}

func isQuiet(path string) bool {
	_, ok := quietPaths[path]
	return ok
}
