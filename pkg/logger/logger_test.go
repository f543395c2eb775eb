package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/arcade-hub-api/pkg/config"
)

func newObservedEngine() (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(GinMiddleware(zap.New(core)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/events", func(c *gin.Context) {
		SetActor(c, "editor-1", "EDITOR")
		c.Status(http.StatusOK)
	})
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	return r, logs
}

func TestGinMiddlewareLevels(t *testing.T) {
	r, logs := newObservedEngine()

	for _, path := range []string{"/health", "/events", "/missing", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestGinMiddlewareActorFields(t *testing.T) {
	r, logs := newObservedEngine()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events", nil))

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "editor-1", fields["actor_id"])
	assert.Equal(t, "EDITOR", fields["actor_role"])
	assert.Equal(t, "/events", fields["path"])
}

func TestBaseFields(t *testing.T) {
	cfg := &config.Config{Env: config.EnvProduction}
	cfg.Store.Driver = config.StoreDriverMongo
	cfg.Venue.Timezone = "Europe/Brussels"

	fields := baseFields(cfg, "api")
	assert.Equal(t, "arcade-hub", fields["service"])
	assert.Equal(t, "mongo", fields["store_driver"])
	assert.Equal(t, "Europe/Brussels", fields["venue_tz"])
	assert.Equal(t, "api", fields["component"])

	_, ok := baseFields(&config.Config{}, "")["component"]
	assert.False(t, ok)
}
