package router

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arcade-hub-api/internal/handler"
	"github.com/noah-isme/arcade-hub-api/internal/middleware"
	"github.com/noah-isme/arcade-hub-api/internal/models"
	"github.com/noah-isme/arcade-hub-api/internal/service"
	appErrors "github.com/noah-isme/arcade-hub-api/pkg/errors"
)

type tokenStub map[string]models.UserRole

func (s tokenStub) ValidateToken(token string) (*models.JWTClaims, error) {
	role, ok := s[token]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return &models.JWTClaims{UserID: token + "-id", Role: role}, nil
}

type auditRecorder struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

func (a *auditRecorder) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

type eventStub struct{}

func (eventStub) List(ctx context.Context, upcomingOnly bool) ([]models.Event, error) {
	return []models.Event{}, nil
}

func (eventStub) Create(ctx context.Context, req service.CreateEventRequest, actor string) (*models.Event, error) {
	return nil, errors.New("not used")
}

func (eventStub) Delete(ctx context.Context, id string) error { return nil }

func newTestRouter(opts Options, audit *auditRecorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(opts, Dependencies{
		Auth:      handler.NewAuthHandler(nil),
		Site:      handler.NewSiteHandler(nil, nil),
		Events:    handler.NewEventHandler(eventStub{}),
		Scores:    handler.NewHighscoreHandler(nil),
		Content:   handler.NewContentHandler(nil),
		Live:      handler.NewLiveHandler(nil, nil, nil),
		System:    handler.NewSystemHandler(nil, nil, "postgres"),
		Tokens:    tokenStub{"admin": models.RoleAdmin, "editor": models.RoleEditor},
		Audit:     audit,
		LoginRate: middleware.NewRateLimiter(1, 1),
	})
}

func do(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndDocsToggle(t *testing.T) {
	r := newTestRouter(Options{}, &auditRecorder{})
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/docs/index.html", "", "").Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newTestRouter(Options{}, &auditRecorder{})
	w := do(r, http.MethodPut, "/api/v1/admin/timetable", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPut, "/api/v1/admin/timetable", "bogus", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEditorCannotWriteTimetableOrSettings(t *testing.T) {
	r := newTestRouter(Options{}, &auditRecorder{})
	for _, path := range []string{"/api/v1/admin/timetable", "/api/v1/admin/settings", "/api/v1/admin/lists"} {
		w := do(r, http.MethodPut, path, "editor", `{}`)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/v1/admin/system", "editor", "").Code)
}

func TestAdminPassesRoleGate(t *testing.T) {
	r := newTestRouter(Options{}, &auditRecorder{})
	// malformed body proves the request reached the handler
	w := do(r, http.MethodPut, "/api/v1/admin/timetable", "admin", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/admin/system", "admin", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store_driver":"postgres"`)
}

func TestEditorWriteIsAudited(t *testing.T) {
	audit := &auditRecorder{}
	r := newTestRouter(Options{}, audit)

	w := do(r, http.MethodDelete, "/api/v1/admin/events/e1", "editor", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, models.AuditActionDelete, entry.Action)
	assert.Equal(t, "events", entry.Resource)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "e1", *entry.ResourceID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "editor-id", *entry.UserID)
}

func TestFailedWriteIsNotAudited(t *testing.T) {
	audit := &auditRecorder{}
	r := newTestRouter(Options{}, audit)

	w := do(r, http.MethodPut, "/api/v1/admin/timetable", "admin", `{`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, audit.entries)
}

func TestLoginIsRateLimited(t *testing.T) {
	r := newTestRouter(Options{}, &auditRecorder{})
	first := do(r, http.MethodPost, "/api/v1/auth/login", "", `{`)
	assert.Equal(t, http.StatusBadRequest, first.Code)

	second := do(r, http.MethodPost, "/api/v1/auth/login", "", `{`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
}

func TestLiveRejectsUnknownTopicBeforeUpgrade(t *testing.T) {
	r := newTestRouter(Options{}, &auditRecorder{})
	w := do(r, http.MethodGet, "/api/v1/live?topics=events,bogus", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomPrefix(t *testing.T) {
	r := newTestRouter(Options{APIPrefix: "/v2"}, &auditRecorder{})
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/v2/events", "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/events", "", "").Code)
}
