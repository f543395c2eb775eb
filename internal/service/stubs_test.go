package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	appErrors "github.com/noah-isme/arcade-hub-api/pkg/errors"
)

type memContentRepo struct {
	docs     map[string]models.ContentDocument
	getErr   error
	writeErr error
	puts     int
	merges   int
}

func newMemContentRepo() *memContentRepo {
	return &memContentRepo{docs: map[string]models.ContentDocument{}}
}

func (r *memContentRepo) Get(ctx context.Context, id string) (*models.ContentDocument, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	doc, ok := r.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &doc, nil
}

func (r *memContentRepo) Put(ctx context.Context, doc *models.ContentDocument) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	r.puts++
	r.docs[doc.ID] = *doc
	return nil
}

func (r *memContentRepo) Merge(ctx context.Context, doc *models.ContentDocument) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	r.merges++
	merged := map[string]json.RawMessage{}
	if existing, ok := r.docs[doc.ID]; ok {
		if err := json.Unmarshal(existing.Payload, &merged); err != nil {
			return err
		}
	}
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(doc.Payload, &patch); err != nil {
		return err
	}
	for k, v := range patch {
		merged[k] = v
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	r.docs[doc.ID] = models.ContentDocument{ID: doc.ID, Payload: raw, UpdatedBy: doc.UpdatedBy}
	return nil
}

func (r *memContentRepo) Seed(ctx context.Context, doc *models.ContentDocument) (bool, error) {
	if r.writeErr != nil {
		return false, r.writeErr
	}
	if _, ok := r.docs[doc.ID]; ok {
		return false, nil
	}
	r.docs[doc.ID] = *doc
	return true, nil
}

func (r *memContentRepo) putRaw(id, payload string) {
	r.docs[id] = models.ContentDocument{ID: id, Payload: models.JSONDocument(payload)}
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return p.err
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

type memCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{entries: map[string][]byte{}}
}

func (c *memCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.deleted = append(c.deleted, pattern)
	return nil
}

func (c *memCacheRepo) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

type memEventRepo struct {
	events    []models.Event
	lastQuery models.EventFilter
	listErr   error
	createErr error
}

func (r *memEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	r.lastQuery = filter
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Event, 0, len(r.events))
	for _, e := range r.events {
		if filter.FromDate == "" || e.Date >= filter.FromDate {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *memEventRepo) Create(ctx context.Context, event *models.Event) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *memEventRepo) Delete(ctx context.Context, id string) error {
	for i, e := range r.events {
		if e.ID == id {
			r.events = append(r.events[:i], r.events[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type memHighscoreRepo struct {
	scores    []models.Highscore
	filters   []models.HighscoreFilter
	listErr   error
	createErr error
}

func (r *memHighscoreRepo) List(ctx context.Context, filter models.HighscoreFilter) ([]models.Highscore, error) {
	r.filters = append(r.filters, filter)
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Highscore, 0, len(r.scores))
	for _, s := range r.scores {
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		if filter.Game != "" && s.Game != filter.Game {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memHighscoreRepo) FindByID(ctx context.Context, id string) (*models.Highscore, error) {
	for i := range r.scores {
		if r.scores[i].ID == id {
			score := r.scores[i]
			return &score, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memHighscoreRepo) Create(ctx context.Context, score *models.Highscore) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.scores = append(r.scores, *score)
	return nil
}

func (r *memHighscoreRepo) Approve(ctx context.Context, id, approvedBy string, approvedAt time.Time) error {
	for i := range r.scores {
		if r.scores[i].ID == id {
			r.scores[i].Status = models.HighscoreStatusApproved
			r.scores[i].ApprovedAt = &approvedAt
			r.scores[i].ApprovedBy = &approvedBy
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *memHighscoreRepo) Delete(ctx context.Context, id string) error {
	for i, s := range r.scores {
		if s.ID == id {
			r.scores = append(r.scores[:i], r.scores[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type staticSettings struct {
	doc models.SettingsDocument
	err error
}

func (s staticSettings) Settings(ctx context.Context) (models.SettingsDocument, error) {
	return s.doc, s.err
}

func defaultSettingsDoc() staticSettings {
	return staticSettings{doc: models.SettingsDocument{Settings: models.DefaultSettings(), Lists: models.DefaultLists()}}
}

func appErrorCode(err error) string {
	if e, ok := err.(*appErrors.Error); ok {
		return e.Code
	}
	return ""
}
