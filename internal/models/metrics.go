package models

import "time"

// SystemMetrics represents system level figures captured from instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	LiveConnections          int64     `json:"live_connections"`
	StatusEvaluations        uint64    `json:"status_evaluations"`
	Goroutines               int       `json:"goroutines"`
	StoreDriver              string    `json:"store_driver,omitempty"`
	GeneratedAt              time.Time `json:"generated_at"`
}
