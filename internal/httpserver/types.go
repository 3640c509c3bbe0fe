package httpserver

import "time"

// Cache status values reported in the X-Cache header
const (
	CacheStatusHit  = "HIT"
	CacheStatusMiss = "MISS"
)

// ErrorResponse is written when a rates request cannot be resolved
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HealthResponse is written by the health endpoint
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
	Store  string    `json:"store,omitempty"`
}
