package domain

import "time"

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed WebSocket message size in bytes.
// Strokes with long point lists fit comfortably under 1MB.
const MaxMessageSize = 1 << 20

// ==== Room Constants ====

const (
	// DefaultRoomTTL is how long a room may sit idle before the sweeper
	// reclaims it.
	DefaultRoomTTL = time.Hour

	// DefaultSweepInterval is how often the inactivity sweeper runs.
	DefaultSweepInterval = 10 * time.Minute
)

// ==== Rate Limit Constants ====

const (
	// DefaultRateLimitAPI is the default rate limit for API endpoints (requests/sec)
	DefaultRateLimitAPI = 10

	// DefaultRateLimitWS is the default rate limit for WebSocket connections (req/sec)
	DefaultRateLimitWS = 5
)
