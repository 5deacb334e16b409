package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "paddock"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	// Venue-local zone for calendar rendering. Intervals are stored and
	// compared in UTC throughout; this only travels to clients.
	DefaultVenueTimezone = "Europe/London"

	DefaultArenaLockTTL         = 10 * time.Second
	DefaultAvailabilityCacheTTL = 30 * time.Second
	DefaultMaxViewRangeDays     = 62
	DefaultMaxBookingDuration   = 8 * time.Hour

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
