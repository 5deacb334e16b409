package model

import "time"

// ArenaLock is the advisory lock serializing confirmed-booking writes per
// arena. The document _id is the arena ID, so the unique index on _id gives
// mutual exclusion; ExpiresAt lets a TTL index reap locks leaked by crashed
// writers.
type ArenaLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
