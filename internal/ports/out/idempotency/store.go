package idempotency

import (
	"context"
	"time"
)

// Key is the value of the Idempotency-Key request header.
type Key string

// Fingerprint names one replayable request. BodyHash covers the query string and body;
// the record stored with an empty BodyHash remembers which hash claimed the key first.
type Fingerprint struct {
	Key      Key
	Method   string
	Route    string
	BodyHash string
}

// Record is a stored response, or for the claim record the claiming hash in Body.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store keeps replay records. Records created before a cutoff can be purged.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)
}
