package httpapi

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ecgf-team/roster-api/internal/ports/out/idempotency"
)

const (
	IdempotencyKeyHeader      = "Idempotency-Key"
	IdempotencyReplayedHeader = "Idempotent-Replayed"
)

// NewIdempotency replays the stored 2xx response when a request repeats an Idempotency-Key
// with the same query and body, and rejects reuse of a key with a different payload (409).
// Requests without the header pass through untouched. Records older than ttl are
// ignored; ttl <= 0 keeps them forever.
func NewIdempotency(store idempotency.Store, ttl time.Duration) func(http.Handler) http.Handler {
	live := func(rec idempotency.Record) bool {
		return ttl <= 0 || time.Since(rec.CreatedAt) < ttl
	}
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			log := LoggerFromContext(ctx)

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxImportBytes))
			if err != nil {
				if mbe := (*http.MaxBytesError)(nil); errors.As(err, &mbe) {
					writeError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body is too large", map[string]any{"limit": mbe.Limit})
					return
				}
				writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "could not read request body", nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			sum := sha256.Sum256(append([]byte(r.URL.RawQuery+"\n"), body...))
			bodyHash := hex.EncodeToString(sum[:])

			metaFP := idempotency.Fingerprint{
				Key:    idempotency.Key(key),
				Method: r.Method,
				Route:  r.URL.Path,
			}
			if meta, ok, err := store.Get(ctx, metaFP); err != nil {
				writeDomainError(w, r, err)
				return
			} else if ok && live(meta) {
				if string(meta.Body) != bodyHash {
					writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
					return
				}
			} else if err := store.Put(ctx, metaFP, idempotency.Record{
				ContentType: "text/plain",
				Body:        []byte(bodyHash),
				CreatedAt:   time.Now().UTC(),
			}); err != nil {
				log.Warn("store idempotency key", zap.Error(err))
			}

			respFP := metaFP
			respFP.BodyHash = bodyHash
			if rec, ok, err := store.Get(ctx, respFP); err != nil {
				writeDomainError(w, r, err)
				return
			} else if ok && live(rec) {
				w.Header().Set("Content-Type", rec.ContentType)
				w.Header().Set(IdempotencyReplayedHeader, "true")
				w.WriteHeader(rec.StatusCode)
				_, _ = w.Write(rec.Body)
				return
			}

			var buf bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)
			next.ServeHTTP(ww, r)

			// Only successful responses are replayed; failures may be retried.
			if status := ww.Status(); status >= 200 && status < 300 {
				if err := store.Put(ctx, respFP, idempotency.Record{
					StatusCode:  status,
					ContentType: ww.Header().Get("Content-Type"),
					Body:        buf.Bytes(),
					CreatedAt:   time.Now().UTC(),
				}); err != nil {
					log.Warn("store idempotent response", zap.Error(err))
				}
			}
		})
	}
}

// PurgeIdempotency deletes records older than ttl every interval until ctx is done.
func PurgeIdempotency(ctx context.Context, store idempotency.Store, ttl, interval time.Duration, log *zap.Logger) {
	if store == nil || ttl <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		n, err := store.DeleteBefore(ctx, time.Now().UTC().Add(-ttl))
		switch {
		case err != nil && ctx.Err() == nil:
			log.Warn("purge idempotency records", zap.Error(err))
		case n > 0:
			log.Info("purged idempotency records", zap.Int("deleted", n))
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
