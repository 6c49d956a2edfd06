package storage

import "context"

// Storage archives raw provider payloads for later reprocessing. Writes
// are best-effort: callers log failures and move on.
type Storage interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
}
