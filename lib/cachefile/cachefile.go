// Package cachefile implements a cache-aside resolver backed by a single
// JSON object file per resource kind. The full map is held in memory for
// the life of the process; every insert rewrites the whole file under an
// exclusive lock. Misses on the same key are coalesced so that concurrent
// callers share one upstream fetch.
package cachefile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

var tracer = otel.Tracer("staplecheck.lib.cachefile")

// DefaultFetchLimit bounds the number of upstream fetches a single
// resolver will have in flight at once.
const DefaultFetchLimit = 8

// DecodeError reports a cache file whose contents do not match the
// resource schema. It is fatal: the run cannot trust the cache.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode cache file %s: %s", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FetchError reports an upstream failure while resolving a missing key.
// Resolutions are never retried.
type FetchError struct {
	Key string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %q: %s", e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchFunc produces the value for a key that was not found in the cache.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Resolver is a cache-aside lookup over a JSON object file. One instance
// exclusively owns its backing file; construct it once at startup and pass
// it to every consumer.
type Resolver[V any] struct {
	path string
	sem  *semaphore.Weighted

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]V
}

// Open loads the backing file at path, creating it (and its parent
// directories) as an empty JSON object when absent. limit bounds
// concurrent upstream fetches; pass 0 for DefaultFetchLimit.
func Open[V any](path string, limit int64) (*Resolver[V], error) {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}

	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		err = os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
		contents = []byte("{}")
		err = os.WriteFile(path, contents, 0644)
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file %s: %w", path, err)
	}

	entries := map[string]V{}
	err = json.Unmarshal(contents, &entries)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	return &Resolver[V]{
		path:    path,
		sem:     semaphore.NewWeighted(limit),
		entries: entries,
	}, nil
}

// Resolve returns the cached value for key, or fetches, stores and
// persists it on a miss. Concurrent misses on the same key share a single
// fetch; distinct keys fetch independently up to the permit limit.
func (r *Resolver[V]) Resolve(ctx context.Context, key string, fetch FetchFunc[V]) (V, error) {
	r.mu.RLock()
	value, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return value, nil
	}

	result, err, _ := r.group.Do(key, func() (any, error) {
		// a racing caller may have finished between our read check and
		// joining the flight
		r.mu.RLock()
		value, ok := r.entries[key]
		r.mu.RUnlock()
		if ok {
			return value, nil
		}
		return r.fetchAndStore(ctx, key, fetch)
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return result.(V), nil
}

func (r *Resolver[V]) fetchAndStore(ctx context.Context, key string, fetch FetchFunc[V]) (V, error) {
	ctx, span := tracer.Start(ctx, "cachefile:fetch")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	var zero V

	err := r.sem.Acquire(ctx, 1)
	if err != nil {
		return zero, err
	}
	defer r.sem.Release(1)

	value, err := fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream fetch failed")
		return zero, &FetchError{Key: key, Err: err}
	}

	// the insert and the file rewrite happen under one writer lock so the
	// persisted file always reflects the union of resolved keys
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = value
	serialized, err := json.Marshal(r.entries)
	if err != nil {
		return zero, fmt.Errorf("serialize cache: %w", err)
	}
	err = os.WriteFile(r.path, serialized, 0644)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist cache")
		return zero, fmt.Errorf("write cache file %s: %w", r.path, err)
	}

	return value, nil
}

// Len reports the number of cached entries.
func (r *Resolver[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
