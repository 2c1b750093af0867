package places

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/repository"
)

// Options tunes the cache. Zero values fall back to the defaults below.
type Options struct {
	RatePerSecond float64       // outbound lookup rate, shared across all callers
	Workers       int           // concurrent lookups per batch
	BatchSize     int           // ids processed per batch chunk
	RetryCeiling  int           // lifetime fetch attempts before an id is abandoned
	MaxAge        time.Duration // 0 means cached records never expire
}

const (
	defaultRatePerSecond = 10.0
	defaultWorkers       = 4
	defaultBatchSize     = 50
	defaultRetryCeiling  = 3
	defaultRetryBaseWait = 500 * time.Millisecond
)

// BatchResult is the outcome for one place id in a ResolveMany call.
type BatchResult struct {
	PlaceID   string
	Place     *models.Place
	Err       error
	FromCache bool
}

type inflightCall struct {
	done  chan struct{}
	place *models.Place
	err   error
}

// Cache is the read-through place cache. A resolve checks the store first,
// then falls back to the external client behind a shared rate limiter. The
// fetch_attempts counter persists across runs; once it reaches the retry
// ceiling for a failed id, further resolves short-circuit with
// ErrPermanentlyFailed instead of spending provider quota.
type Cache struct {
	repo    *repository.PlaceRepository
	client  Client
	limiter *TokenBucket

	workers      int
	batchSize    int
	retryCeiling int
	maxAge       time.Duration

	retryBaseWait time.Duration

	mu       sync.Mutex
	inFlight map[string]*inflightCall
}

// NewCache creates a place cache backed by the given store and lookup client.
func NewCache(repo *repository.PlaceRepository, client Client, opts Options) *Cache {
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = defaultRatePerSecond
	}
	if opts.Workers < 1 {
		opts.Workers = defaultWorkers
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.RetryCeiling < 1 {
		opts.RetryCeiling = defaultRetryCeiling
	}
	return &Cache{
		repo:          repo,
		client:        client,
		limiter:       NewTokenBucket(opts.RatePerSecond, int(opts.RatePerSecond)+1),
		workers:       opts.Workers,
		batchSize:     opts.BatchSize,
		retryCeiling:  opts.RetryCeiling,
		maxAge:        opts.MaxAge,
		retryBaseWait: defaultRetryBaseWait,
		inFlight:      make(map[string]*inflightCall),
	}
}

// Resolve returns the cached record for placeID, fetching it from the
// provider when the cache has no fresh copy.
func (c *Cache) Resolve(ctx context.Context, placeID string) (*models.Place, error) {
	res := c.resolveOne(ctx, placeID, false)
	return res.Place, res.Err
}

// ResolveMany resolves a batch of place ids. Duplicate ids are collapsed and
// the results keep the first-occurrence order of the input. Each id succeeds
// or fails on its own; a failed lookup never aborts the rest of the batch.
// force refetches even records that are still fresh or past the retry ceiling.
func (c *Cache) ResolveMany(ctx context.Context, placeIDs []string, force bool) []BatchResult {
	seen := make(map[string]struct{}, len(placeIDs))
	unique := make([]string, 0, len(placeIDs))
	for _, id := range placeIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	results := make([]BatchResult, len(unique))
	for start := 0; start < len(unique); start += c.batchSize {
		end := start + c.batchSize
		if end > len(unique) {
			end = len(unique)
		}
		c.resolveChunk(ctx, unique[start:end], results[start:end], force)
		if ctx.Err() != nil {
			for i := end; i < len(unique); i++ {
				results[i] = BatchResult{
					PlaceID: unique[i],
					Err:     fmt.Errorf("%w: %v", ErrLookupTimeout, ctx.Err()),
				}
			}
			break
		}
	}
	return results
}

// resolveChunk fans one chunk of ids out across the worker pool, writing each
// outcome into the matching slot of out.
func (c *Cache) resolveChunk(ctx context.Context, ids []string, out []BatchResult, force bool) {
	workers := c.workers
	if workers > len(ids) {
		workers = len(ids)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = c.resolveOne(ctx, ids[i], force)
			}
		}()
	}

	for i := range ids {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(ids); j++ {
				out[j] = BatchResult{
					PlaceID: ids[j],
					Err:     fmt.Errorf("%w: %v", ErrLookupTimeout, ctx.Err()),
				}
			}
			close(jobs)
			wg.Wait()
			return
		}
	}
	close(jobs)
	wg.Wait()
}

func (c *Cache) resolveOne(ctx context.Context, placeID string, force bool) BatchResult {
	result := BatchResult{PlaceID: placeID}
	if err := ctx.Err(); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrLookupTimeout, err)
		return result
	}

	stored, err := c.repo.GetByID(placeID)
	if err != nil {
		result.Err = fmt.Errorf("failed to read place cache: %w", err)
		return result
	}

	storedAttempts := 0
	if stored != nil {
		storedAttempts = stored.FetchAttempts
		if !force {
			if stored.Status == models.PlaceStatusOK && c.isFresh(stored) {
				result.Place = stored
				result.FromCache = true
				return result
			}
			if stored.Status == models.PlaceStatusFailed && storedAttempts >= c.retryCeiling {
				result.Err = fmt.Errorf("%w: %s failed %d times", ErrPermanentlyFailed, placeID, storedAttempts)
				return result
			}
		}
	}

	// Collapse concurrent lookups for the same id into a single fetch.
	c.mu.Lock()
	if call, ok := c.inFlight[placeID]; ok {
		c.mu.Unlock()
		select {
		case <-call.done:
			result.Place = call.place
			result.Err = call.err
		case <-ctx.Done():
			result.Err = fmt.Errorf("%w: %v", ErrLookupTimeout, ctx.Err())
		}
		return result
	}
	call := &inflightCall{done: make(chan struct{})}
	c.inFlight[placeID] = call
	c.mu.Unlock()

	place, fetchErr := c.lookup(ctx, placeID, storedAttempts, force)

	c.mu.Lock()
	call.place = place
	call.err = fetchErr
	delete(c.inFlight, placeID)
	c.mu.Unlock()
	close(call.done)

	result.Place = place
	result.Err = fetchErr
	return result
}

// lookup performs the provider fetch with retries. The in-call retry budget
// is whatever remains of the lifetime ceiling; forced refetches always get at
// least one attempt.
func (c *Cache) lookup(ctx context.Context, placeID string, storedAttempts int, force bool) (*models.Place, error) {
	budget := c.retryCeiling - storedAttempts
	if budget < 1 {
		budget = 1
	}

	var lastErr error
	for attempt := 0; attempt < budget; attempt++ {
		if attempt > 0 {
			wait := withJitter(expBackoff(c.retryBaseWait, attempt-1))
			if err := sleepWithContext(ctx, wait); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrLookupTimeout, err)
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLookupTimeout, err)
		}

		place, err := c.client.FetchPlace(ctx, placeID)
		now := time.Now().Unix()
		if err == nil {
			place.LastUpdated = now
			if err := c.repo.Upsert(place); err != nil {
				return nil, fmt.Errorf("failed to store place %s: %w", placeID, err)
			}
			return place, nil
		}

		// A cancelled context is the caller's deadline, not a provider
		// verdict, so it never burns a persisted attempt.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrLookupTimeout, ctx.Err())
		}

		if markErr := c.repo.MarkFailed(placeID, now); markErr != nil {
			zap.S().Warnf("[PlaceCache] failed to record attempt for %s: %v", placeID, markErr)
		}

		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient) {
			lastErr = err
			continue
		}
		return nil, err
	}

	zap.S().Warnf("[PlaceCache] lookup for %s exhausted %d attempts: %v", placeID, budget, lastErr)
	return nil, lastErr
}

func (c *Cache) isFresh(place *models.Place) bool {
	if c.maxAge == 0 {
		return true
	}
	age := time.Now().Unix() - place.LastUpdated
	return age < int64(c.maxAge.Seconds())
}
