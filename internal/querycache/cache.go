package querycache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bnema/taskflow-cli/internal/telemetry"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

var ErrNotCached = errors.New("query result not cached")

const (
	defaultMaxRefetches       = 4
	defaultSubscriptionBuffer = 100
)

type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusPending       Status = "pending"
	StatusFulfilled     Status = "fulfilled"
	StatusRejected      Status = "rejected"
)

type FetchFunc func(ctx context.Context) ([]byte, error)

type QuerySpec struct {
	Endpoint string
	Args     any
	Tags     []Tag
	Fetch    FetchFunc
}

func (s QuerySpec) Key() Key {
	return KeyFor(s.Endpoint, s.Args)
}

type Options struct {
	Logger  *slog.Logger
	Metrics *telemetry.Metrics
	Now     func() time.Time
	// MaxRefetches bounds concurrent refetches triggered by one invalidation.
	MaxRefetches       int
	SubscriptionBuffer int
}

// Entry is a point-in-time copy of a cache entry.
type Entry struct {
	Key         Key
	Endpoint    string
	Status      Status
	Data        []byte
	Err         error
	Stale       bool
	Tags        []Tag
	Subscribers int
	FulfilledAt time.Time
}

type flight struct {
	fetch FetchFunc
	done  chan struct{}
	data  []byte
	err   error
}

type entry struct {
	key         Key
	endpoint    string
	status      Status
	data        []byte
	err         error
	stale       bool
	tags        []Tag
	specTags    []Tag
	fetch       FetchFunc
	inflight    *flight
	subs        map[int]chan Update
	fulfilledAt time.Time
}

// Cache stores query results as raw JSON keyed by endpoint and arguments and
// indexes them by the tags they provide. All state is guarded by one mutex.
type Cache struct {
	mu        sync.Mutex
	entries   map[Key]*entry
	tagIndex  map[Tag]map[Key]struct{}
	nextSubID int

	logger       *slog.Logger
	metrics      *telemetry.Metrics
	now          func() time.Time
	maxRefetches int
	buffer       int
}

func New(opts Options) *Cache {
	c := &Cache{
		entries:      make(map[Key]*entry),
		tagIndex:     make(map[Tag]map[Key]struct{}),
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		now:          opts.Now,
		maxRefetches: opts.MaxRefetches,
		buffer:       opts.SubscriptionBuffer,
	}
	if c.logger == nil {
		c.logger = telemetry.Discard()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.maxRefetches <= 0 {
		c.maxRefetches = defaultMaxRefetches
	}
	if c.buffer <= 0 {
		c.buffer = defaultSubscriptionBuffer
	}
	c.logger = c.logger.With("component", "querycache")

	return c
}

// Query serves a fresh fulfilled entry from the cache and otherwise fetches it.
// Concurrent queries for the same key share a single fetch.
func (c *Cache) Query(ctx context.Context, spec QuerySpec) ([]byte, error) {
	if spec.Fetch == nil {
		return nil, fmt.Errorf("query %s: fetch func is required", spec.Endpoint)
	}

	c.mu.Lock()
	e := c.entryLocked(spec)
	if e.status == StatusFulfilled && !e.stale && e.inflight == nil {
		data := cloneBytes(e.data)
		c.mu.Unlock()
		c.metrics.RecordCacheHit(ctx, spec.Endpoint)
		return data, nil
	}

	f, started := c.startFetchLocked(e)
	c.mu.Unlock()

	if started {
		c.runFetch(ctx, e, f)
	}

	select {
	case <-f.done:
		return cloneBytes(f.data), f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Refetch forces a new fetch of the entry, ignoring freshness.
func (c *Cache) Refetch(ctx context.Context, spec QuerySpec) ([]byte, error) {
	c.mu.Lock()
	e := c.entryLocked(spec)
	e.stale = true
	c.mu.Unlock()

	return c.Query(ctx, spec)
}

func (c *Cache) entryLocked(spec QuerySpec) *entry {
	key := spec.Key()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{
			key:      key,
			endpoint: spec.Endpoint,
			status:   StatusUninitialized,
			subs:     make(map[int]chan Update),
		}
		c.entries[key] = e
	}
	if spec.Fetch != nil {
		e.fetch = spec.Fetch
	}
	e.specTags = slices.Clone(spec.Tags)

	return e
}

func (c *Cache) startFetchLocked(e *entry) (*flight, bool) {
	if e.inflight != nil {
		return e.inflight, false
	}

	f := &flight{fetch: e.fetch, done: make(chan struct{})}
	e.inflight = f
	e.status = StatusPending
	return f, true
}

func (c *Cache) runFetch(ctx context.Context, e *entry, f *flight) {
	data, err := f.fetch(ctx)

	c.mu.Lock()
	if current, ok := c.entries[e.key]; ok && current == e && e.inflight == f {
		e.inflight = nil
		if err != nil {
			e.status = StatusRejected
			e.err = err
		} else {
			e.status = StatusFulfilled
			e.data = cloneBytes(data)
			e.err = nil
			e.stale = false
			e.fulfilledAt = c.now()
			c.setTagsLocked(e, e.specTags)
		}
		c.publishLocked(e)
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Debug("query failed", "key", string(e.key), "error", err)
	}

	f.data, f.err = data, err
	close(f.done)
}

func (c *Cache) setTagsLocked(e *entry, tags []Tag) {
	for _, old := range e.tags {
		if keys, ok := c.tagIndex[old]; ok {
			delete(keys, e.key)
			if len(keys) == 0 {
				delete(c.tagIndex, old)
			}
		}
	}

	e.tags = slices.Clone(tags)
	for _, tag := range e.tags {
		keys, ok := c.tagIndex[tag]
		if !ok {
			keys = make(map[Key]struct{})
			c.tagIndex[tag] = keys
		}
		keys[e.key] = struct{}{}
	}
}

func (c *Cache) matchLocked(tags []Tag) []Key {
	matched := make(map[Key]struct{})
	for _, invalidated := range tags {
		for provided, keys := range c.tagIndex {
			if !invalidated.Invalidates(provided) {
				continue
			}
			for key := range keys {
				matched[key] = struct{}{}
			}
		}
	}

	result := make([]Key, 0, len(matched))
	for key := range matched {
		result = append(result, key)
	}
	slices.Sort(result)
	return result
}

// KeysForTags lists the keys currently registered under tags matching any of tags.
func (c *Cache) KeysForTags(tags ...Tag) []Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.matchLocked(tags)
}

type refetchJob struct {
	entry  *entry
	flight *flight
}

// InvalidateTags marks every entry providing a matching tag as stale. Entries
// with subscribers are refetched before it returns; the others are refetched on
// their next Query. Entries with a fetch in flight keep its result.
func (c *Cache) InvalidateTags(ctx context.Context, tags ...Tag) []Key {
	c.mu.Lock()
	keys := c.matchLocked(tags)
	jobs := make([]refetchJob, 0, len(keys))
	for _, key := range keys {
		e := c.entries[key]
		e.stale = true
		if len(e.subs) > 0 && e.inflight == nil && e.fetch != nil {
			f, _ := c.startFetchLocked(e)
			jobs = append(jobs, refetchJob{entry: e, flight: f})
		}
		c.publishLocked(e)
	}
	c.mu.Unlock()

	if len(keys) == 0 {
		return keys
	}

	c.metrics.RecordInvalidation(ctx, len(keys))
	c.logger.Debug("tags invalidated", "tags", tagStrings(tags), "entries", len(keys), "refetches", len(jobs))

	if len(jobs) > 0 {
		p := pool.New().WithMaxGoroutines(c.maxRefetches)
		for _, job := range jobs {
			p.Go(func() {
				c.runFetch(ctx, job.entry, job.flight)
			})
		}
		p.Wait()
	}

	return keys
}

// UpdateQueryData applies recipe to the cached result of endpoint(args).
// A missing entry yields an empty result and recipe is not called.
func (c *Cache) UpdateQueryData(ctx context.Context, endpoint string, args any, recipe func(*Draft) error) (*PatchResult, error) {
	return c.UpdateEntry(ctx, KeyFor(endpoint, args), recipe)
}

func (c *Cache) UpdateEntry(ctx context.Context, key Key, recipe func(*Draft) error) (*PatchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := &PatchResult{ID: uuid.NewString(), Key: key, cache: c}

	e, ok := c.entries[key]
	if !ok || e.data == nil {
		return result, nil
	}

	draft := newDraft(e.data)
	if err := recipe(draft); err != nil {
		return nil, fmt.Errorf("update %s: %w", key, err)
	}
	if len(draft.patches) == 0 {
		return result, nil
	}

	e.data = draft.doc
	result.Patches = draft.patches
	result.Inverse = draft.inverse
	c.publishLocked(e)

	c.logger.Debug("cache entry patched", "key", string(key), "patch_id", result.ID, "patches", len(result.Patches))
	return result, nil
}

func (c *Cache) undo(ctx context.Context, r *PatchResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.undone {
		return nil
	}
	r.undone = true

	e, ok := c.entries[r.Key]
	if !ok || e.data == nil {
		return nil
	}

	restored, err := applyPatches(e.data, r.Inverse)
	if err != nil {
		return fmt.Errorf("undo patch %s on %s: %w", r.ID, r.Key, err)
	}

	e.data = restored
	c.publishLocked(e)

	c.metrics.RecordRollback(ctx, string(r.Key))
	c.logger.Debug("cache entry patch undone", "key", string(r.Key), "patch_id", r.ID)
	return nil
}

func (c *Cache) Entry(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return snapshot(e), true
}

// Data returns the cached document of key without triggering a fetch.
func (c *Cache) Data(key Key) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.data == nil {
		return nil, fmt.Errorf("%s: %w", key, ErrNotCached)
	}
	return cloneBytes(e.data), nil
}

// Keys lists cached keys of endpoint in sorted order.
func (c *Cache) Keys(endpoint string) []Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]Key, 0)
	for key, e := range c.entries {
		if e.endpoint == endpoint {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

// Reset drops every entry and closes all subscriptions.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		for id, ch := range e.subs {
			close(ch)
			delete(e.subs, id)
		}
	}
	c.entries = make(map[Key]*entry)
	c.tagIndex = make(map[Tag]map[Key]struct{})
}

func snapshot(e *entry) Entry {
	return Entry{
		Key:         e.key,
		Endpoint:    e.endpoint,
		Status:      e.status,
		Data:        cloneBytes(e.data),
		Err:         e.err,
		Stale:       e.stale,
		Tags:        slices.Clone(e.tags),
		Subscribers: len(e.subs),
		FulfilledAt: e.fulfilledAt,
	}
}

func tagStrings(tags []Tag) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	return out
}
