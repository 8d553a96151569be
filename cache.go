package aktivnatura

import (
	"context"
	"sync"
	"time"
)

// ContentCache is an in-memory cache of published trips, posts and
// categories with TTL. Public pages read through it; admin writes invalidate it.
type ContentCache struct {
	mu         sync.RWMutex
	trips      []Trip
	posts      []BlogPost
	categories []Category
	loaded     bool
	fetched    time.Time
	ttl        time.Duration
	store      *Store
}

type contentSnapshot struct {
	trips      []Trip
	posts      []BlogPost
	categories []Category
}

// NewContentCache creates a ContentCache backed by the given Store.
func NewContentCache(s *Store, ttl time.Duration) *ContentCache {
	return &ContentCache{store: s, ttl: ttl}
}

func (c *ContentCache) valid() bool {
	return c.loaded && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.trips = nil
	c.posts = nil
	c.categories = nil
	c.mu.Unlock()
}

func (c *ContentCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	trips, err := c.store.ListTrips(ctx, TripFilter{PublishedOnly: true})
	if err != nil {
		return err
	}
	posts, err := c.store.ListPosts(ctx, PostFilter{PublishedOnly: true})
	if err != nil {
		return err
	}
	cats, err := c.store.ListCategories(ctx, "")
	if err != nil {
		return err
	}
	c.trips = trips
	c.posts = posts
	c.categories = cats
	c.loaded = true
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the cached content after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ContentCache) ensureLoaded(ctx context.Context) (contentSnapshot, error) {
	c.mu.RLock()
	if c.valid() {
		snap := contentSnapshot{c.trips, c.posts, c.categories}
		c.mu.RUnlock()
		return snap, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return contentSnapshot{}, err
	}
	return contentSnapshot{c.trips, c.posts, c.categories}, nil
}

// Trips returns published trips, newest date first, optionally filtered by
// category slug.
func (c *ContentCache) Trips(ctx context.Context, categorySlug string) ([]Trip, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if categorySlug == "" {
		return snap.trips, nil
	}
	var out []Trip
	for _, t := range snap.trips {
		if t.CategorySlug == categorySlug {
			out = append(out, t)
		}
	}
	return out, nil
}

// UpcomingTrips returns up to limit published trips dated today or later,
// soonest first.
func (c *ContentCache) UpcomingTrips(ctx context.Context, now time.Time, limit int) ([]Trip, error) {
	trips, err := c.Trips(ctx, "")
	if err != nil {
		return nil, err
	}
	var out []Trip
	// trips are sorted by date descending; walk backwards for soonest first.
	for i := len(trips) - 1; i >= 0; i-- {
		if !trips[i].Upcoming(now) {
			continue
		}
		out = append(out, trips[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Trip returns a published trip by slug.
func (c *ContentCache) Trip(ctx context.Context, slug string) (Trip, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return Trip{}, err
	}
	for _, t := range snap.trips {
		if t.Slug == slug {
			return t, nil
		}
	}
	return Trip{}, ErrNotFound
}

// Posts returns published posts, newest first, optionally filtered by
// category slug.
func (c *ContentCache) Posts(ctx context.Context, categorySlug string) ([]BlogPost, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if categorySlug == "" {
		return snap.posts, nil
	}
	var out []BlogPost
	for _, p := range snap.posts {
		if p.CategorySlug == categorySlug {
			out = append(out, p)
		}
	}
	return out, nil
}

// Post returns a published post by slug.
func (c *ContentCache) Post(ctx context.Context, slug string) (BlogPost, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return BlogPost{}, err
	}
	for _, p := range snap.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

// Categories returns categories of the given type.
func (c *ContentCache) Categories(ctx context.Context, typ string) ([]Category, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	var out []Category
	for _, cat := range snap.categories {
		if cat.Type == typ {
			out = append(out, cat)
		}
	}
	return out, nil
}
