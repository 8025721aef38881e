// Package catalog holds the in-memory listing collection the feed is computed
// from. A Catalog is built once at start-up and injected into its consumers.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/generator"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

// Loader supplies the full listing collection.
type Loader interface {
	Load(ctx context.Context) ([]domain.Listing, error)
}

// Catalog publishes immutable snapshots. Writers never modify a published
// slice; they build a new one and swap it in.
type Catalog struct {
	mu       sync.RWMutex
	listings []domain.Listing
	index    map[string]int
	loadedAt time.Time
	logger   *logger.Logger
}

func New(log *logger.Logger) *Catalog {
	return &Catalog{index: map[string]int{}, logger: log.Named("catalog")}
}

// Snapshot returns the current collection. Callers must treat it as read-only.
func (c *Catalog) Snapshot() []domain.Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listings
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.listings)
}

func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Get returns a copy of the listing with id.
func (c *Catalog) Get(id string) (domain.Listing, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		return domain.Listing{}, false
	}
	return c.listings[i], true
}

// Replace installs listings as the new collection. Later duplicates of an id
// are dropped.
func (c *Catalog) Replace(listings []domain.Listing) {
	next := make([]domain.Listing, 0, len(listings))
	index := make(map[string]int, len(listings))
	dropped := 0
	for _, l := range listings {
		if _, dup := index[l.ID]; dup || l.ID == "" {
			dropped++
			continue
		}
		index[l.ID] = len(next)
		next = append(next, l)
	}
	if dropped > 0 {
		c.logger.Warn("Catalog.Replace: dropped listings with empty or duplicate ids", zap.Int("dropped", dropped))
	}

	c.mu.Lock()
	c.listings = next
	c.index = index
	c.loadedAt = time.Now()
	c.mu.Unlock()
	c.logger.Info("Catalog.Replace: snapshot installed", zap.Int("listings", len(next)))
}

// Upsert inserts or replaces a single listing.
func (c *Catalog) Upsert(l domain.Listing) {
	if l.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]domain.Listing, len(c.listings), len(c.listings)+1)
	copy(next, c.listings)
	if i, ok := c.index[l.ID]; ok {
		next[i] = l
		c.listings = next
		return
	}
	index := make(map[string]int, len(c.index)+1)
	for k, v := range c.index {
		index[k] = v
	}
	index[l.ID] = len(next)
	c.listings = append(next, l)
	c.index = index
}

// Bump adds to the counters of the listing with id. It reports false when
// the listing is not in the catalog.
func (c *Catalog) Bump(id string, views, offers, bids int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, ok := c.index[id]
	if !ok {
		return false
	}
	next := make([]domain.Listing, len(c.listings))
	copy(next, c.listings)
	next[pos].Views += views
	next[pos].Offers += offers
	next[pos].Bids += bids
	c.listings = next
	return true
}

// Remove deletes the listing with id, if present.
func (c *Catalog) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, ok := c.index[id]
	if !ok {
		return false
	}
	next := make([]domain.Listing, 0, len(c.listings)-1)
	next = append(next, c.listings[:pos]...)
	next = append(next, c.listings[pos+1:]...)
	index := make(map[string]int, len(next))
	for i := range next {
		index[next[i].ID] = i
	}
	c.listings = next
	c.index = index
	return true
}

// Refresh reloads the whole collection from loader.
func (c *Catalog) Refresh(ctx context.Context, loader Loader) error {
	listings, err := loader.Load(ctx)
	if err != nil {
		c.logger.Error("Catalog.Refresh: load failed", zap.Error(err))
		return fmt.Errorf("catalog refresh: %w", err)
	}
	c.Replace(listings)
	return nil
}

// GeneratedLoader serves synthetic listings.
type GeneratedLoader struct {
	Size    int
	Seed    uint64
	Options generator.Options
}

func (g GeneratedLoader) Load(context.Context) ([]domain.Listing, error) {
	return generator.Generate(g.Size, g.Seed, g.Options), nil
}

// RepositoryLoader serves every approved listing from the repository.
type RepositoryLoader struct {
	Repo domain.ListingRepository
}

func (r RepositoryLoader) Load(ctx context.Context) ([]domain.Listing, error) {
	found, err := r.Repo.FindByStatus(ctx, domain.StatusApproved)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(found))
	for _, l := range found {
		if l != nil {
			out = append(out, *l)
		}
	}
	return out, nil
}
