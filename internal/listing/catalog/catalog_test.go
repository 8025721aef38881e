package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/generator"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

type loaderFunc func(ctx context.Context) ([]domain.Listing, error)

func (f loaderFunc) Load(ctx context.Context) ([]domain.Listing, error) { return f(ctx) }

func TestReplaceDropsDuplicatesAndEmptyIDs(t *testing.T) {
	c := New(logger.NewNop())
	c.Replace([]domain.Listing{
		{ID: "a", Domain: "first.com"},
		{ID: "b", Domain: "b.io"},
		{ID: "a", Domain: "second.com"},
		{ID: "", Domain: "noid.com"},
	})

	require.Equal(t, 2, c.Len())
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "first.com", got.Domain)
	assert.False(t, c.LoadedAt().IsZero())
}

func TestSnapshotIsNotAffectedByLaterWrites(t *testing.T) {
	c := New(logger.NewNop())
	c.Replace([]domain.Listing{{ID: "a", Price: 1}, {ID: "b", Price: 2}})
	before := c.Snapshot()

	c.Upsert(domain.Listing{ID: "a", Price: 100})
	c.Upsert(domain.Listing{ID: "c", Price: 3})
	assert.True(t, c.Remove("b"))
	assert.False(t, c.Remove("missing"))

	assert.Equal(t, 1.0, before[0].Price)
	assert.Len(t, before, 2)

	after := c.Snapshot()
	require.Len(t, after, 2)
	a, _ := c.Get("a")
	assert.Equal(t, 100.0, a.Price)
	cc, ok := c.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3.0, cc.Price)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestRefresh(t *testing.T) {
	c := New(logger.NewNop())
	loader := GeneratedLoader{Size: 50, Seed: 3, Options: generator.DefaultOptions(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))}
	require.NoError(t, c.Refresh(context.Background(), loader))
	assert.Equal(t, 50, c.Len())

	boom := errors.New("boom")
	err := c.Refresh(context.Background(), loaderFunc(func(context.Context) ([]domain.Listing, error) {
		return nil, boom
	}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 50, c.Len(), "failed refresh keeps the previous snapshot")
}

func TestBump(t *testing.T) {
	c := New(logger.NewNop())
	c.Replace([]domain.Listing{{ID: "a", Views: 10, Offers: 1}, {ID: "b"}})
	before := c.Snapshot()

	assert.True(t, c.Bump("a", 2, 3, 1))
	assert.False(t, c.Bump("missing", 1, 1, 1))

	a, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 12, a.Views)
	assert.Equal(t, 4, a.Offers)
	assert.Equal(t, 1, a.Bids)
	assert.Equal(t, 10, before[0].Views, "earlier snapshot keeps old counters")
}
