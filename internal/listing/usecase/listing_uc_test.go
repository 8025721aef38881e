package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/catalog"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/metrics"
)

var testNow = time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

type listingFixture struct {
	repo      *MockListingRepository
	cache     *MockListingCache
	publisher *MockPublisher
	notifier  *MockNotifier
	catalog   *catalog.Catalog
	uc        *ListingUsecase
}

func newListingFixture() *listingFixture {
	f := &listingFixture{
		repo:      new(MockListingRepository),
		cache:     new(MockListingCache),
		publisher: new(MockPublisher),
		notifier:  new(MockNotifier),
		catalog:   catalog.New(logger.NewNop()),
	}
	f.uc = NewListingUsecase(f.repo, f.cache, f.publisher, f.notifier, f.catalog, metrics.NewMetricsManager("test"), logger.NewNop())
	f.uc.now = func() time.Time { return testNow }
	return f
}

func validDraft() domain.ListingDraft {
	return domain.ListingDraft{
		Domain:    "  CloudNova.IO ",
		Price:     2500,
		PriceType: domain.PriceAsking,
		Category:  "Technology",
		Variants:  []string{"cloudnova.com", "CLOUDNOVA.com", "cloudnova.io", ""},
	}
}

func TestSubmitListing_Success(t *testing.T) {
	f := newListingFixture()
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Listing")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Listing).ID = "l-1" }).
		Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, domain.SubjectListingSubmitted, mock.MatchedBy(func(ev domain.ListingEvent) bool {
		return ev.ListingID == "l-1" && ev.Status == string(domain.StatusPending)
	})).Return(nil).Once()

	got, err := f.uc.SubmitListing(context.Background(), "seller-1", validDraft())

	require.NoError(t, err)
	assert.Equal(t, "l-1", got.ID)
	assert.Equal(t, "cloudnova.io", got.Domain)
	assert.Equal(t, "io", got.TLD)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, domain.ContentGeneral, got.ContentType)
	assert.Equal(t, []string{"cloudnova.com"}, got.Variants)
	assert.Equal(t, testNow, got.CreatedAt)
	assert.Zero(t, f.catalog.Len(), "pending listings stay out of the feed")
	f.repo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestSubmitListing_InvalidDraft(t *testing.T) {
	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)
	tests := []struct {
		name   string
		mutate func(*domain.ListingDraft)
	}{
		{"empty domain", func(d *domain.ListingDraft) { d.Domain = " " }},
		{"no tld", func(d *domain.ListingDraft) { d.Domain = "localhost" }},
		{"trailing dot", func(d *domain.ListingDraft) { d.Domain = "example." }},
		{"spaces", func(d *domain.ListingDraft) { d.Domain = "my shop.com" }},
		{"negative price", func(d *domain.ListingDraft) { d.Price = -1 }},
		{"unknown price type", func(d *domain.ListingDraft) { d.PriceType = "barter" }},
		{"unknown content", func(d *domain.ListingDraft) { d.ContentType = "spam" }},
		{"unknown category", func(d *domain.ListingDraft) { d.Category = "technology" }},
		{"end time on fixed price", func(d *domain.ListingDraft) { d.EndTime = &future }},
		{"bad contact email", func(d *domain.ListingDraft) { d.ContactEmail = "seller.example.com" }},
		{"auction ended", func(d *domain.ListingDraft) { d.PriceType = domain.PriceStartingBid; d.EndTime = &past }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newListingFixture()
			d := validDraft()
			tt.mutate(&d)
			_, err := f.uc.SubmitListing(context.Background(), "seller-1", d)
			assert.ErrorIs(t, err, domain.ErrInvalidListingData)
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitListing_RequiresSeller(t *testing.T) {
	f := newListingFixture()
	_, err := f.uc.SubmitListing(context.Background(), "", validDraft())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReviewListing_Approve(t *testing.T) {
	f := newListingFixture()
	pending := &domain.Listing{ID: "l-1", SellerID: "s", Domain: "a.com", Status: domain.StatusPending}
	f.repo.On("FindByID", mock.Anything, "l-1").Return(pending, nil).Once()
	f.repo.On("Update", mock.Anything, pending).Return(nil).Once()
	f.cache.On("DeleteListing", mock.Anything, "l-1").Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, domain.SubjectListingApproved, mock.Anything).Return(nil).Once()
	f.notifier.On("NotifyReview", mock.Anything, pending).Return(errors.New("smtp down")).Once()

	got, err := f.uc.ReviewListing(context.Background(), "admin", "l-1", true, "")

	require.NoError(t, err, "notification failures are not fatal")
	assert.Equal(t, domain.StatusApproved, got.Status)
	inCatalog, ok := f.catalog.Get("l-1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusApproved, inCatalog.Status)
	f.repo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestReviewListing_Reject(t *testing.T) {
	f := newListingFixture()
	pending := &domain.Listing{ID: "l-2", Status: domain.StatusPending}
	f.repo.On("FindByID", mock.Anything, "l-2").Return(pending, nil)
	f.repo.On("Update", mock.Anything, pending).Return(nil)
	f.cache.On("DeleteListing", mock.Anything, "l-2").Return(nil)
	f.publisher.On("Publish", mock.Anything, domain.SubjectListingRejected, mock.Anything).Return(nil).Once()
	f.notifier.On("NotifyReview", mock.Anything, pending).Return(nil)

	got, err := f.uc.ReviewListing(context.Background(), "admin", "l-2", false, " trademark ")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
	assert.Equal(t, "trademark", got.RejectReason)
	assert.Zero(t, f.catalog.Len())
	f.publisher.AssertExpectations(t)
}

func TestReviewListing_OnlyPending(t *testing.T) {
	f := newListingFixture()
	f.repo.On("FindByID", mock.Anything, "l-3").Return(&domain.Listing{ID: "l-3", Status: domain.StatusApproved}, nil)

	_, err := f.uc.ReviewListing(context.Background(), "admin", "l-3", true, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestListPending_OldestFirst(t *testing.T) {
	f := newListingFixture()
	f.repo.On("FindByStatus", mock.Anything, domain.StatusPending).Return([]*domain.Listing{
		{ID: "new", CreatedAt: testNow},
		{ID: "old", CreatedAt: testNow.Add(-time.Hour)},
	}, nil)

	got, err := f.uc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "old", got[0].ID)
}

func TestGetListing_CacheHit(t *testing.T) {
	f := newListingFixture()
	f.cache.On("GetListing", mock.Anything, "l-1").Return(&domain.Listing{ID: "l-1"}, nil)

	got, err := f.uc.GetListing(context.Background(), "l-1")
	require.NoError(t, err)
	assert.Equal(t, "l-1", got.ID)
	f.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetListing_CacheMissFillsCache(t *testing.T) {
	f := newListingFixture()
	listing := &domain.Listing{ID: "l-1"}
	f.cache.On("GetListing", mock.Anything, "l-1").Return(nil, nil)
	f.repo.On("FindByID", mock.Anything, "l-1").Return(listing, nil)
	f.cache.On("SetListing", mock.Anything, listing).Return(nil).Once()

	got, err := f.uc.GetListing(context.Background(), "l-1")
	require.NoError(t, err)
	assert.Same(t, listing, got)
	f.cache.AssertExpectations(t)
}

func TestGetListing_NotFound(t *testing.T) {
	f := newListingFixture()
	f.cache.On("GetListing", mock.Anything, "nope").Return(nil, errors.New("redis down"))
	f.repo.On("FindByID", mock.Anything, "nope").Return(nil, domain.ErrListingNotFound)

	_, err := f.uc.GetListing(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestDeleteListing(t *testing.T) {
	t.Run("forbidden for other users", func(t *testing.T) {
		f := newListingFixture()
		f.repo.On("FindByID", mock.Anything, "l-1").Return(&domain.Listing{ID: "l-1", SellerID: "owner"}, nil)
		assert.ErrorIs(t, f.uc.DeleteListing(context.Background(), "intruder", "l-1"), domain.ErrForbidden)
		f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
	t.Run("owner removes from catalog", func(t *testing.T) {
		f := newListingFixture()
		f.catalog.Replace([]domain.Listing{{ID: "l-1", SellerID: "owner"}})
		f.repo.On("FindByID", mock.Anything, "l-1").Return(&domain.Listing{ID: "l-1", SellerID: "owner"}, nil)
		f.repo.On("Delete", mock.Anything, "l-1").Return(nil)
		f.cache.On("DeleteListing", mock.Anything, "l-1").Return(nil)
		f.publisher.On("Publish", mock.Anything, domain.SubjectListingDeleted, mock.Anything).Return(nil)

		require.NoError(t, f.uc.DeleteListing(context.Background(), "owner", "l-1"))
		assert.Zero(t, f.catalog.Len())
	})
}

func TestApplyEvent(t *testing.T) {
	f := newListingFixture()
	f.repo.On("FindByID", mock.Anything, "a").Return(&domain.Listing{ID: "a", Status: domain.StatusApproved}, nil)
	f.repo.On("FindByID", mock.Anything, "gone").Return(nil, domain.ErrListingNotFound)

	require.NoError(t, f.uc.ApplyEvent(context.Background(), domain.SubjectListingApproved, domain.ListingEvent{ListingID: "a"}))
	require.NoError(t, f.uc.ApplyEvent(context.Background(), domain.SubjectListingApproved, domain.ListingEvent{ListingID: "gone"}))
	assert.Equal(t, 1, f.catalog.Len())

	require.NoError(t, f.uc.ApplyEvent(context.Background(), domain.SubjectListingDeleted, domain.ListingEvent{ListingID: "a"}))
	assert.Zero(t, f.catalog.Len())
}

func TestRecordView_BumpsCatalog(t *testing.T) {
	f := newListingFixture()
	f.catalog.Replace([]domain.Listing{{ID: "l-1", Status: domain.StatusApproved, Views: 4}})
	f.repo.On("IncrementCounters", mock.Anything, "l-1", 1, 0, 0).Return(nil).Twice()

	require.NoError(t, f.uc.RecordView(context.Background(), "l-1"))
	require.NoError(t, f.uc.RecordView(context.Background(), "l-1"))

	got, ok := f.catalog.Get("l-1")
	require.True(t, ok)
	assert.Equal(t, 6, got.Views)
	f.repo.AssertExpectations(t)
}

func TestApplyEvent_OfferReloadsCounters(t *testing.T) {
	f := newListingFixture()
	f.catalog.Replace([]domain.Listing{{ID: "l-1", Status: domain.StatusApproved, Offers: 1}})
	f.repo.On("FindByID", mock.Anything, "l-1").Return(&domain.Listing{ID: "l-1", Status: domain.StatusApproved, Offers: 5, Bids: 2}, nil)

	require.NoError(t, f.uc.ApplyEvent(context.Background(), domain.SubjectOfferCreated, domain.ListingEvent{ListingID: "l-1"}))

	got, ok := f.catalog.Get("l-1")
	require.True(t, ok)
	assert.Equal(t, 5, got.Offers)
	assert.Equal(t, 2, got.Bids)
}
