package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/catalog"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/feed"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/metrics"
)

type offerFixture struct {
	offers    *MockOfferRepository
	listings  *MockListingRepository
	publisher *MockPublisher
	notifier  *MockNotifier
	catalog   *catalog.Catalog
	uc        *OfferUsecase
}

func newOfferFixture() *offerFixture {
	f := &offerFixture{
		offers:    new(MockOfferRepository),
		listings:  new(MockListingRepository),
		publisher: new(MockPublisher),
		notifier:  new(MockNotifier),
		catalog:   catalog.New(logger.NewNop()),
	}
	f.uc = NewOfferUsecase(f.offers, f.listings, f.publisher, f.notifier, f.catalog, metrics.NewMetricsManager("test"), logger.NewNop())
	f.uc.now = func() time.Time { return testNow }
	return f
}

func TestSubmitOffer_Offer(t *testing.T) {
	f := newOfferFixture()
	listing := &domain.Listing{ID: "l-1", SellerID: "seller", Status: domain.StatusApproved, PriceType: domain.PriceAcceptingOffers, Price: 500}
	f.listings.On("FindByID", mock.Anything, "l-1").Return(listing, nil)
	f.offers.On("Create", mock.Anything, mock.AnythingOfType("*domain.Offer")).Return(nil).Once()
	f.listings.On("IncrementCounters", mock.Anything, "l-1", 0, 1, 0).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, domain.SubjectOfferCreated, mock.AnythingOfType("domain.OfferEvent")).Return(nil).Once()
	f.notifier.On("NotifyOffer", mock.Anything, listing, mock.AnythingOfType("*domain.Offer")).Return(nil).Once()

	offer, err := f.uc.SubmitOffer(context.Background(), "buyer", "l-1", 120, "  interested  ")

	require.NoError(t, err)
	assert.NotEmpty(t, offer.ID)
	assert.False(t, offer.IsBid)
	assert.Equal(t, "seller", offer.SellerID)
	assert.Equal(t, "interested", offer.Message)
	f.offers.AssertExpectations(t)
	f.listings.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestSubmitOffer_BidCountsAsBid(t *testing.T) {
	f := newOfferFixture()
	end := testNow.Add(24 * time.Hour)
	listing := &domain.Listing{ID: "l-2", SellerID: "seller", Status: domain.StatusApproved, PriceType: domain.PriceStartingBid, Price: 100, EndTime: &end}
	f.listings.On("FindByID", mock.Anything, "l-2").Return(listing, nil)
	f.offers.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.listings.On("IncrementCounters", mock.Anything, "l-2", 0, 0, 1).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("NotifyOffer", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	offer, err := f.uc.SubmitOffer(context.Background(), "buyer", "l-2", 100, "")

	require.NoError(t, err)
	assert.True(t, offer.IsBid)
	f.listings.AssertExpectations(t)
}

func TestSubmitOffer_Invalid(t *testing.T) {
	ended := testNow.Add(-time.Minute)
	open := testNow.Add(time.Hour)
	tests := []struct {
		name    string
		listing domain.Listing
		buyer   string
		amount  float64
		message string
	}{
		{"pending listing", domain.Listing{Status: domain.StatusPending}, "buyer", 10, ""},
		{"sold listing", domain.Listing{Status: domain.StatusSold}, "buyer", 10, ""},
		{"own listing", domain.Listing{Status: domain.StatusApproved}, "seller", 10, ""},
		{"zero amount", domain.Listing{Status: domain.StatusApproved}, "buyer", 0, ""},
		{"long message", domain.Listing{Status: domain.StatusApproved}, "buyer", 10, strings.Repeat("x", 1001)},
		{"bid below start", domain.Listing{Status: domain.StatusApproved, PriceType: domain.PriceStartingBid, Price: 50, EndTime: &open}, "buyer", 49, ""},
		{"auction ended", domain.Listing{Status: domain.StatusApproved, PriceType: domain.PriceStartingBid, Price: 50, EndTime: &ended}, "buyer", 60, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOfferFixture()
			l := tt.listing
			l.ID, l.SellerID = "l-1", "seller"
			f.listings.On("FindByID", mock.Anything, "l-1").Return(&l, nil)

			_, err := f.uc.SubmitOffer(context.Background(), tt.buyer, "l-1", tt.amount, tt.message)

			assert.ErrorIs(t, err, domain.ErrInvalidOffer)
			f.offers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestListOffers_SellerOnly(t *testing.T) {
	f := newOfferFixture()
	f.listings.On("FindByID", mock.Anything, "l-1").Return(&domain.Listing{ID: "l-1", SellerID: "seller"}, nil)
	f.offers.On("FindByListingID", mock.Anything, "l-1").Return([]*domain.Offer{{ID: "o-1"}}, nil)

	_, err := f.uc.ListOffers(context.Background(), "buyer", "l-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	offers, err := f.uc.ListOffers(context.Background(), "seller", "l-1")
	require.NoError(t, err)
	assert.Len(t, offers, 1)
}

func TestSubmitOffer_ReranksFeed(t *testing.T) {
	f := newOfferFixture()
	listings := approvedListings(2)
	for i := range listings {
		listings[i].SellerID = "seller"
		listings[i].PriceType = domain.PriceAcceptingOffers
	}
	f.catalog.Replace(listings)
	target := listings[0]
	f.listings.On("FindByID", mock.Anything, target.ID).Return(&target, nil)
	f.offers.On("Create", mock.Anything, mock.AnythingOfType("*domain.Offer")).Return(nil)
	f.listings.On("IncrementCounters", mock.Anything, target.ID, 0, 1, 0).Return(nil)
	f.publisher.On("Publish", mock.Anything, domain.SubjectOfferCreated, mock.Anything).Return(nil)
	f.notifier.On("NotifyOffer", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	for i := 0; i < 3; i++ {
		_, err := f.uc.SubmitOffer(context.Background(), "buyer", target.ID, 50, "")
		require.NoError(t, err)
	}

	feeds := NewFeedUsecase(f.catalog, newMemorySessions(), NewFavoriteUsecase(new(MockFavoriteRepository), f.listings, logger.NewNop()), metrics.NewMetricsManager("test"), logger.NewNop())
	criteria := feed.DefaultCriteria()
	criteria.Sort = feed.SortOffersHigh
	page, err := feeds.Query(context.Background(), "u1", "", criteria, 1)

	require.NoError(t, err)
	require.Len(t, page.Result.Items, 2)
	assert.Equal(t, target.ID, page.Result.Items[0].ID)
	assert.Equal(t, 3, page.Result.Items[0].Offers)
}

func TestSubmitOffer_CounterFailureLeavesCatalog(t *testing.T) {
	f := newOfferFixture()
	listing := domain.Listing{ID: "l-1", SellerID: "seller", Status: domain.StatusApproved, PriceType: domain.PriceAsking, Price: 10}
	f.catalog.Replace([]domain.Listing{listing})
	f.listings.On("FindByID", mock.Anything, "l-1").Return(&listing, nil)
	f.offers.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.listings.On("IncrementCounters", mock.Anything, "l-1", 0, 1, 0).Return(assert.AnError)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("NotifyOffer", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.SubmitOffer(context.Background(), "buyer", "l-1", 20, "")

	require.NoError(t, err)
	got, ok := f.catalog.Get("l-1")
	require.True(t, ok)
	assert.Zero(t, got.Offers)
}
