package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/catalog"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/metrics"
)

const maxOfferMessage = 1000

type OfferUsecase struct {
	offers    domain.OfferRepository
	listings  domain.ListingRepository
	publisher domain.EventPublisher
	notifier  domain.Notifier
	catalog   *catalog.Catalog
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
	now       func() time.Time
}

func NewOfferUsecase(
	offers domain.OfferRepository,
	listings domain.ListingRepository,
	publisher domain.EventPublisher,
	notifier domain.Notifier,
	cat *catalog.Catalog,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *OfferUsecase {
	return &OfferUsecase{
		offers:    offers,
		listings:  listings,
		publisher: publisher,
		notifier:  notifier,
		catalog:   cat,
		metrics:   m,
		logger:    log.Named("OfferUsecase"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SubmitOffer records an offer or, for auctions, a bid.
func (uc *OfferUsecase) SubmitOffer(ctx context.Context, buyerID, listingID string, amount float64, message string) (*domain.Offer, error) {
	uc.logger.Info("SubmitOffer: new offer", zap.String("buyer_id", buyerID), zap.String("listing_id", listingID), zap.Float64("amount", amount))
	if buyerID == "" {
		return nil, domain.ErrForbidden
	}

	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := validateOffer(listing, buyerID, amount, message, now); err != nil {
		uc.logger.Warn("SubmitOffer: invalid offer", zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}

	offer := &domain.Offer{
		ID:        uuid.NewString(),
		ListingID: listing.ID,
		BuyerID:   buyerID,
		SellerID:  listing.SellerID,
		Amount:    amount,
		Message:   strings.TrimSpace(message),
		IsBid:     listing.PriceType == domain.PriceStartingBid,
		CreatedAt: now,
	}
	if err := uc.offers.Create(ctx, offer); err != nil {
		uc.logger.Error("SubmitOffer: failed to store offer", zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}

	offers, bids := 1, 0
	if offer.IsBid {
		offers, bids = 0, 1
	}
	if err := uc.listings.IncrementCounters(ctx, listing.ID, 0, offers, bids); err != nil {
		uc.logger.Warn("SubmitOffer: failed to bump listing counters", zap.String("listing_id", listingID), zap.Error(err))
	} else {
		uc.catalog.Bump(listing.ID, 0, offers, bids)
	}

	uc.metrics.OffersSubmittedTotal.Inc()
	ev := domain.OfferEvent{
		OfferID:   offer.ID,
		ListingID: offer.ListingID,
		BuyerID:   offer.BuyerID,
		Amount:    offer.Amount,
		IsBid:     offer.IsBid,
		At:        now,
	}
	if err := uc.publisher.Publish(ctx, domain.SubjectOfferCreated, ev); err != nil {
		uc.logger.Warn("SubmitOffer: failed to publish event", zap.String("offer_id", offer.ID), zap.Error(err))
	}
	if err := uc.notifier.NotifyOffer(ctx, listing, offer); err != nil {
		uc.logger.Warn("SubmitOffer: failed to notify seller", zap.String("offer_id", offer.ID), zap.Error(err))
	}
	return offer, nil
}

func validateOffer(l *domain.Listing, buyerID string, amount float64, message string, now time.Time) error {
	switch {
	case l.Status != domain.StatusApproved:
		return fmt.Errorf("%w: listing is not open for offers", domain.ErrInvalidOffer)
	case l.SellerID == buyerID:
		return fmt.Errorf("%w: cannot make an offer on your own listing", domain.ErrInvalidOffer)
	case amount <= 0:
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidOffer)
	case len(message) > maxOfferMessage:
		return fmt.Errorf("%w: message longer than %d characters", domain.ErrInvalidOffer, maxOfferMessage)
	}
	if l.PriceType == domain.PriceStartingBid {
		if amount < l.Price {
			return fmt.Errorf("%w: bid below starting price %.2f", domain.ErrInvalidOffer, l.Price)
		}
		if !l.AuctionOpen(now) {
			return fmt.Errorf("%w: auction has ended", domain.ErrInvalidOffer)
		}
	}
	return nil
}

// ListOffers returns offers on a listing. Only the seller may read them.
func (uc *OfferUsecase) ListOffers(ctx context.Context, sellerID, listingID string) ([]*domain.Offer, error) {
	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, domain.ErrForbidden
	}
	return uc.offers.FindByListingID(ctx, listingID)
}
