package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/catalog"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/metrics"
)

type ListingUsecase struct {
	repo      domain.ListingRepository
	cache     domain.ListingCache
	publisher domain.EventPublisher
	notifier  domain.Notifier
	catalog   *catalog.Catalog
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
	now       func() time.Time
}

func NewListingUsecase(
	repo domain.ListingRepository,
	cache domain.ListingCache,
	publisher domain.EventPublisher,
	notifier domain.Notifier,
	cat *catalog.Catalog,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		notifier:  notifier,
		catalog:   cat,
		metrics:   m,
		logger:    log.Named("ListingUsecase"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SubmitListing validates a seller's draft and stores it as pending review.
func (uc *ListingUsecase) SubmitListing(ctx context.Context, sellerID string, draft domain.ListingDraft) (*domain.Listing, error) {
	uc.logger.Info("SubmitListing: submitting listing", zap.String("seller_id", sellerID), zap.String("domain", draft.Domain))
	if sellerID == "" {
		return nil, domain.ErrForbidden
	}

	listing, err := uc.buildListing(sellerID, draft)
	if err != nil {
		uc.logger.Warn("SubmitListing: rejected draft", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, err
	}
	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("SubmitListing: failed to create listing", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, err
	}
	uc.metrics.ListingsSubmittedTotal.Inc()
	uc.publish(ctx, domain.SubjectListingSubmitted, listing)
	uc.logger.Info("SubmitListing: listing stored", zap.String("listing_id", listing.ID))
	return listing, nil
}

func (uc *ListingUsecase) buildListing(sellerID string, d domain.ListingDraft) (*domain.Listing, error) {
	name := strings.ToLower(strings.TrimSpace(d.Domain))
	if name == "" || strings.ContainsAny(name, " /\t") || domain.TLDOf(name) == "" || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("%w: domain %q is not a valid name", domain.ErrInvalidListingData, d.Domain)
	}
	if d.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidListingData)
	}
	if d.PriceType == "" {
		d.PriceType = domain.PriceAsking
	}
	if !d.PriceType.Valid() {
		return nil, fmt.Errorf("%w: unknown price type %q", domain.ErrInvalidListingData, d.PriceType)
	}
	if d.ContentType == "" {
		d.ContentType = domain.ContentGeneral
	}
	if !d.ContentType.Valid() {
		return nil, fmt.Errorf("%w: unknown content type %q", domain.ErrInvalidListingData, d.ContentType)
	}
	if !slices.Contains(domain.Categories, d.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidListingData, d.Category)
	}
	email := strings.TrimSpace(d.ContactEmail)
	if email != "" && !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: contact email %q is not an address", domain.ErrInvalidListingData, email)
	}
	now := uc.now()
	if d.EndTime != nil {
		if d.PriceType != domain.PriceStartingBid {
			return nil, fmt.Errorf("%w: end time is only valid for auctions", domain.ErrInvalidListingData)
		}
		if !d.EndTime.After(now) {
			return nil, fmt.Errorf("%w: auction end time is in the past", domain.ErrInvalidListingData)
		}
	}

	var variants []string
	for _, v := range d.Variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && v != name && !slices.Contains(variants, v) {
			variants = append(variants, v)
		}
	}

	return &domain.Listing{
		SellerID:          sellerID,
		Domain:            name,
		TLD:               domain.TLDOf(name),
		Description:       strings.TrimSpace(d.Description),
		Price:             d.Price,
		PriceType:         d.PriceType,
		Category:          d.Category,
		ContentType:       d.ContentType,
		Status:            domain.StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
		EndTime:           d.EndTime,
		HasWebsite:        d.HasWebsite,
		HasBusinessAssets: d.HasBusinessAssets,
		HasSocialAccounts: d.HasSocialAccounts,
		Variants:          variants,
		GroupID:           strings.TrimSpace(d.GroupID),
		HideMinimumOffer:  d.HideMinimumOffer,
		ContactEmail:      email,
	}, nil
}

// GetListing reads through the listing cache.
func (uc *ListingUsecase) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	if cached, err := uc.cache.GetListing(ctx, id); err != nil {
		uc.logger.Warn("GetListing: cache read failed", zap.String("listing_id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrListingNotFound) {
			uc.logger.Error("GetListing: failed to find listing", zap.String("listing_id", id), zap.Error(err))
		}
		return nil, err
	}
	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.logger.Warn("GetListing: cache write failed", zap.String("listing_id", id), zap.Error(err))
	}
	return listing, nil
}

// ListPending returns the admin review queue, oldest submission first.
func (uc *ListingUsecase) ListPending(ctx context.Context) ([]*domain.Listing, error) {
	pending, err := uc.repo.FindByStatus(ctx, domain.StatusPending)
	if err != nil {
		uc.logger.Error("ListPending: failed to fetch queue", zap.Error(err))
		return nil, err
	}
	slices.SortStableFunc(pending, func(a, b *domain.Listing) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return pending, nil
}

// ReviewListing approves or rejects a pending listing.
func (uc *ListingUsecase) ReviewListing(ctx context.Context, adminID, id string, approve bool, reason string) (*domain.Listing, error) {
	uc.logger.Info("ReviewListing: reviewing listing", zap.String("admin_id", adminID), zap.String("listing_id", id), zap.Bool("approve", approve))

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.StatusPending {
		uc.logger.Warn("ReviewListing: listing is not pending", zap.String("listing_id", id), zap.String("status", string(listing.Status)))
		return nil, fmt.Errorf("%w: %s -> reviewed", domain.ErrInvalidTransition, listing.Status)
	}

	subject, decision := domain.SubjectListingApproved, "approved"
	listing.Status = domain.StatusApproved
	listing.RejectReason = ""
	if !approve {
		subject, decision = domain.SubjectListingRejected, "rejected"
		listing.Status = domain.StatusRejected
		listing.RejectReason = strings.TrimSpace(reason)
	}
	listing.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("ReviewListing: failed to update listing", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}
	uc.invalidate(ctx, id)
	if approve {
		uc.catalog.Upsert(*listing)
	}
	uc.metrics.ListingsReviewedTotal.WithLabelValues(decision).Inc()
	uc.publish(ctx, subject, listing)
	if err := uc.notifier.NotifyReview(ctx, listing); err != nil {
		uc.logger.Warn("ReviewListing: failed to notify seller", zap.String("listing_id", id), zap.Error(err))
	}
	return listing, nil
}

// DeleteListing removes a listing. Only its seller may do so.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, userID, id string) error {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.SellerID != userID {
		uc.logger.Warn("DeleteListing: forbidden", zap.String("listing_id", id), zap.String("owner_id", listing.SellerID), zap.String("user_id", userID))
		return domain.ErrForbidden
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("DeleteListing: failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return err
	}
	uc.invalidate(ctx, id)
	uc.catalog.Remove(id)
	uc.publish(ctx, domain.SubjectListingDeleted, listing)
	return nil
}

// RecordView counts a listing detail view.
func (uc *ListingUsecase) RecordView(ctx context.Context, id string) error {
	if err := uc.repo.IncrementCounters(ctx, id, 1, 0, 0); err != nil {
		uc.logger.Warn("RecordView: failed to increment views", zap.String("listing_id", id), zap.Error(err))
		return err
	}
	uc.catalog.Bump(id, 1, 0, 0)
	return nil
}

// ApplyEvent keeps the local catalog in line with listing and offer events
// published by any instance. Approvals and offers reload the stored listing,
// so counters converge on the repository values.
func (uc *ListingUsecase) ApplyEvent(ctx context.Context, subject string, ev domain.ListingEvent) error {
	switch subject {
	case domain.SubjectListingDeleted, domain.SubjectListingRejected:
		uc.catalog.Remove(ev.ListingID)
		return nil
	case domain.SubjectListingApproved, domain.SubjectOfferCreated:
		listing, err := uc.repo.FindByID(ctx, ev.ListingID)
		if err != nil {
			if errors.Is(err, domain.ErrListingNotFound) {
				uc.catalog.Remove(ev.ListingID)
				return nil
			}
			return err
		}
		if listing.Status == domain.StatusApproved {
			uc.catalog.Upsert(*listing)
		} else {
			uc.catalog.Remove(ev.ListingID)
		}
		return nil
	}
	return nil
}

func (uc *ListingUsecase) invalidate(ctx context.Context, id string) {
	if err := uc.cache.DeleteListing(ctx, id); err != nil {
		uc.logger.Warn("cache invalidation failed", zap.String("listing_id", id), zap.Error(err))
	}
}

func (uc *ListingUsecase) publish(ctx context.Context, subject string, l *domain.Listing) {
	ev := domain.ListingEvent{
		ListingID: l.ID,
		SellerID:  l.SellerID,
		Domain:    l.Domain,
		Status:    string(l.Status),
		At:        uc.now(),
	}
	if err := uc.publisher.Publish(ctx, subject, ev); err != nil {
		uc.logger.Warn("failed to publish listing event", zap.String("subject", subject), zap.String("listing_id", l.ID), zap.Error(err))
	}
}
