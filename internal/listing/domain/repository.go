package domain

import (
	"context"
	"time"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindByStatus(ctx context.Context, status ListingStatus) ([]*Listing, error)
	IncrementCounters(ctx context.Context, id string, views, offers, bids int) error
}

type FavoriteRepository interface {
	Add(ctx context.Context, favorite *Favorite) error
	Remove(ctx context.Context, userID, listingID string) error
	FindByUserID(ctx context.Context, userID string) ([]*Favorite, error)
}

type OfferRepository interface {
	Create(ctx context.Context, offer *Offer) error
	FindByListingID(ctx context.Context, listingID string) ([]*Offer, error)
}

// ListingCache is a best-effort read-through cache for single listings.
// Get returns (nil, nil) on a miss.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*Listing, error)
	SetListing(ctx context.Context, listing *Listing) error
	DeleteListing(ctx context.Context, id string) error
}

type Storage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

type Notifier interface {
	NotifyOffer(ctx context.Context, listing *Listing, offer *Offer) error
	NotifyReview(ctx context.Context, listing *Listing) error
}

// DomainVerifier checks with an external service that the seller controls the domain.
type DomainVerifier interface {
	Verify(ctx context.Context, domainName, token string) (bool, error)
}

// Event subjects published on NATS.
const (
	SubjectListingSubmitted = "listing.submitted"
	SubjectListingApproved  = "listing.approved"
	SubjectListingRejected  = "listing.rejected"
	SubjectListingDeleted   = "listing.deleted"
	SubjectOfferCreated     = "offer.created"
)

// ListingEvent is the payload of every listing.* subject.
type ListingEvent struct {
	ListingID string    `json:"listing_id"`
	SellerID  string    `json:"seller_id"`
	Domain    string    `json:"domain"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
}

type OfferEvent struct {
	OfferID   string    `json:"offer_id"`
	ListingID string    `json:"listing_id"`
	BuyerID   string    `json:"buyer_id"`
	Amount    float64   `json:"amount"`
	IsBid     bool      `json:"is_bid"`
	At        time.Time `json:"at"`
}
