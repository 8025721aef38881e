package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
)

type listingDocument struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty"`
	SellerID          string               `bson:"seller_id"`
	Domain            string               `bson:"domain"`
	TLD               string               `bson:"tld"`
	Description       string               `bson:"description,omitempty"`
	Price             float64              `bson:"price"`
	PriceType         domain.PriceType     `bson:"price_type"`
	Category          string               `bson:"category"`
	ContentType       domain.ContentType   `bson:"content_type"`
	Status            domain.ListingStatus `bson:"status"`
	Offers            int                  `bson:"offers"`
	Views             int                  `bson:"views"`
	Bids              int                  `bson:"bids"`
	CreatedAt         time.Time            `bson:"created_at"`
	UpdatedAt         time.Time            `bson:"updated_at"`
	EndTime           *time.Time           `bson:"end_time,omitempty"`
	HasWebsite        bool                 `bson:"has_website"`
	HasLogo           bool                 `bson:"has_logo"`
	HasBusinessAssets bool                 `bson:"has_business_assets"`
	HasSocialAccounts bool                 `bson:"has_social_accounts"`
	Variants          []string             `bson:"variants,omitempty"`
	IsPromoted        bool                 `bson:"is_promoted"`
	GroupID           string               `bson:"group_id,omitempty"`
	HideMinimumOffer  bool                 `bson:"hide_minimum_offer"`
	Verified          bool                 `bson:"verified"`
	Photos            []string             `bson:"photos,omitempty"`
	RejectReason      string               `bson:"reject_reason,omitempty"`
	ContactEmail      string               `bson:"contact_email,omitempty"`
}

type favoriteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	ListingID string             `bson:"listing_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

// offerDocument keys on the offer's own uuid rather than an ObjectID.
type offerDocument struct {
	ID        string    `bson:"_id"`
	ListingID string    `bson:"listing_id"`
	BuyerID   string    `bson:"buyer_id"`
	SellerID  string    `bson:"seller_id"`
	Amount    float64   `bson:"amount"`
	Message   string    `bson:"message,omitempty"`
	IsBid     bool      `bson:"is_bid"`
	CreatedAt time.Time `bson:"created_at"`
}

// objectID parses a hex id. An empty id maps to NilObjectID so that
// InsertOne generates one.
func objectID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return oid, nil
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	oid, err := objectID(l.ID)
	if err != nil {
		return nil, err
	}
	return &listingDocument{
		ID:                oid,
		SellerID:          l.SellerID,
		Domain:            l.Domain,
		TLD:               l.TLD,
		Description:       l.Description,
		Price:             l.Price,
		PriceType:         l.PriceType,
		Category:          l.Category,
		ContentType:       l.ContentType,
		Status:            l.Status,
		Offers:            l.Offers,
		Views:             l.Views,
		Bids:              l.Bids,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
		EndTime:           l.EndTime,
		HasWebsite:        l.HasWebsite,
		HasLogo:           l.HasLogo,
		HasBusinessAssets: l.HasBusinessAssets,
		HasSocialAccounts: l.HasSocialAccounts,
		Variants:          l.Variants,
		IsPromoted:        l.IsPromoted,
		GroupID:           l.GroupID,
		HideMinimumOffer:  l.HideMinimumOffer,
		Verified:          l.Verified,
		Photos:            l.Photos,
		RejectReason:      l.RejectReason,
		ContactEmail:      l.ContactEmail,
	}, nil
}

func (d *listingDocument) toDomain() *domain.Listing {
	return &domain.Listing{
		ID:                d.ID.Hex(),
		SellerID:          d.SellerID,
		Domain:            d.Domain,
		TLD:               d.TLD,
		Description:       d.Description,
		Price:             d.Price,
		PriceType:         d.PriceType,
		Category:          d.Category,
		ContentType:       d.ContentType,
		Status:            d.Status,
		Offers:            d.Offers,
		Views:             d.Views,
		Bids:              d.Bids,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
		EndTime:           d.EndTime,
		HasWebsite:        d.HasWebsite,
		HasLogo:           d.HasLogo,
		HasBusinessAssets: d.HasBusinessAssets,
		HasSocialAccounts: d.HasSocialAccounts,
		Variants:          d.Variants,
		IsPromoted:        d.IsPromoted,
		GroupID:           d.GroupID,
		HideMinimumOffer:  d.HideMinimumOffer,
		Verified:          d.Verified,
		Photos:            d.Photos,
		RejectReason:      d.RejectReason,
		ContactEmail:      d.ContactEmail,
	}
}

func (d *favoriteDocument) toDomain() *domain.Favorite {
	return &domain.Favorite{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		ListingID: d.ListingID,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func toOfferDocument(o *domain.Offer) *offerDocument {
	return &offerDocument{
		ID:        o.ID,
		ListingID: o.ListingID,
		BuyerID:   o.BuyerID,
		SellerID:  o.SellerID,
		Amount:    o.Amount,
		Message:   o.Message,
		IsBid:     o.IsBid,
		CreatedAt: o.CreatedAt,
	}
}

func (d *offerDocument) toDomain() *domain.Offer {
	return &domain.Offer{
		ID:        d.ID,
		ListingID: d.ListingID,
		BuyerID:   d.BuyerID,
		SellerID:  d.SellerID,
		Amount:    d.Amount,
		Message:   d.Message,
		IsBid:     d.IsBid,
		CreatedAt: d.CreatedAt.UTC(),
	}
}
