// Package marketpb declares the DomainMarket gRPC contract: request and
// response messages, the service descriptor and a typed client. Messages are
// carried with a JSON codec.
package marketpb

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/feed"
)

type Empty struct{}

type Listing struct {
	ID                string     `json:"id"`
	SellerID          string     `json:"seller_id"`
	Domain            string     `json:"domain"`
	TLD               string     `json:"tld"`
	Description       string     `json:"description,omitempty"`
	Price             *float64   `json:"price,omitempty"`
	PriceType         string     `json:"price_type"`
	Category          string     `json:"category"`
	ContentType       string     `json:"content_type"`
	Status            string     `json:"status"`
	Offers            int        `json:"offers"`
	Views             int        `json:"views"`
	Bids              int        `json:"bids"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	EndTime           *time.Time `json:"end_time,omitempty"`
	HasWebsite        bool       `json:"has_website"`
	HasLogo           bool       `json:"has_logo"`
	HasBusinessAssets bool       `json:"has_business_assets"`
	HasSocialAccounts bool       `json:"has_social_accounts"`
	Variants          []string   `json:"variants,omitempty"`
	IsPromoted        bool       `json:"is_promoted"`
	GroupID           string     `json:"group_id,omitempty"`
	Verified          bool       `json:"verified"`
	Photos            []string   `json:"photos,omitempty"`
	RejectReason      string     `json:"reject_reason,omitempty"`
}

type ListingDraft struct {
	Domain            string     `json:"domain"`
	Description       string     `json:"description,omitempty"`
	Price             float64    `json:"price"`
	PriceType         string     `json:"price_type,omitempty"`
	Category          string     `json:"category"`
	ContentType       string     `json:"content_type,omitempty"`
	EndTime           *time.Time `json:"end_time,omitempty"`
	HasWebsite        bool       `json:"has_website,omitempty"`
	HasBusinessAssets bool       `json:"has_business_assets,omitempty"`
	HasSocialAccounts bool       `json:"has_social_accounts,omitempty"`
	Variants          []string   `json:"variants,omitempty"`
	GroupID           string     `json:"group_id,omitempty"`
	HideMinimumOffer  bool       `json:"hide_minimum_offer,omitempty"`
	ContactEmail      string     `json:"contact_email,omitempty"`
}

type SubmitListingRequest struct {
	Draft ListingDraft `json:"draft"`
}

type GetListingRequest struct {
	ID string `json:"id"`
}

type ReviewListingRequest struct {
	ID      string `json:"id"`
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty"`
}

type DeleteListingRequest struct {
	ID string `json:"id"`
}

type ListingResponse struct {
	Listing Listing `json:"listing"`
}

type ListingsResponse struct {
	Listings []Listing `json:"listings"`
}

type QueryFeedRequest struct {
	SessionID string        `json:"session_id,omitempty"`
	Criteria  feed.Criteria `json:"criteria"`
	Columns   int           `json:"columns"`
}

type RevealMoreRequest struct {
	SessionID string `json:"session_id"`
	Seen      int    `json:"seen"`
	Columns   int    `json:"columns"`
}

type FeedResponse struct {
	SessionID   string        `json:"session_id"`
	Criteria    feed.Criteria `json:"criteria"`
	Items       []Listing     `json:"items"`
	Total       int           `json:"total"`
	PageSize    int           `json:"page_size"`
	RevealCount int           `json:"reveal_count"`
	HasMore     bool          `json:"has_more"`
	Reset       bool          `json:"reset"`
	Advanced    bool          `json:"advanced"`
}

type FavoriteRequest struct {
	ListingID string `json:"listing_id"`
}

type Favorite struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}

type FavoritesResponse struct {
	Favorites []Favorite `json:"favorites"`
}

type SubmitOfferRequest struct {
	ListingID string  `json:"listing_id"`
	Amount    float64 `json:"amount"`
	Message   string  `json:"message,omitempty"`
}

type ListOffersRequest struct {
	ListingID string `json:"listing_id"`
}

type Offer struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	BuyerID   string    `json:"buyer_id"`
	Amount    float64   `json:"amount"`
	Message   string    `json:"message,omitempty"`
	IsBid     bool      `json:"is_bid"`
	CreatedAt time.Time `json:"created_at"`
}

type OfferResponse struct {
	Offer Offer `json:"offer"`
}

type OffersResponse struct {
	Offers []Offer `json:"offers"`
}

type UploadLogoRequest struct {
	ListingID string `json:"listing_id"`
	FileName  string `json:"file_name"`
	Data      []byte `json:"data"`
}

type UploadLogoResponse struct {
	URL string `json:"url"`
}

type VerifyDomainRequest struct {
	ListingID string `json:"listing_id"`
}

type VerifyDomainResponse struct {
	Verified bool   `json:"verified"`
	Token    string `json:"token"`
}
