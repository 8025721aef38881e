package domain

import (
	"strings"
	"time"
)

type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusApproved ListingStatus = "approved"
	StatusRejected ListingStatus = "rejected"
	StatusSold     ListingStatus = "sold"
)

type PriceType string

const (
	PriceAsking          PriceType = "asking"
	PriceAcceptingOffers PriceType = "accepting_offers"
	PriceStartingBid     PriceType = "starting_bid"
)

func (p PriceType) Valid() bool {
	switch p {
	case PriceAsking, PriceAcceptingOffers, PriceStartingBid:
		return true
	}
	return false
}

type ContentType string

const (
	ContentGeneral  ContentType = "general"
	ContentAdult    ContentType = "adult"
	ContentGambling ContentType = "gambling"
	ContentWeapons  ContentType = "weapons"
)

func (c ContentType) Valid() bool {
	switch c {
	case ContentGeneral, ContentAdult, ContentGambling, ContentWeapons:
		return true
	}
	return false
}

// Categories is the fixed set sellers pick from. Matching is case-sensitive.
var Categories = []string{
	"Technology", "Business", "Finance", "Health", "Travel", "Education",
	"Entertainment", "Gaming", "Food", "Real Estate", "Fashion", "Sports",
}

type Listing struct {
	ID                string
	SellerID          string
	Domain            string
	TLD               string
	Description       string
	Price             float64
	PriceType         PriceType
	Category          string
	ContentType       ContentType
	Status            ListingStatus
	Offers            int
	Views             int
	Bids              int
	CreatedAt         time.Time
	UpdatedAt         time.Time
	EndTime           *time.Time // set only for running auctions
	HasWebsite        bool
	HasLogo           bool
	HasBusinessAssets bool
	HasSocialAccounts bool
	Variants          []string
	IsPromoted        bool
	GroupID           string
	HideMinimumOffer  bool
	Verified          bool
	Photos            []string
	RejectReason      string
	ContactEmail      string
}

// EffectiveTLD returns TLD, or the segment after the last dot of Domain when TLD is unset.
func (l *Listing) EffectiveTLD() string {
	if l.TLD != "" {
		return l.TLD
	}
	return TLDOf(l.Domain)
}

func (l *Listing) InGroup() bool { return l.GroupID != "" }

func (l *Listing) HasVariants() bool { return len(l.Variants) > 0 }

// Popularity is views plus twice the bid count.
func (l *Listing) Popularity() int { return l.Views + 2*l.Bids }

// AuctionOpen reports whether a bid placed at now is still accepted.
func (l *Listing) AuctionOpen(now time.Time) bool {
	return l.EndTime == nil || now.Before(*l.EndTime)
}

// TLDOf returns the lower-cased suffix after the last '.', or "" when there is none.
func TLDOf(domainName string) string {
	i := strings.LastIndexByte(domainName, '.')
	if i < 0 || i == len(domainName)-1 {
		return ""
	}
	return strings.ToLower(domainName[i+1:])
}

type Favorite struct {
	ID        string
	UserID    string
	ListingID string
	CreatedAt time.Time
}

type Offer struct {
	ID        string
	ListingID string
	BuyerID   string
	SellerID  string
	Amount    float64
	Message   string
	IsBid     bool
	CreatedAt time.Time
}

// ListingDraft is what a seller submits; the usecase turns it into a pending Listing.
type ListingDraft struct {
	Domain            string
	Description       string
	Price             float64
	PriceType         PriceType
	Category          string
	ContentType       ContentType
	EndTime           *time.Time
	HasWebsite        bool
	HasBusinessAssets bool
	HasSocialAccounts bool
	Variants          []string
	GroupID           string
	HideMinimumOffer  bool
	ContactEmail      string
}
