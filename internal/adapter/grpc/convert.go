package grpc

import (
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/grpc/marketpb"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/usecase"
)

// toListing renders l for viewerID. A hidden minimum offer is only shown to
// the seller.
func toListing(l *domain.Listing, viewerID string) marketpb.Listing {
	out := marketpb.Listing{
		ID:                l.ID,
		SellerID:          l.SellerID,
		Domain:            l.Domain,
		TLD:               l.EffectiveTLD(),
		Description:       l.Description,
		PriceType:         string(l.PriceType),
		Category:          l.Category,
		ContentType:       string(l.ContentType),
		Status:            string(l.Status),
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
		Verified:          l.Verified,
		Photos:            l.Photos,
	}
	hidden := l.HideMinimumOffer && l.PriceType == domain.PriceAcceptingOffers && viewerID != l.SellerID
	if !hidden {
		price := l.Price
		out.Price = &price
	}
	if viewerID == l.SellerID {
		out.RejectReason = l.RejectReason
	}
	return out
}

func toDraft(d marketpb.ListingDraft) domain.ListingDraft {
	return domain.ListingDraft{
		Domain:            d.Domain,
		Description:       d.Description,
		Price:             d.Price,
		PriceType:         domain.PriceType(d.PriceType),
		Category:          d.Category,
		ContentType:       domain.ContentType(d.ContentType),
		EndTime:           d.EndTime,
		HasWebsite:        d.HasWebsite,
		HasBusinessAssets: d.HasBusinessAssets,
		HasSocialAccounts: d.HasSocialAccounts,
		Variants:          d.Variants,
		GroupID:           d.GroupID,
		HideMinimumOffer:  d.HideMinimumOffer,
		ContactEmail:      d.ContactEmail,
	}
}

func toFeedResponse(p *usecase.FeedPage, viewerID string) *marketpb.FeedResponse {
	items := make([]marketpb.Listing, 0, len(p.Result.Items))
	for i := range p.Result.Items {
		items = append(items, toListing(&p.Result.Items[i], viewerID))
	}
	return &marketpb.FeedResponse{
		SessionID:   p.SessionID,
		Criteria:    p.Criteria,
		Items:       items,
		Total:       p.Result.Total,
		PageSize:    p.Result.PageSize,
		RevealCount: p.Result.RevealCount,
		HasMore:     p.Result.HasMore,
		Reset:       p.Reset,
		Advanced:    p.Advanced,
	}
}

func toOffer(o *domain.Offer) marketpb.Offer {
	return marketpb.Offer{
		ID:        o.ID,
		ListingID: o.ListingID,
		BuyerID:   o.BuyerID,
		Amount:    o.Amount,
		Message:   o.Message,
		IsBid:     o.IsBid,
		CreatedAt: o.CreatedAt,
	}
}
