package grpc

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/grpc/marketpb"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/auth"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

var tracer = otel.Tracer("domain-market/grpc-handler")

// Usecases groups what the handler serves.
type Usecases struct {
	Listings     *usecase.ListingUsecase
	Feed         *usecase.FeedUsecase
	Favorites    *usecase.FavoriteUsecase
	Offers       *usecase.OfferUsecase
	Photos       *usecase.PhotoUsecase
	Verification *usecase.VerificationUsecase
}

type Handler struct {
	uc     Usecases
	logger *logger.Logger
}

var _ marketpb.DomainMarketServer = (*Handler)(nil)

func NewHandler(uc Usecases, log *logger.Logger) *Handler {
	return &Handler{uc: uc, logger: log.Named("GRPCHandler")}
}

// toStatus maps domain errors onto gRPC codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code := grpccodes.Internal
	switch {
	case errors.Is(err, domain.ErrListingNotFound),
		errors.Is(err, domain.ErrFavoriteNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		code = grpccodes.NotFound
	case errors.Is(err, domain.ErrDuplicateFavorite):
		code = grpccodes.AlreadyExists
	case errors.Is(err, domain.ErrInvalidListingData), errors.Is(err, domain.ErrInvalidOffer):
		code = grpccodes.InvalidArgument
	case errors.Is(err, domain.ErrInvalidTransition):
		code = grpccodes.FailedPrecondition
	case errors.Is(err, domain.ErrForbidden):
		code = grpccodes.PermissionDenied
	case errors.Is(err, domain.ErrVerificationFailed):
		code = grpccodes.Unavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = grpccodes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = grpccodes.Canceled
	}
	if code == grpccodes.Internal {
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}

func (h *Handler) fail(span oteltrace.Span, method string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	st := toStatus(err)
	if status.Code(st) == grpccodes.Internal {
		h.logger.Error(method+": failed", zap.Error(err))
	}
	return st
}

func requireUser(ctx context.Context) (string, error) {
	id := auth.UserID(ctx)
	if id == "" {
		return "", status.Error(grpccodes.Unauthenticated, "authentication required")
	}
	return id, nil
}

func (h *Handler) SubmitListing(ctx context.Context, req *marketpb.SubmitListingRequest) (*marketpb.ListingResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "Handler.SubmitListing", oteltrace.WithAttributes(
		attribute.String("user_id", userID),
		attribute.String("domain", req.Draft.Domain),
	))
	defer span.End()

	listing, err := h.uc.Listings.SubmitListing(ctx, userID, toDraft(req.Draft))
	if err != nil {
		return nil, h.fail(span, "SubmitListing", err)
	}
	span.SetAttributes(attribute.String("listing_id", listing.ID))
	return &marketpb.ListingResponse{Listing: toListing(listing, userID)}, nil
}

// GetListing is public. Non-approved listings are only visible to their seller
// and to admins.
func (h *Handler) GetListing(ctx context.Context, req *marketpb.GetListingRequest) (*marketpb.ListingResponse, error) {
	ctx, span := tracer.Start(ctx, "Handler.GetListing", oteltrace.WithAttributes(attribute.String("listing_id", req.ID)))
	defer span.End()

	listing, err := h.uc.Listings.GetListing(ctx, req.ID)
	if err != nil {
		return nil, h.fail(span, "GetListing", err)
	}
	id, _ := auth.FromContext(ctx)
	if listing.Status != domain.StatusApproved && id.UserID != listing.SellerID && !id.IsAdmin() {
		return nil, h.fail(span, "GetListing", domain.ErrListingNotFound)
	}
	if listing.Status == domain.StatusApproved && id.UserID != listing.SellerID {
		if err := h.uc.Listings.RecordView(ctx, listing.ID); err != nil {
			h.logger.Warn("GetListing: view not recorded", zap.String("listing_id", listing.ID), zap.Error(err))
		}
	}
	return &marketpb.ListingResponse{Listing: toListing(listing, id.UserID)}, nil
}

func (h *Handler) ReviewListing(ctx context.Context, req *marketpb.ReviewListingRequest) (*marketpb.ListingResponse, error) {
	adminID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "Handler.ReviewListing", oteltrace.WithAttributes(
		attribute.String("listing_id", req.ID),
		attribute.Bool("approve", req.Approve),
	))
	defer span.End()

	listing, err := h.uc.Listings.ReviewListing(ctx, adminID, req.ID, req.Approve, req.Reason)
	if err != nil {
		return nil, h.fail(span, "ReviewListing", err)
	}
	return &marketpb.ListingResponse{Listing: toListing(listing, listing.SellerID)}, nil
}

func (h *Handler) ListPending(ctx context.Context, _ *marketpb.Empty) (*marketpb.ListingsResponse, error) {
	ctx, span := tracer.Start(ctx, "Handler.ListPending")
	defer span.End()

	pending, err := h.uc.Listings.ListPending(ctx)
	if err != nil {
		return nil, h.fail(span, "ListPending", err)
	}
	// Reviewers see every listing the way its seller does.
	out := make([]marketpb.Listing, 0, len(pending))
	for _, l := range pending {
		out = append(out, toListing(l, l.SellerID))
	}
	return &marketpb.ListingsResponse{Listings: out}, nil
}

func (h *Handler) DeleteListing(ctx context.Context, req *marketpb.DeleteListingRequest) (*marketpb.Empty, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "Handler.DeleteListing", oteltrace.WithAttributes(attribute.String("listing_id", req.ID)))
	defer span.End()

	if err := h.uc.Listings.DeleteListing(ctx, userID, req.ID); err != nil {
		return nil, h.fail(span, "DeleteListing", err)
	}
	return &marketpb.Empty{}, nil
}

func (h *Handler) QueryFeed(ctx context.Context, req *marketpb.QueryFeedRequest) (*marketpb.FeedResponse, error) {
	userID := auth.UserID(ctx)
	ctx, span := tracer.Start(ctx, "Handler.QueryFeed", oteltrace.WithAttributes(
		attribute.String("session_id", req.SessionID),
		attribute.String("sort", string(req.Criteria.Sort)),
		attribute.Int("columns", req.Columns),
	))
	defer span.End()

	page, err := h.uc.Feed.Query(ctx, userID, req.SessionID, req.Criteria, req.Columns)
	if err != nil {
		return nil, h.fail(span, "QueryFeed", err)
	}
	span.SetAttributes(attribute.Int("total", page.Result.Total))
	return toFeedResponse(page, userID), nil
}

func (h *Handler) RevealMore(ctx context.Context, req *marketpb.RevealMoreRequest) (*marketpb.FeedResponse, error) {
	userID := auth.UserID(ctx)
	ctx, span := tracer.Start(ctx, "Handler.RevealMore", oteltrace.WithAttributes(
		attribute.String("session_id", req.SessionID),
		attribute.Int("seen", req.Seen),
	))
	defer span.End()

	page, err := h.uc.Feed.RevealMore(ctx, userID, req.SessionID, req.Seen, req.Columns)
	if err != nil {
		return nil, h.fail(span, "RevealMore", err)
	}
	return toFeedResponse(page, userID), nil
}

func (h *Handler) AddFavorite(ctx context.Context, req *marketpb.FavoriteRequest) (*marketpb.Empty, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "Handler.AddFavorite", oteltrace.WithAttributes(attribute.String("listing_id", req.ListingID)))
	defer span.End()

	if err := h.uc.Favorites.AddFavorite(ctx, userID, req.ListingID); err != nil {
		return nil, h.fail(span, "AddFavorite", err)
	}
	return &marketpb.Empty{}, nil
}

func (h *Handler) RemoveFavorite(ctx context.Context, req *marketpb.FavoriteRequest) (*marketpb.Empty, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "Handler.RemoveFavorite", oteltrace.WithAttributes(attribute.String("listing_id", req.ListingID)))
	defer span.End()

	if err := h.uc.Favorites.RemoveFavorite(ctx, userID, req.ListingID); err != nil {
		return nil, h.fail(span, "RemoveFavorite", err)
	}
	return &marketpb.Empty{}, nil
}

func (h *Handler) ListFavorites(ctx context.Context, _ *marketpb.Empty) (*marketpb.FavoritesResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "Handler.ListFavorites")
	defer span.End()

	favorites, err := h.uc.Favorites.GetFavorites(ctx, userID)
	if err != nil {
		return nil, h.fail(span, "ListFavorites", err)
	}
	out := make([]marketpb.Favorite, 0, len(favorites))
	for _, f := range favorites {
		out = append(out, marketpb.Favorite{ID: f.ID, ListingID: f.ListingID, CreatedAt: f.CreatedAt})
	}
	return &marketpb.FavoritesResponse{Favorites: out}, nil
}

func (h *Handler) SubmitOffer(ctx context.Context, req *marketpb.SubmitOfferRequest) (*marketpb.OfferResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "Handler.SubmitOffer", oteltrace.WithAttributes(
		attribute.String("listing_id", req.ListingID),
		attribute.Float64("amount", req.Amount),
	))
	defer span.End()

	offer, err := h.uc.Offers.SubmitOffer(ctx, userID, req.ListingID, req.Amount, req.Message)
	if err != nil {
		return nil, h.fail(span, "SubmitOffer", err)
	}
	return &marketpb.OfferResponse{Offer: toOffer(offer)}, nil
}

func (h *Handler) ListOffers(ctx context.Context, req *marketpb.ListOffersRequest) (*marketpb.OffersResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "Handler.ListOffers", oteltrace.WithAttributes(attribute.String("listing_id", req.ListingID)))
	defer span.End()

	offers, err := h.uc.Offers.ListOffers(ctx, userID, req.ListingID)
	if err != nil {
		return nil, h.fail(span, "ListOffers", err)
	}
	out := make([]marketpb.Offer, 0, len(offers))
	for _, o := range offers {
		out = append(out, toOffer(o))
	}
	return &marketpb.OffersResponse{Offers: out}, nil
}

func (h *Handler) UploadLogo(ctx context.Context, req *marketpb.UploadLogoRequest) (*marketpb.UploadLogoResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "Handler.UploadLogo", oteltrace.WithAttributes(
		attribute.String("listing_id", req.ListingID),
		attribute.Int("size", len(req.Data)),
	))
	defer span.End()

	url, err := h.uc.Photos.UploadLogo(ctx, userID, req.ListingID, req.FileName, req.Data)
	if err != nil {
		return nil, h.fail(span, "UploadLogo", err)
	}
	return &marketpb.UploadLogoResponse{URL: url}, nil
}

func (h *Handler) VerifyDomain(ctx context.Context, req *marketpb.VerifyDomainRequest) (*marketpb.VerifyDomainResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "Handler.VerifyDomain", oteltrace.WithAttributes(attribute.String("listing_id", req.ListingID)))
	defer span.End()

	ok, token, err := h.uc.Verification.VerifyDomain(ctx, userID, req.ListingID)
	if err != nil {
		return nil, h.fail(span, "VerifyDomain", err)
	}
	return &marketpb.VerifyDomainResponse{Verified: ok, Token: token}, nil
}
