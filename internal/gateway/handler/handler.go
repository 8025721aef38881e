package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/grpc/marketpb"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

// maxLogoSize matches the service limit and keeps the base64 encoded
// request below the default gRPC receive size.
const maxLogoSize = 2 << 20

// MarketClient is the subset of the DomainMarket client the gateway calls.
type MarketClient interface {
	SubmitListing(ctx context.Context, in *marketpb.SubmitListingRequest, opts ...grpc.CallOption) (*marketpb.ListingResponse, error)
	GetListing(ctx context.Context, in *marketpb.GetListingRequest, opts ...grpc.CallOption) (*marketpb.ListingResponse, error)
	ReviewListing(ctx context.Context, in *marketpb.ReviewListingRequest, opts ...grpc.CallOption) (*marketpb.ListingResponse, error)
	ListPending(ctx context.Context, in *marketpb.Empty, opts ...grpc.CallOption) (*marketpb.ListingsResponse, error)
	DeleteListing(ctx context.Context, in *marketpb.DeleteListingRequest, opts ...grpc.CallOption) (*marketpb.Empty, error)
	QueryFeed(ctx context.Context, in *marketpb.QueryFeedRequest, opts ...grpc.CallOption) (*marketpb.FeedResponse, error)
	RevealMore(ctx context.Context, in *marketpb.RevealMoreRequest, opts ...grpc.CallOption) (*marketpb.FeedResponse, error)
	AddFavorite(ctx context.Context, in *marketpb.FavoriteRequest, opts ...grpc.CallOption) (*marketpb.Empty, error)
	RemoveFavorite(ctx context.Context, in *marketpb.FavoriteRequest, opts ...grpc.CallOption) (*marketpb.Empty, error)
	ListFavorites(ctx context.Context, in *marketpb.Empty, opts ...grpc.CallOption) (*marketpb.FavoritesResponse, error)
	SubmitOffer(ctx context.Context, in *marketpb.SubmitOfferRequest, opts ...grpc.CallOption) (*marketpb.OfferResponse, error)
	ListOffers(ctx context.Context, in *marketpb.ListOffersRequest, opts ...grpc.CallOption) (*marketpb.OffersResponse, error)
	UploadLogo(ctx context.Context, in *marketpb.UploadLogoRequest, opts ...grpc.CallOption) (*marketpb.UploadLogoResponse, error)
	VerifyDomain(ctx context.Context, in *marketpb.VerifyDomainRequest, opts ...grpc.CallOption) (*marketpb.VerifyDomainResponse, error)
}

// ListingHandler translates the JSON API into DomainMarket calls.
type ListingHandler struct {
	client MarketClient
	logger *logger.Logger
}

func NewListingHandler(client MarketClient, log *logger.Logger) *ListingHandler {
	return &ListingHandler{client: client, logger: log.Named("ListingHandler")}
}

// withAuth forwards the caller's Authorization header as gRPC metadata.
func withAuth(r *http.Request) context.Context {
	ctx := r.Context()
	if h := r.Header.Get("Authorization"); h != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", h)
	}
	return ctx
}

// httpStatus maps a gRPC status code onto the closest HTTP status.
func httpStatus(c codes.Code) int {
	switch c {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.FailedPrecondition:
		return http.StatusUnprocessableEntity
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Canceled:
		return 499
	case codes.Unimplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *ListingHandler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *ListingHandler) writeError(w http.ResponseWriter, op string, err error) {
	st, _ := status.FromError(err)
	code := httpStatus(st.Code())
	if code >= http.StatusInternalServerError {
		h.logger.Error(op+" failed", zap.String("code", st.Code().String()), zap.Error(err))
	} else {
		h.logger.Debug(op+" rejected", zap.String("code", st.Code().String()), zap.String("message", st.Message()))
	}
	h.writeJSON(w, code, errorBody{Error: st.Message()})
}

func (h *ListingHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (h *ListingHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	var draft marketpb.ListingDraft
	if !h.decode(w, r, &draft) {
		return
	}
	resp, err := h.client.SubmitListing(withAuth(r), &marketpb.SubmitListingRequest{Draft: draft})
	if err != nil {
		h.writeError(w, "SubmitListing", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, resp.Listing)
}

func (h *ListingHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.GetListing(withAuth(r), &marketpb.GetListingRequest{ID: chi.URLParam(r, "id")})
	if err != nil {
		h.writeError(w, "GetListing", err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp.Listing)
}

func (h *ListingHandler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	if _, err := h.client.DeleteListing(withAuth(r), &marketpb.DeleteListingRequest{ID: chi.URLParam(r, "id")}); err != nil {
		h.writeError(w, "DeleteListing", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reviewBody struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty"`
}

func (h *ListingHandler) HandleReviewListing(w http.ResponseWriter, r *http.Request) {
	var body reviewBody
	if !h.decode(w, r, &body) {
		return
	}
	resp, err := h.client.ReviewListing(withAuth(r), &marketpb.ReviewListingRequest{
		ID:      chi.URLParam(r, "id"),
		Approve: body.Approve,
		Reason:  body.Reason,
	})
	if err != nil {
		h.writeError(w, "ReviewListing", err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp.Listing)
}

func (h *ListingHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.ListPending(withAuth(r), &marketpb.Empty{})
	if err != nil {
		h.writeError(w, "ListPending", err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *ListingHandler) HandleQueryFeed(w http.ResponseWriter, r *http.Request) {
	var req marketpb.QueryFeedRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.client.QueryFeed(withAuth(r), &req)
	if err != nil {
		h.writeError(w, "QueryFeed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *ListingHandler) HandleRevealMore(w http.ResponseWriter, r *http.Request) {
	var req marketpb.RevealMoreRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.SessionID = chi.URLParam(r, "session")
	resp, err := h.client.RevealMore(withAuth(r), &req)
	if err != nil {
		h.writeError(w, "RevealMore", err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *ListingHandler) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req marketpb.FavoriteRequest
	if !h.decode(w, r, &req) {
		return
	}
	if _, err := h.client.AddFavorite(withAuth(r), &req); err != nil {
		h.writeError(w, "AddFavorite", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *ListingHandler) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	req := &marketpb.FavoriteRequest{ListingID: chi.URLParam(r, "listingID")}
	if _, err := h.client.RemoveFavorite(withAuth(r), req); err != nil {
		h.writeError(w, "RemoveFavorite", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingHandler) HandleGetFavorites(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.ListFavorites(withAuth(r), &marketpb.Empty{})
	if err != nil {
		h.writeError(w, "ListFavorites", err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type offerBody struct {
	Amount  float64 `json:"amount"`
	Message string  `json:"message,omitempty"`
}

func (h *ListingHandler) HandleSubmitOffer(w http.ResponseWriter, r *http.Request) {
	var body offerBody
	if !h.decode(w, r, &body) {
		return
	}
	resp, err := h.client.SubmitOffer(withAuth(r), &marketpb.SubmitOfferRequest{
		ListingID: chi.URLParam(r, "id"),
		Amount:    body.Amount,
		Message:   body.Message,
	})
	if err != nil {
		h.writeError(w, "SubmitOffer", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, resp.Offer)
}

func (h *ListingHandler) HandleListOffers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.ListOffers(withAuth(r), &marketpb.ListOffersRequest{ListingID: chi.URLParam(r, "id")})
	if err != nil {
		h.writeError(w, "ListOffers", err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleUploadLogo expects a multipart form with the image under "logo".
func (h *ListingHandler) HandleUploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLogoSize+1<<10)
	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid multipart form: " + err.Error()})
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing logo file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxLogoSize+1))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "failed to read logo"})
		return
	}
	if len(data) > maxLogoSize {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "logo is larger than 2 MiB"})
		return
	}
	resp, err := h.client.UploadLogo(withAuth(r), &marketpb.UploadLogoRequest{
		ListingID: chi.URLParam(r, "id"),
		FileName:  header.Filename,
		Data:      data,
	})
	if err != nil {
		h.writeError(w, "UploadLogo", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *ListingHandler) HandleVerifyDomain(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.VerifyDomain(withAuth(r), &marketpb.VerifyDomainRequest{ListingID: chi.URLParam(r, "id")})
	if err != nil {
		h.writeError(w, "VerifyDomain", err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleHealth reports liveness of the gateway itself.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}
