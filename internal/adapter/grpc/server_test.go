package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/grpc/marketpb"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/catalog"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/feed"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/auth"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/metrics"
)

const testSecret = "grpc-test-secret"

type memListings struct {
	mu   sync.Mutex
	data map[string]domain.Listing
	seq  int
}

func (r *memListings) Create(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	l.ID = fmt.Sprintf("m-%d", r.seq)
	r.data[l.ID] = *l
	return nil
}

func (r *memListings) Update(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[l.ID]; !ok {
		return domain.ErrListingNotFound
	}
	r.data[l.ID] = *l
	return nil
}

func (r *memListings) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
	return nil
}

func (r *memListings) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.data[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return &l, nil
}

func (r *memListings) FindByStatus(_ context.Context, s domain.ListingStatus) ([]*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Listing
	for _, l := range r.data {
		if l.Status == s {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}

func (r *memListings) IncrementCounters(_ context.Context, id string, views, offers, bids int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.data[id]
	l.Views += views
	l.Offers += offers
	l.Bids += bids
	r.data[id] = l
	return nil
}

type noCache struct{}

func (noCache) GetListing(context.Context, string) (*domain.Listing, error) { return nil, nil }
func (noCache) SetListing(context.Context, *domain.Listing) error          { return nil }
func (noCache) DeleteListing(context.Context, string) error                { return nil }

type discard struct{}

func (discard) Publish(context.Context, string, interface{}) error                       { return nil }
func (discard) NotifyOffer(context.Context, *domain.Listing, *domain.Offer) error         { return nil }
func (discard) NotifyReview(context.Context, *domain.Listing) error                       { return nil }
func (discard) Add(context.Context, *domain.Favorite) error                               { return nil }
func (discard) Remove(context.Context, string, string) error                              { return nil }
func (discard) FindByUserID(context.Context, string) ([]*domain.Favorite, error)          { return nil, nil }
func (discard) Create(context.Context, *domain.Offer) error                               { return nil }
func (discard) FindByListingID(context.Context, string) ([]*domain.Offer, error)          { return nil, nil }
func (discard) Upload(context.Context, string, []byte) (string, error)                    { return "", nil }
func (discard) Verify(context.Context, string, string) (bool, error)                      { return false, nil }

type sessions struct {
	mu   sync.Mutex
	data map[string]feed.Session
}

func (s *sessions) Get(_ context.Context, userID, id string) (*feed.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[userID+"/"+id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *sessions) Save(_ context.Context, userID string, sess *feed.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID+"/"+sess.ID] = *sess
	return nil
}

type harness struct {
	client *marketpb.Client
	repo   *memListings
}

func newHarness(t *testing.T, approved int) *harness {
	t.Helper()
	log := logger.NewNop()
	m := metrics.NewMetricsManager("test")
	repo := &memListings{data: map[string]domain.Listing{}}
	cat := catalog.New(log)
	seed := make([]domain.Listing, approved)
	for i := range seed {
		seed[i] = domain.Listing{
			ID:          fmt.Sprintf("a-%03d", i),
			SellerID:    "seller",
			Domain:      fmt.Sprintf("approved%03d.com", i),
			Category:    "Business",
			ContentType: domain.ContentGeneral,
			Status:      domain.StatusApproved,
			CreatedAt:   time.Date(2025, 1, 1, 0, i, 0, 0, time.UTC),
		}
		repo.data[seed[i].ID] = seed[i]
	}
	cat.Replace(seed)

	var d discard
	favorites := usecase.NewFavoriteUsecase(d, repo, log)
	h := NewHandler(Usecases{
		Listings:     usecase.NewListingUsecase(repo, noCache{}, d, d, cat, m, log),
		Feed:         usecase.NewFeedUsecase(cat, &sessions{data: map[string]feed.Session{}}, favorites, m, log),
		Favorites:    favorites,
		Offers:       usecase.NewOfferUsecase(d, repo, d, d, cat, m, log),
		Photos:       usecase.NewPhotoUsecase(d, repo, noCache{}, cat, log),
		Verification: usecase.NewVerificationUsecase(d, repo, noCache{}, log),
	}, log)

	srv, _ := NewGRPCServer(h, log, testSecret, m)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &harness{client: marketpb.NewClient(conn), repo: repo}
}

func withToken(t *testing.T, userID, role string) context.Context {
	t.Helper()
	tok, err := auth.IssueToken(testSecret, userID, role, time.Minute)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+tok)
}

func TestServer_FeedIsPublic(t *testing.T) {
	h := newHarness(t, 150)
	ctx := context.Background()

	first, err := h.client.QueryFeed(ctx, &marketpb.QueryFeedRequest{Criteria: feed.DefaultCriteria(), Columns: 5})
	require.NoError(t, err)
	assert.NotEmpty(t, first.SessionID)
	assert.Equal(t, 150, first.Total)
	assert.Len(t, first.Items, 100)
	assert.Equal(t, "a-149", first.Items[0].ID)
	assert.True(t, first.HasMore)

	more, err := h.client.RevealMore(ctx, &marketpb.RevealMoreRequest{SessionID: first.SessionID, Seen: 1, Columns: 5})
	require.NoError(t, err)
	assert.True(t, more.Advanced)
	assert.Len(t, more.Items, 150)
	assert.False(t, more.HasMore)
}

func TestServer_RevealUnknownSession(t *testing.T) {
	h := newHarness(t, 1)
	_, err := h.client.RevealMore(context.Background(), &marketpb.RevealMoreRequest{SessionID: "nope", Seen: 1})
	assert.Equal(t, grpccodes.NotFound, status.Code(err))
}

func TestServer_AuthAndRoles(t *testing.T) {
	h := newHarness(t, 0)
	draft := marketpb.ListingDraft{Domain: "fresh.dev", Price: 10, Category: "Technology"}

	_, err := h.client.SubmitListing(context.Background(), &marketpb.SubmitListingRequest{Draft: draft})
	assert.Equal(t, grpccodes.Unauthenticated, status.Code(err))

	created, err := h.client.SubmitListing(withToken(t, "seller-9", ""), &marketpb.SubmitListingRequest{Draft: draft})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Listing.Status)

	_, err = h.client.GetListing(context.Background(), &marketpb.GetListingRequest{ID: created.Listing.ID})
	assert.Equal(t, grpccodes.NotFound, status.Code(err), "pending listings are hidden from the public")

	_, err = h.client.ReviewListing(withToken(t, "seller-9", ""), &marketpb.ReviewListingRequest{ID: created.Listing.ID, Approve: true})
	assert.Equal(t, grpccodes.PermissionDenied, status.Code(err))

	pending, err := h.client.ListPending(withToken(t, "root", auth.RoleAdmin), &marketpb.Empty{})
	require.NoError(t, err)
	require.Len(t, pending.Listings, 1)

	reviewed, err := h.client.ReviewListing(withToken(t, "root", auth.RoleAdmin), &marketpb.ReviewListingRequest{ID: created.Listing.ID, Approve: true})
	require.NoError(t, err)
	assert.Equal(t, "approved", reviewed.Listing.Status)

	_, err = h.client.ReviewListing(withToken(t, "root", auth.RoleAdmin), &marketpb.ReviewListingRequest{ID: created.Listing.ID, Approve: true})
	assert.Equal(t, grpccodes.FailedPrecondition, status.Code(err))

	page, err := h.client.QueryFeed(context.Background(), &marketpb.QueryFeedRequest{Criteria: feed.DefaultCriteria(), Columns: 1})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "fresh.dev", page.Items[0].Domain)
}

func TestServer_InvalidDraft(t *testing.T) {
	h := newHarness(t, 0)
	_, err := h.client.SubmitListing(withToken(t, "s", ""), &marketpb.SubmitListingRequest{
		Draft: marketpb.ListingDraft{Domain: "nodot", Category: "Technology"},
	})
	assert.Equal(t, grpccodes.InvalidArgument, status.Code(err))
}

func TestServer_BadToken(t *testing.T) {
	h := newHarness(t, 1)
	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer garbage")
	_, err := h.client.QueryFeed(ctx, &marketpb.QueryFeedRequest{Criteria: feed.DefaultCriteria()})
	assert.Equal(t, grpccodes.Unauthenticated, status.Code(err))
}

func TestToListing_HidesMinimumOffer(t *testing.T) {
	l := &domain.Listing{ID: "x", SellerID: "s", Price: 300, PriceType: domain.PriceAcceptingOffers, HideMinimumOffer: true, RejectReason: "n/a"}

	public := toListing(l, "buyer")
	assert.Nil(t, public.Price)
	assert.Empty(t, public.RejectReason)

	own := toListing(l, "s")
	require.NotNil(t, own.Price)
	assert.Equal(t, 300.0, *own.Price)
	assert.Equal(t, "n/a", own.RejectReason)
}

func TestToStatus(t *testing.T) {
	cases := map[error]grpccodes.Code{
		domain.ErrListingNotFound:                          grpccodes.NotFound,
		fmt.Errorf("wrap: %w", domain.ErrDuplicateFavorite): grpccodes.AlreadyExists,
		domain.ErrInvalidOffer:                             grpccodes.InvalidArgument,
		domain.ErrInvalidTransition:                        grpccodes.FailedPrecondition,
		domain.ErrForbidden:                                grpccodes.PermissionDenied,
		domain.ErrVerificationFailed:                       grpccodes.Unavailable,
		errors.New("boom"):                                 grpccodes.Internal,
		status.Error(grpccodes.Aborted, "x"):               grpccodes.Aborted,
	}
	for err, want := range cases {
		assert.Equal(t, want, status.Code(toStatus(err)), err.Error())
	}
	assert.NoError(t, toStatus(nil))
}

func TestServer_ListPendingShowsHiddenMinimumToAdmin(t *testing.T) {
	h := newHarness(t, 0)
	_, err := h.client.SubmitListing(withToken(t, "seller-1", ""), &marketpb.SubmitListingRequest{Draft: marketpb.ListingDraft{
		Domain:           "quiet.io",
		Price:            900,
		PriceType:        "accepting_offers",
		Category:         "Finance",
		HideMinimumOffer: true,
	}})
	require.NoError(t, err)

	pending, err := h.client.ListPending(withToken(t, "root", auth.RoleAdmin), &marketpb.Empty{})
	require.NoError(t, err)
	require.Len(t, pending.Listings, 1)
	require.NotNil(t, pending.Listings[0].Price)
	assert.Equal(t, 900.0, *pending.Listings[0].Price)
}
