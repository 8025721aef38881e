package marketpb

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "market.DomainMarket"

// FullMethod returns the "/service/method" path of a DomainMarket method.
func FullMethod(method string) string { return "/" + ServiceName + "/" + method }

type DomainMarketServer interface {
	SubmitListing(context.Context, *SubmitListingRequest) (*ListingResponse, error)
	GetListing(context.Context, *GetListingRequest) (*ListingResponse, error)
	ReviewListing(context.Context, *ReviewListingRequest) (*ListingResponse, error)
	ListPending(context.Context, *Empty) (*ListingsResponse, error)
	DeleteListing(context.Context, *DeleteListingRequest) (*Empty, error)
	QueryFeed(context.Context, *QueryFeedRequest) (*FeedResponse, error)
	RevealMore(context.Context, *RevealMoreRequest) (*FeedResponse, error)
	AddFavorite(context.Context, *FavoriteRequest) (*Empty, error)
	RemoveFavorite(context.Context, *FavoriteRequest) (*Empty, error)
	ListFavorites(context.Context, *Empty) (*FavoritesResponse, error)
	SubmitOffer(context.Context, *SubmitOfferRequest) (*OfferResponse, error)
	ListOffers(context.Context, *ListOffersRequest) (*OffersResponse, error)
	UploadLogo(context.Context, *UploadLogoRequest) (*UploadLogoResponse, error)
	VerifyDomain(context.Context, *VerifyDomainRequest) (*VerifyDomainResponse, error)
}

func unary[Req, Resp any](name string, call func(DomainMarketServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DomainMarketServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(DomainMarketServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DomainMarketServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("SubmitListing", DomainMarketServer.SubmitListing),
		unary("GetListing", DomainMarketServer.GetListing),
		unary("ReviewListing", DomainMarketServer.ReviewListing),
		unary("ListPending", DomainMarketServer.ListPending),
		unary("DeleteListing", DomainMarketServer.DeleteListing),
		unary("QueryFeed", DomainMarketServer.QueryFeed),
		unary("RevealMore", DomainMarketServer.RevealMore),
		unary("AddFavorite", DomainMarketServer.AddFavorite),
		unary("RemoveFavorite", DomainMarketServer.RemoveFavorite),
		unary("ListFavorites", DomainMarketServer.ListFavorites),
		unary("SubmitOffer", DomainMarketServer.SubmitOffer),
		unary("ListOffers", DomainMarketServer.ListOffers),
		unary("UploadLogo", DomainMarketServer.UploadLogo),
		unary("VerifyDomain", DomainMarketServer.VerifyDomain),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "market.proto",
}

func RegisterDomainMarketServer(s grpc.ServiceRegistrar, srv DomainMarketServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client is the typed DomainMarket client. Every call is sent with the JSON
// content-subtype.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitListing(ctx context.Context, in *SubmitListingRequest, opts ...grpc.CallOption) (*ListingResponse, error) {
	return invoke[ListingResponse](ctx, c.cc, "SubmitListing", in, opts)
}

func (c *Client) GetListing(ctx context.Context, in *GetListingRequest, opts ...grpc.CallOption) (*ListingResponse, error) {
	return invoke[ListingResponse](ctx, c.cc, "GetListing", in, opts)
}

func (c *Client) ReviewListing(ctx context.Context, in *ReviewListingRequest, opts ...grpc.CallOption) (*ListingResponse, error) {
	return invoke[ListingResponse](ctx, c.cc, "ReviewListing", in, opts)
}

func (c *Client) ListPending(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListingsResponse, error) {
	return invoke[ListingsResponse](ctx, c.cc, "ListPending", in, opts)
}

func (c *Client) DeleteListing(ctx context.Context, in *DeleteListingRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "DeleteListing", in, opts)
}

func (c *Client) QueryFeed(ctx context.Context, in *QueryFeedRequest, opts ...grpc.CallOption) (*FeedResponse, error) {
	return invoke[FeedResponse](ctx, c.cc, "QueryFeed", in, opts)
}

func (c *Client) RevealMore(ctx context.Context, in *RevealMoreRequest, opts ...grpc.CallOption) (*FeedResponse, error) {
	return invoke[FeedResponse](ctx, c.cc, "RevealMore", in, opts)
}

func (c *Client) AddFavorite(ctx context.Context, in *FavoriteRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "AddFavorite", in, opts)
}

func (c *Client) RemoveFavorite(ctx context.Context, in *FavoriteRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "RemoveFavorite", in, opts)
}

func (c *Client) ListFavorites(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*FavoritesResponse, error) {
	return invoke[FavoritesResponse](ctx, c.cc, "ListFavorites", in, opts)
}

func (c *Client) SubmitOffer(ctx context.Context, in *SubmitOfferRequest, opts ...grpc.CallOption) (*OfferResponse, error) {
	return invoke[OfferResponse](ctx, c.cc, "SubmitOffer", in, opts)
}

func (c *Client) ListOffers(ctx context.Context, in *ListOffersRequest, opts ...grpc.CallOption) (*OffersResponse, error) {
	return invoke[OffersResponse](ctx, c.cc, "ListOffers", in, opts)
}

func (c *Client) UploadLogo(ctx context.Context, in *UploadLogoRequest, opts ...grpc.CallOption) (*UploadLogoResponse, error) {
	return invoke[UploadLogoResponse](ctx, c.cc, "UploadLogo", in, opts)
}

func (c *Client) VerifyDomain(ctx context.Context, in *VerifyDomainRequest, opts ...grpc.CallOption) (*VerifyDomainResponse, error) {
	return invoke[VerifyDomainResponse](ctx, c.cc, "VerifyDomain", in, opts)
}
