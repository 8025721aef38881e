package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/gateway/handler"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/gateway/middleware"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

type Options struct {
	JWTSecret string
	// OfferRPS bounds offer submissions across all callers.
	OfferRPS float64
}

// New builds the gateway routes. Feed and listing reads are public; the
// Authorization header is still forwarded so signed-in callers get their
// saved listings and seller views.
func New(h *handler.ListingHandler, opts Options, log *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(log))

	r.Get("/healthz", handler.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/feed", h.HandleQueryFeed)
		r.Post("/feed/{session}/more", h.HandleRevealMore)
		r.Get("/listings/{id}", h.HandleGetListing)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(opts.JWTSecret))

			r.Post("/listings", h.HandleCreateListing)
			r.Delete("/listings/{id}", h.HandleDeleteListing)
			r.Post("/listings/{id}/logo", h.HandleUploadLogo)
			r.Post("/listings/{id}/verify", h.HandleVerifyDomain)
			r.Get("/listings/{id}/offers", h.HandleListOffers)
			r.With(middleware.Throttle(rate.NewLimiter(rate.Limit(opts.OfferRPS), burst(opts.OfferRPS)))).
				Post("/listings/{id}/offers", h.HandleSubmitOffer)

			r.Get("/favorites", h.HandleGetFavorites)
			r.Post("/favorites", h.HandleAddFavorite)
			r.Delete("/favorites/{listingID}", h.HandleRemoveFavorite)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.JWTAuth(opts.JWTSecret), middleware.RequireAdmin)
			r.Get("/listings/pending", h.HandleListPending)
			r.Post("/listings/{id}/review", h.HandleReviewListing)
		})
	})
	return r
}

func burst(rps float64) int {
	if rps < 1 {
		return 1
	}
	return int(rps)
}
