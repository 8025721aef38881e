// Package generator produces synthetic listings for demos, seeding and tests.
// Only the shape of the output is meaningful; the content is random but
// reproducible for a given seed.
package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
)

var (
	prefixes = []string{"get", "my", "the", "go", "try", "use", "hey", "pro", "top", "best"}
	words    = []string{
		"cloud", "pixel", "stack", "shop", "crypto", "health", "travel", "learn", "play", "food",
		"home", "style", "fit", "bank", "code", "data", "smart", "green", "nova", "zen",
	}
	tlds         = []string{"com", "io", "ai", "net", "org", "co", "app", "dev"}
	descriptions = []string{
		"Premium brandable name with strong recall.",
		"Short, memorable and ready for a startup.",
		"Aged domain with clean history.",
		"Perfect fit for an online store.",
	}
)

// Options controls the mix of generated listings.
type Options struct {
	Now           time.Time
	PromotedRatio float64
	AuctionRatio  float64
	GroupRatio    float64
	// RestrictedRatio is the share of non-general content.
	RestrictedRatio float64
}

func DefaultOptions(now time.Time) Options {
	return Options{
		Now:             now,
		PromotedRatio:   0.05,
		AuctionRatio:    0.15,
		GroupRatio:      0.10,
		RestrictedRatio: 0.04,
	}
}

// Generate returns n approved listings. The same n, seed and opts always
// produce the same listings.
func Generate(n int, seed uint64, opts Options) []domain.Listing {
	if n <= 0 {
		return nil
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]domain.Listing, 0, n)
	seen := make(map[string]int, n)

	for i := 0; i < n; i++ {
		name := pick(r, prefixes) + pick(r, words)
		if r.IntN(2) == 0 {
			name += pick(r, words)
		}
		tld := pick(r, tlds)
		fqdn := name + "." + tld
		if k := seen[fqdn]; k > 0 {
			fqdn = fmt.Sprintf("%s%d.%s", name, k, tld)
		}
		seen[name+"."+tld]++

		created := opts.Now.Add(-time.Duration(r.IntN(90*24)) * time.Hour)
		l := domain.Listing{
			ID:                fmt.Sprintf("gen-%06d", i+1),
			SellerID:          fmt.Sprintf("seller-%03d", r.IntN(40)+1),
			Domain:            fqdn,
			TLD:               tld,
			Description:       pick(r, descriptions),
			Price:             float64(r.IntN(200)+1) * 50,
			PriceType:         domain.PriceAsking,
			Category:          pick(r, domain.Categories),
			ContentType:       domain.ContentGeneral,
			Status:            domain.StatusApproved,
			Offers:            r.IntN(25),
			Views:             r.IntN(5000),
			CreatedAt:         created,
			UpdatedAt:         created,
			HasWebsite:        r.Float64() < 0.3,
			HasLogo:           r.Float64() < 0.4,
			HasBusinessAssets: r.Float64() < 0.15,
			HasSocialAccounts: r.Float64() < 0.25,
			IsPromoted:        r.Float64() < opts.PromotedRatio,
			HideMinimumOffer:  r.Float64() < 0.1,
		}

		switch p := r.Float64(); {
		case p < opts.AuctionRatio:
			l.PriceType = domain.PriceStartingBid
			l.Bids = r.IntN(30)
			end := opts.Now.Add(time.Duration(r.IntN(14*24)+1) * time.Hour)
			l.EndTime = &end
		case p < 0.5:
			l.PriceType = domain.PriceAcceptingOffers
		}
		if r.Float64() < opts.RestrictedRatio {
			l.ContentType = []domain.ContentType{domain.ContentAdult, domain.ContentGambling, domain.ContentWeapons}[r.IntN(3)]
		}
		if r.Float64() < 0.2 {
			for _, alt := range tlds[:r.IntN(3)+1] {
				if alt != tld {
					l.Variants = append(l.Variants, name+"."+alt)
				}
			}
		}
		if r.Float64() < opts.GroupRatio {
			l.GroupID = fmt.Sprintf("group-%02d", r.IntN(10)+1)
		}
		out = append(out, l)
	}
	return out
}

func pick[T any](r *rand.Rand, xs []T) T {
	return xs[r.IntN(len(xs))]
}
