package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

const verificationPrefix = "domain-market-verification="

type VerificationUsecase struct {
	verifier domain.DomainVerifier
	repo     domain.ListingRepository
	cache    domain.ListingCache
	logger   *logger.Logger
}

func NewVerificationUsecase(verifier domain.DomainVerifier, repo domain.ListingRepository, cache domain.ListingCache, log *logger.Logger) *VerificationUsecase {
	return &VerificationUsecase{verifier: verifier, repo: repo, cache: cache, logger: log.Named("VerificationUsecase")}
}

// Token is the TXT record value the seller must publish for a listing.
func Token(l *domain.Listing) string {
	sum := sha256.Sum256([]byte(l.ID + ":" + l.SellerID + ":" + l.Domain))
	return verificationPrefix + hex.EncodeToString(sum[:12])
}

// VerifyDomain asks the verifier whether the listing's domain carries its
// token and marks the listing verified when it does.
func (uc *VerificationUsecase) VerifyDomain(ctx context.Context, userID, listingID string) (bool, string, error) {
	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return false, "", err
	}
	if listing.SellerID != userID {
		return false, "", domain.ErrForbidden
	}
	token := Token(listing)
	if listing.Verified {
		return true, token, nil
	}

	ok, err := uc.verifier.Verify(ctx, listing.Domain, token)
	if err != nil {
		uc.logger.Error("VerifyDomain: verifier call failed", zap.String("listing_id", listingID), zap.Error(err))
		return false, token, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}
	if !ok {
		uc.logger.Info("VerifyDomain: token not found", zap.String("listing_id", listingID), zap.String("domain", listing.Domain))
		return false, token, nil
	}

	listing.Verified = true
	listing.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, listing); err != nil {
		return false, token, err
	}
	if err := uc.cache.DeleteListing(ctx, listingID); err != nil {
		uc.logger.Warn("VerifyDomain: cache invalidation failed", zap.String("listing_id", listingID), zap.Error(err))
	}
	uc.logger.Info("VerifyDomain: domain verified", zap.String("listing_id", listingID), zap.String("domain", listing.Domain))
	return true, token, nil
}
