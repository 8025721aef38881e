package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/catalog"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

const maxLogoBytes = 2 << 20

var logoExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".svg": true, ".webp": true}

type PhotoUsecase struct {
	storage domain.Storage
	repo    domain.ListingRepository
	cache   domain.ListingCache
	catalog *catalog.Catalog
	logger  *logger.Logger
}

func NewPhotoUsecase(storage domain.Storage, repo domain.ListingRepository, cache domain.ListingCache, cat *catalog.Catalog, log *logger.Logger) *PhotoUsecase {
	return &PhotoUsecase{storage: storage, repo: repo, cache: cache, catalog: cat, logger: log.Named("PhotoUsecase")}
}

// UploadLogo stores a logo image for the seller's listing and marks it HasLogo.
func (uc *PhotoUsecase) UploadLogo(ctx context.Context, userID, listingID, fileName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !logoExtensions[ext] {
		return "", fmt.Errorf("%w: unsupported logo type %q", domain.ErrInvalidListingData, ext)
	}
	if len(data) == 0 || len(data) > maxLogoBytes {
		return "", fmt.Errorf("%w: logo must be between 1 byte and %d bytes", domain.ErrInvalidListingData, maxLogoBytes)
	}

	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return "", err
	}
	if listing.SellerID != userID {
		return "", domain.ErrForbidden
	}

	url, err := uc.storage.Upload(ctx, fileName, data)
	if err != nil {
		uc.logger.Error("UploadLogo: upload failed", zap.String("listing_id", listingID), zap.Error(err))
		return "", err
	}

	listing.Photos = append(listing.Photos, url)
	listing.HasLogo = true
	listing.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("UploadLogo: failed to update listing", zap.String("listing_id", listingID), zap.Error(err))
		return "", err
	}
	if err := uc.cache.DeleteListing(ctx, listingID); err != nil {
		uc.logger.Warn("UploadLogo: cache invalidation failed", zap.String("listing_id", listingID), zap.Error(err))
	}
	if listing.Status == domain.StatusApproved {
		uc.catalog.Upsert(*listing)
	}
	uc.logger.Info("UploadLogo: logo stored", zap.String("listing_id", listingID), zap.String("url", url))
	return url, nil
}
