package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/feed"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

type FavoriteUsecase struct {
	repo     domain.FavoriteRepository
	listings domain.ListingRepository
	logger   *logger.Logger
}

func NewFavoriteUsecase(repo domain.FavoriteRepository, listings domain.ListingRepository, log *logger.Logger) *FavoriteUsecase {
	return &FavoriteUsecase{repo: repo, listings: listings, logger: log.Named("FavoriteUsecase")}
}

func (uc *FavoriteUsecase) AddFavorite(ctx context.Context, userID, listingID string) error {
	uc.logger.Info("AddFavorite: adding favorite", zap.String("user_id", userID), zap.String("listing_id", listingID))
	if userID == "" {
		return domain.ErrForbidden
	}
	if _, err := uc.listings.FindByID(ctx, listingID); err != nil {
		return err
	}
	err := uc.repo.Add(ctx, &domain.Favorite{UserID: userID, ListingID: listingID, CreatedAt: time.Now().UTC()})
	if err != nil {
		uc.logger.Error("AddFavorite: failed to add favorite", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
	}
	return err
}

func (uc *FavoriteUsecase) RemoveFavorite(ctx context.Context, userID, listingID string) error {
	uc.logger.Info("RemoveFavorite: removing favorite", zap.String("user_id", userID), zap.String("listing_id", listingID))
	err := uc.repo.Remove(ctx, userID, listingID)
	if err != nil {
		uc.logger.Error("RemoveFavorite: failed to remove favorite", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
	}
	return err
}

func (uc *FavoriteUsecase) GetFavorites(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	favorites, err := uc.repo.FindByUserID(ctx, userID)
	if err != nil {
		uc.logger.Error("GetFavorites: failed to fetch favorites", zap.String("user_id", userID), zap.Error(err))
	}
	return favorites, err
}

// SavedSet returns the user's favorited listing ids. Anonymous users have none.
func (uc *FavoriteUsecase) SavedSet(ctx context.Context, userID string) (feed.SavedSet, error) {
	if userID == "" {
		return feed.NewSavedSet(), nil
	}
	favorites, err := uc.GetFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ListingID)
	}
	return feed.NewSavedSet(ids...), nil
}
