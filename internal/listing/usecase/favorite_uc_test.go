package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

func TestFavorites(t *testing.T) {
	repo := new(MockFavoriteRepository)
	listings := new(MockListingRepository)
	uc := NewFavoriteUsecase(repo, listings, logger.NewNop())

	listings.On("FindByID", mock.Anything, "missing").Return(nil, domain.ErrListingNotFound)
	listings.On("FindByID", mock.Anything, "l-1").Return(&domain.Listing{ID: "l-1"}, nil)
	repo.On("Add", mock.Anything, mock.MatchedBy(func(f *domain.Favorite) bool {
		return f.UserID == "u1" && f.ListingID == "l-1"
	})).Return(nil).Once()

	assert.ErrorIs(t, uc.AddFavorite(context.Background(), "u1", "missing"), domain.ErrListingNotFound)
	assert.ErrorIs(t, uc.AddFavorite(context.Background(), "", "l-1"), domain.ErrForbidden)
	require.NoError(t, uc.AddFavorite(context.Background(), "u1", "l-1"))
	repo.AssertExpectations(t)
}
