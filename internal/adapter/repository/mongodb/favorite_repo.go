package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

// FavoriteRepository relies on the unique (user_id, listing_id) index from
// EnsureIndexes to reject duplicates.
type FavoriteRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewFavoriteRepository(db *mongo.Database, log *logger.Logger) *FavoriteRepository {
	return &FavoriteRepository{
		collection: db.Collection(favoriteCollectionName),
		logger:     log.Named("FavoriteRepository"),
	}
}

func (r *FavoriteRepository) Add(ctx context.Context, favorite *domain.Favorite) error {
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now().UTC()
	}
	doc := favoriteDocument{UserID: favorite.UserID, ListingID: favorite.ListingID, CreatedAt: favorite.CreatedAt}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Favorite already exists", zap.String("user_id", favorite.UserID), zap.String("listing_id", favorite.ListingID))
			return domain.ErrDuplicateFavorite
		}
		r.logger.Error("Failed to insert favorite", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		favorite.ID = oid.Hex()
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "listing_id": listingID})
	if err != nil {
		r.logger.Error("Failed to delete favorite", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

// FindByUserID returns the user's favorites, most recent first.
func (r *FavoriteRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		r.logger.Error("Failed to query favorites", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor failed: %w", err)
	}
	favorites := make([]*domain.Favorite, 0, len(docs))
	for i := range docs {
		favorites = append(favorites, docs[i].toDomain())
	}
	return favorites, nil
}
