package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

type OfferRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewOfferRepository(db *mongo.Database, log *logger.Logger) *OfferRepository {
	return &OfferRepository{
		collection: db.Collection(offerCollectionName),
		logger:     log.Named("OfferRepository"),
	}
}

func (r *OfferRepository) Create(ctx context.Context, offer *domain.Offer) error {
	if offer.ID == "" {
		return fmt.Errorf("%w: offer id is required", domain.ErrInvalidOffer)
	}
	if _, err := r.collection.InsertOne(ctx, toOfferDocument(offer)); err != nil {
		r.logger.Error("Failed to insert offer", zap.String("listing_id", offer.ListingID), zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

// FindByListingID returns offers on a listing, newest first.
func (r *OfferRepository) FindByListingID(ctx context.Context, listingID string) ([]*domain.Offer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID}, opts)
	if err != nil {
		r.logger.Error("Failed to query offers", zap.String("listing_id", listingID), zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []offerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor failed: %w", err)
	}
	offers := make([]*domain.Offer, 0, len(docs))
	for i := range docs {
		offers = append(offers, docs[i].toDomain())
	}
	return offers, nil
}
