package mongodb

import (
	"context"
	"errors"
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

// ListingRepository implements domain.ListingRepository on MongoDB.
type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection(listingCollectionName),
		logger:     log.Named("ListingRepository"),
	}
}

// Create inserts the listing and writes the generated id back into it.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidListingData, err)
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert listing", zap.String("domain", listing.Domain), zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	listing.ID = doc.ID.Hex()
	listing.CreatedAt = doc.CreatedAt
	listing.UpdatedAt = doc.UpdatedAt
	r.logger.Debug("Listing created", zap.String("listing_id", listing.ID))
	return nil
}

// Update replaces the stored listing. Counters are left to IncrementCounters.
func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil || doc.ID.IsZero() {
		return domain.ErrListingNotFound
	}
	doc.UpdatedAt = time.Now().UTC()

	set := bson.M{
		"description":         doc.Description,
		"price":               doc.Price,
		"price_type":          doc.PriceType,
		"category":            doc.Category,
		"content_type":        doc.ContentType,
		"status":              doc.Status,
		"updated_at":          doc.UpdatedAt,
		"end_time":            doc.EndTime,
		"has_website":         doc.HasWebsite,
		"has_logo":            doc.HasLogo,
		"has_business_assets": doc.HasBusinessAssets,
		"has_social_accounts": doc.HasSocialAccounts,
		"variants":            doc.Variants,
		"is_promoted":         doc.IsPromoted,
		"group_id":            doc.GroupID,
		"hide_minimum_offer":  doc.HideMinimumOffer,
		"verified":            doc.Verified,
		"photos":              doc.Photos,
		"reject_reason":       doc.RejectReason,
		"contact_email":       doc.ContactEmail,
	}
	res, err := r.collection.UpdateByID(ctx, doc.ID, bson.M{"$set": set})
	if err != nil {
		r.logger.Error("Failed to update listing", zap.String("listing_id", listing.ID), zap.Error(err))
		return fmt.Errorf("db update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	listing.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil || oid.IsZero() {
		return domain.ErrListingNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := objectID(id)
	if err != nil || oid.IsZero() {
		return nil, domain.ErrListingNotFound
	}
	var doc listingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("Failed to find listing", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByStatus returns listings in status, newest first.
func (r *ListingRepository) FindByStatus(ctx context.Context, status domain.ListingStatus) ([]*domain.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		r.logger.Error("Failed to query listings", zap.String("status", string(status)), zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor failed: %w", err)
	}
	listings := make([]*domain.Listing, 0, len(docs))
	for i := range docs {
		listings = append(listings, docs[i].toDomain())
	}
	r.logger.Debug("Listings fetched", zap.String("status", string(status)), zap.Int("count", len(listings)))
	return listings, nil
}

// IncrementCounters atomically adds to the view, offer and bid counters.
func (r *ListingRepository) IncrementCounters(ctx context.Context, id string, views, offers, bids int) error {
	oid, err := objectID(id)
	if err != nil || oid.IsZero() {
		return domain.ErrListingNotFound
	}
	inc := bson.M{}
	if views != 0 {
		inc["views"] = views
	}
	if offers != 0 {
		inc["offers"] = offers
	}
	if bids != 0 {
		inc["bids"] = bids
	}
	if len(inc) == 0 {
		return nil
	}
	res, err := r.collection.UpdateByID(ctx, oid, bson.M{"$inc": inc})
	if err != nil {
		r.logger.Error("Failed to increment listing counters", zap.String("listing_id", id), zap.Error(err))
		return fmt.Errorf("db update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
