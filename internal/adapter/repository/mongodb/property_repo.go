package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/homenest/property-service/internal/domain"
	"github.com/homenest/property-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const propertyCollectionName = "properties"

// PropertyRepository implements domain.PropertyRepository using MongoDB.
type PropertyRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewPropertyRepository creates the repository and ensures its indexes.
func NewPropertyRepository(db *mongo.Database, log *logger.Logger) *PropertyRepository {
	collection := db.Collection(propertyCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerEmail", Value: 1}}},
		{Keys: bson.D{{Key: "reviews.userEmail", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Indexes may already exist; not fatal for startup.
		log.Error("Failed to create indexes for properties collection", zap.Error(err))
	}

	return &PropertyRepository{
		collection: collection,
		logger:     log.Named("PropertyRepository"),
	}
}

// Create inserts a new property document and returns the assigned identifier.
func (r *PropertyRepository) Create(ctx context.Context, property *domain.Property) (string, error) {
	doc := toPropertyDocument(property)

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("Failed to insert property", zap.Error(err))
		return "", fmt.Errorf("db insert failed: %w", err)
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	property.ID = insertedID.Hex()
	return property.ID, nil
}

// FindLatest returns the most recently created properties, newest first.
func (r *PropertyRepository) FindLatest(ctx context.Context, limit int) ([]*domain.Property, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	return decodeProperties(ctx, cursor)
}

// FindByFilter returns one page of properties matching the query plus the
// total matching count. The count and the page are two separate queries; under
// concurrent writes they may be mutually inconsistent.
func (r *PropertyRepository) FindByFilter(ctx context.Context, query domain.ListQuery) ([]*domain.Property, int64, error) {
	filter := bson.M{}
	if query.Search != "" {
		regex := primitive.Regex{Pattern: query.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"location": regex},
			bson.M{"description": regex},
		}
	}
	if query.Category != "" {
		filter["category"] = query.Category
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}

	opts := options.Find().
		SetSort(sortOrder(query.SortBy)).
		SetSkip(int64(query.Skip())).
		SetLimit(int64(query.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("db find failed: %w", err)
	}
	properties, err := decodeProperties(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

// sortOrder maps a normalized sort key to a Mongo sort document. Creation
// order is the _id order.
func sortOrder(sortBy string) bson.D {
	switch sortBy {
	case domain.SortOldest:
		return bson.D{{Key: "_id", Value: 1}}
	case domain.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case domain.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	default:
		return bson.D{{Key: "_id", Value: -1}}
	}
}

// FindByOwner returns all properties whose owner email matches.
func (r *PropertyRepository) FindByOwner(ctx context.Context, email string) ([]*domain.Property, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"ownerEmail": email})
	if err != nil {
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	return decodeProperties(ctx, cursor)
}

// FindByID returns the property with the given identifier.
func (r *PropertyRepository) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var doc propertyDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return toPropertyEntity(&doc), nil
}

// UpdateFields applies a partial field merge onto the stored document. The
// identifier field itself is never written. Returns the modified count.
func (r *PropertyRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	delete(fields, "_id")
	delete(fields, "id")

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": fields})
	if err != nil {
		r.logger.Error("Failed to update property", zap.Error(err), zap.String("property_id", id))
		return 0, fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return 0, domain.ErrNotFound
	}
	return result.ModifiedCount, nil
}

// Delete removes the property with the given identifier.
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		r.logger.Error("Failed to delete property", zap.Error(err), zap.String("property_id", id))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PushReview appends a review to the property's review list, assigning it a
// fresh identifier.
func (r *PropertyRepository) PushReview(ctx context.Context, propertyID string, review *domain.Review) error {
	objID, err := primitive.ObjectIDFromHex(propertyID)
	if err != nil {
		return domain.ErrInvalidID
	}

	doc := toReviewDocument(review)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	review.ID = doc.ID.Hex()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$push": bson.M{"reviews": doc}})
	if err != nil {
		r.logger.Error("Failed to push review", zap.Error(err), zap.String("property_id", propertyID))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetRating writes the recomputed mean rating back onto the property.
func (r *PropertyRepository) SetRating(ctx context.Context, propertyID string, rating float64) error {
	objID, err := primitive.ObjectIDFromHex(propertyID)
	if err != nil {
		return domain.ErrInvalidID
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"rating": rating}})
	if err != nil {
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindReviewedBy returns all properties containing at least one review by the
// given email, in natural scan order.
func (r *PropertyRepository) FindReviewedBy(ctx context.Context, email string) ([]*domain.Property, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"reviews.userEmail": email})
	if err != nil {
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	return decodeProperties(ctx, cursor)
}

// RepairMissingReviews initializes the review list and rating on documents
// that lack them. Idempotent; returns the modified count.
func (r *PropertyRepository) RepairMissingReviews(ctx context.Context) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"reviews": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"reviews": bson.A{}, "rating": 0}},
	)
	if err != nil {
		r.logger.Error("Failed to repair properties", zap.Error(err))
		return 0, fmt.Errorf("db update failed: %w", err)
	}
	return result.ModifiedCount, nil
}

// CountProperties returns the total number of property documents.
func (r *PropertyRepository) CountProperties(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("db count failed: %w", err)
	}
	return total, nil
}

// CountReviews sums the embedded review-list lengths across all properties.
func (r *PropertyRepository) CountReviews(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": bson.M{"$size": bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("db aggregate failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("db aggregate decode failed: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func decodeProperties(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Property, error) {
	defer cursor.Close(ctx)

	properties := make([]*domain.Property, 0)
	for cursor.Next(ctx) {
		var doc propertyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("db decode failed: %w", err)
		}
		properties = append(properties, toPropertyEntity(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("db cursor failed: %w", err)
	}
	return properties, nil
}
