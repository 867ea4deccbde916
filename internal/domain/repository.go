package domain

import "context"

// PropertyRepository is the persistence port for property documents.
// Implementations return ErrNotFound for absent documents and ErrInvalidID for
// malformed identifiers.
type PropertyRepository interface {
	Create(ctx context.Context, property *Property) (string, error)
	FindLatest(ctx context.Context, limit int) ([]*Property, error)
	FindByFilter(ctx context.Context, query ListQuery) ([]*Property, int64, error)
	FindByOwner(ctx context.Context, email string) ([]*Property, error)
	FindByID(ctx context.Context, id string) (*Property, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id string) error
	PushReview(ctx context.Context, propertyID string, review *Review) error
	SetRating(ctx context.Context, propertyID string, rating float64) error
	FindReviewedBy(ctx context.Context, email string) ([]*Property, error)
	RepairMissingReviews(ctx context.Context) (int64, error)
	CountProperties(ctx context.Context) (int64, error)
	CountReviews(ctx context.Context) (int64, error)
}

// NotificationRepository is the persistence port for notification documents.
type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) (string, error)
	FindByRecipient(ctx context.Context, email string, limit int64) ([]*Notification, error)
	MarkRead(ctx context.Context, id string) (int64, error)
	MarkAllRead(ctx context.Context, email string) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	DeleteByRecipient(ctx context.Context, email string) (int64, error)
}
