package usecase

import (
	"context"

	"github.com/homenest/property-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventPublisher publishes best-effort domain events. A nil publisher disables
// event publishing.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data map[string]interface{}) error
}

// NotificationMailer delivers notification emails. A nil mailer disables
// email delivery.
type NotificationMailer interface {
	SendNotification(to, message string) error
}

// validateID rejects identifiers that do not conform to the store's native
// ObjectID hex format, before any store access.
func validateID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return domain.ErrInvalidID
	}
	return nil
}
