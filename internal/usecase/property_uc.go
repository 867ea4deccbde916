package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/homenest/property-service/internal/domain"
	"github.com/homenest/property-service/internal/platform/logger"
	"github.com/homenest/property-service/internal/platform/metrics"
	"go.uber.org/zap"
)

// latestLimit is the page size of the home-page listing.
const latestLimit = 6

// PropertyUsecase implements the listing operations.
type PropertyUsecase struct {
	repo    domain.PropertyRepository
	events  EventPublisher
	metrics *metrics.Manager
	logger  *logger.Logger
}

// NewPropertyUsecase creates a PropertyUsecase. events and m may be nil.
func NewPropertyUsecase(repo domain.PropertyRepository, events EventPublisher, m *metrics.Manager, log *logger.Logger) *PropertyUsecase {
	return &PropertyUsecase{
		repo:    repo,
		events:  events,
		metrics: m,
		logger:  log.Named("PropertyUsecase"),
	}
}

// CreateProperty validates the payload, applies defaults and stores the new
// listing. Returns the assigned identifier.
func (uc *PropertyUsecase) CreateProperty(ctx context.Context, in domain.CreatePropertyInput) (string, error) {
	property, err := domain.NewProperty(in, time.Now())
	if err != nil {
		return "", err
	}

	id, err := uc.repo.Create(ctx, property)
	if err != nil {
		uc.logger.Error("Failed to create property", zap.Error(err))
		return "", err
	}

	if uc.metrics != nil {
		uc.metrics.PropertiesCreatedTotal.Inc()
	}
	uc.publish(ctx, "property.created", map[string]interface{}{
		"property_id": id,
		"owner_email": property.OwnerEmail,
		"category":    property.Category,
	})

	uc.logger.Info("Property created", zap.String("property_id", id))
	return id, nil
}

// LatestProperties returns the most recently created listings, newest first.
func (uc *PropertyUsecase) LatestProperties(ctx context.Context) ([]*domain.Property, error) {
	return uc.repo.FindLatest(ctx, latestLimit)
}

// ListProperties runs a filtered, sorted, paginated listing query.
func (uc *PropertyUsecase) ListProperties(ctx context.Context, query domain.ListQuery) (*domain.ListResult, error) {
	query = query.Normalize()

	properties, total, err := uc.repo.FindByFilter(ctx, query)
	if err != nil {
		uc.logger.Error("Failed to list properties", zap.Error(err))
		return nil, err
	}

	return &domain.ListResult{
		Properties:  properties,
		TotalItems:  total,
		TotalPages:  domain.TotalPages(total, query.Limit),
		CurrentPage: query.Page,
	}, nil
}

// PropertiesByOwner returns all listings owned by the given email.
func (uc *PropertyUsecase) PropertiesByOwner(ctx context.Context, email string) ([]*domain.Property, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	return uc.repo.FindByOwner(ctx, email)
}

// GetProperty returns a single listing by identifier.
func (uc *PropertyUsecase) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return uc.repo.FindByID(ctx, id)
}

// UpdateProperty applies a partial field merge onto an existing listing. The
// identifier itself is immutable. Returns the modified count.
func (uc *PropertyUsecase) UpdateProperty(ctx context.Context, id string, fields map[string]interface{}) (int64, error) {
	if err := validateID(id); err != nil {
		return 0, err
	}

	modified, err := uc.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return 0, err
	}
	uc.logger.Info("Property updated", zap.String("property_id", id), zap.Int64("modified", modified))
	return modified, nil
}

// DeleteProperty removes a listing.
func (uc *PropertyUsecase) DeleteProperty(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.publish(ctx, "property.deleted", map[string]interface{}{"property_id": id})
	uc.logger.Info("Property deleted", zap.String("property_id", id))
	return nil
}

// RepairProperties initializes the review list and rating on legacy documents
// that lack them. Safe to run repeatedly.
func (uc *PropertyUsecase) RepairProperties(ctx context.Context) (int64, error) {
	modified, err := uc.repo.RepairMissingReviews(ctx)
	if err != nil {
		return 0, err
	}
	uc.logger.Info("Properties repaired", zap.Int64("modified", modified))
	return modified, nil
}

func (uc *PropertyUsecase) publish(ctx context.Context, subject string, data map[string]interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
