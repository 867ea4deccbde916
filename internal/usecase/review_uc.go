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

// ReviewUsecase implements the review append and lookup operations.
type ReviewUsecase struct {
	repo    domain.PropertyRepository
	events  EventPublisher
	metrics *metrics.Manager
	logger  *logger.Logger
}

// NewReviewUsecase creates a ReviewUsecase. events and m may be nil.
func NewReviewUsecase(repo domain.PropertyRepository, events EventPublisher, m *metrics.Manager, log *logger.Logger) *ReviewUsecase {
	return &ReviewUsecase{
		repo:    repo,
		events:  events,
		metrics: m,
		logger:  log.Named("ReviewUsecase"),
	}
}

// AddReviewInput carries the add-review payload. Rating is a pointer so an
// absent rating can be told apart from a legitimate zero.
type AddReviewInput struct {
	ReviewerName string
	Rating       *float64
	ReviewText   string
	UserEmail    string
}

// AddReview appends a review to the property's review list, then re-reads the
// property and writes back the recomputed mean rating. The recompute is
// best-effort: it is not atomic with the append, and a failure leaves the
// stored rating transiently stale rather than failing the request.
func (uc *ReviewUsecase) AddReview(ctx context.Context, propertyID string, in AddReviewInput) (*domain.Review, error) {
	if err := validateID(propertyID); err != nil {
		return nil, err
	}
	if in.ReviewerName == "" || in.ReviewText == "" || in.UserEmail == "" || in.Rating == nil {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrInvalidInput)
	}

	review := &domain.Review{
		ReviewerName: in.ReviewerName,
		Rating:       *in.Rating,
		ReviewText:   in.ReviewText,
		UserEmail:    in.UserEmail,
		DateAdded:    time.Now().UTC(),
	}

	if err := uc.repo.PushReview(ctx, propertyID, review); err != nil {
		return nil, err
	}

	uc.recomputeRating(ctx, propertyID)

	if uc.metrics != nil {
		uc.metrics.ReviewsAddedTotal.Inc()
	}
	uc.publish(ctx, "review.added", map[string]interface{}{
		"property_id": propertyID,
		"review_id":   review.ID,
		"user_email":  review.UserEmail,
		"rating":      review.Rating,
	})

	uc.logger.Info("Review added", zap.String("property_id", propertyID), zap.String("review_id", review.ID))
	return review, nil
}

// recomputeRating recomputes the mean from the full review list rather than
// incrementally, so a stale rating self-heals on the next append.
func (uc *ReviewUsecase) recomputeRating(ctx context.Context, propertyID string) {
	property, err := uc.repo.FindByID(ctx, propertyID)
	if err != nil {
		uc.logger.Warn("Failed to re-read property for rating recompute", zap.String("property_id", propertyID), zap.Error(err))
		return
	}
	rating := domain.ComputeRating(property.Reviews)
	if err := uc.repo.SetRating(ctx, propertyID, rating); err != nil {
		uc.logger.Warn("Failed to write recomputed rating", zap.String("property_id", propertyID), zap.Error(err))
	}
}

// ReviewsByUser returns one record per review written by the given email,
// each annotated with its parent property's name, image and identifier.
func (uc *ReviewUsecase) ReviewsByUser(ctx context.Context, email string) ([]domain.UserReview, error) {
	properties, err := uc.repo.FindReviewedBy(ctx, email)
	if err != nil {
		uc.logger.Error("Failed to fetch properties reviewed by user", zap.String("user_email", email), zap.Error(err))
		return nil, err
	}

	userReviews := make([]domain.UserReview, 0)
	for _, property := range properties {
		for _, review := range property.Reviews {
			if review.UserEmail != email {
				continue
			}
			userReviews = append(userReviews, domain.UserReview{
				Review:           review,
				PropertyID:       property.ID,
				PropertyName:     property.Name,
				PropertyImageURL: property.ImageURL,
			})
		}
	}
	return userReviews, nil
}

func (uc *ReviewUsecase) publish(ctx context.Context, subject string, data map[string]interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
