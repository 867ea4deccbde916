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

// notificationsLimit caps how many notifications a recipient listing returns.
const notificationsLimit = 50

// NotificationUsecase implements the per-user notification operations.
type NotificationUsecase struct {
	repo    domain.NotificationRepository
	mailer  NotificationMailer
	events  EventPublisher
	metrics *metrics.Manager
	logger  *logger.Logger
}

// NewNotificationUsecase creates a NotificationUsecase. mailer, events and m
// may be nil.
func NewNotificationUsecase(repo domain.NotificationRepository, mailer NotificationMailer, events EventPublisher, m *metrics.Manager, log *logger.Logger) *NotificationUsecase {
	return &NotificationUsecase{
		repo:    repo,
		mailer:  mailer,
		events:  events,
		metrics: m,
		logger:  log.Named("NotificationUsecase"),
	}
}

// NotifyInput carries the notify payload.
type NotifyInput struct {
	To         string
	Message    string
	Type       string
	PropertyID string
}

// Notify stores a new unread notification for the recipient. When SMTP is
// configured the message is also emailed, best-effort.
func (uc *NotificationUsecase) Notify(ctx context.Context, in NotifyInput) (string, error) {
	notification, err := domain.NewNotification(in.To, in.Message, in.Type, in.PropertyID, time.Now())
	if err != nil {
		return "", err
	}

	id, err := uc.repo.Create(ctx, notification)
	if err != nil {
		uc.logger.Error("Failed to create notification", zap.Error(err))
		return "", err
	}

	if uc.mailer != nil {
		if err := uc.mailer.SendNotification(notification.To, notification.Message); err != nil {
			uc.logger.Warn("Notification email delivery failed", zap.String("notification_id", id), zap.Error(err))
		}
	}

	if uc.metrics != nil {
		uc.metrics.NotificationsCreatedTotal.Inc()
	}
	if uc.events != nil {
		if err := uc.events.Publish(ctx, "notification.created", map[string]interface{}{
			"notification_id": id,
			"to":              notification.To,
			"type":            notification.Type,
		}); err != nil {
			uc.logger.Warn("Failed to publish event", zap.String("subject", "notification.created"), zap.Error(err))
		}
	}

	uc.logger.Info("Notification created", zap.String("notification_id", id), zap.String("to", notification.To))
	return id, nil
}

// ListNotifications returns the recipient's most recent notifications, newest
// first, capped at 50.
func (uc *NotificationUsecase) ListNotifications(ctx context.Context, email string) ([]*domain.Notification, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	return uc.repo.FindByRecipient(ctx, email, notificationsLimit)
}

// MarkRead marks one notification as read. Idempotent.
func (uc *NotificationUsecase) MarkRead(ctx context.Context, id string) (int64, error) {
	if err := validateID(id); err != nil {
		return 0, err
	}
	return uc.repo.MarkRead(ctx, id)
}

// MarkAllRead marks all of a recipient's unread notifications as read.
// Idempotent: a second call reports zero modified.
func (uc *NotificationUsecase) MarkAllRead(ctx context.Context, email string) (int64, error) {
	if email == "" {
		return 0, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	return uc.repo.MarkAllRead(ctx, email)
}

// DeleteNotification removes one notification; returns the deleted count.
func (uc *NotificationUsecase) DeleteNotification(ctx context.Context, id string) (int64, error) {
	if err := validateID(id); err != nil {
		return 0, err
	}
	return uc.repo.Delete(ctx, id)
}

// ClearNotifications removes all notifications for a recipient.
func (uc *NotificationUsecase) ClearNotifications(ctx context.Context, email string) (int64, error) {
	if email == "" {
		return 0, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	return uc.repo.DeleteByRecipient(ctx, email)
}
