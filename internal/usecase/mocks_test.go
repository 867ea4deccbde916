package usecase

import (
	"context"

	"github.com/homenest/property-service/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPropertyRepository struct{ mock.Mock }

func (m *MockPropertyRepository) Create(ctx context.Context, property *domain.Property) (string, error) {
	args := m.Called(ctx, property)
	return args.String(0), args.Error(1)
}
func (m *MockPropertyRepository) FindLatest(ctx context.Context, limit int) ([]*domain.Property, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Property), args.Error(1)
}
func (m *MockPropertyRepository) FindByFilter(ctx context.Context, query domain.ListQuery) ([]*domain.Property, int64, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Property), args.Get(1).(int64), args.Error(2)
}
func (m *MockPropertyRepository) FindByOwner(ctx context.Context, email string) ([]*domain.Property, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Property), args.Error(1)
}
func (m *MockPropertyRepository) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockPropertyRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPropertyRepository) PushReview(ctx context.Context, propertyID string, review *domain.Review) error {
	args := m.Called(ctx, propertyID, review)
	return args.Error(0)
}
func (m *MockPropertyRepository) SetRating(ctx context.Context, propertyID string, rating float64) error {
	args := m.Called(ctx, propertyID, rating)
	return args.Error(0)
}
func (m *MockPropertyRepository) FindReviewedBy(ctx context.Context, email string) ([]*domain.Property, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Property), args.Error(1)
}
func (m *MockPropertyRepository) RepairMissingReviews(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockPropertyRepository) CountProperties(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockPropertyRepository) CountReviews(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Create(ctx context.Context, notification *domain.Notification) (string, error) {
	args := m.Called(ctx, notification)
	return args.String(0), args.Error(1)
}
func (m *MockNotificationRepository) FindByRecipient(ctx context.Context, email string, limit int64) ([]*domain.Notification, error) {
	args := m.Called(ctx, email, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}
func (m *MockNotificationRepository) MarkRead(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepository) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepository) DeleteByRecipient(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data map[string]interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendNotification(to, message string) error {
	args := m.Called(to, message)
	return args.Error(0)
}
