package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/homenest/property-service/internal/domain"
	"github.com/homenest/property-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestReviewUsecase_AddReview_RecomputesMean(t *testing.T) {
	repo := new(MockPropertyRepository)
	uc := NewReviewUsecase(repo, nil, nil, logger.NewLogger())
	id := primitive.NewObjectID().Hex()

	repo.On("PushReview", mock.Anything, id, mock.MatchedBy(func(r *domain.Review) bool {
		return r.ReviewerName == "Bob" && r.Rating == 2 && !r.DateAdded.IsZero()
	})).Return(nil).Once()
	repo.On("FindByID", mock.Anything, id).Return(&domain.Property{
		ID:      id,
		Reviews: []domain.Review{{Rating: 4}, {Rating: 2}},
	}, nil).Once()
	repo.On("SetRating", mock.Anything, id, 3.0).Return(nil).Once()

	review, err := uc.AddReview(context.Background(), id, AddReviewInput{
		ReviewerName: "Bob",
		Rating:       floatPtr(2),
		ReviewText:   "ok",
		UserEmail:    "b@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob", review.ReviewerName)
	repo.AssertExpectations(t)
}

func TestReviewUsecase_AddReview_MissingFields(t *testing.T) {
	repo := new(MockPropertyRepository)
	uc := NewReviewUsecase(repo, nil, nil, logger.NewLogger())
	id := primitive.NewObjectID().Hex()

	cases := []AddReviewInput{
		{Rating: floatPtr(4), ReviewText: "ok", UserEmail: "b@x.com"},
		{ReviewerName: "Bob", ReviewText: "ok", UserEmail: "b@x.com"},
		{ReviewerName: "Bob", Rating: floatPtr(4), UserEmail: "b@x.com"},
		{ReviewerName: "Bob", Rating: floatPtr(4), ReviewText: "ok"},
	}
	for _, in := range cases {
		_, err := uc.AddReview(context.Background(), id, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	repo.AssertNotCalled(t, "PushReview")
}

func TestReviewUsecase_AddReview_InvalidID(t *testing.T) {
	repo := new(MockPropertyRepository)
	uc := NewReviewUsecase(repo, nil, nil, logger.NewLogger())

	_, err := uc.AddReview(context.Background(), "bogus", AddReviewInput{
		ReviewerName: "Bob",
		Rating:       floatPtr(4),
		ReviewText:   "ok",
		UserEmail:    "b@x.com",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	repo.AssertNotCalled(t, "PushReview")
}

func TestReviewUsecase_AddReview_PropertyNotFound(t *testing.T) {
	repo := new(MockPropertyRepository)
	uc := NewReviewUsecase(repo, nil, nil, logger.NewLogger())
	id := primitive.NewObjectID().Hex()

	repo.On("PushReview", mock.Anything, id, mock.Anything).Return(domain.ErrNotFound).Once()

	_, err := uc.AddReview(context.Background(), id, AddReviewInput{
		ReviewerName: "Bob",
		Rating:       floatPtr(4),
		ReviewText:   "ok",
		UserEmail:    "b@x.com",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "SetRating")
}

func TestReviewUsecase_AddReview_RecomputeFailureTolerated(t *testing.T) {
	repo := new(MockPropertyRepository)
	uc := NewReviewUsecase(repo, nil, nil, logger.NewLogger())
	id := primitive.NewObjectID().Hex()

	repo.On("PushReview", mock.Anything, id, mock.Anything).Return(nil).Once()
	repo.On("FindByID", mock.Anything, id).Return(nil, errors.New("connection reset")).Once()

	// The append succeeded; a failed recompute leaves the rating stale but
	// must not fail the request.
	review, err := uc.AddReview(context.Background(), id, AddReviewInput{
		ReviewerName: "Bob",
		Rating:       floatPtr(4),
		ReviewText:   "ok",
		UserEmail:    "b@x.com",
	})
	require.NoError(t, err)
	assert.NotNil(t, review)
	repo.AssertNotCalled(t, "SetRating")
}

func TestReviewUsecase_ReviewsByUser_FlattensAndAnnotates(t *testing.T) {
	repo := new(MockPropertyRepository)
	uc := NewReviewUsecase(repo, nil, nil, logger.NewLogger())

	repo.On("FindReviewedBy", mock.Anything, "a@x.com").Return([]*domain.Property{
		{
			ID:       "p1",
			Name:     "Flat A",
			ImageURL: "a.jpg",
			Reviews: []domain.Review{
				{ID: "r1", UserEmail: "a@x.com", Rating: 4},
				{ID: "r2", UserEmail: "other@x.com", Rating: 1},
			},
		},
		{
			ID:       "p2",
			Name:     "Flat B",
			ImageURL: "b.jpg",
			Reviews: []domain.Review{
				{ID: "r3", UserEmail: "a@x.com", Rating: 5},
			},
		},
	}, nil).Once()

	reviews, err := uc.ReviewsByUser(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	assert.Equal(t, "r1", reviews[0].ID)
	assert.Equal(t, "p1", reviews[0].PropertyID)
	assert.Equal(t, "Flat A", reviews[0].PropertyName)
	assert.Equal(t, "a.jpg", reviews[0].PropertyImageURL)

	assert.Equal(t, "r3", reviews[1].ID)
	assert.Equal(t, "p2", reviews[1].PropertyID)
	repo.AssertExpectations(t)
}
