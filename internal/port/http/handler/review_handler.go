package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/homenest/property-service/internal/domain"
	"github.com/homenest/property-service/internal/platform/logger"
	"github.com/homenest/property-service/internal/usecase"
	"go.uber.org/zap"
)

// ReviewHandler serves the review endpoints.
type ReviewHandler struct {
	reviews *usecase.ReviewUsecase
	logger  *logger.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviews *usecase.ReviewUsecase, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  log.Named("ReviewHandler"),
	}
}

type addReviewRequest struct {
	ReviewerName string   `json:"reviewerName"`
	Rating       *float64 `json:"rating"`
	ReviewText   string   `json:"reviewText"`
	UserEmail    string   `json:"userEmail"`
}

type addReviewResponse struct {
	Success bool           `json:"success"`
	Review  *domain.Review `json:"review"`
}

// HandleAddReview handles POST /singleService/{id}/reviews.
func (h *ReviewHandler) HandleAddReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req addReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.reviews.AddReview(r.Context(), id, usecase.AddReviewInput{
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		ReviewText:   req.ReviewText,
		UserEmail:    req.UserEmail,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidID):
			respondError(w, http.StatusBadRequest, "Invalid property ID")
		case errors.Is(err, domain.ErrInvalidInput):
			respondError(w, http.StatusBadRequest, "missing required fields")
		case errors.Is(err, domain.ErrNotFound):
			respondError(w, http.StatusNotFound, "Property not found")
		default:
			h.logger.Error("Failed to add review", zap.String("property_id", id), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to add review")
		}
		return
	}
	respondJSON(w, http.StatusCreated, addReviewResponse{Success: true, Review: review})
}

// HandleReviewsByUser handles GET /reviewsByUser/{email}.
func (h *ReviewHandler) HandleReviewsByUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	reviews, err := h.reviews.ReviewsByUser(r.Context(), email)
	if err != nil {
		h.logger.Error("Failed to fetch user reviews", zap.String("user_email", email), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}
