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

// NotificationHandler serves the per-user notification endpoints.
type NotificationHandler struct {
	notifications *usecase.NotificationUsecase
	logger        *logger.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notifications *usecase.NotificationUsecase, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        log.Named("NotificationHandler"),
	}
}

type notifyRequest struct {
	To         string `json:"to"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	PropertyID string `json:"propertyId"`
}

type notifyResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// HandleNotify handles POST /api/notify.
func (h *NotificationHandler) HandleNotify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.notifications.Notify(r.Context(), usecase.NotifyInput{
		To:         req.To,
		Message:    req.Message,
		Type:       req.Type,
		PropertyID: req.PropertyID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "missing required fields")
			return
		}
		h.logger.Error("Failed to create notification", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create notification")
		return
	}
	respondJSON(w, http.StatusOK, notifyResponse{Success: true, ID: id})
}

// HandleList handles GET /api/notifications?email=...
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	notifications, err := h.notifications.ListNotifications(r.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "Email is required")
			return
		}
		h.logger.Error("Failed to fetch notifications", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	respondJSON(w, http.StatusOK, notifications)
}

type markReadResponse struct {
	Success  bool  `json:"success"`
	Modified int64 `json:"modified"`
}

// HandleMarkRead handles PATCH /api/notifications/{id}/read.
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	modified, err := h.notifications.MarkRead(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			respondError(w, http.StatusBadRequest, "Invalid notification ID")
			return
		}
		h.logger.Error("Failed to mark notification read", zap.String("notification_id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update notification")
		return
	}
	respondJSON(w, http.StatusOK, markReadResponse{Success: true, Modified: modified})
}

type markAllReadRequest struct {
	Email string `json:"email"`
}

// HandleMarkAllRead handles PATCH /api/notifications/mark-all-read.
func (h *NotificationHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	var req markAllReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	modified, err := h.notifications.MarkAllRead(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "Email is required")
			return
		}
		h.logger.Error("Failed to mark all notifications read", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update notifications")
		return
	}
	respondJSON(w, http.StatusOK, markReadResponse{Success: true, Modified: modified})
}

type deleteNotificationResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

// HandleDelete handles DELETE /api/notifications/{id}.
func (h *NotificationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.notifications.DeleteNotification(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			respondError(w, http.StatusBadRequest, "Invalid notification ID")
			return
		}
		h.logger.Error("Failed to delete notification", zap.String("notification_id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete notification")
		return
	}
	respondJSON(w, http.StatusOK, deleteNotificationResponse{Success: true, Deleted: deleted})
}

// HandleClearAll handles DELETE /api/notifications/clear-all?email=...
func (h *NotificationHandler) HandleClearAll(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	deleted, err := h.notifications.ClearNotifications(r.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "Email is required")
			return
		}
		h.logger.Error("Failed to clear notifications", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to clear notifications")
		return
	}
	respondJSON(w, http.StatusOK, deleteNotificationResponse{Success: true, Deleted: deleted})
}
