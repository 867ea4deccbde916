package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/homenest/property-service/internal/domain"
	"github.com/homenest/property-service/internal/platform/logger"
	"github.com/homenest/property-service/internal/usecase"
	"go.uber.org/zap"
)

// PropertyHandler serves the listing endpoints.
type PropertyHandler struct {
	properties *usecase.PropertyUsecase
	logger     *logger.Logger
}

// NewPropertyHandler creates a PropertyHandler.
func NewPropertyHandler(properties *usecase.PropertyUsecase, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		properties: properties,
		logger:     log.Named("PropertyHandler"),
	}
}

type createPropertyRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	OwnerEmail  string   `json:"ownerEmail"`
	OwnerName   string   `json:"ownerName"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Area        string   `json:"area"`
	Parking     bool     `json:"parking"`
	Amenities   []string `json:"amenities"`
	ImageURL    string   `json:"imageURL"`
	Images      []string `json:"images"`
}

type createPropertyResponse struct {
	Success    bool   `json:"success"`
	InsertedID string `json:"insertedId"`
}

// HandleCreate handles POST /addService.
func (h *PropertyHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.properties.CreateProperty(r.Context(), domain.CreatePropertyInput{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Category:    req.Category,
		OwnerEmail:  req.OwnerEmail,
		OwnerName:   req.OwnerName,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Area:        req.Area,
		Parking:     req.Parking,
		Amenities:   req.Amenities,
		ImageURL:    req.ImageURL,
		Images:      req.Images,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "missing required fields")
			return
		}
		h.logger.Error("Failed to add property", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to add property")
		return
	}

	respondJSON(w, http.StatusCreated, createPropertyResponse{Success: true, InsertedID: id})
}

// HandleLatest handles GET /getServices: the six newest listings.
func (h *PropertyHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	properties, err := h.properties.LatestProperties(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch latest properties", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch properties")
		return
	}
	respondJSON(w, http.StatusOK, properties)
}

// HandleMine handles GET /myServices?email=...
func (h *PropertyHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	properties, err := h.properties.PropertiesByOwner(r.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "Email is required")
			return
		}
		h.logger.Error("Failed to fetch owner properties", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch properties")
		return
	}
	respondJSON(w, http.StatusOK, properties)
}

// HandleList handles GET /allServices with search, category, sort and
// pagination query parameters.
func (h *PropertyHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.properties.ListProperties(r.Context(), domain.ListQuery{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		SortBy:   q.Get("sortBy"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		h.logger.Error("Failed to list properties", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch properties")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleGetSingle handles GET /singleService/{id}.
func (h *PropertyHandler) HandleGetSingle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	property, err := h.properties.GetProperty(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidID):
			respondError(w, http.StatusBadRequest, "Invalid property ID")
		case errors.Is(err, domain.ErrNotFound):
			respondError(w, http.StatusNotFound, "Property not found")
		default:
			h.logger.Error("Failed to fetch property", zap.String("property_id", id), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to fetch property")
		}
		return
	}
	respondJSON(w, http.StatusOK, property)
}

type updatePropertyResponse struct {
	Success       bool  `json:"success"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// HandleUpdate handles PUT /updateService/{id}: a partial field merge, with
// the identifier itself excluded.
func (h *PropertyHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	modified, err := h.properties.UpdateProperty(r.Context(), id, fields)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidID):
			respondError(w, http.StatusBadRequest, "Invalid property ID")
		case errors.Is(err, domain.ErrNotFound):
			respondError(w, http.StatusNotFound, "Property not found")
		default:
			h.logger.Error("Failed to update property", zap.String("property_id", id), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to update property")
		}
		return
	}
	respondJSON(w, http.StatusOK, updatePropertyResponse{Success: true, ModifiedCount: modified})
}

type deletePropertyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleDelete handles DELETE /deleteService/{id}.
func (h *PropertyHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.properties.DeleteProperty(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidID):
			respondError(w, http.StatusBadRequest, "Invalid property ID")
		case errors.Is(err, domain.ErrNotFound):
			respondError(w, http.StatusNotFound, "Property not found")
		default:
			h.logger.Error("Failed to delete property", zap.String("property_id", id), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to delete property")
		}
		return
	}
	respondJSON(w, http.StatusOK, deletePropertyResponse{Success: true, Message: "Property deleted successfully"})
}

type repairResponse struct {
	Success       bool  `json:"success"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// HandleRepair handles GET /fix-properties: an idempotent migration that
// initializes the review list and rating on legacy documents.
func (h *PropertyHandler) HandleRepair(w http.ResponseWriter, r *http.Request) {
	modified, err := h.properties.RepairProperties(r.Context())
	if err != nil {
		h.logger.Error("Failed to repair properties", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fix properties")
		return
	}
	respondJSON(w, http.StatusOK, repairResponse{Success: true, ModifiedCount: modified})
}
