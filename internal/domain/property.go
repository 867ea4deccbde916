package domain

import (
	"fmt"
	"math"
	"time"
)

// Sort keys accepted by the property listing query.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// CategoryAll is the sentinel category value meaning "no category filter".
const CategoryAll = "all"

const (
	defaultCategory  = "other"
	defaultOwnerName = "Owner"
)

// Property is a marketplace listing. Reviews are embedded and append-only;
// Rating is the arithmetic mean of the embedded review ratings.
type Property struct {
	ID          string    `json:"_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	OwnerEmail  string    `json:"ownerEmail"`
	OwnerName   string    `json:"ownerName"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Area        string    `json:"area"`
	Parking     bool      `json:"parking"`
	Amenities   []string  `json:"amenities"`
	ImageURL    string    `json:"imageURL"`
	Images      []string  `json:"images"`
	PostedDate  time.Time `json:"postedDate"`
	Reviews     []Review  `json:"reviews"`
	Rating      float64   `json:"rating"`
}

// Review is a single user review embedded in a property. Once appended it is
// never mutated or removed.
type Review struct {
	ID           string    `json:"id"`
	ReviewerName string    `json:"reviewerName"`
	Rating       float64   `json:"rating"`
	ReviewText   string    `json:"reviewText"`
	UserEmail    string    `json:"userEmail"`
	DateAdded    time.Time `json:"dateAdded"`
}

// UserReview is a review flattened out of its parent property and annotated
// with the property's name, image and identifier, for "reviews by user" queries.
type UserReview struct {
	Review
	PropertyID       string `json:"propertyId"`
	PropertyName     string `json:"propertyName"`
	PropertyImageURL string `json:"propertyImageURL"`
}

// CreatePropertyInput carries the add-listing payload. Pointer fields
// distinguish "absent" from a legitimate zero value.
type CreatePropertyInput struct {
	Name        string
	Description string
	Location    string
	Price       *float64
	Category    string
	OwnerEmail  string
	OwnerName   string
	Bedrooms    int
	Bathrooms   int
	Area        string
	Parking     bool
	Amenities   []string
	ImageURL    string
	Images      []string
}

// NewProperty validates the creation payload and builds a property with all
// defaults applied: empty review list, zero rating, creation timestamp.
func NewProperty(in CreatePropertyInput, now time.Time) (*Property, error) {
	if in.Name == "" || in.Location == "" || in.OwnerEmail == "" || in.Price == nil {
		return nil, fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}

	p := &Property{
		Name:        in.Name,
		Description: in.Description,
		Location:    in.Location,
		Price:       math.Max(*in.Price, 0),
		Category:    in.Category,
		OwnerEmail:  in.OwnerEmail,
		OwnerName:   in.OwnerName,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		Area:        in.Area,
		Parking:     in.Parking,
		Amenities:   in.Amenities,
		ImageURL:    in.ImageURL,
		Images:      in.Images,
		PostedDate:  now.UTC(),
		Reviews:     []Review{},
		Rating:      0,
	}
	if p.Category == "" {
		p.Category = defaultCategory
	}
	if p.OwnerName == "" {
		p.OwnerName = defaultOwnerName
	}
	if p.Bedrooms < 0 {
		p.Bedrooms = 0
	}
	if p.Bathrooms < 0 {
		p.Bathrooms = 0
	}
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if len(p.Images) == 0 && p.ImageURL != "" {
		p.Images = []string{p.ImageURL}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

// ComputeRating returns the arithmetic mean of the review ratings, 0 for an
// empty list.
func ComputeRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return sum / float64(len(reviews))
}

// ListQuery holds the normalized parameters of a filtered listing query.
type ListQuery struct {
	Search   string
	Category string
	SortBy   string
	Page     int
	Limit    int
}

const (
	defaultPage  = 1
	defaultLimit = 8
)

// Normalize applies defaults and resolves sentinel values: page>=1, limit>=1,
// category "all" means no filter, unknown sort keys fall back to newest-first.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Category == CategoryAll {
		q.Category = ""
	}
	switch q.SortBy {
	case SortOldest, SortPriceAsc, SortPriceDesc:
	default:
		q.SortBy = SortNewest
	}
	return q
}

// Skip returns the pagination offset for the query.
func (q ListQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

// ListResult is one page of a filtered listing query.
type ListResult struct {
	Properties  []*Property `json:"properties"`
	TotalItems  int64       `json:"totalItems"`
	TotalPages  int64       `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
}

// TotalPages computes ceil(totalItems/limit) for a page size.
func TotalPages(totalItems int64, limit int) int64 {
	if limit < 1 {
		return 0
	}
	return (totalItems + int64(limit) - 1) / int64(limit)
}
