package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestNewProperty_Defaults(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	p, err := NewProperty(CreatePropertyInput{
		Name:       "Flat A",
		Location:   "X",
		Price:      floatPtr(1000),
		OwnerEmail: "o@x.com",
		ImageURL:   "https://img.example/a.jpg",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "other", p.Category)
	assert.Equal(t, "Owner", p.OwnerName)
	assert.Equal(t, 0, p.Bedrooms)
	assert.Equal(t, 0, p.Bathrooms)
	assert.Equal(t, "", p.Area)
	assert.False(t, p.Parking)
	assert.Equal(t, []string{}, p.Amenities)
	assert.Equal(t, []string{"https://img.example/a.jpg"}, p.Images)
	assert.Equal(t, now, p.PostedDate)
	assert.Equal(t, []Review{}, p.Reviews)
	assert.Zero(t, p.Rating)
}

func TestNewProperty_MissingRequiredFields(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name string
		in   CreatePropertyInput
	}{
		{"no name", CreatePropertyInput{Location: "X", Price: floatPtr(1), OwnerEmail: "o@x.com"}},
		{"no location", CreatePropertyInput{Name: "A", Price: floatPtr(1), OwnerEmail: "o@x.com"}},
		{"no price", CreatePropertyInput{Name: "A", Location: "X", OwnerEmail: "o@x.com"}},
		{"no owner email", CreatePropertyInput{Name: "A", Location: "X", Price: floatPtr(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProperty(tc.in, now)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestNewProperty_NormalizesNegatives(t *testing.T) {
	p, err := NewProperty(CreatePropertyInput{
		Name:       "A",
		Location:   "X",
		Price:      floatPtr(-50),
		OwnerEmail: "o@x.com",
		Bedrooms:   -2,
		Bathrooms:  -1,
	}, time.Now())
	require.NoError(t, err)

	assert.Zero(t, p.Price)
	assert.Zero(t, p.Bedrooms)
	assert.Zero(t, p.Bathrooms)
}

func TestNewProperty_KeepsSuppliedImages(t *testing.T) {
	p, err := NewProperty(CreatePropertyInput{
		Name:       "A",
		Location:   "X",
		Price:      floatPtr(1),
		OwnerEmail: "o@x.com",
		ImageURL:   "primary.jpg",
		Images:     []string{"one.jpg", "two.jpg"},
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, []string{"one.jpg", "two.jpg"}, p.Images)
}

func TestComputeRating(t *testing.T) {
	assert.Zero(t, ComputeRating(nil))
	assert.Zero(t, ComputeRating([]Review{}))

	reviews := []Review{{Rating: 4}, {Rating: 2}}
	assert.Equal(t, 3.0, ComputeRating(reviews))

	reviews = append(reviews, Review{Rating: 5})
	assert.InDelta(t, 11.0/3.0, ComputeRating(reviews), 1e-9)
}

func TestListQuery_Normalize(t *testing.T) {
	q := ListQuery{}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 8, q.Limit)
	assert.Equal(t, SortNewest, q.SortBy)

	q = ListQuery{Category: CategoryAll, SortBy: "bogus", Page: -3, Limit: 0}.Normalize()
	assert.Empty(t, q.Category)
	assert.Equal(t, SortNewest, q.SortBy)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 8, q.Limit)

	q = ListQuery{Category: "apartment", SortBy: SortPriceDesc, Page: 2, Limit: 8}.Normalize()
	assert.Equal(t, "apartment", q.Category)
	assert.Equal(t, SortPriceDesc, q.SortBy)
	assert.Equal(t, 8, q.Skip())
}

func TestTotalPages(t *testing.T) {
	assert.EqualValues(t, 0, TotalPages(0, 8))
	assert.EqualValues(t, 1, TotalPages(1, 8))
	assert.EqualValues(t, 1, TotalPages(8, 8))
	assert.EqualValues(t, 2, TotalPages(9, 8))
	assert.EqualValues(t, 3, TotalPages(17, 8))
}

func TestNewNotification(t *testing.T) {
	now := time.Now()

	_, err := NewNotification("", "hello", "", "", now)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewNotification("a@x.com", "", "", "", now)
	assert.ErrorIs(t, err, ErrInvalidInput)

	n, err := NewNotification("a@x.com", "hello", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, "info", n.Type)
	assert.False(t, n.Read)
	assert.Equal(t, now.UTC(), n.CreatedAt)

	n, err = NewNotification("a@x.com", "hello", "alert", "prop1", now)
	require.NoError(t, err)
	assert.Equal(t, "alert", n.Type)
	assert.Equal(t, "prop1", n.PropertyID)
}
