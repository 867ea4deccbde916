package mongodb

import (
	"time"

	"github.com/homenest/property-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document field names stay camelCase so partial updates can $set request
// payload keys directly and embedded reviews can be queried by
// "reviews.userEmail".

type propertyDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Location    string             `bson:"location"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	OwnerEmail  string             `bson:"ownerEmail"`
	OwnerName   string             `bson:"ownerName"`
	Bedrooms    int                `bson:"bedrooms"`
	Bathrooms   int                `bson:"bathrooms"`
	Area        string             `bson:"area"`
	Parking     bool               `bson:"parking"`
	Amenities   []string           `bson:"amenities"`
	ImageURL    string             `bson:"imageURL"`
	Images      []string           `bson:"images"`
	PostedDate  time.Time          `bson:"postedDate"`
	Reviews     []reviewDocument   `bson:"reviews"`
	Rating      float64            `bson:"rating"`
}

type reviewDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	ReviewerName string             `bson:"reviewerName"`
	Rating       float64            `bson:"rating"`
	ReviewText   string             `bson:"reviewText"`
	UserEmail    string             `bson:"userEmail"`
	DateAdded    time.Time          `bson:"dateAdded"`
}

type notificationDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	To         string             `bson:"to"`
	Message    string             `bson:"message"`
	Type       string             `bson:"type"`
	PropertyID string             `bson:"propertyId,omitempty"`
	Read       bool               `bson:"read"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func toPropertyDocument(p *domain.Property) *propertyDocument {
	doc := &propertyDocument{
		Name:        p.Name,
		Description: p.Description,
		Location:    p.Location,
		Price:       p.Price,
		Category:    p.Category,
		OwnerEmail:  p.OwnerEmail,
		OwnerName:   p.OwnerName,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Area:        p.Area,
		Parking:     p.Parking,
		Amenities:   p.Amenities,
		ImageURL:    p.ImageURL,
		Images:      p.Images,
		PostedDate:  p.PostedDate,
		Reviews:     make([]reviewDocument, 0, len(p.Reviews)),
		Rating:      p.Rating,
	}
	for _, r := range p.Reviews {
		doc.Reviews = append(doc.Reviews, toReviewDocument(&r))
	}
	return doc
}

func toPropertyEntity(doc *propertyDocument) *domain.Property {
	p := &domain.Property{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Description: doc.Description,
		Location:    doc.Location,
		Price:       doc.Price,
		Category:    doc.Category,
		OwnerEmail:  doc.OwnerEmail,
		OwnerName:   doc.OwnerName,
		Bedrooms:    doc.Bedrooms,
		Bathrooms:   doc.Bathrooms,
		Area:        doc.Area,
		Parking:     doc.Parking,
		Amenities:   doc.Amenities,
		ImageURL:    doc.ImageURL,
		Images:      doc.Images,
		PostedDate:  doc.PostedDate,
		Reviews:     make([]domain.Review, 0, len(doc.Reviews)),
		Rating:      doc.Rating,
	}
	for _, r := range doc.Reviews {
		p.Reviews = append(p.Reviews, toReviewEntity(&r))
	}
	return p
}

func toReviewDocument(r *domain.Review) reviewDocument {
	doc := reviewDocument{
		ReviewerName: r.ReviewerName,
		Rating:       r.Rating,
		ReviewText:   r.ReviewText,
		UserEmail:    r.UserEmail,
		DateAdded:    r.DateAdded,
	}
	if objID, err := primitive.ObjectIDFromHex(r.ID); err == nil {
		doc.ID = objID
	}
	return doc
}

func toReviewEntity(doc *reviewDocument) domain.Review {
	return domain.Review{
		ID:           doc.ID.Hex(),
		ReviewerName: doc.ReviewerName,
		Rating:       doc.Rating,
		ReviewText:   doc.ReviewText,
		UserEmail:    doc.UserEmail,
		DateAdded:    doc.DateAdded,
	}
}

func toNotificationDocument(n *domain.Notification) *notificationDocument {
	return &notificationDocument{
		To:         n.To,
		Message:    n.Message,
		Type:       n.Type,
		PropertyID: n.PropertyID,
		Read:       n.Read,
		CreatedAt:  n.CreatedAt,
	}
}

func toNotificationEntity(doc *notificationDocument) *domain.Notification {
	return &domain.Notification{
		ID:         doc.ID.Hex(),
		To:         doc.To,
		Message:    doc.Message,
		Type:       doc.Type,
		PropertyID: doc.PropertyID,
		Read:       doc.Read,
		CreatedAt:  doc.CreatedAt,
	}
}
