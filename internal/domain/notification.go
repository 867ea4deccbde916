package domain

import (
	"fmt"
	"time"
)

// DefaultNotificationType is used when the notify payload carries no type tag.
const DefaultNotificationType = "info"

// Notification is a per-recipient message with read/unread state.
type Notification struct {
	ID         string    `json:"id"`
	To         string    `json:"to"`
	Message    string    `json:"message"`
	Type       string    `json:"type"`
	PropertyID string    `json:"propertyId,omitempty"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewNotification validates the notify payload and applies defaults.
func NewNotification(to, message, notifType, propertyID string, now time.Time) (*Notification, error) {
	if to == "" || message == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}
	if notifType == "" {
		notifType = DefaultNotificationType
	}
	return &Notification{
		To:         to,
		Message:    message,
		Type:       notifType,
		PropertyID: propertyID,
		Read:       false,
		CreatedAt:  now.UTC(),
	}, nil
}
