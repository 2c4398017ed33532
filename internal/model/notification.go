package model

import "time"

// EntityRef is a soft pointer to the domain entity a notification talks
// about. It is never validated against the referenced table; resolving
// it may 404 and clients must handle that.
type EntityRef struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Action is a client-facing link attached to a notification.
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Type      string            `json:"type"`
	Related   *EntityRef        `json:"related,omitempty"`
	Actions   map[string]Action `json:"actions,omitempty"`
	IsRead    bool              `json:"is_read"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
}

// ServiceRequestInfo is the denormalized display data the factory needs
// to build service-request notifications.
type ServiceRequestInfo struct {
	ID              string
	ServiceName     string
	PropertyAddress string
}

// PaymentInfo is the denormalized display data the factory needs to
// build payment notifications. AmountCents avoids float money math.
type PaymentInfo struct {
	ID           string
	AmountCents  int64
	ServiceName  string
	ProviderName string
}
