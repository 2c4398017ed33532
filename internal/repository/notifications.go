package repository

import (
	"context"
	"time"

	"homeward_notifications/internal/model"
)

// ListParams selects one page of a user's notifications. Limit and
// Offset are assumed to be validated/clamped by the caller.
type ListParams struct {
	UserID     string
	UnreadOnly bool
	Limit      int
	Offset     int
}

// Counts holds the per-user aggregates returned alongside every page.
type Counts struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}

// NotificationRepository is the persistence port for notifications.
// Every operation that takes a userID is scoped to that user; an id
// owned by someone else behaves exactly like a nonexistent one.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error)
	ListNotifications(ctx context.Context, params ListParams) ([]model.Notification, error)
	CountNotifications(ctx context.Context, userID string) (Counts, error)
	GetNotification(ctx context.Context, userID, id string) (model.Notification, error)
	// MarkRead flips the given unread notifications to read and returns
	// the ids actually updated. Already-read or foreign ids are skipped.
	MarkRead(ctx context.Context, userID string, ids []string) ([]string, error)
	MarkAllRead(ctx context.Context, userID string) ([]string, error)
	DeleteNotifications(ctx context.Context, userID string, ids []string) ([]string, error)
	// SweepExpired marks unread notifications created before cutoff, or
	// whose expires_at has passed, as read. Returns the number of rows
	// swept. Invoked after every insert, never on a timer.
	SweepExpired(ctx context.Context, cutoff, now time.Time) (int64, error)
}

// EntityLookup loads the denormalized display data the notification
// factory templates from. Backed by read-only projections of the
// marketplace tables.
type EntityLookup interface {
	ServiceRequest(ctx context.Context, id string) (model.ServiceRequestInfo, error)
	Payment(ctx context.Context, id string) (model.PaymentInfo, error)
}
