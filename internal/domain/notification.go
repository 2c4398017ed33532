package domain

import "errors"

const (
	NotificationTypeInfo    = "info"
	NotificationTypeSuccess = "success"
	NotificationTypeWarning = "warning"
	NotificationTypeError   = "error"
)

const (
	EntityServiceRequest = "service_request"
	EntityPayment        = "payment"
	EntityBid            = "bid"
)

var (
	ErrInvalidNotificationType = errors.New("invalid notification type")
	ErrMissingFields           = errors.New("user_id, title and message are required")
	ErrNotFound                = errors.New("notification not found")
	ErrEntityNotFound          = errors.New("entity not found")
	ErrNoSelection             = errors.New("either a non-empty id list or all=true is required")
)

func IsValidNotificationType(value string) bool {
	switch value {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning, NotificationTypeError:
		return true
	default:
		return false
	}
}

func IsValidEntityKind(value string) bool {
	switch value {
	case EntityServiceRequest, EntityPayment, EntityBid:
		return true
	default:
		return false
	}
}
