package dto

import (
	"homeward_notifications/internal/model"
	"homeward_notifications/internal/repository"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ListResponse struct {
	Success bool                 `json:"success"`
	Count   int                  `json:"count"`
	Total   int64                `json:"total"`
	Unread  int64                `json:"unread"`
	Data    []model.Notification `json:"data"`
}

type CountResponse struct {
	Success bool              `json:"success"`
	Data    repository.Counts `json:"data"`
}

type NotificationResponse struct {
	Success bool               `json:"success"`
	Data    model.Notification `json:"data"`
}

type MarkReadRequest struct {
	IDs []string `json:"ids"`
	All bool     `json:"all"`
}

type MarkReadData struct {
	UpdatedIDs []string `json:"updated_ids"`
}

type MarkReadResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    MarkReadData `json:"data"`
}

type DeleteRequest struct {
	IDs []string `json:"ids"`
}

type DeleteData struct {
	DeletedIDs []string `json:"deleted_ids"`
}

type DeleteResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    DeleteData `json:"data"`
}

// PublishEventRequest is how co-located marketplace services hand a
// domain event to the broker instead of calling the factory in-process.
type PublishEventRequest struct {
	Entity   string   `json:"entity"`
	EntityID string   `json:"entity_id"`
	Action   string   `json:"action"`
	UserIDs  []string `json:"user_ids"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
