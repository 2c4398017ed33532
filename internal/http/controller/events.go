package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"homeward_notifications/internal/domain"
	"homeward_notifications/internal/http/dto"
	"homeward_notifications/internal/http/resp"
)

// PublishEvent enqueues a domain event for asynchronous fan-out. The
// marketplace services call this instead of writing notifications
// directly, so a slow insert never blocks the primary domain action.
func (h *Handler) PublishEvent(c *gin.Context) {
	if _, ok := h.identity(c); !ok {
		return
	}

	var req dto.PublishEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if req.EntityID == "" || req.Action == "" || len(req.UserIDs) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "entity, entity_id, action and user_ids are required"})
		return
	}
	if !domain.IsValidEntityKind(req.Entity) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "entity must be one of: service_request, payment, bid"})
		return
	}

	payload, err := json.Marshal(map[string]any{
		"event_id":  uuid.NewString(),
		"entity":    req.Entity,
		"entity_id": req.EntityID,
		"action":    req.Action,
		"user_ids":  req.UserIDs,
	})
	if err != nil {
		h.log.Error("event payload marshal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish event"})
		return
	}

	prefix := h.cfg.RabbitPublishPrefix
	if prefix == "" {
		prefix = "event"
	}
	routingKey := prefix + "." + req.Entity
	if err := h.pub.Publish(c.Request.Context(), payload, routingKey); err != nil {
		h.log.Error("event publish failed",
			zap.String("entity", req.Entity),
			zap.String("entity_id", req.EntityID),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish event"})
		return
	}
	h.metrics.EventsPublished.Inc()

	c.JSON(http.StatusAccepted, dto.StatusResponse{Success: true, Code: resp.CodeQueued, Message: "queued"})
}
