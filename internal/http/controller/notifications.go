package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"homeward_notifications/internal/config"
	"homeward_notifications/internal/domain"
	"homeward_notifications/internal/http/dto"
	"homeward_notifications/internal/http/middleware"
	"homeward_notifications/internal/http/resp"
	"homeward_notifications/internal/metrics"
	"homeward_notifications/internal/model"
	"homeward_notifications/internal/queue"
	"homeward_notifications/internal/service/notify"
	"homeward_notifications/internal/sse"
)

type Handler struct {
	cfg     *config.Config
	svc     *notify.Service
	hub     *sse.Hub
	log     *zap.Logger
	pub     queue.Publisher
	metrics *metrics.Metrics
}

func NewHandler(cfg *config.Config, svc *notify.Service, hub *sse.Hub, m *metrics.Metrics, logger *zap.Logger, publisher queue.Publisher) *Handler {
	return &Handler{cfg: cfg, svc: svc, hub: hub, log: logger, pub: publisher, metrics: m}
}

func (h *Handler) identity(c *gin.Context) (middleware.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Code: resp.CodeUnauthorized, Message: "authentication required"})
	}
	return identity, ok
}

func (h *Handler) List(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	unreadOnly := false
	if v := c.Query("unread_only"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			unreadOnly = b
		}
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	offset := 0
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	page, counts, err := h.svc.List(c.Request.Context(), identity.UserID, unreadOnly, limit, offset)
	if err != nil {
		h.log.Error("list notifications failed", zap.String("user_id", identity.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Success: true,
		Count:   len(page),
		Total:   counts.Total,
		Unread:  counts.Unread,
		Data:    page,
	})
}

func (h *Handler) Count(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	counts, err := h.svc.Counts(c.Request.Context(), identity.UserID)
	if err != nil {
		h.log.Error("count notifications failed", zap.String("user_id", identity.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Success: true, Data: counts})
}

func (h *Handler) Get(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	notification, err := h.svc.Get(c.Request.Context(), identity.UserID, c.Param("id"))
	if err != nil {
		// Not-owned reads the same as nonexistent so that foreign ids
		// leak nothing.
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: "notification not found"})
			return
		}
		h.log.Error("get notification failed", zap.String("user_id", identity.UserID), zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to load notification"})
		return
	}
	c.JSON(http.StatusOK, dto.NotificationResponse{Success: true, Data: notification})
}

func (h *Handler) MarkRead(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req dto.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}

	updated, err := h.svc.MarkRead(c.Request.Context(), identity.UserID, req.IDs, req.All)
	if err != nil {
		if errors.Is(err, domain.ErrNoSelection) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "either ids or all=true is required"})
			return
		}
		h.log.Error("mark read failed", zap.String("user_id", identity.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, dto.MarkReadResponse{
		Success: true,
		Message: fmt.Sprintf("%d notification(s) marked as read", len(updated)),
		Data:    dto.MarkReadData{UpdatedIDs: updated},
	})
}

func (h *Handler) Delete(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req dto.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "a non-empty id list is required"})
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), identity.UserID, req.IDs)
	if err != nil {
		h.log.Error("delete notifications failed", zap.String("user_id", identity.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to delete notifications"})
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{
		Success: true,
		Message: fmt.Sprintf("%d notification(s) deleted", len(deleted)),
		Data:    dto.DeleteData{DeletedIDs: deleted},
	})
}

// Stream pushes the caller's notifications over SSE: a backfill of
// recent unread first, then live creations until the client leaves.
func (h *Handler) Stream(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported", zap.String("user_id", identity.UserID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	limit := h.cfg.DefaultPageSize
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			limit = n
		}
	}

	if limit > 0 {
		backfill, _, err := h.svc.List(c.Request.Context(), identity.UserID, true, limit, 0)
		if err != nil {
			h.log.Error("stream backfill failed", zap.String("user_id", identity.UserID), zap.Error(err))
		} else {
			for i := len(backfill) - 1; i >= 0; i-- {
				if err := writeNotification(c.Writer, backfill[i]); err != nil {
					h.log.Error("write backfill notification failed", zap.String("user_id", identity.UserID), zap.Error(err))
					return
				}
			}
			flusher.Flush()
		}
	}

	client := &sse.Client{
		UserID: identity.UserID,
		Ch:     make(chan model.Notification, 16),
	}
	h.hub.Register(client)
	h.metrics.StreamClients.Inc()
	defer func() {
		h.hub.Unregister(client)
		h.metrics.StreamClients.Dec()
	}()

	heartbeat := time.NewTicker(h.cfg.SSEHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Error("heartbeat write failed", zap.String("user_id", identity.UserID), zap.Error(err))
				return
			}
			flusher.Flush()
		case notification, ok := <-client.Ch:
			if !ok {
				return
			}
			if err := writeNotification(c.Writer, notification); err != nil {
				h.log.Error("write notification failed", zap.String("user_id", identity.UserID), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeNotification(w http.ResponseWriter, notification model.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	// SSE frame: id carries the notification id, event is
	// "notification", data is the full JSON record.
	_, err = fmt.Fprintf(w, "id: %s\nevent: notification\ndata: %s\n\n", notification.ID, payload)
	return err
}
