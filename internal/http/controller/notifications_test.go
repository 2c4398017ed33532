package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"homeward_notifications/internal/config"
	"homeward_notifications/internal/domain"
	"homeward_notifications/internal/http/dto"
	"homeward_notifications/internal/http/middleware"
	"homeward_notifications/internal/http/resp"
	"homeward_notifications/internal/metrics"
	"homeward_notifications/internal/model"
	"homeward_notifications/internal/queue"
	"homeward_notifications/internal/repository"
	"homeward_notifications/internal/service/notify"
	"homeward_notifications/internal/sse"
)

type repoMock struct {
	mock.Mock
}

func (m *repoMock) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *repoMock) ListNotifications(ctx context.Context, params repository.ListParams) ([]model.Notification, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *repoMock) CountNotifications(ctx context.Context, userID string) (repository.Counts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(repository.Counts), args.Error(1)
}

func (m *repoMock) GetNotification(ctx context.Context, userID, id string) (model.Notification, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *repoMock) MarkRead(ctx context.Context, userID string, ids []string) ([]string, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).([]string), args.Error(1)
}

func (m *repoMock) MarkAllRead(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *repoMock) DeleteNotifications(ctx context.Context, userID string, ids []string) ([]string, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).([]string), args.Error(1)
}

func (m *repoMock) SweepExpired(ctx context.Context, cutoff, now time.Time) (int64, error) {
	args := m.Called(ctx, cutoff, now)
	return args.Get(0).(int64), args.Error(1)
}

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, payload []byte, routingKey string) error {
	args := m.Called(ctx, payload, routingKey)
	return args.Error(0)
}

const testUserID = "user-1"

func setupRouter(t *testing.T, repo repository.NotificationRepository, publisher queue.Publisher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DefaultPageSize:     20,
		MaxPageSize:         100,
		RetentionDays:       30,
		SSEHeartbeat:        time.Second,
		RabbitPublishPrefix: "event",
	}
	hub := sse.NewHub()
	svc := notify.NewService(cfg, repo, hub, metrics.New(), zap.NewNop())
	handler := NewHandler(cfg, svc, hub, metrics.New(), zap.NewNop(), publisher)

	router := gin.New()
	api := router.Group("/api", middleware.WithIdentity(middleware.Identity{UserID: testUserID}))
	api.GET("/notifications", handler.List)
	api.GET("/notifications/count", handler.Count)
	api.GET("/notifications/:id", handler.Get)
	api.PATCH("/notifications/mark-read", handler.MarkRead)
	api.DELETE("/notifications", handler.Delete)
	api.POST("/events", handler.PublishEvent)
	return router
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListController(t *testing.T) {
	t.Run("success envelope", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("ListNotifications", mock.Anything, repository.ListParams{
			UserID: testUserID,
			Limit:  20,
		}).Return([]model.Notification{
			{ID: "n-1", UserID: testUserID, Type: domain.NotificationTypeInfo},
			{ID: "n-2", UserID: testUserID, Type: domain.NotificationTypeSuccess},
		}, nil).Once()
		repo.On("CountNotifications", mock.Anything, testUserID).Return(repository.Counts{Total: 5, Unread: 3}, nil).Once()
		router := setupRouter(t, repo, &publisherMock{})

		rec := performRequest(t, router, http.MethodGet, "/api/notifications", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var respBody dto.ListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respBody))
		require.True(t, respBody.Success)
		require.Equal(t, 2, respBody.Count)
		require.EqualValues(t, 5, respBody.Total)
		require.EqualValues(t, 3, respBody.Unread)
		require.Len(t, respBody.Data, 2)
		repo.AssertExpectations(t)
	})

	t.Run("query params reach the store", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("ListNotifications", mock.Anything, repository.ListParams{
			UserID:     testUserID,
			UnreadOnly: true,
			Limit:      5,
			Offset:     10,
		}).Return([]model.Notification{}, nil).Once()
		repo.On("CountNotifications", mock.Anything, testUserID).Return(repository.Counts{}, nil).Once()
		router := setupRouter(t, repo, &publisherMock{})

		rec := performRequest(t, router, http.MethodGet, "/api/notifications?unread_only=true&limit=5&offset=10", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		repo.AssertExpectations(t)
	})

	t.Run("store error", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("ListNotifications", mock.Anything, mock.Anything).Return([]model.Notification(nil), errors.New("boom")).Once()
		router := setupRouter(t, repo, &publisherMock{})

		rec := performRequest(t, router, http.MethodGet, "/api/notifications", nil)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		var respBody dto.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respBody))
		require.False(t, respBody.Success)
		require.Equal(t, resp.CodeInternalError, respBody.Code)
	})
}

func TestCountController(t *testing.T) {
	repo := &repoMock{}
	repo.On("CountNotifications", mock.Anything, testUserID).Return(repository.Counts{Total: 7, Unread: 2}, nil).Once()
	router := setupRouter(t, repo, &publisherMock{})

	rec := performRequest(t, router, http.MethodGet, "/api/notifications/count", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var respBody dto.CountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respBody))
	require.True(t, respBody.Success)
	require.EqualValues(t, 7, respBody.Data.Total)
	require.EqualValues(t, 2, respBody.Data.Unread)
	repo.AssertExpectations(t)
}

func TestGetController(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("GetNotification", mock.Anything, testUserID, "n-1").Return(model.Notification{
			ID:     "n-1",
			UserID: testUserID,
			Type:   domain.NotificationTypeInfo,
		}, nil).Once()
		router := setupRouter(t, repo, &publisherMock{})

		rec := performRequest(t, router, http.MethodGet, "/api/notifications/n-1", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var respBody dto.NotificationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respBody))
		require.Equal(t, "n-1", respBody.Data.ID)
		repo.AssertExpectations(t)
	})

	t.Run("not found and not owned look identical", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("GetNotification", mock.Anything, testUserID, "foreign").Return(model.Notification{}, domain.ErrNotFound).Once()
		router := setupRouter(t, repo, &publisherMock{})

		rec := performRequest(t, router, http.MethodGet, "/api/notifications/foreign", nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		var respBody dto.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respBody))
		require.False(t, respBody.Success)
		require.Equal(t, resp.CodeNotFound, respBody.Code)
		repo.AssertExpectations(t)
	})
}

func TestMarkReadController(t *testing.T) {
	t.Run("neither ids nor all", func(t *testing.T) {
		repo := &repoMock{}
		router := setupRouter(t, repo, &publisherMock{})

		rec := performRequest(t, router, http.MethodPatch, "/api/notifications/mark-read", map[string]any{})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		repo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "MarkAllRead", mock.Anything, mock.Anything)
	})

	t.Run("by id list", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("MarkRead", mock.Anything, testUserID, []string{"a", "b"}).Return([]string{"a"}, nil).Once()
		router := setupRouter(t, repo, &publisherMock{})

		rec := performRequest(t, router, http.MethodPatch, "/api/notifications/mark-read", map[string]any{
			"ids": []string{"a", "b"},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		var respBody dto.MarkReadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respBody))
		require.True(t, respBody.Success)
		require.Equal(t, []string{"a"}, respBody.Data.UpdatedIDs)
		repo.AssertExpectations(t)
	})

	t.Run("all flag", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("MarkAllRead", mock.Anything, testUserID).Return([]string{"a", "b"}, nil).Once()
		router := setupRouter(t, repo, &publisherMock{})

		rec := performRequest(t, router, http.MethodPatch, "/api/notifications/mark-read", map[string]any{
			"all": true,
		})

		require.Equal(t, http.StatusOK, rec.Code)
		repo.AssertExpectations(t)
	})
}

func TestDeleteController(t *testing.T) {
	t.Run("empty id list", func(t *testing.T) {
		repo := &repoMock{}
		router := setupRouter(t, repo, &publisherMock{})

		rec := performRequest(t, router, http.MethodDelete, "/api/notifications", map[string]any{
			"ids": []string{},
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		repo.AssertNotCalled(t, "DeleteNotifications", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("DeleteNotifications", mock.Anything, testUserID, []string{"a", "b"}).Return([]string{"a", "b"}, nil).Once()
		router := setupRouter(t, repo, &publisherMock{})

		rec := performRequest(t, router, http.MethodDelete, "/api/notifications", map[string]any{
			"ids": []string{"a", "b"},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		var respBody dto.DeleteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respBody))
		require.Equal(t, []string{"a", "b"}, respBody.Data.DeletedIDs)
		repo.AssertExpectations(t)
	})
}

func TestPublishEventController(t *testing.T) {
	t.Run("queued", func(t *testing.T) {
		repo := &repoMock{}
		pub := &publisherMock{}
		pub.On("Publish", mock.Anything, mock.Anything, "event."+domain.EntityServiceRequest).Return(nil).Once()
		router := setupRouter(t, repo, pub)

		rec := performRequest(t, router, http.MethodPost, "/api/events", map[string]any{
			"entity":    domain.EntityServiceRequest,
			"entity_id": "sr-1",
			"action":    "completed",
			"user_ids":  []string{"user-1"},
		})

		require.Equal(t, http.StatusAccepted, rec.Code)
		pub.AssertExpectations(t)

		call := pub.Calls[0]
		require.Len(t, call.Arguments, 3)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(call.Arguments.Get(1).([]byte), &payload))
		require.Equal(t, domain.EntityServiceRequest, payload["entity"])
		require.Equal(t, "sr-1", payload["entity_id"])
		require.NotEmpty(t, payload["event_id"])
	})

	t.Run("unknown entity kind", func(t *testing.T) {
		pub := &publisherMock{}
		router := setupRouter(t, &repoMock{}, pub)

		rec := performRequest(t, router, http.MethodPost, "/api/events", map[string]any{
			"entity":    "mailbox",
			"entity_id": "m-1",
			"action":    "created",
			"user_ids":  []string{"user-1"},
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("publish error", func(t *testing.T) {
		pub := &publisherMock{}
		pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
		router := setupRouter(t, &repoMock{}, pub)

		rec := performRequest(t, router, http.MethodPost, "/api/events", map[string]any{
			"entity":    domain.EntityPayment,
			"entity_id": "pay-1",
			"action":    "completed",
			"user_ids":  []string{"user-1"},
		})

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		pub.AssertExpectations(t)
	})
}

func TestMissingIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{DefaultPageSize: 20, MaxPageSize: 100, RetentionDays: 30}
	hub := sse.NewHub()
	svc := notify.NewService(cfg, &repoMock{}, hub, metrics.New(), zap.NewNop())
	handler := NewHandler(cfg, svc, hub, metrics.New(), zap.NewNop(), &publisherMock{})

	router := gin.New()
	router.GET("/api/notifications", handler.List)

	rec := performRequest(t, router, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
