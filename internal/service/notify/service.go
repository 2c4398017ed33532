package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"homeward_notifications/internal/config"
	"homeward_notifications/internal/domain"
	"homeward_notifications/internal/metrics"
	"homeward_notifications/internal/model"
	"homeward_notifications/internal/repository"
	"homeward_notifications/internal/sse"
)

type Service struct {
	store   repository.NotificationRepository
	hub     *sse.Hub
	log     *zap.Logger
	metrics *metrics.Metrics

	defaultPageSize int
	maxPageSize     int
	retention       time.Duration
}

func NewService(cfg *config.Config, store repository.NotificationRepository, hub *sse.Hub, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		store:           store,
		hub:             hub,
		log:             logger,
		metrics:         m,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
		retention:       time.Duration(cfg.RetentionDays) * 24 * time.Hour,
	}
}

// Create persists one notification, runs the insert-triggered sweep,
// and pushes the new notification to the owner's live streams.
func (s *Service) Create(ctx context.Context, notification model.Notification) (model.Notification, error) {
	if notification.UserID == "" || notification.Title == "" || notification.Message == "" {
		return model.Notification{}, domain.ErrMissingFields
	}
	if notification.Type == "" {
		notification.Type = domain.NotificationTypeInfo
	}
	if !domain.IsValidNotificationType(notification.Type) {
		return model.Notification{}, domain.ErrInvalidNotificationType
	}

	created, err := s.store.CreateNotification(ctx, notification)
	if err != nil {
		s.log.Error("store create notification failed",
			zap.String("user_id", notification.UserID),
			zap.String("type", notification.Type),
			zap.String("title", notification.Title),
			zap.Error(err),
		)
		return model.Notification{}, err
	}
	s.metrics.Created.WithLabelValues(created.Type).Inc()

	s.sweep(ctx)

	s.hub.Broadcast(created)
	return created, nil
}

// sweep flips stale unread notifications to read. Write-triggered: it
// runs only as a side effect of a successful insert, never on a timer,
// so in the absence of new notifications stale ones stay unread.
// A sweep failure never fails the create that triggered it.
func (s *Service) sweep(ctx context.Context) {
	now := time.Now().UTC()
	swept, err := s.store.SweepExpired(ctx, now.Add(-s.retention), now)
	if err != nil {
		s.log.Error("sweep failed", zap.Error(err))
		return
	}
	if swept > 0 {
		s.metrics.Swept.Add(float64(swept))
		s.log.Info("swept stale notifications", zap.Int64("count", swept))
	}
}

// FanOutResult reports one recipient's outcome of a fan-out create, so
// callers observe partial completion deliberately.
type FanOutResult struct {
	UserID       string
	Notification model.Notification
	Err          error
}

// FanOut creates one independent notification per user from the given
// template. A failure for one user is logged and skipped; it never
// aborts or rolls back the others.
func (s *Service) FanOut(ctx context.Context, userIDs []string, template model.Notification) []FanOutResult {
	results := make([]FanOutResult, 0, len(userIDs))
	for _, userID := range userIDs {
		notification := template
		notification.UserID = userID
		created, err := s.Create(ctx, notification)
		if err != nil {
			s.metrics.FanOutFailures.Inc()
			s.log.Error("fan-out create failed",
				zap.String("user_id", userID),
				zap.String("title", template.Title),
				zap.Error(err),
			)
			results = append(results, FanOutResult{UserID: userID, Err: err})
			continue
		}
		results = append(results, FanOutResult{UserID: userID, Notification: created})
	}
	return results
}

// List returns one page (newest first) together with the per-user
// totals. The aggregates are separate queries, not one snapshot with
// the page; under concurrent writes they may be momentarily stale.
func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]model.Notification, repository.Counts, error) {
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	page, err := s.store.ListNotifications(ctx, repository.ListParams{
		UserID:     userID,
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		s.log.Error("store list notifications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, repository.Counts{}, err
	}

	counts, err := s.store.CountNotifications(ctx, userID)
	if err != nil {
		s.log.Error("store count notifications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, repository.Counts{}, err
	}
	return page, counts, nil
}

func (s *Service) Counts(ctx context.Context, userID string) (repository.Counts, error) {
	counts, err := s.store.CountNotifications(ctx, userID)
	if err != nil {
		s.log.Error("store count notifications failed", zap.String("user_id", userID), zap.Error(err))
		return repository.Counts{}, err
	}
	return counts, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (model.Notification, error) {
	return s.store.GetNotification(ctx, userID, id)
}

// MarkRead accepts either an explicit id list or all=true; supplying
// neither is a caller error. Returns the ids actually flipped, which
// may be empty without error.
func (s *Service) MarkRead(ctx context.Context, userID string, ids []string, all bool) ([]string, error) {
	var (
		updated []string
		err     error
	)
	switch {
	case all:
		updated, err = s.store.MarkAllRead(ctx, userID)
	case len(ids) > 0:
		updated, err = s.store.MarkRead(ctx, userID, ids)
	default:
		return nil, domain.ErrNoSelection
	}
	if err != nil {
		s.log.Error("store mark read failed", zap.String("user_id", userID), zap.Bool("all", all), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, userID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, domain.ErrNoSelection
	}
	deleted, err := s.store.DeleteNotifications(ctx, userID, ids)
	if err != nil {
		s.log.Error("store delete notifications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return deleted, nil
}
