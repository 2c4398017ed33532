package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"homeward_notifications/internal/domain"
	"homeward_notifications/internal/model"
	"homeward_notifications/internal/repository"
)

func (s *Store) CreateNotification(_ context.Context, notification model.Notification) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = now
	}
	notification.UpdatedAt = notification.CreatedAt
	s.records = append(s.records, notification)
	return notification, nil
}

func (s *Store) ListNotifications(_ context.Context, params repository.ListParams) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []model.Notification
	for _, record := range s.records {
		if record.UserID != params.UserID {
			continue
		}
		if params.UnreadOnly && record.IsRead {
			continue
		}
		matched = append(matched, record)
	}
	// Newest first by creation time, not insertion order; fixtures may
	// seed timestamps out of order.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if params.Offset >= len(matched) {
		return []model.Notification{}, nil
	}
	matched = matched[params.Offset:]
	if params.Limit > 0 && len(matched) > params.Limit {
		matched = matched[:params.Limit]
	}
	return matched, nil
}

func (s *Store) CountNotifications(_ context.Context, userID string) (repository.Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counts repository.Counts
	for _, record := range s.records {
		if record.UserID != userID {
			continue
		}
		counts.Total++
		if !record.IsRead {
			counts.Unread++
		}
	}
	return counts, nil
}

func (s *Store) GetNotification(_ context.Context, userID, id string) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.ID == id && record.UserID == userID {
			return record, nil
		}
	}
	return model.Notification{}, domain.ErrNotFound
}

func (s *Store) MarkRead(_ context.Context, userID string, ids []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	updated := []string{}
	now := time.Now().UTC()
	for i := range s.records {
		record := &s.records[i]
		if record.UserID != userID || record.IsRead {
			continue
		}
		if _, ok := wanted[record.ID]; !ok {
			continue
		}
		record.IsRead = true
		record.UpdatedAt = now
		updated = append(updated, record.ID)
	}
	return updated, nil
}

func (s *Store) MarkAllRead(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := []string{}
	now := time.Now().UTC()
	for i := range s.records {
		record := &s.records[i]
		if record.UserID != userID || record.IsRead {
			continue
		}
		record.IsRead = true
		record.UpdatedAt = now
		updated = append(updated, record.ID)
	}
	return updated, nil
}

func (s *Store) DeleteNotifications(_ context.Context, userID string, ids []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	deleted := []string{}
	remaining := s.records[:0]
	for _, record := range s.records {
		if record.UserID == userID {
			if _, ok := wanted[record.ID]; ok {
				deleted = append(deleted, record.ID)
				continue
			}
		}
		remaining = append(remaining, record)
	}
	s.records = remaining
	return deleted, nil
}

func (s *Store) SweepExpired(_ context.Context, cutoff, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var swept int64
	for i := range s.records {
		record := &s.records[i]
		if record.IsRead {
			continue
		}
		stale := record.CreatedAt.Before(cutoff)
		expired := record.ExpiresAt != nil && record.ExpiresAt.Before(now)
		if !stale && !expired {
			continue
		}
		record.IsRead = true
		record.UpdatedAt = now
		swept++
	}
	return swept, nil
}
