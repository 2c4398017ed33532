package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"homeward_notifications/internal/domain"
	"homeward_notifications/internal/model"
	"homeward_notifications/internal/repository"
)

func (s *Store) CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error) {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	notification.UpdatedAt = notification.CreatedAt

	var relatedKind, relatedID sql.NullString
	if notification.Related != nil {
		relatedKind = sql.NullString{String: notification.Related.Kind, Valid: true}
		relatedID = sql.NullString{String: notification.Related.ID, Valid: true}
	}

	var actions sql.NullString
	if len(notification.Actions) > 0 {
		raw, err := json.Marshal(notification.Actions)
		if err != nil {
			s.log.Error("sql marshal actions failed", zap.String("user_id", notification.UserID), zap.Error(err))
			return model.Notification{}, err
		}
		actions = sql.NullString{String: string(raw), Valid: true}
	}

	var expiresAt sql.NullTime
	if notification.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: notification.ExpiresAt.UTC(), Valid: true}
	}

	const query = `
INSERT INTO notifications
    (id, user_id, title, message, type, related_kind, related_id, actions, is_read, created_at, updated_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.Type,
		relatedKind,
		relatedID,
		actions,
		notification.IsRead,
		notification.CreatedAt,
		notification.UpdatedAt,
		expiresAt,
	)
	if err != nil {
		s.log.Error("sql create notification failed",
			zap.String("user_id", notification.UserID),
			zap.String("type", notification.Type),
			zap.String("title", notification.Title),
			zap.Error(err),
		)
		return model.Notification{}, err
	}
	return notification, nil
}

const notificationColumns = `id, user_id, title, message, type, related_kind, related_id, actions, is_read, created_at, updated_at, expires_at`

func (s *Store) ListNotifications(ctx context.Context, params repository.ListParams) ([]model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	args := []any{params.UserID}
	if params.UnreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, params.Limit, params.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.log.Error("sql list notifications failed", zap.String("user_id", params.UserID), zap.Error(err))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := []model.Notification{}
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			s.log.Error("sql scan notification failed", zap.Error(err))
			return nil, err
		}
		result = append(result, notification)
	}
	return result, rows.Err()
}

func (s *Store) CountNotifications(ctx context.Context, userID string) (repository.Counts, error) {
	const query = `SELECT COUNT(*), COALESCE(SUM(is_read = 0), 0) FROM notifications WHERE user_id = ?`
	var counts repository.Counts
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&counts.Total, &counts.Unread); err != nil {
		s.log.Error("sql count notifications failed", zap.String("user_id", userID), zap.Error(err))
		return repository.Counts{}, err
	}
	return counts, nil
}

func (s *Store) GetNotification(ctx context.Context, userID, id string) (model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = ? AND user_id = ?`
	row := s.db.QueryRowContext(ctx, query, id, userID)
	notification, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Notification{}, domain.ErrNotFound
	}
	if err != nil {
		s.log.Error("sql get notification failed", zap.String("user_id", userID), zap.String("id", id), zap.Error(err))
		return model.Notification{}, err
	}
	return notification, nil
}

func (s *Store) MarkRead(ctx context.Context, userID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	query := `SELECT id FROM notifications WHERE user_id = ? AND is_read = 0 AND id IN (` + placeholders(len(ids)) + `)`
	matched, err := s.selectIDs(ctx, query, append([]any{userID}, toArgs(ids)...))
	if err != nil {
		s.log.Error("sql select unread failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if len(matched) == 0 {
		return []string{}, nil
	}
	return matched, s.markReadByID(ctx, matched)
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) ([]string, error) {
	matched, err := s.selectIDs(ctx, `SELECT id FROM notifications WHERE user_id = ? AND is_read = 0`, []any{userID})
	if err != nil {
		s.log.Error("sql select unread failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if len(matched) == 0 {
		return []string{}, nil
	}
	return matched, s.markReadByID(ctx, matched)
}

func (s *Store) DeleteNotifications(ctx context.Context, userID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	query := `SELECT id FROM notifications WHERE user_id = ? AND id IN (` + placeholders(len(ids)) + `)`
	matched, err := s.selectIDs(ctx, query, append([]any{userID}, toArgs(ids)...))
	if err != nil {
		s.log.Error("sql select owned failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if len(matched) == 0 {
		return []string{}, nil
	}
	del := `DELETE FROM notifications WHERE id IN (` + placeholders(len(matched)) + `)`
	if _, err := s.db.ExecContext(ctx, del, toArgs(matched)...); err != nil {
		s.log.Error("sql delete notifications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return matched, nil
}

func (s *Store) SweepExpired(ctx context.Context, cutoff, now time.Time) (int64, error) {
	const query = `
UPDATE notifications
SET is_read = 1, updated_at = ?
WHERE is_read = 0 AND (created_at < ? OR (expires_at IS NOT NULL AND expires_at < ?))`
	result, err := s.db.ExecContext(ctx, query, now.UTC(), cutoff.UTC(), now.UTC())
	if err != nil {
		s.log.Error("sql sweep notifications failed", zap.Error(err))
		return 0, err
	}
	swept, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return swept, nil
}

func (s *Store) selectIDs(ctx context.Context, query string, args []any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) markReadByID(ctx context.Context, ids []string) error {
	query := `UPDATE notifications SET is_read = 1, updated_at = ? WHERE id IN (` + placeholders(len(ids)) + `)`
	args := append([]any{time.Now().UTC()}, toArgs(ids)...)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.log.Error("sql mark read failed", zap.Error(err))
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (model.Notification, error) {
	var (
		notification model.Notification
		relatedKind  sql.NullString
		relatedID    sql.NullString
		actions      sql.NullString
		expiresAt    sql.NullTime
	)
	err := row.Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Title,
		&notification.Message,
		&notification.Type,
		&relatedKind,
		&relatedID,
		&actions,
		&notification.IsRead,
		&notification.CreatedAt,
		&notification.UpdatedAt,
		&expiresAt,
	)
	if err != nil {
		return model.Notification{}, err
	}
	if relatedKind.Valid && relatedID.Valid {
		notification.Related = &model.EntityRef{Kind: relatedKind.String, ID: relatedID.String}
	}
	if actions.Valid {
		if err := json.Unmarshal([]byte(actions.String), &notification.Actions); err != nil {
			return model.Notification{}, err
		}
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		notification.ExpiresAt = &t
	}
	return notification, nil
}
