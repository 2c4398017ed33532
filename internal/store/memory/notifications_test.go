package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"homeward_notifications/internal/domain"
	"homeward_notifications/internal/model"
	"homeward_notifications/internal/repository"
)

func seed(t *testing.T, store *Store, userID string, n int, start time.Time) []model.Notification {
	t.Helper()
	created := make([]model.Notification, 0, n)
	for i := 0; i < n; i++ {
		record, err := store.CreateNotification(context.Background(), model.Notification{
			UserID:    userID,
			Title:     "title",
			Message:   "message",
			Type:      domain.NotificationTypeInfo,
			CreatedAt: start.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		created = append(created, record)
	}
	return created
}

func TestOwnershipIsolation(t *testing.T) {
	store := New(zap.NewNop())
	mine := seed(t, store, "user-1", 2, time.Now().UTC())
	seed(t, store, "user-2", 3, time.Now().UTC())

	t.Run("list", func(t *testing.T) {
		page, err := store.ListNotifications(context.Background(), repository.ListParams{UserID: "user-1", Limit: 10})
		require.NoError(t, err)
		require.Len(t, page, 2)
		for _, record := range page {
			require.Equal(t, "user-1", record.UserID)
		}
	})

	t.Run("count", func(t *testing.T) {
		counts, err := store.CountNotifications(context.Background(), "user-1")
		require.NoError(t, err)
		require.EqualValues(t, 2, counts.Total)
	})

	t.Run("get foreign id reads as not found", func(t *testing.T) {
		_, err := store.GetNotification(context.Background(), "user-2", mine[0].ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("mark read skips foreign ids", func(t *testing.T) {
		updated, err := store.MarkRead(context.Background(), "user-2", []string{mine[0].ID})
		require.NoError(t, err)
		require.Empty(t, updated)
	})

	t.Run("delete skips foreign ids", func(t *testing.T) {
		deleted, err := store.DeleteNotifications(context.Background(), "user-2", []string{mine[0].ID})
		require.NoError(t, err)
		require.Empty(t, deleted)

		counts, err := store.CountNotifications(context.Background(), "user-1")
		require.NoError(t, err)
		require.EqualValues(t, 2, counts.Total)
	})
}

func TestListPagination(t *testing.T) {
	store := New(zap.NewNop())
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	seed(t, store, "user-1", 5, start)

	t.Run("newest first", func(t *testing.T) {
		page, err := store.ListNotifications(context.Background(), repository.ListParams{UserID: "user-1", Limit: 5})
		require.NoError(t, err)
		require.Len(t, page, 5)
		for i := 1; i < len(page); i++ {
			require.False(t, page[i].CreatedAt.After(page[i-1].CreatedAt))
		}
	})

	t.Run("out-of-order timestamps still list newest first", func(t *testing.T) {
		backdated := New(zap.NewNop())
		seed(t, backdated, "user-1", 1, start.Add(2*time.Hour))
		seed(t, backdated, "user-1", 1, start)
		seed(t, backdated, "user-1", 1, start.Add(time.Hour))

		page, err := backdated.ListNotifications(context.Background(), repository.ListParams{UserID: "user-1", Limit: 3})
		require.NoError(t, err)
		require.Len(t, page, 3)
		require.Equal(t, start.Add(2*time.Hour), page[0].CreatedAt)
		require.Equal(t, start.Add(time.Hour), page[1].CreatedAt)
		require.Equal(t, start, page[2].CreatedAt)
	})

	t.Run("page size math", func(t *testing.T) {
		cases := []struct {
			limit, offset, want int
		}{
			{limit: 2, offset: 0, want: 2},
			{limit: 2, offset: 4, want: 1},
			{limit: 10, offset: 0, want: 5},
			{limit: 2, offset: 9, want: 0},
		}
		for _, tc := range cases {
			page, err := store.ListNotifications(context.Background(), repository.ListParams{
				UserID: "user-1",
				Limit:  tc.limit,
				Offset: tc.offset,
			})
			require.NoError(t, err)
			require.Len(t, page, tc.want, "limit=%d offset=%d", tc.limit, tc.offset)
		}
	})

	t.Run("unread only", func(t *testing.T) {
		page, err := store.ListNotifications(context.Background(), repository.ListParams{UserID: "user-1", Limit: 5})
		require.NoError(t, err)
		_, err = store.MarkRead(context.Background(), "user-1", []string{page[0].ID})
		require.NoError(t, err)

		unread, err := store.ListNotifications(context.Background(), repository.ListParams{
			UserID:     "user-1",
			UnreadOnly: true,
			Limit:      10,
		})
		require.NoError(t, err)
		require.Len(t, unread, 4)
	})
}

func TestMarkRead(t *testing.T) {
	t.Run("idempotent on already-read rows", func(t *testing.T) {
		store := New(zap.NewNop())
		created := seed(t, store, "user-1", 1, time.Now().UTC().Add(-time.Hour))

		updated, err := store.MarkRead(context.Background(), "user-1", []string{created[0].ID})
		require.NoError(t, err)
		require.Equal(t, []string{created[0].ID}, updated)

		after, err := store.GetNotification(context.Background(), "user-1", created[0].ID)
		require.NoError(t, err)
		require.True(t, after.IsRead)

		again, err := store.MarkRead(context.Background(), "user-1", []string{created[0].ID})
		require.NoError(t, err)
		require.Empty(t, again)

		unchanged, err := store.GetNotification(context.Background(), "user-1", created[0].ID)
		require.NoError(t, err)
		require.Equal(t, after.UpdatedAt, unchanged.UpdatedAt)
	})

	t.Run("mark all clears unread", func(t *testing.T) {
		store := New(zap.NewNop())
		seed(t, store, "user-1", 4, time.Now().UTC())

		updated, err := store.MarkAllRead(context.Background(), "user-1")
		require.NoError(t, err)
		require.Len(t, updated, 4)

		counts, err := store.CountNotifications(context.Background(), "user-1")
		require.NoError(t, err)
		require.EqualValues(t, 4, counts.Total)
		require.EqualValues(t, 0, counts.Unread)
	})
}

func TestDelete(t *testing.T) {
	store := New(zap.NewNop())
	created := seed(t, store, "user-1", 3, time.Now().UTC())

	deleted, err := store.DeleteNotifications(context.Background(), "user-1", []string{created[0].ID, created[1].ID, "missing"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{created[0].ID, created[1].ID}, deleted)

	for _, id := range deleted {
		_, err := store.GetNotification(context.Background(), "user-1", id)
		require.ErrorIs(t, err, domain.ErrNotFound)
	}

	counts, err := store.CountNotifications(context.Background(), "user-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.Total)
}

func TestSweepExpired(t *testing.T) {
	t.Run("flips rows older than the cutoff", func(t *testing.T) {
		store := New(zap.NewNop())
		now := time.Now().UTC()
		old := seed(t, store, "user-1", 1, now.Add(-31*24*time.Hour))
		fresh := seed(t, store, "user-1", 1, now.Add(-time.Hour))

		swept, err := store.SweepExpired(context.Background(), now.Add(-30*24*time.Hour), now)
		require.NoError(t, err)
		require.EqualValues(t, 1, swept)

		oldAfter, err := store.GetNotification(context.Background(), "user-1", old[0].ID)
		require.NoError(t, err)
		require.True(t, oldAfter.IsRead)

		freshAfter, err := store.GetNotification(context.Background(), "user-1", fresh[0].ID)
		require.NoError(t, err)
		require.False(t, freshAfter.IsRead)
	})

	t.Run("honors per-row expiry", func(t *testing.T) {
		store := New(zap.NewNop())
		now := time.Now().UTC()
		expired := now.Add(-time.Minute)
		record, err := store.CreateNotification(context.Background(), model.Notification{
			UserID:    "user-1",
			Title:     "title",
			Message:   "message",
			Type:      domain.NotificationTypeInfo,
			CreatedAt: now.Add(-time.Hour),
			ExpiresAt: &expired,
		})
		require.NoError(t, err)

		swept, err := store.SweepExpired(context.Background(), now.Add(-30*24*time.Hour), now)
		require.NoError(t, err)
		require.EqualValues(t, 1, swept)

		after, err := store.GetNotification(context.Background(), "user-1", record.ID)
		require.NoError(t, err)
		require.True(t, after.IsRead)
	})

	t.Run("read rows are never re-swept", func(t *testing.T) {
		store := New(zap.NewNop())
		now := time.Now().UTC()
		old := seed(t, store, "user-1", 1, now.Add(-40*24*time.Hour))
		_, err := store.MarkRead(context.Background(), "user-1", []string{old[0].ID})
		require.NoError(t, err)

		swept, err := store.SweepExpired(context.Background(), now.Add(-30*24*time.Hour), now)
		require.NoError(t, err)
		require.Zero(t, swept)
	})
}
