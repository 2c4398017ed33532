package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema for the notification table plus the read-only projections the
// factory templates from. Indexes keep the list/count paths on index
// scans: owner, owner+read-state, creation time, and the soft
// entity-reference pair.
const Schema = `
CREATE TABLE IF NOT EXISTS notifications (
    id CHAR(36) NOT NULL,
    user_id VARCHAR(64) NOT NULL,
    title VARCHAR(255) NOT NULL,
    message TEXT NOT NULL,
    type VARCHAR(16) NOT NULL DEFAULT 'info',
    related_kind VARCHAR(32) NULL,
    related_id VARCHAR(64) NULL,
    actions JSON NULL,
    is_read TINYINT(1) NOT NULL DEFAULT 0,
    created_at DATETIME(6) NOT NULL,
    updated_at DATETIME(6) NOT NULL,
    expires_at DATETIME(6) NULL,
    PRIMARY KEY (id),
    KEY idx_notifications_user (user_id),
    KEY idx_notifications_user_unread (user_id, is_read),
    KEY idx_notifications_created (created_at),
    KEY idx_notifications_related (related_kind, related_id)
);

CREATE TABLE IF NOT EXISTS service_request_view (
    id VARCHAR(64) NOT NULL,
    service_name VARCHAR(255) NOT NULL,
    property_address VARCHAR(255) NOT NULL,
    PRIMARY KEY (id)
);

CREATE TABLE IF NOT EXISTS payment_view (
    id VARCHAR(64) NOT NULL,
    amount_cents BIGINT NOT NULL,
    service_name VARCHAR(255) NOT NULL,
    provider_name VARCHAR(255) NOT NULL,
    PRIMARY KEY (id)
);
`

// InitSchema applies the schema. Requires multiStatements=true in the
// DSN.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply notifications schema: %w", err)
	}
	return nil
}
