package store

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"homeward_notifications/internal/config"
	"homeward_notifications/internal/repository"
	"homeward_notifications/internal/store/memory"
	"homeward_notifications/internal/store/mysql"
)

// NewStore picks MySQL when a DSN is configured and the in-memory
// store otherwise. Both values come from the same store instance.
func NewStore(cfg *config.Config, logger *zap.Logger) (repository.NotificationRepository, repository.EntityLookup, error) {
	if cfg.MySQLDSN == "" {
		s := memory.New(logger)
		return s, s, nil
	}
	sqlDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Error("mysql open failed", zap.Error(err))
		return nil, nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Error("mysql ping failed", zap.Error(err))
		return nil, nil, err
	}
	if err := mysql.InitSchema(context.Background(), sqlDB); err != nil {
		logger.Error("mysql schema init failed", zap.Error(err))
		return nil, nil, err
	}
	s := mysql.New(sqlDB, logger)
	return s, s, nil
}
