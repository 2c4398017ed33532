package mysql

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"homeward_notifications/internal/domain"
	"homeward_notifications/internal/model"
)

// The *_view tables are replicated projections of the marketplace
// schema; this service only ever reads them.

func (s *Store) ServiceRequest(ctx context.Context, id string) (model.ServiceRequestInfo, error) {
	const query = `SELECT id, service_name, property_address FROM service_request_view WHERE id = ?`
	var info model.ServiceRequestInfo
	err := s.db.QueryRowContext(ctx, query, id).Scan(&info.ID, &info.ServiceName, &info.PropertyAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ServiceRequestInfo{}, domain.ErrEntityNotFound
	}
	if err != nil {
		s.log.Error("sql service request lookup failed", zap.String("id", id), zap.Error(err))
		return model.ServiceRequestInfo{}, err
	}
	return info, nil
}

func (s *Store) Payment(ctx context.Context, id string) (model.PaymentInfo, error) {
	const query = `SELECT id, amount_cents, service_name, provider_name FROM payment_view WHERE id = ?`
	var info model.PaymentInfo
	err := s.db.QueryRowContext(ctx, query, id).Scan(&info.ID, &info.AmountCents, &info.ServiceName, &info.ProviderName)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PaymentInfo{}, domain.ErrEntityNotFound
	}
	if err != nil {
		s.log.Error("sql payment lookup failed", zap.String("id", id), zap.Error(err))
		return model.PaymentInfo{}, err
	}
	return info, nil
}
