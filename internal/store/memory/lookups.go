package memory

import (
	"context"

	"homeward_notifications/internal/domain"
	"homeward_notifications/internal/model"
)

func (s *Store) ServiceRequest(_ context.Context, id string) (model.ServiceRequestInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.requests[id]
	if !ok {
		return model.ServiceRequestInfo{}, domain.ErrEntityNotFound
	}
	return info, nil
}

func (s *Store) Payment(_ context.Context, id string) (model.PaymentInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.payments[id]
	if !ok {
		return model.PaymentInfo{}, domain.ErrEntityNotFound
	}
	return info, nil
}
