package memory

import (
	"sync"

	"go.uber.org/zap"

	"homeward_notifications/internal/model"
)

// Store is the DSN-less fallback used in development and tests. It
// keeps notifications in insertion order; list queries sort by
// creation time to get newest-first.
type Store struct {
	mu       sync.Mutex
	records  []model.Notification
	requests map[string]model.ServiceRequestInfo
	payments map[string]model.PaymentInfo
	log      *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{
		requests: make(map[string]model.ServiceRequestInfo),
		payments: make(map[string]model.PaymentInfo),
		log:      logger,
	}
}

// RegisterServiceRequest seeds a lookup projection row. Test fixture
// helper; the MySQL store reads these from replicated tables instead.
func (s *Store) RegisterServiceRequest(info model.ServiceRequestInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[info.ID] = info
}

func (s *Store) RegisterPayment(info model.PaymentInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[info.ID] = info
}
