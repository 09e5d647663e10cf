package observability

import (
	"context"
	"time"

	"ordercore/domain/inventory"
	"ordercore/pkg/metrics"
)

// InstrumentedReservationStore counts reservation outcomes and times every
// call to the wrapped store.
type InstrumentedReservationStore struct {
	next    inventory.ReservationStore
	metrics *metrics.Metrics
}

func NewInstrumentedReservationStore(next inventory.ReservationStore, m *metrics.Metrics) *InstrumentedReservationStore {
	return &InstrumentedReservationStore{next: next, metrics: m}
}

func (s *InstrumentedReservationStore) TryReserve(ctx context.Context, productID string, quantity, limit int) (bool, error) {
	defer s.observe("reserve", time.Now())

	ok, err := s.next.TryReserve(ctx, productID, quantity, limit)
	switch {
	case err != nil:
		s.metrics.Reservations.WithLabelValues("error").Inc()
	case ok:
		s.metrics.Reservations.WithLabelValues("granted").Inc()
	default:
		s.metrics.Reservations.WithLabelValues("refused").Inc()
	}
	return ok, err
}

func (s *InstrumentedReservationStore) Release(ctx context.Context, productID string, quantity int) error {
	defer s.observe("release", time.Now())
	return s.next.Release(ctx, productID, quantity)
}

func (s *InstrumentedReservationStore) Reserved(ctx context.Context, productID string) (int, error) {
	defer s.observe("reserved", time.Now())
	return s.next.Reserved(ctx, productID)
}

func (s *InstrumentedReservationStore) observe(op string, start time.Time) {
	s.metrics.ReservationOpsMS.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000)
}

var _ inventory.ReservationStore = (*InstrumentedReservationStore)(nil)
