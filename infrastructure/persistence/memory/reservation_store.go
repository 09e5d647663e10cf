package memory

import (
	"context"
	"sync"

	"ordercore/domain/inventory"
)

// ReservationStore keeps reservation counters in a map guarded by one mutex.
type ReservationStore struct {
	mu       sync.Mutex
	reserved map[string]int
}

func NewReservationStore() *ReservationStore {
	return &ReservationStore{reserved: make(map[string]int)}
}

func (s *ReservationStore) TryReserve(_ context.Context, productID string, quantity, limit int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reserved[productID]+quantity > limit {
		return false, nil
	}
	s.reserved[productID] += quantity
	return true, nil
}

func (s *ReservationStore) Release(_ context.Context, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	left := s.reserved[productID] - quantity
	if left <= 0 {
		delete(s.reserved, productID)
		return nil
	}
	s.reserved[productID] = left
	return nil
}

func (s *ReservationStore) Reserved(_ context.Context, productID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserved[productID], nil
}

var _ inventory.ReservationStore = (*ReservationStore)(nil)
