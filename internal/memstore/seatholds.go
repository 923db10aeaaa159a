package memstore

import (
	"context"
	"sort"
	"sync"
	"time"
)

type seatHold struct {
	customerID int
	expiresAt  time.Time
}

// SeatHoldStore is the in-memory counterpart of the Redis-backed hold store.
// Holds expire lazily, on the next read of the key.
type SeatHoldStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	holds map[[2]int]seatHold
	now   func() time.Time
}

func NewSeatHoldStore(ttl time.Duration) *SeatHoldStore {
	return &SeatHoldStore{
		ttl:   ttl,
		holds: make(map[[2]int]seatHold),
		now:   time.Now,
	}
}

func (s *SeatHoldStore) Hold(ctx context.Context, screeningID, seatID, customerID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]int{screeningID, seatID}
	if hold, ok := s.holds[key]; ok && hold.expiresAt.After(s.now()) {
		return false, nil
	}
	s.holds[key] = seatHold{customerID: customerID, expiresAt: s.now().Add(s.ttl)}
	return true, nil
}

func (s *SeatHoldStore) HolderOf(ctx context.Context, screeningID, seatID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hold, ok := s.holds[[2]int{screeningID, seatID}]
	if !ok || !hold.expiresAt.After(s.now()) {
		return 0, nil
	}
	return hold.customerID, nil
}

func (s *SeatHoldStore) HeldSeats(ctx context.Context, screeningID int) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var seatIDs []int64
	for key, hold := range s.holds {
		if key[0] != screeningID {
			continue
		}
		if !hold.expiresAt.After(s.now()) {
			delete(s.holds, key)
			continue
		}
		seatIDs = append(seatIDs, int64(key[1]))
	}
	sort.Slice(seatIDs, func(i, j int) bool { return seatIDs[i] < seatIDs[j] })
	return seatIDs, nil
}

func (s *SeatHoldStore) Release(ctx context.Context, screeningID, seatID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.holds, [2]int{screeningID, seatID})
	return nil
}
