package domain

import (
	"context"
	"time"
)

// Screening is a scheduled showing of a movie in a showroom over
// [ShowTime, EndTime). Movie and showroom are weak references; the screening
// owns its ScreeningSeats, exactly one per ShowroomSeat of its showroom.
type Screening struct {
	ID         int
	MovieID    int
	ShowroomID int
	ShowTime   time.Time
	EndTime    time.Time
}

// Overlaps reports whether the screening's interval intersects
// [start, end). Touching intervals do not overlap: a screening ending at
// 11:30 does not conflict with one starting at 11:30.
func (s Screening) Overlaps(start, end time.Time) bool {
	return s.ShowTime.Before(end) && start.Before(s.EndTime)
}

// ScreeningSeat is the booking unit: one physical seat's availability for one
// specific screening. TicketID is nil while the seat is unbooked; at most one
// ticket may ever reference the seat at a time.
type ScreeningSeat struct {
	ID             int
	ScreeningID    int
	ShowroomSeatID int
	TicketID       *int
}

func (s ScreeningSeat) Booked() bool {
	return s.TicketID != nil
}

type ScreeningRepository interface {
	Create(ctx context.Context, screening *Screening) error
	GetByID(ctx context.Context, id int) (*Screening, error)
	// GetByShowroom returns all screenings placed in the showroom, ordered by
	// show time ascending.
	GetByShowroom(ctx context.Context, showroomID int) ([]Screening, error)
	GetByMovie(ctx context.Context, movieID int, pagination Pagination) ([]Screening, *Metadata, error)
	// GetByTimeWindow filters on show time; either bound may be nil.
	GetByTimeWindow(ctx context.Context, from, to *time.Time, pagination Pagination) ([]Screening, *Metadata, error)
	// LockShowroomSchedule serializes concurrent scheduling attempts against
	// the same showroom for the duration of the enclosing transaction.
	LockShowroomSchedule(ctx context.Context, showroomID int) error
	Delete(ctx context.Context, id int) error
}

type ScreeningSeatRepository interface {
	CreateBatch(ctx context.Context, seats []ScreeningSeat) error
	GetByID(ctx context.Context, id int) (*ScreeningSeat, error)
	// GetByScreening returns the screening's seats in showroom layout order.
	GetByScreening(ctx context.Context, screeningID int) ([]ScreeningSeat, error)
	GetByShowroomSeat(ctx context.Context, showroomSeatID int) ([]ScreeningSeat, error)
	// Claim atomically sets the seat's ticket reference if and only if it is
	// currently nil. A lost race or an already-booked seat yields
	// ErrEditConflict.
	Claim(ctx context.Context, seatID, ticketID int) error
	// Release clears the seat's ticket reference. Releasing an unbooked seat
	// is a no-op.
	Release(ctx context.Context, seatID int) error
	Delete(ctx context.Context, id int) error
}
