package domain

import (
	"context"
	"fmt"
)

const (
	// MaxShowroomRows is bounded by the row-letter alphabet.
	MaxShowroomRows = 26
	// MaxSeatsPerRow matches the widest physical layout we install.
	MaxSeatsPerRow = 50

	rowAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Showroom is a physical auditorium with a fixed seat grid. The single-letter
// identifier is unique across all showrooms.
type Showroom struct {
	ID          int
	Letter      string
	Rows        int
	SeatsPerRow int
}

// ShowroomSeat is one physical seat, owned by exactly one showroom.
// (showroom, row letter, seat number) is unique.
type ShowroomSeat struct {
	ID         int
	ShowroomID int
	RowLetter  string
	SeatNumber int
}

// RowLetter returns the letter of the i-th row (0-based), e.g. 0 -> "A".
func RowLetter(i int) string {
	return string(rowAlphabet[i])
}

func (s ShowroomSeat) Designation() string {
	return fmt.Sprintf("%s-%d", s.RowLetter, s.SeatNumber)
}

type ShowroomRepository interface {
	Create(ctx context.Context, showroom *Showroom) error
	GetByID(ctx context.Context, id int) (*Showroom, error)
	GetByLetter(ctx context.Context, letter string) (*Showroom, error)
	ExistsByLetter(ctx context.Context, letter string) (bool, error)
	GetAll(ctx context.Context) ([]Showroom, error)
	Delete(ctx context.Context, id int) error
}

type ShowroomSeatRepository interface {
	CreateBatch(ctx context.Context, seats []ShowroomSeat) error
	GetByID(ctx context.Context, id int) (*ShowroomSeat, error)
	// GetByShowroom returns the showroom's seats ordered by
	// (row letter, seat number) ascending.
	GetByShowroom(ctx context.Context, showroomID int) ([]ShowroomSeat, error)
	Delete(ctx context.Context, id int) error
}
