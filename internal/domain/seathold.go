package domain

import "context"

// SeatHoldStore grants a customer a short exclusive checkout window on a
// screening seat. Holds are advisory and expire on their own; the seat claim
// in the database remains the source of truth.
type SeatHoldStore interface {
	// Hold takes the seat for the customer. It reports false when another
	// customer already validly holds the seat.
	Hold(ctx context.Context, screeningID, seatID, customerID int) (bool, error)
	// HolderOf returns the customer holding the seat, or 0 if the seat is free.
	HolderOf(ctx context.Context, screeningID, seatID int) (int, error)
	// HeldSeats returns the IDs of the screening's seats still under a valid
	// hold, pruning expired entries as a side effect.
	HeldSeats(ctx context.Context, screeningID int) ([]int64, error)
	// Release drops the hold regardless of holder.
	Release(ctx context.Context, screeningID, seatID int) error
}
