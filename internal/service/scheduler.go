package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/shopspring/decimal"
)

// SchedulerService places screenings into showroom timelines and fans out
// their per-screening seats.
type SchedulerService struct {
	logger         *slog.Logger
	tx             domain.TxManager
	movies         domain.MovieRepository
	showrooms      domain.ShowroomRepository
	showroomSeats  domain.ShowroomSeatRepository
	screenings     domain.ScreeningRepository
	screeningSeats domain.ScreeningSeatRepository
	tickets        domain.TicketRepository
	customers      domain.CustomerRepository
	cascade        *CascadeCoordinator

	now func() time.Time
}

func NewSchedulerService(
	logger *slog.Logger,
	tx domain.TxManager,
	movies domain.MovieRepository,
	showrooms domain.ShowroomRepository,
	showroomSeats domain.ShowroomSeatRepository,
	screenings domain.ScreeningRepository,
	screeningSeats domain.ScreeningSeatRepository,
	tickets domain.TicketRepository,
	customers domain.CustomerRepository,
	cascade *CascadeCoordinator,
) *SchedulerService {
	return &SchedulerService{
		logger:         logger,
		tx:             tx,
		movies:         movies,
		showrooms:      showrooms,
		showroomSeats:  showroomSeats,
		screenings:     screenings,
		screeningSeats: screeningSeats,
		tickets:        tickets,
		customers:      customers,
		cascade:        cascade,
		now:            time.Now,
	}
}

// ScheduleScreening validates the slot [showTime, showTime+duration) against
// every screening already placed in the showroom and, on success, creates the
// screening plus one unbooked seat per showroom seat, all or nothing. The
// overlap scan and the insert run under a per-showroom schedule lock so two
// concurrent attempts cannot both pass the scan.
func (s *SchedulerService) ScheduleScreening(ctx context.Context, movieID, showroomID int, showTime time.Time) (int, error) {
	if showTime.IsZero() {
		return 0, domain.NewValidationError("show time is required")
	}
	if showTime.Year() < s.now().Year() {
		return 0, domain.NewValidationError("show time year cannot be before current year")
	}

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return 0, err
	}
	showroom, err := s.showrooms.GetByID(ctx, showroomID)
	if err != nil {
		return 0, err
	}

	endTime := showTime.Add(movie.Duration)

	var screeningID int

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.screenings.LockShowroomSchedule(ctx, showroomID); err != nil {
			return err
		}

		existing, err := s.screenings.GetByShowroom(ctx, showroomID)
		if err != nil {
			return err
		}
		for _, other := range existing {
			if !other.Overlaps(showTime, endTime) {
				continue
			}
			otherMovie, err := s.movies.GetByID(ctx, other.MovieID)
			if err != nil {
				return err
			}
			return domain.NewClashError(
				"screening for %s in showroom %s at %s overlaps screening for %s at %s",
				movie.Title, showroom.Letter, showTime.Format(time.RFC1123),
				otherMovie.Title, other.ShowTime.Format(time.RFC1123),
			)
		}

		screening := &domain.Screening{
			MovieID:    movieID,
			ShowroomID: showroomID,
			ShowTime:   showTime,
			EndTime:    endTime,
		}
		if err := s.screenings.Create(ctx, screening); err != nil {
			return err
		}

		layout, err := s.showroomSeats.GetByShowroom(ctx, showroomID)
		if err != nil {
			return err
		}
		seats := make([]domain.ScreeningSeat, len(layout))
		for i, showroomSeat := range layout {
			seats[i] = domain.ScreeningSeat{
				ScreeningID:    screening.ID,
				ShowroomSeatID: showroomSeat.ID,
			}
		}
		if err := s.screeningSeats.CreateBatch(ctx, seats); err != nil {
			return err
		}

		screeningID = screening.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("scheduled screening",
		"screening_id", screeningID,
		"movie_id", movieID,
		"showroom", showroom.Letter,
		"show_time", showTime,
	)

	return screeningID, nil
}

// FindOverlapping returns the first screening in the showroom whose interval
// intersects [start, end), or nil when the slot is free. A showroom hosts a
// bounded number of screenings, so a linear scan is fine.
func (s *SchedulerService) FindOverlapping(ctx context.Context, showroomID int, start, end time.Time) (*domain.Screening, error) {
	if _, err := s.showrooms.GetByID(ctx, showroomID); err != nil {
		return nil, err
	}

	screenings, err := s.screenings.GetByShowroom(ctx, showroomID)
	if err != nil {
		return nil, err
	}
	for i := range screenings {
		if screenings[i].Overlaps(start, end) {
			return &screenings[i], nil
		}
	}

	return nil, nil
}

func (s *SchedulerService) ScreeningsByMovie(ctx context.Context, movieID int, p domain.Pagination) ([]domain.Screening, *domain.Metadata, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, nil, err
	}
	return s.screenings.GetByMovie(ctx, movieID, p)
}

func (s *SchedulerService) ScreeningsByShowroom(ctx context.Context, showroomID int) ([]domain.Screening, error) {
	if _, err := s.showrooms.GetByID(ctx, showroomID); err != nil {
		return nil, err
	}
	return s.screenings.GetByShowroom(ctx, showroomID)
}

func (s *SchedulerService) ScreeningsInWindow(ctx context.Context, from, to *time.Time, p domain.Pagination) ([]domain.Screening, *domain.Metadata, error) {
	return s.screenings.GetByTimeWindow(ctx, from, to, p)
}

// SeatsOfScreening returns the screening's seats in showroom layout order.
func (s *SchedulerService) SeatsOfScreening(ctx context.Context, screeningID int) ([]domain.ScreeningSeat, error) {
	if _, err := s.screenings.GetByID(ctx, screeningID); err != nil {
		return nil, err
	}
	return s.screeningSeats.GetByScreening(ctx, screeningID)
}

// ScreeningDeletionImpact reports the blast radius of deleting the screening.
func (s *SchedulerService) ScreeningDeletionImpact(ctx context.Context, screeningID int) (*DeletionImpact, error) {
	if _, err := s.screenings.GetByID(ctx, screeningID); err != nil {
		return nil, err
	}

	seats, err := s.screeningSeats.GetByScreening(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.GetByScreening(ctx, screeningID)
	if err != nil {
		return nil, err
	}

	impact := &DeletionImpact{
		SeatsToDelete:      len(seats),
		ScreeningsToDelete: 1,
		TicketsToRefund:    len(tickets),
		RefundTotal:        decimal.Zero,
	}
	for _, t := range tickets {
		impact.RefundTotal = impact.RefundTotal.Add(t.Type.Price())
	}

	return impact, nil
}

// DeleteScreening credits every ticket sold for the screening back to its
// owner as tokens, then cascades the screening's subtree.
func (s *SchedulerService) DeleteScreening(ctx context.Context, screeningID int) error {
	if _, err := s.screenings.GetByID(ctx, screeningID); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		tickets, err := s.tickets.GetByScreening(ctx, screeningID)
		if err != nil {
			return err
		}
		for _, t := range tickets {
			if err := s.customers.CreditTokens(ctx, t.CustomerID, t.Type.TokenValue()); err != nil {
				return err
			}
		}
		return s.cascade.Delete(ctx, KindScreening, screeningID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("deleted screening", "id", screeningID)

	return nil
}

// DeleteMovie cascades the movie's reviews and screenings, crediting tickets
// sold for those screenings first.
func (s *SchedulerService) DeleteMovie(ctx context.Context, movieID int) error {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		screenings, _, err := s.screenings.GetByMovie(ctx, movieID, allPages)
		if err != nil {
			return err
		}
		for _, scr := range screenings {
			tickets, err := s.tickets.GetByScreening(ctx, scr.ID)
			if err != nil {
				return err
			}
			for _, t := range tickets {
				if err := s.customers.CreditTokens(ctx, t.CustomerID, t.Type.TokenValue()); err != nil {
					return err
				}
			}
		}
		return s.cascade.Delete(ctx, KindMovie, movieID)
	})
}
