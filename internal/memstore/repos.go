package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
)

type showroomRepo struct{ s *Store }

func (r showroomRepo) Create(ctx context.Context, showroom *domain.Showroom) error {
	defer r.s.acquire(ctx)()
	for _, existing := range r.s.st.showrooms {
		if existing.Letter == showroom.Letter {
			return domain.NewClashError("showroom with room letter %s already exists", showroom.Letter)
		}
	}
	showroom.ID = r.s.nextID()
	r.s.st.showrooms[showroom.ID] = *showroom
	return nil
}

func (r showroomRepo) GetByID(ctx context.Context, id int) (*domain.Showroom, error) {
	defer r.s.acquire(ctx)()
	showroom, ok := r.s.st.showrooms[id]
	if !ok {
		return nil, domain.NewNotFoundError("showroom", "id", id)
	}
	return &showroom, nil
}

func (r showroomRepo) GetByLetter(ctx context.Context, letter string) (*domain.Showroom, error) {
	defer r.s.acquire(ctx)()
	for _, showroom := range r.s.st.showrooms {
		if showroom.Letter == letter {
			return &showroom, nil
		}
	}
	return nil, domain.NewNotFoundError("showroom", "letter", letter)
}

func (r showroomRepo) ExistsByLetter(ctx context.Context, letter string) (bool, error) {
	defer r.s.acquire(ctx)()
	for _, showroom := range r.s.st.showrooms {
		if showroom.Letter == letter {
			return true, nil
		}
	}
	return false, nil
}

func (r showroomRepo) GetAll(ctx context.Context) ([]domain.Showroom, error) {
	defer r.s.acquire(ctx)()
	showrooms := make([]domain.Showroom, 0, len(r.s.st.showrooms))
	for _, showroom := range r.s.st.showrooms {
		showrooms = append(showrooms, showroom)
	}
	sort.Slice(showrooms, func(i, j int) bool { return showrooms[i].Letter < showrooms[j].Letter })
	return showrooms, nil
}

func (r showroomRepo) Delete(ctx context.Context, id int) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.showrooms[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.s.st.showrooms, id)
	return nil
}

type showroomSeatRepo struct{ s *Store }

func (r showroomSeatRepo) CreateBatch(ctx context.Context, seats []domain.ShowroomSeat) error {
	defer r.s.acquire(ctx)()
	for i := range seats {
		seats[i].ID = r.s.nextID()
		r.s.st.showroomSeats[seats[i].ID] = seats[i]
	}
	return nil
}

func (r showroomSeatRepo) GetByID(ctx context.Context, id int) (*domain.ShowroomSeat, error) {
	defer r.s.acquire(ctx)()
	seat, ok := r.s.st.showroomSeats[id]
	if !ok {
		return nil, domain.NewNotFoundError("showroom seat", "id", id)
	}
	return &seat, nil
}

func (r showroomSeatRepo) GetByShowroom(ctx context.Context, showroomID int) ([]domain.ShowroomSeat, error) {
	defer r.s.acquire(ctx)()
	var seats []domain.ShowroomSeat
	for _, seat := range r.s.st.showroomSeats {
		if seat.ShowroomID == showroomID {
			seats = append(seats, seat)
		}
	}
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].RowLetter != seats[j].RowLetter {
			return seats[i].RowLetter < seats[j].RowLetter
		}
		return seats[i].SeatNumber < seats[j].SeatNumber
	})
	return seats, nil
}

func (r showroomSeatRepo) Delete(ctx context.Context, id int) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.showroomSeats[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.s.st.showroomSeats, id)
	return nil
}

type movieRepo struct{ s *Store }

func (r movieRepo) Create(ctx context.Context, movie *domain.Movie) error {
	defer r.s.acquire(ctx)()
	movie.ID = r.s.nextID()
	movie.SearchTitle = domain.NormalizeSearchTitle(movie.Title)
	r.s.st.movies[movie.ID] = *movie
	return nil
}

func (r movieRepo) GetByID(ctx context.Context, id int) (*domain.Movie, error) {
	defer r.s.acquire(ctx)()
	movie, ok := r.s.st.movies[id]
	if !ok {
		return nil, domain.NewNotFoundError("movie", "id", id)
	}
	return &movie, nil
}

func (r movieRepo) GetByTitleLike(ctx context.Context, search string, p domain.Pagination) ([]domain.Movie, *domain.Metadata, error) {
	defer r.s.acquire(ctx)()
	needle := domain.NormalizeSearchTitle(search)
	var movies []domain.Movie
	for _, movie := range r.s.st.movies {
		if needle == "" || strings.Contains(movie.SearchTitle, needle) {
			movies = append(movies, movie)
		}
	}
	sort.Slice(movies, func(i, j int) bool { return movies[i].Title < movies[j].Title })
	page, meta := paginate(movies, p)
	return page, meta, nil
}

func (r movieRepo) Delete(ctx context.Context, id int) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.movies[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.s.st.movies, id)
	return nil
}

type screeningRepo struct{ s *Store }

func (r screeningRepo) Create(ctx context.Context, screening *domain.Screening) error {
	defer r.s.acquire(ctx)()
	screening.ID = r.s.nextID()
	r.s.st.screenings[screening.ID] = *screening
	return nil
}

func (r screeningRepo) GetByID(ctx context.Context, id int) (*domain.Screening, error) {
	defer r.s.acquire(ctx)()
	screening, ok := r.s.st.screenings[id]
	if !ok {
		return nil, domain.NewNotFoundError("screening", "id", id)
	}
	return &screening, nil
}

func (r screeningRepo) GetByShowroom(ctx context.Context, showroomID int) ([]domain.Screening, error) {
	defer r.s.acquire(ctx)()
	var screenings []domain.Screening
	for _, screening := range r.s.st.screenings {
		if screening.ShowroomID == showroomID {
			screenings = append(screenings, screening)
		}
	}
	sort.Slice(screenings, func(i, j int) bool { return screenings[i].ShowTime.Before(screenings[j].ShowTime) })
	return screenings, nil
}

func (r screeningRepo) GetByMovie(ctx context.Context, movieID int, p domain.Pagination) ([]domain.Screening, *domain.Metadata, error) {
	defer r.s.acquire(ctx)()
	var screenings []domain.Screening
	for _, screening := range r.s.st.screenings {
		if screening.MovieID == movieID {
			screenings = append(screenings, screening)
		}
	}
	sort.Slice(screenings, func(i, j int) bool { return screenings[i].ShowTime.Before(screenings[j].ShowTime) })
	page, meta := paginate(screenings, p)
	return page, meta, nil
}

func (r screeningRepo) GetByTimeWindow(ctx context.Context, from, to *time.Time, p domain.Pagination) ([]domain.Screening, *domain.Metadata, error) {
	defer r.s.acquire(ctx)()
	var screenings []domain.Screening
	for _, screening := range r.s.st.screenings {
		if from != nil && screening.ShowTime.Before(*from) {
			continue
		}
		if to != nil && !screening.ShowTime.Before(*to) {
			continue
		}
		screenings = append(screenings, screening)
	}
	sort.Slice(screenings, func(i, j int) bool { return screenings[i].ShowTime.Before(screenings[j].ShowTime) })
	page, meta := paginate(screenings, p)
	return page, meta, nil
}

func (r screeningRepo) LockShowroomSchedule(ctx context.Context, showroomID int) error {
	// Transactions already hold the store mutex end to end.
	return nil
}

func (r screeningRepo) Delete(ctx context.Context, id int) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.screenings[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.s.st.screenings, id)
	return nil
}

type screeningSeatRepo struct{ s *Store }

func (r screeningSeatRepo) CreateBatch(ctx context.Context, seats []domain.ScreeningSeat) error {
	defer r.s.acquire(ctx)()
	for i := range seats {
		seats[i].ID = r.s.nextID()
		r.s.st.screeningSeats[seats[i].ID] = seats[i]
	}
	return nil
}

func (r screeningSeatRepo) GetByID(ctx context.Context, id int) (*domain.ScreeningSeat, error) {
	defer r.s.acquire(ctx)()
	seat, ok := r.s.st.screeningSeats[id]
	if !ok {
		return nil, domain.NewNotFoundError("screening seat", "id", id)
	}
	return &seat, nil
}

func (r screeningSeatRepo) GetByScreening(ctx context.Context, screeningID int) ([]domain.ScreeningSeat, error) {
	defer r.s.acquire(ctx)()
	var seats []domain.ScreeningSeat
	for _, seat := range r.s.st.screeningSeats {
		if seat.ScreeningID == screeningID {
			seats = append(seats, seat)
		}
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].ShowroomSeatID < seats[j].ShowroomSeatID })
	return seats, nil
}

func (r screeningSeatRepo) GetByShowroomSeat(ctx context.Context, showroomSeatID int) ([]domain.ScreeningSeat, error) {
	defer r.s.acquire(ctx)()
	var seats []domain.ScreeningSeat
	for _, seat := range r.s.st.screeningSeats {
		if seat.ShowroomSeatID == showroomSeatID {
			seats = append(seats, seat)
		}
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].ID < seats[j].ID })
	return seats, nil
}

func (r screeningSeatRepo) Claim(ctx context.Context, seatID, ticketID int) error {
	defer r.s.acquire(ctx)()
	seat, ok := r.s.st.screeningSeats[seatID]
	if !ok {
		return domain.NewNotFoundError("screening seat", "id", seatID)
	}
	if seat.TicketID != nil {
		return domain.ErrEditConflict
	}
	seat.TicketID = &ticketID
	r.s.st.screeningSeats[seatID] = seat
	return nil
}

func (r screeningSeatRepo) Release(ctx context.Context, seatID int) error {
	defer r.s.acquire(ctx)()
	seat, ok := r.s.st.screeningSeats[seatID]
	if !ok {
		return domain.NewNotFoundError("screening seat", "id", seatID)
	}
	seat.TicketID = nil
	r.s.st.screeningSeats[seatID] = seat
	return nil
}

func (r screeningSeatRepo) Delete(ctx context.Context, id int) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.screeningSeats[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.s.st.screeningSeats, id)
	return nil
}

type ticketRepo struct{ s *Store }

func (r ticketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	defer r.s.acquire(ctx)()
	ticket.ID = r.s.nextID()
	ticket.CreatedAt = time.Now()
	r.s.st.tickets[ticket.ID] = *ticket
	return nil
}

func (r ticketRepo) GetByID(ctx context.Context, id int) (*domain.Ticket, error) {
	defer r.s.acquire(ctx)()
	ticket, ok := r.s.st.tickets[id]
	if !ok {
		return nil, domain.NewNotFoundError("ticket", "id", id)
	}
	return &ticket, nil
}

func (r ticketRepo) GetDetail(ctx context.Context, id int) (*domain.TicketDetail, error) {
	defer r.s.acquire(ctx)()
	ticket, ok := r.s.st.tickets[id]
	if !ok {
		return nil, domain.NewNotFoundError("ticket", "id", id)
	}

	detail := &domain.TicketDetail{
		TicketID:      ticket.ID,
		RefCode:       ticket.RefCode,
		CustomerID:    ticket.CustomerID,
		Type:          ticket.Type,
		Status:        ticket.Status,
		PaymentCardID: ticket.PaymentCardID,
	}
	if customer, ok := r.s.st.customers[ticket.CustomerID]; ok {
		detail.CustomerEmail = customer.Email
	}
	if seat, ok := r.s.st.screeningSeats[ticket.ScreeningSeatID]; ok {
		if showroomSeat, ok := r.s.st.showroomSeats[seat.ShowroomSeatID]; ok {
			detail.SeatDesignation = showroomSeat.Designation()
		}
		if screening, ok := r.s.st.screenings[seat.ScreeningID]; ok {
			detail.ShowTime = screening.ShowTime
			detail.EndTime = screening.EndTime
			if movie, ok := r.s.st.movies[screening.MovieID]; ok {
				detail.MovieTitle = movie.Title
			}
			if showroom, ok := r.s.st.showrooms[screening.ShowroomID]; ok {
				detail.ShowroomLetter = showroom.Letter
			}
		}
	}
	return detail, nil
}

func (r ticketRepo) ExistsByID(ctx context.Context, id int) (bool, error) {
	defer r.s.acquire(ctx)()
	_, ok := r.s.st.tickets[id]
	return ok, nil
}

func (r ticketRepo) GetByCustomer(ctx context.Context, customerID int) ([]domain.Ticket, error) {
	defer r.s.acquire(ctx)()
	return r.filter(func(t domain.Ticket) bool { return t.CustomerID == customerID }), nil
}

func (r ticketRepo) GetByScreening(ctx context.Context, screeningID int) ([]domain.Ticket, error) {
	defer r.s.acquire(ctx)()
	return r.filter(func(t domain.Ticket) bool {
		seat, ok := r.s.st.screeningSeats[t.ScreeningSeatID]
		return ok && seat.ScreeningID == screeningID
	}), nil
}

func (r ticketRepo) GetByShowroom(ctx context.Context, showroomID int) ([]domain.Ticket, error) {
	defer r.s.acquire(ctx)()
	return r.filter(func(t domain.Ticket) bool {
		seat, ok := r.s.st.screeningSeats[t.ScreeningSeatID]
		if !ok {
			return false
		}
		screening, ok := r.s.st.screenings[seat.ScreeningID]
		return ok && screening.ShowroomID == showroomID
	}), nil
}

func (r ticketRepo) GetByPaymentCard(ctx context.Context, cardID int) ([]domain.Ticket, error) {
	defer r.s.acquire(ctx)()
	return r.filter(func(t domain.Ticket) bool {
		return t.PaymentCardID != nil && *t.PaymentCardID == cardID
	}), nil
}

func (r ticketRepo) filter(keep func(domain.Ticket) bool) []domain.Ticket {
	var tickets []domain.Ticket
	for _, ticket := range r.s.st.tickets {
		if keep(ticket) {
			tickets = append(tickets, ticket)
		}
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })
	return tickets
}

func (r ticketRepo) UpdateStatus(ctx context.Context, id int, status domain.TicketStatus) error {
	defer r.s.acquire(ctx)()
	ticket, ok := r.s.st.tickets[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	ticket.Status = status
	r.s.st.tickets[id] = ticket
	return nil
}

func (r ticketRepo) DetachPaymentCard(ctx context.Context, cardID int) error {
	defer r.s.acquire(ctx)()
	for id, ticket := range r.s.st.tickets {
		if ticket.PaymentCardID != nil && *ticket.PaymentCardID == cardID {
			ticket.PaymentCardID = nil
			r.s.st.tickets[id] = ticket
		}
	}
	return nil
}

func (r ticketRepo) Delete(ctx context.Context, id int) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.tickets[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.s.st.tickets, id)
	return nil
}

type customerRepo struct{ s *Store }

func (r customerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	defer r.s.acquire(ctx)()
	customer.ID = r.s.nextID()
	customer.CreatedAt = time.Now()
	r.s.st.customers[customer.ID] = *customer
	return nil
}

func (r customerRepo) GetByID(ctx context.Context, id int) (*domain.Customer, error) {
	defer r.s.acquire(ctx)()
	customer, ok := r.s.st.customers[id]
	if !ok {
		return nil, domain.NewNotFoundError("customer", "id", id)
	}
	return &customer, nil
}

func (r customerRepo) GetByUserID(ctx context.Context, userID int) (*domain.Customer, error) {
	defer r.s.acquire(ctx)()
	for _, customer := range r.s.st.customers {
		if customer.UserID == userID {
			return &customer, nil
		}
	}
	return nil, domain.NewNotFoundError("customer", "user id", userID)
}

func (r customerRepo) CreditTokens(ctx context.Context, customerID, amount int) error {
	defer r.s.acquire(ctx)()
	customer, ok := r.s.st.customers[customerID]
	if !ok {
		return domain.NewNotFoundError("customer", "id", customerID)
	}
	customer.Tokens += amount
	r.s.st.customers[customerID] = customer
	return nil
}

func (r customerRepo) DebitTokens(ctx context.Context, customerID, amount int) error {
	defer r.s.acquire(ctx)()
	customer, ok := r.s.st.customers[customerID]
	if !ok {
		return domain.NewNotFoundError("customer", "id", customerID)
	}
	if customer.Tokens < amount {
		return domain.ErrEditConflict
	}
	customer.Tokens -= amount
	r.s.st.customers[customerID] = customer
	return nil
}

func (r customerRepo) Delete(ctx context.Context, id int) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.customers[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.s.st.customers, id)
	return nil
}

type paymentCardRepo struct{ s *Store }

func (r paymentCardRepo) Create(ctx context.Context, card *domain.PaymentCard) error {
	defer r.s.acquire(ctx)()
	count := 0
	for _, existing := range r.s.st.paymentCards {
		if existing.CustomerID == card.CustomerID {
			count++
		}
	}
	if count >= domain.MaxPaymentCardsPerCustomer {
		return domain.NewInvalidActionError("customer already has %d payment cards", domain.MaxPaymentCardsPerCustomer)
	}
	card.ID = r.s.nextID()
	r.s.st.paymentCards[card.ID] = *card
	return nil
}

func (r paymentCardRepo) GetByID(ctx context.Context, id int) (*domain.PaymentCard, error) {
	defer r.s.acquire(ctx)()
	card, ok := r.s.st.paymentCards[id]
	if !ok {
		return nil, domain.NewNotFoundError("payment card", "id", id)
	}
	return &card, nil
}

func (r paymentCardRepo) ExistsByID(ctx context.Context, id int) (bool, error) {
	defer r.s.acquire(ctx)()
	_, ok := r.s.st.paymentCards[id]
	return ok, nil
}

func (r paymentCardRepo) GetByCustomer(ctx context.Context, customerID int) ([]domain.PaymentCard, error) {
	defer r.s.acquire(ctx)()
	var cards []domain.PaymentCard
	for _, card := range r.s.st.paymentCards {
		if card.CustomerID == customerID {
			cards = append(cards, card)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards, nil
}

func (r paymentCardRepo) CountByCustomer(ctx context.Context, customerID int) (int, error) {
	defer r.s.acquire(ctx)()
	count := 0
	for _, card := range r.s.st.paymentCards {
		if card.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (r paymentCardRepo) Delete(ctx context.Context, id int) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.paymentCards[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.s.st.paymentCards, id)
	return nil
}

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(ctx context.Context, review *domain.Review) error {
	defer r.s.acquire(ctx)()
	review.ID = r.s.nextID()
	review.CreatedAt = time.Now()
	r.s.st.reviews[review.ID] = *review
	return nil
}

func (r reviewRepo) GetByID(ctx context.Context, id int) (*domain.Review, error) {
	defer r.s.acquire(ctx)()
	review, ok := r.s.st.reviews[id]
	if !ok {
		return nil, domain.NewNotFoundError("review", "id", id)
	}
	return &review, nil
}

func (r reviewRepo) GetByMovie(ctx context.Context, movieID int) ([]domain.Review, error) {
	defer r.s.acquire(ctx)()
	var reviews []domain.Review
	for _, review := range r.s.st.reviews {
		if review.MovieID == movieID {
			reviews = append(reviews, review)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

func (r reviewRepo) GetByCustomer(ctx context.Context, customerID int) ([]domain.Review, error) {
	defer r.s.acquire(ctx)()
	var reviews []domain.Review
	for _, review := range r.s.st.reviews {
		if review.CustomerID == customerID {
			reviews = append(reviews, review)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

func (r reviewRepo) Delete(ctx context.Context, id int) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.reviews[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.s.st.reviews, id)
	return nil
}

type reviewVoteRepo struct{ s *Store }

func (r reviewVoteRepo) Create(ctx context.Context, vote *domain.ReviewVote) error {
	defer r.s.acquire(ctx)()
	vote.ID = r.s.nextID()
	r.s.st.reviewVotes[vote.ID] = *vote
	return nil
}

func (r reviewVoteRepo) GetByReview(ctx context.Context, reviewID int) ([]domain.ReviewVote, error) {
	defer r.s.acquire(ctx)()
	var votes []domain.ReviewVote
	for _, vote := range r.s.st.reviewVotes {
		if vote.ReviewID == reviewID {
			votes = append(votes, vote)
		}
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].ID < votes[j].ID })
	return votes, nil
}

func (r reviewVoteRepo) GetByCustomer(ctx context.Context, customerID int) ([]domain.ReviewVote, error) {
	defer r.s.acquire(ctx)()
	var votes []domain.ReviewVote
	for _, vote := range r.s.st.reviewVotes {
		if vote.CustomerID == customerID {
			votes = append(votes, vote)
		}
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].ID < votes[j].ID })
	return votes, nil
}

func (r reviewVoteRepo) Delete(ctx context.Context, id int) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.reviewVotes[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.s.st.reviewVotes, id)
	return nil
}
