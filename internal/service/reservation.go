package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/cinema-room-reservation/internal/metrics"
	"github.com/iliyamo/cinema-room-reservation/internal/model"
	"github.com/iliyamo/cinema-room-reservation/internal/queue"
	"github.com/iliyamo/cinema-room-reservation/internal/repository"
	"github.com/iliyamo/cinema-room-reservation/internal/seating"
	"github.com/iliyamo/cinema-room-reservation/internal/utils"
)

// publishTimeout bounds how long a background event publish may take.
const publishTimeout = 10 * time.Second

// ReservationService reserves seats and builds the seating view of a
// session.  Events and Tickets are optional; when nil no event is
// published and no ticket is issued.
type ReservationService struct {
	rooms    RoomStore
	movies   MovieStore
	sessions SessionStore
	seats    SeatStore
	events   EventPublisher
	tickets  TicketIssuer
	mediaURL string

	publishing sync.WaitGroup // in-flight seat.reserved publishes
}

// NewReservationService wires a ReservationService.  mediaURL prefixes
// movie cover paths in session views.
func NewReservationService(rooms RoomStore, movies MovieStore, sessions SessionStore, seats SeatStore, events EventPublisher, tickets TicketIssuer, mediaURL string) *ReservationService {
	return &ReservationService{
		rooms:    rooms,
		movies:   movies,
		sessions: sessions,
		seats:    seats,
		events:   events,
		tickets:  tickets,
		mediaURL: mediaURL,
	}
}

// Reservation is the result of a successful ReserveSeat.
type Reservation struct {
	Seat    *model.OccupiedSeat
	Session *model.Session
	Room    *model.CinemaRoom
	Ticket  *utils.Ticket // nil when no issuer is configured
}

// ReserveSeat reserves (row, column) of a session.  It fails with
// repository.ErrSessionNotFound when the session is unknown, ErrInvalidSeat
// when the position lies outside the room's current dimensions and
// repository.ErrSeatAlreadyOccupied when the seat is taken.  Two concurrent
// calls for the same seat can never both succeed: the unique key on
// occupied seats rejects the loser with ErrSeatAlreadyOccupied.
func (s *ReservationService) ReserveSeat(ctx context.Context, sessionID uint64, row, column int) (*Reservation, error) {
	res, err := s.reserve(ctx, 0, sessionID, row, column)
	observeReservation(err)
	return res, err
}

// ReserveSeatInRoom behaves like ReserveSeat but also requires the session
// to belong to roomID.  A session of another room is reported as
// repository.ErrSessionNotFound.
func (s *ReservationService) ReserveSeatInRoom(ctx context.Context, roomID, sessionID uint64, row, column int) (*Reservation, error) {
	res, err := s.reserve(ctx, roomID, sessionID, row, column)
	observeReservation(err)
	return res, err
}

func (s *ReservationService) reserve(ctx context.Context, roomID, sessionID uint64, row, column int) (*Reservation, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if roomID != 0 && sess.CinemaRoomID != roomID {
		return nil, repository.ErrSessionNotFound
	}

	room, err := s.rooms.GetByID(ctx, sess.CinemaRoomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, fmt.Errorf("session %d references missing room %d: %w", sess.ID, sess.CinemaRoomID, err)
		}
		return nil, err
	}
	if row < 1 || row > room.Row || column < 1 || column > room.Column {
		return nil, ErrInvalidSeat
	}

	existing, err := s.seats.Find(ctx, sess.ID, row, column)
	if err != nil {
		return nil, fmt.Errorf("find seat: %w", err)
	}
	if existing != nil {
		return nil, repository.ErrSeatAlreadyOccupied
	}

	seat, err := s.seats.Insert(ctx, sess.ID, row, column)
	if err != nil {
		if errors.Is(err, repository.ErrSeatAlreadyOccupied) || errors.Is(err, repository.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("insert seat: %w", err)
	}

	out := &Reservation{Seat: seat, Session: sess, Room: room}
	if s.tickets != nil {
		t, err := s.tickets.Issue(sess.ID, row, column)
		if err != nil {
			// the seat stays reserved without a ticket
			log.Printf("reservation: issue ticket for session=%d seat=%d:%d: %v", sess.ID, row, column, err)
		} else {
			out.Ticket = &t
		}
	}
	s.publishReserved(out)
	return out, nil
}

func (s *ReservationService) publishReserved(r *Reservation) {
	if s.events == nil {
		return
	}
	ev := queue.SeatReservedEvent{
		SeatID:     r.Seat.ID,
		SessionID:  r.Session.ID,
		RoomID:     r.Room.ID,
		RoomName:   r.Room.Name,
		MovieID:    r.Session.MovieID,
		ShowtimeID: r.Session.ShowtimeID,
		Row:        r.Seat.Row,
		Column:     r.Seat.Column,
		ReservedAt: r.Seat.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.Ticket != nil {
		ev.TicketID = r.Ticket.ID
	}
	s.publishing.Add(1)
	go func() {
		defer s.publishing.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.events.PublishSeatReserved(ctx, ev); err != nil {
			log.Printf("reservation: publish seat.reserved for seat=%d: %v", ev.SeatID, err)
		}
	}()
}

// Drain waits for in-flight event publishes to finish.  Call it after the
// HTTP server has stopped accepting reservations.  It returns ctx.Err() if
// ctx ends first.
func (s *ReservationService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.publishing.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func observeReservation(err error) {
	switch {
	case err == nil:
		metrics.ObserveReservation(metrics.OutcomeReserved)
	case errors.Is(err, repository.ErrSeatAlreadyOccupied):
		metrics.ObserveReservation(metrics.OutcomeOccupied)
	case errors.Is(err, ErrInvalidSeat):
		metrics.ObserveReservation(metrics.OutcomeInvalidSeat)
	case errors.Is(err, repository.ErrSessionNotFound):
		metrics.ObserveReservation(metrics.OutcomeSessionNotFound)
	default:
		metrics.ObserveReservation(metrics.OutcomeError)
	}
}

// RoomSummary describes a room in a session view.
type RoomSummary struct {
	ID      uint64
	Name    string
	Rows    []int // 1..row
	Columns []int // 1..column
}

// FilmSummary describes the movie of a session view.
type FilmSummary struct {
	ID       uint64
	Name     string
	Cover    string // absolute media URL, empty when no cover
	Duration float64
}

// RowSeats is one row of the seating grid.
type RowSeats struct {
	Row   int
	Seats []bool
}

// SessionView is everything a client needs to draw the seat map of a
// session and pick a seat.
type SessionView struct {
	Room          RoomSummary
	Film          FilmSummary
	SessionID     uint64
	Seating       seating.Grid
	Data          []RowSeats
	OccupiedSeats []seating.Position
}

// GetSessionView loads a room, a movie and the session that shows the
// movie in the room, then derives the seat map from the session's occupied
// seats.  A showtimeID of 0 picks the lowest-id session for the pair.
// Errors: repository.ErrRoomNotFound, repository.ErrMovieNotFound,
// repository.ErrSessionNotFound, in that order of checking.
func (s *ReservationService) GetSessionView(ctx context.Context, roomID, movieID, showtimeID uint64) (*SessionView, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	film, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}

	var sess *model.Session
	if showtimeID != 0 {
		sess, err = s.sessions.GetByRoomFilmAndTime(ctx, room.ID, film.ID, showtimeID)
	} else {
		sess, err = s.sessions.GetByRoomAndFilm(ctx, room.ID, film.ID)
	}
	if err != nil {
		return nil, err
	}

	occupied, err := s.seats.ListBySession(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("list occupied seats: %w", err)
	}
	positions := make([]seating.Position, 0, len(occupied))
	for _, o := range occupied {
		positions = append(positions, seating.Position{Row: o.Row, Column: o.Column})
	}

	grid := seating.Overlay(room.Row, room.Column, positions)
	view := &SessionView{
		Room: RoomSummary{
			ID:      room.ID,
			Name:    room.Name,
			Rows:    oneTo(room.Row),
			Columns: oneTo(room.Column),
		},
		Film: FilmSummary{
			ID:       film.ID,
			Name:     film.Name,
			Cover:    s.coverURL(film.Cover),
			Duration: film.Duration,
		},
		SessionID:     sess.ID,
		Seating:       grid,
		OccupiedSeats: positions,
	}
	view.Data = make([]RowSeats, 0, len(grid))
	for i, seats := range grid {
		view.Data = append(view.Data, RowSeats{Row: i + 1, Seats: seats})
	}
	return view, nil
}

func (s *ReservationService) coverURL(cover string) string {
	if cover == "" {
		return ""
	}
	if s.mediaURL == "" {
		return cover
	}
	return strings.TrimRight(s.mediaURL, "/") + "/" + strings.TrimLeft(cover, "/")
}

func oneTo(n int) []int {
	out := make([]int, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, i)
	}
	return out
}

// TicketStatus is the result of verifying a ticket against storage.
type TicketStatus struct {
	Seat    *model.OccupiedSeat
	Session *model.Session
}

// VerifyTicket confirms that the seat a ticket was issued for is still
// reserved.  Signature and expiry are checked before this is called.
func (s *ReservationService) VerifyTicket(ctx context.Context, claims *utils.TicketClaims) (*TicketStatus, error) {
	sess, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrTicketRevoked
		}
		return nil, err
	}
	seat, err := s.seats.Find(ctx, sess.ID, claims.Row, claims.Column)
	if err != nil {
		return nil, fmt.Errorf("find seat: %w", err)
	}
	if seat == nil {
		return nil, ErrTicketRevoked
	}
	return &TicketStatus{Seat: seat, Session: sess}, nil
}
