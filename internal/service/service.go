// Package service holds the business rules of the reservation system.  It
// depends on small store interfaces that internal/repository implements,
// so the rules can be exercised without a database.
package service

import (
	"context"
	"errors"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
	"github.com/iliyamo/cinema-room-reservation/internal/queue"
	"github.com/iliyamo/cinema-room-reservation/internal/utils"
)

var (
	// ErrInvalidSeat is returned when a requested row or column falls
	// outside the room's current dimensions.
	ErrInvalidSeat = errors.New("invalid row or column for reservation")

	// ErrInvalidDimensions is returned when a room is created or resized
	// with a non-positive row or column count.
	ErrInvalidDimensions = errors.New("rows and columns must be greater than zero")

	// ErrNoChange is returned by ResizeRoom when the dimensions are
	// unchanged, so the seating grid is left alone.
	ErrNoChange = errors.New("no change")

	// ErrTicketRevoked is returned when a valid ticket no longer matches
	// an occupied seat, e.g. because its session was deleted.
	ErrTicketRevoked = errors.New("ticket no longer matches a reservation")
)

// RoomStore is the persistence contract for cinema rooms.
type RoomStore interface {
	GetByID(ctx context.Context, id uint64) (*model.CinemaRoom, error)
	ListAll(ctx context.Context) ([]*model.CinemaRoom, error)
	Create(ctx context.Context, room *model.CinemaRoom) error
	UpdateLayout(ctx context.Context, id uint64, rows, columns int, seating string) error
	UpdateName(ctx context.Context, id uint64, name string) error
}

// MovieStore is the persistence contract for movies.
type MovieStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
	ListAll(ctx context.Context) ([]*model.Movie, error)
	ListByRoom(ctx context.Context, roomID uint64) ([]*model.Movie, error)
	Create(ctx context.Context, m *model.Movie) error
}

// ShowtimeStore is the persistence contract for showtimes.
type ShowtimeStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Showtime, error)
	ListAll(ctx context.Context) ([]*model.Showtime, error)
	Create(ctx context.Context, st *model.Showtime) error
}

// SessionStore is the persistence contract for sessions.
type SessionStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Session, error)
	GetByRoomAndFilm(ctx context.Context, roomID, movieID uint64) (*model.Session, error)
	GetByRoomFilmAndTime(ctx context.Context, roomID, movieID, showtimeID uint64) (*model.Session, error)
	ListByRoom(ctx context.Context, roomID uint64) ([]*model.Session, error)
	Create(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, id uint64) error
}

// SeatStore is the persistence contract for occupied seats.  Find returns
// (nil, nil) for a free seat.  Insert must report a duplicate as
// repository.ErrSeatAlreadyOccupied.
type SeatStore interface {
	Find(ctx context.Context, sessionID uint64, row, column int) (*model.OccupiedSeat, error)
	Insert(ctx context.Context, sessionID uint64, row, column int) (*model.OccupiedSeat, error)
	ListBySession(ctx context.Context, sessionID uint64) ([]*model.OccupiedSeat, error)
}

// EventPublisher delivers domain events to the message broker.
type EventPublisher interface {
	PublishSeatReserved(ctx context.Context, ev queue.SeatReservedEvent) error
}

// TicketIssuer signs reservation tickets.
type TicketIssuer interface {
	Issue(sessionID uint64, row, column int) (utils.Ticket, error)
}
