// Package handler exposes the HTTP handlers of the reservation API.  The
// handlers depend on the small interfaces below rather than on concrete
// services, so they can be exercised with mocks.
package handler

import (
	"context"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
	"github.com/iliyamo/cinema-room-reservation/internal/seating"
	"github.com/iliyamo/cinema-room-reservation/internal/service"
	"github.com/iliyamo/cinema-room-reservation/internal/utils"
)

// Catalog is the room and catalogue administration surface, implemented by
// *service.RoomService.
type Catalog interface {
	CreateRoom(ctx context.Context, name string, rows, columns int) (*model.CinemaRoom, error)
	ResizeRoom(ctx context.Context, id uint64, rows, columns int) (*model.CinemaRoom, error)
	RenameRoom(ctx context.Context, id uint64, name string) error
	GetRoom(ctx context.Context, id uint64) (*model.CinemaRoom, seating.Grid, error)
	ListRooms(ctx context.Context) ([]*model.CinemaRoom, error)

	CreateMovie(ctx context.Context, name string, duration float64, cover string) (*model.Movie, error)
	ListMovies(ctx context.Context) ([]*model.Movie, error)
	ListMoviesByRoom(ctx context.Context, roomID uint64) ([]*model.Movie, error)

	CreateShowtime(ctx context.Context, at string) (*model.Showtime, error)
	ListShowtimes(ctx context.Context) ([]*model.Showtime, error)

	CreateSession(ctx context.Context, roomID, movieID, showtimeID uint64) (*model.Session, error)
	ListSessionsByRoom(ctx context.Context, roomID uint64) ([]*model.Session, error)
	DeleteSession(ctx context.Context, id uint64) error
}

// Reserver is the seat reservation surface, implemented by
// *service.ReservationService.
type Reserver interface {
	ReserveSeatInRoom(ctx context.Context, roomID, sessionID uint64, row, column int) (*service.Reservation, error)
	GetSessionView(ctx context.Context, roomID, movieID, showtimeID uint64) (*service.SessionView, error)
	VerifyTicket(ctx context.Context, claims *utils.TicketClaims) (*service.TicketStatus, error)
}

var (
	_ Catalog  = (*service.RoomService)(nil)
	_ Reserver = (*service.ReservationService)(nil)
)
