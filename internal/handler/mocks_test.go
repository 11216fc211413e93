package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
	"github.com/iliyamo/cinema-room-reservation/internal/seating"
	"github.com/iliyamo/cinema-room-reservation/internal/service"
	"github.com/iliyamo/cinema-room-reservation/internal/utils"
)

type catalogMock struct{ mock.Mock }

func (m *catalogMock) CreateRoom(ctx context.Context, name string, rows, columns int) (*model.CinemaRoom, error) {
	args := m.Called(ctx, name, rows, columns)
	room, _ := args.Get(0).(*model.CinemaRoom)
	return room, args.Error(1)
}

func (m *catalogMock) ResizeRoom(ctx context.Context, id uint64, rows, columns int) (*model.CinemaRoom, error) {
	args := m.Called(ctx, id, rows, columns)
	room, _ := args.Get(0).(*model.CinemaRoom)
	return room, args.Error(1)
}

func (m *catalogMock) RenameRoom(ctx context.Context, id uint64, name string) error {
	return m.Called(ctx, id, name).Error(0)
}

func (m *catalogMock) GetRoom(ctx context.Context, id uint64) (*model.CinemaRoom, seating.Grid, error) {
	args := m.Called(ctx, id)
	room, _ := args.Get(0).(*model.CinemaRoom)
	grid, _ := args.Get(1).(seating.Grid)
	return room, grid, args.Error(2)
}

func (m *catalogMock) ListRooms(ctx context.Context) ([]*model.CinemaRoom, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]*model.CinemaRoom)
	return rooms, args.Error(1)
}

func (m *catalogMock) CreateMovie(ctx context.Context, name string, duration float64, cover string) (*model.Movie, error) {
	args := m.Called(ctx, name, duration, cover)
	mv, _ := args.Get(0).(*model.Movie)
	return mv, args.Error(1)
}

func (m *catalogMock) ListMovies(ctx context.Context) ([]*model.Movie, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*model.Movie)
	return list, args.Error(1)
}

func (m *catalogMock) ListMoviesByRoom(ctx context.Context, roomID uint64) ([]*model.Movie, error) {
	args := m.Called(ctx, roomID)
	list, _ := args.Get(0).([]*model.Movie)
	return list, args.Error(1)
}

func (m *catalogMock) CreateShowtime(ctx context.Context, at string) (*model.Showtime, error) {
	args := m.Called(ctx, at)
	st, _ := args.Get(0).(*model.Showtime)
	return st, args.Error(1)
}

func (m *catalogMock) ListShowtimes(ctx context.Context) ([]*model.Showtime, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*model.Showtime)
	return list, args.Error(1)
}

func (m *catalogMock) CreateSession(ctx context.Context, roomID, movieID, showtimeID uint64) (*model.Session, error) {
	args := m.Called(ctx, roomID, movieID, showtimeID)
	s, _ := args.Get(0).(*model.Session)
	return s, args.Error(1)
}

func (m *catalogMock) ListSessionsByRoom(ctx context.Context, roomID uint64) ([]*model.Session, error) {
	args := m.Called(ctx, roomID)
	list, _ := args.Get(0).([]*model.Session)
	return list, args.Error(1)
}

func (m *catalogMock) DeleteSession(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type reserverMock struct{ mock.Mock }

func (m *reserverMock) ReserveSeatInRoom(ctx context.Context, roomID, sessionID uint64, row, column int) (*service.Reservation, error) {
	args := m.Called(ctx, roomID, sessionID, row, column)
	r, _ := args.Get(0).(*service.Reservation)
	return r, args.Error(1)
}

func (m *reserverMock) GetSessionView(ctx context.Context, roomID, movieID, showtimeID uint64) (*service.SessionView, error) {
	args := m.Called(ctx, roomID, movieID, showtimeID)
	v, _ := args.Get(0).(*service.SessionView)
	return v, args.Error(1)
}

func (m *reserverMock) VerifyTicket(ctx context.Context, claims *utils.TicketClaims) (*service.TicketStatus, error) {
	args := m.Called(ctx, claims)
	st, _ := args.Get(0).(*service.TicketStatus)
	return st, args.Error(1)
}
