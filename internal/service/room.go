package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
	"github.com/iliyamo/cinema-room-reservation/internal/seating"
)

var (
	// ErrEmptyName is returned when a room or movie name is blank.
	ErrEmptyName = errors.New("name is required")

	// ErrInvalidShowtime is returned when a showtime is not a valid
	// HH:MM or HH:MM:SS time of day.
	ErrInvalidShowtime = errors.New("time must be HH:MM or HH:MM:SS")

	// ErrInvalidDuration is returned for a non-positive movie duration.
	ErrInvalidDuration = errors.New("duration must be greater than zero")
)

// RoomService administers rooms and the catalogue of movies, showtimes
// and sessions.  Layout changes are explicit operations: the stored
// seating grid is regenerated only by CreateRoom and ResizeRoom.
type RoomService struct {
	rooms     RoomStore
	movies    MovieStore
	showtimes ShowtimeStore
	sessions  SessionStore
}

// NewRoomService wires a RoomService.
func NewRoomService(rooms RoomStore, movies MovieStore, showtimes ShowtimeStore, sessions SessionStore) *RoomService {
	return &RoomService{rooms: rooms, movies: movies, showtimes: showtimes, sessions: sessions}
}

// CreateRoom creates a room with an all-free seating grid.  Zero
// dimensions fall back to the 10x10 default; negative ones are rejected.
func (s *RoomService) CreateRoom(ctx context.Context, name string, rows, columns int) (*model.CinemaRoom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if rows == 0 {
		rows = model.DefaultRoomRows
	}
	if columns == 0 {
		columns = model.DefaultRoomColumns
	}
	if rows < 0 || columns < 0 {
		return nil, ErrInvalidDimensions
	}
	text, err := seating.Serialize(seating.Generate(rows, columns))
	if err != nil {
		return nil, fmt.Errorf("serialize seating: %w", err)
	}
	room := &model.CinemaRoom{Name: name, Row: rows, Column: columns, Seating: text}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// ResizeRoom changes a room's dimensions and resets its seating grid to
// all free.  Occupied seats of existing sessions live in their own table
// and are not touched.
// Unchanged dimensions return ErrNoChange and leave the grid untouched.
func (s *RoomService) ResizeRoom(ctx context.Context, id uint64, rows, columns int) (*model.CinemaRoom, error) {
	if rows < 1 || columns < 1 {
		return nil, ErrInvalidDimensions
	}
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room.Row == rows && room.Column == columns {
		return room, ErrNoChange
	}
	text, err := seating.Serialize(seating.Generate(rows, columns))
	if err != nil {
		return nil, fmt.Errorf("serialize seating: %w", err)
	}
	if err := s.rooms.UpdateLayout(ctx, id, rows, columns, text); err != nil {
		return nil, err
	}
	room.Row, room.Column, room.Seating = rows, columns, text
	return room, nil
}

// RenameRoom changes a room's name.
func (s *RoomService) RenameRoom(ctx context.Context, id uint64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return s.rooms.UpdateName(ctx, id, name)
}

// GetRoom loads a room and decodes its seating grid.  A grid that does not
// decode, or whose shape differs from the room's rows and columns, yields
// seating.ErrMalformedGrid.
func (s *RoomService) GetRoom(ctx context.Context, id uint64) (*model.CinemaRoom, seating.Grid, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	grid, err := seating.Deserialize(room.Seating)
	if err == nil && (grid.Rows() != room.Row || grid.Columns() != room.Column) {
		err = fmt.Errorf("%w: grid is %dx%d, room is %dx%d", seating.ErrMalformedGrid, grid.Rows(), grid.Columns(), room.Row, room.Column)
	}
	if err != nil {
		log.Printf("room %d: stored seating is corrupt: %v", room.ID, err)
		return nil, nil, err
	}
	return room, grid, nil
}

// ListRooms returns every room.
func (s *RoomService) ListRooms(ctx context.Context) ([]*model.CinemaRoom, error) {
	return s.rooms.ListAll(ctx)
}

// CreateMovie adds a movie to the catalogue.  cover is a path relative to
// the media directory and may be empty.
func (s *RoomService) CreateMovie(ctx context.Context, name string, duration float64, cover string) (*model.Movie, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	m := &model.Movie{Name: name, Duration: duration, Cover: strings.TrimSpace(cover)}
	if err := s.movies.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMovie loads one movie.
func (s *RoomService) GetMovie(ctx context.Context, id uint64) (*model.Movie, error) {
	return s.movies.GetByID(ctx, id)
}

// ListMovies returns the whole catalogue.
func (s *RoomService) ListMovies(ctx context.Context) ([]*model.Movie, error) {
	return s.movies.ListAll(ctx)
}

// ListMoviesByRoom returns the movies screened in a room.  An unknown room
// yields repository.ErrRoomNotFound rather than an empty list.
func (s *RoomService) ListMoviesByRoom(ctx context.Context, roomID uint64) ([]*model.Movie, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.movies.ListByRoom(ctx, roomID)
}

// CreateShowtime adds a time-of-day slot.  Input may omit seconds; the
// stored value is always HH:MM:SS.
func (s *RoomService) CreateShowtime(ctx context.Context, at string) (*model.Showtime, error) {
	normalized, err := normalizeTimeOfDay(at)
	if err != nil {
		return nil, err
	}
	st := &model.Showtime{Time: normalized}
	if err := s.showtimes.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func normalizeTimeOfDay(at string) (string, error) {
	at = strings.TrimSpace(at)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, at); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", ErrInvalidShowtime
}

// ListShowtimes returns every showtime ordered by time of day.
func (s *RoomService) ListShowtimes(ctx context.Context) ([]*model.Showtime, error) {
	return s.showtimes.ListAll(ctx)
}

// CreateSession schedules a movie in a room at a showtime.  All three must
// exist; a duplicate triple yields repository.ErrSessionExists.
func (s *RoomService) CreateSession(ctx context.Context, roomID, movieID, showtimeID uint64) (*model.Session, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, err
	}
	if _, err := s.showtimes.GetByID(ctx, showtimeID); err != nil {
		return nil, err
	}
	sess := &model.Session{CinemaRoomID: roomID, MovieID: movieID, ShowtimeID: showtimeID}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// ListSessionsByRoom returns the sessions of a room.
func (s *RoomService) ListSessionsByRoom(ctx context.Context, roomID uint64) ([]*model.Session, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.sessions.ListByRoom(ctx, roomID)
}

// DeleteSession removes a session together with its occupied seats.
func (s *RoomService) DeleteSession(ctx context.Context, id uint64) error {
	return s.sessions.Delete(ctx, id)
}
