package service

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
	"github.com/iliyamo/cinema-room-reservation/internal/queue"
	"github.com/iliyamo/cinema-room-reservation/internal/repository"
)

// memRooms is an in-memory RoomStore.
type memRooms struct {
	mu    sync.Mutex
	rooms map[uint64]*model.CinemaRoom
}

func newMemRooms(rooms ...*model.CinemaRoom) *memRooms {
	m := &memRooms{rooms: map[uint64]*model.CinemaRoom{}}
	for _, r := range rooms {
		m.rooms[r.ID] = r
	}
	return m
}

func (m *memRooms) GetByID(_ context.Context, id uint64) (*model.CinemaRoom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRooms) ListAll(context.Context) ([]*model.CinemaRoom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.CinemaRoom
	for _, r := range m.rooms {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRooms) Create(_ context.Context, room *model.CinemaRoom) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		if r.Name == room.Name {
			return repository.ErrRoomNameTaken
		}
	}
	room.ID = uint64(len(m.rooms) + 1)
	cp := *room
	m.rooms[room.ID] = &cp
	return nil
}

func (m *memRooms) UpdateLayout(_ context.Context, id uint64, rows, columns int, seating string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return repository.ErrRoomNotFound
	}
	r.Row, r.Column, r.Seating = rows, columns, seating
	return nil
}

func (m *memRooms) UpdateName(_ context.Context, id uint64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return repository.ErrRoomNotFound
	}
	r.Name = name
	return nil
}

// memMovies is an in-memory MovieStore.  byRoom lists movie ids per room.
type memMovies struct {
	movies map[uint64]*model.Movie
	byRoom map[uint64][]uint64
}

func (m *memMovies) GetByID(_ context.Context, id uint64) (*model.Movie, error) {
	mv, ok := m.movies[id]
	if !ok {
		return nil, repository.ErrMovieNotFound
	}
	return mv, nil
}

func (m *memMovies) ListAll(context.Context) ([]*model.Movie, error) {
	var out []*model.Movie
	for _, mv := range m.movies {
		out = append(out, mv)
	}
	return out, nil
}

func (m *memMovies) ListByRoom(_ context.Context, roomID uint64) ([]*model.Movie, error) {
	var out []*model.Movie
	for _, id := range m.byRoom[roomID] {
		out = append(out, m.movies[id])
	}
	return out, nil
}

func (m *memMovies) Create(_ context.Context, mv *model.Movie) error {
	mv.ID = uint64(len(m.movies) + 1)
	m.movies[mv.ID] = mv
	return nil
}

// memSessions is an in-memory SessionStore.  Deleting a session cascades
// to seats when seats is set.
type memSessions struct {
	mu       sync.Mutex
	sessions map[uint64]*model.Session
	seats    *memSeats
}

func newMemSessions(sessions ...*model.Session) *memSessions {
	m := &memSessions{sessions: map[uint64]*model.Session{}}
	for _, s := range sessions {
		m.sessions[s.ID] = s
	}
	return m
}

func (m *memSessions) GetByID(_ context.Context, id uint64) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return s, nil
}

func (m *memSessions) GetByRoomAndFilm(_ context.Context, roomID, movieID uint64) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *model.Session
	for _, s := range m.sessions {
		if s.CinemaRoomID == roomID && s.MovieID == movieID && (best == nil || s.ID < best.ID) {
			best = s
		}
	}
	if best == nil {
		return nil, repository.ErrSessionNotFound
	}
	return best, nil
}

func (m *memSessions) GetByRoomFilmAndTime(_ context.Context, roomID, movieID, showtimeID uint64) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.CinemaRoomID == roomID && s.MovieID == movieID && s.ShowtimeID == showtimeID {
			return s, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (m *memSessions) ListByRoom(_ context.Context, roomID uint64) ([]*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Session
	for _, s := range m.sessions {
		if s.CinemaRoomID == roomID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSessions) Create(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uint64(len(m.sessions) + 1)
	m.sessions[s.ID] = s
	return nil
}

func (m *memSessions) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(m.sessions, id)
	if m.seats != nil {
		m.seats.dropSession(id)
	}
	return nil
}

type seatKey struct {
	session     uint64
	row, column int
}

// memSeats is an in-memory SeatStore whose map behaves like the unique
// key on (session_id, seat_row, seat_column).  When gate is set, every
// Find waits on it, which lets a test hold several callers between the
// pre-check and the insert.
type memSeats struct {
	mu     sync.Mutex
	seats  map[seatKey]*model.OccupiedSeat
	nextID uint64
	gate   *sync.WaitGroup
}

func newMemSeats() *memSeats {
	return &memSeats{seats: map[seatKey]*model.OccupiedSeat{}}
}

func (m *memSeats) Find(_ context.Context, sessionID uint64, row, column int) (*model.OccupiedSeat, error) {
	m.mu.Lock()
	s := m.seats[seatKey{sessionID, row, column}]
	m.mu.Unlock()
	if m.gate != nil {
		m.gate.Done()
		m.gate.Wait()
	}
	return s, nil
}

func (m *memSeats) Insert(_ context.Context, sessionID uint64, row, column int) (*model.OccupiedSeat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := seatKey{sessionID, row, column}
	if _, taken := m.seats[k]; taken {
		return nil, repository.ErrSeatAlreadyOccupied
	}
	m.nextID++
	s := &model.OccupiedSeat{ID: m.nextID, SessionID: sessionID, Row: row, Column: column, CreatedAt: time.Now().UTC()}
	m.seats[k] = s
	return s, nil
}

func (m *memSeats) ListBySession(_ context.Context, sessionID uint64) ([]*model.OccupiedSeat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.OccupiedSeat
	for k, s := range m.seats {
		if k.session == sessionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSeats) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seats)
}

func (m *memSeats) dropSession(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.seats {
		if k.session == id {
			delete(m.seats, k)
		}
	}
}

// chanPublisher forwards published events to a channel.
type chanPublisher struct {
	events chan queue.SeatReservedEvent
}

func (p *chanPublisher) PublishSeatReserved(_ context.Context, ev queue.SeatReservedEvent) error {
	p.events <- ev
	return nil
}
