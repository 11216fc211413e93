package repository // repository defines data access for sessions

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions

	"github.com/iliyamo/cinema-room-reservation/internal/database"
	"github.com/iliyamo/cinema-room-reservation/internal/model"
)

// ErrSessionNotFound is returned when a session lookup yields no rows.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepo provides methods to work with sessions in the database.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) getOne(ctx context.Context, q string, args ...any) (*model.Session, error) {
	var s model.Session
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&s.ID, &s.CinemaRoomID, &s.MovieID, &s.ShowtimeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByID retrieves a session by its id.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	const q = `SELECT id, cinema_room_id, move_id, move_time_id FROM sessions WHERE id = ?`
	return r.getOne(ctx, q, id)
}

// GetByRoomAndFilm returns the session of a movie in a room.  When the
// movie is screened at several showtimes the lowest id wins, which keeps
// the answer stable across calls.
func (r *SessionRepo) GetByRoomAndFilm(ctx context.Context, roomID, movieID uint64) (*model.Session, error) {
	const q = `SELECT id, cinema_room_id, move_id, move_time_id
               FROM sessions
               WHERE cinema_room_id = ? AND move_id = ?
               ORDER BY id
               LIMIT 1`
	return r.getOne(ctx, q, roomID, movieID)
}

// GetByRoomFilmAndTime returns the unique session for a room, movie and
// showtime.
func (r *SessionRepo) GetByRoomFilmAndTime(ctx context.Context, roomID, movieID, showtimeID uint64) (*model.Session, error) {
	const q = `SELECT id, cinema_room_id, move_id, move_time_id
               FROM sessions
               WHERE cinema_room_id = ? AND move_id = ? AND move_time_id = ?`
	return r.getOne(ctx, q, roomID, movieID, showtimeID)
}

// ListByRoom returns all sessions scheduled in a room.
func (r *SessionRepo) ListByRoom(ctx context.Context, roomID uint64) ([]*model.Session, error) {
	const q = `SELECT id, cinema_room_id, move_id, move_time_id
               FROM sessions
               WHERE cinema_room_id = ?
               ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Session
	for rows.Next() {
		s := new(model.Session)
		if err := rows.Scan(&s.ID, &s.CinemaRoomID, &s.MovieID, &s.ShowtimeID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a session.  A second session for the same room, movie
// and showtime yields ErrSessionExists.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `INSERT INTO sessions (cinema_room_id, move_id, move_time_id) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.CinemaRoomID, s.MovieID, s.ShowtimeID)
	if err != nil {
		if database.IsDuplicateEntry(err) {
			return ErrSessionExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Delete removes a session.  Its occupied seats go with it through the
// ON DELETE CASCADE foreign key.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
