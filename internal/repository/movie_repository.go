package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
)

// ErrMovieNotFound is returned when a movie lookup fails.
var ErrMovieNotFound = errors.New("film not found")

// MovieRepo provides access to the moves table.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// GetByID retrieves a movie by id or returns ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, name, move_time_length, movie_cover FROM moves WHERE id = ?`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Name, &m.Duration, &m.Cover)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListAll returns every movie ordered by id.
func (r *MovieRepo) ListAll(ctx context.Context) ([]*model.Movie, error) {
	const q = `SELECT id, name, move_time_length, movie_cover FROM moves ORDER BY id`
	return r.list(ctx, q)
}

// ListByRoom returns the distinct movies that have at least one session in
// the given room.
func (r *MovieRepo) ListByRoom(ctx context.Context, roomID uint64) ([]*model.Movie, error) {
	const q = `SELECT DISTINCT m.id, m.name, m.move_time_length, m.movie_cover
               FROM moves m
               JOIN sessions s ON s.move_id = m.id
               WHERE s.cinema_room_id = ?
               ORDER BY m.id`
	return r.list(ctx, q, roomID)
}

func (r *MovieRepo) list(ctx context.Context, q string, args ...any) ([]*model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Movie
	for rows.Next() {
		m := new(model.Movie)
		if err := rows.Scan(&m.ID, &m.Name, &m.Duration, &m.Cover); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Create inserts a movie and sets its ID.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO moves (name, move_time_length, movie_cover) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Name, m.Duration, m.Cover)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}
