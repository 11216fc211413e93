package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
)

// ErrShowtimeNotFound is returned when a showtime lookup fails.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ShowtimeRepo provides access to the move_times table.  TIME columns are
// not affected by parseTime and scan as "HH:MM:SS" strings.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// GetByID retrieves a showtime or returns ErrShowtimeNotFound.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	const q = `SELECT id, time FROM move_times WHERE id = ?`
	var st model.Showtime
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&st.ID, &st.Time); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &st, nil
}

// ListAll returns showtimes ordered by time of day.
func (r *ShowtimeRepo) ListAll(ctx context.Context) ([]*model.Showtime, error) {
	const q = `SELECT id, time FROM move_times ORDER BY time, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Showtime
	for rows.Next() {
		st := new(model.Showtime)
		if err := rows.Scan(&st.ID, &st.Time); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Create inserts a showtime and sets its ID.
func (r *ShowtimeRepo) Create(ctx context.Context, st *model.Showtime) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO move_times (time) VALUES (?)`, st.Time)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	st.ID = uint64(id)
	return nil
}
