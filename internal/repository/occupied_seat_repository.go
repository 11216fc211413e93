package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cinema-room-reservation/internal/database"
	"github.com/iliyamo/cinema-room-reservation/internal/model"
)

// OccupiedSeatRepo stores reserved seats.  The uq_occupied_seat unique key
// on (session_id, seat_row, seat_column) is what guarantees a seat is
// reserved at most once per session, no matter how many requests race.
type OccupiedSeatRepo struct {
	db *sql.DB
}

// NewOccupiedSeatRepo returns a new OccupiedSeatRepo bound to the given database.
func NewOccupiedSeatRepo(db *sql.DB) *OccupiedSeatRepo { return &OccupiedSeatRepo{db: db} }

// Find returns the occupied seat at (row, column) of a session, or nil
// with a nil error when the seat is free.
func (r *OccupiedSeatRepo) Find(ctx context.Context, sessionID uint64, row, column int) (*model.OccupiedSeat, error) {
	const q = `SELECT id, session_id, seat_row, seat_column, created_at
               FROM occupied_seats
               WHERE session_id = ? AND seat_row = ? AND seat_column = ?`
	var s model.OccupiedSeat
	err := r.db.QueryRowContext(ctx, q, sessionID, row, column).
		Scan(&s.ID, &s.SessionID, &s.Row, &s.Column, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Insert records a reservation.  It is a single statement: either the row
// is written or nothing is.  A unique-key violation is reported as
// ErrSeatAlreadyOccupied and a missing parent session (deleted in the
// meantime) as ErrSessionNotFound.
func (r *OccupiedSeatRepo) Insert(ctx context.Context, sessionID uint64, row, column int) (*model.OccupiedSeat, error) {
	const q = `INSERT INTO occupied_seats (session_id, seat_row, seat_column) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, sessionID, row, column)
	if err != nil {
		switch {
		case database.IsDuplicateEntry(err):
			return nil, ErrSeatAlreadyOccupied
		case database.IsForeignKeyViolation(err):
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.OccupiedSeat{
		ID:        uint64(id),
		SessionID: sessionID,
		Row:       row,
		Column:    column,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ListBySession returns every occupied seat of a session ordered by row
// then column.
func (r *OccupiedSeatRepo) ListBySession(ctx context.Context, sessionID uint64) ([]*model.OccupiedSeat, error) {
	const q = `SELECT id, session_id, seat_row, seat_column, created_at
               FROM occupied_seats
               WHERE session_id = ?
               ORDER BY seat_row, seat_column`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.OccupiedSeat
	for rows.Next() {
		s := new(model.OccupiedSeat)
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Row, &s.Column, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
