package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions

	"github.com/iliyamo/cinema-room-reservation/internal/database"
	"github.com/iliyamo/cinema-room-reservation/internal/model"
)

// ErrRoomNotFound is returned when a cinema room lookup fails.
var ErrRoomNotFound = errors.New("cinema room not found")

const roomColumns = `id, name, seat_columns, seat_rows, seating, created_at, updated_at`

// CinemaRoomRepo provides methods to create, update and retrieve cinema
// rooms.  It embeds a database handle to perform queries and commands.
type CinemaRoomRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewCinemaRoomRepo constructs a CinemaRoomRepo with the given DB handle.
func NewCinemaRoomRepo(db *sql.DB) *CinemaRoomRepo {
	return &CinemaRoomRepo{db: db}
}

func scanRoom(row interface{ Scan(...any) error }) (*model.CinemaRoom, error) {
	var r model.CinemaRoom
	if err := row.Scan(&r.ID, &r.Name, &r.Column, &r.Row, &r.Seating, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetByID retrieves a room by its ID.  It returns ErrRoomNotFound when no
// row is found.
func (r *CinemaRoomRepo) GetByID(ctx context.Context, id uint64) (*model.CinemaRoom, error) {
	const q = `SELECT ` + roomColumns + ` FROM cinema_rooms WHERE id = ?`
	room, err := scanRoom(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// GetByName retrieves a room by its unique name.
func (r *CinemaRoomRepo) GetByName(ctx context.Context, name string) (*model.CinemaRoom, error) {
	const q = `SELECT ` + roomColumns + ` FROM cinema_rooms WHERE name = ?`
	room, err := scanRoom(r.db.QueryRowContext(ctx, q, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// ListAll returns every room ordered by id.
func (r *CinemaRoomRepo) ListAll(ctx context.Context) ([]*model.CinemaRoom, error) {
	const q = `SELECT ` + roomColumns + ` FROM cinema_rooms ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.CinemaRoom
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new room.  Name, Row, Column and Seating must be set;
// the caller is responsible for generating Seating from the dimensions.
// The insert and the read-back of defaults and timestamps run in one
// transaction.  A duplicate name yields ErrRoomNameTaken.
func (r *CinemaRoomRepo) Create(ctx context.Context, room *model.CinemaRoom) error {
	const qInsert = `INSERT INTO cinema_rooms (name, seat_columns, seat_rows, seating) VALUES (?, ?, ?, ?)`
	const qSelect = `SELECT ` + roomColumns + ` FROM cinema_rooms WHERE id = ?`

	var created *model.CinemaRoom
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, qInsert, room.Name, room.Column, room.Row, room.Seating)
		if err != nil {
			if database.IsDuplicateEntry(err) {
				return ErrRoomNameTaken
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		created, err = scanRoom(tx.QueryRowContext(ctx, qSelect, id))
		return err
	})
	if err != nil {
		return err
	}
	*room = *created
	return nil
}

// UpdateLayout overwrites the dimensions and the seating grid of a room.
// It returns ErrRoomNotFound when the room does not exist.
func (r *CinemaRoomRepo) UpdateLayout(ctx context.Context, id uint64, rows, columns int, seating string) error {
	const q = `UPDATE cinema_rooms
               SET seat_rows = ?, seat_columns = ?, seating = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, rows, columns, seating, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// UpdateName renames a room.  A duplicate name yields ErrRoomNameTaken.
func (r *CinemaRoomRepo) UpdateName(ctx context.Context, id uint64, name string) error {
	const q = `UPDATE cinema_rooms SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, id)
	if err != nil {
		if database.IsDuplicateEntry(err) {
			return ErrRoomNameTaken
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}
