package model

import "time"

// OccupiedSeat records that one seat of a session has been reserved.  Row
// and Column are 1-based.  At most one record exists per
// (SessionID, Row, Column); records disappear only when their session is
// deleted.
type OccupiedSeat struct {
	ID        uint64    // occupied_seats.id
	SessionID uint64    // occupied_seats.session_id
	Row       int       // occupied_seats.seat_row
	Column    int       // occupied_seats.seat_column
	CreatedAt time.Time // occupied_seats.created_at
}
