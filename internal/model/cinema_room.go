package model

import "time"

// CinemaRoom is a screening room with a fixed rectangular seat layout.
// Seating holds the serialized seat grid (see package seating).  The grid
// is a dimensional template: it is regenerated whenever Row or Column
// change and is never written by reservations.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique room name.
//  Column    – number of seats per row.
//  Row       – number of rows.
//  Seating   – JSON array of arrays of booleans, Row x Column.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type CinemaRoom struct {
	ID        uint64    // cinema_rooms.id
	Name      string    // cinema_rooms.name
	Column    int       // cinema_rooms.seat_columns
	Row       int       // cinema_rooms.seat_rows
	Seating   string    // cinema_rooms.seating
	CreatedAt time.Time // cinema_rooms.created_at
	UpdatedAt time.Time // cinema_rooms.updated_at
}

// DefaultRoomRows and DefaultRoomColumns are used when a room is created
// without explicit dimensions.
const (
	DefaultRoomRows    = 10
	DefaultRoomColumns = 10
)
