// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  Lookup
// failures (ErrRoomNotFound, ErrSessionNotFound, ...) are declared next to
// the repository that returns them; the conflicts below are raised when a
// unique key rejects a write.
package repository

import "errors"

// ErrSeatAlreadyOccupied is returned when a seat of a session has already
// been reserved.  It is produced both by the explicit pre-check and by the
// unique key on occupied_seats, so concurrent losers see the same error.
// Handlers should translate this into an HTTP 409 response.
var ErrSeatAlreadyOccupied = errors.New("this seat is already occupied")

// ErrRoomNameTaken is returned when a cinema room name is already in use.
var ErrRoomNameTaken = errors.New("cinema room name already exists")

// ErrSessionExists is returned when a session for the same room, movie and
// showtime already exists.
var ErrSessionExists = errors.New("session already exists")
