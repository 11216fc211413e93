// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// SeatReservedQueue is the durable queue seat reservations are published to.
const SeatReservedQueue = "seat.reserved"

// SeatReservedEvent is published after a seat has been reserved.  It
// carries enough context for downstream consumers to log, notify or feed
// analytics without querying the primary database.
type SeatReservedEvent struct {
	SeatID     uint64 `json:"seat_id"`
	SessionID  uint64 `json:"session_id"`
	RoomID     uint64 `json:"cinema_room_id"`
	RoomName   string `json:"cinema_room_name"`
	MovieID    uint64 `json:"move_id"`
	ShowtimeID uint64 `json:"move_time_id"`
	Row        int    `json:"row"`
	Column     int    `json:"column"`
	TicketID   string `json:"ticket_id,omitempty"`
	ReservedAt string `json:"reserved_at"`
}
