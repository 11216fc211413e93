package model

// Session is one scheduled screening: a movie shown in a room at a
// showtime.  The (CinemaRoomID, MovieID, ShowtimeID) triple is unique.
type Session struct {
	ID           uint64 // sessions.id
	CinemaRoomID uint64 // sessions.cinema_room_id
	MovieID      uint64 // sessions.move_id
	ShowtimeID   uint64 // sessions.move_time_id
}
