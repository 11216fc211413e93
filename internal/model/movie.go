package model

// Movie is a film that can be scheduled into sessions.  Duration is the
// running time in minutes and Cover is the relative path of the poster
// under the media directory (empty when no cover was uploaded).
type Movie struct {
	ID       uint64  // moves.id
	Name     string  // moves.name
	Duration float64 // moves.move_time_length
	Cover    string  // moves.movie_cover
}

// Showtime is a reusable time-of-day slot such as "18:30:00".
type Showtime struct {
	ID   uint64 // move_times.id
	Time string // move_times.time, formatted HH:MM:SS
}
