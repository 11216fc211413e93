package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
	"github.com/iliyamo/cinema-room-reservation/internal/repository"
	"github.com/iliyamo/cinema-room-reservation/internal/seating"
	"github.com/iliyamo/cinema-room-reservation/internal/service"
)

// BrowseHandler serves the public, read-only endpoints: rooms, movies and
// the seat map of a session.
type BrowseHandler struct {
	Catalog  Catalog
	Reserver Reserver
	MediaURL string // prefix for movie cover links
}

// RoomItem is a room in list responses.
type RoomItem struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// RoomDetail is a single room with its seating template.
type RoomDetail struct {
	ID      uint64       `json:"id"`
	Name    string       `json:"name"`
	Column  int          `json:"column"`
	Row     int          `json:"row"`
	Seating seating.Grid `json:"seating"`
}

// MovieItem is a movie in list responses.
type MovieItem struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	Duration   float64 `json:"move_time_length"`
	MovieCover string  `json:"movie_cover,omitempty"`
}

// ListRooms handles GET /v1/cinema_rooms.
func (h *BrowseHandler) ListRooms(c echo.Context) error {
	rooms, err := h.Catalog.ListRooms(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]RoomItem, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomItem{ID: r.ID, Name: r.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// GetRoom handles GET /v1/cinema_rooms/:id.  A stored grid that does not
// decode is reported as an internal error.
func (h *BrowseHandler) GetRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	room, grid, err := h.Catalog.GetRoom(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, RoomDetail{
		ID:      room.ID,
		Name:    room.Name,
		Column:  room.Column,
		Row:     room.Row,
		Seating: grid,
	})
}

// ListMovies handles GET /v1/movies.
func (h *BrowseHandler) ListMovies(c echo.Context) error {
	movies, err := h.Catalog.ListMovies(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.movieItems(movies))
}

// ListRoomMovies handles GET /v1/cinema_rooms/:id/movies.
func (h *BrowseHandler) ListRoomMovies(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	movies, err := h.Catalog.ListMoviesByRoom(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.movieItems(movies))
}

func (h *BrowseHandler) movieItems(movies []*model.Movie) []MovieItem {
	out := make([]MovieItem, 0, len(movies))
	for _, m := range movies {
		out = append(out, MovieItem{ID: m.ID, Name: m.Name, Duration: m.Duration, MovieCover: mediaLink(h.MediaURL, m.Cover)})
	}
	return out
}

// sessionViewResponse is the JSON shape of a session seat map.
type sessionViewResponse struct {
	Room struct {
		Name    string `json:"name"`
		Columns []int  `json:"columns"`
		Rows    []int  `json:"rows"`
	} `json:"room"`
	Film struct {
		ID         uint64 `json:"id"`
		Name       string `json:"name"`
		MovieCover string `json:"movie_cover"`
	} `json:"film"`
	Data          []rowResponse      `json:"data"`
	OccupiedSeats []seating.Position `json:"occupied_seats"`
	SessionID     uint64             `json:"session_id"`
}

type rowResponse struct {
	Row   int    `json:"row"`
	Seats []bool `json:"seats"`
}

// GetSessionView handles GET /v1/cinema_rooms/:id/films/:film_id.  The
// optional time_id query parameter selects one showtime; without it the
// earliest scheduled session of the pair is shown.
func (h *BrowseHandler) GetSessionView(c echo.Context) error {
	roomID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	filmID, ok := pathID(c, "film_id")
	if !ok {
		return badRequest(c, "invalid film id")
	}
	var timeID uint64
	if raw := c.QueryParam("time_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || v == 0 {
			return badRequest(c, "invalid time_id")
		}
		timeID = v
	}

	view, err := h.Reserver.GetSessionView(c.Request().Context(), roomID, filmID, timeID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": msgViewNotFound})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionViewResponse(view))
}

func toSessionViewResponse(v *service.SessionView) sessionViewResponse {
	var out sessionViewResponse
	out.Room.Name = v.Room.Name
	out.Room.Columns = v.Room.Columns
	out.Room.Rows = v.Room.Rows
	out.Film.ID = v.Film.ID
	out.Film.Name = v.Film.Name
	out.Film.MovieCover = v.Film.Cover
	out.SessionID = v.SessionID
	out.OccupiedSeats = v.OccupiedSeats
	if out.OccupiedSeats == nil {
		out.OccupiedSeats = []seating.Position{}
	}
	out.Data = make([]rowResponse, 0, len(v.Data))
	for _, r := range v.Data {
		out.Data = append(out.Data, rowResponse{Row: r.Row, Seats: r.Seats})
	}
	return out
}
