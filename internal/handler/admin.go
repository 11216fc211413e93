package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
	"github.com/iliyamo/cinema-room-reservation/internal/service"
)

// Cached public routes whose entries go stale after an admin write.
const (
	RouteRooms      = "/v1/cinema_rooms"
	RouteMovies     = "/v1/movies"
	RouteRoomMovies = "/v1/cinema_rooms/:id/movies"
)

// AdminHandler manages rooms, movies, showtimes and sessions.  Purge, when
// set, drops cached responses of the given routes after a write.
type AdminHandler struct {
	Catalog  Catalog
	MediaURL string
	Purge    func(ctx context.Context, routes ...string) error
}

func (h *AdminHandler) purge(c echo.Context, routes ...string) {
	if h.Purge == nil {
		return
	}
	if err := h.Purge(c.Request().Context(), routes...); err != nil {
		c.Logger().Warnf("cache purge %v: %v", routes, err)
	}
}

var errBadBody = errors.New("invalid request body")

// bindValid binds the JSON body into v and runs the registered validator.
// The returned error is safe to show to the client.
func bindValid(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return errBadBody
	}
	return c.Validate(v)
}

type roomResponse struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Column  int    `json:"column"`
	Row     int    `json:"row"`
	Seating string `json:"seating"`
}

func toRoomResponse(r *model.CinemaRoom) roomResponse {
	return roomResponse{ID: r.ID, Name: r.Name, Column: r.Column, Row: r.Row, Seating: r.Seating}
}

type createRoomRequest struct {
	Name   string `json:"name" validate:"notblank,max=255"`
	Row    int    `json:"row" validate:"min=0,max=100"`
	Column int    `json:"column" validate:"min=0,max=100"`
}

// CreateRoom handles POST /v1/admin/rooms.  Omitted dimensions default to
// 10x10.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var req createRoomRequest
	if err := bindValid(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	room, err := h.Catalog.CreateRoom(c.Request().Context(), req.Name, req.Row, req.Column)
	if err != nil {
		return respondError(c, err)
	}
	h.purge(c, RouteRooms)
	return c.JSON(http.StatusCreated, toRoomResponse(room))
}

type updateRoomRequest struct {
	Name   *string `json:"name" validate:"omitempty,notblank,max=255"`
	Row    *int    `json:"row" validate:"omitempty,min=1,max=100"`
	Column *int    `json:"column" validate:"omitempty,min=1,max=100"`
}

// UpdateRoom handles PATCH /v1/admin/rooms/:id.  A new row or column
// count regenerates the seating grid; a name alone only renames.
func (h *AdminHandler) UpdateRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	var req updateRoomRequest
	if err := bindValid(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	if req.Name == nil && req.Row == nil && req.Column == nil {
		return badRequest(c, "nothing to update")
	}
	ctx := c.Request().Context()

	if req.Name != nil {
		if err := h.Catalog.RenameRoom(ctx, id, *req.Name); err != nil {
			return respondError(c, err)
		}
	}
	if req.Row != nil || req.Column != nil {
		room, _, err := h.Catalog.GetRoom(ctx, id)
		if err != nil {
			return respondError(c, err)
		}
		rows, cols := room.Row, room.Column
		if req.Row != nil {
			rows = *req.Row
		}
		if req.Column != nil {
			cols = *req.Column
		}
		if _, err := h.Catalog.ResizeRoom(ctx, id, rows, cols); err != nil && !errors.Is(err, service.ErrNoChange) {
			return respondError(c, err)
		}
	}
	h.purge(c, RouteRooms)

	room, _, err := h.Catalog.GetRoom(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(room))
}

type createMovieRequest struct {
	Name       string  `json:"name" validate:"notblank,max=255"`
	Duration   float64 `json:"move_time_length" validate:"gt=0"`
	MovieCover string  `json:"movie_cover" validate:"max=512"`
}

// CreateMovie handles POST /v1/admin/movies.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req createMovieRequest
	if err := bindValid(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	m, err := h.Catalog.CreateMovie(c.Request().Context(), req.Name, req.Duration, req.MovieCover)
	if err != nil {
		return respondError(c, err)
	}
	h.purge(c, RouteMovies)
	return c.JSON(http.StatusCreated, MovieItem{ID: m.ID, Name: m.Name, Duration: m.Duration, MovieCover: mediaLink(h.MediaURL, m.Cover)})
}

// ListMovies handles GET /v1/admin/movies.
func (h *AdminHandler) ListMovies(c echo.Context) error {
	movies, err := h.Catalog.ListMovies(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]MovieItem, 0, len(movies))
	for _, m := range movies {
		out = append(out, MovieItem{ID: m.ID, Name: m.Name, Duration: m.Duration, MovieCover: mediaLink(h.MediaURL, m.Cover)})
	}
	return c.JSON(http.StatusOK, out)
}

type showtimeResponse struct {
	ID   uint64 `json:"id"`
	Time string `json:"time"`
}

type createShowtimeRequest struct {
	Time string `json:"time" validate:"required,timeofday"`
}

// CreateShowtime handles POST /v1/admin/showtimes.
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
	var req createShowtimeRequest
	if err := bindValid(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	st, err := h.Catalog.CreateShowtime(c.Request().Context(), req.Time)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, showtimeResponse{ID: st.ID, Time: st.Time})
}

// ListShowtimes handles GET /v1/admin/showtimes.
func (h *AdminHandler) ListShowtimes(c echo.Context) error {
	list, err := h.Catalog.ListShowtimes(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]showtimeResponse, 0, len(list))
	for _, st := range list {
		out = append(out, showtimeResponse{ID: st.ID, Time: st.Time})
	}
	return c.JSON(http.StatusOK, out)
}

type sessionResponse struct {
	ID           uint64 `json:"id"`
	CinemaRoomID uint64 `json:"cinema_room_id"`
	MovieID      uint64 `json:"move_id"`
	ShowtimeID   uint64 `json:"move_time_id"`
}

func toSessionResponse(s *model.Session) sessionResponse {
	return sessionResponse{ID: s.ID, CinemaRoomID: s.CinemaRoomID, MovieID: s.MovieID, ShowtimeID: s.ShowtimeID}
}

type createSessionRequest struct {
	CinemaRoomID uint64 `json:"cinema_room_id" validate:"required"`
	MovieID      uint64 `json:"move_id" validate:"required"`
	ShowtimeID   uint64 `json:"move_time_id" validate:"required"`
}

// CreateSession handles POST /v1/admin/sessions.
func (h *AdminHandler) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := bindValid(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	sess, err := h.Catalog.CreateSession(c.Request().Context(), req.CinemaRoomID, req.MovieID, req.ShowtimeID)
	if err != nil {
		return respondError(c, err)
	}
	h.purge(c, RouteRoomMovies)
	return c.JSON(http.StatusCreated, toSessionResponse(sess))
}

// ListRoomSessions handles GET /v1/admin/rooms/:id/sessions.
func (h *AdminHandler) ListRoomSessions(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	list, err := h.Catalog.ListSessionsByRoom(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]sessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSessionResponse(s))
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteSession handles DELETE /v1/admin/sessions/:id.  Occupied seats of
// the session are removed with it.
func (h *AdminHandler) DeleteSession(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid session id")
	}
	if err := h.Catalog.DeleteSession(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	h.purge(c, RouteRoomMovies)
	return c.NoContent(http.StatusNoContent)
}
