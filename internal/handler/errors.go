package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-room-reservation/internal/repository"
	"github.com/iliyamo/cinema-room-reservation/internal/seating"
	"github.com/iliyamo/cinema-room-reservation/internal/service"
)

// Error texts returned to clients.
const (
	msgRoomNotFound     = "Cinema room not found"
	msgFilmNotFound     = "Film not found"
	msgSessionNotFound  = "Session not found"
	msgShowtimeNotFound = "Showtime not found"
	msgViewNotFound     = "Session not found for the given room and film"
	msgInvalidSeat      = "Invalid row or column for reservation"
	msgSeatOccupied     = "This seat is already occupied."
	msgInternal         = "internal server error"
)

// respondError maps domain errors to HTTP responses.  Anything unexpected
// is logged and reported as 500 without leaking details.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": msgRoomNotFound})
	case errors.Is(err, repository.ErrMovieNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": msgFilmNotFound})
	case errors.Is(err, repository.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": msgSessionNotFound})
	case errors.Is(err, repository.ErrShowtimeNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": msgShowtimeNotFound})
	case errors.Is(err, service.ErrInvalidSeat):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidSeat})
	case errors.Is(err, repository.ErrSeatAlreadyOccupied):
		return c.JSON(http.StatusConflict, echo.Map{"error": msgSeatOccupied})
	case errors.Is(err, repository.ErrRoomNameTaken),
		errors.Is(err, repository.ErrSessionExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrInvalidDimensions),
		errors.Is(err, service.ErrInvalidShowtime),
		errors.Is(err, service.ErrInvalidDuration):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrTicketRevoked):
		return c.JSON(http.StatusGone, echo.Map{"error": err.Error()})
	case errors.Is(err, seating.ErrMalformedGrid):
		c.Logger().Errorf("corrupt seating data: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgInternal})
	default:
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgInternal})
	}
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// mediaLink joins the media URL prefix and a relative cover path.
func mediaLink(prefix, cover string) string {
	if cover == "" || prefix == "" {
		return cover
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(cover, "/")
}
