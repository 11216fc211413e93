package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-room-reservation/internal/middleware"
)

// ReservationHandler reserves seats and verifies reservation tickets.
type ReservationHandler struct {
	Reserver Reserver
}

// reserveRequest accepts the seat either as query parameters or as a JSON
// body.  Query parameters win when both are present.
type reserveRequest struct {
	SessionID uint64 `json:"session_id" query:"session_id"`
	Row       int    `json:"row" query:"row"`
	Column    int    `json:"column" query:"column"`
}

// Reserve handles POST /v1/cinema_rooms/:id/reserve.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	roomID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}

	var req reserveRequest
	binder := &echo.DefaultBinder{}
	if err := binder.BindBody(c, &req); err != nil {
		return badRequest(c, msgInvalidSeat)
	}
	if err := binder.BindQueryParams(c, &req); err != nil {
		return badRequest(c, msgInvalidSeat)
	}
	if req.SessionID == 0 {
		return badRequest(c, "session_id is required")
	}

	res, err := h.Reserver.ReserveSeatInRoom(c.Request().Context(), roomID, req.SessionID, req.Row, req.Column)
	if err != nil {
		return respondError(c, err)
	}

	out := echo.Map{
		"message": "Reservation created successfully",
		"reservation": echo.Map{
			"row":    res.Seat.Row,
			"column": res.Seat.Column,
		},
		"session_id": res.Session.ID,
	}
	if res.Ticket != nil {
		out["ticket"] = res.Ticket.Token
		out["ticket_expires_at"] = res.Ticket.Exp.Format(time.RFC3339)
	}
	return c.JSON(http.StatusOK, out)
}

// MyTicket handles GET /v1/tickets/me.  TicketAuth has already verified
// the signature; this confirms the seat is still reserved.
func (h *ReservationHandler) MyTicket(c echo.Context) error {
	claims := middleware.TicketFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer ticket"})
	}
	status, err := h.Reserver.VerifyTicket(c.Request().Context(), claims)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"ticket_id":  claims.ID,
		"session_id": status.Session.ID,
		"room_id":    status.Session.CinemaRoomID,
		"film_id":    status.Session.MovieID,
		"time_id":    status.Session.ShowtimeID,
		"reservation": echo.Map{
			"row":    status.Seat.Row,
			"column": status.Seat.Column,
		},
		"reserved_at": status.Seat.CreatedAt.UTC().Format(time.RFC3339),
	})
}
