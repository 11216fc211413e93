package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-room-reservation/internal/handler"
	"github.com/iliyamo/cinema-room-reservation/internal/middleware"
)

// RegisterReservations registers the seat reservation endpoint and ticket
// verification.  Reserving is guarded by the Redis token bucket; the
// ticket endpoint requires a signed reservation ticket as Bearer token.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, d Deps) {
	g := e.Group("/v1")
	g.POST("/cinema_rooms/:id/reserve", h.Reserve, middleware.ReservationRateLimit(d.RateLimit, d.Redis))
	if d.Tickets != nil {
		g.GET("/tickets/me", h.MyTicket, middleware.TicketAuth(d.Tickets))
	}
}
