package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-room-reservation/internal/handler"
)

// RegisterAdmin registers room and catalogue administration under
// /v1/admin.  The service has no user accounts, so these routes are meant
// to be exposed on an internal network only.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler) {
	g := e.Group("/v1/admin")

	// ---- Rooms ----
	g.POST("/rooms", a.CreateRoom)
	g.PATCH("/rooms/:id", a.UpdateRoom) // rename and/or resize
	g.GET("/rooms/:id/sessions", a.ListRoomSessions)

	// ---- Movies ----
	g.POST("/movies", a.CreateMovie)
	g.GET("/movies", a.ListMovies)

	// ---- Showtimes ----
	g.POST("/showtimes", a.CreateShowtime)
	g.GET("/showtimes", a.ListShowtimes)

	// ---- Sessions ----
	g.POST("/sessions", a.CreateSession)
	g.DELETE("/sessions/:id", a.DeleteSession) // cascades to occupied seats
}
