package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/cinema-room-reservation/internal/utils"
)

// TicketContextKey is the echo.Context key holding *utils.TicketClaims.
const TicketContextKey = "ticket"

// TicketParser verifies a raw ticket string.
type TicketParser interface {
	Parse(raw string) (*utils.TicketClaims, error)
}

// TicketAuth returns an Echo middleware that validates a Bearer reservation
// ticket and stores its claims in the request context under
// TicketContextKey.  Handlers read them with TicketFrom.
func TicketAuth(p TicketParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the ticket.
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer ticket"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			claims, err := p.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid ticket"})
			}
			c.Set(TicketContextKey, claims)
			return next(c)
		}
	}
}

// TicketFrom returns the claims stored by TicketAuth, or nil.
func TicketFrom(c echo.Context) *utils.TicketClaims {
	claims, _ := c.Get(TicketContextKey).(*utils.TicketClaims)
	return claims
}
