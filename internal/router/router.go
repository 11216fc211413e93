package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-room-reservation/internal/config"
	"github.com/iliyamo/cinema-room-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/cinema-room-reservation/internal/metrics"    // Prometheus endpoint
	"github.com/iliyamo/cinema-room-reservation/internal/middleware" // cache, rate limit and ticket middleware
)

// Deps carries what the route groups need besides their handlers.  Redis
// may be nil, in which case caching and rate limiting pass through.
type Deps struct {
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Tickets   middleware.TicketParser
}

// RegisterRoutes registers operational endpoints that sit outside /v1:
// liveness, readiness, Prometheus metrics and the static media directory.
func RegisterRoutes(e *echo.Echo, ready echo.HandlerFunc, mediaDir string) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
	if ready != nil {
		e.GET("/readyz", ready)
	}
	e.GET("/metrics", metrics.Handler())
	if mediaDir != "" {
		// movie covers, referenced by the movie_cover field
		e.Static("/media", mediaDir)
	}
}

// RegisterPublic registers unauthenticated browse endpoints.  The room and
// movie listings are served through the Redis response cache; admin writes
// purge them.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, d Deps) {
	cache := middleware.NewRedisCache(d.Cache, d.Redis)

	g := e.Group("/v1")
	// List all cinema rooms
	g.GET("/cinema_rooms", b.ListRooms, cache)
	// Room detail with its seating template
	g.GET("/cinema_rooms/:id", b.GetRoom)
	// Movie catalogue
	g.GET("/movies", b.ListMovies, cache)
	// Movies that have at least one session in the room
	g.GET("/cinema_rooms/:id/movies", b.ListRoomMovies, cache)
	// Seat map of a session; never cached because occupancy changes on
	// every reservation
	g.GET("/cinema_rooms/:id/films/:film_id", b.GetSessionView)
}
