package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-room-reservation/internal/config"
	"github.com/iliyamo/cinema-room-reservation/internal/utils"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "test:cache",
		MaxBodyBytes: 1 << 20,
	}
}

func serve(e *echo.Echo, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRedisCacheHitAndPurge(t *testing.T) {
	rdb := newRedis(t)
	cfg := cacheConfig()
	calls := 0
	e := echo.New()
	e.GET("/v1/cinema_rooms", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"items": []string{"Red"}, "n": calls})
	}, NewRedisCache(cfg, rdb))

	first := serve(e, http.MethodGet, "/v1/cinema_rooms", nil)
	second := serve(e, http.MethodGet, "/v1/cinema_rooms", nil)

	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	require.NoError(t, PurgeRoutes(context.Background(), cfg, rdb, "/v1/cinema_rooms"))
	third := serve(e, http.MethodGet, "/v1/cinema_rooms", nil)
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestRedisCacheSkipsErrors(t *testing.T) {
	rdb := newRedis(t)
	calls := 0
	e := echo.New()
	e.GET("/v1/movies", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}, NewRedisCache(cacheConfig(), rdb))

	serve(e, http.MethodGet, "/v1/movies", nil)
	rec := serve(e, http.MethodGet, "/v1/movies", nil)

	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestRedisCacheSkipsOversizedBodies(t *testing.T) {
	rdb := newRedis(t)
	cfg := cacheConfig()
	cfg.MaxBodyBytes = 8
	calls := 0
	e := echo.New()
	e.GET("/big", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, strings.Repeat("x", 64))
	}, NewRedisCache(cfg, rdb))

	serve(e, http.MethodGet, "/big", nil)
	rec := serve(e, http.MethodGet, "/big", nil)

	assert.Equal(t, 64, rec.Body.Len())
	assert.Equal(t, 2, calls)
}

func TestRedisCacheDisabledWithoutClient(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") }, NewRedisCache(cacheConfig(), nil))

	rec := serve(e, http.MethodGet, "/x", nil)

	assert.Equal(t, "ok", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, PurgeRoutes(context.Background(), cacheConfig(), nil, "/x"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}

	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)
	status, gotHdr, body, ok := decodePayload(bs)

	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestRouteSegment(t *testing.T) {
	assert.Equal(t, "_v1_cinema_rooms_id_films_film_id", routeSegment("/v1/cinema_rooms/:id/films/:film_id"))
}

func limitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "session",
		Prefix:         "test:rl",
	}
}

func limitedServer(cfg config.RateLimitConfig, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.POST("/v1/cinema_rooms/:id/reserve", func(c echo.Context) error {
		body, _ := io.ReadAll(c.Request().Body)
		return c.String(http.StatusOK, string(body))
	}, ReservationRateLimit(cfg, rdb))
	return e
}

func reserve(e *echo.Echo, target, ip, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, target, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestReservationRateLimitPerSession(t *testing.T) {
	e := limitedServer(limitConfig(), newRedis(t))

	assert.Equal(t, http.StatusOK, reserve(e, "/v1/cinema_rooms/1/reserve?session_id=5&row=1&column=1", "10.0.0.1", "").Code)
	second := reserve(e, "/v1/cinema_rooms/1/reserve?session_id=5&row=1&column=2", "10.0.0.1", "")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	blocked := reserve(e, "/v1/cinema_rooms/1/reserve?session_id=5&row=1&column=3", "10.0.0.1", "")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "3600", blocked.Header().Get("Retry-After"))

	// same client, another session of the room
	assert.Equal(t, http.StatusOK, reserve(e, "/v1/cinema_rooms/1/reserve?session_id=6&row=1&column=1", "10.0.0.1", "").Code)
	// another client, same session
	assert.Equal(t, http.StatusOK, reserve(e, "/v1/cinema_rooms/1/reserve?session_id=5&row=2&column=1", "10.0.0.2", "").Code)
}

func TestReservationRateLimitReadsSessionFromBody(t *testing.T) {
	e := limitedServer(limitConfig(), newRedis(t))
	body := `{"session_id":9,"row":1,"column":1}`

	first := reserve(e, "/v1/cinema_rooms/1/reserve", "10.0.0.1", body)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, body, first.Body.String(), "handler must still see the whole body")

	assert.Equal(t, http.StatusOK, reserve(e, "/v1/cinema_rooms/1/reserve", "10.0.0.1", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, reserve(e, "/v1/cinema_rooms/1/reserve", "10.0.0.1", body).Code)
	assert.Equal(t, http.StatusOK, reserve(e, "/v1/cinema_rooms/1/reserve?session_id=10", "10.0.0.1", "").Code)
}

func TestReservationRateLimitRefills(t *testing.T) {
	cfg := limitConfig()
	cfg.Capacity = 1
	cfg.RefillInterval = 50 * time.Millisecond
	e := limitedServer(cfg, newRedis(t))

	assert.Equal(t, http.StatusOK, reserve(e, "/v1/cinema_rooms/1/reserve?session_id=1", "10.0.0.1", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, reserve(e, "/v1/cinema_rooms/1/reserve?session_id=1", "10.0.0.1", "").Code)
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, http.StatusOK, reserve(e, "/v1/cinema_rooms/1/reserve?session_id=1", "10.0.0.1", "").Code)
}

func TestReservationRateLimitFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	e := limitedServer(limitConfig(), rdb)

	assert.Equal(t, http.StatusOK, reserve(e, "/v1/cinema_rooms/1/reserve?session_id=1", "10.0.0.1", "").Code)
}

func TestReservationKey(t *testing.T) {
	e := echo.New()
	keyFor := func(strategy, target, body string) string {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(http.MethodPost, target, nil)
		} else {
			req = httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		}
		req.Header.Set(echo.HeaderXRealIP, "1.2.3.4")
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/cinema_rooms/:id/reserve")
		c.SetParamNames("id")
		c.SetParamValues("7")
		return reservationKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c)
	}

	assert.Equal(t, "rl:session:3:client:1.2.3.4", keyFor("session", "/v1/cinema_rooms/7/reserve?session_id=3", ""))
	assert.Equal(t, "rl:session:4:client:1.2.3.4", keyFor("", "/v1/cinema_rooms/7/reserve", `{"session_id":4}`))
	assert.Equal(t, "rl:room:7:client:1.2.3.4", keyFor("session", "/v1/cinema_rooms/7/reserve?session_id=x:y", ""))
	assert.Equal(t, "rl:room:7:client:1.2.3.4", keyFor("room", "/v1/cinema_rooms/7/reserve?session_id=3", ""))
	assert.Equal(t, "rl:client:1.2.3.4", keyFor("client", "/v1/cinema_rooms/7/reserve?session_id=3", ""))
}

func TestTicketAuth(t *testing.T) {
	signer := utils.NewTicketSigner("secret", time.Hour)
	tk, err := signer.Issue(3, 1, 2)
	require.NoError(t, err)

	e := echo.New()
	e.GET("/v1/tickets/me", func(c echo.Context) error {
		claims := TicketFrom(c)
		return c.JSON(http.StatusOK, echo.Map{"session_id": claims.SessionID})
	}, TicketAuth(signer))

	ok := serve(e, http.MethodGet, "/v1/tickets/me", http.Header{"Authorization": {"Bearer " + tk.Token}})
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.JSONEq(t, `{"session_id":3}`, ok.Body.String())

	missing := serve(e, http.MethodGet, "/v1/tickets/me", nil)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)

	bad := serve(e, http.MethodGet, "/v1/tickets/me", http.Header{"Authorization": {"Bearer nope"}})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
	assert.Contains(t, bad.Body.String(), "invalid ticket")
}
