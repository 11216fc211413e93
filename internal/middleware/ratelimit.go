package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-room-reservation/internal/config"
)

// maxPeekBytes bounds how much of a JSON reservation body is read to find
// its session_id.  Larger bodies are limited per room.
const maxPeekBytes = 4 << 10

// reserveBucketScript is a token bucket with continuous refill.  Tokens may
// be fractional; rate is in tokens per millisecond.  Returns
// {allowed, whole_tokens_left, wait_ms}.
var reserveBucketScript = redis.NewScript(`
local key      = KEYS[1]
local now      = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local rate     = tonumber(ARGV[3])
local ttl_ms   = tonumber(ARGV[4])

local tokens = tonumber(redis.call('HGET', key, 'tokens') or capacity)
local ts     = tonumber(redis.call('HGET', key, 'ts') or now)
if now > ts then
    tokens = math.min(capacity, tokens + (now - ts) * rate)
end

local allowed, wait = 0, 0
if tokens >= 1 then
    allowed = 1
    tokens = tokens - 1
elseif rate > 0 then
    wait = math.ceil((1 - tokens) / rate)
end

redis.call('HSET', key, 'tokens', tostring(tokens), 'ts', now)
redis.call('PEXPIRE', key, ttl_ms)
return { allowed, math.floor(tokens), wait }
`)

// ReservationRateLimit throttles seat reservation attempts with a Redis
// token bucket per client and session, so one client hammering a
// sold-out session does not use up its budget for other screenings.
// KeyStrategy widens the scope to the room or to the client alone.
// Redis errors fail open; without Redis the middleware passes requests
// through.
func ReservationRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	rate := float64(cfg.RefillTokens) / float64(cfg.RefillInterval.Milliseconds())
	if cfg.RefillInterval.Milliseconds() <= 0 {
		rate = float64(cfg.RefillTokens) / 1000
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := reservationKey(cfg, c)
			vals, err := reserveBucketScript.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(), cfg.Capacity, rate, cfg.TTL.Milliseconds()).Int64Slice()
			if err != nil || len(vals) != 3 {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] key=%s: %v %v", key, vals, err)
				}
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))
			if cfg.Debug {
				c.Response().Header().Set("X-RateLimit-Key", key)
			}
			if vals[0] == 1 {
				return next(c)
			}

			secs := int(math.Ceil(float64(vals[2]) / 1000))
			c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "Too many reservation attempts, try again later",
				"retry_after": secs,
			})
		}
	}
}

// reservationKey derives the bucket key from the client address and the
// room or session being reserved.  A request without a readable session
// id falls back to the room scope.
func reservationKey(cfg config.RateLimitConfig, c echo.Context) string {
	client := c.RealIP()
	if client == "" {
		client = "unknown"
	}
	room := c.Param("id")
	if _, err := strconv.ParseUint(room, 10, 64); err != nil {
		room = "none"
	}

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "client":
	case "room":
		parts = append(parts, "room", room)
	default: // "session"
		if sid := sessionIDOf(c); sid != "" {
			parts = append(parts, "session", sid)
		} else {
			parts = append(parts, "room", room)
		}
	}
	return strings.Join(append(parts, "client", client), ":")
}

// sessionIDOf reads session_id from the query string or, failing that,
// from a small JSON body, which is put back for the handler.
func sessionIDOf(c echo.Context) string {
	raw := c.QueryParam("session_id")
	if raw == "" {
		req := c.Request()
		if req.Body == nil || req.ContentLength == 0 {
			return ""
		}
		body, err := io.ReadAll(io.LimitReader(req.Body, maxPeekBytes+1))
		req.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), req.Body))
		if err != nil || len(body) > maxPeekBytes {
			return ""
		}
		var peek struct {
			SessionID json.Number `json:"session_id"`
		}
		if json.Unmarshal(body, &peek) != nil {
			return ""
		}
		raw = peek.SessionID.String()
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return ""
	}
	return strconv.FormatUint(id, 10)
}
