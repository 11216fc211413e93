package utils // package utils provides helpers for signing reservation tickets

import (
	"errors" // errors for sentinel definitions
	"fmt"    // fmt builds the ticket subject
	"time"   // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"       // uuid provides the ticket id (jti)
)

// ErrInvalidTicket is returned when a ticket cannot be parsed, has a bad
// signature or has expired.
var ErrInvalidTicket = errors.New("invalid ticket")

// TicketClaims is the payload of a reservation ticket.  A ticket proves
// that a given seat of a session was reserved; it is a receipt, not a
// login credential.
type TicketClaims struct {
	SessionID uint64 `json:"session_id"` // reserved session
	Row       int    `json:"row"`        // 1-based seat row
	Column    int    `json:"column"`     // 1-based seat column
	jwt.RegisteredClaims
}

// Ticket represents a signed ticket along with its id and expiry.
type Ticket struct {
	ID    string    // jti claim, unique per ticket
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TicketSigner issues and verifies HS256 tickets with a shared secret.
type TicketSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewTicketSigner builds a TicketSigner.  A non-positive ttl defaults to
// 24 hours.
func NewTicketSigner(secret string, ttl time.Duration) *TicketSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TicketSigner{secret: []byte(secret), ttl: ttl}
}

// Issue signs a ticket for one reserved seat.
func (s *TicketSigner) Issue(sessionID uint64, row, column int) (Ticket, error) {
	return NewTicketToken(s.secret, sessionID, row, column, s.ttl)
}

// Parse verifies a raw ticket and returns its claims.
func (s *TicketSigner) Parse(raw string) (*TicketClaims, error) {
	return ParseTicketToken(s.secret, raw)
}

// NewTicketToken builds and signs an HS256 JWT for a reserved seat.  The
// JWT carries the seat position plus the standard claims: subject (sub),
// id (jti), expiration (exp) and issued at (iat).
func NewTicketToken(secret []byte, sessionID uint64, row, column int, ttl time.Duration) (Ticket, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := TicketClaims{
		SessionID: sessionID,
		Row:       row,
		Column:    column,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("session:%d:seat:%d:%d", sessionID, row, column),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	if err != nil {
		return Ticket{}, err
	}
	return Ticket{ID: claims.ID, Token: signed, Exp: exp}, nil
}

// ParseTicketToken verifies the signature and expiry of a ticket.  Tokens
// signed with anything other than HMAC are rejected.
func ParseTicketToken(secret []byte, raw string) (*TicketClaims, error) {
	claims := new(TicketClaims)
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}
	if claims.SessionID == 0 || claims.Row < 1 || claims.Column < 1 {
		return nil, fmt.Errorf("%w: incomplete claims", ErrInvalidTicket)
	}
	return claims, nil
}
