// Package ticket issues and verifies signed entry tickets rendered as QR codes.
package ticket

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
)

var (
	ErrMalformed = errors.New("malformed ticket")
	ErrSignature = errors.New("invalid ticket signature")
	ErrExpired   = errors.New("ticket expired")
)

// Claims is the content of a verified ticket.
type Claims struct {
	EventID   string
	SessionID string
	ExpiresAt time.Time
}

// Signer creates and validates HMAC-signed ticket tokens of the form
// event.session.expiry.signature.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner constructs a signer with the provided secret and TTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token binding the event to the session.
func (s *Signer) Issue(eventID, sessionID string) (string, time.Time, error) {
	if eventID == "" || sessionID == "" {
		return "", time.Time{}, fmt.Errorf("event and session required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("ticket secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	parts := []string{
		base64.RawURLEncoding.EncodeToString([]byte(eventID)),
		base64.RawURLEncoding.EncodeToString([]byte(sessionID)),
		strconv.FormatInt(expiresAt.Unix(), 10),
	}
	parts = append(parts, s.sign(parts))
	return strings.Join(parts, "."), expiresAt, nil
}

// Parse validates the signature and expiry of token.
func (s *Signer) Parse(token string) (Claims, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 4 {
		return Claims{}, ErrMalformed
	}
	if !hmac.Equal([]byte(s.sign(parts[:3])), []byte(parts[3])) {
		return Claims{}, ErrSignature
	}

	eventID, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: event: %v", ErrMalformed, err)
	}
	sessionID, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: session: %v", ErrMalformed, err)
	}
	expUnix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: expiry: %v", ErrMalformed, err)
	}

	claims := Claims{EventID: string(eventID), SessionID: string(sessionID), ExpiresAt: time.Unix(expUnix, 0)}
	if s.now().After(claims.ExpiresAt) {
		return claims, ErrExpired
	}
	return claims, nil
}

// QR renders token as a PNG QR code of size pixels.
func QR(token string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(token, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

func (s *Signer) sign(parts []string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(mac.Sum(nil))
}
