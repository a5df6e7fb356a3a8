package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sansa-learn/fee-ledger/internal/domain/student"
)

var (
	// ErrTokenInvalid is returned for malformed or tampered share tokens.
	ErrTokenInvalid = errors.New("share token is invalid")

	// ErrTokenExpired is returned for expired share tokens.
	ErrTokenExpired = errors.New("share token has expired")
)

// ShareTokenSigner issues and verifies public demand bill links. A token
// binds one admission number to an expiry time under HMAC-SHA256, so a
// shared link can fetch exactly one student's demand bill and nothing else.
type ShareTokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewShareTokenSigner creates a signer. An empty secret disables signing:
// Sign fails and every token verifies as invalid.
func NewShareTokenSigner(secret string, ttl time.Duration) *ShareTokenSigner {
	return &ShareTokenSigner{secret: []byte(secret), ttl: ttl}
}

// Sign issues a token for the given admission number, valid for the
// configured TTL from now.
func (s *ShareTokenSigner) Sign(no student.AdmissionNumber, now time.Time) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("share tokens are disabled: no secret configured")
	}

	expiry := now.Add(s.ttl).Unix()
	payload := fmt.Sprintf("%s:%d", no, expiry)
	sig := s.sign(payload)

	token := base64.RawURLEncoding.EncodeToString([]byte(payload + ":" + sig))
	return token, nil
}

// Verify checks the token's signature and expiry and returns the admission
// number it was issued for.
func (s *ShareTokenSigner) Verify(token string, now time.Time) (student.AdmissionNumber, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrTokenInvalid
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return "", ErrTokenInvalid
	}
	no, expiryStr, sig := parts[0], parts[1], parts[2]

	expected := s.sign(no + ":" + expiryStr)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrTokenInvalid
	}

	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil {
		return "", ErrTokenInvalid
	}
	if now.Unix() > expiry {
		return "", ErrTokenExpired
	}

	return student.AdmissionNumber(no), nil
}

func (s *ShareTokenSigner) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
