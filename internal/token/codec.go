// Package token generates invite short codes and mints the signed tokens
// candidates present on every request. A token is only ever a pointer to
// server-side session state: middleware verifies the signature, then the
// embedded jti is re-checked against the sessions table.
package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/candorhq/candor/internal/clock"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ShortCodeLength   = 12
	shortCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	Issuer   = "candor"
	Audience = "candor.candidate"
)

var (
	ErrMissingSecret = errors.New("candidate jwt secret is required")
	ErrInvalidToken  = errors.New("invalid candidate token")
)

// Claims is the candidate session claim set.
type Claims struct {
	jwt.RegisteredClaims
	InterviewID    string `json:"interview_id"`
	InviteID       string `json:"invite_id"`
	OrganizationID string `json:"organization_id"`
}

// MintRequest carries everything embedded in a candidate token.
type MintRequest struct {
	InviteID       snowflake.ID
	InterviewID    snowflake.ID
	OrganizationID snowflake.ID
	JTI            string
	ExpiresAt      time.Time
}

type Codec struct {
	secret []byte
	clock  clock.Clock
}

func NewCodec(secret string, clk clock.Clock) (*Codec, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if clk == nil {
		clk = clock.System()
	}
	return &Codec{secret: []byte(secret), clock: clk}, nil
}

// NewShortCode returns a 12-character code drawn uniformly from [A-Za-z0-9].
func (c *Codec) NewShortCode() (string, error) {
	return randomShortCode()
}

func randomShortCode() (string, error) {
	// Rejection sampling keeps the draw uniform over the 62-character
	// alphabet; 62*4=248 is the largest multiple of 62 below 256.
	const max = byte(248)
	code := make([]byte, 0, ShortCodeLength)
	buf := make([]byte, ShortCodeLength*2)
	for len(code) < ShortCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= max {
				continue
			}
			code = append(code, shortCodeAlphabet[int(b)%len(shortCodeAlphabet)])
			if len(code) == ShortCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// Mint signs a candidate session token with the process-wide secret.
func (c *Codec) Mint(req MintRequest) (string, error) {
	if strings.TrimSpace(req.JTI) == "" {
		return "", fmt.Errorf("mint candidate token: jti is required")
	}
	now := c.clock.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			Subject:   fmt.Sprintf("candidate:%s", req.InviteID),
			ID:        req.JTI,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(req.ExpiresAt),
		},
		InterviewID:    req.InterviewID.String(),
		InviteID:       req.InviteID.String(),
		OrganizationID: req.OrganizationID.String(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the signature, issuer, audience and expiry of a candidate
// token and returns its claims. Expiry is evaluated against the codec's
// clock so tests can move time.
func (c *Codec) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.ID) == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
