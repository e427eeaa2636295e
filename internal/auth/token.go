package auth // package auth holds the credential and token primitives

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// TokenKind selects the lifetime applied when issuing a token. Access
// tokens live minutes and gate every protected request; refresh
// tokens live days and are minted alongside them as a pair.
type TokenKind int

const (
	TokenAccess TokenKind = iota
	TokenRefresh
)

// Claims is the claim set carried by every token this service signs.
// The subject is the user id; the custom email claim is what the
// access gate uses to look the identity back up on validation.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// TokenCodec signs and verifies HS256 tokens with one process-wide
// secret. It is constructed once at startup from config and is the
// only code that touches the secret or the wire format. Issue is a
// pure function of its inputs so tests can pin the clock.
type TokenCodec struct {
	secret       []byte
	accessTTL    time.Duration
	refreshTTL   time.Duration
	notBeforeGap time.Duration
	renewWithin  time.Duration
}

// NewTokenCodec builds a codec from configuration values. TTLs use
// the units they are configured in: minutes for access tokens, days
// for refresh tokens and the renewal threshold, minutes for the
// not-before clock-skew gap.
func NewTokenCodec(secret string, accessTTLMin, refreshTTLDays, notBeforeGapMin, renewWithinDays int) *TokenCodec {
	return &TokenCodec{
		secret:       []byte(secret),
		accessTTL:    time.Duration(accessTTLMin) * time.Minute,
		refreshTTL:   time.Duration(refreshTTLDays) * 24 * time.Hour,
		notBeforeGap: time.Duration(notBeforeGapMin) * time.Minute,
		renewWithin:  time.Duration(renewWithinDays) * 24 * time.Hour,
	}
}

// Issue builds the claim set for a token of the given kind without
// serializing it. exp is when plus the kind's TTL, nbf is when minus
// the skew gap, and the audience is always empty.
func (c *TokenCodec) Issue(kind TokenKind, userID uint64, email string, when time.Time) Claims {
	ttl := c.accessTTL
	if kind == TokenRefresh {
		ttl = c.refreshTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ExpiresAt: jwt.NewNumericDate(when.Add(ttl)),
			NotBefore: jwt.NewNumericDate(when.Add(-c.notBeforeGap)),
			IssuedAt:  jwt.NewNumericDate(when),
			Audience:  jwt.ClaimStrings{},
		},
		Email: email,
	}
}

// Encode serializes and signs the full claim set.
func (c *TokenCodec) Encode(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// EncodeRefresh serializes a refresh claim set. The email claim is
// dropped before signing: refresh tokens carry only the registered
// claims.
func (c *TokenCodec) EncodeRefresh(claims Claims) (string, error) {
	claims.Email = ""
	return c.Encode(claims)
}

// Decode verifies the signature and algorithm of a token string and
// returns its email and expiry claims. It performs no clock checks:
// comparing the expiry against the current time is the caller's job,
// which keeps expired-token handling in one place (the validation
// path). Any verification or parse failure is returned as-is and
// callers must treat it as "no valid identity".
func (c *TokenCodec) Decode(token string) (email string, expiresAt time.Time, err error) {
	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", time.Time{}, err
	}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return claims.Email, expiresAt, nil
}

// ExpiresSoon reports whether a token's remaining lifetime has fallen
// below the renewal threshold. Kept for a future refresh flow; no
// endpoint consumes it yet.
func (c *TokenCodec) ExpiresSoon(expiresAt, now time.Time) bool {
	return expiresAt.Sub(now) < c.renewWithin
}
