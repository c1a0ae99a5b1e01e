package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const checkoutIssuer = "storefront-api"

var ErrInvalidCheckoutToken = errors.New("invalid checkout token")

// CheckoutClaims is carried in the redirect of the mock payment provider so the
// storefront can trust the session id, amount and currency it renders.
type CheckoutClaims struct {
	SessionID string `json:"sid"`
	Amount    string `json:"amt"`
	Currency  string `json:"cur"`
	jwt.RegisteredClaims
}

type CheckoutSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewCheckoutSigner(key string, ttl time.Duration) *CheckoutSigner {
	return &CheckoutSigner{key: []byte(key), ttl: ttl, now: time.Now}
}

func (s *CheckoutSigner) Enabled() bool {
	return s != nil && len(s.key) > 0
}

func (s *CheckoutSigner) Sign(sessionID, amount, currency string) (string, error) {
	if !s.Enabled() {
		return "", errors.New("checkout signing key not configured")
	}

	now := s.now()
	claims := CheckoutClaims{
		SessionID: sessionID,
		Amount:    amount,
		Currency:  currency,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    checkoutIssuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign checkout token: %w", err)
	}
	return signed, nil
}

func (s *CheckoutSigner) Parse(token string) (*CheckoutClaims, error) {
	if !s.Enabled() {
		return nil, ErrInvalidCheckoutToken
	}

	claims := &CheckoutClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(checkoutIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCheckoutToken, err)
	}
	return claims, nil
}
