package guest

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid guest token")

// guestClaims carries the guest's display name; the subject is the guest id.
// Fields must be exported for JSON serialization.
type guestClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secretKey []byte
	maxAge    time.Duration
}

func NewTokenManager(secretKey string, maxAge time.Duration) *TokenManager {
	return &TokenManager{
		secretKey: []byte(secretKey),
		maxAge:    maxAge,
	}
}

// Issue mints a signed token for a fresh guest identity and returns the
// token together with the new guest id.
func (m *TokenManager) Issue(name string) (token string, id string, err error) {
	id = uuid.NewString()
	claims := guestClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.maxAge)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", "", err
	}
	return signed, id, nil
}

// Verify checks signature and expiry and returns the guest id and name.
func (m *TokenManager) Verify(tokenString string) (id string, name string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &guestClaims{}, func(token *jwt.Token) (any, error) {
		// Validate the signing method is what we expect (HMAC)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	})
	if err != nil {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*guestClaims)
	if !ok || !token.Valid {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, claims.Name, nil
}
