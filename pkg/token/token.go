package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers tampering, wrong secret, wrong signing method and
// expiry. Callers map it to a 401.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the user identity inside both token kinds.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// Issuer mints and verifies the access/refresh token pair. The two kinds are
// signed with distinct secrets so one can never pass for the other.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewIssuer validates the secrets once at construction; a misconfigured
// secret aborts startup instead of failing on every request.
func NewIssuer(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) (*Issuer, error) {
	if accessSecret == "" {
		return nil, errors.New("token: access secret is empty")
	}
	if refreshSecret == "" {
		return nil, errors.New("token: refresh secret is empty")
	}
	if accessExpiry <= 0 || refreshExpiry <= 0 {
		return nil, errors.New("token: expiry durations must be positive")
	}
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}, nil
}

func (i *Issuer) IssueAccess(userID string) (string, error) {
	return sign(userID, i.accessSecret, i.accessExpiry)
}

func (i *Issuer) IssueRefresh(userID string) (string, error) {
	return sign(userID, i.refreshSecret, i.refreshExpiry)
}

// DecodeAccess verifies an access token and returns the user ID it carries.
func (i *Issuer) DecodeAccess(tokenString string) (string, error) {
	return decode(tokenString, i.accessSecret)
}

// DecodeRefresh verifies a refresh token and returns the user ID it carries.
func (i *Issuer) DecodeRefresh(tokenString string) (string, error) {
	return decode(tokenString, i.refreshSecret)
}

func sign(userID string, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique ID so two tokens minted in the same second still differ;
			// rotation relies on the new token not equaling the old one.
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		UserID: userID,
	})
	return token.SignedString(secret)
}

func decode(tokenString string, secret []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
