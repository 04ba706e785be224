package token

import (
	"fmt"
	"time"

	apperrors "flightfinder/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity a verified bearer token resolves to.
type Claims struct {
	UserID string
	Role   string
}

// Issuer signs and verifies HS256 bearer tokens carrying {userId, role} with
// a fixed expiry.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token for the user and returns it with its expiry time.
func (i *Issuer) Issue(userID, role string) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"userId": userID,
		"role":   role,
		"iat":    now.Unix(),
		"exp":    exp.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm and expiry, and resolves the identity
// claims. Every failure mode maps to the same Unauthorized outcome.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	mapClaims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.Unauthorized("Invalid token claims")
	}

	userID, _ := mapClaims["userId"].(string)
	role, _ := mapClaims["role"].(string)
	if userID == "" || role == "" {
		return nil, apperrors.Unauthorized("Invalid token claims")
	}

	return &Claims{UserID: userID, Role: role}, nil
}
