package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/shoe-inventory/internal/model"
)

// Claims represents identity token claims.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
}

var _ model.TokenManager = (*JWT)(nil)

const (
	defaultTTL   = 24 * time.Hour
	typeIdentity = "identity"
	issuer       = "shoe-inventory"
)

// NewJWT creates a new JWT token manager with the provided secret key.
// A non-positive ttl falls back to one day.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &JWT{secretKey: secretKey, ttl: ttl}
}

// GenerateToken creates an identity token for the subject.
func (j *JWT) GenerateToken(subjectID string) (string, error) {
	if subjectID == "" {
		return "", fmt.Errorf("subject id is empty")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		TokenType: typeIdentity,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign identity token: %w", err)
	}

	return tokenString, nil
}

// ParseToken validates an identity token and returns its subject.
func (j *JWT) ParseToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("failed to parse identity token: %w", model.ErrTokenExpired)
		}
		return "", fmt.Errorf("failed to parse identity token: %w: %v", model.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return "", model.ErrTokenInvalid
	}
	if claims.TokenType != typeIdentity {
		return "", fmt.Errorf("%w: %s", model.ErrTokenMismatch, claims.TokenType)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", model.ErrTokenInvalid)
	}
	return claims.Subject, nil
}
