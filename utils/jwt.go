package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// SessionClaims are the claims carried by an admin session token.
type SessionClaims struct {
	jwt.StandardClaims
}

// GenerateToken creates a signed JWT for subject (the admin email) bound to sessionID.
// The token expires after the specified duration.
func GenerateToken(secret []byte, subject, sessionID string, issuedAt time.Time, duration time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("token secret is empty")
	}
	claims := SessionClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			Id:        sessionID,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(duration).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses a token string, checking signature and expiry, and returns its claims.
func ValidateToken(secret []byte, tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" || claims.Id == "" {
		return nil, errors.New("token does not carry a session")
	}
	return claims, nil
}
