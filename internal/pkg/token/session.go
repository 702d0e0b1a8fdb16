// internal/pkg/token/session.go
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lapis-malang/storefront/internal/config"
)

const tokenType = "session"

// Claims represents the session cookie claims
type Claims struct {
	SessionID string `json:"sid"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// SessionManager signs and verifies session cookies so clients cannot pick
// another shopper's session id
type SessionManager struct {
	config *config.Config
	now    func() time.Time
}

// NewSessionManager creates a new session token manager
func NewSessionManager(cfg *config.Config) *SessionManager {
	return &SessionManager{
		config: cfg,
		now:    time.Now,
	}
}

// Generate signs a token carrying sessionID
func (m *SessionManager) Generate(sessionID string) (string, error) {
	now := m.now().UTC()

	claims := &Claims{
		SessionID: sessionID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.Session.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.config.App.Name,
			Subject:   "session:" + sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.Session.TokenSecret))
}

// Validate verifies tokenString and returns the session id it carries
func (m *SessionManager) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.config.Session.TokenSecret), nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	if claims.TokenType != tokenType {
		return "", fmt.Errorf("invalid token type: expected %s, got %s", tokenType, claims.TokenType)
	}
	if claims.SessionID == "" {
		return "", fmt.Errorf("session id not specified")
	}

	return claims.SessionID, nil
}
