package identity

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrNoSubject    = errors.New("token carries no subject")
)

// Claims represents the bearer-token claims this API cares about. The
// subject is the investigator identifier every session and bookmark is
// scoped to.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`

	jwt.RegisteredClaims
}

// Service validates HS256 bearer tokens
type Service struct {
	secret         []byte
	devAuthEnabled bool
	devAuthToken   string
}

// NewService creates a new identity service
func NewService(secret string) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret is required")
	}
	return &Service{secret: []byte(secret)}, nil
}

// SetDevAuth configures development authentication bypass
func (s *Service) SetDevAuth(enabled bool, token string) {
	s.devAuthEnabled = enabled
	s.devAuthToken = token
}

// ValidateToken validates a bearer token and returns its claims
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	if s.devAuthEnabled && s.devAuthToken != "" &&
		subtle.ConstantTimeCompare([]byte(tokenString), []byte(s.devAuthToken)) == 1 {
		return s.DevClaims(), nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrNoSubject
	}
	return claims, nil
}

// DevClaims returns fixed claims for development mode
func (s *Service) DevClaims() *Claims {
	return &Claims{
		Email: "dev@casetrail.local",
		Name:  "Development Investigator",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "dev-investigator-001",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(365 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

// UserInfo represents public investigator information
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// GetUserInfo extracts investigator info from claims
func GetUserInfo(claims *Claims) *UserInfo {
	return &UserInfo{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}
}
