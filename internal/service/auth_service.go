package service

import (
	"errors"
	"strings"
	"time"

	"emtsim/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingDisplayName = errors.New("display name is required")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService issues and validates trainee tokens. Training stations are
// anonymous: a trainee registers a display name and gets a scoped token, no
// password involved.
type AuthService struct {
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
	}
}

// Register creates a trainee identity and returns its token
func (s *AuthService) Register(displayName string) (*model.RegisterResponse, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrMissingDisplayName
	}

	traineeID := "trainee_" + uuid.New().String()[:8]

	claims := &model.TraineeClaims{
		TraineeID:   traineeID,
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.RegisterResponse{
		Token:     tokenString,
		TraineeID: traineeID,
	}, nil
}

// ValidateTraineeToken validates a trainee JWT and returns claims
func (s *AuthService) ValidateTraineeToken(tokenString string) (*model.TraineeClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.TraineeClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.TraineeClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
