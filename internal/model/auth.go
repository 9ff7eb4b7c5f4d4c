package model

import "github.com/golang-jwt/jwt/v5"

// TraineeClaims are JWT claims for trainee tokens
type TraineeClaims struct {
	TraineeID   string `json:"traineeId"`
	DisplayName string `json:"displayName"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for trainee registration
type RegisterRequest struct {
	DisplayName string `json:"displayName"`
}

// RegisterResponse is returned after successful registration
type RegisterResponse struct {
	Token     string `json:"token"`
	TraineeID string `json:"traineeId"`
}
