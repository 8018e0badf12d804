package model

import "github.com/golang-jwt/jwt"

// UserClaims is the bearer token payload. Subject carries the user id.
type UserClaims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
}

// Principal is the authenticated caller handed to every use case.
type Principal struct {
	UserID string
	Email  string
}

func (p Principal) Authenticated() bool { return p.UserID != "" }
