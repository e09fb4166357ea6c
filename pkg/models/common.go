package models

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleAdmin = `superAdmin`
	RoleUser  = `user`
)

type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userID"`
	Role   string `json:"role"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// ValidationError reports the required fields a request is missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}
