package auth

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrTokenExpired          = errors.New("token has expired")
	ErrManagerAccessRequired = errors.New("manager access required")
)
