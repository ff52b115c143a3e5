package auth

import "errors"

var (
	ErrSecretRequired   = errors.New("auth token is required")
	ErrIdentityRequired = errors.New("identity is required")
)
