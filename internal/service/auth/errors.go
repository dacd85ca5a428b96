// Package auth validates the bearer tokens issued by the external
// identity provider. Registration, login, and credential storage live
// outside this service; all we share with the provider is the HMAC
// signing secret.
package auth

import "errors"

// Token validation errors.
var (
	// ErrInvalidToken is returned when a token is malformed, carries an
	// invalid signature, or otherwise fails validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is returned when a token's not-before time is
	// still in the future.
	ErrTokenNotYetValid = errors.New("token not yet valid")
)
