package auth

import (
	"context"

	"github.com/google/uuid"
)

// Claims holds the validated contents of an access token.
type Claims struct {
	// UserID is the authenticated user's unique identifier.
	UserID uuid.UUID
}

// JWTService defines the interface for generating and validating access
// tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the given user ID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks a token's signature and time claims and
	// returns the claims it carries. Returns ErrInvalidToken,
	// ErrExpiredToken, or ErrTokenNotYetValid on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}
