package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/studyset-api/internal/domain"
)

// SetStore defines the interface for flashcard-set persistence.
//
// A set is stored as one document: the cards array and the aggregate
// fields travel together, and every save writes the whole document in a
// single statement. Implementations must honor the caller's context
// deadline on every method so that repository timeouts surface as
// context errors rather than half-applied writes.
type SetStore interface {
	// Create saves a new set, cards included.
	// Returns ErrInvalidEntity (wrapped) if the set fails validation.
	Create(ctx context.Context, set *domain.Set) error

	// GetByID retrieves a set by its unique ID, cards included.
	// Returns ErrSetNotFound if the set does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Set, error)

	// Update persists the whole set document conditionally on the version
	// the set was loaded with, and bumps the version on success (both in
	// the database and on the passed set).
	// Returns ErrSetNotFound if the set does not exist and
	// ErrVersionConflict if it exists at a different version, meaning a
	// concurrent writer got there first.
	Update(ctx context.Context, set *domain.Set) error

	// Delete removes a set by its ID. The cards die with the document;
	// there is nothing to cascade.
	// Returns ErrSetNotFound if the set does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByOwner retrieves all sets owned by the given user,
	// most recently updated first.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Set, error)

	// FindPublic retrieves up to limit public sets, newest first.
	// A non-positive limit applies the implementation default.
	FindPublic(ctx context.Context, limit int) ([]*domain.Set, error)

	// WithTx returns a SetStore bound to the given transaction, so a
	// service can run a load-mutate-save cycle atomically.
	WithTx(tx *sql.Tx) SetStore
}
