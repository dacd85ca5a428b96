package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyset-api/internal/domain"
	"github.com/phrazzld/studyset-api/internal/platform/logger"
	"github.com/phrazzld/studyset-api/internal/store"
)

// defaultPublicLimit caps FindPublic when the caller passes no limit.
const defaultPublicLimit = 50

// PostgresSetStore implements the store.SetStore interface using a
// PostgreSQL database as the storage backend. Each flashcard set is one
// row; the cards array and the tags list are JSONB columns so the whole
// aggregate is written as a single document.
type PostgresSetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSetStore creates a new PostgreSQL implementation of the SetStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSetStore(db store.DBTX, logger *slog.Logger) *PostgresSetStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSetStore{
		db:     db,
		logger: logger.With(slog.String("component", "set_store")),
	}
}

// Ensure PostgresSetStore implements store.SetStore interface
var _ store.SetStore = (*PostgresSetStore)(nil)

// WithTx implements store.SetStore.WithTx
func (s *PostgresSetStore) WithTx(tx *sql.Tx) store.SetStore {
	return &PostgresSetStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.SetStore.Create
// It saves a new set document, handling domain validation.
func (s *PostgresSetStore) Create(ctx context.Context, set *domain.Set) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := set.Validate(); err != nil {
		log.Warn("set validation failed during create",
			slog.String("error", err.Error()),
			slog.String("set_id", set.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	cardsJSON, tagsJSON, err := marshalDocument(set)
	if err != nil {
		return err
	}

	if set.Version == 0 {
		set.Version = 1
	}

	query := `
		INSERT INTO flashcard_sets
			(id, owner_id, title, description, category, tags, is_public,
			 cards, total_reviews, average_score, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		set.ID,
		set.OwnerID,
		set.Title,
		set.Description,
		set.Category,
		tagsJSON,
		set.IsPublic,
		cardsJSON,
		set.TotalReviews,
		set.AverageScore,
		set.Version,
		set.CreatedAt,
		set.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create set",
			slog.String("error", err.Error()),
			slog.String("set_id", set.ID.String()),
			slog.String("owner_id", set.OwnerID.String()))
		return MapError(err)
	}

	log.Info("set created successfully",
		slog.String("set_id", set.ID.String()),
		slog.String("owner_id", set.OwnerID.String()),
		slog.Int("card_count", set.CardCount()))
	return nil
}

// GetByID implements store.SetStore.GetByID
// It retrieves a set by its unique ID, cards included.
// Returns store.ErrSetNotFound if the set does not exist.
func (s *PostgresSetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Set, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, title, description, category, tags, is_public,
		       cards, total_reviews, average_score, version, created_at, updated_at
		FROM flashcard_sets
		WHERE id = $1
	`

	set, err := s.scanSet(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("set not found", slog.String("set_id", id.String()))
			return nil, store.ErrSetNotFound
		}
		log.Error("failed to get set by ID",
			slog.String("error", err.Error()),
			slog.String("set_id", id.String()))
		return nil, MapError(err)
	}

	return set, nil
}

// Update implements store.SetStore.Update
// It persists the whole set document conditionally on the version the
// set was loaded with. On success the version is bumped both in the
// database and on the passed set. Returns store.ErrVersionConflict when
// the row exists at a different version and store.ErrSetNotFound when it
// does not exist at all.
func (s *PostgresSetStore) Update(ctx context.Context, set *domain.Set) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := set.Validate(); err != nil {
		log.Warn("set validation failed during update",
			slog.String("error", err.Error()),
			slog.String("set_id", set.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	cardsJSON, tagsJSON, err := marshalDocument(set)
	if err != nil {
		return err
	}

	query := `
		UPDATE flashcard_sets
		SET title = $1, description = $2, category = $3, tags = $4,
		    is_public = $5, cards = $6, total_reviews = $7,
		    average_score = $8, updated_at = $9, version = version + 1
		WHERE id = $10 AND version = $11
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		set.Title,
		set.Description,
		set.Category,
		tagsJSON,
		set.IsPublic,
		cardsJSON,
		set.TotalReviews,
		set.AverageScore,
		set.UpdatedAt,
		set.ID,
		set.Version,
	)
	if err != nil {
		log.Error("failed to update set",
			slog.String("error", err.Error()),
			slog.String("set_id", set.ID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Distinguish a stale version from a missing row.
		var exists bool
		checkErr := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM flashcard_sets WHERE id = $1)`,
			set.ID,
		).Scan(&exists)
		if checkErr != nil {
			log.Error("failed to check set existence after stale update",
				slog.String("error", checkErr.Error()),
				slog.String("set_id", set.ID.String()))
			return MapError(checkErr)
		}
		if exists {
			log.Warn("version conflict on set update",
				slog.String("set_id", set.ID.String()),
				slog.Int("version", set.Version))
			return store.ErrVersionConflict
		}
		log.Debug("set not found for update", slog.String("set_id", set.ID.String()))
		return store.ErrSetNotFound
	}

	set.Version++

	log.Info("set updated successfully",
		slog.String("set_id", set.ID.String()),
		slog.Int("version", set.Version))
	return nil
}

// Delete implements store.SetStore.Delete
// It removes a set document by its ID. The cards are part of the
// document, so the whole aggregate goes in one statement.
func (s *PostgresSetStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM flashcard_sets WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete set",
			slog.String("error", err.Error()),
			slog.String("set_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		log.Debug("set not found for delete", slog.String("set_id", id.String()))
		return store.ErrSetNotFound
	}

	log.Info("set deleted successfully", slog.String("set_id", id.String()))
	return nil
}

// FindByOwner implements store.SetStore.FindByOwner
// It retrieves all sets owned by the given user, most recently updated first.
// Returns an empty slice if the owner has no sets.
func (s *PostgresSetStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Set, error) {
	query := `
		SELECT id, owner_id, title, description, category, tags, is_public,
		       cards, total_reviews, average_score, version, created_at, updated_at
		FROM flashcard_sets
		WHERE owner_id = $1
		ORDER BY updated_at DESC
	`
	return s.querySets(ctx, query, ownerID)
}

// FindPublic implements store.SetStore.FindPublic
// It retrieves up to limit public sets, newest first.
func (s *PostgresSetStore) FindPublic(ctx context.Context, limit int) ([]*domain.Set, error) {
	if limit <= 0 {
		limit = defaultPublicLimit
	}

	query := `
		SELECT id, owner_id, title, description, category, tags, is_public,
		       cards, total_reviews, average_score, version, created_at, updated_at
		FROM flashcard_sets
		WHERE is_public = TRUE
		ORDER BY created_at DESC
		LIMIT $1
	`
	return s.querySets(ctx, query, limit)
}

func (s *PostgresSetStore) querySets(ctx context.Context, query string, args ...any) ([]*domain.Set, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query sets", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	sets := []*domain.Set{}
	for rows.Next() {
		set, err := s.scanSet(rows)
		if err != nil {
			log.Error("failed to scan set row", slog.String("error", err.Error()))
			return nil, err
		}
		sets = append(sets, set)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return sets, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresSetStore) scanSet(row rowScanner) (*domain.Set, error) {
	var (
		set       domain.Set
		tagsJSON  []byte
		cardsJSON []byte
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(
		&set.ID,
		&set.OwnerID,
		&set.Title,
		&set.Description,
		&set.Category,
		&tagsJSON,
		&set.IsPublic,
		&cardsJSON,
		&set.TotalReviews,
		&set.AverageScore,
		&set.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tagsJSON, &set.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags document: %w", err)
	}
	if err := json.Unmarshal(cardsJSON, &set.Cards); err != nil {
		return nil, fmt.Errorf("failed to decode cards document: %w", err)
	}
	if set.Tags == nil {
		set.Tags = []string{}
	}
	if set.Cards == nil {
		set.Cards = []domain.Card{}
	}

	set.CreatedAt = createdAt.UTC()
	set.UpdatedAt = updatedAt.UTC()
	return &set, nil
}

func marshalDocument(set *domain.Set) (cardsJSON, tagsJSON []byte, err error) {
	cards := set.Cards
	if cards == nil {
		cards = []domain.Card{}
	}
	tags := set.Tags
	if tags == nil {
		tags = []string{}
	}

	cardsJSON, err = json.Marshal(cards)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode cards document: %w", err)
	}
	tagsJSON, err = json.Marshal(tags)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode tags document: %w", err)
	}
	return cardsJSON, tagsJSON, nil
}
