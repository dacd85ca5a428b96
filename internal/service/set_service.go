package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyset-api/internal/domain"
	"github.com/phrazzld/studyset-api/internal/platform/logger"
	"github.com/phrazzld/studyset-api/internal/store"
)

// SetServiceError is a custom error type for set service errors.
type SetServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for SetServiceError.
func (e *SetServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("set service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("set service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SetServiceError) Unwrap() error {
	return e.Err
}

// NewSetServiceError creates a new SetServiceError.
func NewSetServiceError(operation, message string, err error) *SetServiceError {
	return &SetServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// timeNow is swapped out by tests that need deterministic timestamps.
var timeNow = time.Now

// CardInput carries the text of one card to create.
type CardInput struct {
	Question string
	Answer   string
}

// CreateSetInput carries everything needed to create a set. Cards is
// optional; each entry becomes an unattempted card, in order.
type CreateSetInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
	IsPublic    bool
	Cards       []CardInput
}

// SetService provides flashcard-set operations. Every mutation enforces
// the ownership gate: only the set's owner may change it, public
// visibility opens the read path only.
type SetService interface {
	// CreateSet creates a new set owned by ownerID, with optional initial cards.
	CreateSet(ctx context.Context, ownerID uuid.UUID, input CreateSetInput) (*domain.Set, error)

	// GetSet retrieves a set. Non-owners may read it only when it is public;
	// otherwise ErrSetNotOwned.
	GetSet(ctx context.Context, requesterID, setID uuid.UUID) (*domain.Set, error)

	// ListSets retrieves all sets owned by ownerID, most recently updated first.
	ListSets(ctx context.Context, ownerID uuid.UUID) ([]*domain.Set, error)

	// ListPublicSets retrieves up to limit public sets, newest first.
	ListPublicSets(ctx context.Context, limit int) ([]*domain.Set, error)

	// UpdateSet applies a partial update to the set's own fields.
	UpdateSet(ctx context.Context, requesterID, setID uuid.UUID, update domain.SetUpdate) (*domain.Set, error)

	// DeleteSet removes a set; its cards go with it.
	DeleteSet(ctx context.Context, requesterID, setID uuid.UUID) error

	// AddCard appends a new card and returns the updated set.
	AddCard(ctx context.Context, requesterID, setID uuid.UUID, question, answer string) (*domain.Set, error)

	// UpdateCard replaces a card's question and answer, leaving its review
	// state untouched, and returns the updated set.
	UpdateCard(ctx context.Context, requesterID, setID, cardID uuid.UUID, question, answer string) (*domain.Set, error)

	// RemoveCard deletes a card and returns the updated set.
	RemoveCard(ctx context.Context, requesterID, setID, cardID uuid.UUID) (*domain.Set, error)

	// RecordReview records one review outcome for a card and returns the
	// receipt carrying the recomputed statistics.
	RecordReview(ctx context.Context, requesterID, setID, cardID uuid.UUID, isCorrect bool) (*domain.ReviewReceipt, error)
}

// setServiceImpl implements the SetService interface.
type setServiceImpl struct {
	db     *sql.DB
	sets   store.SetStore
	logger *slog.Logger
}

// NewSetService creates a new SetService.
// It returns an error if any of the required dependencies are nil.
func NewSetService(db *sql.DB, sets store.SetStore, logger *slog.Logger) (SetService, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if sets == nil {
		return nil, fmt.Errorf("set store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &setServiceImpl{
		db:     db,
		sets:   sets,
		logger: logger.With(slog.String("component", "set_service")),
	}, nil
}

// CreateSet implements SetService.CreateSet.
func (s *setServiceImpl) CreateSet(
	ctx context.Context,
	ownerID uuid.UUID,
	input CreateSetInput,
) (*domain.Set, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	set, err := domain.NewSet(
		ownerID,
		input.Title,
		input.Description,
		input.Category,
		input.Tags,
		input.IsPublic,
	)
	if err != nil {
		log.Debug("set creation rejected by validation",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}

	for _, card := range input.Cards {
		if _, err := set.AddCard(card.Question, card.Answer); err != nil {
			log.Debug("initial card rejected by validation",
				slog.String("error", err.Error()),
				slog.String("set_id", set.ID.String()))
			return nil, err
		}
	}

	if err := s.sets.Create(ctx, set); err != nil {
		log.Error("failed to save new set",
			slog.String("error", err.Error()),
			slog.String("set_id", set.ID.String()))
		return nil, NewSetServiceError("create_set", "failed to save set", err)
	}

	log.Info("created set",
		slog.String("set_id", set.ID.String()),
		slog.String("owner_id", ownerID.String()),
		slog.Int("card_count", set.CardCount()))
	return set, nil
}

// GetSet implements SetService.GetSet.
func (s *setServiceImpl) GetSet(
	ctx context.Context,
	requesterID, setID uuid.UUID,
) (*domain.Set, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to retrieve set",
			slog.String("error", err.Error()),
			slog.String("set_id", setID.String()))
		return nil, NewSetServiceError("get_set", "failed to retrieve set", err)
	}

	// Public sets are readable by anyone; everything else is owner-only.
	if set.OwnerID != requesterID && !set.IsPublic {
		log.Debug("set access denied",
			slog.String("set_id", setID.String()),
			slog.String("requester_id", requesterID.String()))
		return nil, ErrSetNotOwned
	}

	return set, nil
}

// ListSets implements SetService.ListSets.
func (s *setServiceImpl) ListSets(ctx context.Context, ownerID uuid.UUID) ([]*domain.Set, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sets, err := s.sets.FindByOwner(ctx, ownerID)
	if err != nil {
		log.Error("failed to list sets",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, NewSetServiceError("list_sets", "failed to list sets", err)
	}
	return sets, nil
}

// ListPublicSets implements SetService.ListPublicSets.
func (s *setServiceImpl) ListPublicSets(ctx context.Context, limit int) ([]*domain.Set, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sets, err := s.sets.FindPublic(ctx, limit)
	if err != nil {
		log.Error("failed to list public sets",
			slog.String("error", err.Error()))
		return nil, NewSetServiceError("list_public_sets", "failed to list public sets", err)
	}
	return sets, nil
}

// UpdateSet implements SetService.UpdateSet.
func (s *setServiceImpl) UpdateSet(
	ctx context.Context,
	requesterID, setID uuid.UUID,
	update domain.SetUpdate,
) (*domain.Set, error) {
	return s.mutate(ctx, requesterID, setID, "update_set", func(set *domain.Set) error {
		return set.Apply(update)
	})
}

// DeleteSet implements SetService.DeleteSet.
// Delete is a single statement, so it skips the load-mutate-save
// transaction; the ownership gate still requires a load first.
func (s *setServiceImpl) DeleteSet(ctx context.Context, requesterID, setID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to load set for delete",
			slog.String("error", err.Error()),
			slog.String("set_id", setID.String()))
		return NewSetServiceError("delete_set", "failed to load set", err)
	}
	if set.OwnerID != requesterID {
		return ErrSetNotOwned
	}

	if err := s.sets.Delete(ctx, setID); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to delete set",
			slog.String("error", err.Error()),
			slog.String("set_id", setID.String()))
		return NewSetServiceError("delete_set", "failed to delete set", err)
	}

	log.Info("deleted set",
		slog.String("set_id", setID.String()),
		slog.String("owner_id", requesterID.String()))
	return nil
}

// AddCard implements SetService.AddCard.
func (s *setServiceImpl) AddCard(
	ctx context.Context,
	requesterID, setID uuid.UUID,
	question, answer string,
) (*domain.Set, error) {
	return s.mutate(ctx, requesterID, setID, "add_card", func(set *domain.Set) error {
		_, err := set.AddCard(question, answer)
		return err
	})
}

// UpdateCard implements SetService.UpdateCard.
func (s *setServiceImpl) UpdateCard(
	ctx context.Context,
	requesterID, setID, cardID uuid.UUID,
	question, answer string,
) (*domain.Set, error) {
	return s.mutate(ctx, requesterID, setID, "update_card", func(set *domain.Set) error {
		_, err := set.UpdateCard(cardID, question, answer)
		return err
	})
}

// RemoveCard implements SetService.RemoveCard.
func (s *setServiceImpl) RemoveCard(
	ctx context.Context,
	requesterID, setID, cardID uuid.UUID,
) (*domain.Set, error) {
	return s.mutate(ctx, requesterID, setID, "remove_card", func(set *domain.Set) error {
		return set.RemoveCard(cardID)
	})
}

// RecordReview implements SetService.RecordReview.
func (s *setServiceImpl) RecordReview(
	ctx context.Context,
	requesterID, setID, cardID uuid.UUID,
	isCorrect bool,
) (*domain.ReviewReceipt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var receipt *domain.ReviewReceipt
	_, err := s.mutate(ctx, requesterID, setID, "record_review", func(set *domain.Set) error {
		var err error
		receipt, err = set.RecordReview(cardID, isCorrect, timeNow())
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Debug("recorded review",
		slog.String("set_id", setID.String()),
		slog.String("card_id", cardID.String()),
		slog.Bool("is_correct", isCorrect),
		slog.Int("average_score", receipt.AverageScore))
	return receipt, nil
}

// mutate runs the load → ownership gate → mutation → version-checked save
// cycle for one set inside a single transaction. The mutation operates on
// the loaded in-memory copy, so a failed save leaves the persisted set
// unchanged. A version conflict surfaces as ErrEditConflict.
func (s *setServiceImpl) mutate(
	ctx context.Context,
	requesterID, setID uuid.UUID,
	operation string,
	fn func(*domain.Set) error,
) (*domain.Set, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *domain.Set
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txSets := s.sets.WithTx(tx)

		set, err := txSets.GetByID(ctx, setID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return err
			}
			log.Error("failed to load set",
				slog.String("error", err.Error()),
				slog.String("operation", operation),
				slog.String("set_id", setID.String()))
			return NewSetServiceError(operation, "failed to load set", err)
		}

		if set.OwnerID != requesterID {
			log.Debug("set mutation denied",
				slog.String("operation", operation),
				slog.String("set_id", setID.String()),
				slog.String("requester_id", requesterID.String()))
			return ErrSetNotOwned
		}

		if err := fn(set); err != nil {
			return err
		}

		if err := txSets.Update(ctx, set); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				log.Debug("set save lost to a concurrent writer",
					slog.String("operation", operation),
					slog.String("set_id", setID.String()))
				return ErrEditConflict
			}
			if store.IsNotFoundError(err) {
				return err
			}
			log.Error("failed to save set",
				slog.String("error", err.Error()),
				slog.String("operation", operation),
				slog.String("set_id", setID.String()))
			return NewSetServiceError(operation, "failed to save set", err)
		}

		result = set
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
