package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Correctness is the review state of a single card.
// A card starts unattempted and moves to correct or incorrect on its
// first review; later reviews overwrite the outcome rather than
// accumulating a history.
type Correctness string

// Possible correctness values.
const (
	CorrectnessUnattempted Correctness = "unattempted"
	CorrectnessCorrect     Correctness = "correct"
	CorrectnessIncorrect   Correctness = "incorrect"
)

// Length bounds for card fields, matching the persisted schema.
const (
	MaxQuestionLength = 1000
	MaxAnswerLength   = 2000
)

// Card is one question/answer unit with independent review state.
// Cards are owned by exactly one Set and are only addressable through it;
// they are serialized as part of the set document.
type Card struct {
	ID             uuid.UUID   `json:"id"`
	Question       string      `json:"question"`
	Answer         string      `json:"answer"`
	Correctness    Correctness `json:"correctness"`
	LastReviewedAt *time.Time  `json:"last_reviewed_at,omitempty"`
	ReviewCount    int         `json:"review_count"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewCard creates an unattempted card with the given question and answer.
// Both fields are whitespace-trimmed before validation.
func NewCard(question, answer string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:          uuid.New(),
		Question:    strings.TrimSpace(question),
		Answer:      strings.TrimSpace(answer),
		Correctness: CorrectnessUnattempted,
		ReviewCount: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks the card's fields against the domain bounds.
// The API layer validates request payloads first, but the aggregate
// re-checks so that direct callers cannot produce a malformed card.
func (c *Card) Validate() error {
	if err := ValidateCardText(c.Question, c.Answer); err != nil {
		return err
	}

	switch c.Correctness {
	case CorrectnessUnattempted, CorrectnessCorrect, CorrectnessIncorrect:
	default:
		return ErrInvalidCorrectness
	}

	return nil
}

// Reviewed reports whether the card has been reviewed at least once.
// Invariant: Reviewed() ⇔ ReviewCount > 0 ⇔ LastReviewedAt != nil.
func (c *Card) Reviewed() bool {
	return c.Correctness != CorrectnessUnattempted
}

// IsCorrectValue renders the tri-state as the nullable boolean used on
// the wire: nil for unattempted, otherwise the latest outcome.
func (c *Card) IsCorrectValue() *bool {
	switch c.Correctness {
	case CorrectnessCorrect:
		v := true
		return &v
	case CorrectnessIncorrect:
		v := false
		return &v
	default:
		return nil
	}
}

// ValidateCardText checks question and answer against the length bounds.
// Inputs are expected to be trimmed already.
func ValidateCardText(question, answer string) error {
	if question == "" {
		return ErrEmptyQuestion
	}
	if len(question) > MaxQuestionLength {
		return ErrQuestionTooLong
	}
	if answer == "" {
		return ErrEmptyAnswer
	}
	if len(answer) > MaxAnswerLength {
		return ErrAnswerTooLong
	}
	return nil
}
