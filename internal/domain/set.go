package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Length bounds for set fields, matching the persisted schema.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxCategoryLength    = 50
	MaxTagLength         = 20
)

// DefaultCategory is assigned when a set is created without a category.
const DefaultCategory = "General"

// Set is a named, owned collection of cards plus aggregate review
// statistics. It is the unit of persistence and concurrency: every
// mutation loads the whole document, changes it in memory, and saves it
// back in one write.
//
// TotalReviews and AverageScore are derived from review events; they are
// never set directly by a caller. Version backs the optimistic
// concurrency check at save time.
type Set struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	IsPublic     bool      `json:"is_public"`
	Cards        []Card    `json:"cards"`
	TotalReviews int       `json:"total_reviews"`
	AverageScore int       `json:"average_score"`
	Version      int       `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ReviewReceipt describes the effect of one recorded review event.
type ReviewReceipt struct {
	CardID       uuid.UUID
	IsCorrect    bool
	Timestamp    time.Time
	ReviewCount  int
	TotalReviews int
	AverageScore int
}

// NewSet creates a set owned by ownerID. Text fields are trimmed;
// category defaults to DefaultCategory when blank. The initial card list
// may be empty.
func NewSet(ownerID uuid.UUID, title, description, category string, tags []string, isPublic bool) (*Set, error) {
	now := time.Now().UTC()

	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}

	set := &Set{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Category:    category,
		Tags:        normalizeTags(tags),
		IsPublic:    isPublic,
		Cards:       []Card{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	return set, nil
}

// Validate checks the set's own fields and every owned card.
func (s *Set) Validate() error {
	if s.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}
	if s.Title == "" {
		return ErrEmptyTitle
	}
	if len(s.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(s.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if len(s.Category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}
	for _, tag := range s.Tags {
		if len(tag) > MaxTagLength {
			return ErrTagTooLong
		}
	}
	for i := range s.Cards {
		if err := s.Cards[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CardCount returns the number of cards in the set.
func (s *Set) CardCount() int {
	return len(s.Cards)
}

// FindCard returns the card with the given ID, or ErrCardNotFound.
// Lookup is restricted to this set; cards are not globally addressable.
func (s *Set) FindCard(cardID uuid.UUID) (*Card, error) {
	idx := s.cardIndex(cardID)
	if idx < 0 {
		return nil, ErrCardNotFound
	}
	return &s.Cards[idx], nil
}

// AddCard appends a new unattempted card to the end of the sequence and
// returns it. Card order is insertion order and stays stable across
// updates.
func (s *Set) AddCard(question, answer string) (*Card, error) {
	card, err := NewCard(question, answer)
	if err != nil {
		return nil, err
	}

	s.Cards = append(s.Cards, *card)
	s.touch()
	return &s.Cards[len(s.Cards)-1], nil
}

// UpdateCard replaces the question and answer of the card with the given
// ID, leaving its review state (correctness, last reviewed, review count)
// untouched. Returns ErrCardNotFound if the ID does not belong to this
// set.
func (s *Set) UpdateCard(cardID uuid.UUID, question, answer string) (*Card, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if err := ValidateCardText(question, answer); err != nil {
		return nil, err
	}

	idx := s.cardIndex(cardID)
	if idx < 0 {
		return nil, ErrCardNotFound
	}

	card := &s.Cards[idx]
	card.Question = question
	card.Answer = answer
	card.UpdatedAt = time.Now().UTC()
	s.touch()
	return card, nil
}

// RemoveCard deletes the card with the given ID; the remaining cards keep
// their relative order. Returns ErrCardNotFound if absent.
//
// Removal deliberately does NOT recompute TotalReviews or AverageScore:
// only review events trigger a recompute, so the score may keep counting
// a removed card until the next review. This mirrors the long-standing
// behavior the stats were built on.
func (s *Set) RemoveCard(cardID uuid.UUID) error {
	idx := s.cardIndex(cardID)
	if idx < 0 {
		return ErrCardNotFound
	}

	s.Cards = append(s.Cards[:idx], s.Cards[idx+1:]...)
	s.touch()
	return nil
}

// RecordReview applies one review event to the card with the given ID
// and folds the outcome into the set statistics:
//
//	card:  correctness := outcome, lastReviewedAt := now, reviewCount++
//	set:   totalReviews++, averageScore := ComputeAverageScore(cards)
//
// Re-reviewing overwrites the card's outcome (last call wins) but the
// counters still increase by one on every call. Returns ErrCardNotFound
// if the card is absent; in that case nothing changes.
func (s *Set) RecordReview(cardID uuid.UUID, isCorrect bool, now time.Time) (*ReviewReceipt, error) {
	idx := s.cardIndex(cardID)
	if idx < 0 {
		return nil, ErrCardNotFound
	}

	now = now.UTC()
	card := &s.Cards[idx]
	if isCorrect {
		card.Correctness = CorrectnessCorrect
	} else {
		card.Correctness = CorrectnessIncorrect
	}
	card.LastReviewedAt = &now
	card.ReviewCount++
	card.UpdatedAt = now

	s.TotalReviews++
	s.AverageScore = ComputeAverageScore(s.Cards)
	s.UpdatedAt = now

	return &ReviewReceipt{
		CardID:       cardID,
		IsCorrect:    isCorrect,
		Timestamp:    now,
		ReviewCount:  card.ReviewCount,
		TotalReviews: s.TotalReviews,
		AverageScore: s.AverageScore,
	}, nil
}

// SetUpdate carries a partial update of a set's own fields. Nil fields
// are left unchanged; card mutations go through the card operations.
type SetUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Tags        *[]string
	IsPublic    *bool
}

// Apply applies a partial update, validating the result. On validation
// failure the set is left unchanged.
func (s *Set) Apply(update SetUpdate) error {
	updated := *s
	if update.Title != nil {
		updated.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		updated.Description = strings.TrimSpace(*update.Description)
	}
	if update.Category != nil {
		category := strings.TrimSpace(*update.Category)
		if category == "" {
			category = DefaultCategory
		}
		updated.Category = category
	}
	if update.Tags != nil {
		updated.Tags = normalizeTags(*update.Tags)
	}
	if update.IsPublic != nil {
		updated.IsPublic = *update.IsPublic
	}

	if err := updated.Validate(); err != nil {
		return err
	}

	updated.touch()
	*s = updated
	return nil
}

// cardIndex returns the position of the card with the given ID, or -1.
// A linear scan is fine at the card counts sets actually hold.
func (s *Set) cardIndex(cardID uuid.UUID) int {
	for i := range s.Cards {
		if s.Cards[i].ID == cardID {
			return i
		}
	}
	return -1
}

func (s *Set) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// normalizeTags trims each tag and drops empties, preserving insertion
// order for display.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}
