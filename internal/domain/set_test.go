package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestSet(t *testing.T) *Set {
	t.Helper()
	set, err := NewSet(uuid.New(), "Geography", "European capitals", "", nil, false)
	if err != nil {
		t.Fatalf("Expected no error creating set, got %v", err)
	}
	return set
}

func TestNewSet(t *testing.T) {
	ownerID := uuid.New()
	set, err := NewSet(ownerID, "  Geography  ", " capitals ", "", []string{" europe ", "", "maps"}, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if set.OwnerID != ownerID {
		t.Errorf("Expected owner %s, got %s", ownerID, set.OwnerID)
	}

	if set.Title != "Geography" {
		t.Errorf("Expected trimmed title, got %q", set.Title)
	}

	if set.Category != DefaultCategory {
		t.Errorf("Expected default category %q, got %q", DefaultCategory, set.Category)
	}

	// Tags are trimmed, empties dropped, insertion order preserved.
	if len(set.Tags) != 2 || set.Tags[0] != "europe" || set.Tags[1] != "maps" {
		t.Errorf("Unexpected tags %v", set.Tags)
	}

	if !set.IsPublic {
		t.Error("Expected public set")
	}

	if set.CardCount() != 0 || set.TotalReviews != 0 || set.AverageScore != 0 {
		t.Errorf("Expected empty statistics, got cards=%d reviews=%d score=%d",
			set.CardCount(), set.TotalReviews, set.AverageScore)
	}
}

func TestNewSetValidation(t *testing.T) {
	ownerID := uuid.New()

	tests := []struct {
		name    string
		ownerID uuid.UUID
		title   string
		desc    string
		cat     string
		tags    []string
		wantErr error
	}{
		{"empty owner", uuid.Nil, "Title", "", "", nil, ErrEmptyOwnerID},
		{"empty title", ownerID, "", "", "", nil, ErrEmptyTitle},
		{"title too long", ownerID, strings.Repeat("t", MaxTitleLength+1), "", "", nil, ErrTitleTooLong},
		{"description too long", ownerID, "Title", strings.Repeat("d", MaxDescriptionLength+1), "", nil, ErrDescriptionTooLong},
		{"category too long", ownerID, "Title", "", strings.Repeat("c", MaxCategoryLength+1), nil, ErrCategoryTooLong},
		{"tag too long", ownerID, "Title", "", "", []string{strings.Repeat("x", MaxTagLength+1)}, ErrTagTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSet(tc.ownerID, tc.title, tc.desc, tc.cat, tc.tags, false)
			if err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAddCard(t *testing.T) {
	set := newTestSet(t)

	first, err := set.AddCard("Capital of France?", "Paris")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := set.AddCard("Capital of Spain?", "Madrid")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if set.CardCount() != 2 {
		t.Fatalf("Expected 2 cards, got %d", set.CardCount())
	}

	// Cards are appended to the end in insertion order.
	if set.Cards[0].ID != first.ID || set.Cards[1].ID != second.ID {
		t.Error("Expected cards in insertion order")
	}

	if first.Correctness != CorrectnessUnattempted || first.ReviewCount != 0 {
		t.Error("Expected new card to start unattempted with zero reviews")
	}

	if _, err := set.AddCard("", "Paris"); err != ErrEmptyQuestion {
		t.Errorf("Expected error %v, got %v", ErrEmptyQuestion, err)
	}
}

func TestUpdateCard(t *testing.T) {
	set := newTestSet(t)
	card, _ := set.AddCard("Capital of France?", "Pariz")

	// Review first so we can check review state survives the update.
	if _, err := set.RecordReview(card.ID, true, time.Now()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := set.UpdateCard(card.ID, "Capital of France?", "Paris")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Answer != "Paris" {
		t.Errorf("Expected updated answer, got %q", updated.Answer)
	}

	if updated.Correctness != CorrectnessCorrect {
		t.Errorf("Expected correctness untouched, got %q", updated.Correctness)
	}
	if updated.ReviewCount != 1 {
		t.Errorf("Expected review count untouched, got %d", updated.ReviewCount)
	}
	if updated.LastReviewedAt == nil {
		t.Error("Expected LastReviewedAt untouched")
	}

	if _, err := set.UpdateCard(uuid.New(), "Q", "A"); err != ErrCardNotFound {
		t.Errorf("Expected error %v, got %v", ErrCardNotFound, err)
	}
}

func TestRemoveCard(t *testing.T) {
	set := newTestSet(t)
	a, _ := set.AddCard("A?", "a")
	b, _ := set.AddCard("B?", "b")
	c, _ := set.AddCard("C?", "c")

	if err := set.RemoveCard(b.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if set.CardCount() != 2 {
		t.Fatalf("Expected 2 cards after removal, got %d", set.CardCount())
	}

	// Remaining cards keep their relative order.
	if set.Cards[0].ID != a.ID || set.Cards[1].ID != c.ID {
		t.Error("Expected relative order preserved after removal")
	}

	if err := set.RemoveCard(uuid.New()); err != ErrCardNotFound {
		t.Errorf("Expected error %v, got %v", ErrCardNotFound, err)
	}
}

// Removing a reviewed card does not recompute the statistics: the score
// keeps counting the removed card until the next review event. Known
// quirk, kept on purpose.
func TestRemoveCardDoesNotRecomputeScore(t *testing.T) {
	set := newTestSet(t)
	a, _ := set.AddCard("A?", "a")
	b, _ := set.AddCard("B?", "b")

	now := time.Now()
	if _, err := set.RecordReview(a.ID, true, now); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := set.RecordReview(b.ID, false, now); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if set.AverageScore != 50 {
		t.Fatalf("Expected average score 50, got %d", set.AverageScore)
	}

	if err := set.RemoveCard(b.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Still 50, and totalReviews still 2, even though only the correct
	// card remains.
	if set.AverageScore != 50 {
		t.Errorf("Expected average score to stay 50 after removal, got %d", set.AverageScore)
	}
	if set.TotalReviews != 2 {
		t.Errorf("Expected total reviews to stay 2 after removal, got %d", set.TotalReviews)
	}

	// The next review event recomputes from the surviving cards only.
	if _, err := set.RecordReview(a.ID, true, now); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if set.AverageScore != 100 {
		t.Errorf("Expected average score 100 after recompute, got %d", set.AverageScore)
	}
}

func TestRecordReview(t *testing.T) {
	set := newTestSet(t)
	card, _ := set.AddCard("Capital of France?", "Paris")

	now := time.Now()
	receipt, err := set.RecordReview(card.ID, true, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if receipt.CardID != card.ID || !receipt.IsCorrect {
		t.Error("Unexpected receipt identity")
	}
	if receipt.ReviewCount != 1 || receipt.TotalReviews != 1 || receipt.AverageScore != 100 {
		t.Errorf("Unexpected receipt stats %+v", receipt)
	}

	reviewed, _ := set.FindCard(card.ID)
	if reviewed.Correctness != CorrectnessCorrect {
		t.Errorf("Expected correct state, got %q", reviewed.Correctness)
	}
	if reviewed.LastReviewedAt == nil || !reviewed.LastReviewedAt.Equal(now.UTC()) {
		t.Errorf("Expected LastReviewedAt %v, got %v", now.UTC(), reviewed.LastReviewedAt)
	}
	if reviewed.ReviewCount != 1 {
		t.Errorf("Expected review count 1, got %d", reviewed.ReviewCount)
	}

	if set.AverageScore != 100 || set.TotalReviews != 1 {
		t.Errorf("Expected score=100 reviews=1, got score=%d reviews=%d",
			set.AverageScore, set.TotalReviews)
	}

	if _, err := set.RecordReview(uuid.New(), true, now); err != ErrCardNotFound {
		t.Errorf("Expected error %v, got %v", ErrCardNotFound, err)
	}
}

func TestRecordReviewTwoCards(t *testing.T) {
	set := newTestSet(t)
	a, _ := set.AddCard("A?", "a")
	b, _ := set.AddCard("B?", "b")

	now := time.Now()
	if _, err := set.RecordReview(a.ID, true, now); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := set.RecordReview(b.ID, false, now); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if set.AverageScore != 50 {
		t.Errorf("Expected average score 50, got %d", set.AverageScore)
	}
	if set.TotalReviews != 2 {
		t.Errorf("Expected total reviews 2, got %d", set.TotalReviews)
	}
}

// Re-reviewing overwrites the outcome (last call wins) but the counters
// keep increasing on every call.
func TestRecordReviewOverwrites(t *testing.T) {
	set := newTestSet(t)
	card, _ := set.AddCard("A?", "a")

	first := time.Now()
	second := first.Add(time.Minute)

	if _, err := set.RecordReview(card.ID, false, first); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if set.AverageScore != 0 {
		t.Errorf("Expected score 0 after incorrect review, got %d", set.AverageScore)
	}

	receipt, err := set.RecordReview(card.ID, true, second)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	reviewed, _ := set.FindCard(card.ID)
	if reviewed.Correctness != CorrectnessCorrect {
		t.Errorf("Expected final correctness correct, got %q", reviewed.Correctness)
	}
	if reviewed.ReviewCount != 2 {
		t.Errorf("Expected review count 2, got %d", reviewed.ReviewCount)
	}
	if !reviewed.LastReviewedAt.Equal(second.UTC()) {
		t.Errorf("Expected LastReviewedAt to advance to %v, got %v", second.UTC(), reviewed.LastReviewedAt)
	}

	// One reviewed card, currently correct: score computed from current
	// states only.
	if receipt.AverageScore != 100 || set.AverageScore != 100 {
		t.Errorf("Expected score 100, got %d", set.AverageScore)
	}
	if set.TotalReviews != 2 {
		t.Errorf("Expected total reviews 2, got %d", set.TotalReviews)
	}
}

func TestApplyPartialUpdate(t *testing.T) {
	set := newTestSet(t)
	card, _ := set.AddCard("A?", "a")
	if _, err := set.RecordReview(card.ID, true, time.Now()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	title := "World Capitals"
	public := true
	if err := set.Apply(SetUpdate{Title: &title, IsPublic: &public}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if set.Title != "World Capitals" {
		t.Errorf("Expected updated title, got %q", set.Title)
	}
	if !set.IsPublic {
		t.Error("Expected set to become public")
	}

	// Fields not present in the update stay put.
	if set.Description != "European capitals" || set.Category != DefaultCategory {
		t.Error("Expected untouched fields to survive partial update")
	}
	if set.AverageScore != 100 || set.TotalReviews != 1 {
		t.Error("Expected statistics untouched by field update")
	}

	// A rejected update leaves the set unchanged.
	bad := strings.Repeat("t", MaxTitleLength+1)
	if err := set.Apply(SetUpdate{Title: &bad}); err != ErrTitleTooLong {
		t.Fatalf("Expected error %v, got %v", ErrTitleTooLong, err)
	}
	if set.Title != "World Capitals" {
		t.Errorf("Expected title unchanged after failed update, got %q", set.Title)
	}

	// Blank category falls back to the default.
	blank := "  "
	if err := set.Apply(SetUpdate{Category: &blank}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if set.Category != DefaultCategory {
		t.Errorf("Expected default category, got %q", set.Category)
	}
}
