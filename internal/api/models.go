package api

import (
	"time"
)

// Common request/response structures. Wire field names are camelCase to
// stay compatible with the clients of the original API surface.

// CardRequest defines the payload for creating or replacing a card's text.
type CardRequest struct {
	Question string `json:"question" validate:"required,max=1000"`
	Answer   string `json:"answer"   validate:"required,max=2000"`
}

// CreateSetRequest defines the payload for the set creation endpoint.
// Cards is optional; each entry becomes an unattempted card, in order.
type CreateSetRequest struct {
	Title       string        `json:"title"       validate:"required,max=100"`
	Description string        `json:"description" validate:"max=500"`
	Category    string        `json:"category"    validate:"max=50"`
	Tags        []string      `json:"tags"        validate:"omitempty,dive,max=20"`
	IsPublic    bool          `json:"isPublic"`
	Cards       []CardRequest `json:"cards"       validate:"omitempty,dive"`
}

// UpdateSetRequest defines the payload for the partial set update
// endpoint. Nil fields are left unchanged.
type UpdateSetRequest struct {
	Title       *string   `json:"title"       validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	Category    *string   `json:"category"    validate:"omitempty,max=50"`
	Tags        *[]string `json:"tags"        validate:"omitempty,dive,max=20"`
	IsPublic    *bool     `json:"isPublic"`
}

// ReviewRequest defines the payload for recording a review outcome.
// IsCorrect is a pointer so that a missing field fails validation instead
// of defaulting to false.
type ReviewRequest struct {
	IsCorrect *bool `json:"isCorrect" validate:"required"`
}

// CardResponse represents one card in a set detail response. IsCorrect is
// null until the card's first review.
type CardResponse struct {
	ID           string     `json:"id"`
	Question     string     `json:"question"`
	Answer       string     `json:"answer"`
	IsCorrect    *bool      `json:"isCorrect"`
	LastReviewed *time.Time `json:"lastReviewed"`
	ReviewCount  int        `json:"reviewCount"`
}

// SetSummaryResponse represents a set in list responses: the set's own
// fields plus the card count, without the cards themselves.
type SetSummaryResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CardCount    int       `json:"cardCount"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	IsPublic     bool      `json:"isPublic"`
	TotalReviews int       `json:"totalReviews"`
	AverageScore int       `json:"averageScore"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SetDetailResponse is the summary plus the full card list.
type SetDetailResponse struct {
	SetSummaryResponse
	Cards []CardResponse `json:"cards"`
}

// ReviewResponse echoes a recorded review outcome together with the
// recomputed set statistics.
type ReviewResponse struct {
	CardID       string    `json:"cardId"`
	IsCorrect    bool      `json:"isCorrect"`
	Timestamp    time.Time `json:"timestamp"`
	ReviewCount  int       `json:"reviewCount"`
	TotalReviews int       `json:"totalReviews"`
	AverageScore int       `json:"averageScore"`
}
