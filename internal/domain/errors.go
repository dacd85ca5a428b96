package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrCardNotFound is returned when a card ID does not resolve within
	// its owning set. Card lookups never cross set boundaries.
	ErrCardNotFound = errors.New("card not found in set")

	// ErrEmptyOwnerID is returned when a set is created without an owner.
	ErrEmptyOwnerID = errors.New("set owner ID cannot be empty")

	// ErrEmptyTitle is returned when a set title is empty.
	ErrEmptyTitle = errors.New("set title cannot be empty")

	// ErrTitleTooLong is returned when a set title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("set title cannot exceed 100 characters")

	// ErrDescriptionTooLong is returned when a set description exceeds
	// MaxDescriptionLength.
	ErrDescriptionTooLong = errors.New("set description cannot exceed 500 characters")

	// ErrCategoryTooLong is returned when a set category exceeds
	// MaxCategoryLength.
	ErrCategoryTooLong = errors.New("set category cannot exceed 50 characters")

	// ErrTagTooLong is returned when any tag exceeds MaxTagLength.
	ErrTagTooLong = errors.New("tag cannot exceed 20 characters")

	// ErrEmptyQuestion is returned when a card question is empty.
	ErrEmptyQuestion = errors.New("card question cannot be empty")

	// ErrQuestionTooLong is returned when a card question exceeds
	// MaxQuestionLength.
	ErrQuestionTooLong = errors.New("card question cannot exceed 1000 characters")

	// ErrEmptyAnswer is returned when a card answer is empty.
	ErrEmptyAnswer = errors.New("card answer cannot be empty")

	// ErrAnswerTooLong is returned when a card answer exceeds
	// MaxAnswerLength.
	ErrAnswerTooLong = errors.New("card answer cannot exceed 2000 characters")

	// ErrInvalidCorrectness is returned when a card carries a correctness
	// value outside the three known states.
	ErrInvalidCorrectness = errors.New("invalid correctness state")
)

// validationErrors lists every field-level sentinel a Validate call can
// return. Kept in one place so callers can classify without enumerating.
var validationErrors = []error{
	ErrValidation,
	ErrEmptyOwnerID,
	ErrEmptyTitle,
	ErrTitleTooLong,
	ErrDescriptionTooLong,
	ErrCategoryTooLong,
	ErrTagTooLong,
	ErrEmptyQuestion,
	ErrQuestionTooLong,
	ErrEmptyAnswer,
	ErrAnswerTooLong,
	ErrInvalidCorrectness,
}

// IsValidationError reports whether err is (or wraps) one of the
// field-level validation sentinels.
func IsValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
