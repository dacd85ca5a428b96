// Package domain contains the core business entities of the studyset
// API: the flashcard Set aggregate, the Card entity with its tri-state
// review lifecycle, and the pure derivation of aggregate statistics.
//
// The Set is the unit of persistence and concurrency. Cards exist only
// inside their set's document and are addressed by ID within it; no
// operation reaches a card across set boundaries. All mutation happens
// through aggregate methods so that the derived statistics
// (TotalReviews, AverageScore) stay consistent with the card states.
package domain
