// Package postgres provides the PostgreSQL-backed implementation of the
// store interfaces. Flashcard sets are persisted document-style: one row
// per set with the cards array and tags list as JSONB columns, so a save
// always writes the whole aggregate atomically. Updates are guarded by
// an optimistic version check.
package postgres
