// Package store defines the persistence boundary of the studyset API:
// the SetStore interface the service layer loads and saves flashcard-set
// aggregates through, the DBTX abstraction over connections and
// transactions, the transaction helper, and the store error taxonomy.
//
// The core never talks to the database directly; it depends on these
// interfaces and treats the store as an external document collaborator.
package store
