package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db        *sql.DB
	documents *DocumentStore
	entities  *EntityStore
}

func NewStore(db *sql.DB) *Store {
	qi := NewQueryInterceptor(db)
	return &Store{
		db:        db,
		documents: NewDocumentStore(qi),
		entities:  NewEntityStore(qi),
	}
}

func (s *Store) Documents() *DocumentStore {
	return s.documents
}

func (s *Store) Entities() *EntityStore {
	return s.entities
}

func (s *Store) Close() error {
	return s.db.Close()
}
