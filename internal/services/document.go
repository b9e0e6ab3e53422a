package services

import (
	"context"

	"github.com/kubev2v/index-orchestrator/internal/models"
	"github.com/kubev2v/index-orchestrator/internal/store"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 1000
)

// DocumentService reads the local index.
type DocumentService struct {
	store *store.Store
}

func NewDocumentService(st *store.Store) *DocumentService {
	return &DocumentService{store: st}
}

func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	return s.store.Documents().Get(ctx, id)
}

type SearchResult struct {
	Hits  []models.SearchHit
	Total int
}

// Search clamps limit to [1, MaxSearchLimit]; zero means DefaultSearchLimit.
func (s *DocumentService) Search(ctx context.Context, term string, limit int) (*SearchResult, error) {
	switch {
	case limit <= 0:
		limit = DefaultSearchLimit
	case limit > MaxSearchLimit:
		limit = MaxSearchLimit
	}

	hits, err := s.store.Documents().Search(ctx, term, uint64(limit))
	if err != nil {
		return nil, err
	}
	return &SearchResult{Hits: hits, Total: len(hits)}, nil
}
