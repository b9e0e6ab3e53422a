package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/index-orchestrator/internal/models"
	srvErrors "github.com/kubev2v/index-orchestrator/pkg/errors"
)

var documentColumns = []string{"id", "type", "title", "body", "indexed_at"}

// DocumentStore is the local index: documents written by the local writer
// and served by search.
type DocumentStore struct {
	db QueryInterceptor
}

func NewDocumentStore(db QueryInterceptor) *DocumentStore {
	return &DocumentStore{db: db}
}

// ApplyBatch writes one batch in a single transaction. Deletes run first.
// Callers pass disjoint id sets.
func (s *DocumentStore) ApplyBatch(ctx context.Context, upserts []models.Document, deletes []string) (err error) {
	if len(upserts) == 0 && len(deletes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, id := range deletes {
		if _, err = tx.ExecContext(ctx, queryDeleteDocument, id); err != nil {
			return fmt.Errorf("failed to delete document %q: %w", id, err)
		}
	}
	for _, d := range upserts {
		if _, err = tx.ExecContext(ctx, queryUpsertDocument, d.ID, d.Type, d.Title, d.Body); err != nil {
			return fmt.Errorf("failed to write document %q: %w", d.ID, err)
		}
	}

	return tx.Commit()
}

func (s *DocumentStore) Get(ctx context.Context, id string) (*models.Document, error) {
	query, args, err := sq.Select(documentColumns...).
		From("documents").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var d models.Document
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&d.ID, &d.Type, &d.Title, &d.Body, &d.IndexedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewDocumentNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("documents").ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// Search returns documents whose title or body contains term, ignoring case.
// Title matches rank above body matches; ties are ordered by id.
func (s *DocumentStore) Search(ctx context.Context, term string, limit uint64) ([]models.SearchHit, error) {
	pattern := "%" + escapeLike(term) + "%"

	builder := sq.Select(documentColumns...).
		Column(sq.Alias(sq.Expr(
			`CAST((CASE WHEN title ILIKE ? ESCAPE '\' THEN 2 ELSE 0 END) + (CASE WHEN body ILIKE ? ESCAPE '\' THEN 1 ELSE 0 END) AS DOUBLE)`,
			pattern, pattern,
		), "score")).
		From("documents").
		Where(sq.Or{
			sq.Expr(`title ILIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`body ILIKE ? ESCAPE '\'`, pattern),
		}).
		OrderBy("score DESC", "id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []models.SearchHit
	for rows.Next() {
		var h models.SearchHit
		if err := rows.Scan(&h.ID, &h.Type, &h.Title, &h.Body, &h.IndexedAt, &h.Score); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
