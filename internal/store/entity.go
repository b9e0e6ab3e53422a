package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/index-orchestrator/internal/models"
	srvErrors "github.com/kubev2v/index-orchestrator/pkg/errors"
)

var entityColumns = []string{"id", "type", "title", "body", "updated_at"}

// EntityStore holds the source records. Mass indexing pages through it.
type EntityStore struct {
	db QueryInterceptor
}

func NewEntityStore(db QueryInterceptor) *EntityStore {
	return &EntityStore{db: db}
}

func (s *EntityStore) Save(ctx context.Context, e models.Entity) error {
	_, err := s.db.ExecContext(ctx, queryUpsertEntity, e.ID, e.Type, e.Title, e.Body)
	return err
}

// Delete removes the entity. Deleting a missing entity is not an error.
func (s *EntityStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, queryDeleteEntity, id)
	return err
}

// Apply persists a set of operations in one transaction.
func (s *EntityStore) Apply(ctx context.Context, ops []models.Operation) (err error) {
	if len(ops) == 0 {
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

	for _, op := range lastPerEntity(ops) {
		switch op.Type {
		case models.OperationDelete:
			_, err = tx.ExecContext(ctx, queryDeleteEntity, op.Entity.ID)
		default:
			e := op.Entity
			_, err = tx.ExecContext(ctx, queryUpsertEntity, e.ID, e.Type, e.Title, e.Body)
		}
		if err != nil {
			return fmt.Errorf("failed to %s entity %q: %w", op.Type, op.Entity.ID, err)
		}
	}

	return tx.Commit()
}

func (s *EntityStore) Get(ctx context.Context, id string) (*models.Entity, error) {
	query, args, err := sq.Select(entityColumns...).
		From("entities").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var e models.Entity
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&e.ID, &e.Type, &e.Title, &e.Body, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewEntityNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns up to limit entities with an id greater than afterID, in id
// order. An empty afterID starts from the beginning.
func (s *EntityStore) List(ctx context.Context, afterID string, limit uint64) ([]models.Entity, error) {
	builder := sq.Select(entityColumns...).From("entities").OrderBy("id")
	if afterID != "" {
		builder = builder.Where(sq.Gt{"id": afterID})
	}
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

	var entities []models.Entity
	for rows.Next() {
		var e models.Entity
		if err := rows.Scan(&e.ID, &e.Type, &e.Title, &e.Body, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

func (s *EntityStore) Count(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("entities").ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// lastPerEntity keeps the last operation of each entity. DuckDB rejects
// touching the same key twice in one transaction.
func lastPerEntity(ops []models.Operation) []models.Operation {
	last := make(map[string]int, len(ops))
	for i, op := range ops {
		last[op.Entity.ID] = i
	}
	result := make([]models.Operation, 0, len(last))
	for i, op := range ops {
		if last[op.Entity.ID] == i {
			result = append(result, op)
		}
	}
	return result
}
