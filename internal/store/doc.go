// Package store implements the data access layer of the indexer.
//
// Storage is DuckDB. The entities table holds the source records; the
// documents table is the local index the local writer flushes batches into
// and search reads from.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├────────────────────────────────┬────────────────────────────────┤
//	│          EntityStore           │         DocumentStore          │
//	│              ▼                 │              ▼                 │
//	│           entities             │           documents            │
//	├────────────────────────────────┴────────────────────────────────┤
//	│                QueryInterceptor (debug logging)                 │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  entities          │  Source records, paged by mass indexing     │
//	│  documents         │  Local index, one row per indexed entity    │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Initialization Flow
//
//	db, _ := store.NewDB(path)        // ":memory:" for tests
//	migrations.Run(ctx, db)           // entities, documents
//	s := store.NewStore(db)
//
// # DocumentStore
//
//   - ApplyBatch(ctx, upserts, deletes): one transaction per batch. Deletes
//     run first; the caller guarantees the two id sets are disjoint.
//   - Get(ctx, id): ResourceNotFoundError when missing.
//   - Count(ctx)
//   - Search(ctx, term, limit): case-insensitive substring match on title
//     and body. A title match scores 2, a body match 1. LIKE wildcards in
//     the term are matched literally.
//
// # EntityStore
//
//   - Save/Delete/Get/Count
//   - Apply(ctx, ops): one transaction, last operation per entity wins.
//   - List(ctx, afterID, limit): keyset pagination in id order.
//
// DuckDB refuses to touch the same primary key twice in one transaction,
// which is why both batch writers work on deduplicated ids.
package store
