package store

// Document queries
const (
	queryUpsertDocument = `
		INSERT INTO documents (id, type, title, body, indexed_at)
		VALUES (?, ?, ?, ?, now())
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			indexed_at = now()`

	queryDeleteDocument = `DELETE FROM documents WHERE id = ?`
)

// Entity queries
const (
	queryUpsertEntity = `
		INSERT INTO entities (id, type, title, body, updated_at)
		VALUES (?, ?, ?, ?, now())
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			updated_at = now()`

	queryDeleteEntity = `DELETE FROM entities WHERE id = ?`
)
