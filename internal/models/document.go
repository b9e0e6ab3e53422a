package models

import "time"

// Entity is the source record documents are built from.
type Entity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Document is the indexed form of an entity.
type Document struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IndexedAt time.Time `json:"indexedAt"`
}

func NewDocument(e Entity) Document {
	return Document{
		ID:    e.ID,
		Type:  e.Type,
		Title: e.Title,
		Body:  e.Body,
	}
}

// SearchHit is one match returned by a document search.
type SearchHit struct {
	Document
	Score float64 `json:"score"`
}
