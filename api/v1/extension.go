package v1

import (
	"time"

	"github.com/kubev2v/index-orchestrator/internal/models"
)

// ToModel converts an API operation to a model operation.
func (o Operation) ToModel() models.Operation {
	return models.Operation{
		Type: models.OperationType(o.Type),
		Entity: models.Entity{
			ID:        o.Entity.Id,
			Type:      o.Entity.Type,
			Title:     o.Entity.Title,
			Body:      o.Entity.Body,
			UpdatedAt: time.Now().UTC(),
		},
	}
}

func NewDocumentFromModel(d models.Document) Document {
	return Document{
		Id:        d.ID,
		Type:      d.Type,
		Title:     d.Title,
		Body:      d.Body,
		IndexedAt: d.IndexedAt,
	}
}

func NewSearchResponse(query string, hits []models.SearchHit) SearchResponse {
	resp := SearchResponse{
		Query: query,
		Total: len(hits),
		Hits:  make([]SearchHit, 0, len(hits)),
	}
	for _, h := range hits {
		resp.Hits = append(resp.Hits, SearchHit{
			Document: NewDocumentFromModel(h.Document),
			Score:    h.Score,
		})
	}
	return resp
}

func NewStatus(status models.IndexerStatus) Status {
	s := Status{
		Documents:   status.Documents,
		Backends:    make([]BackendStatus, 0, len(status.Backends)),
		MassIndexer: NewMassIndexerStatus(status.MassIndexer),
	}
	for _, b := range status.Backends {
		s.Backends = append(s.Backends, BackendStatus{
			Name:        b.Name,
			State:       string(b.State),
			Batches:     b.Batches,
			Applied:     b.Applied,
			Failed:      b.Failed,
			Discarded:   b.Discarded,
			QueueLength: b.QueueLength,
			Busy:        b.Busy,
		})
	}
	return s
}

func NewMassIndexerStatus(status models.MassIndexerStatus) MassIndexerStatus {
	m := MassIndexerStatus{
		State:       string(status.State),
		Runs:        status.Runs,
		LastIndexed: status.LastIndexed,
	}
	if m.State == "" {
		m.State = string(models.MassIndexerStatusIdle)
	}
	if status.RunID != "" {
		m.RunId = &status.RunID
	}
	if !status.LastRunAt.IsZero() {
		t := status.LastRunAt
		m.LastRunAt = &t
	}
	if status.Error != nil {
		e := status.Error.Error()
		m.Error = &e
	}
	return m
}
