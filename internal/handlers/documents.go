package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/index-orchestrator/api/v1"
	"github.com/kubev2v/index-orchestrator/internal/models"
	"github.com/kubev2v/index-orchestrator/pkg/future"
)

// IndexDocuments applies a batch of operations
// (POST /documents)
func (h *Handler) IndexDocuments(c *gin.Context) {
	var req v1.IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: "invalid request body: " + err.Error()})
		return
	}
	if len(req.Operations) == 0 {
		c.JSON(http.StatusBadRequest, v1.Error{Error: "at least one operation is required"})
		return
	}

	ops := make([]models.Operation, 0, len(req.Operations))
	for _, op := range req.Operations {
		ops = append(ops, op.ToModel())
	}

	h.index(c, ops, req.Wait)
}

// DeleteDocument removes the entity and its document from every index
// (DELETE /documents/{id})
func (h *Handler) DeleteDocument(c *gin.Context, id string, params v1.WaitParams) {
	h.index(c, []models.Operation{{Type: models.OperationDelete, Entity: models.Entity{ID: id}}}, params.Wait)
}

func (h *Handler) index(c *gin.Context, ops []models.Operation, wait bool) {
	logger := zap.S().Named("document_handler")

	results, err := h.indexingSrv.Index(c.Request.Context(), ops)
	if err != nil {
		abort(c, logger, err, "failed to index documents")
		return
	}

	logger.Debugw("operations submitted", "count", len(ops), "wait", wait)

	if !wait {
		c.JSON(http.StatusAccepted, v1.IndexResponse{Accepted: len(ops)})
		return
	}

	failed := failedIDs(c, ops, results)
	if c.Request.Context().Err() != nil {
		c.JSON(http.StatusServiceUnavailable, v1.Error{Error: "request cancelled while waiting for indexing"})
		return
	}

	c.JSON(http.StatusOK, v1.IndexResponse{Accepted: len(ops) - len(failed), Failed: failed})
}

// failedIDs waits for every result. Results are ordered backend by backend,
// each backend holding one result per operation.
func failedIDs(c *gin.Context, ops []models.Operation, results []*future.Future[struct{}]) []string {
	seen := make(map[string]bool)
	var failed []string
	for i, f := range results {
		if _, err := f.Wait(c.Request.Context()); err != nil {
			id := ops[i%len(ops)].Entity.ID
			if !seen[id] {
				seen[id] = true
				failed = append(failed, id)
			}
		}
	}
	return failed
}

// GetDocument returns a document from the local index
// (GET /documents/{id})
func (h *Handler) GetDocument(c *gin.Context, id string) {
	doc, err := h.documentSrv.Get(c.Request.Context(), id)
	if err != nil {
		abort(c, zap.S().Named("document_handler"), err, "failed to get document")
		return
	}

	c.JSON(http.StatusOK, v1.NewDocumentFromModel(*doc))
}

// Search matches documents of the local index
// (GET /search)
func (h *Handler) Search(c *gin.Context, params v1.SearchParams) {
	limit := 0
	if params.Limit != nil {
		if *params.Limit <= 0 {
			c.JSON(http.StatusBadRequest, v1.Error{Error: "limit must be positive"})
			return
		}
		limit = *params.Limit
	}

	result, err := h.documentSrv.Search(c.Request.Context(), params.Q, limit)
	if err != nil {
		abort(c, zap.S().Named("document_handler"), err, "failed to search documents")
		return
	}

	c.JSON(http.StatusOK, v1.NewSearchResponse(params.Q, result.Hits))
}
