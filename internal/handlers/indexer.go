package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/index-orchestrator/api/v1"
)

// Flush waits until every backend has applied what was submitted so far
// (POST /flush)
func (h *Handler) Flush(c *gin.Context) {
	if err := h.indexingSrv.Flush(c.Request.Context()); err != nil {
		abort(c, zap.S().Named("indexer_handler"), err, "failed to flush indexes")
		return
	}
	h.GetStatus(c)
}

// Reindex rebuilds the indexes from the entity store. Concurrent requests
// share a run. With wait the response is sent once a run started after the
// request has finished.
// (POST /reindex)
func (h *Handler) Reindex(c *gin.Context, params v1.WaitParams) {
	done := h.massIndexer.Reindex()

	if !params.Wait {
		c.JSON(http.StatusAccepted, v1.NewMassIndexerStatus(h.massIndexer.Status()))
		return
	}

	if _, err := done.Wait(c.Request.Context()); err != nil {
		abort(c, zap.S().Named("indexer_handler"), err, "reindex failed")
		return
	}
	c.JSON(http.StatusOK, v1.NewMassIndexerStatus(h.massIndexer.Status()))
}

// GetStatus returns the state of every backend and of the mass indexer
// (GET /status)
func (h *Handler) GetStatus(c *gin.Context) {
	status, err := h.indexingSrv.Status(c.Request.Context())
	if err != nil {
		abort(c, zap.S().Named("indexer_handler"), err, "failed to get status")
		return
	}
	status.MassIndexer = h.massIndexer.Status()

	c.JSON(http.StatusOK, v1.NewStatus(status))
}
