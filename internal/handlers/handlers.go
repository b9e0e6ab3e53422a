package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/index-orchestrator/api/v1"
	"github.com/kubev2v/index-orchestrator/internal/services"
	srvErrors "github.com/kubev2v/index-orchestrator/pkg/errors"
)

type Handler struct {
	indexingSrv *services.IndexingService
	documentSrv *services.DocumentService
	massIndexer *services.MassIndexer
}

func New(indexingSrv *services.IndexingService, documentSrv *services.DocumentService, massIndexer *services.MassIndexer) *Handler {
	return &Handler{
		indexingSrv: indexingSrv,
		documentSrv: documentSrv,
		massIndexer: massIndexer,
	}
}

// abort maps service errors to HTTP status codes. Unexpected errors are
// logged and reported as 500 with msg.
func abort(c *gin.Context, logger *zap.SugaredLogger, err error, msg string) {
	switch {
	case srvErrors.IsInvalidOperationError(err):
		c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
	case srvErrors.IsResourceNotFoundError(err):
		c.JSON(http.StatusNotFound, v1.Error{Error: err.Error()})
	case srvErrors.IsOrchestratorStoppedError(err), srvErrors.IsSubmitInterruptedError(err):
		c.JSON(http.StatusServiceUnavailable, v1.Error{Error: err.Error()})
	default:
		logger.Errorw(msg, "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: msg})
	}
}
