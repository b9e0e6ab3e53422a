package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SearchParams defines parameters for Search.
type SearchParams struct {
	Q     string
	Limit *int
}

// WaitParams defines the optional wait query parameter.
type WaitParams struct {
	Wait bool
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /documents)
	IndexDocuments(c *gin.Context)
	// (GET /documents/{id})
	GetDocument(c *gin.Context, id string)
	// (DELETE /documents/{id})
	DeleteDocument(c *gin.Context, id string, params WaitParams)
	// (GET /search)
	Search(c *gin.Context, params SearchParams)
	// (POST /flush)
	Flush(c *gin.Context)
	// (POST /reindex)
	Reindex(c *gin.Context, params WaitParams)
	// (GET /status)
	GetStatus(c *gin.Context)
}

type wrapper struct {
	handler ServerInterface
}

func (w *wrapper) IndexDocuments(c *gin.Context) {
	w.handler.IndexDocuments(c)
}

func (w *wrapper) GetDocument(c *gin.Context) {
	w.handler.GetDocument(c, c.Param("id"))
}

func (w *wrapper) DeleteDocument(c *gin.Context) {
	params, err := parseWait(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, Error{Error: err.Error()})
		return
	}
	w.handler.DeleteDocument(c, c.Param("id"), params)
}

func (w *wrapper) Search(c *gin.Context) {
	params := SearchParams{Q: c.Query("q")}
	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, Error{Error: "invalid format for parameter limit: " + err.Error()})
			return
		}
		params.Limit = &limit
	}
	w.handler.Search(c, params)
}

func (w *wrapper) Flush(c *gin.Context) {
	w.handler.Flush(c)
}

func (w *wrapper) Reindex(c *gin.Context) {
	params, err := parseWait(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, Error{Error: err.Error()})
		return
	}
	w.handler.Reindex(c, params)
}

func (w *wrapper) GetStatus(c *gin.Context) {
	w.handler.GetStatus(c)
}

func parseWait(c *gin.Context) (WaitParams, error) {
	raw, ok := c.GetQuery("wait")
	if !ok {
		return WaitParams{}, nil
	}
	wait, err := strconv.ParseBool(raw)
	if err != nil {
		return WaitParams{}, err
	}
	return WaitParams{Wait: wait}, nil
}

// RegisterHandlers adds each server route to the router.
func RegisterHandlers(router gin.IRoutes, si ServerInterface) {
	w := &wrapper{handler: si}

	router.POST("/documents", w.IndexDocuments)
	router.GET("/documents/:id", w.GetDocument)
	router.DELETE("/documents/:id", w.DeleteDocument)
	router.GET("/search", w.Search)
	router.POST("/flush", w.Flush)
	router.POST("/reindex", w.Reindex)
	router.GET("/status", w.GetStatus)
}
