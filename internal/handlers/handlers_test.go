package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/index-orchestrator/api/v1"
	"github.com/kubev2v/index-orchestrator/internal/handlers"
	"github.com/kubev2v/index-orchestrator/internal/index"
	"github.com/kubev2v/index-orchestrator/internal/models"
	"github.com/kubev2v/index-orchestrator/internal/services"
	"github.com/kubev2v/index-orchestrator/internal/store"
	"github.com/kubev2v/index-orchestrator/internal/store/migrations"
	"github.com/kubev2v/index-orchestrator/pkg/executor"
	"github.com/kubev2v/index-orchestrator/pkg/scheduler"
)

// hookRefresher counts refreshes and hands the count to onRefresh.
type hookRefresher struct {
	calls     atomic.Int32
	onRefresh func(calls int)
}

func (r *hookRefresher) Refresh(ctx context.Context, index string) error {
	r.onRefresh(int(r.calls.Add(1)))
	return nil
}

var _ = Describe("Handler", func() {
	var (
		ctx      context.Context
		db       *sql.DB
		st       *store.Store
		indexing *services.IndexingService
		sched    *scheduler.Scheduler
		mi       *services.MassIndexer
		router   *gin.Engine
	)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var reader *bytes.Reader
		if body != nil {
			data, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(data)
		} else {
			reader = bytes.NewReader(nil)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())
		st = store.NewStore(db)

		indexing = services.NewIndexingService(st, []index.Writer{index.NewLocalWriter(st.Documents(), 0)},
			executor.Options{MaxTasksPerBatch: 10}, nil, nil)
		Expect(indexing.Start(ctx)).To(Succeed())

		sched = scheduler.NewNamedScheduler("mass-indexer", 1)
		mi = services.NewMassIndexer(st.Entities(), indexing, sched, 10, nil)

		router = gin.New()
		v1.RegisterHandlers(router.Group("/api/v1"), handlers.New(indexing, services.NewDocumentService(st), mi))
	})

	AfterEach(func() {
		mi.Stop()
		sched.Close()
		_ = indexing.Stop(ctx)
		db.Close()
	})

	Context("POST /documents", func() {
		// Given a batch of add operations with wait
		// When it is posted
		// Then every document is indexed before the response
		It("should index documents and wait for them", func() {
			// Act
			w := do(http.MethodPost, "/api/v1/documents", v1.IndexRequest{
				Operations: []v1.Operation{
					{Type: v1.OperationTypeAdd, Entity: v1.Entity{Id: "e1", Title: "Dune", Body: "desert planet"}},
					{Type: v1.OperationTypeAdd, Entity: v1.Entity{Id: "e2", Title: "Emma", Body: "matchmaking"}},
				},
				Wait: true,
			})

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.IndexResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Accepted).To(Equal(2))
			Expect(resp.Failed).To(BeEmpty())

			doc, err := st.Documents().Get(ctx, "e1")
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Title).To(Equal("Dune"))
		})

		It("should accept operations without waiting", func() {
			w := do(http.MethodPost, "/api/v1/documents", v1.IndexRequest{
				Operations: []v1.Operation{{Type: v1.OperationTypeAdd, Entity: v1.Entity{Id: "e1"}}},
			})

			Expect(w.Code).To(Equal(http.StatusAccepted))
			Eventually(func() error {
				_, err := st.Documents().Get(ctx, "e1")
				return err
			}).Should(Succeed())
		})

		It("should return 400 for an invalid operation type", func() {
			w := do(http.MethodPost, "/api/v1/documents", v1.IndexRequest{
				Operations: []v1.Operation{{Type: "upsert", Entity: v1.Entity{Id: "e1"}}},
			})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 for an operation without id", func() {
			w := do(http.MethodPost, "/api/v1/documents", v1.IndexRequest{
				Operations: []v1.Operation{{Type: v1.OperationTypeAdd}},
			})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 for an empty batch", func() {
			w := do(http.MethodPost, "/api/v1/documents", v1.IndexRequest{})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", bytes.NewBufferString("{"))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		// Given a stopped indexing service
		// When operations are posted
		// Then the request is rejected as unavailable
		It("should return 503 once indexing is stopped", func() {
			// Arrange
			Expect(indexing.Stop(ctx)).To(Succeed())

			// Act
			w := do(http.MethodPost, "/api/v1/documents", v1.IndexRequest{
				Operations: []v1.Operation{{Type: v1.OperationTypeAdd, Entity: v1.Entity{Id: "e1"}}},
			})

			// Assert
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Context("GET /documents/{id}", func() {
		It("should return the document", func() {
			Expect(do(http.MethodPost, "/api/v1/documents", v1.IndexRequest{
				Operations: []v1.Operation{{Type: v1.OperationTypeAdd, Entity: v1.Entity{Id: "e1", Title: "Dune"}}},
				Wait:       true,
			}).Code).To(Equal(http.StatusOK))

			w := do(http.MethodGet, "/api/v1/documents/e1", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var doc v1.Document
			Expect(json.Unmarshal(w.Body.Bytes(), &doc)).To(Succeed())
			Expect(doc.Id).To(Equal("e1"))
			Expect(doc.Title).To(Equal("Dune"))
		})

		It("should return 404 for an unknown document", func() {
			w := do(http.MethodGet, "/api/v1/documents/missing", nil)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("DELETE /documents/{id}", func() {
		// Given an indexed document
		// When it is deleted with wait
		// Then it is gone from the index and from the entity store
		It("should delete the document and its entity", func() {
			// Arrange
			Expect(do(http.MethodPost, "/api/v1/documents", v1.IndexRequest{
				Operations: []v1.Operation{{Type: v1.OperationTypeAdd, Entity: v1.Entity{Id: "e1"}}},
				Wait:       true,
			}).Code).To(Equal(http.StatusOK))

			// Act
			w := do(http.MethodDelete, "/api/v1/documents/e1?wait=true", nil)

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(do(http.MethodGet, "/api/v1/documents/e1", nil).Code).To(Equal(http.StatusNotFound))
			count, err := st.Entities().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("should return 400 for a malformed wait parameter", func() {
			w := do(http.MethodDelete, "/api/v1/documents/e1?wait=maybe", nil)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("GET /search", func() {
		BeforeEach(func() {
			Expect(do(http.MethodPost, "/api/v1/documents", v1.IndexRequest{
				Operations: []v1.Operation{
					{Type: v1.OperationTypeAdd, Entity: v1.Entity{Id: "e1", Title: "Dune", Body: "spice on a desert planet"}},
					{Type: v1.OperationTypeAdd, Entity: v1.Entity{Id: "e2", Title: "Emma", Body: "a matchmaker in Highbury"}},
				},
				Wait: true,
			}).Code).To(Equal(http.StatusOK))
		})

		It("should return matching documents", func() {
			w := do(http.MethodGet, "/api/v1/search?q=DESERT", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.SearchResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Query).To(Equal("DESERT"))
			Expect(resp.Total).To(Equal(1))
			Expect(resp.Hits[0].Id).To(Equal("e1"))
		})

		It("should honour the limit", func() {
			w := do(http.MethodGet, "/api/v1/search?q=&limit=1", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.SearchResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Hits).To(HaveLen(1))
		})

		DescribeTable("should reject bad limits",
			func(query string) {
				Expect(do(http.MethodGet, "/api/v1/search?q=a&limit="+query, nil).Code).To(Equal(http.StatusBadRequest))
			},
			Entry("not a number", "ten"),
			Entry("zero", "0"),
			Entry("negative", "-3"),
		)
	})

	Context("POST /reindex", func() {
		// Given entities stored without documents
		// When a reindex is requested with wait
		// Then every entity is indexed and the run is reported
		It("should rebuild the index from the entities", func() {
			// Arrange
			for _, id := range []string{"a", "b", "c"} {
				Expect(st.Entities().Save(ctx, models.Entity{ID: id, Title: id})).To(Succeed())
			}

			// Act
			w := do(http.MethodPost, "/api/v1/reindex?wait=true", nil)

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			var status v1.MassIndexerStatus
			Expect(json.Unmarshal(w.Body.Bytes(), &status)).To(Succeed())
			Expect(status.State).To(Equal("idle"))
			Expect(status.Runs).To(Equal(1))
			Expect(status.LastIndexed).To(Equal(3))
			Expect(status.RunId).NotTo(BeNil())

			count, err := st.Documents().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))
		})

		// Given a reindex that is finishing
		// When another reindex with wait arrives before it goes idle
		// Then the response reports a run started after the request
		It("should wait for a run started after the request", func() {
			// Arrange
			Expect(st.Entities().Save(ctx, models.Entity{ID: "a", Title: "a"})).To(Succeed())
			responses := make(chan *httptest.ResponseRecorder, 1)
			refresher := &hookRefresher{onRefresh: func(calls int) {
				if calls == 1 {
					go func() {
						defer GinkgoRecover()
						responses <- do(http.MethodPost, "/api/v1/reindex?wait=true", nil)
					}()
					time.Sleep(100 * time.Millisecond)
				}
			}}
			mi.Stop()
			mi = services.NewMassIndexer(st.Entities(), indexing, sched, 10, nil, services.WithRefresh(refresher, "books"))
			router = gin.New()
			v1.RegisterHandlers(router.Group("/api/v1"), handlers.New(indexing, services.NewDocumentService(st), mi))

			// Act
			first := do(http.MethodPost, "/api/v1/reindex?wait=true", nil)
			Expect(first.Code).To(Equal(http.StatusOK))
			var w *httptest.ResponseRecorder
			Eventually(responses).Should(Receive(&w))

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			var status v1.MassIndexerStatus
			Expect(json.Unmarshal(w.Body.Bytes(), &status)).To(Succeed())
			Expect(status.Runs).To(Equal(2))
			Expect(status.LastIndexed).To(Equal(1))
		})

		It("should accept a reindex without waiting", func() {
			w := do(http.MethodPost, "/api/v1/reindex", nil)

			Expect(w.Code).To(Equal(http.StatusAccepted))
			Eventually(func() int { return mi.Status().Runs }).Should(Equal(1))
		})
	})

	Context("GET /status and POST /flush", func() {
		It("should report backends and document count", func() {
			Expect(do(http.MethodPost, "/api/v1/documents", v1.IndexRequest{
				Operations: []v1.Operation{{Type: v1.OperationTypeAdd, Entity: v1.Entity{Id: "e1"}}},
			}).Code).To(Equal(http.StatusAccepted))

			w := do(http.MethodPost, "/api/v1/flush", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var status v1.Status
			Expect(json.Unmarshal(w.Body.Bytes(), &status)).To(Succeed())
			Expect(status.Documents).To(Equal(1))
			Expect(status.Backends).To(HaveLen(1))
			Expect(status.Backends[0].Name).To(Equal("local"))
			Expect(status.Backends[0].State).To(Equal("accepting"))
			Expect(status.MassIndexer.State).To(Equal("idle"))
		})
	})
})
