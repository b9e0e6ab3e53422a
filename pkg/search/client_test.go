package search_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/kubev2v/index-orchestrator/pkg/errors"
	"github.com/kubev2v/index-orchestrator/pkg/search"
)

type testDoc struct {
	Title string `json:"title"`
}

var _ = Describe("Client", func() {
	var (
		ctx     context.Context
		server  *httptest.Server
		calls   atomic.Int32
		handler http.HandlerFunc
		client  *search.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		calls.Store(0)
		handler = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			handler(w, r)
		}))

		var err error
		client, err = search.NewClient(server.URL,
			search.WithMaxRetries(3),
			search.WithRetryInterval(time.Millisecond, 5*time.Millisecond),
			search.WithToken("secret"),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	It("should refuse an invalid base url", func() {
		_, err := search.NewClient("not a url")
		Expect(err).To(HaveOccurred())
	})

	Context("Bulk", func() {
		It("should send actions as NDJSON", func() {
			// Arrange
			var lines []string
			var path, contentType, auth string
			handler = func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				contentType = r.Header.Get("Content-Type")
				auth = r.Header.Get("Authorization")
				sc := bufio.NewScanner(r.Body)
				for sc.Scan() {
					lines = append(lines, sc.Text())
				}
				_, _ = io.WriteString(w, `{"took":3,"errors":false,"items":[]}`)
			}

			// Act
			err := client.Bulk(ctx, "books", []search.BulkAction{
				{Type: search.ActionIndex, ID: "d1", Source: testDoc{Title: "Dune"}},
				{Type: search.ActionDelete, ID: "d2"},
			})

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal("/books/_bulk"))
			Expect(contentType).To(Equal("application/x-ndjson"))
			Expect(auth).To(Equal("Bearer secret"))
			Expect(lines).To(Equal([]string{
				`{"index":{"_index":"books","_id":"d1"}}`,
				`{"title":"Dune"}`,
				`{"delete":{"_index":"books","_id":"d2"}}`,
			}))
		})

		It("should not call the cluster for an empty batch", func() {
			Expect(client.Bulk(ctx, "books", nil)).To(Succeed())
			Expect(calls.Load()).To(BeZero())
		})

		It("should refuse an action without id", func() {
			err := client.Bulk(ctx, "books", []search.BulkAction{{Type: search.ActionIndex}})

			Expect(err).To(HaveOccurred())
			Expect(calls.Load()).To(BeZero())
		})

		It("should retry server errors", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				if calls.Load() < 3 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				_, _ = io.WriteString(w, `{"errors":false}`)
			}

			err := client.Bulk(ctx, "books", []search.BulkAction{{Type: search.ActionDelete, ID: "d1"}})

			Expect(err).NotTo(HaveOccurred())
			Expect(calls.Load()).To(Equal(int32(3)))
		})

		It("should retry when the cluster is busy", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				if calls.Load() == 1 {
					w.WriteHeader(http.StatusTooManyRequests)
					return
				}
				_, _ = io.WriteString(w, `{"errors":false}`)
			}

			err := client.Bulk(ctx, "books", []search.BulkAction{{Type: search.ActionDelete, ID: "d1"}})

			Expect(err).NotTo(HaveOccurred())
			Expect(calls.Load()).To(Equal(int32(2)))
		})

		It("should give up after the maximum number of tries", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}

			err := client.Bulk(ctx, "books", []search.BulkAction{{Type: search.ActionDelete, ID: "d1"}})

			Expect(err).To(HaveOccurred())
			Expect(calls.Load()).To(Equal(int32(3)))
		})

		It("should not retry a bad request", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, "malformed")
			}

			err := client.Bulk(ctx, "books", []search.BulkAction{{Type: search.ActionDelete, ID: "d1"}})

			Expect(err).To(MatchError(ContainSubstring("malformed")))
			Expect(calls.Load()).To(Equal(int32(1)))
		})

		It("should report refused credentials", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}

			err := client.Bulk(ctx, "books", []search.BulkAction{{Type: search.ActionDelete, ID: "d1"}})

			Expect(srvErrors.IsUnauthorizedError(err)).To(BeTrue())
			Expect(calls.Load()).To(Equal(int32(1)))
		})

		It("should report the items the cluster refused", func() {
			// Given a response where one index action failed and a delete hit a missing doc
			handler = func(w http.ResponseWriter, r *http.Request) {
				resp := map[string]any{
					"took":   1,
					"errors": true,
					"items": []map[string]any{
						{"index": map[string]any{"_id": "d1", "status": 201}},
						{"index": map[string]any{"_id": "d2", "status": 400,
							"error": map[string]any{"type": "mapper_parsing_exception", "reason": "bad field"}}},
						{"delete": map[string]any{"_id": "d3", "status": 404}},
					},
				}
				_ = json.NewEncoder(w).Encode(resp)
			}

			// When
			err := client.Bulk(ctx, "books", []search.BulkAction{
				{Type: search.ActionIndex, ID: "d1", Source: testDoc{}},
				{Type: search.ActionIndex, ID: "d2", Source: testDoc{}},
				{Type: search.ActionDelete, ID: "d3"},
			})

			// Then
			Expect(srvErrors.IsIndexingError(err)).To(BeTrue())
			var ie *srvErrors.IndexingError
			Expect(err).To(BeAssignableToTypeOf(ie))
			ie = err.(*srvErrors.IndexingError)
			Expect(ie.Failed).To(HaveLen(1))
			Expect(ie.Failed).To(HaveKeyWithValue("d2", "mapper_parsing_exception: bad field"))
		})

		It("should stop when the context ends", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			err := client.Bulk(cctx, "books", []search.BulkAction{{Type: search.ActionDelete, ID: "d1"}})

			Expect(err).To(HaveOccurred())
			Expect(calls.Load()).To(BeNumerically("<=", 1))
		})
	})

	Context("Refresh", func() {
		It("should post to the refresh endpoint", func() {
			var method, path string
			handler = func(w http.ResponseWriter, r *http.Request) {
				method, path = r.Method, r.URL.Path
				w.WriteHeader(http.StatusOK)
			}

			Expect(client.Refresh(ctx, "books")).To(Succeed())

			Expect(method).To(Equal(http.MethodPost))
			Expect(strings.TrimSuffix(path, "/")).To(Equal("/books/_refresh"))
		})
	})
})
