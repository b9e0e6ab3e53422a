package infra

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Cluster is an in-process search cluster speaking the bulk and refresh
// endpoints. Documents are kept per index.
type Cluster struct {
	server *httptest.Server
	token  string

	mu        sync.Mutex
	indexes   map[string]map[string]json.RawMessage
	refreshes map[string]int
	failNext  int
}

// NewCluster starts the cluster. When token is not empty every request must
// carry it as a bearer token.
func NewCluster(token string) *Cluster {
	c := &Cluster{
		token:     token,
		indexes:   make(map[string]map[string]json.RawMessage),
		refreshes: make(map[string]int),
	}
	c.server = httptest.NewServer(http.HandlerFunc(c.handle))
	zap.S().Named("e2e_cluster").Infow("search cluster started", "url", c.server.URL)
	return c
}

func (c *Cluster) URL() string {
	return c.server.URL
}

func (c *Cluster) Close() {
	c.server.Close()
}

// FailNext makes the next n requests answer 503.
func (c *Cluster) FailNext(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failNext = n
}

// Documents returns a copy of the documents of index, keyed by id.
func (c *Cluster) Documents(index string) map[string]json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	docs := make(map[string]json.RawMessage, len(c.indexes[index]))
	for id, d := range c.indexes[index] {
		docs[id] = d
	}
	return docs
}

func (c *Cluster) Refreshes(index string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshes[index]
}

func (c *Cluster) handle(w http.ResponseWriter, r *http.Request) {
	if c.token != "" && r.Header.Get("Authorization") != "Bearer "+c.token {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	c.mu.Lock()
	if c.failNext > 0 {
		c.failNext--
		c.mu.Unlock()
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	c.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if r.Method != http.MethodPost || len(parts) != 2 {
		http.NotFound(w, r)
		return
	}

	switch parts[1] {
	case "_bulk":
		c.bulk(w, r, parts[0])
	case "_refresh":
		c.mu.Lock()
		c.refreshes[parts[0]]++
		c.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	default:
		http.NotFound(w, r)
	}
}

type bulkMeta struct {
	ID string `json:"_id"`
}

func (c *Cluster) bulk(w http.ResponseWriter, r *http.Request, index string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	docs, ok := c.indexes[index]
	if !ok {
		docs = make(map[string]json.RawMessage)
		c.indexes[index] = docs
	}

	var items []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var meta map[string]bulkMeta
		if err := json.Unmarshal(scanner.Bytes(), &meta); err != nil {
			http.Error(w, fmt.Sprintf("bad action line: %v", err), http.StatusBadRequest)
			return
		}
		for action, m := range meta {
			switch action {
			case "index":
				if !scanner.Scan() {
					http.Error(w, "missing source line", http.StatusBadRequest)
					return
				}
				docs[m.ID] = append(json.RawMessage(nil), scanner.Bytes()...)
				items = append(items, map[string]any{action: map[string]any{"_id": m.ID, "status": http.StatusCreated}})
			case "delete":
				status := http.StatusOK
				if _, found := docs[m.ID]; !found {
					status = http.StatusNotFound
				}
				delete(docs, m.ID)
				items = append(items, map[string]any{action: map[string]any{"_id": m.ID, "status": status}})
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"took": 1, "errors": false, "items": items})
}
