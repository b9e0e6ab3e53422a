package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	v1 "github.com/kubev2v/index-orchestrator/api/v1"
)

const (
	apiV1DocumentsPath = "/api/v1/documents"
	apiV1SearchPath    = "/api/v1/search"
	apiV1FlushPath     = "/api/v1/flush"
	apiV1ReindexPath   = "/api/v1/reindex"
	apiV1StatusPath    = "/api/v1/status"
)

// TokenGenerator is a function that generates a JWT token for a subject.
type TokenGenerator func(subject string) (string, error)

// IndexerSvc calls the indexer api.
type IndexerSvc struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewIndexerService(baseURL string) *IndexerSvc {
	return &IndexerSvc{baseURL: baseURL, client: http.DefaultClient}
}

// WithAuth returns a copy of the service that sends a token for subject.
func (s *IndexerSvc) WithAuth(subject string, tokenGen TokenGenerator) (*IndexerSvc, error) {
	token, err := tokenGen(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token for %q: %w", subject, err)
	}
	return &IndexerSvc{baseURL: s.baseURL, token: token, client: s.client}, nil
}

// Response is a raw api answer.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) Decode(out any) error {
	return json.Unmarshal(r.Body, out)
}

func (s *IndexerSvc) Index(ops []v1.Operation, wait bool) (*Response, error) {
	return s.do(http.MethodPost, apiV1DocumentsPath, v1.IndexRequest{Operations: ops, Wait: wait})
}

func (s *IndexerSvc) GetDocument(id string) (*Response, error) {
	return s.do(http.MethodGet, apiV1DocumentsPath+"/"+url.PathEscape(id), nil)
}

func (s *IndexerSvc) DeleteDocument(id string, wait bool) (*Response, error) {
	return s.do(http.MethodDelete, apiV1DocumentsPath+"/"+url.PathEscape(id)+"?wait="+strconv.FormatBool(wait), nil)
}

func (s *IndexerSvc) Search(q string, limit int) (*Response, error) {
	query := url.Values{"q": {q}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return s.do(http.MethodGet, apiV1SearchPath+"?"+query.Encode(), nil)
}

func (s *IndexerSvc) Flush() (*Response, error) {
	return s.do(http.MethodPost, apiV1FlushPath, nil)
}

func (s *IndexerSvc) Reindex(wait bool) (*Response, error) {
	return s.do(http.MethodPost, apiV1ReindexPath+"?wait="+strconv.FormatBool(wait), nil)
}

func (s *IndexerSvc) Status() (*Response, error) {
	return s.do(http.MethodGet, apiV1StatusPath, nil)
}

func (s *IndexerSvc) do(method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	zap.S().Named("e2e_client").Debugw("api call", "method", method, "path", path, "status", resp.StatusCode)
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
