// Package client talks to the external ML scoring backend over HTTP/JSON.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/platform/config"
	"leadgenius_backend/platform/logger"
	"leadgenius_backend/platform/metrics"
)

const (
	scorePath             = "/api/ml-scoring/score"
	comparePath           = "/api/ml-scoring/compare-models"
	trainPath             = "/api/ml-scoring/train"
	metricsPath           = "/api/ml-scoring/metrics"
	featureImportancePath = "/api/ml-scoring/feature-importance"
	samplePath            = "/api/ml-scoring/sample"

	defaultHTTPTimeout = 30 * time.Second
	maxResponseBytes   = 4 << 20
	maxErrorBodyBytes  = 2048
)

// ErrMissingScore is returned when a successful score response has no score.
var ErrMissingScore = errors.New("scoring backend response has no score")

// BackendError is a non-2xx answer from the backend.
type BackendError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *BackendError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("scoring backend %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("scoring backend %s: status %d: %s", e.Endpoint, e.Status, e.Body)
}

// ScoreRequest is one lead to score.
type ScoreRequest struct {
	Lead        domain.Attributes
	DatasetType domain.DatasetType
	ModelType   string
}

// ScoreResponse is the backend's scoring answer. Fields are optional because
// error answers may carry only some of them.
type ScoreResponse struct {
	Score       *float64 `json:"score"`
	Probability *float64 `json:"probability"`
	Status      string   `json:"status"`
	DatasetType string   `json:"dataset_type"`
	Error       string   `json:"error"`
}

// Client handles scoring backend requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a backend client. A zero timeout falls back to 30s.
func New(cfg config.ScoringBackendConfig, log *logger.Logger) *Client {
	timeout := cfg.GetScoringBackendTimeout()
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.GetScoringBackendURL(), "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Score posts the lead with dataset_type and model_type merged in.
// A response carrying a score is returned even when the status is not 2xx.
func (c *Client) Score(ctx context.Context, req ScoreRequest) (*ScoreResponse, error) {
	body := req.Lead.Clone()
	body.Set("dataset_type", string(req.DatasetType))
	body.Set("model_type", req.ModelType)

	raw, status, err := c.do(ctx, http.MethodPost, scorePath, nil, body)
	if err != nil {
		return nil, err
	}

	var out ScoreResponse
	decodeErr := json.Unmarshal(raw, &out)
	if decodeErr == nil && out.Score != nil {
		return &out, nil
	}
	if !isSuccess(status) {
		return nil, c.backendError(scorePath, status, raw)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode score response: %w", decodeErr)
	}
	return nil, ErrMissingScore
}

// Compare asks the backend to score attrs with every model.
func (c *Client) Compare(ctx context.Context, attrs domain.Attributes) (json.RawMessage, error) {
	return c.passThrough(ctx, http.MethodPost, comparePath, nil, attrs)
}

// Train triggers a (re)training run and returns the resulting metrics.
func (c *Client) Train(ctx context.Context, dataset domain.DatasetType, model string) (json.RawMessage, error) {
	return c.passThrough(ctx, http.MethodGet, trainPath, modelQuery(dataset, model), nil)
}

// Metrics returns the current model metrics.
func (c *Client) Metrics(ctx context.Context, dataset domain.DatasetType, model string) (json.RawMessage, error) {
	return c.passThrough(ctx, http.MethodGet, metricsPath, modelQuery(dataset, model), nil)
}

// FeatureImportance returns the model's feature importance list.
func (c *Client) FeatureImportance(ctx context.Context, dataset domain.DatasetType, model string) (json.RawMessage, error) {
	return c.passThrough(ctx, http.MethodGet, featureImportancePath, modelQuery(dataset, model), nil)
}

// Sample returns the backend's sample lead for dataset.
func (c *Client) Sample(ctx context.Context, dataset domain.DatasetType) (domain.Attributes, error) {
	q := url.Values{}
	if dataset != "" {
		q.Set("dataset_type", string(dataset))
	}
	raw, err := c.passThrough(ctx, http.MethodGet, samplePath, q, nil)
	if err != nil {
		return domain.Attributes{}, err
	}
	var attrs domain.Attributes
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return domain.Attributes{}, fmt.Errorf("decode sample lead: %w", err)
	}
	return attrs, nil
}

func (c *Client) passThrough(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	raw, status, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, c.backendError(path, status, raw)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("scoring backend %s: invalid JSON response", path)
	}
	return json.RawMessage(raw), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, int, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		c.log.UpstreamError(path, 0, err)
		return nil, 0, fmt.Errorf("scoring backend %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.log.UpstreamError(path, resp.StatusCode, err)
		return nil, resp.StatusCode, fmt.Errorf("read %s response: %w", path, err)
	}
	return raw, resp.StatusCode, nil
}

func (c *Client) backendError(path string, status int, raw []byte) error {
	body := strings.TrimSpace(string(raw))
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	err := &BackendError{Endpoint: path, Status: status, Body: body}
	c.log.UpstreamError(path, status, err)
	return err
}

func modelQuery(dataset domain.DatasetType, model string) url.Values {
	q := url.Values{}
	if dataset != "" {
		q.Set("dataset_type", string(dataset))
	}
	if model != "" {
		q.Set("model_type", model)
	}
	return q
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
