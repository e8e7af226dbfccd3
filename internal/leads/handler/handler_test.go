package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadgenius_backend/internal/leads/client"
	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/internal/leads/intake"
	"leadgenius_backend/internal/leads/report"
	"leadgenius_backend/internal/leads/scoring"
	"leadgenius_backend/internal/leads/service"
	"leadgenius_backend/platform/httpkit"
	"leadgenius_backend/platform/logger"
	"leadgenius_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type stubBackend struct {
	score    *client.ScoreResponse
	scoreErr error
	lastReq  client.ScoreRequest
	err      error
}

func (s *stubBackend) Score(_ context.Context, req client.ScoreRequest) (*client.ScoreResponse, error) {
	s.lastReq = req
	return s.score, s.scoreErr
}

func (s *stubBackend) Compare(context.Context, domain.Attributes) (json.RawMessage, error) {
	return json.RawMessage(`{"bank":{"score":70}}`), s.err
}

func (s *stubBackend) Train(context.Context, domain.DatasetType, string) (json.RawMessage, error) {
	return json.RawMessage(`{"accuracy":0.91}`), s.err
}

func (s *stubBackend) Metrics(context.Context, domain.DatasetType, string) (json.RawMessage, error) {
	return json.RawMessage(`{"accuracy":0.91}`), s.err
}

func (s *stubBackend) FeatureImportance(context.Context, domain.DatasetType, string) (json.RawMessage, error) {
	return json.RawMessage(`[]`), s.err
}

func (s *stubBackend) Sample(context.Context, domain.DatasetType) (domain.Attributes, error) {
	return domain.NewAttributes("age", 35), s.err
}

func score(v float64) *float64 { return &v }

func newTestRouter(backend service.Backend) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.Discard()
	val := validator.New()
	svc := service.New(backend, nil, log)

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	New(svc, intake.NewChecker(val, "US"), val).RegisterRoutes(v1.Group("/leads"))
	NewMLHandler(svc, val).RegisterRoutes(v1.Group("/ml-scoring"))
	NewReportHandler(report.NewRenderer(), log).RegisterRoutes(v1.Group("/reports"))
	return engine
}

func do(engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) domain.ScoringResult {
	t.Helper()
	var result domain.ScoringResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("expected scoring result body, got %q", rec.Body.String())
	}
	return result
}

func TestScoreReturnsBackendResult(t *testing.T) {
	backend := &stubBackend{score: &client.ScoreResponse{Score: score(82), DatasetType: "bank"}}
	engine := newTestRouter(backend)

	rec := do(engine, http.MethodPost, "/api/v1/leads/score?dataset_type=bank", `{"age":30,"job":"management"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := decodeResult(t, rec)
	if result.Score != 82 || result.Status != domain.StatusHot || result.Probability != 0.82 {
		t.Fatalf("expected hot 82, got %+v", result)
	}
	if backend.lastReq.ModelType != domain.ModelRandomForest {
		t.Fatalf("expected default model, got %q", backend.lastReq.ModelType)
	}
}

func TestScoreReadsSelectorsFromBody(t *testing.T) {
	backend := &stubBackend{score: &client.ScoreResponse{Score: score(60), DatasetType: "lead_scoring"}}
	engine := newTestRouter(backend)

	rec := do(engine, http.MethodPost, "/api/v1/leads/score", `{"budget":0.5,"dataset_type":"lead_scoring","model_type":"random_forest"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if backend.lastReq.DatasetType != domain.DatasetLeadScoring {
		t.Fatalf("expected lead_scoring from body, got %q", backend.lastReq.DatasetType)
	}
	if backend.lastReq.Lead.Has("dataset_type") {
		t.Fatal("expected selectors stripped from the forwarded lead")
	}
}

func TestScoreFallsBackWhenBackendDown(t *testing.T) {
	backend := &stubBackend{scoreErr: errors.New("connection refused")}
	engine := newTestRouter(backend)

	rec := do(engine, http.MethodPost, "/api/v1/leads/score?dataset_type=bank",
		`{"age":30,"job":"management","education":"university.degree","previous":1}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := decodeResult(t, rec)
	if result.Score != 90 || result.Error != scoring.FallbackNotice {
		t.Fatalf("expected fallback 90 with notice, got %+v", result)
	}
}

func TestScoreRejectsUnknownDataset(t *testing.T) {
	engine := newTestRouter(&stubBackend{})

	rec := do(engine, http.MethodPost, "/api/v1/leads/score?dataset_type=crm", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body httpkit.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != msgValidationFailed {
		t.Fatalf("expected %q, got %q", msgValidationFailed, body.Error)
	}
}

func TestScoreRejectsNonObjectBody(t *testing.T) {
	engine := newTestRouter(&stubBackend{})

	rec := do(engine, http.MethodPost, "/api/v1/leads/score", `[1,2]`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFallbackScoreNeverCallsBackend(t *testing.T) {
	backend := &stubBackend{}
	engine := newTestRouter(backend)

	rec := do(engine, http.MethodPost, "/api/v1/leads/fallback-score?dataset_type=lead_scoring",
		`{"budget":1,"authority":1,"need":1,"timeframe":1,"engagement_level":1,"website_visits":6,"time_spent":11}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := decodeResult(t, rec)
	if result.Score != 100 || result.DatasetType != domain.DatasetLeadScoring {
		t.Fatalf("expected lead_scoring 100, got %+v", result)
	}
	if backend.lastReq.Lead.Len() != 0 {
		t.Fatal("expected backend untouched")
	}
}

func TestFormReturnsCatalogue(t *testing.T) {
	engine := newTestRouter(&stubBackend{})

	rec := do(engine, http.MethodGet, "/api/v1/leads/form?dataset_type=lead_scoring", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		DatasetType string         `json:"datasetType"`
		Fields      []intake.Field `json:"fields"`
		Defaults    map[string]any `json:"defaults"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected form body, got %v", err)
	}
	if body.DatasetType != "lead_scoring" || len(body.Fields) != len(intake.Fields(domain.DatasetLeadScoring)) {
		t.Fatalf("expected lead_scoring catalogue, got %s with %d fields", body.DatasetType, len(body.Fields))
	}
	if body.Defaults["budget"] != 0.7 {
		t.Fatalf("expected budget default 0.7, got %v", body.Defaults["budget"])
	}
}

func TestValidateReportsFieldProblems(t *testing.T) {
	engine := newTestRouter(&stubBackend{})

	rec := do(engine, http.MethodPost, "/api/v1/leads/validate?dataset_type=bank", `{"name":"Ana","age":"old"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != msgLeadInvalid || body.Details["age"] != "Age must be a number" {
		t.Fatalf("expected age problem, got %+v", body)
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	engine := newTestRouter(&stubBackend{})
	payload, _ := json.Marshal(intake.Defaults(domain.DatasetBank))

	rec := do(engine, http.MethodPost, "/api/v1/leads/validate", string(payload))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"valid":true`) {
		t.Fatalf("expected valid, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestModelEndpointsRelayBackendJSON(t *testing.T) {
	engine := newTestRouter(&stubBackend{})

	rec := do(engine, http.MethodGet, "/api/v1/ml-scoring/metrics?dataset_type=bank&model_type=transformer", "")

	if rec.Code != http.StatusOK || rec.Body.String() != `{"accuracy":0.91}` {
		t.Fatalf("expected relayed metrics, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestModelEndpointsMapBackendFailure(t *testing.T) {
	engine := newTestRouter(&stubBackend{err: &client.BackendError{Endpoint: "train", Status: 500}})

	cases := map[string]string{
		"/api/v1/ml-scoring/train":              "Failed to train model",
		"/api/v1/ml-scoring/metrics":            "Failed to fetch model metrics",
		"/api/v1/ml-scoring/feature-importance": "Failed to fetch feature importance",
	}
	for target, msg := range cases {
		rec := do(engine, http.MethodGet, target, "")
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("%s: expected 502, got %d", target, rec.Code)
		}
		var body httpkit.ErrorResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		if body.Error != msg {
			t.Fatalf("%s: expected %q, got %q", target, msg, body.Error)
		}
	}

	rec := do(engine, http.MethodPost, "/api/v1/ml-scoring/compare", `{"age":30}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for compare, got %d", rec.Code)
	}
}

func TestSampleServesBuiltinForLeadScoring(t *testing.T) {
	engine := newTestRouter(&stubBackend{})

	rec := do(engine, http.MethodGet, "/api/v1/ml-scoring/sample?dataset_type=lead_scoring", "")

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"budget"`) {
		t.Fatalf("expected built-in B2B sample, got %d %s", rec.Code, rec.Body.String())
	}
}

const reportBody = `{"leadData":{"name":"Jane Doe","age":35,"job":"management"},` +
	`"scoringResult":{"score":82,"probability":0.82,"status":"hot","dataset_type":"bank"}}`

func TestHTMLReport(t *testing.T) {
	engine := newTestRouter(&stubBackend{})

	rec := do(engine, http.MethodPost, "/api/v1/reports/html", reportBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != contentTypeHTML {
		t.Fatalf("expected %s, got %s", contentTypeHTML, ct)
	}
	if csp := rec.Header().Get("Content-Security-Policy"); csp != httpkit.ReportCSP {
		t.Fatalf("expected report CSP, got %q", csp)
	}
	if !strings.Contains(rec.Body.String(), "Jane Doe") {
		t.Fatal("expected lead name in report")
	}
}

func TestHTMLReportFailureEnvelope(t *testing.T) {
	engine := newTestRouter(&stubBackend{})

	rec := do(engine, http.MethodPost, "/api/v1/reports/html", `{"leadData":`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if rec.Body.String() != `{"error":"Failed to generate report"}` {
		t.Fatalf("expected fixed envelope, got %s", rec.Body.String())
	}
}

func TestPDFReport(t *testing.T) {
	engine := newTestRouter(&stubBackend{})

	rec := do(engine, http.MethodPost, "/api/v1/reports/pdf", reportBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != contentTypePDF {
		t.Fatalf("expected %s, got %s", contentTypePDF, ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=Jane_Doe_lead_report.pdf" {
		t.Fatalf("expected derived filename, got %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("expected PDF body")
	}
}

func TestPDFReportDispositionIsWellFormed(t *testing.T) {
	engine := newTestRouter(&stubBackend{})
	cases := map[string]string{
		`Ana "Bo"; x=1`: "Ana__Bo___x=1_lead_report.pdf",
		"../../etc":     ".._.._etc_lead_report.pdf",
		"Zoë":           "Zoë_lead_report.pdf",
	}

	for name, want := range cases {
		lead, _ := json.Marshal(name)
		body := `{"leadData":{"name":` + string(lead) + `},"scoringResult":{"score":80,"status":"hot"}}`
		rec := do(engine, http.MethodPost, "/api/v1/reports/pdf", body)

		_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
		if err != nil {
			t.Fatalf("%s: expected parseable disposition, got %v", name, err)
		}
		if params["filename"] != want {
			t.Fatalf("%s: expected filename %q, got %q", name, want, params["filename"])
		}
	}
}

func TestPDFReportFailureEnvelope(t *testing.T) {
	engine := newTestRouter(&stubBackend{})

	rec := do(engine, http.MethodPost, "/api/v1/reports/pdf", `not json`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body httpkit.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != msgPDFFailed || body.Details == nil {
		t.Fatalf("expected PDF failure with details, got %+v", body)
	}
}
