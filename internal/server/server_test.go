package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/theirongolddev/loanscope/internal/classifier"
	"github.com/theirongolddev/loanscope/internal/dataset"
	"github.com/theirongolddev/loanscope/internal/model"
	"github.com/theirongolddev/loanscope/internal/resultcache"
)

func testDataset(t *testing.T, header []string, rows ...[]string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromRecords(append([][]string{header}, rows...), "test")
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	return ds
}

func fullDataset(t *testing.T) *dataset.Dataset {
	return testDataset(t,
		[]string{"Gender", "Married", "Dependents", "ApplicantIncome", "CoapplicantIncome", "LoanAmount", "Loan_Amount_Term", "Credit_History", "Property_Area", "Loan_Status"},
		[]string{"Male", "Yes", "0", "5849", "0", "128", "360", "1", "Urban", "Y"},
		[]string{"Female", "No", "1", "4583", "1508", "128", "360", "0", "Rural", "N"},
		[]string{"Male", "Yes", "2", "3000", "0", "66", "360", "1", "Urban", "Y"},
	)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := New(Config{Dataset: fullDataset(t)})
	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestQuestionsList(t *testing.T) {
	s := New(Config{Dataset: fullDataset(t)})
	rec := do(t, s, http.MethodGet, "/v1/questions", "")

	var got []QuestionInfo
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("questions = %d, want 7", len(got))
	}
	if got[5].Kind != "distribution" {
		t.Errorf("question 6 kind = %q, want distribution", got[5].Kind)
	}
}

func TestQuestionStatusCodes(t *testing.T) {
	s := New(Config{Dataset: fullDataset(t)})
	tests := []struct {
		path string
		want int
	}{
		{"/v1/questions/1", http.StatusOK},
		{"/v1/questions/7", http.StatusOK},
		{"/v1/questions/abc", http.StatusBadRequest},
		{"/v1/questions/0", http.StatusNotFound},
		{"/v1/questions/8", http.StatusNotFound},
	}
	for _, tt := range tests {
		if rec := do(t, s, http.MethodGet, tt.path, ""); rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d (%s)", tt.path, rec.Code, tt.want, rec.Body.String())
		}
	}
}

func TestQuestionMissingColumn(t *testing.T) {
	ds := testDataset(t,
		[]string{"Married", "Loan_Status"},
		[]string{"Yes", "Y"},
	)
	s := New(Config{Dataset: ds})
	rec := do(t, s, http.MethodGet, "/v1/questions/1", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Column != "Gender" {
		t.Errorf("column = %q, want Gender", body.Column)
	}
}

func TestQuestionCached(t *testing.T) {
	cache := resultcache.NewMemory()
	s := New(Config{Dataset: fullDataset(t), Cache: cache})

	first := do(t, s, http.MethodGet, "/v1/questions/3", "")
	if first.Header().Get("X-Cache") != "miss" {
		t.Errorf("first request X-Cache = %q, want miss", first.Header().Get("X-Cache"))
	}
	second := do(t, s, http.MethodGet, "/v1/questions/3", "")
	if second.Header().Get("X-Cache") != "hit" {
		t.Errorf("second request X-Cache = %q, want hit", second.Header().Get("X-Cache"))
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached body differs from computed body")
	}
	if cache.Len() != 1 {
		t.Errorf("cache entries = %d, want 1", cache.Len())
	}

	var resp QuestionResponse
	if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.Total() != 3 {
		t.Errorf("result total = %d, want 3", resp.Result.Total())
	}
}

func TestFeatures(t *testing.T) {
	s := New(Config{Dataset: fullDataset(t)})
	rec := do(t, s, http.MethodPost, "/v1/features",
		`{"applicant_income": 5000, "coapplicant_income": 0, "loan_amount": 100, "loan_term": 0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body FeaturesResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Features.LoanMonthlyPaid != 0 {
		t.Errorf("monthly payment with zero term = %v, want 0", body.Features.LoanMonthlyPaid)
	}
	if body.Features.IncomeToLoanRatio != 0.05 {
		t.Errorf("ratio = %v, want 0.05", body.Features.IncomeToLoanRatio)
	}
	if body.IncomeAfterLoan != 5000 {
		t.Errorf("income after loan = %v, want 5000", body.IncomeAfterLoan)
	}
}

func TestFeaturesBadBody(t *testing.T) {
	s := New(Config{Dataset: fullDataset(t)})
	for _, body := range []string{`{`, `{"nope": 1}`} {
		if rec := do(t, s, http.MethodPost, "/v1/features", body); rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestFeaturesNonFinite(t *testing.T) {
	called := false
	s := New(Config{
		Dataset: fullDataset(t),
		Classifier: classifier.Func(func(model.FeatureRecord) (model.Label, error) {
			called = true
			return model.Approved, nil
		}),
	})

	for _, path := range []string{"/v1/features", "/v1/predict"} {
		rec := do(t, s, http.MethodPost, path, `{"loan_amount": -1}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s status = %d, want 422 (body %q)", path, rec.Code, rec.Body.String())
		}
		var body errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("%s decode: %v", path, err)
		}
		if body.Column != model.LogLoanAmount || body.Error == "" {
			t.Errorf("%s error body = %+v", path, body)
		}
	}
	if called {
		t.Error("classifier should not see non-finite features")
	}
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"x": math.Inf(-1)})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Error == "" {
		t.Fatalf("error body = %+v, %v", body, err)
	}
}

func TestPredict(t *testing.T) {
	var seen model.FeatureRecord
	c := classifier.Func(func(r model.FeatureRecord) (model.Label, error) {
		seen = r
		return model.Approved, nil
	})
	s := New(Config{Dataset: fullDataset(t), Classifier: c})

	rec := do(t, s, http.MethodPost, "/v1/predict", `{"log_income_to_loan_ratio": 4.5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body PredictResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Approved || body.Label != "Approved" {
		t.Errorf("label = %q approved=%v", body.Label, body.Approved)
	}
	if body.RequestID == "" || body.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("request id %q does not match header %q", body.RequestID, rec.Header().Get("X-Request-ID"))
	}
	if seen.LogIncomeToLoanRatio != 4.5 {
		t.Errorf("classifier saw log ratio %v, want the supplied 4.5", seen.LogIncomeToLoanRatio)
	}
}

func TestPredictWithoutModel(t *testing.T) {
	s := New(Config{Dataset: fullDataset(t)})
	if rec := do(t, s, http.MethodPost, "/v1/predict", `{}`); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestPredictFailureKeepsServing(t *testing.T) {
	c := classifier.Func(func(model.FeatureRecord) (model.Label, error) {
		return 0, fmt.Errorf("%w: schema mismatch", classifier.ErrPrediction)
	})
	s := New(Config{Dataset: fullDataset(t), Classifier: c})

	rec := do(t, s, http.MethodPost, "/v1/predict", `{}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "schema mismatch") {
		t.Errorf("body = %s", rec.Body.String())
	}
	if rec := do(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("server unhealthy after prediction failure: %d", rec.Code)
	}
}

func TestRecommendations(t *testing.T) {
	s := New(Config{Dataset: fullDataset(t)})
	rec := do(t, s, http.MethodGet, "/v1/recommendations", "")
	var body struct {
		Recommendations []struct{ Title string } `json:"recommendations"`
		Footnote        string                   `json:"footnote"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Recommendations) != 7 || body.Footnote == "" {
		t.Errorf("recommendations = %d, footnote %q", len(body.Recommendations), body.Footnote)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := New(Config{Dataset: fullDataset(t)})
	if rec := do(t, s, http.MethodGet, "/v1/predict", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/predict = %d, want 405", rec.Code)
	}
}
