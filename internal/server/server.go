// Package server exposes insights and predictions over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/theirongolddev/loanscope/internal/classifier"
	"github.com/theirongolddev/loanscope/internal/dataset"
	"github.com/theirongolddev/loanscope/internal/features"
	"github.com/theirongolddev/loanscope/internal/insights"
	"github.com/theirongolddev/loanscope/internal/model"
	"github.com/theirongolddev/loanscope/internal/resultcache"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Config controls the server.
type Config struct {
	Addr       string
	Dataset    *dataset.Dataset
	Classifier classifier.Classifier // nil disables /v1/predict
	Cache      resultcache.Cache     // nil uses an in-process cache
}

// Server serves the HTTP API.
type Server struct {
	cfg         Config
	fingerprint uint64
	router      *mux.Router
}

type ctxKey int

const requestIDKey ctxKey = 0

// New returns a server for cfg. cfg.Dataset must be non-nil.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8750"
	}
	if cfg.Cache == nil {
		cfg.Cache = resultcache.NewMemory()
	}

	s := &Server{
		cfg:         cfg,
		fingerprint: cfg.Dataset.Fingerprint(),
		router:      mux.NewRouter(),
	}

	s.router.Use(requestLogger)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/questions", s.handleQuestions).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/questions/{id}", s.handleQuestion).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/features", s.handleFeatures).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/predict", s.handlePredict).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/recommendations", s.handleRecommendations).Methods(http.MethodGet)
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Printf("loanscope serving %s (%d rows) on %s", s.cfg.Dataset.Source(), s.cfg.Dataset.Len(), s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// ─── Middleware ─────────────────────────────────────────────────

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger tags each request with an id and logs one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		log.Printf("%s %s %s %d %s", id, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ─── Handlers ───────────────────────────────────────────────────

// QuestionInfo describes one question in GET /v1/questions.
type QuestionInfo struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Title   string   `json:"title"`
	Kind    string   `json:"kind"`
	Columns []string `json:"columns"`
}

// QuestionResponse is the body of GET /v1/questions/{id}.
type QuestionResponse struct {
	QuestionInfo
	Result  insights.Result `json:"result"`
	Insight []string        `json:"insight"`
}

// FeaturesResponse is the body of POST /v1/features.
type FeaturesResponse struct {
	Features        model.FeatureRecord `json:"features"`
	IncomeAfterLoan float64             `json:"income_after_loan"`
}

// PredictResponse is the body of POST /v1/predict.
type PredictResponse struct {
	RequestID string              `json:"request_id"`
	Label     string              `json:"label"`
	Approved  bool                `json:"approved"`
	Features  model.FeatureRecord `json:"features"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Column    string `json:"column,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func questionInfo(q insights.Question) QuestionInfo {
	return QuestionInfo{
		ID:      int(q),
		Prompt:  q.Prompt(),
		Title:   q.ChartTitle(),
		Kind:    q.Kind().String(),
		Columns: q.Columns(),
	}
}

func (s *Server) handleQuestions(w http.ResponseWriter, _ *http.Request) {
	qs := insights.Questions()
	out := make([]QuestionInfo, len(qs))
	for i, q := range qs {
		out[i] = questionInfo(q)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("question id %q is not a number", raw))
		return
	}
	q := insights.Question(n)
	if !q.Valid() {
		writeError(w, r, http.StatusNotFound, fmt.Errorf("%w: %d", insights.ErrUnknownQuestion, n))
		return
	}

	key := resultcache.Key(s.fingerprint, n)
	if cached, ok := s.cfg.Cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write([]byte(cached))
		return
	}

	res, err := insights.Aggregate(s.cfg.Dataset, q)
	if err != nil {
		var mc *dataset.MissingColumnError
		if errors.As(err, &mc) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:     err.Error(),
				Column:    mc.Column,
				RequestID: requestID(r.Context()),
			})
			return
		}
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	body, err := json.Marshal(QuestionResponse{
		QuestionInfo: questionInfo(q),
		Result:       res,
		Insight:      q.Insight(),
	})
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if err := s.cfg.Cache.Set(r.Context(), key, string(body)); err != nil {
		log.Printf("%s result cache set: %v", requestID(r.Context()), err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(body)
}

// decodeApplicant reads an applicant from the request body. Omitted fields
// keep the prediction form defaults.
func decodeApplicant(r *http.Request) (model.Applicant, error) {
	a := model.DefaultApplicant()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return a, fmt.Errorf("decoding applicant: %w", err)
	}
	return a, nil
}

// deriveRequest decodes the applicant body and derives its features. It
// writes the error response itself and reports false when the request
// cannot be served: 400 for a bad body, 422 when a derived feature is not
// finite (a loan amount of -1 puts ln(0) into log_LoanAmount).
func deriveRequest(w http.ResponseWriter, r *http.Request) (model.FeatureRecord, bool) {
	a, err := decodeApplicant(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return model.FeatureRecord{}, false
	}
	rec := features.Derive(a)
	if name, v, ok := nonFinite(rec); ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:     fmt.Sprintf("derived feature %s is %v; check the applicant inputs", name, v),
			Column:    name,
			RequestID: requestID(r.Context()),
		})
		return rec, false
	}
	return rec, true
}

// nonFinite returns the first numeric feature that is NaN or infinite.
func nonFinite(rec model.FeatureRecord) (string, float64, bool) {
	for _, name := range model.NumericFeatures {
		v, _ := rec.Numeric(name)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return name, v, true
		}
	}
	if math.IsNaN(rec.IncomeAfterLoan) || math.IsInf(rec.IncomeAfterLoan, 0) {
		return "Income_After_Loan", rec.IncomeAfterLoan, true
	}
	return "", 0, false
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	rec, ok := deriveRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, FeaturesResponse{Features: rec, IncomeAfterLoan: rec.IncomeAfterLoan})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Classifier == nil {
		writeError(w, r, http.StatusServiceUnavailable, errors.New("no classifier loaded"))
		return
	}
	rec, ok := deriveRequest(w, r)
	if !ok {
		return
	}

	label, err := s.cfg.Classifier.Predict(rec)
	if err != nil {
		log.Printf("%s prediction failed: %v", requestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, PredictResponse{
		RequestID: requestID(r.Context()),
		Label:     label.String(),
		Approved:  label == model.Approved,
		Features:  rec,
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Recommendations []insights.Recommendation `json:"recommendations"`
		Footnote        string                    `json:"footnote"`
	}{insights.Recommendations(), insights.Footnote})
}

// writeJSON encodes v before writing the header. A value that cannot be
// encoded is answered with a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("encoding %T response: %v", v, err)
		body, status = []byte(`{"error":"response could not be encoded"}`), http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: requestID(r.Context())})
}
