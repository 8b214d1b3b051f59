package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/capture-service/internal/delivery/http/handler"
	"github.com/user/capture-service/internal/delivery/http/response"
	"github.com/user/capture-service/internal/delivery/http/router"
	"github.com/user/capture-service/internal/entity"
	"github.com/user/capture-service/internal/repository"
)

type stubJobs struct {
	submitted [][]string
	states    map[string]*entity.DocumentState
	results   map[string][]*entity.CaptureResult
}

func (s *stubJobs) Submit(ctx context.Context, paths []string) (*entity.CaptureJob, error) {
	var kept []string
	for _, p := range paths {
		if strings.HasSuffix(p, ".html") {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil, repository.ErrNoInput
	}
	s.submitted = append(s.submitted, kept)
	return &entity.CaptureJob{ID: "job-1", Paths: kept, SubmittedAt: time.Now()}, nil
}

func (s *stubJobs) GetStatus(ctx context.Context, path string) (*entity.DocumentState, error) {
	if st, ok := s.states[path]; ok {
		return st, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubJobs) GetResults(ctx context.Context, path string) ([]*entity.CaptureResult, error) {
	return s.results[path], nil
}

func (s *stubJobs) ProcessNext(ctx context.Context) (bool, error) { return false, nil }
func (s *stubJobs) Start(ctx context.Context, interval time.Duration) error { return nil }

func newServer(jobs *stubJobs) http.Handler {
	return router.New(handler.NewHandler(jobs, zap.NewNop()), zap.NewNop())
}

func TestSubmitCapture(t *testing.T) {
	jobs := &stubJobs{}
	srv := newServer(jobs)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/capture", strings.NewReader(`{"paths":["/srv/a.html","/srv/b.txt"]}`)))

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp response.SubmitCaptureResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "job-1", resp.JobID)
	assert.Equal(t, []string{"/srv/a.html"}, resp.Paths)
	assert.Len(t, jobs.submitted, 1)
}

func TestSubmitCapture_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"paths":`},
		{"empty", `{"paths":[]}`},
		{"nothing resolvable", `{"paths":["/srv/readme.txt"]}`},
	}
	srv := newServer(&stubJobs{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/capture", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetStatus(t *testing.T) {
	jobs := &stubJobs{states: map[string]*entity.DocumentState{
		"/srv/a.html": {Path: "/srv/a.html", CurrentStatus: entity.StatusCapturing},
	}}
	srv := newServer(jobs)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status?path="+url.QueryEscape("/srv/a.html"), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp response.DocumentStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "capturing", resp.CurrentStatus)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status?path=/srv/unknown.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetResults(t *testing.T) {
	jobs := &stubJobs{results: map[string][]*entity.CaptureResult{
		"/srv/a.html": {{DocumentPath: "/srv/a.html", ElementID: "fig-1", Status: entity.ResultCaptured, PixelWidth: 20, PixelHeight: 10}},
	}}
	srv := newServer(jobs)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/results?path=/srv/a.html", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp response.CaptureResultsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "fig-1", resp.Results[0].ElementID)
	assert.Equal(t, 20, resp.Results[0].PixelWidth)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(&stubJobs{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
