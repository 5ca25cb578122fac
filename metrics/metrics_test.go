package metrics

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ajvb/jobboard/job"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	r := mux.NewRouter()
	m := NewMetrics("test-version", &job.MockDB{})
	r.Handle("/metrics", m.Handler())
	ts := httptest.NewServer(r)
	defer ts.Close()

	body := get(t, ts.URL+"/metrics")
	assert.Contains(t, body, "start_time_seconds")
	assert.Contains(t, body, `version="test-version"`)
	assert.Contains(t, body, "stored_jobs 0")
}

func TestStoredJobsGauge(t *testing.T) {
	db := &job.MockDB{}
	_, err := db.InsertMany([]job.Fields{job.GetMockFields(), job.GetMockFields()})
	require.NoError(t, err)

	r := mux.NewRouter()
	m := NewMetrics("test-version", db)
	r.Handle("/metrics", m.Handler())
	ts := httptest.NewServer(r)
	defer ts.Close()

	assert.Contains(t, get(t, ts.URL+"/metrics"), "stored_jobs 2")
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	m := NewMetrics("test-version", &job.MockDB{})
	r.Use(m.Middleware)
	r.Handle("/metrics", m.Handler())
	r.HandleFunc("/get_job/{job_id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	ts := httptest.NewServer(r)
	defer ts.Close()

	get(t, ts.URL+"/get_job/"+job.NewID())
	get(t, ts.URL+"/get_job/"+job.NewID())

	body := get(t, ts.URL+"/metrics")
	assert.Contains(t, body, `requests_total{code="404",method="GET",path="/get_job/{job_id}"} 2`)
	assert.NotContains(t, body, `path="/metrics"`)
}

func get(t *testing.T, url string) string {
	_, req := setupTestReq(t, "GET", url, nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// setupTestReq constructs the writer recorder and request obj for use in tests
func setupTestReq(t assert.TestingT, method, path string, data []byte) (*httptest.ResponseRecorder, *http.Request) {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, path, bytes.NewReader(data))
	assert.NoError(t, err)
	return w, req
}
