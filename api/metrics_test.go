package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/findhope/findhope-api/api"
)

func TestMetricsCollectorAggregatesRoutes(t *testing.T) {
	api.InitMetrics(100)
	mc := api.GetMetrics()

	mc.RecordTrace(api.RequestTrace{Method: "GET", Path: "/api/v1/cases", Status: 200, StartTime: time.Now(), Duration: 20 * time.Millisecond})
	mc.RecordTrace(api.RequestTrace{Method: "GET", Path: "/api/v1/cases", Status: 500, StartTime: time.Now(), Duration: 40 * time.Millisecond, Error: "Internal Server Error"})

	routes := mc.GetRouteMetrics()
	m := routes["GET /api/v1/cases"]
	if assert.NotNil(t, m) {
		assert.Equal(t, int64(2), m.Count)
		assert.Equal(t, int64(1), m.ErrorCount)
		assert.Equal(t, 30*time.Millisecond, m.AvgTime)
		assert.Equal(t, 20*time.Millisecond, m.MinTime)
		assert.Equal(t, 40*time.Millisecond, m.MaxTime)
	}

	summary := mc.GetSummary()
	assert.Equal(t, int64(2), summary["totalRequests"])
	assert.Equal(t, int64(1), summary["totalErrors"])
	assert.Equal(t, 0.5, summary["errorRate"])
}

func TestMetricsCollectorNormalizesObjectIDPaths(t *testing.T) {
	api.InitMetrics(100)
	mc := api.GetMetrics()

	mc.RecordTrace(api.RequestTrace{Method: "GET", Path: "/api/v1/case/507f1f77bcf86cd799439011/sightings", Status: 200, StartTime: time.Now(), Duration: time.Millisecond})
	mc.RecordTrace(api.RequestTrace{Method: "GET", Path: "/api/v1/case/64b0c5e8a2f4d6a1b2c3d4e5/sightings", Status: 200, StartTime: time.Now(), Duration: time.Millisecond})

	routes := mc.GetRouteMetrics()
	assert.Len(t, routes, 1)

	m := routes["GET /api/v1/case/{id}/sightings"]
	if assert.NotNil(t, m) {
		assert.Equal(t, int64(2), m.Count)
	}
}

func TestMetricsMiddlewareRecordsStatus(t *testing.T) {
	api.InitMetrics(100)

	h := api.MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	req := httptest.NewRequest("GET", "/api/v1/volunteers", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	m := api.GetMetrics().GetRouteMetrics()["GET /api/v1/volunteers"]
	if assert.NotNil(t, m) {
		assert.Equal(t, int64(1), m.Count)
		assert.Equal(t, int64(1), m.ErrorCount)
	}
}

func TestMetricsMiddlewareSkipsHealthCheck(t *testing.T) {
	api.InitMetrics(100)

	h := api.MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, api.GetMetrics().GetRouteMetrics())
}

func TestTimeoutMiddlewareCutsOffSlowHandlers(t *testing.T) {
	h := api.TimeoutMiddleware(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
			w.WriteHeader(http.StatusOK)
		}
	}))

	req := httptest.NewRequest("GET", "/api/v1/cases", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestTimeout, rr.Code)
	assert.Contains(t, rr.Body.String(), "request timed out")
}

func TestTimeoutMiddlewarePassesFastHandlersThrough(t *testing.T) {
	h := api.TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest("POST", "/api/v1/cases", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}
