package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/anthro.report/internal/anthro"
	"github.com/banshee-data/anthro.report/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.MigrateUp("../migrations"))
	return NewServer(st, anthro.DefaultParams()), st
}

// cylinderPoints builds request triples for a vertical cylinder.
func cylinderPoints(r, height, dz float64, perRing int) [][3]float64 {
	var pts [][3]float64
	for z := 0.0; z <= height+1e-12; z += dz {
		for i := 0; i < perRing; i++ {
			theta := 2 * math.Pi * float64(i) / float64(perRing)
			pts = append(pts, [3]float64{r * math.Cos(theta), r * math.Sin(theta), z})
		}
	}
	return pts
}

func postMeasure(t *testing.T, mux *http.ServeMux, body interface{}, query string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/measure"+query, bytes.NewReader(data))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestMeasureHandler(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	mux := srv.ServeMux()

	t.Run("valid request", func(t *testing.T) {
		t.Parallel()
		w := postMeasure(t, mux, measureRequest{
			CaseID: "case-1",
			Key:    "WAIST",
			Points: cylinderPoints(0.12, 1.7, 0.01, 48),
		}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res anthro.MeasurementResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.True(t, res.Defined())
		assert.InEpsilon(t, 2*math.Pi*0.12, res.Value, 0.01)
	})

	t.Run("centimeter input is converted", func(t *testing.T) {
		t.Parallel()
		w := postMeasure(t, mux, measureRequest{
			Key:         "WAIST",
			SourceUnits: "cm",
			Points:      cylinderPoints(12, 170, 1, 48),
		}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res anthro.MeasurementResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.True(t, res.Defined())
		assert.InEpsilon(t, 2*math.Pi*0.12, res.Value, 0.01)
		assert.NotContains(t, res.Warnings, anthro.WarnScaleSuspectLarge)
	})

	t.Run("degenerate cloud returns a defined failure", func(t *testing.T) {
		t.Parallel()
		w := postMeasure(t, mux, measureRequest{
			Key:    "HIP",
			Points: [][3]float64{{0, 0, 0}, {1, 1, 1}},
		}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var res anthro.MeasurementResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.False(t, res.Defined())
		assert.Equal(t, anthro.FailDegenerate, res.FailureReason)
		assert.Contains(t, w.Body.String(), `"circumference_m":null`)
	})

	t.Run("unknown key is a 400", func(t *testing.T) {
		t.Parallel()
		w := postMeasure(t, mux, measureRequest{Key: "ELBOW", Points: cylinderPoints(0.1, 1.6, 0.02, 32)}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid units is a 400", func(t *testing.T) {
		t.Parallel()
		w := postMeasure(t, mux, measureRequest{Key: "WAIST", SourceUnits: "ft", Points: [][3]float64{{0, 0, 0}}}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("nan coordinate is a 400", func(t *testing.T) {
		t.Parallel()
		// NaN is not valid JSON; send it raw.
		req := httptest.NewRequest(http.MethodPost, "/api/measure", bytes.NewReader([]byte(`{"key":"WAIST","points":[[0,NaN,0]]}`)))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get is rejected", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/api/measure", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("chart render", func(t *testing.T) {
		t.Parallel()
		w := postMeasure(t, mux, measureRequest{
			CaseID: "render-me",
			Key:    "WAIST",
			Points: cylinderPoints(0.12, 1.7, 0.01, 48),
		}, "?render=chart")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "render-me")
	})
}

func TestResultsAndStatsHandlers(t *testing.T) {
	t.Parallel()

	srv, st := newTestServer(t)
	mux := srv.ServeMux()

	run := &store.Run{Source: "test", Cases: 2}
	require.NoError(t, st.InsertRun(run))
	require.NoError(t, st.InsertResult(run.RunID, "a", anthro.MeasurementResult{
		Key: anthro.KeyWaist, Value: 0.84, MethodTag: anthro.MethodPolarSort, SectionID: "s1",
	}))
	require.NoError(t, st.InsertResult(run.RunID, "b", anthro.MeasurementResult{
		Key: anthro.KeyWaist, Value: math.NaN(), FailureReason: anthro.FailDegenerate, SectionID: "s2",
	}))

	t.Run("results", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/results?run_id=%s", run.RunID), nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var rows []store.ResultRow
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
		require.Len(t, rows, 2)
	})

	t.Run("stats", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/stats?run_id=%s", run.RunID), nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var stats map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.EqualValues(t, 2, stats["processed"])
		assert.EqualValues(t, 1, stats["defined"])
	})

	t.Run("missing run_id", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/api/results", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("runs listing", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var runs []store.Run
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
		require.Len(t, runs, 1)
		assert.Equal(t, run.RunID, runs[0].RunID)
	})

	t.Run("warning chart renders", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/charts/warnings?run_id=%s", run.RunID), nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	})
}
