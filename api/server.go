package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/banshee-data/anthro.report/internal/anthro"
	"github.com/banshee-data/anthro.report/internal/facts"
	"github.com/banshee-data/anthro.report/internal/report"
	"github.com/banshee-data/anthro.report/internal/store"
	"github.com/banshee-data/anthro.report/internal/units"
)

type Server struct {
	store  *store.Store
	params anthro.Params
}

func NewServer(st *store.Store, params anthro.Params) *Server {
	return &Server{
		store:  st,
		params: params,
	}
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	// Handle the home page
	w.Write([]byte("Welcome to the Anthro Measurement Server!"))
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/measure", s.measureHandler)
	mux.HandleFunc("/api/runs", s.listRuns)
	mux.HandleFunc("/api/results", s.listResults)
	mux.HandleFunc("/api/stats", s.runStats)
	mux.HandleFunc("/charts/warnings", s.warningChart)
	mux.HandleFunc("/charts/methods", s.methodChart)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

// measureRequest is the wire form of a single measurement call. Points are
// row-major [x y z] triples in source_units (defaults to meters).
type measureRequest struct {
	CaseID      string       `json:"case_id"`
	Key         string       `json:"key"`
	SourceUnits string       `json:"source_units,omitempty"`
	Points      [][3]float64 `json:"points"`
}

func (s *Server) measureHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req measureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	srcUnits := req.SourceUnits
	if srcUnits == "" {
		srcUnits = units.M
	}
	if !units.IsValid(srcUnits) {
		http.Error(w, fmt.Sprintf("Invalid source_units %q: must be one of %s", srcUnits, units.GetValidUnitsString()), http.StatusBadRequest)
		return
	}

	cloud := make(anthro.Cloud, 0, len(req.Points))
	for _, p := range req.Points {
		cloud = append(cloud, anthro.Vertex{
			X: units.ToMeters(p[0], srcUnits),
			Y: units.ToMeters(p[1], srcUnits),
			Z: units.ToMeters(p[2], srcUnits),
		})
	}

	result, loop, err := anthro.MeasureSection(cloud, anthro.Key(req.Key), s.params)
	if err != nil {
		// Contract violations are caller errors, not server faults.
		if errors.Is(err, anthro.ErrEmptyCloud) || errors.Is(err, anthro.ErrInvalidValue) || errors.Is(err, anthro.ErrUnknownKey) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Measurement failed: %v", err), http.StatusInternalServerError)
		return
	}

	// ?render=chart returns the section loop as an HTML scatter instead of
	// the JSON result, for eyeballing a single case.
	if r.URL.Query().Get("render") == "chart" {
		if !result.Defined() {
			http.Error(w, fmt.Sprintf("No section to render: %s", result.FailureReason), http.StatusUnprocessableEntity)
			return
		}
		title := req.CaseID
		if title == "" {
			title = string(result.Key)
		}
		report.WriteChart(w, report.LoopScatterChart(loop, title))
		return
	}

	s.writeJSON(w, result)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		http.Error(w, "No result store configured", http.StatusNotFound)
		return
	}

	runs, err := s.store.Runs()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve runs: %v", err), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, runs)
}

func (s *Server) listResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rows, ok := s.resultsForRequest(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, rows)
}

func (s *Server) runStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rows, ok := s.resultsForRequest(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, s.summarize(rows))
}

func (s *Server) warningChart(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.resultsForRequest(w, r)
	if !ok {
		return
	}
	report.WriteChart(w, report.WarningHistogramChart(s.summarize(rows)))
}

func (s *Server) methodChart(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.resultsForRequest(w, r)
	if !ok {
		return
	}
	report.WriteChart(w, report.MethodUsageChart(s.summarize(rows)))
}

func (s *Server) resultsForRequest(w http.ResponseWriter, r *http.Request) ([]store.ResultRow, bool) {
	if s.store == nil {
		http.Error(w, "No result store configured", http.StatusNotFound)
		return nil, false
	}

	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		http.Error(w, "Missing run_id parameter", http.StatusBadRequest)
		return nil, false
	}

	rows, err := s.store.Results(runID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve results: %v", err), http.StatusInternalServerError)
		return nil, false
	}
	return rows, true
}

func (s *Server) summarize(rows []store.ResultRow) facts.Summary {
	results := make([]anthro.MeasurementResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.Result)
	}
	return facts.Aggregate(results)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] failed to encode response: %v", err)
	}
}
