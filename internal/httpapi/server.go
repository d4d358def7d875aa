package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/pipeline"
	"github.com/ppiankov/veritas/internal/search"
)

// Version reported by the health endpoint
const Version = "0.1.0"

// FactChecker runs one complete fact-check for one claim
type FactChecker interface {
	FactCheck(ctx context.Context, claim string) (*model.Result, []model.Paper, error)
}

// Server exposes the fact-check pipeline over HTTP
type Server struct {
	checker FactChecker
}

// NewServer creates the HTTP handler for the fact-check API
func NewServer(checker FactChecker) http.Handler {
	s := &Server{checker: checker}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("POST /api/v1/fact-check", s.handleFactCheck)
	return mux
}

type factCheckRequest struct {
	Claim string `json:"claim"`
}

type factCheckResponse struct {
	Claim                 string                `json:"claim"`
	Assessment            model.Assessment      `json:"assessment"`
	Explanation           string                `json:"explanation"`
	PaperAnalyses         []model.PaperAnalysis `json:"paper_analyses"`
	References            []model.Reference     `json:"references"`
	Papers                []model.Paper         `json:"papers"`
	HumanFriendlyResponse string                `json:"human_friendly_response"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: Version})
}

func (s *Server) handleFactCheck(w http.ResponseWriter, r *http.Request) {
	var req factCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	if err := model.ValidateClaim(req.Claim); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	result, papers, err := s.checker.FactCheck(r.Context(), req.Claim)
	if err != nil {
		// Evidence retrieval unavailability is the one expected
		// request-fatal condition
		var transportErr *search.TransportError
		if errors.As(err, &transportErr) {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: err.Error()})
			return
		}
		fmt.Fprintf(os.Stderr, "fact-check failed: %v\n", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "error during fact-checking"})
		return
	}

	writeJSON(w, http.StatusOK, factCheckResponse{
		Claim:                 result.Claim,
		Assessment:            result.Assessment,
		Explanation:           result.Explanation,
		PaperAnalyses:         result.PaperAnalyses,
		References:            result.References,
		Papers:                papers,
		HumanFriendlyResponse: pipeline.RenderHumanFriendly(result, papers),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
