package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cruxlabs/cruxd/internal/crisis"
	"github.com/cruxlabs/cruxd/internal/imaging"
	"github.com/cruxlabs/cruxd/internal/jobs"
	"github.com/cruxlabs/cruxd/internal/models"
	"github.com/cruxlabs/cruxd/internal/scanner"
	"github.com/cruxlabs/cruxd/internal/scorer"
	"github.com/cruxlabs/cruxd/internal/store"
	"github.com/cruxlabs/cruxd/internal/verifier"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxUploadBytes = 10 << 20

// Server wires the pipeline stages to the HTTP surface. Handlers surface
// 500 only for unexpected bugs; anticipated external failures are absorbed
// by the stages' own fallbacks.
type Server struct {
	scanner  *scanner.Scanner
	verifier *verifier.Verifier
	scorer   *scorer.Scorer
	detector *crisis.Detector
	analyzer *imaging.Analyzer
	claims   *store.Claims
	tracker  *jobs.Tracker
}

// NewServer creates a new API server
func NewServer(sc *scanner.Scanner, v *verifier.Verifier, s *scorer.Scorer, d *crisis.Detector, a *imaging.Analyzer, claims *store.Claims, tracker *jobs.Tracker) *Server {
	return &Server{
		scanner:  sc,
		verifier: v,
		scorer:   s,
		detector: d,
		analyzer: a,
		claims:   claims,
		tracker:  tracker,
	}
}

// Router builds the HTTP routes
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/", s.handleHealth).Methods("GET")
	r.HandleFunc("/api/claims", s.handleClaims).Methods("GET")
	r.HandleFunc("/api/verify", s.handleVerify).Methods("POST")
	r.HandleFunc("/api/score", s.handleScore).Methods("POST")
	r.HandleFunc("/api/explain", s.handleExplain).Methods("POST")
	r.HandleFunc("/api/scan", s.handleScan).Methods("POST")
	r.HandleFunc("/api/scan/jobs", s.handleScanJobs).Methods("GET")
	r.HandleFunc("/api/news/{category}", s.handleNews).Methods("GET")
	r.HandleFunc("/api/crisis", s.handleCrisis).Methods("GET")

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "online",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleClaims returns every claim processed this process lifetime, in
// insertion order
func (s *Server) handleClaims(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.claims.All())
}

// handleVerify accepts any combination of free text, a link, and an
// uploaded image, and responds with the enriched claim, its score, and/or
// image-analysis results depending on which inputs were present
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	text := r.FormValue("text")
	link := r.FormValue("link")

	var imageData []byte
	if file, header, err := r.FormFile("image"); err == nil {
		logrus.Infof("Received image: %s", header.Filename)
		imageData, err = io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read uploaded image")
			return
		}
	}

	if text == "" && link == "" && len(imageData) == 0 {
		writeError(w, http.StatusBadRequest, "at least one of text, link, or image is required")
		return
	}

	var result models.VerifyResult

	if text != "" || link != "" {
		claimText := text
		if claimText == "" {
			claimText = "Claim from: " + link
		}

		claim := models.NewClaim(claimText, "")
		claim.ID = uuid.New().String()
		claim.Status = models.StatusProcessing

		claim = s.verifier.Verify(r.Context(), claim, link, imageData)
		score := s.scorer.Score(r.Context(), claim)
		claim.Score = &score

		switch score.Verdict {
		case models.VerdictVerified:
			claim.Status = models.StatusVerified
		case models.VerdictFalse:
			claim.Status = models.StatusFalse
		default:
			claim.Status = models.StatusUnverified
		}

		s.claims.Append(claim)
		result.Claim = &claim
		result.Score = &score
	}

	if len(imageData) > 0 {
		analysis := s.analyzer.Analyze(r.Context(), imageData)
		result.ImageAnalysis = &analysis
	}

	writeJSON(w, http.StatusOK, result)
}

// handleScore scores an arbitrary claim text plus evidence directly,
// bypassing the scanner and verifier
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claim := models.NewClaim(req.ClaimText, "")
	claim.Evidence = req.Evidence

	writeJSON(w, http.StatusOK, s.scorer.Score(r.Context(), claim))
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req models.ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	explanation := s.scorer.Explain(r.Context(), req.ClaimText, req.Verdict, req.Lang)
	writeJSON(w, http.StatusOK, models.ExplainResponse{Explanation: explanation})
}

// handleScan triggers a background scan and returns immediately with an
// acknowledgment; the job stays queryable via /api/scan/jobs
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req models.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	jobID := s.tracker.Begin(req.SourceURL)
	go s.runScan(jobID, req.SourceURL)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "Scan initiated for " + req.SourceURL,
		"job_id":  jobID,
	})
}

func (s *Server) runScan(jobID, sourceURL string) {
	// Deliberately detached from the request context: the caller does not
	// await completion
	claims := s.scanner.Scan(context.Background(), sourceURL)
	for _, claim := range claims {
		claim.ID = uuid.New().String()
		s.claims.Append(claim)
	}
	s.tracker.Finish(jobID, len(claims), nil)
	logrus.Infof("Background scan %s added %d claims", jobID, len(claims))
}

func (s *Server) handleScanJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

// handleNews fetches category-filtered news without persisting results
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	claims := s.scanner.ScanByCategory(r.Context(), category)

	writeJSON(w, http.StatusOK, models.NewsResponse{
		Category: category,
		Count:    len(claims),
		Articles: claims,
	})
}

// handleCrisis evaluates already-processed claims, or scans fresh news
// when none exist yet
func (s *Server) handleCrisis(w http.ResponseWriter, r *http.Request) {
	claims := s.claims.All()
	if len(claims) == 0 {
		logrus.Info("No local claims found, scanning for breaking news")
		claims = s.scanner.Scan(r.Context(), "")
	}

	writeJSON(w, http.StatusOK, s.detector.Detect(claims))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// corsMiddleware allows cross-origin calls from the frontend
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
