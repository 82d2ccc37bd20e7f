package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/talentsift/assessrec/internal/catalog"
	"github.com/talentsift/assessrec/internal/logger"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type recommendRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	MaxDuration *int   `json:"max_duration"`
}

type recommendResponse struct {
	RecommendedAssessments []assessmentSummary `json:"recommended_assessments"`
}

type assessmentSummary struct {
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	RemoteSupport   string   `json:"remote_support"`
	AdaptiveSupport string   `json:"adaptive_support"`
	Duration        any      `json:"duration"`
	TestType        []string `json:"test_type"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	log := s.logger.With(zap.String("request_id", uuid.NewString()))

	var req recommendRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "query must not be blank")
		return
	}

	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = maxResultsDefault
	}
	if maxResults < 1 || maxResults > maxResultsLimit {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("max_results must be between 1 and %d", maxResultsLimit))
		return
	}

	records := s.recommender.Recommend(r.Context(), query, maxResults)
	records = filterByDuration(records, req.MaxDuration)

	log.Info("recommendation served",
		zap.String("query", logger.TruncateForLog(query, 120)),
		zap.Int("max_results", maxResults),
		zap.Int("count", len(records)),
	)

	writeJSON(w, http.StatusOK, recommendResponse{
		RecommendedAssessments: summarize(records),
	})
}

// filterByDuration drops records exceeding the requested duration cap.
// Records with an unknown duration pass: the cap is advisory, not a proof
// of fitness.
func filterByDuration(records []*catalog.Assessment, maxDuration *int) []*catalog.Assessment {
	if maxDuration == nil || *maxDuration <= 0 {
		return records
	}

	kept := records[:0]
	for _, record := range records {
		if record.Duration != catalog.DurationUnknown && record.Duration > *maxDuration {
			continue
		}
		kept = append(kept, record)
	}

	return kept
}

func summarize(records []*catalog.Assessment) []assessmentSummary {
	summaries := make([]assessmentSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, assessmentSummary{
			Name:            record.Name,
			URL:             record.URL,
			RemoteSupport:   record.RemoteSupport,
			AdaptiveSupport: record.AdaptiveSupport,
			Duration:        durationValue(record),
			TestType:        record.TestType,
		})
	}

	return summaries
}

// durationValue renders the duration as an integer, or the string "N/A" when
// the catalog has no numeric duration for the record.
func durationValue(record *catalog.Assessment) any {
	if record.Duration == catalog.DurationUnknown {
		return catalog.NotAvailable
	}
	return record.Duration
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
