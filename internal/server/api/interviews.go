// Package api provides HTTP API handlers for the Abhinaya interview
// analysis daemon.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/abhinaya/internal/analysis"
	"github.com/ayusman/abhinaya/internal/app"
	"github.com/ayusman/abhinaya/internal/capture"
	"github.com/ayusman/abhinaya/internal/store"
)

// InterviewHandler handles HTTP requests for interview resources.
type InterviewHandler struct {
	app   *app.App
	store *store.Store
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(a *app.App, s *store.Store) *InterviewHandler {
	return &InterviewHandler{app: a, store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests.
// Expected paths:
//
//	/api/interviews
//	/api/interviews/{id}
//	/api/interviews/{id}/advance|pause|resume|end|report
//	/api/interviews/{id}/questions/{n}
func (h *InterviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/interviews")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/interviews
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.start(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	parts := strings.Split(path, "/")
	id := parts[0]

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.get(w, r, id)

	case len(parts) == 2:
		h.action(w, r, id, parts[1])

	case len(parts) == 3 && parts[1] == "questions":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.questionAggregate(w, r, id, parts[2])

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Response types

type startInterviewResponse struct {
	ID string `json:"id"`
}

type interviewResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	QuestionCount int    `json:"question_count"`
	StartedAt     string `json:"started_at"`
	EndedAt       string `json:"ended_at,omitempty"`
}

type advanceResponse struct {
	QuestionIndex int `json:"question_index"`
}

type endInterviewResponse struct {
	Report   analysis.Report   `json:"report"`
	Feedback analysis.Feedback `json:"feedback"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// start handles POST /api/interviews
func (h *InterviewHandler) start(w http.ResponseWriter, r *http.Request) {
	id, err := h.app.StartInterview()
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInterviewActive):
			writeError(w, http.StatusConflict, "An interview is already active")
		case errors.Is(err, capture.ErrPermissionDenied):
			writeError(w, http.StatusForbidden, "Capture permission denied")
		case errors.Is(err, capture.ErrDeviceBusy):
			writeError(w, http.StatusConflict, "Capture device busy")
		case errors.Is(err, capture.ErrDeviceUnavailable):
			writeError(w, http.StatusServiceUnavailable, "Capture device unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to start interview")
		}
		return
	}

	writeJSON(w, http.StatusCreated, startInterviewResponse{ID: id})
}

// list handles GET /api/interviews
func (h *InterviewHandler) list(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, []interviewResponse{})
		return
	}

	interviews, err := h.store.Interviews().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list interviews")
		return
	}

	response := make([]interviewResponse, 0, len(interviews))
	for _, i := range interviews {
		response = append(response, toInterviewResponse(i))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/interviews/{id}
func (h *InterviewHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "Interview not found")
		return
	}

	interview, err := h.store.Interviews().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Interview not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get interview")
		return
	}

	writeJSON(w, http.StatusOK, toInterviewResponse(interview))
}

// action handles POST /api/interviews/{id}/{action} and GET .../report
func (h *InterviewHandler) action(w http.ResponseWriter, r *http.Request, id, action string) {
	if action == "report" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.report(w, r, id)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.app.InterviewID() != id {
		writeError(w, http.StatusNotFound, "Interview is not active")
		return
	}

	switch action {
	case "advance":
		index, err := h.app.NextQuestion()
		if err != nil {
			writeError(w, http.StatusConflict, "No active interview")
			return
		}
		writeJSON(w, http.StatusOK, advanceResponse{QuestionIndex: index})

	case "pause":
		h.app.PauseAnalysis()
		writeJSON(w, http.StatusOK, map[string]string{"state": string(h.app.SamplerState())})

	case "resume":
		h.app.ResumeAnalysis()
		writeJSON(w, http.StatusOK, map[string]string{"state": string(h.app.SamplerState())})

	case "end":
		report, feedback, err := h.app.EndInterview()
		if err != nil {
			writeError(w, http.StatusConflict, "No active interview")
			return
		}
		writeJSON(w, http.StatusOK, endInterviewResponse{Report: report, Feedback: feedback})

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// report handles GET /api/interviews/{id}/report for ended interviews.
func (h *InterviewHandler) report(w http.ResponseWriter, r *http.Request, id string) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}

	report, err := h.store.Aggregates().GetReport(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get report")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// questionAggregate handles GET /api/interviews/{id}/questions/{n}
func (h *InterviewHandler) questionAggregate(w http.ResponseWriter, r *http.Request, id, indexStr string) {
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question index")
		return
	}

	// Live aggregate for the active interview
	if h.app.InterviewID() == id {
		agg, err := h.app.QuestionAggregate(index)
		if err != nil {
			writeError(w, http.StatusNotFound, "No such question")
			return
		}
		writeJSON(w, http.StatusOK, agg)
		return
	}

	if h.store == nil {
		writeError(w, http.StatusNotFound, "Interview not found")
		return
	}

	aggregates, err := h.store.Aggregates().GetByInterview(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get aggregates")
		return
	}
	for _, agg := range aggregates {
		if agg.QuestionIndex == index {
			writeJSON(w, http.StatusOK, agg)
			return
		}
	}

	writeError(w, http.StatusNotFound, "No such question")
}

func toInterviewResponse(i *store.Interview) interviewResponse {
	resp := interviewResponse{
		ID:            i.ID,
		Status:        string(i.Status),
		QuestionCount: i.QuestionCount,
		StartedAt:     i.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if i.EndedAt != nil {
		resp.EndedAt = i.EndedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
