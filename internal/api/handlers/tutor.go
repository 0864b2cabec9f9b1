package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prepbuddy-ai/prepbuddy/internal/api"
	"github.com/prepbuddy-ai/prepbuddy/internal/service"
)

// Tutor answers questions and checks student answers.
type Tutor interface {
	Ask(ctx context.Context, question string) (*service.TutorResponse, error)
	CheckAnswer(ctx context.Context, question, answer string) (*service.TutorResponse, error)
}

// TutorHandler handles ask and answer-check requests.
type TutorHandler struct {
	tutor Tutor
}

// NewTutorHandler creates a new TutorHandler instance.
func NewTutorHandler(tutor Tutor) *TutorHandler {
	return &TutorHandler{tutor: tutor}
}

type askRequest struct {
	Question string `json:"question"`
}

type checkRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type tutorResponse struct {
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	Retrieval string   `json:"retrieval"`
}

// Ask handles POST /api/ask
func (h *TutorHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.tutor.Ask(r.Context(), req.Question)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, tutorResponse{
		Answer:    resp.Text,
		Sources:   resp.Sources,
		Retrieval: string(resp.Outcome),
	})
}

// Check handles POST /api/check
func (h *TutorHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.tutor.CheckAnswer(r.Context(), req.Question, req.Answer)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, tutorResponse{
		Answer:    resp.Text,
		Sources:   resp.Sources,
		Retrieval: string(resp.Outcome),
	})
}
