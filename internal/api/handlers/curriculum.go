package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spartanmed/medchat/internal/api"
	"github.com/spartanmed/medchat/internal/domain"
)

// CurriculumDirectory exposes the static per-phase curriculum table.
type CurriculumDirectory interface {
	WeeksFor(phase domain.Phase) []domain.CurriculumWeek
}

type CurriculumHandler struct {
	curriculum CurriculumDirectory
}

func NewCurriculumHandler(curriculum CurriculumDirectory) *CurriculumHandler {
	return &CurriculumHandler{curriculum: curriculum}
}

type CurriculumWeekResponse struct {
	Phase  string   `json:"phase"`
	Week   int      `json:"week"`
	Topic  string   `json:"topic"`
	Themes []string `json:"themes,omitempty"`
}

func (h *CurriculumHandler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "phase")

	phase, ok := domain.ParsePhase(raw)
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid curriculum phase")
		return
	}

	weeks := h.curriculum.WeeksFor(phase)

	resp := make([]CurriculumWeekResponse, len(weeks))
	for i, week := range weeks {
		resp[i] = CurriculumWeekResponse{
			Phase:  string(week.Phase),
			Week:   week.Week,
			Topic:  week.Topic,
			Themes: week.Themes,
		}
	}

	api.Success(w, http.StatusOK, resp)
}
