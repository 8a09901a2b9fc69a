package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spartanmed/medchat/internal/api"
	"github.com/spartanmed/medchat/internal/domain"
	"github.com/spartanmed/medchat/internal/service"
)

type MaterialService interface {
	InitUpload(ctx context.Context, input service.InitUploadInput) (*service.InitUploadResult, error)
	CompleteUpload(ctx context.Context, input service.CompleteUploadInput) (*domain.Material, error)
	GetDownloadURL(ctx context.Context, materialID string) (string, error)
	ListByPhase(ctx context.Context, phase domain.Phase) ([]*domain.Material, error)
}

type MaterialHandler struct {
	svc MaterialService
}

func NewMaterialHandler(svc MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

type InitUploadRequest struct {
	Phase       string `json:"phase"`
	Week        int    `json:"week"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type InitUploadResponse struct {
	MaterialID string `json:"material_id"`
	StorageKey string `json:"storage_key"`
	UploadURL  string `json:"upload_url"`
}

type CompleteUploadRequest struct {
	MaterialID  string `json:"material_id"`
	Phase       string `json:"phase"`
	Week        int    `json:"week"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	StorageKey  string `json:"storage_key"`
	SHA256      string `json:"sha256,omitempty"`
}

type MaterialResponse struct {
	ID          string `json:"id"`
	Phase       string `json:"phase"`
	Week        int    `json:"week"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	SHA256      string `json:"sha256,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type DownloadURLResponse struct {
	DownloadURL string `json:"download_url"`
}

func materialToResponse(m *domain.Material) *MaterialResponse {
	return &MaterialResponse{
		ID:          m.ID,
		Phase:       string(m.Phase),
		Week:        m.Week,
		Filename:    m.Filename,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		SHA256:      m.SHA256,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (h *MaterialHandler) InitUpload(w http.ResponseWriter, r *http.Request) {
	var req InitUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Filename == "" {
		api.Error(w, http.StatusBadRequest, "filename is required")
		return
	}
	phase, ok := domain.ParsePhase(req.Phase)
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid curriculum phase")
		return
	}

	result, err := h.svc.InitUpload(r.Context(), service.InitUploadInput{
		Phase:       phase,
		Week:        req.Week,
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, InitUploadResponse{
		MaterialID: result.MaterialID,
		StorageKey: result.StorageKey,
		UploadURL:  result.UploadURL,
	})
}

func (h *MaterialHandler) CompleteUpload(w http.ResponseWriter, r *http.Request) {
	var req CompleteUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.MaterialID == "" {
		api.Error(w, http.StatusBadRequest, "material_id is required")
		return
	}
	if req.StorageKey == "" {
		api.Error(w, http.StatusBadRequest, "storage_key is required")
		return
	}
	if req.Filename == "" {
		api.Error(w, http.StatusBadRequest, "filename is required")
		return
	}
	phase, ok := domain.ParsePhase(req.Phase)
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid curriculum phase")
		return
	}

	material, err := h.svc.CompleteUpload(r.Context(), service.CompleteUploadInput{
		MaterialID:  req.MaterialID,
		Phase:       phase,
		Week:        req.Week,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		StorageKey:  req.StorageKey,
		SHA256:      req.SHA256,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, materialToResponse(material))
}

func (h *MaterialHandler) GetDownloadURL(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	downloadURL, err := h.svc.GetDownloadURL(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, DownloadURLResponse{
		DownloadURL: downloadURL,
	})
}

func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	phase, ok := domain.ParsePhase(r.URL.Query().Get("phase"))
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid curriculum phase")
		return
	}

	materials, err := h.svc.ListByPhase(r.Context(), phase)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*MaterialResponse, len(materials))
	for i, m := range materials {
		resp[i] = materialToResponse(m)
	}

	api.Success(w, http.StatusOK, resp)
}
