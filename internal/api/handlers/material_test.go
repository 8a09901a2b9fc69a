package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spartanmed/medchat/internal/domain"
	"github.com/spartanmed/medchat/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMaterialService struct {
	mock.Mock
}

func (m *MockMaterialService) InitUpload(ctx context.Context, input service.InitUploadInput) (*service.InitUploadResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InitUploadResult), args.Error(1)
}

func (m *MockMaterialService) CompleteUpload(ctx context.Context, input service.CompleteUploadInput) (*domain.Material, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Material), args.Error(1)
}

func (m *MockMaterialService) GetDownloadURL(ctx context.Context, materialID string) (string, error) {
	args := m.Called(ctx, materialID)
	return args.String(0), args.Error(1)
}

func (m *MockMaterialService) ListByPhase(ctx context.Context, phase domain.Phase) ([]*domain.Material, error) {
	args := m.Called(ctx, phase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Material), args.Error(1)
}

func newTestMaterial() *domain.Material {
	return &domain.Material{
		ID:          "mat-123",
		Phase:       domain.PhaseM1,
		Week:        3,
		Filename:    "cardio-syllabus.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
		SHA256:      "abc123hash",
		StorageKey:  "materials/M1/week-3/mat-123/cardio-syllabus.pdf",
		Status:      domain.MaterialStatusUploaded,
		CreatedAt:   time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestMaterialHandler_InitUpload_Success(t *testing.T) {
	mockSvc := new(MockMaterialService)
	handler := NewMaterialHandler(mockSvc)

	expected := &service.InitUploadResult{
		MaterialID: "mat-123",
		StorageKey: "materials/M1/week-3/mat-123/cardio-syllabus.pdf",
		UploadURL:  "https://storage.example.com/upload",
	}
	mockSvc.On("InitUpload", mock.Anything, mock.MatchedBy(func(input service.InitUploadInput) bool {
		return input.Phase == domain.PhaseM1 && input.Week == 3 && input.Filename == "cardio-syllabus.pdf"
	})).Return(expected, nil)

	body := `{"phase":"M1","week":3,"filename":"cardio-syllabus.pdf","content_type":"application/pdf"}`
	req := httptest.NewRequest(http.MethodPost, "/api/materials/init", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.InitUpload(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "mat-123", data["material_id"])
	assert.Equal(t, "https://storage.example.com/upload", data["upload_url"])
	mockSvc.AssertExpectations(t)
}

func TestMaterialHandler_InitUpload_MissingFilename(t *testing.T) {
	handler := NewMaterialHandler(new(MockMaterialService))

	body := `{"phase":"M1","week":3,"content_type":"application/pdf"}`
	req := httptest.NewRequest(http.MethodPost, "/api/materials/init", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.InitUpload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "filename is required")
}

func TestMaterialHandler_InitUpload_InvalidPhase(t *testing.T) {
	handler := NewMaterialHandler(new(MockMaterialService))

	body := `{"phase":"M7","week":3,"filename":"notes.pdf"}`
	req := httptest.NewRequest(http.MethodPost, "/api/materials/init", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.InitUpload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid curriculum phase")
}

func TestMaterialHandler_CompleteUpload_Success(t *testing.T) {
	mockSvc := new(MockMaterialService)
	handler := NewMaterialHandler(mockSvc)

	expected := newTestMaterial()
	mockSvc.On("CompleteUpload", mock.Anything, mock.MatchedBy(func(input service.CompleteUploadInput) bool {
		return input.MaterialID == "mat-123" &&
			input.StorageKey == "materials/M1/week-3/mat-123/cardio-syllabus.pdf" &&
			input.Phase == domain.PhaseM1 &&
			input.SHA256 == "abc123hash"
	})).Return(expected, nil)

	body := `{"material_id":"mat-123","phase":"M1","week":3,"filename":"cardio-syllabus.pdf","content_type":"application/pdf","storage_key":"materials/M1/week-3/mat-123/cardio-syllabus.pdf","sha256":"abc123hash"}`
	req := httptest.NewRequest(http.MethodPost, "/api/materials/complete", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.CompleteUpload(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "mat-123", data["id"])
	assert.Equal(t, "uploaded", data["status"])
	assert.Equal(t, "2026-03-10T09:30:00Z", data["created_at"])
	mockSvc.AssertExpectations(t)
}

func TestMaterialHandler_CompleteUpload_MissingMaterialID(t *testing.T) {
	handler := NewMaterialHandler(new(MockMaterialService))

	body := `{"phase":"M1","storage_key":"k","filename":"f.pdf"}`
	req := httptest.NewRequest(http.MethodPost, "/api/materials/complete", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.CompleteUpload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "material_id is required")
}

func TestMaterialHandler_CompleteUpload_UploadMissing(t *testing.T) {
	mockSvc := new(MockMaterialService)
	handler := NewMaterialHandler(mockSvc)

	mockSvc.On("CompleteUpload", mock.Anything, mock.Anything).Return(nil, domain.ErrMaterialUploadNotFound)

	body := `{"material_id":"mat-123","phase":"M1","week":3,"filename":"f.pdf","storage_key":"k"}`
	req := httptest.NewRequest(http.MethodPost, "/api/materials/complete", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.CompleteUpload(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestMaterialHandler_GetDownloadURL_Success(t *testing.T) {
	mockSvc := new(MockMaterialService)
	handler := NewMaterialHandler(mockSvc)

	mockSvc.On("GetDownloadURL", mock.Anything, "mat-123").Return("https://storage.example.com/download", nil)

	req := requestWithRouteParam(http.MethodGet, "/api/materials/mat-123/download", "id", "mat-123", nil)
	w := httptest.NewRecorder()

	handler.GetDownloadURL(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "https://storage.example.com/download", data["download_url"])
	mockSvc.AssertExpectations(t)
}

func TestMaterialHandler_GetDownloadURL_NotFound(t *testing.T) {
	mockSvc := new(MockMaterialService)
	handler := NewMaterialHandler(mockSvc)

	mockSvc.On("GetDownloadURL", mock.Anything, "mat-999").Return("", domain.ErrMaterialNotFound)

	req := requestWithRouteParam(http.MethodGet, "/api/materials/mat-999/download", "id", "mat-999", nil)
	w := httptest.NewRecorder()

	handler.GetDownloadURL(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestMaterialHandler_List_Success(t *testing.T) {
	mockSvc := new(MockMaterialService)
	handler := NewMaterialHandler(mockSvc)

	mockSvc.On("ListByPhase", mock.Anything, domain.PhaseM1).Return([]*domain.Material{newTestMaterial()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/materials?phase=M1", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	items := resp["data"].([]interface{})
	require.Len(t, items, 1)
	mockSvc.AssertExpectations(t)
}

func TestMaterialHandler_List_InvalidPhase(t *testing.T) {
	handler := NewMaterialHandler(new(MockMaterialService))

	req := httptest.NewRequest(http.MethodGet, "/api/materials?phase=bogus", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
