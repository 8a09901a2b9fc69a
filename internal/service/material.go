package service

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/spartanmed/medchat/internal/domain"
	"github.com/spartanmed/medchat/internal/telemetry"
)

// StorageClientInterface is the S3-compatible storage surface materials need.
type StorageClientInterface interface {
	GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error)
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	DeleteObject(ctx context.Context, key string) error
	HeadObject(ctx context.Context, key string) (*ObjectMetadata, error)
}

type ObjectMetadata struct {
	ContentLength int64
	ContentType   string
	ETag          string
	// ChecksumSHA256 is the base64 digest storage recorded for the object,
	// empty when the backend has none.
	ChecksumSHA256 string
}

// MaterialRepositoryInterface defines the repository interface for course
// material metadata.
type MaterialRepositoryInterface interface {
	Create(ctx context.Context, m *domain.Material) error
	GetByID(ctx context.Context, id string) (*domain.Material, error)
	ListByPhase(ctx context.Context, phase domain.Phase) ([]*domain.Material, error)
}

// MaterialService handles course file uploads via presigned URLs: init
// reserves a storage key, complete verifies the object landed and records
// the metadata row.
type MaterialService struct {
	materialRepo  MaterialRepositoryInterface
	storageClient StorageClientInterface
	uuidGen       UUIDGenerator
}

// NewMaterialService creates a new MaterialService instance.
func NewMaterialService(materialRepo MaterialRepositoryInterface, storageClient StorageClientInterface) *MaterialService {
	return &MaterialService{
		materialRepo:  materialRepo,
		storageClient: storageClient,
		uuidGen:       &DefaultUUIDGenerator{},
	}
}

// NewMaterialServiceWithUUIDGen creates a MaterialService with a custom UUID
// generator (for testing).
func NewMaterialServiceWithUUIDGen(materialRepo MaterialRepositoryInterface, storageClient StorageClientInterface, uuidGen UUIDGenerator) *MaterialService {
	return &MaterialService{
		materialRepo:  materialRepo,
		storageClient: storageClient,
		uuidGen:       uuidGen,
	}
}

type InitUploadInput struct {
	Phase       domain.Phase
	Week        int
	Filename    string
	ContentType string
}

type InitUploadResult struct {
	MaterialID string
	StorageKey string
	UploadURL  string
}

// InitUpload reserves a material ID and storage key and returns a presigned
// upload URL.
func (s *MaterialService) InitUpload(ctx context.Context, input InitUploadInput) (*InitUploadResult, error) {
	if input.Filename == "" {
		return nil, domain.ErrMissingRequiredField
	}
	if _, ok := domain.ParsePhase(string(input.Phase)); !ok {
		return nil, domain.ErrInvalidPhase
	}

	materialID := s.uuidGen.NewString()
	storageKey := buildStorageKey(input.Phase, input.Week, materialID, input.Filename)

	uploadURL, err := s.storageClient.GenerateUploadURL(ctx, storageKey, input.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload URL: %w", err)
	}

	return &InitUploadResult{
		MaterialID: materialID,
		StorageKey: storageKey,
		UploadURL:  uploadURL,
	}, nil
}

type CompleteUploadInput struct {
	MaterialID  string
	Phase       domain.Phase
	Week        int
	Filename    string
	ContentType string
	StorageKey  string
	SHA256      string
}

// CompleteUpload verifies the uploaded object exists and records the material.
func (s *MaterialService) CompleteUpload(ctx context.Context, input CompleteUploadInput) (*domain.Material, error) {
	ctx, span := telemetry.StartSpan(ctx, "MaterialService.CompleteUpload", telemetry.SpanAttributes{
		MaterialID: input.MaterialID,
		Operation:  "complete_upload",
	})
	defer span.End()

	meta, err := s.storageClient.HeadObject(ctx, input.StorageKey)
	if err != nil {
		return nil, domain.ErrMaterialUploadNotFound
	}

	// Verify the declared hash when storage recorded a checksum for the
	// object. Backends that accept plain presigned PUTs report none, in
	// which case the declared hash is stored as-is.
	if input.SHA256 != "" && meta.ChecksumSHA256 != "" {
		if !sha256HexMatchesBase64(input.SHA256, meta.ChecksumSHA256) {
			return nil, domain.ErrSHA256Mismatch
		}
	}

	now := time.Now().UTC()
	material := &domain.Material{
		ID:          input.MaterialID,
		Phase:       input.Phase,
		Week:        input.Week,
		Filename:    input.Filename,
		ContentType: input.ContentType,
		SizeBytes:   meta.ContentLength,
		SHA256:      input.SHA256,
		StorageKey:  input.StorageKey,
		Status:      domain.MaterialStatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := domain.ValidateMaterial(material); err != nil {
		return nil, err
	}

	if err := s.materialRepo.Create(ctx, material); err != nil {
		// Keep storage consistent with metadata: drop the orphaned object.
		_ = s.storageClient.DeleteObject(ctx, input.StorageKey)
		return nil, err
	}

	return material, nil
}

// GetDownloadURL returns a presigned download URL for an uploaded material.
func (s *MaterialService) GetDownloadURL(ctx context.Context, materialID string) (string, error) {
	material, err := s.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return "", err
	}

	url, err := s.storageClient.GenerateDownloadURL(ctx, material.StorageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}
	return url, nil
}

// ListByPhase returns the uploaded materials for a phase.
func (s *MaterialService) ListByPhase(ctx context.Context, phase domain.Phase) ([]*domain.Material, error) {
	return s.materialRepo.ListByPhase(ctx, phase)
}

func buildStorageKey(phase domain.Phase, week int, materialID, filename string) string {
	safe := strings.ReplaceAll(path.Base(filename), " ", "_")
	return fmt.Sprintf("materials/%s/week-%d/%s/%s", phase, week, materialID, safe)
}

// sha256HexMatchesBase64 compares a client-declared hex digest against the
// base64 digest storage reports. A digest that does not decode cannot match.
func sha256HexMatchesBase64(declaredHex, objectB64 string) bool {
	raw, err := hex.DecodeString(declaredHex)
	if err != nil {
		return false
	}
	return base64.StdEncoding.EncodeToString(raw) == objectB64
}
