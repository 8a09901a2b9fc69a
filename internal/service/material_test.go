package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/spartanmed/medchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) Create(ctx context.Context, material *domain.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *MockMaterialRepository) GetByID(ctx context.Context, id string) (*domain.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Material), args.Error(1)
}

func (m *MockMaterialRepository) ListByPhase(ctx context.Context, phase domain.Phase) ([]*domain.Material, error) {
	args := m.Called(ctx, phase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Material), args.Error(1)
}

type MockStorageClient struct {
	mock.Mock
}

func (m *MockStorageClient) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorageClient) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStorageClient) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorageClient) HeadObject(ctx context.Context, key string) (*ObjectMetadata, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ObjectMetadata), args.Error(1)
}

func TestMaterialService_InitUpload(t *testing.T) {
	repo := new(MockMaterialRepository)
	storageClient := new(MockStorageClient)
	svc := NewMaterialServiceWithUUIDGen(repo, storageClient, &sequenceUUIDGen{})

	storageClient.On("GenerateUploadURL", mock.Anything, "materials/M1/week-3/uuid-1/cardio_syllabus.pdf", "application/pdf").
		Return("https://storage.example.com/upload", nil)

	result, err := svc.InitUpload(context.Background(), InitUploadInput{
		Phase:       domain.PhaseM1,
		Week:        3,
		Filename:    "cardio syllabus.pdf",
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", result.MaterialID)
	assert.Equal(t, "materials/M1/week-3/uuid-1/cardio_syllabus.pdf", result.StorageKey)
	assert.Equal(t, "https://storage.example.com/upload", result.UploadURL)
	storageClient.AssertExpectations(t)
}

func TestMaterialService_InitUpload_MissingFilename(t *testing.T) {
	svc := NewMaterialService(new(MockMaterialRepository), new(MockStorageClient))

	_, err := svc.InitUpload(context.Background(), InitUploadInput{Phase: domain.PhaseM1})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
}

func TestMaterialService_InitUpload_InvalidPhase(t *testing.T) {
	svc := NewMaterialService(new(MockMaterialRepository), new(MockStorageClient))

	_, err := svc.InitUpload(context.Background(), InitUploadInput{
		Phase:    domain.Phase("M9"),
		Filename: "f.pdf",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPhase)
}

func TestMaterialService_CompleteUpload(t *testing.T) {
	repo := new(MockMaterialRepository)
	storageClient := new(MockStorageClient)
	svc := NewMaterialService(repo, storageClient)

	storageClient.On("HeadObject", mock.Anything, "materials/M1/week-3/mat-1/f.pdf").Return(&ObjectMetadata{
		ContentLength: 4096,
		ContentType:   "application/pdf",
	}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Material) bool {
		return m.ID == "mat-1" &&
			m.SizeBytes == 4096 &&
			m.Status == domain.MaterialStatusUploaded
	})).Return(nil)

	material, err := svc.CompleteUpload(context.Background(), CompleteUploadInput{
		MaterialID:  "mat-1",
		Phase:       domain.PhaseM1,
		Week:        3,
		Filename:    "f.pdf",
		ContentType: "application/pdf",
		StorageKey:  "materials/M1/week-3/mat-1/f.pdf",
		SHA256:      "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4096), material.SizeBytes)
	assert.Equal(t, domain.MaterialStatusUploaded, material.Status)
	repo.AssertExpectations(t)
	storageClient.AssertExpectations(t)
}

func TestMaterialService_CompleteUpload_ObjectMissing(t *testing.T) {
	repo := new(MockMaterialRepository)
	storageClient := new(MockStorageClient)
	svc := NewMaterialService(repo, storageClient)

	storageClient.On("HeadObject", mock.Anything, "missing-key").Return(nil, fmt.Errorf("not found"))

	_, err := svc.CompleteUpload(context.Background(), CompleteUploadInput{
		MaterialID: "mat-1",
		Phase:      domain.PhaseM1,
		Filename:   "f.pdf",
		StorageKey: "missing-key",
	})
	assert.ErrorIs(t, err, domain.ErrMaterialUploadNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMaterialService_CompleteUpload_ChecksumMismatch(t *testing.T) {
	repo := new(MockMaterialRepository)
	storageClient := new(MockStorageClient)
	svc := NewMaterialService(repo, storageClient)

	// Object checksum is sha256("abc"); the client declares a different hash.
	storageClient.On("HeadObject", mock.Anything, "key").Return(&ObjectMetadata{
		ContentLength:  3,
		ChecksumSHA256: "ungWv48Bz+pBQUDeXa4iI7ADYaOWF3qctBD/YfIAFa0=",
	}, nil)

	_, err := svc.CompleteUpload(context.Background(), CompleteUploadInput{
		MaterialID: "mat-1",
		Phase:      domain.PhaseM1,
		Filename:   "f.pdf",
		StorageKey: "key",
		SHA256:     "0000000000000000000000000000000000000000000000000000000000000000",
	})
	assert.ErrorIs(t, err, domain.ErrSHA256Mismatch)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMaterialService_CompleteUpload_ChecksumMatch(t *testing.T) {
	repo := new(MockMaterialRepository)
	storageClient := new(MockStorageClient)
	svc := NewMaterialService(repo, storageClient)

	storageClient.On("HeadObject", mock.Anything, "key").Return(&ObjectMetadata{
		ContentLength:  3,
		ChecksumSHA256: "ungWv48Bz+pBQUDeXa4iI7ADYaOWF3qctBD/YfIAFa0=",
	}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	material, err := svc.CompleteUpload(context.Background(), CompleteUploadInput{
		MaterialID: "mat-1",
		Phase:      domain.PhaseM1,
		Filename:   "f.pdf",
		StorageKey: "key",
		SHA256:     "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialStatusUploaded, material.Status)
	repo.AssertExpectations(t)
}

func TestMaterialService_CompleteUpload_MalformedDeclaredHash(t *testing.T) {
	repo := new(MockMaterialRepository)
	storageClient := new(MockStorageClient)
	svc := NewMaterialService(repo, storageClient)

	storageClient.On("HeadObject", mock.Anything, "key").Return(&ObjectMetadata{
		ContentLength:  3,
		ChecksumSHA256: "ungWv48Bz+pBQUDeXa4iI7ADYaOWF3qctBD/YfIAFa0=",
	}, nil)

	_, err := svc.CompleteUpload(context.Background(), CompleteUploadInput{
		MaterialID: "mat-1",
		Phase:      domain.PhaseM1,
		Filename:   "f.pdf",
		StorageKey: "key",
		SHA256:     "not-hex",
	})
	assert.ErrorIs(t, err, domain.ErrSHA256Mismatch)
}

func TestMaterialService_CompleteUpload_RepoFailureCleansUpObject(t *testing.T) {
	repo := new(MockMaterialRepository)
	storageClient := new(MockStorageClient)
	svc := NewMaterialService(repo, storageClient)

	storageClient.On("HeadObject", mock.Anything, "key").Return(&ObjectMetadata{ContentLength: 10}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(fmt.Errorf("insert failed"))
	storageClient.On("DeleteObject", mock.Anything, "key").Return(nil)

	_, err := svc.CompleteUpload(context.Background(), CompleteUploadInput{
		MaterialID: "mat-1",
		Phase:      domain.PhaseM1,
		Filename:   "f.pdf",
		StorageKey: "key",
	})
	require.Error(t, err)
	storageClient.AssertCalled(t, "DeleteObject", mock.Anything, "key")
}

func TestMaterialService_GetDownloadURL(t *testing.T) {
	repo := new(MockMaterialRepository)
	storageClient := new(MockStorageClient)
	svc := NewMaterialService(repo, storageClient)

	repo.On("GetByID", mock.Anything, "mat-1").Return(&domain.Material{
		ID:         "mat-1",
		StorageKey: "materials/M1/week-1/mat-1/f.pdf",
	}, nil)
	storageClient.On("GenerateDownloadURL", mock.Anything, "materials/M1/week-1/mat-1/f.pdf").
		Return("https://storage.example.com/download", nil)

	url, err := svc.GetDownloadURL(context.Background(), "mat-1")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/download", url)
}

func TestMaterialService_GetDownloadURL_NotFound(t *testing.T) {
	repo := new(MockMaterialRepository)
	svc := NewMaterialService(repo, new(MockStorageClient))

	repo.On("GetByID", mock.Anything, "mat-404").Return(nil, domain.ErrMaterialNotFound)

	_, err := svc.GetDownloadURL(context.Background(), "mat-404")
	assert.ErrorIs(t, err, domain.ErrMaterialNotFound)
}

func TestMaterialService_ListByPhase(t *testing.T) {
	repo := new(MockMaterialRepository)
	svc := NewMaterialService(repo, new(MockStorageClient))

	repo.On("ListByPhase", mock.Anything, domain.PhaseM2).Return([]*domain.Material{{ID: "mat-1"}}, nil)

	materials, err := svc.ListByPhase(context.Background(), domain.PhaseM2)
	require.NoError(t, err)
	require.Len(t, materials, 1)
}
