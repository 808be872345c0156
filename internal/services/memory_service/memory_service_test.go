package services_test

import (
	"bytes"
	"context"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"surprise_week/internal/domain/models"
	services "surprise_week/internal/services/memory_service"
	"surprise_week/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMemoryRepo struct {
	mock.Mock
}

func (m *MockMemoryRepo) SaveMemory(ctx context.Context, mem models.Memory) (uuid.UUID, error) {
	args := m.Called(ctx, mem)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockMemoryRepo) UpdateMemory(ctx context.Context, mem models.Memory) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *MockMemoryRepo) GetMemoryByID(ctx context.Context, id uuid.UUID) (*models.Memory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Memory), args.Error(1)
}

func (m *MockMemoryRepo) ListMemories(ctx context.Context) ([]models.Memory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Memory), args.Error(1)
}

type MockSingleUploader struct {
	mock.Mock
}

func (m *MockSingleUploader) UploadSingle(ctx context.Context, file *multipart.FileHeader, kindHint string) (string, models.MediaKind, error) {
	args := m.Called(ctx, file, kindHint)
	return args.String(0), args.Get(1).(models.MediaKind), args.Error(2)
}

func createTestFile(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("photo bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	file.Close()

	return header
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
}

func TestMemoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("photo file goes through the uploader", func(t *testing.T) {
		repo := new(MockMemoryRepo)
		uploader := new(MockSingleUploader)
		photo := createTestFile(t, "us.jpg")

		uploader.On("UploadSingle", ctx, photo, "image").
			Return("http://x/memories/us.jpg", models.MediaKindPhoto, nil).Once()
		repo.On("ListMemories", ctx).Return([]models.Memory{{}, {}}, nil)

		var saved models.Memory
		repo.On("SaveMemory", ctx, mock.AnythingOfType("models.Memory")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(models.Memory) }).
			Return(uuid.New(), nil)

		svc := services.NewMemoryService(testLogger(), repo, uploader)
		resp, err := svc.Create(ctx, dto.MemoryInput{
			Date:     "summer 2023",
			Caption:  "that beach",
			Rotation: -3.5,
			Photo:    photo,
		})
		require.NoError(t, err)

		assert.Equal(t, "http://x/memories/us.jpg", saved.PhotoURL)
		assert.Equal(t, models.MemoryPositionCenter, saved.Position, "default position")
		assert.Equal(t, 3, saved.OrderIndex, "appended after existing entries")
		assert.Equal(t, "http://x/memories/us.jpg", resp.PhotoURL)
		uploader.AssertExpectations(t)
	})

	t.Run("ready url skips the uploader", func(t *testing.T) {
		repo := new(MockMemoryRepo)
		uploader := new(MockSingleUploader)
		repo.On("ListMemories", ctx).Return([]models.Memory{}, nil)
		repo.On("SaveMemory", ctx, mock.AnythingOfType("models.Memory")).Return(uuid.New(), nil)

		svc := services.NewMemoryService(testLogger(), repo, uploader)
		_, err := svc.Create(ctx, dto.MemoryInput{
			PhotoURL: "http://x/already-there.jpg",
			Position: "left",
		})
		require.NoError(t, err)
		uploader.AssertNotCalled(t, "UploadSingle")
	})

	t.Run("no photo at all fails validation", func(t *testing.T) {
		repo := new(MockMemoryRepo)
		repo.On("ListMemories", ctx).Return([]models.Memory{}, nil)

		svc := services.NewMemoryService(testLogger(), repo, new(MockSingleUploader))
		_, err := svc.Create(ctx, dto.MemoryInput{Caption: "captionless"})

		var verr *models.MemoryValidationError
		require.ErrorAs(t, err, &verr)
		repo.AssertNotCalled(t, "SaveMemory")
	})
}

func TestMemoryService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	current := &models.Memory{
		ID:         id,
		PhotoURL:   "http://x/old.jpg",
		Caption:    "old caption",
		Position:   models.MemoryPositionRight,
		OrderIndex: 2,
	}

	t.Run("kept photo and position survive a caption edit", func(t *testing.T) {
		repo := new(MockMemoryRepo)
		repo.On("GetMemoryByID", ctx, id).Return(current, nil)

		var updated models.Memory
		repo.On("UpdateMemory", ctx, mock.AnythingOfType("models.Memory")).
			Run(func(args mock.Arguments) { updated = args.Get(1).(models.Memory) }).
			Return(nil)

		svc := services.NewMemoryService(testLogger(), repo, new(MockSingleUploader))
		_, err := svc.Update(ctx, id, dto.MemoryInput{Caption: "new caption"})
		require.NoError(t, err)

		assert.Equal(t, "http://x/old.jpg", updated.PhotoURL)
		assert.Equal(t, models.MemoryPositionRight, updated.Position)
		assert.Equal(t, 2, updated.OrderIndex)
		assert.Equal(t, "new caption", updated.Caption)
	})
}
