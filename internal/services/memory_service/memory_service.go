package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"surprise_week/internal/domain/models"
	"surprise_week/internal/lib/logger/sl"
	"surprise_week/internal/repository"
	"surprise_week/internal/transport/http/dto"

	"github.com/google/uuid"
)

type SingleUploader interface {
	UploadSingle(ctx context.Context, file *multipart.FileHeader, kindHint string) (string, models.MediaKind, error)
}

// MemoryService manages the polaroid wall. Photos either arrive as files and
// go through the uploader, or as ready URLs from a previous upload.
type MemoryService struct {
	log   *slog.Logger
	repo  repository.MemoryRepository
	media SingleUploader
}

func NewMemoryService(log *slog.Logger, repo repository.MemoryRepository, media SingleUploader) *MemoryService {
	return &MemoryService{log: log, repo: repo, media: media}
}

func (s *MemoryService) List(ctx context.Context) ([]dto.MemoryResponse, error) {
	const op = "memory_service.List"
	log := s.log.With(slog.String("op", op))

	memories, err := s.repo.ListMemories(ctx)
	if err != nil {
		log.Error("failed to list memories", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]dto.MemoryResponse, 0, len(memories))
	for _, m := range memories {
		out = append(out, memoryResponse(m))
	}
	return out, nil
}

func (s *MemoryService) Get(ctx context.Context, id uuid.UUID) (*dto.MemoryResponse, error) {
	const op = "memory_service.Get"

	m, err := s.repo.GetMemoryByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get memory", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := memoryResponse(*m)
	return &resp, nil
}

func (s *MemoryService) Create(ctx context.Context, in dto.MemoryInput) (*dto.MemoryResponse, error) {
	const op = "memory_service.Create"
	log := s.log.With(slog.String("op", op))

	m, err := s.buildMemory(ctx, in, nil)
	if err != nil {
		log.Warn("invalid memory input", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	memories, err := s.repo.ListMemories(ctx)
	if err != nil {
		log.Error("failed to list memories", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.OrderIndex = len(memories) + 1

	if err := m.Validate(); err != nil {
		log.Warn("memory validation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.SaveMemory(ctx, *m)
	if err != nil {
		log.Error("failed to save memory", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.ID = id

	log.Info("memory created", slog.String("memory_id", id.String()))
	resp := memoryResponse(*m)
	return &resp, nil
}

func (s *MemoryService) Update(ctx context.Context, id uuid.UUID, in dto.MemoryInput) (*dto.MemoryResponse, error) {
	const op = "memory_service.Update"
	log := s.log.With(slog.String("op", op), slog.String("memory_id", id.String()))

	current, err := s.repo.GetMemoryByID(ctx, id)
	if err != nil {
		log.Error("failed to get memory", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m, err := s.buildMemory(ctx, in, current)
	if err != nil {
		log.Warn("invalid memory input", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := m.Validate(); err != nil {
		log.Warn("memory validation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.UpdateMemory(ctx, *m); err != nil {
		log.Error("failed to update memory", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("memory updated")
	resp := memoryResponse(*m)
	return &resp, nil
}

func (s *MemoryService) buildMemory(ctx context.Context, in dto.MemoryInput, current *models.Memory) (*models.Memory, error) {
	photoURL := in.PhotoURL
	if in.Photo != nil {
		url, _, err := s.media.UploadSingle(ctx, in.Photo, "image")
		if err != nil {
			return nil, fmt.Errorf("photo upload: %w", err)
		}
		photoURL = url
	}
	if photoURL == "" && current != nil {
		photoURL = current.PhotoURL
	}

	position := models.MemoryPosition(in.Position)
	if in.Position == "" {
		position = models.MemoryPositionCenter
		if current != nil {
			position = current.Position
		}
	}

	m := &models.Memory{
		ID:        uuid.New(),
		Date:      in.Date,
		PhotoURL:  photoURL,
		Caption:   in.Caption,
		Rotation:  in.Rotation,
		Position:  position,
		CreatedAt: time.Now(),
	}
	if current != nil {
		m.ID = current.ID
		m.OrderIndex = current.OrderIndex
		m.CreatedAt = current.CreatedAt
	}
	return m, nil
}

func memoryResponse(m models.Memory) dto.MemoryResponse {
	return dto.MemoryResponse{
		ID:         m.ID,
		Date:       m.Date,
		PhotoURL:   m.PhotoURL,
		Caption:    m.Caption,
		Rotation:   m.Rotation,
		Position:   string(m.Position),
		OrderIndex: m.OrderIndex,
		CreatedAt:  m.CreatedAt,
	}
}
