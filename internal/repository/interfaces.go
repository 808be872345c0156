package repository

import (
	"context"
	"errors"

	"surprise_week/internal/domain/models"

	"github.com/google/uuid"
)

var (
	ErrSurpriseNotFound = errors.New("surprise not found")
	ErrMemoryNotFound   = errors.New("memory not found")
)

type SurpriseRepository interface {
	SaveSurprise(ctx context.Context, s models.Surprise) (uuid.UUID, error)
	UpdateSurprise(ctx context.Context, s models.Surprise) error
	GetSurpriseByID(ctx context.Context, id uuid.UUID) (*models.Surprise, error)
	ListSurprises(ctx context.Context) ([]models.Surprise, error)
	CountSurprises(ctx context.Context) (int, error)
}

type MemoryRepository interface {
	SaveMemory(ctx context.Context, m models.Memory) (uuid.UUID, error)
	UpdateMemory(ctx context.Context, m models.Memory) error
	GetMemoryByID(ctx context.Context, id uuid.UUID) (*models.Memory, error)
	ListMemories(ctx context.Context) ([]models.Memory, error)
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (models.Settings, error)
	UpsertSetting(ctx context.Context, key, value string) error
}

// ProgressRepository holds the advisory per-device flags: which surprises a
// device has already opened. Flags never influence the unlock gate and are
// not synchronized across devices.
type ProgressRepository interface {
	MarkViewed(ctx context.Context, deviceID string, surpriseID uuid.UUID) error
	IsViewed(ctx context.Context, deviceID string, surpriseID uuid.UUID) (bool, error)
	ViewedIDs(ctx context.Context, deviceID string) (map[uuid.UUID]bool, error)
}
