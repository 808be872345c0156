package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MemoryPosition string

const (
	MemoryPositionLeft   MemoryPosition = "left"
	MemoryPositionCenter MemoryPosition = "center"
	MemoryPositionRight  MemoryPosition = "right"
)

func (p MemoryPosition) Valid() bool {
	switch p {
	case MemoryPositionLeft, MemoryPositionCenter, MemoryPositionRight:
		return true
	}
	return false
}

// Memory is one scrapbook entry: a photo with a caption pinned along the
// memory lane. Date is a free-text label, not necessarily parseable.
// Rotation is a display angle in degrees, conventionally -5..5. Memories are
// never gated; simple CRUD only.
type Memory struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	Date       string         `json:"date" db:"date"`
	PhotoURL   string         `json:"photo_url" db:"photo_url"`
	Caption    string         `json:"caption" db:"caption"`
	Rotation   float64        `json:"rotation" db:"rotation"`
	Position   MemoryPosition `json:"position" db:"position"`
	OrderIndex int            `json:"order_index" db:"order_index"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

func (m *Memory) Validate() error {
	var validationErrors []string

	if m.PhotoURL == "" {
		validationErrors = append(validationErrors, "photo url is required")
	}
	if !m.Position.Valid() {
		validationErrors = append(validationErrors,
			fmt.Sprintf("invalid position %q, must be left, center or right", m.Position))
	}

	if len(validationErrors) > 0 {
		return &MemoryValidationError{Errors: validationErrors}
	}
	return nil
}

type MemoryValidationError struct {
	Errors []string
}

func (e *MemoryValidationError) Error() string {
	return fmt.Sprintf("memory validation failed: %s", strings.Join(e.Errors, "; "))
}
