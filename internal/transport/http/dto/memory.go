package dto

import (
	"mime/multipart"
	"time"

	"github.com/google/uuid"
)

type MemoryInput struct {
	Date     string  `json:"date" form:"date"`
	Caption  string  `json:"caption" form:"caption"`
	Rotation float64 `json:"rotation" form:"rotation"`
	Position string  `json:"position" form:"position" validate:"omitempty,oneof=left center right"`

	PhotoURL string                `json:"photo_url" form:"photo_url"`
	Photo    *multipart.FileHeader `json:"-" form:"-"`
}

type MemoryResponse struct {
	ID         uuid.UUID `json:"id"`
	Date       string    `json:"date"`
	PhotoURL   string    `json:"photo_url"`
	Caption    string    `json:"caption"`
	Rotation   float64   `json:"rotation"`
	Position   string    `json:"position"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}
