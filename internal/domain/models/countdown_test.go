package models_test

import (
	"testing"
	"time"

	"surprise_week/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestCountdownUntil(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		until time.Duration
		want  models.Countdown
	}{
		{
			"full decomposition",
			49*time.Hour + 30*time.Minute + 15*time.Second,
			models.Countdown{Days: 2, Hours: 1, Minutes: 30, Seconds: 15, RemainingMS: 178_215_000},
		},
		{
			"under a minute",
			42 * time.Second,
			models.Countdown{Seconds: 42, RemainingMS: 42_000},
		},
		{
			"sub-second remainder floors to zero seconds",
			900 * time.Millisecond,
			models.Countdown{RemainingMS: 900},
		},
		{
			"exact day boundary",
			24 * time.Hour,
			models.Countdown{Days: 1, RemainingMS: 86_400_000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.CountdownUntil(now, now.Add(tt.until)))
		})
	}

	t.Run("past dates read as zero, never negative", func(t *testing.T) {
		cd := models.CountdownUntil(now, now.Add(-time.Hour))
		assert.Equal(t, models.Countdown{}, cd)
	})

	t.Run("the unlock instant itself is zero", func(t *testing.T) {
		assert.Equal(t, models.Countdown{}, models.CountdownUntil(now, now))
	})
}

func TestMemoryValidate(t *testing.T) {
	m := models.Memory{
		PhotoURL: "http://x/a.jpg",
		Position: models.MemoryPositionLeft,
	}
	assert.NoError(t, m.Validate())

	t.Run("photo url required", func(t *testing.T) {
		bad := m
		bad.PhotoURL = ""
		assert.Error(t, bad.Validate())
	})

	t.Run("position must be known", func(t *testing.T) {
		bad := m
		bad.Position = "diagonal"
		assert.Error(t, bad.Validate())
	})
}
