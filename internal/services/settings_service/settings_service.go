package services

import (
	"context"
	"fmt"
	"log/slog"

	"surprise_week/internal/domain/models"
	"surprise_week/internal/lib/logger/sl"
	"surprise_week/internal/repository"
	"surprise_week/internal/transport/http/dto"
)

// SettingsService exposes the site's key-value settings. Public reads never
// include the password itself, only its hint.
type SettingsService struct {
	log  *slog.Logger
	repo repository.SettingsRepository
}

func NewSettingsService(log *slog.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

func (s *SettingsService) Public(ctx context.Context) (dto.SettingsResponse, error) {
	const op = "settings_service.Public"
	log := s.log.With(slog.String("op", op))

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		log.Error("failed to read settings", sl.Err(err))
		return dto.SettingsResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	return dto.SettingsResponse{
		HerNickname:   settings.Nickname(),
		YourSignature: settings.Signature(),
		PasswordHint:  settings.PasswordHint(),
	}, nil
}

// Update upserts each provided key; omitted keys are untouched.
func (s *SettingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) error {
	const op = "settings_service.Update"
	log := s.log.With(slog.String("op", op))

	pairs := map[string]*string{
		models.SettingHerNickname:   req.HerNickname,
		models.SettingYourSignature: req.YourSignature,
		models.SettingSitePassword:  req.SitePassword,
		models.SettingPasswordHint:  req.PasswordHint,
	}
	for key, value := range pairs {
		if value == nil {
			continue
		}
		if err := s.repo.UpsertSetting(ctx, key, *value); err != nil {
			log.Error("failed to upsert setting", slog.String("key", key), sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}
		log.Info("setting updated", slog.String("key", key))
	}

	return nil
}
