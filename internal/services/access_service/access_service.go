package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"surprise_week/internal/lib/jwt"
	"surprise_week/internal/lib/logger/sl"
	"surprise_week/internal/repository"
)

// WrongPasswordError carries the configured hint back to the entrance form.
type WrongPasswordError struct {
	Hint string
}

func (e *WrongPasswordError) Error() string { return "wrong password" }

// AccessService guards the entrance. A correct site password yields a signed
// token bound to the caller's device, which the rest of the site requires.
type AccessService struct {
	log      *slog.Logger
	settings repository.SettingsRepository
	secret   string
	tokenTTL time.Duration
}

func NewAccessService(log *slog.Logger, settings repository.SettingsRepository, secret string, tokenTTL time.Duration) *AccessService {
	return &AccessService{
		log:      log,
		settings: settings,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *AccessService) Enter(ctx context.Context, password, deviceID string) (string, error) {
	const op = "access_service.Enter"
	log := s.log.With(slog.String("op", op))

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		log.Error("failed to read settings", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if password != settings.SitePassword() || settings.SitePassword() == "" {
		log.Info("wrong password attempt")
		return "", &WrongPasswordError{Hint: settings.PasswordHint()}
	}

	token, err := jwt.NewToken(deviceID, s.secret, s.tokenTTL)
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("entrance granted", slog.String("device_id", deviceID))
	return token, nil
}

// Verify checks a presented token and returns the device id it was bound to.
func (s *AccessService) Verify(token string) (string, error) {
	return jwt.ParseToken(token, s.secret)
}
