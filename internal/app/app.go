package app

import (
	"context"
	"log/slog"

	httpapp "surprise_week/internal/app/http"
	"surprise_week/internal/config"
	"surprise_week/internal/repository"
	accessservice "surprise_week/internal/services/access_service"
	mediaservice "surprise_week/internal/services/media_service"
	memoryservice "surprise_week/internal/services/memory_service"
	settingsservice "surprise_week/internal/services/settings_service"
	surpriseservice "surprise_week/internal/services/surprise_service"
	"surprise_week/internal/storage/filestorage"
	redisapp "surprise_week/internal/storage/redis"
	httprouters "surprise_week/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	repo  *repository.Repository
	redis *redisapp.Client
}

// New wires every layer together: postgres, redis, the file store, the
// services and the echo server. It panics on any wiring failure, the process
// cannot do anything useful half-assembled.
func New(log *slog.Logger, cfg *config.Config) *App {
	repo, err := repository.NewRepository(context.Background(), cfg.DSN)
	if err != nil {
		panic(err)
	}

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := redisClient.HealthCheck(context.Background()); err != nil {
		panic(err)
	}
	progressRepo := repository.NewRedisProgressRepo(redisClient)

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
	if err != nil {
		panic(err)
	}

	mediaService := mediaservice.NewMediaService(log, fileStorage, mediaservice.NewProgressTracker(), mediaservice.Limits{
		MaxPhotoSize: cfg.FileStorage.MaxPhotoSize,
		MaxVideoSize: cfg.FileStorage.MaxVideoSize,
		MaxAudioSize: cfg.FileStorage.MaxAudioSize,
	})

	surpriseService := surpriseservice.NewSurpriseService(log, repo.Surprise, repo.Memory, progressRepo, mediaService)
	memoryService := memoryservice.NewMemoryService(log, repo.Memory, mediaService)
	settingsService := settingsservice.NewSettingsService(log, repo.Settings)
	accessService := accessservice.NewAccessService(log, repo.Settings, cfg.TokenSecret, cfg.TokenTTL)

	routers := httprouters.NewRouter(log, surpriseService, memoryService, settingsService, accessService, mediaService)

	server := httpapp.New(log, cfg.TokenSecret, cfg.HTTP.Host, cfg.HTTP.Port, cfg.FileStorage.BaseDir, routers)

	return &App{
		HTTPServer: server,
		repo:       repo,
		redis:      redisClient,
	}
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		panic(err)
	}
	a.repo.Close()
	_ = a.redis.Close()
}
