package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"surprise_week/internal/domain/models"
	"surprise_week/internal/lib/logger/sl"
	"surprise_week/internal/repository"
	accessservice "surprise_week/internal/services/access_service"
	mediaservice "surprise_week/internal/services/media_service"
	surpriseservice "surprise_week/internal/services/surprise_service"
	"surprise_week/internal/transport/http/dto"
	"surprise_week/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

type SurpriseService interface {
	List(ctx context.Context, deviceID string) (dto.SurpriseListResponse, error)
	Get(ctx context.Context, id uuid.UUID, deviceID string) (*dto.SurpriseDetailResponse, error)
	NextUnlock(ctx context.Context) (*dto.NextUnlockResponse, error)
	AnswerQuiz(ctx context.Context, id uuid.UUID, req dto.AnswerRequest) (dto.AnswerResponse, error)
	Create(ctx context.Context, in dto.SurpriseInput) (*dto.SurpriseDetailResponse, error)
	Update(ctx context.Context, id uuid.UUID, in dto.SurpriseInput) (*dto.SurpriseDetailResponse, error)
	Stats(ctx context.Context, deviceID string) (dto.StatsResponse, error)
}

type MemoryService interface {
	List(ctx context.Context) ([]dto.MemoryResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.MemoryResponse, error)
	Create(ctx context.Context, in dto.MemoryInput) (*dto.MemoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, in dto.MemoryInput) (*dto.MemoryResponse, error)
}

type SettingsService interface {
	Public(ctx context.Context) (dto.SettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) error
}

type AccessService interface {
	Enter(ctx context.Context, password, deviceID string) (string, error)
	Verify(token string) (string, error)
}

type MediaService interface {
	UploadSingle(ctx context.Context, file *multipart.FileHeader, kindHint string) (string, models.MediaKind, error)
	Progress(batchID string) mediaservice.UploadProgress
}

type Routers struct {
	log             *slog.Logger
	SurpriseService SurpriseService
	MemoryService   MemoryService
	SettingsService SettingsService
	AccessService   AccessService
	MediaService    MediaService
}

func NewRouter(log *slog.Logger, surpriseService SurpriseService, memoryService MemoryService, settingsService SettingsService, accessService AccessService, mediaService MediaService) *Routers {
	return &Routers{
		log:             log,
		SurpriseService: surpriseService,
		MemoryService:   memoryService,
		SettingsService: settingsService,
		AccessService:   accessService,
		MediaService:    mediaService,
	}
}

var ErrInvalidUUID = errors.New("not valid UUID")

const deviceIDKey = "device_id"

// deviceID returns the per-browser identity from the session cookie, minting
// one on first contact. Viewed flags key off it.
func (r *Routers) deviceID(c echo.Context) string {
	sess, err := session.Get("session", c)
	if err != nil {
		return ""
	}
	if id, ok := sess.Values[deviceIDKey].(string); ok && id != "" {
		return id
	}
	id := uuid.New().String()
	sess.Values[deviceIDKey] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		r.log.Warn("failed to save session", sl.Err(err))
	}
	return id
}

// RequireAccess guards everything past the entrance. The token rides in the
// Authorization header; its device id wins over the cookie one.
func (r *Routers) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		const prefix = "Bearer "

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
		}

		deviceID, err := r.AccessService.Verify(header[len(prefix):])
		if err != nil {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
		}

		c.Set(deviceIDKey, deviceID)
		return next(c)
	}
}

func (r *Routers) callerDevice(c echo.Context) string {
	if id, ok := c.Get(deviceIDKey).(string); ok && id != "" {
		return id
	}
	return r.deviceID(c)
}

// Entrance godoc
// @Summary Enter the site
// @Description Checks the site password and returns an access token. A wrong password returns the configured hint.
// @Tags access
// @Accept json
// @Produce json
// @Param request body dto.EntranceRequest true "Site password"
// @Success 200 {object} response.Response{data=dto.EntranceResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/entrance [post]
func (r *Routers) Entrance(c echo.Context) error {
	const op = "http.routers.Entrance"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.EntranceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		log.Warn("invalid entrance request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	token, err := r.AccessService.Enter(c.Request().Context(), req.Password, r.deviceID(c))
	if err != nil {
		var wp *accessservice.WrongPasswordError
		if errors.As(err, &wp) {
			resp := response.ErrWrongPassword
			resp.Details = wp.Hint
			return c.JSON(http.StatusUnauthorized, resp)
		}
		log.Error("entrance failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.EntranceResponse{Token: token}))
}

// GetSettings godoc
// @Summary Public site settings
// @Description Returns the nickname, signature and password hint. The password itself never appears here.
// @Tags settings
// @Produce json
// @Success 200 {object} response.Response{data=dto.SettingsResponse}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/settings [get]
func (r *Routers) GetSettings(c echo.Context) error {
	const op = "http.routers.GetSettings"

	settings, err := r.SettingsService.Public(c.Request().Context())
	if err != nil {
		r.log.Error("failed to read settings", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(settings))
}

// UpdateSettings godoc
// @Summary Update site settings
// @Description Upserts the provided settings keys. Omitted keys keep their value.
// @Tags settings
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Settings to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/settings [put]
func (r *Routers) UpdateSettings(c echo.Context) error {
	const op = "http.routers.UpdateSettings"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid settings request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := r.SettingsService.Update(c.Request().Context(), req); err != nil {
		log.Error("failed to update settings", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.Response{Success: true, Message: "settings updated"})
}

// ListSurprises godoc
// @Summary Surprise timeline
// @Description Returns every surprise as a locked-safe card with unlock state, remaining time and viewed flag.
// @Tags surprises
// @Produce json
// @Success 200 {object} response.Response{data=dto.SurpriseListResponse}
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/surprises [get]
func (r *Routers) ListSurprises(c echo.Context) error {
	const op = "http.routers.ListSurprises"

	list, err := r.SurpriseService.List(c.Request().Context(), r.callerDevice(c))
	if err != nil {
		r.log.Error("failed to list surprises", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(list))
}

// NextUnlock godoc
// @Summary Next locked surprise
// @Description Returns the soonest still-locked surprise with its countdown. Data is null once everything has unlocked.
// @Tags surprises
// @Produce json
// @Success 200 {object} response.Response{data=dto.NextUnlockResponse}
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/surprises/next [get]
func (r *Routers) NextUnlock(c echo.Context) error {
	const op = "http.routers.NextUnlock"

	next, err := r.SurpriseService.NextUnlock(c.Request().Context())
	if err != nil {
		if errors.Is(err, surpriseservice.ErrNoLockedSurprises) {
			return c.JSON(http.StatusOK, response.Response{Success: true, Message: "everything is unlocked"})
		}
		r.log.Error("failed to find next unlock", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(next))
}

// GetSurprise godoc
// @Summary Full surprise content
// @Description Returns the payload and media of an unlocked surprise and marks it viewed for this device. Locked ids get 403 with the countdown.
// @Tags surprises
// @Produce json
// @Param id path string true "Surprise UUID" format(uuid)
// @Success 200 {object} response.Response{data=dto.SurpriseDetailResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/surprises/{id} [get]
func (r *Routers) GetSurprise(c echo.Context) error {
	const op = "http.routers.GetSurprise"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid surprise id", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	detail, err := r.SurpriseService.Get(c.Request().Context(), id, r.callerDevice(c))
	if err != nil {
		var locked *surpriseservice.LockedError
		if errors.As(err, &locked) {
			return c.JSON(http.StatusForbidden, response.Response{
				Success: false,
				Message: response.ErrStillLocked.Error,
				Data: map[string]any{
					"title":             locked.Title,
					"locked_hint":       locked.LockedHint,
					"unlock_date":       locked.UnlockDate,
					"countdown":         locked.Countdown,
					"time_remaining_ms": locked.Countdown.RemainingMS,
				},
			})
		}
		if errors.Is(err, repository.ErrSurpriseNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}
		log.Error("failed to get surprise", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(detail))
}

// AnswerQuiz godoc
// @Summary Grade a quiz answer
// @Description Grades one answer for an unlocked quiz surprise. Incorrect results include the hint when one is set.
// @Tags surprises
// @Accept json
// @Produce json
// @Param id path string true "Surprise UUID" format(uuid)
// @Param request body dto.AnswerRequest true "The guess"
// @Success 200 {object} response.Response{data=dto.AnswerResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/surprises/{id}/answers [post]
func (r *Routers) AnswerQuiz(c echo.Context) error {
	const op = "http.routers.AnswerQuiz"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid surprise id", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	var req dto.AnswerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		log.Warn("invalid answer request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	result, err := r.SurpriseService.AnswerQuiz(c.Request().Context(), id, req)
	if err != nil {
		var locked *surpriseservice.LockedError
		switch {
		case errors.As(err, &locked):
			return c.JSON(http.StatusForbidden, response.ErrStillLocked)
		case errors.Is(err, repository.ErrSurpriseNotFound),
			errors.Is(err, surpriseservice.ErrNoSuchQuestion):
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}
		log.Error("failed to grade answer", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

// CreateSurprise godoc
// @Summary Create a surprise
// @Description Authors a new surprise from a multipart form. New media uploads sequentially before the record is written; one oversized file rejects the whole batch.
// @Tags surprises
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Card title"
// @Param unlock_date formData string true "RFC3339 timestamp or YYYY-MM-DD"
// @Param content_type formData string true "Content type" Enums(letter, photo, video, voice_note, quiz, playlist, mixed)
// @Success 201 {object} response.Response{data=dto.SurpriseDetailResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/surprises [post]
func (r *Routers) CreateSurprise(c echo.Context) error {
	const op = "http.routers.CreateSurprise"

	log := r.log.With(
		slog.String("op", op),
	)

	in, err := r.parseSurpriseInput(c)
	if err != nil {
		log.Warn("failed to parse surprise form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(in); err != nil {
		log.Warn("invalid surprise form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	detail, err := r.SurpriseService.Create(c.Request().Context(), *in)
	if err != nil {
		return r.surpriseWriteError(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(detail))
}

// UpdateSurprise godoc
// @Summary Edit a surprise
// @Description Re-authors an existing surprise. Existing media absent from the form is dropped; new files upload and merge after the kept ones.
// @Tags surprises
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Surprise UUID" format(uuid)
// @Success 200 {object} response.Response{data=dto.SurpriseDetailResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/surprises/{id} [put]
func (r *Routers) UpdateSurprise(c echo.Context) error {
	const op = "http.routers.UpdateSurprise"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid surprise id", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	in, err := r.parseSurpriseInput(c)
	if err != nil {
		log.Warn("failed to parse surprise form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(in); err != nil {
		log.Warn("invalid surprise form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	detail, err := r.SurpriseService.Update(c.Request().Context(), id, *in)
	if err != nil {
		if errors.Is(err, repository.ErrSurpriseNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}
		return r.surpriseWriteError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(detail))
}

func (r *Routers) surpriseWriteError(c echo.Context, log *slog.Logger, err error) error {
	var tooLarge *mediaservice.FileTooLargeError
	if errors.As(err, &tooLarge) {
		log.Warn("file too large", sl.Err(err))
		return c.JSON(http.StatusRequestEntityTooLarge, response.ErrorResponseWithDetails("file_too_large", tooLarge.Error()))
	}

	var upload *mediaservice.UploadFailedError
	if errors.As(err, &upload) {
		log.Error("upload failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("upload_failed", upload.Error()))
	}

	var invalid *models.SurpriseValidationError
	if errors.As(err, &invalid) {
		log.Warn("invalid surprise", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", invalid.Error()))
	}

	log.Error("failed to save surprise", sl.Err(err))
	return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
}

// UploadProgress godoc
// @Summary Poll batch upload progress
// @Description Reports the sequential upload position of an authoring batch: current file, counts and percentage.
// @Tags media
// @Produce json
// @Param batch_id path string true "Batch id"
// @Success 200 {object} response.Response{data=mediaservice.UploadProgress}
// @Security ApiKeyAuth
// @Router /api/v1/uploads/{batch_id} [get]
func (r *Routers) UploadProgress(c echo.Context) error {
	progress := r.MediaService.Progress(c.Param("batch_id"))
	return c.JSON(http.StatusOK, response.SuccessResponse(progress))
}

// Upload godoc
// @Summary Upload a single file
// @Description Stores one media file and returns its public URL. The optional type form value (image, video, audio) overrides MIME detection.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "The file"
// @Param type formData string false "Kind hint" Enums(image, video, audio)
// @Success 201 {object} response.Response{data=dto.UploadResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/upload [post]
func (r *Routers) Upload(c echo.Context) error {
	const op = "http.routers.Upload"

	log := r.log.With(
		slog.String("op", op),
	)

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("no file in request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "No file provided"))
	}

	url, kind, err := r.MediaService.UploadSingle(c.Request().Context(), file, c.FormValue("type"))
	if err != nil {
		var tooLarge *mediaservice.FileTooLargeError
		if errors.As(err, &tooLarge) {
			return c.JSON(http.StatusRequestEntityTooLarge, response.ErrorResponseWithDetails("file_too_large", tooLarge.Error()))
		}
		log.Error("upload failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("upload_failed", err.Error()))
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(dto.UploadResponse{URL: url, Kind: string(kind)}))
}

// ListMemories godoc
// @Summary Polaroid wall
// @Description Returns every memory in wall order.
// @Tags memories
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.MemoryResponse}
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/memories [get]
func (r *Routers) ListMemories(c echo.Context) error {
	const op = "http.routers.ListMemories"

	memories, err := r.MemoryService.List(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list memories", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(memories))
}

// GetMemory godoc
// @Summary Single memory
// @Description Returns one polaroid by id.
// @Tags memories
// @Produce json
// @Param id path string true "Memory UUID" format(uuid)
// @Success 200 {object} response.Response{data=dto.MemoryResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/memories/{id} [get]
func (r *Routers) GetMemory(c echo.Context) error {
	const op = "http.routers.GetMemory"

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	memory, err := r.MemoryService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMemoryNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}
		r.log.Error("failed to get memory", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(memory))
}

// CreateMemory godoc
// @Summary Pin a memory
// @Description Adds a polaroid to the wall. The photo arrives as a file or as a URL from a prior upload.
// @Tags memories
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Response{data=dto.MemoryResponse}
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/memories [post]
func (r *Routers) CreateMemory(c echo.Context) error {
	const op = "http.routers.CreateMemory"

	log := r.log.With(
		slog.String("op", op),
	)

	in, err := r.parseMemoryInput(c)
	if err != nil {
		log.Warn("failed to parse memory form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(in); err != nil {
		log.Warn("invalid memory form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	memory, err := r.MemoryService.Create(c.Request().Context(), *in)
	if err != nil {
		var invalid *models.MemoryValidationError
		if errors.As(err, &invalid) {
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", invalid.Error()))
		}
		log.Error("failed to create memory", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(memory))
}

// UpdateMemory godoc
// @Summary Edit a memory
// @Description Updates a polaroid's caption, date, tilt or photo.
// @Tags memories
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Memory UUID" format(uuid)
// @Success 200 {object} response.Response{data=dto.MemoryResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/memories/{id} [put]
func (r *Routers) UpdateMemory(c echo.Context) error {
	const op = "http.routers.UpdateMemory"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid memory id", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	in, err := r.parseMemoryInput(c)
	if err != nil {
		log.Warn("failed to parse memory form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(in); err != nil {
		log.Warn("invalid memory form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	memory, err := r.MemoryService.Update(c.Request().Context(), id, *in)
	if err != nil {
		if errors.Is(err, repository.ErrMemoryNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}
		log.Error("failed to update memory", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(memory))
}

// Stats godoc
// @Summary Week statistics
// @Description Totals for the admin dashboard: surprises, unlocked, viewed by this device, memories.
// @Tags stats
// @Produce json
// @Success 200 {object} response.Response{data=dto.StatsResponse}
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/stats [get]
func (r *Routers) Stats(c echo.Context) error {
	const op = "http.routers.Stats"

	stats, err := r.SurpriseService.Stats(c.Request().Context(), r.callerDevice(c))
	if err != nil {
		r.log.Error("failed to compute stats", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(stats))
}

// parseSurpriseInput reads the authoring multipart form. Scalar fields bind
// normally; quiz questions and kept-media lists arrive as JSON-encoded form
// values, new files and their captions as repeated form entries.
func (r *Routers) parseSurpriseInput(c echo.Context) (*dto.SurpriseInput, error) {
	in := &dto.SurpriseInput{}
	if err := c.Bind(in); err != nil {
		return nil, err
	}

	if err := formJSON(c, "quiz_questions", &in.QuizQuestions); err != nil {
		return nil, err
	}
	if err := formJSON(c, "existing_photos", &in.ExistingPhotos); err != nil {
		return nil, err
	}
	if err := formJSON(c, "existing_videos", &in.ExistingVideos); err != nil {
		return nil, err
	}
	if err := formJSON(c, "existing_audio", &in.ExistingAudio); err != nil {
		return nil, err
	}

	form, err := c.MultipartForm()
	if err != nil {
		// authoring without media is a plain form, that is fine
		return in, nil
	}

	in.NewPhotos = form.File["new_photos"]
	in.NewVideos = form.File["new_videos"]
	in.NewAudio = form.File["new_audio"]
	in.NewPhotoCaptions = form.Value["new_photo_captions"]
	in.NewVideoCaptions = form.Value["new_video_captions"]
	in.NewAudioCaptions = form.Value["new_audio_captions"]

	return in, nil
}

func (r *Routers) parseMemoryInput(c echo.Context) (*dto.MemoryInput, error) {
	in := &dto.MemoryInput{}
	if err := c.Bind(in); err != nil {
		return nil, err
	}

	if file, err := c.FormFile("photo"); err == nil {
		in.Photo = file
	}

	return in, nil
}

func formJSON(c echo.Context, field string, dst any) error {
	raw := c.FormValue(field)
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}
