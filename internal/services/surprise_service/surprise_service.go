package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"surprise_week/internal/domain/models"
	"surprise_week/internal/lib/logger/sl"
	"surprise_week/internal/metrics"
	"surprise_week/internal/repository"
	mediaservice "surprise_week/internal/services/media_service"
	revealservice "surprise_week/internal/services/reveal_service"
	"surprise_week/internal/transport/http/dto"

	"github.com/google/uuid"
)

var ErrNoLockedSurprises = errors.New("no locked surprises")

// LockedError is returned when a locked surprise is fetched directly. It
// carries only what a locked card is allowed to show.
type LockedError struct {
	Title      string
	LockedHint string
	UnlockDate time.Time
	Countdown  models.Countdown
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("surprise %q is still locked", e.Title)
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type MediaUploader interface {
	UploadBatch(ctx context.Context, input mediaservice.UploadBatchInput) (*mediaservice.BatchResult, error)
}

type SurpriseService struct {
	log      *slog.Logger
	repo     repository.SurpriseRepository
	memories repository.MemoryRepository
	progress repository.ProgressRepository
	media    MediaUploader
	clock    Clock
}

func NewSurpriseService(log *slog.Logger, repo repository.SurpriseRepository, memories repository.MemoryRepository, progress repository.ProgressRepository, media MediaUploader) *SurpriseService {
	return &SurpriseService{
		log:      log,
		repo:     repo,
		memories: memories,
		progress: progress,
		media:    media,
		clock:    realClock{},
	}
}

// WithClock swaps the time source. Tests use it to pin unlock evaluation.
func (s *SurpriseService) WithClock(clock Clock) *SurpriseService {
	s.clock = clock
	return s
}

// List returns the timeline projection. Unlock state and remaining time are
// computed against the clock on every call, never cached, so a surprise
// crossing its unlock date flips on the next request.
func (s *SurpriseService) List(ctx context.Context, deviceID string) (dto.SurpriseListResponse, error) {
	const op = "surprise_service.List"
	log := s.log.With(slog.String("op", op))

	surprises, err := s.repo.ListSurprises(ctx)
	if err != nil {
		log.Error("failed to list surprises", sl.Err(err))
		return dto.SurpriseListResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	viewed := map[uuid.UUID]bool{}
	if deviceID != "" {
		viewed, err = s.progress.ViewedIDs(ctx, deviceID)
		if err != nil {
			// viewed flags are decorative, the list still renders without them
			log.Warn("failed to load viewed flags", sl.Err(err))
			viewed = map[uuid.UUID]bool{}
		}
	}

	now := s.clock.Now()
	resp := dto.SurpriseListResponse{
		Surprises: make([]dto.SurpriseListItem, 0, len(surprises)),
		Total:     len(surprises),
	}
	for _, sp := range surprises {
		unlocked := models.IsUnlocked(now, sp.UnlockDate)
		if unlocked {
			resp.Unlocked++
		}

		item := dto.SurpriseListItem{
			ID:          sp.ID,
			Title:       sp.Title,
			UnlockDate:  sp.UnlockDate,
			ContentType: string(sp.ContentType),
			OrderIndex:  sp.OrderIndex,
			IsUnlocked:  unlocked,
			IsViewed:    viewed[sp.ID],
		}
		if !unlocked {
			item.LockedHint = sp.LockedHint
			item.TimeRemainingMS = models.CountdownUntil(now, sp.UnlockDate).RemainingMS
		}
		resp.Surprises = append(resp.Surprises, item)
	}

	return resp, nil
}

// Get returns full content for an unlocked surprise and marks it viewed for
// the calling device. A locked id yields LockedError with the countdown; the
// payload never leaves the service before the unlock date.
func (s *SurpriseService) Get(ctx context.Context, id uuid.UUID, deviceID string) (*dto.SurpriseDetailResponse, error) {
	const op = "surprise_service.Get"
	log := s.log.With(slog.String("op", op), slog.String("surprise_id", id.String()))

	sp, err := s.repo.GetSurpriseByID(ctx, id)
	if err != nil {
		log.Error("failed to get surprise", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock.Now()
	if !models.IsUnlocked(now, sp.UnlockDate) {
		log.Info("locked surprise requested", slog.Time("unlock_date", sp.UnlockDate))
		return nil, &LockedError{
			Title:      sp.Title,
			LockedHint: sp.LockedHint,
			UnlockDate: sp.UnlockDate,
			Countdown:  models.CountdownUntil(now, sp.UnlockDate),
		}
	}

	if deviceID != "" {
		if err := s.progress.MarkViewed(ctx, deviceID, id); err != nil {
			log.Warn("failed to mark surprise viewed", sl.Err(err))
		}
	}
	metrics.SurpriseReveals.Inc()

	return detailOf(sp), nil
}

// NextUnlock picks the still-locked surprise with the earliest unlock date.
func (s *SurpriseService) NextUnlock(ctx context.Context) (*dto.NextUnlockResponse, error) {
	const op = "surprise_service.NextUnlock"
	log := s.log.With(slog.String("op", op))

	surprises, err := s.repo.ListSurprises(ctx)
	if err != nil {
		log.Error("failed to list surprises", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock.Now()
	var next *models.Surprise
	for i := range surprises {
		sp := &surprises[i]
		if models.IsUnlocked(now, sp.UnlockDate) {
			continue
		}
		if next == nil || sp.UnlockDate.Before(next.UnlockDate) {
			next = sp
		}
	}
	if next == nil {
		return nil, ErrNoLockedSurprises
	}

	cd := models.CountdownUntil(now, next.UnlockDate)
	return &dto.NextUnlockResponse{
		ID:              next.ID,
		Title:           next.Title,
		UnlockDate:      next.UnlockDate,
		LockedHint:      next.LockedHint,
		TimeRemainingMS: cd.RemainingMS,
		Countdown:       cd,
	}, nil
}

// AnswerQuiz grades one answer against an unlocked surprise. The hint comes
// back alongside an incorrect result and stays available on retries.
func (s *SurpriseService) AnswerQuiz(ctx context.Context, id uuid.UUID, req dto.AnswerRequest) (dto.AnswerResponse, error) {
	const op = "surprise_service.AnswerQuiz"
	log := s.log.With(slog.String("op", op), slog.String("surprise_id", id.String()))

	sp, err := s.repo.GetSurpriseByID(ctx, id)
	if err != nil {
		log.Error("failed to get surprise", sl.Err(err))
		return dto.AnswerResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock.Now()
	if !models.IsUnlocked(now, sp.UnlockDate) {
		return dto.AnswerResponse{}, &LockedError{
			Title:      sp.Title,
			LockedHint: sp.LockedHint,
			UnlockDate: sp.UnlockDate,
			Countdown:  models.CountdownUntil(now, sp.UnlockDate),
		}
	}

	question, err := quizAt(sp, req.QuestionIndex)
	if err != nil {
		log.Warn("bad quiz index", slog.Int("index", req.QuestionIndex))
		return dto.AnswerResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	result := revealservice.GradeAnswer(req.Answer, question.Answer)
	resp := dto.AnswerResponse{Result: string(result)}
	if result == revealservice.QuizStateIncorrect && question.Hint != "" {
		resp.Hint = question.Hint
	}

	log.Info("quiz answer graded", slog.String("result", resp.Result))
	return resp, nil
}

var ErrNoSuchQuestion = errors.New("no such quiz question")

func quizAt(sp *models.Surprise, index int) (models.QuizQuestion, error) {
	switch sp.ContentType {
	case models.ContentTypeQuiz:
		if index != 0 {
			return models.QuizQuestion{}, ErrNoSuchQuestion
		}
		return models.QuizQuestion{
			Question: sp.ContentPayload.Question,
			Answer:   sp.ContentPayload.Answer,
			Hint:     sp.ContentPayload.Hint,
		}, nil
	case models.ContentTypeMixed:
		if index < 0 || index >= len(sp.ContentPayload.QuizQuestions) {
			return models.QuizQuestion{}, ErrNoSuchQuestion
		}
		return sp.ContentPayload.QuizQuestions[index], nil
	}
	return models.QuizQuestion{}, ErrNoSuchQuestion
}

// Create authors a new surprise. The record is validated before any media
// byte moves; only then does the batch orchestrator run, and any failure
// there aborts before the record is written.
func (s *SurpriseService) Create(ctx context.Context, in dto.SurpriseInput) (*dto.SurpriseDetailResponse, error) {
	const op = "surprise_service.Create"
	log := s.log.With(slog.String("op", op), slog.String("title", in.Title))

	sp, err := s.buildSurprise(in, nil)
	if err != nil {
		log.Warn("invalid surprise input", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sp.ID = uuid.New()
	now := s.clock.Now()
	sp.CreatedAt = now
	sp.UpdatedAt = now

	// Record-level problems reject the submit before a single byte uploads.
	if err := sp.Validate(); err != nil {
		log.Warn("surprise validation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.media.UploadBatch(ctx, batchInput(sp.ID.String(), in))
	if err != nil {
		log.Error("media batch upload failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sp.MediaURLs = result.MediaURLs
	sp.ContentPayload.MediaCaptions = result.MediaCaptions

	count, err := s.repo.CountSurprises(ctx)
	if err != nil {
		log.Error("failed to count surprises", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sp.OrderIndex = count + 1

	id, err := s.repo.SaveSurprise(ctx, *sp)
	if err != nil {
		log.Error("failed to save surprise", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sp.ID = id

	log.Info("surprise created", slog.String("surprise_id", id.String()))
	return detailOf(sp), nil
}

// Update re-authors an existing surprise. Kept media comes through the
// existing-item lists; files absent from them are dropped from the record.
// The position in the week never changes on edit.
func (s *SurpriseService) Update(ctx context.Context, id uuid.UUID, in dto.SurpriseInput) (*dto.SurpriseDetailResponse, error) {
	const op = "surprise_service.Update"
	log := s.log.With(slog.String("op", op), slog.String("surprise_id", id.String()))

	current, err := s.repo.GetSurpriseByID(ctx, id)
	if err != nil {
		log.Error("failed to get surprise", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sp, err := s.buildSurprise(in, current)
	if err != nil {
		log.Warn("invalid surprise input", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := sp.Validate(); err != nil {
		log.Warn("surprise validation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.media.UploadBatch(ctx, batchInput(id.String(), in))
	if err != nil {
		log.Error("media batch upload failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sp.MediaURLs = result.MediaURLs
	sp.ContentPayload.MediaCaptions = result.MediaCaptions

	if err := s.repo.UpdateSurprise(ctx, *sp); err != nil {
		log.Error("failed to update surprise", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("surprise updated")
	return detailOf(sp), nil
}

// Stats summarizes the week for the admin dashboard.
func (s *SurpriseService) Stats(ctx context.Context, deviceID string) (dto.StatsResponse, error) {
	const op = "surprise_service.Stats"
	log := s.log.With(slog.String("op", op))

	surprises, err := s.repo.ListSurprises(ctx)
	if err != nil {
		log.Error("failed to list surprises", sl.Err(err))
		return dto.StatsResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	viewed := map[uuid.UUID]bool{}
	if deviceID != "" {
		if viewed, err = s.progress.ViewedIDs(ctx, deviceID); err != nil {
			log.Warn("failed to load viewed flags", sl.Err(err))
			viewed = map[uuid.UUID]bool{}
		}
	}

	now := s.clock.Now()
	resp := dto.StatsResponse{Total: len(surprises)}
	for _, sp := range surprises {
		if models.IsUnlocked(now, sp.UnlockDate) {
			resp.Unlocked++
		}
		if viewed[sp.ID] {
			resp.Viewed++
		}
	}

	mems, err := s.memories.ListMemories(ctx)
	if err != nil {
		log.Error("failed to list memories", sl.Err(err))
		return dto.StatsResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	resp.Memories = len(mems)

	return resp, nil
}

func (s *SurpriseService) buildSurprise(in dto.SurpriseInput, current *models.Surprise) (*models.Surprise, error) {
	unlockAt, err := in.UnlockTime()
	if err != nil {
		return nil, fmt.Errorf("bad unlock date %q: %w", in.UnlockDate, err)
	}

	payload := models.ContentPayload{
		Text:          in.Text,
		Signature:     in.Signature,
		Caption:       in.Caption,
		Question:      in.Question,
		Answer:        in.Answer,
		Hint:          in.Hint,
		Title:         in.PlayTitle,
		URL:           in.PlayURL,
		QuizQuestions: in.QuizQuestions,
	}

	sp := &models.Surprise{
		Title:          in.Title,
		UnlockDate:     unlockAt,
		ContentType:    models.ContentType(in.ContentType),
		ContentPayload: payload.ForType(models.ContentType(in.ContentType)),
		LockedHint:     in.LockedHint,
	}
	if current != nil {
		sp.ID = current.ID
		sp.OrderIndex = current.OrderIndex
		sp.CreatedAt = current.CreatedAt
	}
	return sp, nil
}

func batchInput(fallbackID string, in dto.SurpriseInput) mediaservice.UploadBatchInput {
	batchID := in.BatchID
	if batchID == "" {
		batchID = fallbackID
	}
	return mediaservice.UploadBatchInput{
		BatchID:        batchID,
		ExistingPhotos: existingItems(in.ExistingPhotos),
		ExistingVideos: existingItems(in.ExistingVideos),
		ExistingAudio:  existingItems(in.ExistingAudio),
		NewPhotos:      pendingFiles(in.NewPhotos, in.NewPhotoCaptions),
		NewVideos:      pendingFiles(in.NewVideos, in.NewVideoCaptions),
		NewAudio:       pendingFiles(in.NewAudio, in.NewAudioCaptions),
	}
}

func existingItems(items []dto.ExistingMediaItem) []mediaservice.ExistingItem {
	out := make([]mediaservice.ExistingItem, 0, len(items))
	for _, it := range items {
		out = append(out, mediaservice.ExistingItem{URL: it.URL, Caption: it.Caption})
	}
	return out
}

func pendingFiles(files []*multipart.FileHeader, captions []string) []mediaservice.PendingFile {
	out := make([]mediaservice.PendingFile, 0, len(files))
	for i, f := range files {
		pf := mediaservice.PendingFile{File: f}
		if i < len(captions) {
			pf.Caption = captions[i]
		}
		out = append(out, pf)
	}
	return out
}

func detailOf(sp *models.Surprise) *dto.SurpriseDetailResponse {
	return &dto.SurpriseDetailResponse{
		ID:             sp.ID,
		Title:          sp.Title,
		UnlockDate:     sp.UnlockDate,
		ContentType:    string(sp.ContentType),
		ContentPayload: sp.ContentPayload,
		MediaURLs:      sp.MediaURLs,
		Sections:       revealservice.BuildSections(sp),
		OrderIndex:     sp.OrderIndex,
	}
}
