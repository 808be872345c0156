package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"surprise_week/internal/domain/models"
	"surprise_week/internal/lib/logger/sl"
	"surprise_week/internal/metrics"
	storage "surprise_week/internal/storage/filestorage"
)

// Limits are the per-kind upload ceilings in bytes.
type Limits struct {
	MaxPhotoSize int64
	MaxVideoSize int64
	MaxAudioSize int64
}

func (l Limits) forKind(kind models.MediaKind) int64 {
	switch kind {
	case models.MediaKindVideo:
		return l.MaxVideoSize
	case models.MediaKindAudio:
		return l.MaxAudioSize
	default:
		return l.MaxPhotoSize
	}
}

// PendingFile is a not-yet-uploaded local file plus its caption.
type PendingFile struct {
	File    *multipart.FileHeader
	Caption string
}

// ExistingItem is an already-persisted remote URL plus its caption. Carrying
// the two cases as distinct types (instead of sniffing URL shapes) is what
// keeps caption/item pairing structural rather than positional guesswork.
type ExistingItem struct {
	URL     string
	Caption string
}

// UploadBatchInput is everything one authoring submit brings to the
// orchestrator: per-kind groups of already-persisted items and new files.
// Within each group order is meaningful and must be preserved end to end.
type UploadBatchInput struct {
	BatchID string

	ExistingPhotos []ExistingItem
	ExistingVideos []ExistingItem
	ExistingAudio  []ExistingItem

	NewPhotos []PendingFile
	NewVideos []PendingFile
	NewAudio  []PendingFile
}

func (in *UploadBatchInput) newFileCount() int {
	return len(in.NewPhotos) + len(in.NewVideos) + len(in.NewAudio)
}

// RemoveAt drops the element at index i, keeping the rest in order. Because a
// caption lives on its item, removing an item can never orphan a caption.
func RemoveAt[T any](items []T, i int) []T {
	if i < 0 || i >= len(items) {
		return items
	}
	return append(items[:i:i], items[i+1:]...)
}

// BatchResult is the merged projection persisted onto the surprise record:
// the flat legacy media_urls list and the parallel media_captions list, both
// ordered existing photos, videos, audio, then new photos, videos, audio.
type BatchResult struct {
	MediaURLs     []string
	MediaCaptions []models.MediaCaption
}

// FileTooLargeError names the offending file, its size and the ceiling. It is
// raised before any network/storage work happens.
type FileTooLargeError struct {
	Filename string
	Kind     models.MediaKind
	Size     int64
	Limit    int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s is %.2fMB, maximum size for %s uploads is %dMB, compress the file and try again",
		e.Filename, float64(e.Size)/(1024*1024), e.Kind, e.Limit/(1024*1024))
}

// UploadFailedError aborts the submit flow and surfaces the failing file.
// Files uploaded earlier in the sequence are not rolled back.
type UploadFailedError struct {
	Filename string
	Err      error
}

func (e *UploadFailedError) Error() string {
	return fmt.Sprintf("failed to upload %s: %v", e.Filename, e.Err)
}

func (e *UploadFailedError) Unwrap() error { return e.Err }

type MediaService struct {
	log         *slog.Logger
	fileStorage storage.FileStorage
	progress    *ProgressTracker
	limits      Limits
}

func NewMediaService(log *slog.Logger, fileStorage storage.FileStorage, progress *ProgressTracker, limits Limits) *MediaService {
	return &MediaService{
		log:         log,
		fileStorage: fileStorage,
		progress:    progress,
		limits:      limits,
	}
}

// UploadBatch validates the whole selection, then uploads new files one at a
// time in photo, video, audio order, publishing progress after each file, and
// finally merges existing and new items into the persisted projection.
//
// Uploads are deliberately sequential: per-file progress stays meaningful and
// the storage backend never sees parallel large transfers. On the first
// failure the batch aborts with the filename; earlier uploads stay in storage
// as an accepted orphan.
func (s *MediaService) UploadBatch(ctx context.Context, input UploadBatchInput) (*BatchResult, error) {
	const op = "media_service.UploadBatch"

	log := s.log.With(
		slog.String("op", op),
		slog.String("batch_id", input.BatchID),
	)

	// Validation precedes every upload: one oversize file rejects the whole
	// selection before a single byte is written.
	if err := s.validateSizes(input); err != nil {
		log.Warn("batch rejected", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	total := input.newFileCount()
	if total > 0 {
		s.progress.Begin(input.BatchID, total)
		log.Info("uploading batch", slog.Int("files", total))
	}

	newPhotoURLs, err := s.uploadGroup(ctx, input.BatchID, models.MediaKindPhoto, input.NewPhotos)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	newVideoURLs, err := s.uploadGroup(ctx, input.BatchID, models.MediaKindVideo, input.NewVideos)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	newAudioURLs, err := s.uploadGroup(ctx, input.BatchID, models.MediaKindAudio, input.NewAudio)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if total > 0 {
		s.progress.Finish(input.BatchID)
	}

	return mergeBatch(input, newPhotoURLs, newVideoURLs, newAudioURLs), nil
}

func (s *MediaService) validateSizes(input UploadBatchInput) error {
	groups := []struct {
		kind  models.MediaKind
		files []PendingFile
	}{
		{models.MediaKindPhoto, input.NewPhotos},
		{models.MediaKindVideo, input.NewVideos},
		{models.MediaKindAudio, input.NewAudio},
	}

	for _, g := range groups {
		limit := s.limits.forKind(g.kind)
		for _, f := range g.files {
			if f.File.Size > limit {
				return &FileTooLargeError{
					Filename: f.File.Filename,
					Kind:     g.kind,
					Size:     f.File.Size,
					Limit:    limit,
				}
			}
		}
	}
	return nil
}

func (s *MediaService) uploadGroup(ctx context.Context, batchID string, kind models.MediaKind, files []PendingFile) ([]string, error) {
	urls := make([]string, 0, len(files))

	for _, f := range files {
		s.progress.SetCurrentFile(batchID, f.File.Filename)

		relPath, _, err := s.fileStorage.Save(ctx, f.File, filepath.Join("surprises", string(kind)))
		if err != nil {
			s.log.Error("upload failed",
				slog.String("filename", f.File.Filename),
				sl.Err(err))
			metrics.UploadsTotal.WithLabelValues(string(kind), "failure").Inc()
			s.progress.Reset(batchID)
			return nil, &UploadFailedError{Filename: f.File.Filename, Err: err}
		}

		metrics.UploadsTotal.WithLabelValues(string(kind), "success").Inc()
		urls = append(urls, s.fileStorage.FileURL(relPath))
		s.progress.Advance(batchID)
	}

	return urls, nil
}

// mergeBatch builds the final ordered projection. media_captions mirrors
// media_urls entry for entry; downstream caption lookup relies on that.
func mergeBatch(input UploadBatchInput, newPhotoURLs, newVideoURLs, newAudioURLs []string) *BatchResult {
	res := &BatchResult{}

	appendExisting := func(kind models.MediaKind, items []ExistingItem) {
		for _, it := range items {
			res.MediaURLs = append(res.MediaURLs, it.URL)
			res.MediaCaptions = append(res.MediaCaptions, models.MediaCaption{
				URL:     it.URL,
				Type:    kind,
				Caption: it.Caption,
			})
		}
	}
	appendNew := func(kind models.MediaKind, urls []string, files []PendingFile) {
		for i, u := range urls {
			res.MediaURLs = append(res.MediaURLs, u)
			res.MediaCaptions = append(res.MediaCaptions, models.MediaCaption{
				URL:     u,
				Type:    kind,
				Caption: files[i].Caption,
			})
		}
	}

	appendExisting(models.MediaKindPhoto, input.ExistingPhotos)
	appendExisting(models.MediaKindVideo, input.ExistingVideos)
	appendExisting(models.MediaKindAudio, input.ExistingAudio)
	appendNew(models.MediaKindPhoto, newPhotoURLs, input.NewPhotos)
	appendNew(models.MediaKindVideo, newVideoURLs, input.NewVideos)
	appendNew(models.MediaKindAudio, newAudioURLs, input.NewAudio)

	return res
}

// Progress reports the state of an in-flight batch for polling clients.
func (s *MediaService) Progress(batchID string) UploadProgress {
	return s.progress.Get(batchID)
}

// UploadSingle serves the standalone upload endpoint: one file, optional kind
// hint, kind auto-detected from the MIME type when the hint is absent.
func (s *MediaService) UploadSingle(ctx context.Context, file *multipart.FileHeader, kindHint string) (string, models.MediaKind, error) {
	const op = "media_service.UploadSingle"

	log := s.log.With(
		slog.String("op", op),
		slog.String("filename", file.Filename),
	)

	kind, err := resolveKind(file, kindHint)
	if err != nil {
		log.Warn("cannot resolve media kind", sl.Err(err))
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	if limit := s.limits.forKind(kind); file.Size > limit {
		err := &FileTooLargeError{Filename: file.Filename, Kind: kind, Size: file.Size, Limit: limit}
		log.Warn("file rejected", sl.Err(err))
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	relPath, size, err := s.fileStorage.Save(ctx, file, filepath.Join("surprises", string(kind)))
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(kind), "failure").Inc()
		log.Error("failed to save file", sl.Err(err))
		return "", "", fmt.Errorf("%s: %w", op, &UploadFailedError{Filename: file.Filename, Err: err})
	}

	metrics.UploadsTotal.WithLabelValues(string(kind), "success").Inc()
	log.Info("file uploaded",
		slog.String("kind", string(kind)),
		slog.Int64("size", size))

	return s.fileStorage.FileURL(relPath), kind, nil
}

// resolveKind maps the optional type hint (image|video|audio) or, failing
// that, the MIME content type onto a media kind.
func resolveKind(file *multipart.FileHeader, hint string) (models.MediaKind, error) {
	switch hint {
	case "image":
		return models.MediaKindPhoto, nil
	case "video":
		return models.MediaKindVideo, nil
	case "audio":
		return models.MediaKindAudio, nil
	case "":
	default:
		return "", fmt.Errorf("invalid file type: %s", hint)
	}

	mime := file.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.MediaKindPhoto, nil
	case strings.HasPrefix(mime, "video/"):
		return models.MediaKindVideo, nil
	case strings.HasPrefix(mime, "audio/"):
		return models.MediaKindAudio, nil
	}
	return "", fmt.Errorf("cannot determine file type from: %s", mime)
}
