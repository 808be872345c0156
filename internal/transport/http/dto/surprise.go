package dto

import (
	"mime/multipart"
	"time"

	"surprise_week/internal/domain/models"
	revealservice "surprise_week/internal/services/reveal_service"

	"github.com/google/uuid"
)

// SurpriseInput is the multipart authoring form shared by create and update.
// Media files ride alongside the JSON-ish fields; captions are parallel to
// their file lists by index.
type SurpriseInput struct {
	Title       string `json:"title" form:"title" validate:"required"`
	UnlockDate  string `json:"unlock_date" form:"unlock_date" validate:"required"`
	ContentType string `json:"content_type" form:"content_type" validate:"required,oneof=letter photo video voice_note quiz playlist mixed"`
	LockedHint  string `json:"locked_hint" form:"locked_hint"`

	// BatchID lets the client pick the id it will poll upload progress under.
	BatchID string `json:"batch_id" form:"batch_id"`

	Text      string `json:"text" form:"text"`
	Signature string `json:"signature" form:"signature"`
	Caption   string `json:"caption" form:"caption"`
	Question  string `json:"question" form:"question"`
	Answer    string `json:"answer" form:"answer"`
	Hint      string `json:"hint" form:"hint"`
	PlayTitle string `json:"playlist_title" form:"playlist_title"`
	PlayURL   string `json:"playlist_url" form:"playlist_url"`

	QuizQuestions []models.QuizQuestion `json:"quiz_questions" form:"-"`

	// kept items; an absent URL means the item was removed in the editor
	ExistingPhotos []ExistingMediaItem `json:"existing_photos" form:"-"`
	ExistingVideos []ExistingMediaItem `json:"existing_videos" form:"-"`
	ExistingAudio  []ExistingMediaItem `json:"existing_audio" form:"-"`

	NewPhotos []*multipart.FileHeader `json:"-" form:"-"`
	NewVideos []*multipart.FileHeader `json:"-" form:"-"`
	NewAudio  []*multipart.FileHeader `json:"-" form:"-"`

	NewPhotoCaptions []string `json:"-" form:"-"`
	NewVideoCaptions []string `json:"-" form:"-"`
	NewAudioCaptions []string `json:"-" form:"-"`
}

type ExistingMediaItem struct {
	URL     string `json:"url" validate:"required"`
	Caption string `json:"caption"`
}

// UnlockTime parses the form's unlock date. Date-only values unlock at
// midnight UTC of that day.
func (in *SurpriseInput) UnlockTime() (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, in.UnlockDate); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", in.UnlockDate)
}

// AnswerRequest carries one guess. A blank answer is a legal guess and grades
// Incorrect, so no presence rule applies to it.
type AnswerRequest struct {
	QuestionIndex int    `json:"question_index" validate:"min=0"`
	Answer        string `json:"answer"`
}

type AnswerResponse struct {
	Result string `json:"result"`
	Hint   string `json:"hint,omitempty"`
}

// SurpriseListItem is the locked-safe projection for the timeline. Payload
// and media never appear here; locked cards expose only the hint.
type SurpriseListItem struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	UnlockDate      time.Time `json:"unlock_date"`
	ContentType     string    `json:"content_type"`
	LockedHint      string    `json:"locked_hint,omitempty"`
	OrderIndex      int       `json:"order_index"`
	IsUnlocked      bool      `json:"is_unlocked"`
	IsViewed        bool      `json:"is_viewed"`
	TimeRemainingMS int64     `json:"time_remaining_ms"`
}

type SurpriseListResponse struct {
	Surprises []SurpriseListItem `json:"surprises"`
	Total     int                `json:"total"`
	Unlocked  int                `json:"unlocked"`
}

// SurpriseDetailResponse is the unlocked view. Sections carry the composed
// presentation (fixed order, first-item-only for single-media types); the raw
// payload and media list ride along for the authoring form.
type SurpriseDetailResponse struct {
	ID             uuid.UUID               `json:"id"`
	Title          string                  `json:"title"`
	UnlockDate     time.Time               `json:"unlock_date"`
	ContentType    string                  `json:"content_type"`
	ContentPayload models.ContentPayload   `json:"content_payload"`
	MediaURLs      []string                `json:"media_urls"`
	Sections       []revealservice.Section `json:"sections"`
	OrderIndex     int                     `json:"order_index"`
}

type NextUnlockResponse struct {
	ID              uuid.UUID        `json:"id"`
	Title           string           `json:"title"`
	UnlockDate      time.Time        `json:"unlock_date"`
	LockedHint      string           `json:"locked_hint,omitempty"`
	TimeRemainingMS int64            `json:"time_remaining_ms"`
	Countdown       models.Countdown `json:"countdown"`
}

type StatsResponse struct {
	Total    int `json:"total"`
	Unlocked int `json:"unlocked"`
	Viewed   int `json:"viewed"`
	Memories int `json:"memories"`
}
