package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ContentType string

const (
	ContentTypeLetter    ContentType = "letter"
	ContentTypePhoto     ContentType = "photo"
	ContentTypeVideo     ContentType = "video"
	ContentTypeVoiceNote ContentType = "voice_note"
	ContentTypeQuiz      ContentType = "quiz"
	ContentTypePlaylist  ContentType = "playlist"
	ContentTypeMixed     ContentType = "mixed"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeLetter, ContentTypePhoto, ContentTypeVideo, ContentTypeVoiceNote,
		ContentTypeQuiz, ContentTypePlaylist, ContentTypeMixed:
		return true
	}
	return false
}

type MediaKind string

const (
	MediaKindPhoto MediaKind = "photo"
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
)

var extKinds = map[string]MediaKind{
	".jpg": MediaKindPhoto, ".jpeg": MediaKindPhoto, ".png": MediaKindPhoto,
	".gif": MediaKindPhoto, ".webp": MediaKindPhoto,
	".mp4": MediaKindVideo, ".mov": MediaKindVideo, ".avi": MediaKindVideo,
	".webm": MediaKindVideo,
	".mp3": MediaKindAudio, ".wav": MediaKindAudio, ".m4a": MediaKindAudio,
	".ogg": MediaKindAudio,
}

// KindOfURL infers the media kind from the filename extension. The stored
// media_urls column keeps no explicit kind, so readers classify after the fact.
func KindOfURL(url string) (MediaKind, bool) {
	ext := strings.ToLower(path.Ext(url))
	if i := strings.IndexAny(ext, "?#"); i >= 0 {
		ext = ext[:i]
	}
	kind, ok := extKinds[ext]
	return kind, ok
}

// MediaCaption pairs one persisted media URL with its kind and caption.
// Order inside a kind group is positional and must survive round-trips.
type MediaCaption struct {
	URL     string    `json:"url"`
	Type    MediaKind `json:"type"`
	Caption string    `json:"caption"`
}

type QuizQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Hint     string `json:"hint,omitempty"`
}

// ContentPayload is the variant record behind a surprise. Which fields are
// meaningful depends on the sibling ContentType; ForType trims the rest before
// persistence so records never carry ambiguous empty fields.
type ContentPayload struct {
	Text          string         `json:"text,omitempty"`
	Signature     string         `json:"signature,omitempty"`
	Caption       string         `json:"caption,omitempty"`
	Question      string         `json:"question,omitempty"`
	Answer        string         `json:"answer,omitempty"`
	Hint          string         `json:"hint,omitempty"`
	Title         string         `json:"title,omitempty"`
	URL           string         `json:"url,omitempty"`
	QuizQuestions []QuizQuestion `json:"quiz_questions,omitempty"`
	MediaCaptions []MediaCaption `json:"media_captions,omitempty"`
}

// ForType returns the payload reduced to the fields relevant to ct. For mixed
// content every non-empty field is kept; for every other type only the fields
// of that type survive. Media captions are carried for all types since they
// mirror media_urls.
func (p ContentPayload) ForType(ct ContentType) ContentPayload {
	out := ContentPayload{MediaCaptions: p.MediaCaptions}

	switch ct {
	case ContentTypeLetter:
		out.Text = p.Text
		out.Signature = p.Signature
	case ContentTypePhoto, ContentTypeVideo:
		out.Caption = p.Caption
	case ContentTypeVoiceNote:
		// no payload fields beyond captions
	case ContentTypeQuiz:
		out.Question = p.Question
		out.Answer = p.Answer
		out.Hint = p.Hint
	case ContentTypePlaylist:
		out.Title = p.Title
		out.URL = p.URL
	case ContentTypeMixed:
		out.Text = p.Text
		out.Signature = p.Signature
		out.Title = p.Title
		out.URL = p.URL
		if len(p.QuizQuestions) > 0 {
			out.QuizQuestions = p.QuizQuestions
		}
	}
	return out
}

// IsEmpty reports whether no content field is set.
func (p ContentPayload) IsEmpty() bool {
	return p.Text == "" && p.Signature == "" && p.Caption == "" &&
		p.Question == "" && p.Answer == "" && p.Hint == "" &&
		p.Title == "" && p.URL == "" &&
		len(p.QuizQuestions) == 0 && len(p.MediaCaptions) == 0
}

// Value implements driver.Valuer for JSONB serialization.
func (p ContentPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB deserialization.
func (p *ContentPayload) Scan(value interface{}) error {
	if value == nil {
		*p = ContentPayload{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return fmt.Errorf("unsupported content_payload source type %T", value)
}

// Surprise is one unit of timed content. Time is the only gate: the viewed and
// authenticated flags elsewhere are advisory and never re-lock anything.
type Surprise struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	Title          string         `json:"title" db:"title"`
	UnlockDate     time.Time      `json:"unlock_date" db:"unlock_date"`
	ContentType    ContentType    `json:"content_type" db:"content_type"`
	ContentPayload ContentPayload `json:"content_payload" db:"content_payload"`
	MediaURLs      []string       `json:"media_urls" db:"media_urls"`
	LockedHint     string         `json:"locked_hint,omitempty" db:"locked_hint"`
	OrderIndex     int            `json:"order_index" db:"order_index"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// IsUnlockedAt applies the gate rule: unlocked once now reaches the unlock
// instant. A zero unlock date (unparseable input upstream) counts as locked.
func (s *Surprise) IsUnlockedAt(now time.Time) bool {
	return IsUnlocked(now, s.UnlockDate)
}

// MediaOfKind returns the stored URLs classified as kind, in stored order.
func (s *Surprise) MediaOfKind(kind MediaKind) []string {
	var out []string
	for _, u := range s.MediaURLs {
		if k, ok := KindOfURL(u); ok && k == kind {
			out = append(out, u)
		}
	}
	return out
}

// CaptionFor returns the caption recorded for url, matching by position-stable
// media_captions entries. Empty string when none is recorded.
func (s *Surprise) CaptionFor(url string) string {
	for _, mc := range s.ContentPayload.MediaCaptions {
		if mc.URL == url {
			return mc.Caption
		}
	}
	return ""
}

// Validate checks authoring-time integrity and reports every problem at once.
func (s *Surprise) Validate() error {
	var validationErrors []string

	if s.Title == "" {
		validationErrors = append(validationErrors, "title is required")
	}
	if s.UnlockDate.IsZero() {
		validationErrors = append(validationErrors, "unlock date is required")
	}
	if !s.ContentType.Valid() {
		validationErrors = append(validationErrors,
			fmt.Sprintf("invalid content type %q", s.ContentType))
	}

	switch s.ContentType {
	case ContentTypeLetter:
		if s.ContentPayload.Text == "" {
			validationErrors = append(validationErrors, "letter text is required")
		}
	case ContentTypeQuiz:
		if s.ContentPayload.Question == "" {
			validationErrors = append(validationErrors, "quiz question is required")
		}
		if s.ContentPayload.Answer == "" {
			validationErrors = append(validationErrors, "quiz answer is required")
		}
	case ContentTypePlaylist:
		if s.ContentPayload.Title == "" {
			validationErrors = append(validationErrors, "playlist title is required")
		}
		if s.ContentPayload.URL == "" {
			validationErrors = append(validationErrors, "playlist url is required")
		}
	}

	for i, q := range s.ContentPayload.QuizQuestions {
		if q.Question == "" || q.Answer == "" {
			validationErrors = append(validationErrors,
				fmt.Sprintf("quiz question %d needs both question and answer", i+1))
		}
	}

	if len(validationErrors) > 0 {
		return &SurpriseValidationError{Errors: validationErrors}
	}
	return nil
}

type SurpriseValidationError struct {
	Errors []string
}

func (e *SurpriseValidationError) Error() string {
	return fmt.Sprintf("surprise validation failed: %s", strings.Join(e.Errors, "; "))
}

func IsSurpriseValidationError(err error) bool {
	_, ok := err.(*SurpriseValidationError)
	return ok
}
