package services

import (
	"time"

	"surprise_week/internal/domain/models"
)

// Phase is the per-view lifecycle: the record is fetched (Loading), the bloom
// transition plays for a fixed duration (Revealing), then the content
// presents (Presenting). The bloom is not skippable.
type Phase string

const (
	PhaseLoading    Phase = "loading"
	PhaseRevealing  Phase = "revealing"
	PhasePresenting Phase = "presenting"
)

// BloomDuration is how long the reveal transition holds before content shows.
const BloomDuration = 2 * time.Second

type Clock interface {
	Now() time.Time
}

type SectionKind string

const (
	SectionLetter   SectionKind = "letter"
	SectionPhotos   SectionKind = "photos"
	SectionVideo    SectionKind = "video"
	SectionAudio    SectionKind = "audio"
	SectionQuiz     SectionKind = "quiz"
	SectionPlaylist SectionKind = "playlist"
)

// MediaItem is one presentable media entry with its caption.
type MediaItem struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// Section is one block of presented content. Sections always appear in the
// fixed order letter, photos, video, audio, quiz, playlist; a section exists
// only when its data is present.
type Section struct {
	Kind      SectionKind `json:"kind"`
	Text      string      `json:"text,omitempty"`
	Signature string      `json:"signature,omitempty"`
	Items     []MediaItem `json:"items,omitempty"`
	Title     string      `json:"title,omitempty"`
	URL       string      `json:"url,omitempty"`
}

// Reveal drives one unlocked surprise from fetch to presentation. Timing goes
// through the injected clock so transitions are testable without sleeping.
type Reveal struct {
	clock      Clock
	phase      Phase
	revealedAt time.Time

	surprise   *models.Surprise
	sections   []Section
	typewriter *Typewriter
	quizzes    []*QuizMachine
}

func NewReveal(clock Clock) *Reveal {
	return &Reveal{
		clock: clock,
		phase: PhaseLoading,
	}
}

// Begin accepts the fetched record and starts the bloom transition. The
// typewriter and quiz machines are prepared here so Presenting starts clean.
func (r *Reveal) Begin(s *models.Surprise) {
	if r.phase != PhaseLoading {
		return
	}

	r.surprise = s
	r.sections = BuildSections(s)
	r.quizzes = BuildQuizzes(s)
	if text := letterText(s); text != "" {
		r.typewriter = NewTypewriter(text)
	}

	r.phase = PhaseRevealing
	r.revealedAt = r.clock.Now()
}

// Advance moves Revealing to Presenting once the bloom duration has elapsed.
// Callers poll it from their render tick; it is idempotent.
func (r *Reveal) Advance() {
	if r.phase == PhaseRevealing && r.clock.Now().Sub(r.revealedAt) >= BloomDuration {
		r.phase = PhasePresenting
	}
}

// Tick drives one typewriter step. Characters only appear while Presenting.
func (r *Reveal) Tick() {
	r.Advance()
	if r.phase == PhasePresenting && r.typewriter != nil {
		r.typewriter.Tick()
	}
}

func (r *Reveal) Phase() Phase { return r.phase }

func (r *Reveal) Sections() []Section { return r.sections }

func (r *Reveal) Quizzes() []*QuizMachine { return r.quizzes }

// TypedText returns the letter text revealed so far; empty when the surprise
// has no letter part.
func (r *Reveal) TypedText() string {
	if r.typewriter == nil {
		return ""
	}
	return r.typewriter.Text()
}

// SignatureVisible is true only once every paragraph has finished typing.
func (r *Reveal) SignatureVisible() bool {
	return r.typewriter != nil && r.typewriter.Done()
}

func letterText(s *models.Surprise) string {
	if s.ContentType == models.ContentTypeLetter || s.ContentType == models.ContentTypeMixed {
		return s.ContentPayload.Text
	}
	return ""
}

// BuildSections dispatches on content type. Single-media types present only
// the first item of the matching kind; mixed enumerates every group in full.
func BuildSections(s *models.Surprise) []Section {
	var sections []Section
	p := s.ContentPayload
	mixed := s.ContentType == models.ContentTypeMixed

	if text := letterText(s); text != "" {
		sections = append(sections, Section{
			Kind:      SectionLetter,
			Text:      text,
			Signature: p.Signature,
		})
	}

	if items := mediaItems(s, models.MediaKindPhoto, mixed); s.ContentType == models.ContentTypePhoto || mixed {
		if len(items) > 0 {
			sections = append(sections, Section{Kind: SectionPhotos, Items: items})
		}
	}
	if items := mediaItems(s, models.MediaKindVideo, mixed); s.ContentType == models.ContentTypeVideo || mixed {
		if len(items) > 0 {
			sections = append(sections, Section{Kind: SectionVideo, Items: items})
		}
	}
	if items := mediaItems(s, models.MediaKindAudio, mixed); s.ContentType == models.ContentTypeVoiceNote || mixed {
		if len(items) > 0 {
			sections = append(sections, Section{Kind: SectionAudio, Items: items})
		}
	}

	if s.ContentType == models.ContentTypeQuiz {
		sections = append(sections, Section{Kind: SectionQuiz})
	} else if mixed && len(p.QuizQuestions) > 0 {
		sections = append(sections, Section{Kind: SectionQuiz})
	}

	if s.ContentType == models.ContentTypePlaylist || (mixed && p.URL != "") {
		sections = append(sections, Section{
			Kind:  SectionPlaylist,
			Title: p.Title,
			URL:   p.URL,
		})
	}

	return sections
}

// BuildQuizzes prepares the sub-machines: one from the top-level payload for
// a plain quiz, one per quiz_questions entry for mixed. Mixed quizzes start
// hidden behind the mystery box.
func BuildQuizzes(s *models.Surprise) []*QuizMachine {
	switch s.ContentType {
	case models.ContentTypeQuiz:
		return []*QuizMachine{NewQuizMachine(models.QuizQuestion{
			Question: s.ContentPayload.Question,
			Answer:   s.ContentPayload.Answer,
			Hint:     s.ContentPayload.Hint,
		}, false)}
	case models.ContentTypeMixed:
		quizzes := make([]*QuizMachine, 0, len(s.ContentPayload.QuizQuestions))
		for _, q := range s.ContentPayload.QuizQuestions {
			quizzes = append(quizzes, NewQuizMachine(q, true))
		}
		return quizzes
	}
	return nil
}

func mediaItems(s *models.Surprise, kind models.MediaKind, all bool) []MediaItem {
	urls := s.MediaOfKind(kind)
	if len(urls) == 0 {
		return nil
	}
	if !all {
		urls = urls[:1]
	}

	items := make([]MediaItem, 0, len(urls))
	for _, u := range urls {
		caption := s.CaptionFor(u)
		if caption == "" && !all {
			// single-type surprises keep their caption on the payload itself
			caption = s.ContentPayload.Caption
		}
		items = append(items, MediaItem{URL: u, Caption: caption})
	}
	return items
}
