package models_test

import (
	"testing"
	"time"

	"surprise_week/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnlocked(t *testing.T) {
	unlockAt := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before", unlockAt.Add(-time.Millisecond), false},
		{"exactly at", unlockAt, true},
		{"after", unlockAt.Add(time.Millisecond), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.IsUnlocked(tt.now, unlockAt))
		})
	}

	t.Run("zero unlock date stays locked", func(t *testing.T) {
		assert.False(t, models.IsUnlocked(time.Now(), time.Time{}))
	})

	t.Run("never flips back once reached", func(t *testing.T) {
		s := models.Surprise{UnlockDate: unlockAt}
		for d := time.Duration(0); d < 72*time.Hour; d += 7 * time.Hour {
			assert.True(t, s.IsUnlockedAt(unlockAt.Add(d)))
		}
	})
}

func TestKindOfURL(t *testing.T) {
	tests := []struct {
		url  string
		want models.MediaKind
		ok   bool
	}{
		{"http://x/photos/a.jpg", models.MediaKindPhoto, true},
		{"http://x/a.JPEG", models.MediaKindPhoto, true},
		{"http://x/a.webp", models.MediaKindPhoto, true},
		{"http://x/v/clip.mp4", models.MediaKindVideo, true},
		{"http://x/v/clip.webm", models.MediaKindVideo, true},
		{"http://x/s/voice.m4a", models.MediaKindAudio, true},
		{"http://x/s/voice.ogg", models.MediaKindAudio, true},
		{"http://x/a.mp3?token=abc", models.MediaKindAudio, true},
		{"http://x/readme.txt", "", false},
		{"http://x/noextension", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			kind, ok := models.KindOfURL(tt.url)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, kind)
			}
		})
	}
}

func TestContentPayload_ForType(t *testing.T) {
	full := models.ContentPayload{
		Text:          "text",
		Signature:     "sig",
		Caption:       "cap",
		Question:      "q",
		Answer:        "a",
		Hint:          "h",
		Title:         "title",
		URL:           "url",
		QuizQuestions: []models.QuizQuestion{{Question: "q1", Answer: "a1"}},
		MediaCaptions: []models.MediaCaption{{URL: "u", Type: models.MediaKindPhoto}},
	}

	t.Run("letter keeps text and signature only", func(t *testing.T) {
		p := full.ForType(models.ContentTypeLetter)
		assert.Equal(t, "text", p.Text)
		assert.Equal(t, "sig", p.Signature)
		assert.Empty(t, p.Question)
		assert.Empty(t, p.Caption)
		assert.Empty(t, p.Title)
		assert.NotEmpty(t, p.MediaCaptions, "captions always ride along")
	})

	t.Run("quiz keeps question answer hint", func(t *testing.T) {
		p := full.ForType(models.ContentTypeQuiz)
		assert.Equal(t, "q", p.Question)
		assert.Equal(t, "a", p.Answer)
		assert.Equal(t, "h", p.Hint)
		assert.Empty(t, p.Text)
		assert.Empty(t, p.QuizQuestions)
	})

	t.Run("photo keeps caption", func(t *testing.T) {
		p := full.ForType(models.ContentTypePhoto)
		assert.Equal(t, "cap", p.Caption)
		assert.Empty(t, p.Text)
	})

	t.Run("playlist keeps title and url", func(t *testing.T) {
		p := full.ForType(models.ContentTypePlaylist)
		assert.Equal(t, "title", p.Title)
		assert.Equal(t, "url", p.URL)
		assert.Empty(t, p.Answer)
	})

	t.Run("mixed keeps the composite fields", func(t *testing.T) {
		p := full.ForType(models.ContentTypeMixed)
		assert.Equal(t, "text", p.Text)
		assert.Equal(t, "title", p.Title)
		assert.Len(t, p.QuizQuestions, 1)
		assert.Empty(t, p.Question, "top-level quiz fields belong to the plain quiz type")
	})
}

func TestSurprise_MediaHelpers(t *testing.T) {
	s := models.Surprise{
		MediaURLs: []string{
			"http://x/a.jpg",
			"http://x/b.mp4",
			"http://x/c.jpg",
			"http://x/d.mp3",
		},
		ContentPayload: models.ContentPayload{
			MediaCaptions: []models.MediaCaption{
				{URL: "http://x/a.jpg", Type: models.MediaKindPhoto, Caption: "first"},
				{URL: "http://x/c.jpg", Type: models.MediaKindPhoto, Caption: "second"},
			},
		},
	}

	assert.Equal(t, []string{"http://x/a.jpg", "http://x/c.jpg"}, s.MediaOfKind(models.MediaKindPhoto))
	assert.Equal(t, []string{"http://x/b.mp4"}, s.MediaOfKind(models.MediaKindVideo))
	assert.Equal(t, "second", s.CaptionFor("http://x/c.jpg"))
	assert.Empty(t, s.CaptionFor("http://x/b.mp4"))
}

func TestSurprise_Validate(t *testing.T) {
	valid := models.Surprise{
		Title:       "day one",
		UnlockDate:  time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		ContentType: models.ContentTypeLetter,
		ContentPayload: models.ContentPayload{
			Text: "hello",
		},
	}
	require.NoError(t, valid.Validate())

	t.Run("all problems reported at once", func(t *testing.T) {
		s := models.Surprise{ContentType: "banana"}
		err := s.Validate()
		require.Error(t, err)

		var verr *models.SurpriseValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Errors, 3) // title, unlock date, content type
	})

	t.Run("letter without text", func(t *testing.T) {
		s := valid
		s.ContentPayload.Text = ""
		require.Error(t, s.Validate())
	})

	t.Run("quiz needs question and answer", func(t *testing.T) {
		s := valid
		s.ContentType = models.ContentTypeQuiz
		s.ContentPayload = models.ContentPayload{Question: "q"}
		err := s.Validate()
		require.Error(t, err)

		s.ContentPayload.Answer = "a"
		require.NoError(t, s.Validate())
	})

	t.Run("playlist needs title and url", func(t *testing.T) {
		s := valid
		s.ContentType = models.ContentTypePlaylist
		s.ContentPayload = models.ContentPayload{Title: "mix"}
		require.Error(t, s.Validate())

		s.ContentPayload.URL = "https://example.com"
		require.NoError(t, s.Validate())
	})

	t.Run("embedded quiz entries are checked", func(t *testing.T) {
		s := valid
		s.ContentType = models.ContentTypeMixed
		s.ContentPayload = models.ContentPayload{
			QuizQuestions: []models.QuizQuestion{{Question: "q only"}},
		}
		require.Error(t, s.Validate())
	})
}

func TestContentPayload_JSONRoundTrip(t *testing.T) {
	p := models.ContentPayload{
		Text:          "line one\n\nline two",
		Signature:     "me",
		MediaCaptions: []models.MediaCaption{{URL: "u", Type: models.MediaKindAudio, Caption: "c"}},
	}

	value, err := p.Value()
	require.NoError(t, err)

	var back models.ContentPayload
	require.NoError(t, back.Scan(value))
	assert.Equal(t, p, back)

	t.Run("nil scans to empty", func(t *testing.T) {
		var empty models.ContentPayload
		require.NoError(t, empty.Scan(nil))
		assert.True(t, empty.IsEmpty())
	})
}
