package services_test

import (
	"testing"

	services "surprise_week/internal/services/reveal_service"

	"github.com/stretchr/testify/assert"
)

func tick(t *services.Typewriter, n int) {
	for i := 0; i < n; i++ {
		t.Tick()
	}
}

func TestTypewriter_SingleParagraph(t *testing.T) {
	tw := services.NewTypewriter("hey")

	assert.Empty(t, tw.Text())
	assert.False(t, tw.Done())

	tw.Tick()
	assert.Equal(t, "h", tw.Text())

	tick(tw, 2)
	assert.Equal(t, "hey", tw.Text())
	assert.True(t, tw.Done())

	// extra ticks change nothing
	tick(tw, 5)
	assert.Equal(t, "hey", tw.Text())
}

func TestTypewriter_ParagraphPause(t *testing.T) {
	tw := services.NewTypewriter("ab\n\ncd")

	tick(tw, 2)
	assert.Equal(t, "ab", tw.Text())
	assert.False(t, tw.Done())

	// the pause burns whole ticks before the next paragraph starts
	pauseTicks := int(services.ParagraphPause / services.TypeCharInterval)
	tick(tw, pauseTicks)
	assert.Equal(t, "ab", tw.Text())

	tw.Tick()
	assert.Equal(t, "ab\n\nc", tw.Text())

	tw.Tick()
	assert.Equal(t, "ab\n\ncd", tw.Text())
	assert.True(t, tw.Done())
}

func TestTypewriter_ParagraphOrder(t *testing.T) {
	tw := services.NewTypewriter("one\n\ntwo\n\nthree")

	for !tw.Done() {
		tw.Tick()
	}
	assert.Equal(t, "one\n\ntwo\n\nthree", tw.Text())
}

func TestTypewriter_EmptyText(t *testing.T) {
	tw := services.NewTypewriter("")
	assert.True(t, tw.Done())
	assert.Empty(t, tw.Text())
}

func TestTypewriter_UnicodeRunes(t *testing.T) {
	tw := services.NewTypewriter("день")

	tick(tw, 2)
	assert.Equal(t, "де", tw.Text())

	tick(tw, 2)
	assert.True(t, tw.Done())
	assert.Equal(t, "день", tw.Text())
}
