package services

import (
	"strings"
	"time"
)

const (
	// TypeCharInterval is the cadence between appended characters.
	TypeCharInterval = 50 * time.Millisecond
	// ParagraphPause separates a finished paragraph from the next one.
	ParagraphPause = 500 * time.Millisecond
)

// Typewriter reveals letter text one character per tick. Paragraphs (split on
// blank lines) come strictly in order; a finished paragraph is followed by a
// short pause before the next starts. There is no skip or restart: the
// machine only moves forward.
type Typewriter struct {
	paragraphs [][]rune
	paraIdx    int
	charIdx    int
	pauseTicks int
	done       bool
}

func NewTypewriter(text string) *Typewriter {
	t := &Typewriter{}
	for _, p := range strings.Split(text, "\n\n") {
		t.paragraphs = append(t.paragraphs, []rune(p))
	}
	t.done = text == ""
	return t
}

// Tick advances the machine by one TypeCharInterval: either appends the next
// character, burns one pause tick between paragraphs, or finishes.
func (t *Typewriter) Tick() {
	if t.done {
		return
	}

	if t.pauseTicks > 0 {
		t.pauseTicks--
		return
	}

	current := t.paragraphs[t.paraIdx]
	if t.charIdx < len(current) {
		t.charIdx++
	}

	if t.charIdx >= len(current) {
		if t.paraIdx == len(t.paragraphs)-1 {
			t.done = true
			return
		}
		t.paraIdx++
		t.charIdx = 0
		t.pauseTicks = int(ParagraphPause / TypeCharInterval)
	}
}

// Text returns everything typed so far: completed paragraphs joined by blank
// lines plus the partial prefix of the current one.
func (t *Typewriter) Text() string {
	var b strings.Builder
	for i := 0; i < t.paraIdx; i++ {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(string(t.paragraphs[i]))
	}
	if t.paraIdx < len(t.paragraphs) && (t.charIdx > 0 || t.done) {
		if t.paraIdx > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(string(t.paragraphs[t.paraIdx][:t.charIdx]))
	}
	return b.String()
}

// Done reports whether every paragraph has fully typed out. Only then may the
// signature line become visible.
func (t *Typewriter) Done() bool { return t.done }
