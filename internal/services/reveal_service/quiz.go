package services

import (
	"errors"
	"strings"

	"surprise_week/internal/domain/models"
)

type QuizState string

const (
	// QuizStateHidden is the mystery-box state used for quizzes inside mixed
	// surprises: nothing is shown until the viewer reveals the box.
	QuizStateHidden     QuizState = "hidden"
	QuizStateUnanswered QuizState = "unanswered"
	QuizStateCorrect    QuizState = "correct"
	QuizStatePartial    QuizState = "partial"
	QuizStateIncorrect  QuizState = "incorrect"
)

var (
	ErrQuizHidden   = errors.New("quiz not revealed yet")
	ErrQuizAnswered = errors.New("quiz already answered")
)

// GradeAnswer applies the grading rule: trim and lowercase both sides, exact
// equality is Correct, the correct answer appearing inside the given answer is
// Partial, anything else Incorrect.
func GradeAnswer(userAnswer, correctAnswer string) QuizState {
	userLower := strings.ToLower(strings.TrimSpace(userAnswer))
	correctLower := strings.ToLower(strings.TrimSpace(correctAnswer))

	switch {
	case userLower == correctLower:
		return QuizStateCorrect
	case strings.Contains(userLower, correctLower):
		return QuizStatePartial
	default:
		return QuizStateIncorrect
	}
}

// QuizMachine runs one question through
// [Hidden →] Unanswered → {Correct | Partial | Incorrect}.
// Correct and Partial are terminal. Incorrect reveals the hint and allows a
// retry back to Unanswered; once shown, the hint stays visible through
// retries.
type QuizMachine struct {
	question    models.QuizQuestion
	state       QuizState
	hintVisible bool
}

func NewQuizMachine(q models.QuizQuestion, hidden bool) *QuizMachine {
	state := QuizStateUnanswered
	if hidden {
		state = QuizStateHidden
	}
	return &QuizMachine{question: q, state: state}
}

// Reveal opens the mystery box. No-op unless hidden.
func (m *QuizMachine) Reveal() {
	if m.state == QuizStateHidden {
		m.state = QuizStateUnanswered
	}
}

// Submit grades the answer and moves the machine. Terminal states reject
// further submissions.
func (m *QuizMachine) Submit(answer string) (QuizState, error) {
	switch m.state {
	case QuizStateHidden:
		return m.state, ErrQuizHidden
	case QuizStateCorrect, QuizStatePartial:
		return m.state, ErrQuizAnswered
	}

	m.state = GradeAnswer(answer, m.question.Answer)
	if m.state == QuizStateIncorrect && m.question.Hint != "" {
		m.hintVisible = true
	}
	return m.state, nil
}

// Retry resets an incorrect answer back to Unanswered. The hint, once
// revealed, remains visible.
func (m *QuizMachine) Retry() {
	if m.state == QuizStateIncorrect {
		m.state = QuizStateUnanswered
	}
}

func (m *QuizMachine) State() QuizState { return m.state }

func (m *QuizMachine) Question() string { return m.question.Question }

// Hint returns the hint text only once it has been earned by a wrong answer.
func (m *QuizMachine) Hint() string {
	if !m.hintVisible {
		return ""
	}
	return m.question.Hint
}

func (m *QuizMachine) HintVisible() bool { return m.hintVisible }

// Settled reports whether the question reached a terminal state.
func (m *QuizMachine) Settled() bool {
	return m.state == QuizStateCorrect || m.state == QuizStatePartial
}
