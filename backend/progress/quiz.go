package progress

import (
	"coursetrack/backend/apperr"
	"coursetrack/backend/models"
	"fmt"
	"strings"
)

type QuizStatus string

const (
	QuizUnstarted QuizStatus = "unstarted"
	QuizStarted   QuizStatus = "started"
	QuizAnswered  QuizStatus = "answered"
)

// Shown when a quiz lesson is configured with fewer than two options.
var placeholderOptions = []string{"Option A", "Option B", "Option C", "Option D"}

// Quiz is the configured question data of a quiz lesson.
type Quiz struct {
	Options       []string
	CorrectOption *int
}

func QuizFor(lesson *models.Lesson) Quiz {
	return Quiz{Options: []string(lesson.QuizOptions), CorrectOption: lesson.CorrectOption}
}

// shown drops blank options. correct is the configured answer's position in
// the shown list; ok is false when there are fewer than two shown options or
// the answer key is missing or points at a blank entry.
func (q Quiz) shown() (opts []string, correct int, ok bool) {
	correct = -1
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			continue
		}
		if q.CorrectOption != nil && *q.CorrectOption == i {
			correct = len(opts)
		}
		opts = append(opts, o)
	}
	return opts, correct, len(opts) >= 2 && correct >= 0
}

// DisplayOptions returns the configured options without blanks, or
// placeholders when the quiz cannot be answered as configured.
func (q Quiz) DisplayOptions() ([]string, bool) {
	if opts, _, ok := q.shown(); ok {
		return opts, false
	}
	return placeholderOptions, true
}

// CorrectIndex is the answer's index among the displayed options. Over
// placeholders it is the configured index, or 0 when none is configured.
func (q Quiz) CorrectIndex() int {
	if _, correct, ok := q.shown(); ok {
		return correct
	}
	if q.CorrectOption != nil {
		return *q.CorrectOption
	}
	return 0
}

func (q Quiz) validate(option int) error {
	opts, _ := q.DisplayOptions()
	if option < 0 || option >= len(opts) {
		return apperr.Validation("invalid_option", fmt.Sprintf("option index %d out of range [0,%d)", option, len(opts)))
	}
	return nil
}

// QuizAttempt is the learner's ephemeral attempt at one quiz lesson. The
// answer locks at first submission; correctness is computed then and kept.
type QuizAttempt struct {
	Started        bool  `json:"started"`
	Answered       bool  `json:"answered"`
	SelectedOption *int  `json:"selected_option,omitempty"`
	IsCorrect      *bool `json:"is_correct,omitempty"`
}

func (a *QuizAttempt) Status() QuizStatus {
	switch {
	case a == nil:
		return QuizUnstarted
	case a.Answered:
		return QuizAnswered
	case a.Started:
		return QuizStarted
	}
	return QuizUnstarted
}

// Start moves unstarted to started, clearing any selection. It is a no-op
// once the attempt is answered or the lesson is completed.
func (a *QuizAttempt) Start(completed bool) bool {
	if completed || a.Answered {
		return false
	}
	a.Started = true
	a.SelectedOption = nil
	a.IsCorrect = nil
	return true
}

// Answer submits option. An unstarted attempt is started implicitly. Further
// answers after the first return the locked result unchanged.
func (a *QuizAttempt) Answer(q Quiz, option int, completed bool) (bool, error) {
	if err := q.validate(option); err != nil {
		return false, err
	}
	if completed || a.Answered {
		return a.correct(), nil
	}

	ok := option == q.CorrectIndex()
	a.Started = true
	a.Answered = true
	a.SelectedOption = &option
	a.IsCorrect = &ok
	return ok, nil
}

func (a *QuizAttempt) correct() bool {
	return a.IsCorrect != nil && *a.IsCorrect
}

// lockFrom restores an attempt from a completion record.
func (a *QuizAttempt) lockFrom(row *models.LessonCompletion) {
	a.Started = true
	a.Answered = true
	a.SelectedOption = row.QuizAnswer
	a.IsCorrect = row.QuizCorrect
}
