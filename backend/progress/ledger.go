package progress

import (
	"context"
	"coursetrack/backend/apperr"
	"coursetrack/backend/models"
	"coursetrack/backend/repository"
	"time"

	"gorm.io/gorm"
)

// Completion is one "lesson finished" event for the ledger.
type Completion struct {
	LearnerID uint
	CourseID  uint
	LessonID  uint
	At        time.Time

	QuizAnswer  *int
	QuizCorrect *bool
}

// Ledger records lesson completions exactly once per (learner, lesson).
type Ledger struct {
	courses     repository.CourseRepo
	users       repository.UserRepo
	completions repository.CompletionRepo
}

func NewLedger(courses repository.CourseRepo, users repository.UserRepo, completions repository.CompletionRepo) *Ledger {
	return &Ledger{courses: courses, users: users, completions: completions}
}

// RecordCompletion writes c and returns every lesson the learner has
// completed in the course. An existing record is a conflict and nothing is
// written. The caller is responsible for the engagement gate.
func (l *Ledger) RecordCompletion(ctx context.Context, tx *gorm.DB, c Completion) ([]uint, error) {
	if err := validateIDs(c.LearnerID, c.CourseID, c.LessonID); err != nil {
		return nil, err
	}

	ok, err := l.users.Exists(ctx, tx, c.LearnerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("learner_not_found", "learner not found")
	}
	if _, err := l.courses.GetCourse(ctx, tx, c.CourseID); err != nil {
		return nil, err
	}
	if _, err := l.courses.GetLesson(ctx, tx, c.CourseID, c.LessonID); err != nil {
		return nil, err
	}

	if _, err := l.completions.Get(ctx, tx, c.LearnerID, c.LessonID); err == nil {
		return nil, apperr.Conflict("already_completed", "lesson already completed")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	row := &models.LessonCompletion{
		UserID:      c.LearnerID,
		LessonID:    c.LessonID,
		CourseID:    c.CourseID,
		CompletedAt: c.At,
		QuizAnswer:  c.QuizAnswer,
		QuizCorrect: c.QuizCorrect,
	}
	if err := l.completions.Create(ctx, tx, row); err != nil {
		return nil, err
	}

	return l.completions.ListLessonIDs(ctx, tx, c.LearnerID, c.CourseID)
}

func (l *Ledger) ListCompletedLessonIDs(ctx context.Context, tx *gorm.DB, learnerID, courseID uint) ([]uint, error) {
	if err := validateIDs(learnerID, courseID); err != nil {
		return nil, err
	}
	return l.completions.ListLessonIDs(ctx, tx, learnerID, courseID)
}

func validateIDs(ids ...uint) error {
	for _, id := range ids {
		if id == 0 {
			return apperr.Validation("invalid_id", "ids must be positive")
		}
	}
	return nil
}
