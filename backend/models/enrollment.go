package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment is a learner's registration in a course. Progress is a cached
// view of the learner's completion records and only grows; CompletedAt is set
// once, when Progress first reaches 100.
type Enrollment struct {
	gorm.Model
	UserID      uint       `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID    uint       `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"course_id"`
	EnrolledAt  time.Time  `gorm:"not null" json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Progress    int        `gorm:"not null;default:0;check:progress >= 0 AND progress <= 100" json:"progress"`
}

func (e *Enrollment) Completed() bool {
	return e.CompletedAt != nil
}

// LessonCompletion is the durable proof that a learner finished a lesson.
// Rows are immutable and unique per (user, lesson).
type LessonCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_completion_user_lesson;index:idx_completion_user_course,priority:1" json:"user_id"`
	LessonID    uint      `gorm:"not null;uniqueIndex:idx_completion_user_lesson" json:"lesson_id"`
	CourseID    uint      `gorm:"not null;index:idx_completion_user_course,priority:2" json:"course_id"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`

	// Locked quiz answer, revealed once the lesson is complete.
	QuizAnswer  *int  `json:"quiz_answer,omitempty"`
	QuizCorrect *bool `json:"quiz_correct,omitempty"`
}
