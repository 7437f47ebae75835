package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ActivityLessonComplete = "lesson_complete"
	ActivityCourseComplete = "course_complete"
)

type UserActivity struct {
	gorm.Model
	UserID     uint      `gorm:"index;not null"`
	ActionType string    `gorm:"not null"` // lesson_complete, course_complete
	CourseID   uint      `gorm:"index"`
	TargetID   uint      // lesson_id or course_id
	Timestamp  time.Time `gorm:"not null"`
}
