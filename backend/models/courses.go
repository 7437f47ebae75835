package models

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContentType string

const (
	ContentText  ContentType = "text"
	ContentVideo ContentType = "video"
	ContentQuiz  ContentType = "quiz"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentText, ContentVideo, ContentQuiz:
		return true
	}
	return false
}

// Course and Lesson are owned by the course directory; the progress core
// only reads them.
type Course struct {
	gorm.Model
	Title       string
	ShortDesc   string
	Description string
	Difficulty  string // beginner, intermediate, advanced
	Topic       string
	AuthorID    uint
	Lessons     []Lesson
}

type Lesson struct {
	gorm.Model
	CourseID      uint        `gorm:"index;not null" json:"course_id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Content       string      `json:"content"`
	ContentType   ContentType `gorm:"not null;default:text" json:"content_type"`
	SequenceOrder int         `json:"sequence_order"`

	QuizOptions   datatypes.JSONSlice[string] `json:"quiz_options,omitempty"`
	CorrectOption *int                        `json:"correct_option,omitempty"`
}

// Kind normalizes the stored content type; unknown values read as text.
func (l *Lesson) Kind() ContentType {
	t := ContentType(strings.ToLower(strings.TrimSpace(string(l.ContentType))))
	if !t.Valid() {
		return ContentText
	}
	return t
}
