package repository

import (
	"context"
	"coursetrack/backend/models"
	"coursetrack/backend/utils"

	"gorm.io/gorm"
)

// CourseRepo is the read-only course directory.
type CourseRepo interface {
	GetCourse(ctx context.Context, tx *gorm.DB, courseID uint) (*models.Course, error)
	GetLesson(ctx context.Context, tx *gorm.DB, courseID, lessonID uint) (*models.Lesson, error)
	ListLessons(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Lesson, error)
	CountLessons(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *utils.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *utils.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) GetCourse(ctx context.Context, tx *gorm.DB, courseID uint) (*models.Course, error) {
	var course models.Course
	if err := pick(ctx, r.db, tx).First(&course, courseID).Error; err != nil {
		return nil, classify(r.log, "GetCourse", err, "course_not_found")
	}
	return &course, nil
}

// GetLesson returns the lesson only if it belongs to courseID.
func (r *courseRepo) GetLesson(ctx context.Context, tx *gorm.DB, courseID, lessonID uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := pick(ctx, r.db, tx).
		Where("id = ? AND course_id = ?", lessonID, courseID).
		First(&lesson).Error; err != nil {
		return nil, classify(r.log, "GetLesson", err, "lesson_not_found")
	}
	return &lesson, nil
}

func (r *courseRepo) ListLessons(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Lesson, error) {
	var lessons []*models.Lesson
	if err := pick(ctx, r.db, tx).
		Where("course_id = ?", courseID).
		Order("sequence_order ASC, id ASC").
		Find(&lessons).Error; err != nil {
		return nil, classify(r.log, "ListLessons", err, "course_not_found")
	}
	return lessons, nil
}

func (r *courseRepo) CountLessons(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error) {
	var n int64
	if err := pick(ctx, r.db, tx).
		Model(&models.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&n).Error; err != nil {
		return 0, classify(r.log, "CountLessons", err, "course_not_found")
	}
	return n, nil
}
