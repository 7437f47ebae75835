package repository

import (
	"context"
	"coursetrack/backend/apperr"
	"coursetrack/backend/models"
	"coursetrack/backend/utils"

	"gorm.io/gorm"
)

// CompletionRepo is the lesson completion ledger. Rows are only ever inserted.
type CompletionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *models.LessonCompletion) error
	Get(ctx context.Context, tx *gorm.DB, userID, lessonID uint) (*models.LessonCompletion, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, userID, courseID uint) ([]*models.LessonCompletion, error)
	ListLessonIDs(ctx context.Context, tx *gorm.DB, userID, courseID uint) ([]uint, error)
	Count(ctx context.Context, tx *gorm.DB, userID, courseID uint) (int64, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)
}

type completionRepo struct {
	db  *gorm.DB
	log *utils.Logger
}

func NewCompletionRepo(db *gorm.DB, baseLog *utils.Logger) CompletionRepo {
	return &completionRepo{db: db, log: baseLog.With("repo", "CompletionRepo")}
}

// Create inserts row. A second row for the same (user, lesson) is a conflict
// and writes nothing.
func (r *completionRepo) Create(ctx context.Context, tx *gorm.DB, row *models.LessonCompletion) error {
	if row == nil {
		return apperr.Validation("invalid_completion", "completion row required")
	}
	if err := pick(ctx, r.db, tx).Create(row).Error; err != nil {
		err = classify(r.log, "Create", err, "lesson_not_found")
		if apperr.Is(err, apperr.KindConflict) {
			return apperr.Conflict("already_completed", "lesson already completed")
		}
		return err
	}
	return nil
}

func (r *completionRepo) Get(ctx context.Context, tx *gorm.DB, userID, lessonID uint) (*models.LessonCompletion, error) {
	var row models.LessonCompletion
	if err := pick(ctx, r.db, tx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&row).Error; err != nil {
		return nil, classify(r.log, "Get", err, "completion_not_found")
	}
	return &row, nil
}

func (r *completionRepo) ListByCourse(ctx context.Context, tx *gorm.DB, userID, courseID uint) ([]*models.LessonCompletion, error) {
	var rows []*models.LessonCompletion
	if err := pick(ctx, r.db, tx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("completed_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, classify(r.log, "ListByCourse", err, "completion_not_found")
	}
	return rows, nil
}

func (r *completionRepo) ListLessonIDs(ctx context.Context, tx *gorm.DB, userID, courseID uint) ([]uint, error) {
	ids := []uint{}
	if err := pick(ctx, r.db, tx).
		Model(&models.LessonCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("lesson_id ASC").
		Pluck("lesson_id", &ids).Error; err != nil {
		return nil, classify(r.log, "ListLessonIDs", err, "completion_not_found")
	}
	return ids, nil
}

func (r *completionRepo) Count(ctx context.Context, tx *gorm.DB, userID, courseID uint) (int64, error) {
	var n int64
	if err := pick(ctx, r.db, tx).
		Model(&models.LessonCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&n).Error; err != nil {
		return 0, classify(r.log, "Count", err, "completion_not_found")
	}
	return n, nil
}

func (r *completionRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	var n int64
	if err := pick(ctx, r.db, tx).
		Model(&models.LessonCompletion{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, classify(r.log, "CountByUser", err, "completion_not_found")
	}
	return n, nil
}
