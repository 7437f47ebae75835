package repository

import (
	"context"
	"coursetrack/backend/apperr"
	"coursetrack/backend/models"
	"coursetrack/backend/utils"
	"time"

	"gorm.io/gorm"
)

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *models.Enrollment) error
	Get(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*models.Enrollment, error)
	UpdateProgress(ctx context.Context, tx *gorm.DB, enrollmentID uint, percent int, completedAt *time.Time) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint, offset, limit int) ([]*models.Enrollment, int64, error)
	CountCompleted(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *utils.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *utils.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, row *models.Enrollment) error {
	if err := pick(ctx, r.db, tx).Create(row).Error; err != nil {
		err = classify(r.log, "Create", err, "course_not_found")
		if apperr.Is(err, apperr.KindConflict) {
			return apperr.Conflict("already_enrolled", "learner already enrolled in this course")
		}
		return err
	}
	return nil
}

func (r *enrollmentRepo) Get(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*models.Enrollment, error) {
	var row models.Enrollment
	if err := pick(ctx, r.db, tx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&row).Error; err != nil {
		return nil, classify(r.log, "Get", err, "enrollment_not_found")
	}
	return &row, nil
}

// UpdateProgress writes the cached percentage. completedAt is only written
// while the stored value is still NULL, so the first completion time sticks.
func (r *enrollmentRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, enrollmentID uint, percent int, completedAt *time.Time) error {
	db := pick(ctx, r.db, tx)
	res := db.Model(&models.Enrollment{}).
		Where("id = ?", enrollmentID).
		Update("progress", percent)
	if res.Error != nil {
		return classify(r.log, "UpdateProgress", res.Error, "enrollment_not_found")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("enrollment_not_found", "enrollment not found")
	}

	if completedAt != nil {
		if err := db.Model(&models.Enrollment{}).
			Where("id = ? AND completed_at IS NULL", enrollmentID).
			Update("completed_at", *completedAt).Error; err != nil {
			return classify(r.log, "UpdateProgress", err, "enrollment_not_found")
		}
	}
	return nil
}

func (r *enrollmentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uint, offset, limit int) ([]*models.Enrollment, int64, error) {
	scoped := func() *gorm.DB {
		return pick(ctx, r.db, tx).Model(&models.Enrollment{}).Where("user_id = ?", userID)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, classify(r.log, "ListByUser", err, "enrollment_not_found")
	}

	var rows []*models.Enrollment
	if err := scoped().Order("enrolled_at DESC, id DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, classify(r.log, "ListByUser", err, "enrollment_not_found")
	}
	return rows, total, nil
}

func (r *enrollmentRepo) CountCompleted(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	var n int64
	if err := pick(ctx, r.db, tx).
		Model(&models.Enrollment{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Count(&n).Error; err != nil {
		return 0, classify(r.log, "CountCompleted", err, "enrollment_not_found")
	}
	return n, nil
}
