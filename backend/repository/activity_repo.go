package repository

import (
	"context"
	"coursetrack/backend/models"
	"coursetrack/backend/utils"

	"gorm.io/gorm"
)

type ActivityRepo interface {
	Record(ctx context.Context, tx *gorm.DB, row *models.UserActivity) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint, limit int) ([]*models.UserActivity, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *utils.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *utils.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) Record(ctx context.Context, tx *gorm.DB, row *models.UserActivity) error {
	if err := pick(ctx, r.db, tx).Create(row).Error; err != nil {
		return classify(r.log, "Record", err, "activity_not_found")
	}
	return nil
}

func (r *activityRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uint, limit int) ([]*models.UserActivity, error) {
	var rows []*models.UserActivity
	if err := pick(ctx, r.db, tx).
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, classify(r.log, "ListByUser", err, "activity_not_found")
	}
	return rows, nil
}
