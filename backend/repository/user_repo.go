package repository

import (
	"context"
	"coursetrack/backend/models"
	"coursetrack/backend/utils"

	"gorm.io/gorm"
)

type UserRepo interface {
	Exists(ctx context.Context, tx *gorm.DB, userID uint) (bool, error)
}

type userRepo struct {
	db  *gorm.DB
	log *utils.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *utils.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Exists(ctx context.Context, tx *gorm.DB, userID uint) (bool, error) {
	var n int64
	if err := pick(ctx, r.db, tx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Count(&n).Error; err != nil {
		return false, classify(r.log, "Exists", err, "learner_not_found")
	}
	return n > 0, nil
}
