// Package repository holds the GORM-backed stores. Every method takes an
// optional transaction; nil means the repository's own handle.
package repository

import (
	"context"
	"coursetrack/backend/apperr"
	"coursetrack/backend/utils"

	"gorm.io/gorm"
)

func pick(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// classify maps a GORM error onto apperr and logs the ones that are storage
// failures rather than missing rows or duplicates.
func classify(log *utils.Logger, op string, err error, notFoundCode string) error {
	err = apperr.FromDB(err, notFoundCode)
	if apperr.Is(err, apperr.KindPersistence) {
		log.Error("database operation failed", "op", op, "error", err)
	}
	return err
}
