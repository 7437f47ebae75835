package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestFromDBClassifiesGormErrors(t *testing.T) {
	assert.Nil(t, FromDB(nil, "x"))
	assert.Equal(t, KindNotFound, KindOf(FromDB(gorm.ErrRecordNotFound, "enrollment_not_found")))
	assert.Equal(t, KindConflict, KindOf(FromDB(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), "x")))
	assert.Equal(t, KindPersistence, KindOf(FromDB(errors.New("connection refused"), "x")))

	var ae *Error
	assert.True(t, errors.As(FromDB(gorm.ErrRecordNotFound, "enrollment_not_found"), &ae))
	assert.Equal(t, "enrollment_not_found", ae.Code)
}

func TestFromDBKeepsClassifiedErrors(t *testing.T) {
	orig := Validation("bad_id", "bad id")
	assert.Same(t, orig, FromDB(orig, "x"))
}

func TestAtStepMarksPartialWithoutMutatingOriginal(t *testing.T) {
	orig := NotFound("enrollment_not_found", "enrollment not found")
	tagged := AtStep(orig, StepRecompute, true)

	assert.True(t, IsPartial(tagged))
	assert.True(t, Is(tagged, KindNotFound))
	assert.False(t, orig.Partial)
	assert.Empty(t, orig.Step)

	plain := AtStep(errors.New("disk full"), StepLedger, false)
	assert.True(t, Is(plain, KindPersistence))
	assert.False(t, IsPartial(plain))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "lesson already completed", Conflict("already_completed", "lesson already completed").Error())
	assert.Equal(t, "code_only", (&Error{Kind: KindValidation, Code: "code_only"}).Error())
	assert.Equal(t, "validation error", (&Error{Kind: KindValidation}).Error())
}
