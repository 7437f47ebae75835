// Package apperr classifies failures of the progress core so the transport
// layer can tell "already done" apart from "could not save".
package apperr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Kind string

const (
	KindConflict    Kind = "conflict"
	KindNotFound    Kind = "not_found"
	KindValidation  Kind = "validation"
	KindPersistence Kind = "persistence"
)

// Steps of the mark-complete write path.
const (
	StepLedger    = "ledger"
	StepRecompute = "recompute"
)

type Error struct {
	Kind Kind
	Code string
	// Step names the write step that failed, if any.
	Step string
	// Partial is set when an earlier step committed before Step failed.
	Partial bool
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("%s error", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, Err: err}
}

func Conflict(code, msg string) *Error {
	return New(KindConflict, code, errors.New(msg))
}

func NotFound(code, msg string) *Error {
	return New(KindNotFound, code, errors.New(msg))
}

func Validation(code, msg string) *Error {
	return New(KindValidation, code, errors.New(msg))
}

func Persistence(err error) *Error {
	return New(KindPersistence, "persistence_failure", err)
}

// FromDB classifies a gorm error. notFoundCode is used for ErrRecordNotFound.
func FromDB(err error, notFoundCode string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return New(KindNotFound, notFoundCode, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return New(KindConflict, "duplicate", err)
	default:
		return Persistence(err)
	}
}

// AtStep tags err with the step it came from.
func AtStep(err error, step string, partial bool) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if !errors.As(err, &ae) {
		ae = Persistence(err)
	}
	out := *ae
	out.Step = step
	out.Partial = partial
	return &out
}

func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func IsPartial(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Partial
}
