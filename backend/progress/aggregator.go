package progress

import (
	"context"
	"coursetrack/backend/repository"
	"math"
	"time"

	"gorm.io/gorm"
)

// Percent is round(completed/total*100) clamped to [0,100]. A course with no
// lessons is always at 0.
func Percent(completed, total int64) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	p := int(math.Round(float64(completed) / float64(total) * 100))
	if p > 100 {
		return 100
	}
	return p
}

// Progress is the enrollment's cached progress after a recompute.
type Progress struct {
	EnrollmentID     uint       `json:"enrollment_id"`
	Percent          int        `json:"percent"`
	CompletedLessons int64      `json:"completed_lessons"`
	TotalLessons     int64      `json:"total_lessons"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	// JustCompleted is true only for the recompute that first reached 100.
	JustCompleted bool `json:"-"`
}

// Aggregator keeps the enrollment's progress in step with the ledger.
type Aggregator struct {
	completions repository.CompletionRepo
	enrollments repository.EnrollmentRepo
	now         func() time.Time
}

func NewAggregator(completions repository.CompletionRepo, enrollments repository.EnrollmentRepo, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{completions: completions, enrollments: enrollments, now: now}
}

// Recompute derives the percentage from the ledger and persists it. The
// stored value never decreases and the completion time is set once.
// Repeated calls over the same ledger state are no-ops.
func (a *Aggregator) Recompute(ctx context.Context, tx *gorm.DB, learnerID, courseID uint, totalLessons int64) (*Progress, error) {
	if err := validateIDs(learnerID, courseID); err != nil {
		return nil, err
	}

	enrollment, err := a.enrollments.Get(ctx, tx, learnerID, courseID)
	if err != nil {
		return nil, err
	}

	completed, err := a.completions.Count(ctx, tx, learnerID, courseID)
	if err != nil {
		return nil, err
	}

	percent := Percent(completed, totalLessons)
	if percent < enrollment.Progress {
		percent = enrollment.Progress
	}

	out := &Progress{
		EnrollmentID:     enrollment.ID,
		Percent:          percent,
		CompletedLessons: completed,
		TotalLessons:     totalLessons,
		CompletedAt:      enrollment.CompletedAt,
	}

	var stamp *time.Time
	if percent == 100 && enrollment.CompletedAt == nil {
		now := a.now()
		stamp = &now
		out.CompletedAt = stamp
		out.JustCompleted = true
	}

	if err := a.enrollments.UpdateProgress(ctx, tx, enrollment.ID, percent, stamp); err != nil {
		return nil, err
	}
	return out, nil
}
