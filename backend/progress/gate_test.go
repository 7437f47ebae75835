package progress

import (
	"coursetrack/backend/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGateOpenTextWaitsForFullDuration(t *testing.T) {
	in := GateInput{
		Type:        models.ContentText,
		Active:      true,
		ActiveSince: base,
		Duration:    3 * time.Second,
	}

	for _, tc := range []struct {
		after time.Duration
		want  bool
	}{
		{0, false},
		{2999 * time.Millisecond, false},
		{3000 * time.Millisecond, true},
		{3001 * time.Millisecond, true},
	} {
		in.Now = base.Add(tc.after)
		assert.Equal(t, tc.want, GateOpen(in), "after %s", tc.after)
	}
}

func TestGateOpenRequiresActiveLesson(t *testing.T) {
	in := GateInput{Type: models.ContentVideo, ActiveSince: base, Now: base.Add(time.Minute), Duration: time.Second}
	assert.False(t, GateOpen(in))

	in.Cleared = true
	assert.True(t, GateOpen(in))
}

func TestGateOpenQuizIgnoresDwellTime(t *testing.T) {
	in := GateInput{Type: models.ContentQuiz, Active: true, ActiveSince: base, Now: base.Add(time.Hour), Duration: time.Second}
	assert.False(t, GateOpen(in))

	in.QuizAnswered = true
	in.Now = base
	assert.True(t, GateOpen(in))
}

func TestGateOpenCompletedLesson(t *testing.T) {
	assert.True(t, GateOpen(GateInput{Type: models.ContentText, Completed: true}))
}

func TestEngagementNavigatingAwayCancelsRunningTimer(t *testing.T) {
	var e Engagement
	d := 3 * time.Second

	e.Activate(1, models.ContentText, base, d)
	e.Activate(2, models.ContentVideo, base.Add(time.Second), d)

	later := base.Add(10 * time.Second)
	assert.False(t, e.IsReady(1, models.ContentText, later, d, false))
	assert.True(t, e.IsReady(2, models.ContentVideo, later, d, false))
}

func TestEngagementNavigatingAwayAfterElapsedKeepsReadiness(t *testing.T) {
	var e Engagement
	d := 3 * time.Second

	e.Activate(1, models.ContentText, base, d)
	e.Activate(2, models.ContentText, base.Add(4*time.Second), d)
	e.Deactivate(base.Add(5*time.Second), d)

	assert.True(t, e.IsReady(1, models.ContentText, base.Add(time.Hour), d, false))
	assert.False(t, e.IsReady(2, models.ContentText, base.Add(time.Hour), d, false))
}

func TestEngagementReactivatingKeepsTimer(t *testing.T) {
	var e Engagement
	d := 3 * time.Second

	e.Activate(1, models.ContentText, base, d)
	e.Activate(1, models.ContentText, base.Add(2*time.Second), d)

	assert.True(t, e.IsReady(1, models.ContentText, base.Add(3*time.Second), d, false))
	at, ok := e.ReadyAt(1, d)
	assert.True(t, ok)
	assert.Equal(t, base.Add(d), at)
}

func TestEngagementNoTimerForClearedOrQuizLessons(t *testing.T) {
	var e Engagement
	d := time.Second

	e.Grant(1)
	e.Activate(1, models.ContentText, base, d)
	_, ok := e.ReadyAt(1, d)
	assert.False(t, ok)

	e.Activate(2, models.ContentQuiz, base, d)
	_, ok = e.ReadyAt(2, d)
	assert.False(t, ok)
	assert.False(t, e.IsReady(2, models.ContentQuiz, base.Add(time.Hour), d, false))
	assert.True(t, e.IsReady(2, models.ContentQuiz, base, d, true))
}
