package progress

import (
	"coursetrack/backend/models"
	"time"
)

const DefaultEngagementGate = 3 * time.Second

// GateInput is everything the engagement gate looks at for one lesson.
type GateInput struct {
	Type      models.ContentType
	Completed bool
	// Cleared means readiness was already granted earlier in the session.
	Cleared      bool
	QuizAnswered bool
	// Active is true while the lesson is the focused lesson; ActiveSince is
	// when its dwell timer started (zero if no timer runs).
	Active      bool
	ActiveSince time.Time
	Now         time.Time
	Duration    time.Duration
}

// GateOpen reports whether a lesson may be marked complete. Quizzes open on
// an answer; text and video open once the lesson has stayed active for the
// full duration.
func GateOpen(in GateInput) bool {
	if in.Completed || in.Cleared {
		return true
	}
	if in.Type == models.ContentQuiz {
		return in.QuizAnswered
	}
	if !in.Active || in.ActiveSince.IsZero() {
		return false
	}
	return in.Now.Sub(in.ActiveSince) >= in.Duration
}

// Engagement tracks the focused lesson and the set of lessons that have
// cleared the gate.
type Engagement struct {
	ActiveLessonID uint               `json:"active_lesson_id,omitempty"`
	ActiveType     models.ContentType `json:"active_type,omitempty"`
	ActiveSince    time.Time          `json:"active_since,omitempty"`
	Ready          map[uint]bool      `json:"ready,omitempty"`
}

func (e *Engagement) input(lessonID uint, typ models.ContentType, now time.Time, d time.Duration) GateInput {
	in := GateInput{
		Type:     typ,
		Cleared:  e.Ready[lessonID],
		Now:      now,
		Duration: d,
	}
	if e.ActiveLessonID == lessonID {
		in.Active = true
		in.ActiveSince = e.ActiveSince
	}
	return in
}

// settle grants the active lesson if its timer already ran out.
func (e *Engagement) settle(now time.Time, d time.Duration) {
	if e.ActiveLessonID == 0 || e.ActiveType == models.ContentQuiz {
		return
	}
	if GateOpen(e.input(e.ActiveLessonID, e.ActiveType, now, d)) {
		e.Grant(e.ActiveLessonID)
	}
}

// Activate makes lessonID the focused lesson. A still-running timer on the
// previous lesson is cancelled. A timer starts only for text or video
// lessons that are neither completed nor already cleared.
func (e *Engagement) Activate(lessonID uint, typ models.ContentType, now time.Time, d time.Duration) {
	if e.ActiveLessonID == lessonID && e.ActiveType == typ {
		return
	}
	e.settle(now, d)

	e.ActiveLessonID = lessonID
	e.ActiveType = typ
	e.ActiveSince = time.Time{}
	if typ != models.ContentQuiz && !e.Ready[lessonID] {
		e.ActiveSince = now
	}
}

// Deactivate clears focus, as when the learner leaves the course.
func (e *Engagement) Deactivate(now time.Time, d time.Duration) {
	e.settle(now, d)
	e.ActiveLessonID = 0
	e.ActiveType = ""
	e.ActiveSince = time.Time{}
}

func (e *Engagement) Grant(lessonID uint) {
	if e.Ready == nil {
		e.Ready = make(map[uint]bool)
	}
	e.Ready[lessonID] = true
}

func (e *Engagement) IsReady(lessonID uint, typ models.ContentType, now time.Time, d time.Duration, quizAnswered bool) bool {
	in := e.input(lessonID, typ, now, d)
	in.QuizAnswered = quizAnswered
	return GateOpen(in)
}

// ReadyAt is when a running timer for lessonID will elapse. ok is false when
// no timer runs for it.
func (e *Engagement) ReadyAt(lessonID uint, d time.Duration) (time.Time, bool) {
	if e.ActiveLessonID != lessonID || e.ActiveSince.IsZero() {
		return time.Time{}, false
	}
	return e.ActiveSince.Add(d), true
}
