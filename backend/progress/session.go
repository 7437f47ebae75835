package progress

import (
	"context"
	"coursetrack/backend/models"
	"encoding/json"
	"fmt"
	"sync"
)

// Session is the ephemeral, per learner and course state behind the
// engagement gate and quiz attempts. Nothing in it is durable; it is
// re-seeded from the completion ledger on every load.
type Session struct {
	LearnerID  uint                  `json:"learner_id"`
	CourseID   uint                  `json:"course_id"`
	Engagement Engagement            `json:"engagement"`
	Quizzes    map[uint]*QuizAttempt `json:"quizzes,omitempty"`
}

func NewSession(learnerID, courseID uint) *Session {
	return &Session{
		LearnerID: learnerID,
		CourseID:  courseID,
		Quizzes:   make(map[uint]*QuizAttempt),
	}
}

// Quiz returns the attempt for lessonID, creating an unstarted one.
func (s *Session) Quiz(lessonID uint) *QuizAttempt {
	if s.Quizzes == nil {
		s.Quizzes = make(map[uint]*QuizAttempt)
	}
	a, ok := s.Quizzes[lessonID]
	if !ok {
		a = &QuizAttempt{}
		s.Quizzes[lessonID] = a
	}
	return a
}

func (s *Session) quizAnswered(lessonID uint) bool {
	a, ok := s.Quizzes[lessonID]
	return ok && a.Answered
}

// Seed unlocks every completed lesson and every answered quiz, and restores
// locked quiz answers from their completion records.
func (s *Session) Seed(completed []*models.LessonCompletion) {
	for _, row := range completed {
		s.Engagement.Grant(row.LessonID)
		if row.QuizAnswer != nil {
			s.Quiz(row.LessonID).lockFrom(row)
		}
	}
	for lessonID, a := range s.Quizzes {
		if a.Answered {
			s.Engagement.Grant(lessonID)
		}
	}
}

type SessionStore interface {
	// Load returns nil, nil when no session exists.
	Load(ctx context.Context, learnerID, courseID uint) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

func sessionKey(learnerID, courseID uint) string {
	return fmt.Sprintf("coursetrack:session:%d:%d", learnerID, courseID)
}

type memorySessionStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemorySessionStore keeps sessions in process memory as JSON snapshots,
// so callers never share a live Session value.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{data: make(map[string][]byte)}
}

func (m *memorySessionStore) Load(_ context.Context, learnerID, courseID uint) (*Session, error) {
	m.mu.Lock()
	raw, ok := m.data[sessionKey(learnerID, courseID)]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *memorySessionStore) Save(_ context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[sessionKey(s.LearnerID, s.CourseID)] = raw
	m.mu.Unlock()
	return nil
}
