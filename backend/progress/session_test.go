package progress

import (
	"context"
	"coursetrack/backend/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	s, err := store.Load(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, s)

	s = NewSession(1, 2)
	s.Engagement.Activate(7, models.ContentText, base, time.Second)
	_, err = s.Quiz(8).Answer(Quiz{Options: []string{"a", "b"}, CorrectOption: intp(1)}, 1, false)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, s))

	// mutating the caller's copy must not leak into the store
	s.Engagement.Grant(99)

	got, err := store.Load(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(7), got.Engagement.ActiveLessonID)
	assert.True(t, got.Engagement.ActiveSince.Equal(base))
	assert.True(t, got.quizAnswered(8))
	assert.False(t, got.Engagement.Ready[99])
}

func TestSessionSeedUnlocksCompletedAndAnswered(t *testing.T) {
	s := NewSession(1, 2)
	s.Quiz(5).Started = true
	s.Quiz(6).Answered = true

	answer, correct := 2, true
	s.Seed([]*models.LessonCompletion{
		{LessonID: 3},
		{LessonID: 4, QuizAnswer: &answer, QuizCorrect: &correct},
	})

	assert.True(t, s.Engagement.Ready[3])
	assert.True(t, s.Engagement.Ready[4])
	assert.True(t, s.Engagement.Ready[6])
	assert.False(t, s.Engagement.Ready[5])

	locked := s.Quizzes[4]
	require.NotNil(t, locked)
	assert.Equal(t, QuizAnswered, locked.Status())
	assert.Equal(t, 2, *locked.SelectedOption)
	assert.True(t, *locked.IsCorrect)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "coursetrack:session:12:34", sessionKey(12, 34))
}
