package progress

import (
	"coursetrack/backend/config"
	"coursetrack/backend/models"
	"coursetrack/backend/repository"
	"coursetrack/backend/utils"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := utils.InitDB(&config.Config{
		DBDriver: "sqlite",
		DBPath:   fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db      *gorm.DB
	clock   *fakeClock
	svc     *Service
	deps    Deps
	learner models.User
}

func newFixture(t *testing.T, atomic bool) *fixture {
	t.Helper()
	db := newTestDB(t)
	log := utils.NopLogger()
	clock := &fakeClock{t: base}

	deps := Deps{
		DB:          db,
		Courses:     repository.NewCourseRepo(db, log),
		Users:       repository.NewUserRepo(db, log),
		Completions: repository.NewCompletionRepo(db, log),
		Enrollments: repository.NewEnrollmentRepo(db, log),
		Activities:  repository.NewActivityRepo(db, log),
		Sessions:    NewMemorySessionStore(),
		Log:         log,
	}
	f := &fixture{db: db, clock: clock, deps: deps}
	f.svc = NewService(deps, Options{EngagementGate: 3 * time.Second, Atomic: atomic, Clock: clock.Now})

	f.learner = models.User{Username: "learner", Email: "learner@example.com"}
	require.NoError(t, db.Create(&f.learner).Error)
	return f
}

func (f *fixture) course(t *testing.T, lessons ...*models.Lesson) (models.Course, []*models.Lesson) {
	t.Helper()
	course := models.Course{Title: "Course"}
	require.NoError(t, f.db.Create(&course).Error)
	for i, l := range lessons {
		l.CourseID = course.ID
		l.SequenceOrder = i + 1
		require.NoError(t, f.db.Create(l).Error)
	}
	return course, lessons
}

func text() *models.Lesson  { return &models.Lesson{Title: "Reading", ContentType: models.ContentText} }
func video() *models.Lesson { return &models.Lesson{Title: "Video", ContentType: models.ContentVideo} }

func quiz(correct int, options ...string) *models.Lesson {
	return &models.Lesson{
		Title:         "Quiz",
		ContentType:   models.ContentQuiz,
		QuizOptions:   datatypes.JSONSlice[string](options),
		CorrectOption: &correct,
	}
}
