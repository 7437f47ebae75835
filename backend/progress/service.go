package progress

import (
	"context"
	"coursetrack/backend/apperr"
	"coursetrack/backend/models"
	"coursetrack/backend/repository"
	"coursetrack/backend/utils"
	"time"

	"gorm.io/gorm"
)

type Deps struct {
	DB          *gorm.DB
	Courses     repository.CourseRepo
	Users       repository.UserRepo
	Completions repository.CompletionRepo
	Enrollments repository.EnrollmentRepo
	Activities  repository.ActivityRepo
	Sessions    SessionStore
	Log         *utils.Logger
}

type Options struct {
	EngagementGate time.Duration
	// Atomic wraps the ledger write and the recompute in one transaction.
	Atomic bool
	Clock  func() time.Time
}

// Service is the course progress controller. MarkLessonComplete is the only
// path that writes an enrollment's progress.
type Service struct {
	db          *gorm.DB
	courses     repository.CourseRepo
	users       repository.UserRepo
	completions repository.CompletionRepo
	enrollments repository.EnrollmentRepo
	activities  repository.ActivityRepo
	sessions    SessionStore
	ledger      *Ledger
	aggregator  *Aggregator
	log         *utils.Logger

	gate   time.Duration
	atomic bool
	clock  func() time.Time
}

func NewService(d Deps, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.EngagementGate <= 0 {
		opts.EngagementGate = DefaultEngagementGate
	}
	if d.Sessions == nil {
		d.Sessions = NewMemorySessionStore()
	}
	return &Service{
		db:          d.DB,
		courses:     d.Courses,
		users:       d.Users,
		completions: d.Completions,
		enrollments: d.Enrollments,
		activities:  d.Activities,
		sessions:    d.Sessions,
		ledger:      NewLedger(d.Courses, d.Users, d.Completions),
		aggregator:  NewAggregator(d.Completions, d.Enrollments, opts.Clock),
		log:         d.Log.With("service", "ProgressService"),
		gate:        opts.EngagementGate,
		atomic:      opts.Atomic,
		clock:       opts.Clock,
	}
}

// LessonState is what the UI needs to enable or disable "mark complete".
type LessonState struct {
	LessonID    uint               `json:"lesson_id"`
	ContentType models.ContentType `json:"content_type"`
	Completed   bool               `json:"completed"`
	Ready       bool               `json:"ready"`
	ReadyAt     *time.Time         `json:"ready_at,omitempty"`
}

type CompletionResult struct {
	LessonID           uint   `json:"lesson_id"`
	NewPercent         int    `json:"new_percent"`
	CourseCompleted    bool   `json:"course_completed"`
	CompletedLessonIDs []uint `json:"completed_lesson_ids"`
	// Stale is set when the ledger write succeeded but the percentage could
	// not be refreshed.
	Stale bool `json:"stale,omitempty"`
}

type QuizView struct {
	LessonID       uint       `json:"lesson_id"`
	Status         QuizStatus `json:"status"`
	Options        []string   `json:"options"`
	Placeholder    bool       `json:"placeholder"`
	SelectedOption *int       `json:"selected_option,omitempty"`
	IsCorrect      *bool      `json:"is_correct,omitempty"`
	// Revealed is the locked display state of a completed quiz lesson.
	Revealed      bool `json:"revealed"`
	CorrectOption *int `json:"correct_option,omitempty"`
}

type AnswerResult struct {
	IsCorrect bool      `json:"is_correct"`
	Quiz      *QuizView `json:"quiz"`
}

type CourseProgress struct {
	Enrollment         *models.Enrollment `json:"enrollment"`
	TotalLessons       int64              `json:"total_lessons"`
	CompletedLessonIDs []uint             `json:"completed_lesson_ids"`
}

// Enroll creates the learner's enrollment at 0% and aligns it with any
// completions already in the ledger.
func (s *Service) Enroll(ctx context.Context, learnerID, courseID uint) (*models.Enrollment, error) {
	if err := validateIDs(learnerID, courseID); err != nil {
		return nil, err
	}
	if err := s.requireLearner(ctx, learnerID); err != nil {
		return nil, err
	}
	if _, err := s.courses.GetCourse(ctx, nil, courseID); err != nil {
		return nil, s.logged(err, "enroll", learnerID, courseID, 0)
	}

	row := &models.Enrollment{
		UserID:     learnerID,
		CourseID:   courseID,
		EnrolledAt: s.clock(),
	}
	if err := s.enrollments.Create(ctx, nil, row); err != nil {
		return nil, s.logged(err, "enroll", learnerID, courseID, 0)
	}

	// The enrollment exists from here on; failures leave it for Recompute.
	n, err := s.completions.Count(ctx, nil, learnerID, courseID)
	if err != nil {
		return nil, s.logged(apperr.AtStep(err, apperr.StepRecompute, true), "enroll", learnerID, courseID, 0)
	}
	if n > 0 {
		if _, err := s.Recompute(ctx, learnerID, courseID); err != nil {
			return nil, apperr.AtStep(err, apperr.StepRecompute, true)
		}
		return s.enrollments.Get(ctx, nil, learnerID, courseID)
	}
	return row, nil
}

func (s *Service) ListEnrollments(ctx context.Context, learnerID uint, page, pageSize int) ([]*models.Enrollment, int64, error) {
	if err := validateIDs(learnerID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.enrollments.ListByUser(ctx, nil, learnerID, (page-1)*pageSize, pageSize)
}

func (s *Service) GetCourseProgress(ctx context.Context, learnerID, courseID uint) (*CourseProgress, error) {
	if err := validateIDs(learnerID, courseID); err != nil {
		return nil, err
	}
	enrollment, err := s.enrollments.Get(ctx, nil, learnerID, courseID)
	if err != nil {
		return nil, s.logged(err, "course_progress", learnerID, courseID, 0)
	}
	total, err := s.courses.CountLessons(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	ids, err := s.ledger.ListCompletedLessonIDs(ctx, nil, learnerID, courseID)
	if err != nil {
		return nil, err
	}
	return &CourseProgress{Enrollment: enrollment, TotalLessons: total, CompletedLessonIDs: ids}, nil
}

// GetCompletedLessons rehydrates the UI's completed set.
func (s *Service) GetCompletedLessons(ctx context.Context, learnerID, courseID uint) ([]uint, error) {
	if err := validateIDs(learnerID, courseID); err != nil {
		return nil, err
	}
	if _, err := s.courses.GetCourse(ctx, nil, courseID); err != nil {
		return nil, s.logged(err, "completed_lessons", learnerID, courseID, 0)
	}
	return s.ledger.ListCompletedLessonIDs(ctx, nil, learnerID, courseID)
}

// Recompute refreshes the cached percentage from the ledger. It is the retry
// path after a partial MarkLessonComplete.
func (s *Service) Recompute(ctx context.Context, learnerID, courseID uint) (*Progress, error) {
	if err := validateIDs(learnerID, courseID); err != nil {
		return nil, err
	}
	total, err := s.courses.CountLessons(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	p, err := s.aggregator.Recompute(ctx, nil, learnerID, courseID, total)
	if err != nil {
		return nil, s.logged(err, "recompute", learnerID, courseID, 0)
	}
	if p.JustCompleted {
		s.recordActivity(ctx, learnerID, courseID, models.ActivityCourseComplete, courseID, s.clock())
	}
	return p, nil
}

// OpenLesson makes the lesson the learner's focused lesson, starting its
// engagement timer and cancelling the previous lesson's.
func (s *Service) OpenLesson(ctx context.Context, learnerID, courseID, lessonID uint) (*LessonState, error) {
	lesson, sess, completed, err := s.load(ctx, learnerID, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	sess.Engagement.Activate(lesson.ID, lesson.Kind(), s.clock(), s.gate)
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return s.state(sess, lesson, completed[lesson.ID] != nil), nil
}

func (s *Service) Readiness(ctx context.Context, learnerID, courseID, lessonID uint) (*LessonState, error) {
	lesson, sess, completed, err := s.load(ctx, learnerID, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	return s.state(sess, lesson, completed[lesson.ID] != nil), nil
}

// MarkLessonComplete records the completion and recomputes the enrollment's
// percentage. A repeat call fails with a conflict and changes nothing. When
// the ledger write commits but the recompute fails, the result is returned
// together with a partial error so the caller can retry Recompute.
func (s *Service) MarkLessonComplete(ctx context.Context, learnerID, courseID, lessonID uint) (*CompletionResult, error) {
	lesson, sess, completed, err := s.load(ctx, learnerID, courseID, lessonID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	if completed[lesson.ID] == nil && !sess.Engagement.IsReady(lesson.ID, lesson.Kind(), now, s.gate, sess.quizAnswered(lesson.ID)) {
		return nil, apperr.Validation("lesson_not_ready", "lesson is not ready for completion yet")
	}

	event := Completion{LearnerID: learnerID, CourseID: courseID, LessonID: lesson.ID, At: now}
	if lesson.Kind() == models.ContentQuiz {
		if a := sess.Quizzes[lesson.ID]; a != nil && a.Answered {
			event.QuizAnswer = a.SelectedOption
			event.QuizCorrect = a.IsCorrect
		}
	}

	var (
		res  *CompletionResult
		prog *Progress
	)
	write := func(tx *gorm.DB) error {
		ids, err := s.ledger.RecordCompletion(ctx, tx, event)
		if err != nil {
			return apperr.AtStep(err, apperr.StepLedger, false)
		}
		res = &CompletionResult{LessonID: lesson.ID, CompletedLessonIDs: ids}

		total, err := s.courses.CountLessons(ctx, tx, courseID)
		if err == nil {
			prog, err = s.aggregator.Recompute(ctx, tx, learnerID, courseID, total)
		}
		if err != nil {
			return apperr.AtStep(err, apperr.StepRecompute, !s.atomic)
		}
		res.NewPercent = prog.Percent
		res.CourseCompleted = prog.Percent == 100
		return nil
	}

	if s.atomic {
		err = s.db.WithContext(ctx).Transaction(write)
		if err != nil {
			res = nil
		}
	} else {
		err = write(nil)
	}

	if err != nil && !apperr.IsPartial(err) {
		return nil, s.logged(err, "mark_complete", learnerID, courseID, lessonID)
	}

	// The ledger row exists from here on.
	sess.Engagement.Grant(lesson.ID)
	if serr := s.save(ctx, sess); serr != nil {
		s.log.Warn("session save failed after completion", "learner", learnerID, "lesson_id", lesson.ID, "error", serr)
	}
	s.recordActivity(ctx, learnerID, courseID, models.ActivityLessonComplete, lesson.ID, now)

	if err != nil {
		res.Stale = true
		return res, s.logged(err, "mark_complete", learnerID, courseID, lessonID)
	}
	if prog.JustCompleted {
		s.recordActivity(ctx, learnerID, courseID, models.ActivityCourseComplete, courseID, now)
	}
	return res, nil
}

func (s *Service) GetQuizState(ctx context.Context, learnerID, courseID, lessonID uint) (*QuizView, error) {
	lesson, sess, completed, err := s.loadQuiz(ctx, learnerID, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	return s.quizView(sess, lesson, completed[lesson.ID] != nil), nil
}

func (s *Service) StartQuiz(ctx context.Context, learnerID, courseID, lessonID uint) (*QuizView, error) {
	lesson, sess, completed, err := s.loadQuiz(ctx, learnerID, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	done := completed[lesson.ID] != nil
	if sess.Quiz(lesson.ID).Start(done) {
		if err := s.save(ctx, sess); err != nil {
			return nil, err
		}
	}
	return s.quizView(sess, lesson, done), nil
}

// AnswerQuiz grades option against the lesson's configured answer and makes
// the lesson ready for completion.
func (s *Service) AnswerQuiz(ctx context.Context, learnerID, courseID, lessonID uint, option int) (*AnswerResult, error) {
	lesson, sess, completed, err := s.loadQuiz(ctx, learnerID, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	done := completed[lesson.ID] != nil
	attempt := sess.Quiz(lesson.ID)
	wasAnswered := attempt.Answered

	ok, err := attempt.Answer(QuizFor(lesson), option, done)
	if err != nil {
		return nil, err
	}
	if !wasAnswered && !done {
		sess.Engagement.Grant(lesson.ID)
		if err := s.save(ctx, sess); err != nil {
			return nil, err
		}
	}
	return &AnswerResult{IsCorrect: ok, Quiz: s.quizView(sess, lesson, done)}, nil
}

func (s *Service) Overview(ctx context.Context, learnerID uint) (*models.ProgressOverview, error) {
	if err := validateIDs(learnerID); err != nil {
		return nil, err
	}
	_, total, err := s.enrollments.ListByUser(ctx, nil, learnerID, 0, 1)
	if err != nil {
		return nil, err
	}
	done, err := s.enrollments.CountCompleted(ctx, nil, learnerID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.completions.CountByUser(ctx, nil, learnerID)
	if err != nil {
		return nil, err
	}
	return &models.ProgressOverview{
		TotalEnrollments:      total,
		TotalCoursesCompleted: done,
		CoursesInProgress:     total - done,
		TotalLessonsCompleted: lessons,
	}, nil
}

func (s *Service) RecentActivity(ctx context.Context, learnerID uint, limit int) ([]*models.UserActivity, error) {
	if err := validateIDs(learnerID); err != nil {
		return nil, err
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.activities.ListByUser(ctx, nil, learnerID, limit)
}

// load resolves the lesson and the learner's session, seeded from the
// ledger. completed is keyed by lesson id.
func (s *Service) load(ctx context.Context, learnerID, courseID, lessonID uint) (*models.Lesson, *Session, map[uint]*models.LessonCompletion, error) {
	if err := validateIDs(learnerID, courseID, lessonID); err != nil {
		return nil, nil, nil, err
	}
	if err := s.requireLearner(ctx, learnerID); err != nil {
		return nil, nil, nil, err
	}
	lesson, err := s.courses.GetLesson(ctx, nil, courseID, lessonID)
	if err != nil {
		return nil, nil, nil, s.logged(err, "load_lesson", learnerID, courseID, lessonID)
	}

	sess, err := s.sessions.Load(ctx, learnerID, courseID)
	if err != nil {
		return nil, nil, nil, s.logged(apperr.Persistence(err), "load_session", learnerID, courseID, lessonID)
	}
	if sess == nil {
		sess = NewSession(learnerID, courseID)
	}

	rows, err := s.completions.ListByCourse(ctx, nil, learnerID, courseID)
	if err != nil {
		return nil, nil, nil, s.logged(err, "load_completions", learnerID, courseID, lessonID)
	}
	sess.Seed(rows)

	completed := make(map[uint]*models.LessonCompletion, len(rows))
	for _, row := range rows {
		completed[row.LessonID] = row
	}
	return lesson, sess, completed, nil
}

func (s *Service) loadQuiz(ctx context.Context, learnerID, courseID, lessonID uint) (*models.Lesson, *Session, map[uint]*models.LessonCompletion, error) {
	lesson, sess, completed, err := s.load(ctx, learnerID, courseID, lessonID)
	if err != nil {
		return nil, nil, nil, err
	}
	if lesson.Kind() != models.ContentQuiz {
		return nil, nil, nil, apperr.Validation("not_a_quiz", "lesson is not a quiz")
	}
	return lesson, sess, completed, nil
}

func (s *Service) save(ctx context.Context, sess *Session) error {
	if err := s.sessions.Save(ctx, sess); err != nil {
		return s.logged(apperr.Persistence(err), "save_session", sess.LearnerID, sess.CourseID, 0)
	}
	return nil
}

func (s *Service) requireLearner(ctx context.Context, learnerID uint) error {
	ok, err := s.users.Exists(ctx, nil, learnerID)
	if err != nil {
		return err
	}
	if !ok {
		return s.logged(apperr.NotFound("learner_not_found", "learner not found"), "require_learner", learnerID, 0, 0)
	}
	return nil
}

func (s *Service) state(sess *Session, lesson *models.Lesson, completed bool) *LessonState {
	now := s.clock()
	st := &LessonState{
		LessonID:    lesson.ID,
		ContentType: lesson.Kind(),
		Completed:   completed,
		Ready:       completed || sess.Engagement.IsReady(lesson.ID, lesson.Kind(), now, s.gate, sess.quizAnswered(lesson.ID)),
	}
	if !st.Ready {
		if at, ok := sess.Engagement.ReadyAt(lesson.ID, s.gate); ok {
			st.ReadyAt = &at
		}
	}
	return st
}

func (s *Service) quizView(sess *Session, lesson *models.Lesson, completed bool) *QuizView {
	quiz := QuizFor(lesson)
	opts, placeholder := quiz.DisplayOptions()
	a := sess.Quizzes[lesson.ID]
	v := &QuizView{
		LessonID:    lesson.ID,
		Status:      a.Status(),
		Options:     opts,
		Placeholder: placeholder,
		Revealed:    completed,
	}
	if a != nil {
		v.SelectedOption = a.SelectedOption
		v.IsCorrect = a.IsCorrect
	}
	if completed {
		idx := quiz.CorrectIndex()
		v.CorrectOption = &idx
	}
	return v
}

func (s *Service) recordActivity(ctx context.Context, learnerID, courseID uint, action string, targetID uint, at time.Time) {
	if s.activities == nil {
		return
	}
	err := s.activities.Record(ctx, nil, &models.UserActivity{
		UserID:     learnerID,
		ActionType: action,
		CourseID:   courseID,
		TargetID:   targetID,
		Timestamp:  at,
	})
	if err != nil {
		s.log.Warn("activity not recorded", "learner", learnerID, "action", action, "error", err)
	}
}

// logged reports not-found and persistence failures for investigation;
// conflicts are expected and stay at debug.
func (s *Service) logged(err error, op string, learnerID, courseID, lessonID uint) error {
	kv := []interface{}{"op", op, "learner", learnerID, "course_id", courseID, "lesson_id", lessonID, "error", err}
	switch apperr.KindOf(err) {
	case apperr.KindConflict, apperr.KindValidation:
		s.log.Debug("progress request rejected", kv...)
	case apperr.KindNotFound:
		s.log.Warn("progress reference not found", kv...)
	default:
		s.log.Error("progress persistence failure", kv...)
	}
	return err
}
