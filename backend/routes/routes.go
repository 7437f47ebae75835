package routes

import (
	"coursetrack/backend/config"
	"coursetrack/backend/controllers"
	"coursetrack/backend/middleware"
	"coursetrack/backend/progress"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, svc *progress.Service, cfg *config.Config) {
	authMiddleware := middleware.AuthMiddleware(cfg)
	api := app.Group("/api", authMiddleware)

	// Progress routes
	progressController := controllers.NewProgressController(svc, cfg)
	api.Get("/progress/overview", progressController.GetProgressOverview)

	// Courses routes
	coursesController := controllers.NewCoursesController(svc, cfg)
	courses := api.Group("/courses")
	courses.Get("/", coursesController.GetUserCourses)
	courses.Post("/:id/enroll", coursesController.Enroll)
	courses.Get("/:id/progress", coursesController.GetCourseProgress)
	courses.Post("/:id/progress/recompute", coursesController.RecomputeProgress)
	courses.Get("/:id/completions", coursesController.GetCompletedLessons)

	// Lesson player routes
	lessonsController := controllers.NewLessonsController(svc, cfg)
	lessons := courses.Group("/:id/lessons/:lessonId")
	lessons.Post("/open", lessonsController.OpenLesson)
	lessons.Get("/readiness", lessonsController.GetReadiness)
	lessons.Post("/complete", lessonsController.CompleteLesson)
	lessons.Get("/quiz", lessonsController.GetQuiz)
	lessons.Post("/quiz/start", lessonsController.StartQuiz)
	lessons.Post("/quiz/answer", lessonsController.AnswerQuiz)
}
