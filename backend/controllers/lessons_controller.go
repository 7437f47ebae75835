package controllers

import (
	"coursetrack/backend/apperr"
	"coursetrack/backend/config"
	"coursetrack/backend/progress"
	"coursetrack/backend/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// LessonsController serves the lesson player: engagement, completion and
// quiz endpoints under /courses/:id/lessons/:lessonId.
type LessonsController struct {
	Svc *progress.Service
	Cfg *config.Config
}

func NewLessonsController(svc *progress.Service, cfg *config.Config) *LessonsController {
	return &LessonsController{Svc: svc, Cfg: cfg}
}

type AnswerInput struct {
	OptionIndex *int `json:"option_index" validate:"required,gte=0"`
}

// OpenLesson godoc
// @Summary Focus a lesson
// @Description Starts the engagement timer for text and video lessons and cancels the previous lesson's.
// @Tags lessons
// @Produce json
// @Param id path int true "Course ID"
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/lessons/{lessonId}/open [post]
func (lc *LessonsController) OpenLesson(c *fiber.Ctx) error {
	userID, courseID, lessonID, err := lessonParams(c, lc.Cfg)
	if err != nil {
		return utils.AppError(c, err)
	}

	state, err := lc.Svc.OpenLesson(c.UserContext(), userID, courseID, lessonID)
	if err != nil {
		return utils.AppError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, state)
}

func (lc *LessonsController) GetReadiness(c *fiber.Ctx) error {
	userID, courseID, lessonID, err := lessonParams(c, lc.Cfg)
	if err != nil {
		return utils.AppError(c, err)
	}

	state, err := lc.Svc.Readiness(c.UserContext(), userID, courseID, lessonID)
	if err != nil {
		return utils.AppError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, state)
}

// CompleteLesson godoc
// @Summary Mark a lesson complete
// @Description Records the completion and returns the new course percentage. A repeat call answers 409.
// @Tags lessons
// @Produce json
// @Param id path int true "Course ID"
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/lessons/{lessonId}/complete [post]
func (lc *LessonsController) CompleteLesson(c *fiber.Ctx) error {
	userID, courseID, lessonID, err := lessonParams(c, lc.Cfg)
	if err != nil {
		return utils.AppError(c, err)
	}

	res, err := lc.Svc.MarkLessonComplete(c.UserContext(), userID, courseID, lessonID)
	if err != nil {
		if apperr.IsPartial(err) && res != nil {
			return utils.AppError(c, err, fiber.Map{"completed_lesson_ids": res.CompletedLessonIDs})
		}
		return utils.AppError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, res)
}

func (lc *LessonsController) GetQuiz(c *fiber.Ctx) error {
	userID, courseID, lessonID, err := lessonParams(c, lc.Cfg)
	if err != nil {
		return utils.AppError(c, err)
	}

	view, err := lc.Svc.GetQuizState(c.UserContext(), userID, courseID, lessonID)
	if err != nil {
		return utils.AppError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, view)
}

func (lc *LessonsController) StartQuiz(c *fiber.Ctx) error {
	userID, courseID, lessonID, err := lessonParams(c, lc.Cfg)
	if err != nil {
		return utils.AppError(c, err)
	}

	view, err := lc.Svc.StartQuiz(c.UserContext(), userID, courseID, lessonID)
	if err != nil {
		return utils.AppError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, view)
}

// AnswerQuiz godoc
// @Summary Answer a quiz lesson
// @Description The first answer locks; later answers return the locked result.
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param lessonId path int true "Lesson ID"
// @Param input body AnswerInput true "Selected option"
// @Success 200 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/lessons/{lessonId}/quiz/answer [post]
func (lc *LessonsController) AnswerQuiz(c *fiber.Ctx) error {
	userID, courseID, lessonID, err := lessonParams(c, lc.Cfg)
	if err != nil {
		return utils.AppError(c, err)
	}

	var input AnswerInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		if fields := utils.FieldErrors(err); fields != nil {
			return utils.ValidationError(c, fields)
		}
		return utils.BadRequest(c, err.Error())
	}

	res, err := lc.Svc.AnswerQuiz(c.UserContext(), userID, courseID, lessonID, *input.OptionIndex)
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) && ae.Code == "invalid_option" {
			return utils.ValidationError(c, map[string]string{"option_index": err.Error()})
		}
		return utils.AppError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, res)
}
