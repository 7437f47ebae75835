package controllers

import (
	"coursetrack/backend/config"
	"coursetrack/backend/progress"
	"coursetrack/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CoursesController struct {
	Svc *progress.Service
	Cfg *config.Config
}

func NewCoursesController(svc *progress.Service, cfg *config.Config) *CoursesController {
	return &CoursesController{Svc: svc, Cfg: cfg}
}

// GetUserCourses godoc
// @Summary List the learner's enrollments
// @Tags courses
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} utils.PaginatedResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [get]
func (cc *CoursesController) GetUserCourses(c *fiber.Ctx) error {
	userID, err := learnerID(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	enrollments, total, err := cc.Svc.ListEnrollments(c.UserContext(), userID, page, pageSize)
	if err != nil {
		return utils.AppError(c, err)
	}
	return utils.Paginate(c, enrollments, total, page, pageSize)
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/enroll [post]
func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	userID, courseID, err := courseParams(c, cc.Cfg)
	if err != nil {
		return utils.AppError(c, err)
	}

	enrollment, err := cc.Svc.Enroll(c.UserContext(), userID, courseID)
	if err != nil {
		return utils.AppError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, enrollment)
}

// GetCourseProgress godoc
// @Summary Enrollment progress and completed lessons
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/progress [get]
func (cc *CoursesController) GetCourseProgress(c *fiber.Ctx) error {
	userID, courseID, err := courseParams(c, cc.Cfg)
	if err != nil {
		return utils.AppError(c, err)
	}

	p, err := cc.Svc.GetCourseProgress(c.UserContext(), userID, courseID)
	if err != nil {
		return utils.AppError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, p)
}

// RecomputeProgress is the retry path after a partial completion.
func (cc *CoursesController) RecomputeProgress(c *fiber.Ctx) error {
	userID, courseID, err := courseParams(c, cc.Cfg)
	if err != nil {
		return utils.AppError(c, err)
	}

	p, err := cc.Svc.Recompute(c.UserContext(), userID, courseID)
	if err != nil {
		return utils.AppError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, p)
}

func (cc *CoursesController) GetCompletedLessons(c *fiber.Ctx) error {
	userID, courseID, err := courseParams(c, cc.Cfg)
	if err != nil {
		return utils.AppError(c, err)
	}

	ids, err := cc.Svc.GetCompletedLessons(c.UserContext(), userID, courseID)
	if err != nil {
		return utils.AppError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"completed_lesson_ids": ids})
}
