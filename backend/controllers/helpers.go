package controllers

import (
	"coursetrack/backend/config"
	"coursetrack/backend/middleware"
	"coursetrack/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// learnerID returns the id AuthMiddleware stored, falling back to the
// bearer token for handlers mounted without it.
func learnerID(c *fiber.Ctx, cfg *config.Config) (uint, error) {
	if id, ok := c.Locals(middleware.LocalUserID).(uint); ok && id > 0 {
		return id, nil
	}
	return utils.ExtractUserIDFromToken(c, cfg)
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// courseParams resolves the learner and the :id course parameter. Errors
// are *fiber.Error values carrying their status.
func courseParams(c *fiber.Ctx, cfg *config.Config) (learner, course uint, err error) {
	if learner, err = learnerID(c, cfg); err != nil {
		return 0, 0, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	if course, err = paramID(c, "id"); err != nil {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid course ID")
	}
	return learner, course, nil
}

// lessonParams is courseParams plus the :lessonId parameter.
func lessonParams(c *fiber.Ctx, cfg *config.Config) (learner, course, lesson uint, err error) {
	if learner, course, err = courseParams(c, cfg); err != nil {
		return 0, 0, 0, err
	}
	if lesson, err = paramID(c, "lessonId"); err != nil {
		return 0, 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid lesson ID")
	}
	return learner, course, lesson, nil
}
