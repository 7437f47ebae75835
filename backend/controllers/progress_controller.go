package controllers

import (
	"coursetrack/backend/config"
	"coursetrack/backend/progress"
	"coursetrack/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ProgressController struct {
	Svc *progress.Service
	Cfg *config.Config
}

func NewProgressController(svc *progress.Service, cfg *config.Config) *ProgressController {
	return &ProgressController{Svc: svc, Cfg: cfg}
}

// GetProgressOverview godoc
// @Summary Get progress overview
// @Description Returns enrollment and completion totals plus recent activity
// @Tags progress
// @Produce json
// @Param limit query int false "Recent activity entries"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/overview [get]
func (pc *ProgressController) GetProgressOverview(c *fiber.Ctx) error {
	userID, err := learnerID(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	overview, err := pc.Svc.Overview(c.UserContext(), userID)
	if err != nil {
		return utils.AppError(c, err)
	}

	recent, err := pc.Svc.RecentActivity(c.UserContext(), userID, c.QueryInt("limit", 10))
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"overview":        overview,
		"recent_activity": recent,
	})
}
