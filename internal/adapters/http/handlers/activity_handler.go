package handlers

import (
	"sipinjam/internal/adapters/persistence/repositories"
	"sipinjam/internal/pkg/pagination"
	"sipinjam/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ActivityHandler exposes the audit trail
type ActivityHandler struct {
	activityRepo *repositories.ActivityRepository
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityRepo *repositories.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{activityRepo: activityRepo}
}

// List returns activity records newest first
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	action := c.Query("action")

	activities, total, err := h.activityRepo.List(c.Context(), params, action)
	if err != nil {
		return response.InternalServerError(c, "Failed to list activities")
	}

	return response.Paginated(c, "Activities retrieved", activities, pagination.GetMeta(params, total))
}
