package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khojapp/khoj-server/internal/services"
)

type CampusHandler struct {
	colleges *services.CollegeService
}

func NewCampusHandler(colleges *services.CollegeService) *CampusHandler {
	return &CampusHandler{colleges: colleges}
}

// List returns the seeded college directory, sorted by name. Public.
func (h *CampusHandler) List(c *fiber.Ctx) error {
	colleges, err := h.colleges.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(colleges)
}
