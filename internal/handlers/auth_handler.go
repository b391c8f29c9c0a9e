package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khojapp/khoj-server/internal/apperr"
	"github.com/khojapp/khoj-server/internal/middleware"
	"github.com/khojapp/khoj-server/internal/services"
	"github.com/khojapp/khoj-server/internal/validation"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in services.SignupInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("", "Invalid request body")
	}
	if err := validation.Struct(in); err != nil {
		return err
	}

	token, user, err := h.auth.Signup(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("", "Invalid request body")
	}
	if err := validation.Struct(in); err != nil {
		return err
	}

	token, user, err := h.auth.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Me returns the live profile of the authenticated user.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.RequestUser(c))
}
