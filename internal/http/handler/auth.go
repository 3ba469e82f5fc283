package handler

import (
	"github.com/gofiber/fiber/v2"

	"hatchops/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
//
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "credentials"
// @Success 200 {object} service.Token
// @Failure 401 {object} errorPayload
// @Router /api/v1/auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in loginRequest
		if err := parseBody(c, &in); err != nil {
			return respond(c, err)
		}
		tok, err := svc.Login(c.UserContext(), in.Email, in.Password)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(tok)
	}
}

// Me returns the authenticated caller.
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(fiber.Map{"user_id": a.UserID, "role": a.Role})
	}
}
