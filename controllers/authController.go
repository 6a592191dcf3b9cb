package controllers

import (
	"errors"

	"shopdesk-backend/middlewares"
	"shopdesk-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	Role            string `json:"role" validate:"omitempty,oneof=admin staff"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Controller) Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	if input.Password != input.PasswordConfirm {
		return fiber.NewError(fiber.StatusBadRequest, "passwords do not match")
	}

	tx := h.db(c)

	var existing models.User
	err := tx.Where("username = ? OR email = ?", input.Username, input.Email).First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "username or email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	role := input.Role
	if role == "" {
		role = "staff"
	}
	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Role:     role,
	}
	user.SetPassword(input.Password)

	if err := tx.Create(&user).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": user})
}

func (h *Controller) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	var user models.User
	if err := h.db(c).Where("username = ?", input.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}
	if err := user.ComparePassword(input.Password); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := middlewares.GenerateJWT(user.Id, user.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"token": token, "user": user},
	})
}

// Logout exists for API symmetry; bearer tokens are stateless, so the
// client just drops its copy.
func (h *Controller) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "message": "logged out"})
}
