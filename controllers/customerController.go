package controllers

import (
	"errors"

	"shopdesk-backend/middlewares"
	"shopdesk-backend/models"
	"shopdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CustomerInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type CustomerPatch struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (h *Controller) CreateCustomer(c *fiber.Ctx) error {
	var input CustomerInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	customer := models.Customer{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
	}
	if err := h.db(c).Create(&customer).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Customer created successfully",
		"data":    customer,
	})
}

func (h *Controller) GetCustomers(c *fiber.Ctx) error {
	var customers []models.Customer
	if err := h.db(c).Order("created_at DESC").Find(&customers).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": customers})
}

func (h *Controller) GetCustomer(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
	}

	var customer models.Customer
	if err := h.db(c).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": customer})
}

func (h *Controller) UpdateCustomer(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
	}

	var patch CustomerPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&patch)

	if patch.Name != nil && *patch.Name == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "name must not be empty")
	}

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	tx := h.db(c)
	res := tx.Model(&models.Customer{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "customer not found")
	}

	var customer models.Customer
	if err := tx.First(&customer, id).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": customer})
}

func (h *Controller) DeleteCustomer(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
	}

	res := h.db(c).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "customer not found")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Customer deleted successfully"})
}
