package controllers

import (
	"shopdesk-backend/middlewares"
	"shopdesk-backend/models"
	"shopdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Controller) CreateCategory(c *fiber.Ctx) error {
	var input CategoryInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	category := models.Category{Name: input.Name, Description: input.Description}
	if err := h.db(c).Create(&category).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": category})
}

func (h *Controller) GetCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.db(c).Order("name ASC").Find(&categories).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": categories})
}

func (h *Controller) UpdateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category id")
	}

	var patch CategoryPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&patch)

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	tx := h.db(c)
	res := tx.Model(&models.Category{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "category not found")
	}

	var category models.Category
	if err := tx.First(&category, id).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": category})
}

func (h *Controller) DeleteCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category id")
	}

	res := h.db(c).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "category not found")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Category deleted successfully"})
}
