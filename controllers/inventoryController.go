package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopdesk-backend/middlewares"
	"shopdesk-backend/models"
	"shopdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultExpiryWindowDays = 30
	alertCacheTTL           = 30 * time.Second
)

type InventoryInput struct {
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description"`
	SKU          string  `json:"sku"`
	Quantity     int     `json:"quantity" validate:"gte=0"`
	UnitPrice    float64 `json:"unit_price" validate:"gte=0"`
	CostPrice    float64 `json:"cost_price" validate:"gte=0"`
	CategoryID   *uint   `json:"category_id"`
	ExpiryDate   string  `json:"expiry_date"`
	ReorderLevel *int    `json:"reorder_level" validate:"omitempty,gte=0"`
	Manufacturer string  `json:"manufacturer"`
	BatchNumber  string  `json:"batch_number"`
	Location     string  `json:"location"`
}

// InventoryPatch is the partial-update structure: every field optional, only
// non-nil fields reach the UPDATE.
type InventoryPatch struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	SKU          *string  `json:"sku"`
	UnitPrice    *float64 `json:"unit_price"`
	CostPrice    *float64 `json:"cost_price"`
	CategoryID   *uint    `json:"category_id"`
	ExpiryDate   *string  `json:"expiry_date"`
	ReorderLevel *int     `json:"reorder_level"`
	Manufacturer *string  `json:"manufacturer"`
	BatchNumber  *string  `json:"batch_number"`
	Location     *string  `json:"location"`
}

func (h *Controller) CreateInventoryItem(c *fiber.Ctx) error {
	var input InventoryInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	item := models.InventoryItem{
		Name:         input.Name,
		Description:  input.Description,
		SKU:          input.SKU,
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		CostPrice:    input.CostPrice,
		CategoryID:   input.CategoryID,
		ReorderLevel: 10,
		Manufacturer: input.Manufacturer,
		BatchNumber:  input.BatchNumber,
		Location:     input.Location,
	}
	if input.ReorderLevel != nil {
		item.ReorderLevel = *input.ReorderLevel
	}
	if input.ExpiryDate != "" {
		d, err := time.Parse(dateLayout, input.ExpiryDate)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "expiry_date must be YYYY-MM-DD")
		}
		dd := datatypes.Date(d)
		item.ExpiryDate = &dd
	}

	if err := h.db(c).Create(&item).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

func (h *Controller) GetInventory(c *fiber.Ctx) error {
	q := h.db(c).Model(&models.InventoryItem{}).Preload("Category")

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR sku ILIKE ? OR manufacturer ILIKE ?", like, like, like)
	}
	if category := c.QueryInt("category"); category > 0 {
		q = q.Where("category_id = ?", category)
	}
	if c.QueryBool("lowStock") {
		q = q.Where("quantity <= reorder_level AND reorder_level > 0")
	}

	var items []models.InventoryItem
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

func (h *Controller) GetInventoryItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid inventory id")
	}

	var item models.InventoryItem
	if err := h.db(c).Preload("Category").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "inventory item not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *Controller) UpdateInventoryItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid inventory id")
	}

	var patch InventoryPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&patch)

	if patch.ExpiryDate != nil && *patch.ExpiryDate != "" {
		if _, err := time.Parse(dateLayout, *patch.ExpiryDate); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "expiry_date must be YYYY-MM-DD")
		}
	}
	if patch.ReorderLevel != nil && *patch.ReorderLevel < 0 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "reorder_level must not be negative")
	}
	if patch.UnitPrice != nil && *patch.UnitPrice < 0 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "unit_price must not be negative")
	}

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	tx := h.db(c)
	res := tx.Model(&models.InventoryItem{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "inventory item not found")
	}

	var item models.InventoryItem
	if err := tx.Preload("Category").First(&item, id).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *Controller) DeleteInventoryItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid inventory id")
	}

	res := h.db(c).Delete(&models.InventoryItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "inventory item not found")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Inventory item deleted successfully"})
}

type stockUpdateRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// UpdateStock sets an absolute quantity (not a delta) on one inventory row.
func (h *Controller) UpdateStock(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid inventory id")
	}

	var req stockUpdateRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	tx := h.db(c)
	res := tx.Model(&models.InventoryItem{}).Where("id = ?", id).Update("quantity", *req.Quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "inventory item not found")
	}

	var item models.InventoryItem
	if err := tx.First(&item, id).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Stock updated successfully", "data": item})
}

// GetLowStock lists rows at or below their reorder level, most critically
// low first (smallest quantity/reorder_level ratio). Rows with a zero
// reorder level are excluded to keep the ratio defined.
func (h *Controller) GetLowStock(c *fiber.Ctx) error {
	const key = "alerts:lowstock"
	if blob, ok, _ := h.Cache.Get(c.UserContext(), key); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(blob)
	}

	var items []models.InventoryItem
	err := h.db(c).
		Where("quantity <= reorder_level AND reorder_level > 0").
		Order("(quantity * 1.0) / reorder_level ASC").
		Find(&items).Error
	if err != nil {
		return err
	}

	return h.sendCached(c, key, fiber.Map{"success": true, "data": items})
}

// GetExpiring lists rows whose expiry date falls within [today, today+N]
// inclusive, soonest first. N comes from the days query param, default 30;
// already-expired rows are excluded.
func (h *Controller) GetExpiring(c *fiber.Ctx) error {
	days := utils.ParseIntDefault(c.Query("days"), defaultExpiryWindowDays)

	key := fmt.Sprintf("alerts:expiring:%d", days)
	if blob, ok, _ := h.Cache.Get(c.UserContext(), key); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(blob)
	}

	today := h.now().Format(dateLayout)
	until := h.now().AddDate(0, 0, days).Format(dateLayout)

	var items []models.InventoryItem
	err := h.db(c).
		Where("expiry_date IS NOT NULL AND expiry_date >= ? AND expiry_date <= ?", today, until).
		Order("expiry_date ASC").
		Find(&items).Error
	if err != nil {
		return err
	}

	return h.sendCached(c, key, fiber.Map{"success": true, "data": items})
}

// sendCached writes the JSON response and stores the payload for the alert
// views. Cache failures are ignored; the response already succeeded.
func (h *Controller) sendCached(c *fiber.Ctx, key string, payload fiber.Map) error {
	blob, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_ = h.Cache.Set(c.UserContext(), key, blob, alertCacheTTL)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(blob)
}
