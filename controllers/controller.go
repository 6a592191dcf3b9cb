package controllers

import (
	"time"

	"shopdesk-backend/cache"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Controller bundles the injected resources every handler needs. The DB
// handle and cache are constructed in main and passed in; nothing here is
// package-global.
type Controller struct {
	DB    *gorm.DB
	Cache cache.Cache

	// now is the clock used for default invoice dates and expiry windows.
	now func() time.Time
}

func New(db *gorm.DB, c cache.Cache) *Controller {
	if c == nil {
		c = cache.Noop{}
	}
	return &Controller{DB: db, Cache: c, now: time.Now}
}

// db returns the per-request transaction when the Tx middleware opened one,
// else the shared handle (read-only routes).
func (h *Controller) db(c *fiber.Ctx) *gorm.DB {
	if tx, ok := c.Locals("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return h.DB.WithContext(c.UserContext())
}
