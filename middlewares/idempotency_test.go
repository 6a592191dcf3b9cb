package middlewares

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"shopdesk-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func idempotencyTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.IdempotencyKey{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func idempotentApp(db *gorm.DB, calls *int) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", "user-1")
		return c.Next()
	})
	app.Use(Idempotency(db))
	app.Post("/things", func(c *fiber.Ctx) error {
		*calls++
		return c.JSON(fiber.Map{"success": true, "call": *calls})
	})
	return app
}

func keyedPost(t *testing.T, app *fiber.App, key, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/things", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(blob)
}

// Retrying the same keyed request must replay the stored response without
// running the handler a second time.
func TestIdempotencyReplaysWithoutRerunningHandler(t *testing.T) {
	db := idempotencyTestDB(t)
	var calls int
	app := idempotentApp(db, &calls)

	status1, body1 := keyedPost(t, app, "k-1", `{"x":1}`)
	status2, body2 := keyedPost(t, app, "k-1", `{"x":1}`)

	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
	if status2 != status1 {
		t.Errorf("replayed status = %d, want %d", status2, status1)
	}
	if body2 != body1 {
		t.Errorf("replayed body = %s, want %s", body2, body1)
	}

	// The stored record must keep the first response.
	var rec models.IdempotencyKey
	if err := db.Where("key = ?", "k-1").First(&rec).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}
	if string(rec.ResponseBody) != body1 {
		t.Errorf("stored body = %s, want %s", rec.ResponseBody, body1)
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentRequest(t *testing.T) {
	db := idempotencyTestDB(t)
	var calls int
	app := idempotentApp(db, &calls)

	keyedPost(t, app, "k-1", `{"x":1}`)
	status, _ := keyedPost(t, app, "k-1", `{"x":2}`)

	if status != fiber.StatusConflict {
		t.Errorf("status = %d, want 409", status)
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}

func TestIdempotencySkipsUnkeyedRequests(t *testing.T) {
	db := idempotencyTestDB(t)
	var calls int
	app := idempotentApp(db, &calls)

	keyedPost(t, app, "", `{"x":1}`)
	keyedPost(t, app, "", `{"x":1}`)

	if calls != 2 {
		t.Errorf("handler calls = %d, want 2", calls)
	}
}
