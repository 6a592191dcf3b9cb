package database

import (
	"fmt"

	"shopdesk-backend/models"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - Money column types (NUMERIC(12,2))
// - Foreign key: invoice_items.inventory_id → inventory.id (RESTRICT)
// - Basic CHECK constraints (non-negative stock/prices, positive item quantity)
func Migrate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Category{},
			&models.Customer{},
			&models.InventoryItem{},
			&models.Invoice{},
			&models.InvoiceItem{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE inventory      ALTER COLUMN unit_price      TYPE numeric(12,2)`,
			`ALTER TABLE inventory      ALTER COLUMN cost_price      TYPE numeric(12,2)`,
			`ALTER TABLE customers      ALTER COLUMN total_purchases TYPE numeric(12,2)`,
			`ALTER TABLE invoices       ALTER COLUMN total_amount    TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items  ALTER COLUMN unit_price      TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items  ALTER COLUMN discount_amount TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items  ALTER COLUMN gst_amount      TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items  ALTER COLUMN total           TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Foreign key: invoice_items.inventory_id -> inventory.id (RESTRICT/RESTRICT) ---
		fk := `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1
		FROM pg_constraint
		WHERE conrelid = 'invoice_items'::regclass
		  AND conname  = 'fk_invoice_items_inventory'
	) THEN
		ALTER TABLE invoice_items
		ADD CONSTRAINT fk_invoice_items_inventory
		FOREIGN KEY (inventory_id)
		REFERENCES inventory(id)
		ON UPDATE RESTRICT
		ON DELETE RESTRICT;
	END IF;
END $$;`
		if err := tx.Exec(fk).Error; err != nil {
			return fmt.Errorf("foreign key migration failed: %w", err)
		}

		// --- Basic CHECK constraints (idempotent) ---
		// The quantity check is the store-level last line of defense; the
		// decrement path already refuses to go below zero.
		checks := []string{
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'inventory'::regclass
					  AND conname  = 'chk_inventory_quantity_nonneg'
				) THEN
					ALTER TABLE inventory
					ADD CONSTRAINT chk_inventory_quantity_nonneg
					CHECK (quantity >= 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'inventory'::regclass
					  AND conname  = 'chk_inventory_unit_price_nonneg'
				) THEN
					ALTER TABLE inventory
					ADD CONSTRAINT chk_inventory_unit_price_nonneg
					CHECK (unit_price >= 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoice_items'::regclass
					  AND conname  = 'chk_invoice_items_quantity_pos'
				) THEN
					ALTER TABLE invoice_items
					ADD CONSTRAINT chk_invoice_items_quantity_pos
					CHECK (quantity > 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoices'::regclass
					  AND conname  = 'chk_invoices_status'
				) THEN
					ALTER TABLE invoices
					ADD CONSTRAINT chk_invoices_status
					CHECK (status IN ('pending', 'paid', 'cancelled'));
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
