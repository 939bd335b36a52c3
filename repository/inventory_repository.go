package repository

import (
	"context"
	"errors"

	"order-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryRepository is the storage contract for the inventory ledger.
// CompareAndSwap is the only write primitive for existing records: it applies
// the record's current field values conditionally on the stored version token
// still matching, so two concurrent writers can never both win.
type InventoryRepository interface {
	Create(ctx context.Context, inv *models.Inventory) error
	GetByVariantID(ctx context.Context, variantID uuid.UUID) (*models.Inventory, error)
	CompareAndSwap(ctx context.Context, inv *models.Inventory) (bool, error)
}

// GormInventoryRepository implements InventoryRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new instance of GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) InventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Create inserts a new inventory record for a variant
func (r *GormInventoryRepository) Create(ctx context.Context, inv *models.Inventory) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

// GetByVariantID returns the inventory record for a variant, or nil if no
// record exists.
func (r *GormInventoryRepository) GetByVariantID(ctx context.Context, variantID uuid.UUID) (*models.Inventory, error) {
	var inv models.Inventory

	err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &inv, nil
}

// CompareAndSwap writes the quantity fields of inv, succeeding only if the
// stored version still equals inv.Version. On success the stored version is
// incremented and true is returned; a version mismatch returns false with no
// write.
func (r *GormInventoryRepository) CompareAndSwap(ctx context.Context, inv *models.Inventory) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("id = ? AND version = ?", inv.ID, inv.Version).
		Updates(map[string]interface{}{
			"quantity_on_hand":  inv.QuantityOnHand,
			"reserved_quantity": inv.ReservedQuantity,
			"is_reorder_needed": inv.IsReorderNeeded,
			"version":           inv.Version + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}
