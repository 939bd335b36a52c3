package services

import (
	"context"
	"time"

	apperrors "order-service/errors"
	"order-service/models"
	"order-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Operator selects how UpdateQuantity applies a quantity change.
type Operator string

const (
	// OperatorAdd restocks: quantity on hand goes up.
	OperatorAdd Operator = "add"
	// OperatorSubtract finalizes a sale: the reserved hold is consumed
	// permanently, quantity on hand is untouched (it was already decremented
	// when the stock was reserved).
	OperatorSubtract Operator = "subtract"
	// OperatorSet replaces quantity on hand outright (admin edits).
	OperatorSet Operator = "set"
)

const (
	maxUpdateAttempts  = 3
	updateRetryBackoff = 100 * time.Millisecond
)

// InventoryService is the inventory ledger: every mutation goes through an
// optimistic-concurrency loop so concurrent order placement cannot lose
// updates or oversell.
type InventoryService interface {
	IsInStock(ctx context.Context, variantID uuid.UUID, quantity int) (bool, error)
	ReserveStock(ctx context.Context, variantID uuid.UUID, quantity int) *apperrors.Error
	ReleaseStock(ctx context.Context, variantID uuid.UUID, quantity int) *apperrors.Error
	UpdateQuantity(ctx context.Context, variantID uuid.UUID, quantity int, op Operator) *apperrors.Error
	GetQuantityOnHand(ctx context.Context, variantID uuid.UUID) (int, error)
	GetReservedQuantity(ctx context.Context, variantID uuid.UUID) (int, error)
	CreateInventoryForVariant(ctx context.Context, variantID uuid.UUID, initialQuantity, reorderThreshold int) *apperrors.Error
}

type inventoryServiceImpl struct {
	repo   repository.InventoryRepository
	logger *zap.Logger
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(repo repository.InventoryRepository, logger *zap.Logger) InventoryService {
	return &inventoryServiceImpl{repo: repo, logger: logger}
}

// IsInStock reports whether the variant has at least quantity units on hand.
func (s *inventoryServiceImpl) IsInStock(ctx context.Context, variantID uuid.UUID, quantity int) (bool, error) {
	inv, err := s.repo.GetByVariantID(ctx, variantID)
	if err != nil {
		return false, err
	}
	return inv != nil && inv.QuantityOnHand >= quantity, nil
}

// ReserveStock places a hold: reserved goes up by quantity, on-hand goes down
// (floored at zero). Fails with OutOfStock when the variant has no record or
// not enough stock at write time.
func (s *inventoryServiceImpl) ReserveStock(ctx context.Context, variantID uuid.UUID, quantity int) *apperrors.Error {
	return s.mutate(ctx, variantID,
		func() *apperrors.Error {
			return apperrors.OutOfStock("Insufficient stock available.")
		},
		func(inv *models.Inventory) *apperrors.Error {
			if inv.QuantityOnHand < quantity {
				return apperrors.OutOfStock("Insufficient stock available.")
			}
			inv.ReservedQuantity += quantity
			inv.QuantityOnHand = maxInt(0, inv.QuantityOnHand-quantity)
			return nil
		})
}

// ReleaseStock is the inverse of a reservation: on-hand goes back up, reserved
// goes down (floored at zero). Releasing a variant with no inventory record is
// a no-op, which keeps compensation paths idempotent.
func (s *inventoryServiceImpl) ReleaseStock(ctx context.Context, variantID uuid.UUID, quantity int) *apperrors.Error {
	return s.mutate(ctx, variantID,
		func() *apperrors.Error { return nil },
		func(inv *models.Inventory) *apperrors.Error {
			inv.QuantityOnHand += quantity
			inv.ReservedQuantity = maxInt(0, inv.ReservedQuantity-quantity)
			return nil
		})
}

// UpdateQuantity applies a direct quantity adjustment (see Operator values).
// Fails with NotFound when the variant has no inventory record.
func (s *inventoryServiceImpl) UpdateQuantity(ctx context.Context, variantID uuid.UUID, quantity int, op Operator) *apperrors.Error {
	return s.mutate(ctx, variantID,
		func() *apperrors.Error {
			return apperrors.NotFound("Inventory record not found for variant %s", variantID)
		},
		func(inv *models.Inventory) *apperrors.Error {
			switch op {
			case OperatorAdd:
				inv.QuantityOnHand += quantity
			case OperatorSubtract:
				inv.ReservedQuantity = maxInt(0, inv.ReservedQuantity-quantity)
			case OperatorSet:
				inv.QuantityOnHand = quantity
			default:
				return apperrors.BadRequest("unknown quantity operator %q", op)
			}
			return nil
		})
}

// GetQuantityOnHand returns the sellable quantity, 0 if no record exists.
func (s *inventoryServiceImpl) GetQuantityOnHand(ctx context.Context, variantID uuid.UUID) (int, error) {
	inv, err := s.repo.GetByVariantID(ctx, variantID)
	if err != nil {
		return 0, err
	}
	if inv == nil {
		return 0, nil
	}
	return inv.QuantityOnHand, nil
}

// GetReservedQuantity returns the held quantity, 0 if no record exists.
func (s *inventoryServiceImpl) GetReservedQuantity(ctx context.Context, variantID uuid.UUID) (int, error) {
	inv, err := s.repo.GetByVariantID(ctx, variantID)
	if err != nil {
		return 0, err
	}
	if inv == nil {
		return 0, nil
	}
	return inv.ReservedQuantity, nil
}

// CreateInventoryForVariant seeds the ledger when a variant is created.
func (s *inventoryServiceImpl) CreateInventoryForVariant(ctx context.Context, variantID uuid.UUID, initialQuantity, reorderThreshold int) *apperrors.Error {
	inv := &models.Inventory{
		VariantID:        variantID,
		QuantityOnHand:   initialQuantity,
		ReservedQuantity: 0,
		ReorderThreshold: reorderThreshold,
		IsReorderNeeded:  initialQuantity < reorderThreshold,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return apperrors.Internal("Failed to create inventory record", err)
	}
	return nil
}

// mutate is the compute-and-CAS loop behind every ledger write: load the
// record with its version token, apply the change, attempt the conditional
// write, and on a version mismatch reload and redo the whole step. After
// maxUpdateAttempts misses the caller gets OutOfStock rather than a silent
// lost update or an unbounded wait.
func (s *inventoryServiceImpl) mutate(
	ctx context.Context,
	variantID uuid.UUID,
	onMissing func() *apperrors.Error,
	compute func(inv *models.Inventory) *apperrors.Error,
) *apperrors.Error {
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		inv, err := s.repo.GetByVariantID(ctx, variantID)
		if err != nil {
			return apperrors.Internal("Failed to load inventory record", err)
		}
		if inv == nil {
			return onMissing()
		}

		if appErr := compute(inv); appErr != nil {
			return appErr
		}
		inv.IsReorderNeeded = inv.QuantityOnHand < inv.ReorderThreshold

		ok, err := s.repo.CompareAndSwap(ctx, inv)
		if err != nil {
			return apperrors.Internal("Failed to update inventory record", err)
		}
		if ok {
			return nil
		}

		s.logger.Debug("inventory version conflict, retrying",
			zap.String("variant_id", variantID.String()),
			zap.Int("attempt", attempt),
		)
		select {
		case <-ctx.Done():
			return apperrors.Internal("Inventory update cancelled", ctx.Err())
		case <-time.After(updateRetryBackoff):
		}
	}

	return apperrors.OutOfStock("The inventory has been updated by another process. Please try again.")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
