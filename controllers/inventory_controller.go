package controllers

import (
	"net/http"
	"strconv"

	"order-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryController struct {
	inventoryService services.InventoryService
}

func NewInventoryController(inventoryService services.InventoryService) *InventoryController {
	return &InventoryController{
		inventoryService: inventoryService,
	}
}

// CheckStock reports whether the requested quantity of a variant is available
func (ic *InventoryController) CheckStock(ctx *gin.Context) {
	variantID, ok := parseVariantID(ctx)
	if !ok {
		return
	}

	quantity := 1
	if q, err := strconv.Atoi(ctx.DefaultQuery("quantity", "1")); err == nil && q > 0 {
		quantity = q
	}

	inStock, err := ic.inventoryService.IsInStock(ctx.Request.Context(), variantID, quantity)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check stock"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"variant_id": variantID, "quantity": quantity, "in_stock": inStock})
}

// GetStockLevels returns on-hand and reserved quantities for a variant (admin only)
func (ic *InventoryController) GetStockLevels(ctx *gin.Context) {
	variantID, ok := parseVariantID(ctx)
	if !ok {
		return
	}

	onHand, err := ic.inventoryService.GetQuantityOnHand(ctx.Request.Context(), variantID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock levels"})
		return
	}
	reserved, err := ic.inventoryService.GetReservedQuantity(ctx.Request.Context(), variantID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock levels"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"variant_id":        variantID,
		"quantity_on_hand":  onHand,
		"reserved_quantity": reserved,
	})
}

type createInventoryRequest struct {
	VariantID        uuid.UUID `json:"variant_id" binding:"required"`
	InitialQuantity  int       `json:"initial_quantity" binding:"min=0"`
	ReorderThreshold int       `json:"reorder_threshold" binding:"min=0"`
}

// CreateInventory provisions an inventory record for a new variant (admin only)
func (ic *InventoryController) CreateInventory(ctx *gin.Context) {
	var req createInventoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if serviceErr := ic.inventoryService.CreateInventoryForVariant(
		ctx.Request.Context(), req.VariantID, req.InitialQuantity, req.ReorderThreshold,
	); serviceErr != nil {
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Inventory created"})
}

type updateQuantityRequest struct {
	Quantity int               `json:"quantity" binding:"required,min=0"`
	Operator services.Operator `json:"operator" binding:"required"`
}

// UpdateQuantity adjusts a variant's stock with add, subtract or set (admin only)
func (ic *InventoryController) UpdateQuantity(ctx *gin.Context) {
	variantID, ok := parseVariantID(ctx)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	switch req.Operator {
	case services.OperatorAdd, services.OperatorSubtract, services.OperatorSet:
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Operator must be one of add, subtract, set"})
		return
	}

	if serviceErr := ic.inventoryService.UpdateQuantity(
		ctx.Request.Context(), variantID, req.Quantity, req.Operator,
	); serviceErr != nil {
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Inventory updated"})
}

func parseVariantID(ctx *gin.Context) (uuid.UUID, bool) {
	variantID, err := uuid.Parse(ctx.Param("variantId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid variant ID format"})
		return uuid.Nil, false
	}
	return variantID, true
}
