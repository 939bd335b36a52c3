package controllers

import (
	"net/http"
	"strconv"

	"order-service/middleware"
	"order-service/models"
	"order-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// GetOrderPreview returns a dry-run order with available shipping rates
func (oc *OrderController) GetOrderPreview(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	req.UserID = userID

	preview, serviceErr := oc.orderService.GetOrderPreview(ctx.Request.Context(), &req)
	if serviceErr != nil {
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, preview)
}

// CreateOrder handles order creation requests
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	req.UserID = userID

	order, serviceErr := oc.orderService.CreateOrder(ctx.Request.Context(), &req)
	if serviceErr != nil {
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"order": order})
}

// GetOrders returns paginated orders for the authenticated user
func (oc *OrderController) GetOrders(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, limit := parsePaginationParams(ctx)

	result, serviceErr := oc.orderService.GetUserOrders(ctx.Request.Context(), userID, page, limit)
	if serviceErr != nil {
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetAllOrders returns paginated orders for all users (admin only)
func (oc *OrderController) GetAllOrders(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	result, serviceErr := oc.orderService.GetAllOrders(ctx.Request.Context(), page, limit)
	if serviceErr != nil {
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetOrderByID returns a specific order with its items and history. Users can
// only see their own orders; admins can see any.
func (oc *OrderController) GetOrderByID(ctx *gin.Context) {
	orderID, ok := parseOrderID(ctx)
	if !ok {
		return
	}

	order, ok := oc.loadOwnedOrder(ctx, orderID)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// loadOwnedOrder fetches the order and enforces that the caller owns it or is
// an admin. A foreign order reads as not found rather than forbidden.
func (oc *OrderController) loadOwnedOrder(ctx *gin.Context, orderID uuid.UUID) (*models.Order, bool) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	order, serviceErr := oc.orderService.GetOrderByID(ctx.Request.Context(), orderID)
	if serviceErr != nil {
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return nil, false
	}

	if order.UserID != userID && ctx.GetString(middleware.RoleContextKey) != middleware.AdminRole {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	return order, true
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Notes  *string            `json:"notes"`
}

// UpdateOrderStatus applies a status transition (admin only)
func (oc *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	orderID, ok := parseOrderID(ctx)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, serviceErr := oc.orderService.UpdateOrderStatus(ctx.Request.Context(), orderID, req.Status, req.Notes)
	if serviceErr != nil {
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels an order, releasing stock and refunding captured payments
func (oc *OrderController) CancelOrder(ctx *gin.Context) {
	orderID, ok := parseOrderID(ctx)
	if !ok {
		return
	}
	if _, ok := oc.loadOwnedOrder(ctx, orderID); !ok {
		return
	}

	order, serviceErr := oc.orderService.CancelOrder(ctx.Request.Context(), orderID)
	if serviceErr != nil {
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// DeleteOrder permanently removes an order (admin only)
func (oc *OrderController) DeleteOrder(ctx *gin.Context) {
	orderID, ok := parseOrderID(ctx)
	if !ok {
		return
	}

	if serviceErr := oc.orderService.DeleteOrder(ctx.Request.Context(), orderID); serviceErr != nil {
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

// CreatePaymentIntent returns a client secret for paying a pending order
func (oc *OrderController) CreatePaymentIntent(ctx *gin.Context) {
	orderID, ok := parseOrderID(ctx)
	if !ok {
		return
	}
	if _, ok := oc.loadOwnedOrder(ctx, orderID); !ok {
		return
	}

	secret, serviceErr := oc.orderService.CreatePaymentIntent(ctx.Request.Context(), orderID)
	if serviceErr != nil {
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"client_secret": secret})
}

type checkoutSessionRequest struct {
	SuccessURL string `json:"success_url" binding:"required"`
	CancelURL  string `json:"cancel_url" binding:"required"`
}

// CreateCheckoutSession creates a hosted checkout session for a pending order
func (oc *OrderController) CreateCheckoutSession(ctx *gin.Context) {
	orderID, ok := parseOrderID(ctx)
	if !ok {
		return
	}

	if _, ok := oc.loadOwnedOrder(ctx, orderID); !ok {
		return
	}

	var req checkoutSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	sessionID, serviceErr := oc.orderService.CreateCheckoutSession(ctx.Request.Context(), orderID, req.SuccessURL, req.CancelURL)
	if serviceErr != nil {
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"session_id": sessionID})
}

func parseOrderID(ctx *gin.Context) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return uuid.Nil, false
	}
	return orderID, true
}

// parsePaginationParams extracts and validates pagination parameters
func parsePaginationParams(ctx *gin.Context) (int, int) {
	const MaxLimit = 100
	const DefaultPage = 1
	const DefaultLimit = 10

	pageInt := DefaultPage
	limitInt := DefaultLimit

	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		pageInt = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "10")); err == nil && l > 0 {
		limitInt = l
		if limitInt > MaxLimit {
			limitInt = MaxLimit
		}
	}

	return pageInt, limitInt
}
