package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"order-service/cart"
	apperrors "order-service/errors"
	"order-service/kafka"
	"order-service/models"
	"order-service/notifier"
	"order-service/payment"
	"order-service/providers"
	repositories "order-service/repository"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderItemRequest is one requested line. PriceAtPurchase comes from the
// client so what was previewed is what gets charged; it is never re-derived
// from the catalog at creation time.
type OrderItemRequest struct {
	ProductID       uuid.UUID `json:"product_id" binding:"required"`
	VariantID       uuid.UUID `json:"variant_id" binding:"required"`
	Quantity        int       `json:"quantity" binding:"required,min=1"`
	PriceAtPurchase int64     `json:"price_at_purchase" binding:"min=0"`
}

type CreateOrderRequest struct {
	UserID          uuid.UUID          `json:"-"`
	ShippingAddress models.Address     `json:"shipping_address" binding:"required"`
	BillingAddress  models.Address     `json:"billing_address" binding:"required"`
	Currency        string             `json:"currency"`
	ShippingMethod  string             `json:"shipping_method" binding:"required"`
	ShippingService string             `json:"shipping_service"`
	CouponCode      string             `json:"coupon_code"`
	Items           []OrderItemRequest `json:"items" binding:"required,dive"`
}

// OrderPreview is returned by GetOrderPreview. TotalAmount excludes shipping;
// the client picks one of AvailableShippingRates before creating the order.
type OrderPreview struct {
	OrderDate              time.Time             `json:"order_date"`
	Status                 models.OrderStatus    `json:"status"`
	ShippingAddress        models.Address        `json:"shipping_address"`
	BillingAddress         models.Address        `json:"billing_address"`
	Items                  []OrderItemRequest    `json:"items"`
	TotalAmount            int64                 `json:"total_amount"`
	UserID                 uuid.UUID             `json:"user_id"`
	AvailableShippingRates []models.ShippingRate `json:"available_shipping_rates"`
}

type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// OrderService coordinates the order lifecycle: previews, transactional
// creation with inventory reservation, status transitions, cancellation with
// compensation, and payment-webhook reconciliation.
type OrderService struct {
	orders        repositories.OrderRepository
	inventory     InventoryService
	products      ProductResolver
	carts         cart.Provider
	shipping      providers.ShippingProvider
	payments      payment.Gateway
	notifier      notifier.Notifier
	events        kafka.ProducerAPI
	warehouseAddr models.Address
	logger        *zap.Logger
}

func NewOrderService(
	orders repositories.OrderRepository,
	inventory InventoryService,
	products ProductResolver,
	carts cart.Provider,
	shipping providers.ShippingProvider,
	payments payment.Gateway,
	orderNotifier notifier.Notifier,
	events kafka.ProducerAPI,
	warehouseAddr models.Address,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:        orders,
		inventory:     inventory,
		products:      products,
		carts:         carts,
		shipping:      shipping,
		payments:      payments,
		notifier:      orderNotifier,
		events:        events,
		warehouseAddr: warehouseAddr,
		logger:        logger,
	}
}

// GetOrderPreview builds a read-only preview: it checks stock and fetches
// candidate shipping rates but reserves nothing and writes nothing.
func (s *OrderService) GetOrderPreview(ctx context.Context, req *CreateOrderRequest) (*OrderPreview, *apperrors.Error) {
	if len(req.Items) == 0 {
		return nil, apperrors.BadRequest("Order must contain at least one item.")
	}

	products, appErr := s.resolveProducts(ctx, req.Items)
	if appErr != nil {
		return nil, appErr
	}

	rateReqs := make([]models.RateRequest, 0, len(req.Items))
	var total int64
	for _, item := range req.Items {
		product := products[item.ProductID]

		inStock, err := s.inventory.IsInStock(ctx, item.VariantID, item.Quantity)
		if err != nil {
			return nil, apperrors.Internal("Failed to check stock", err)
		}
		if !inStock {
			return nil, apperrors.BadRequest("Product %q is out of stock or insufficient quantity available.", product.Name)
		}

		rateReqs = append(rateReqs, s.rateRequestFor(product, req.ShippingAddress))
		total += int64(item.Quantity) * item.PriceAtPurchase
	}

	rates, err := s.shipping.GetRates(ctx, rateReqs)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve shipping rates", err)
	}

	return &OrderPreview{
		OrderDate:              time.Now().UTC(),
		Status:                 models.OrderStatusPending,
		ShippingAddress:        req.ShippingAddress,
		BillingAddress:         req.BillingAddress,
		Items:                  req.Items,
		TotalAmount:            total,
		UserID:                 req.UserID,
		AvailableShippingRates: rates,
	}, nil
}

// CreateOrder runs the transactional create path. Stock is reserved per line
// the moment the attempt starts, then converted to a permanent deduction once
// the order persists; on any failure the transaction rolls back and every
// reservation made during the attempt is released as an independent write
// (the rolled-back transaction cannot carry its own compensation).
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, *apperrors.Error) {
	if len(req.Items) == 0 {
		return nil, apperrors.BadRequest("Order must contain at least one item.")
	}

	var order *models.Order
	reserved := make([]OrderItemRequest, 0, len(req.Items))
	subtracted := 0

	appErr := func() *apperrors.Error {
		products, appErr := s.resolveProducts(ctx, req.Items)
		if appErr != nil {
			return appErr
		}

		rateReqs := make([]models.RateRequest, 0, len(req.Items))
		for _, item := range req.Items {
			product := products[item.ProductID]

			inStock, err := s.inventory.IsInStock(ctx, item.VariantID, item.Quantity)
			if err != nil {
				return apperrors.Internal("Failed to check stock", err)
			}
			if !inStock {
				return apperrors.BadRequest("Product %q is out of stock or insufficient quantity available.", product.Name)
			}

			if e := s.inventory.ReserveStock(ctx, item.VariantID, item.Quantity); e != nil {
				return e
			}
			reserved = append(reserved, item)

			rateReqs = append(rateReqs, s.rateRequestFor(product, req.ShippingAddress))
		}

		rates, err := s.shipping.GetRates(ctx, rateReqs)
		if err != nil {
			return apperrors.Internal("Failed to retrieve shipping rates", err)
		}
		rate, e := s.selectShippingRate(rates, req.ShippingMethod, req.ShippingService)
		if e != nil {
			return e
		}

		userCart, err := s.carts.GetCart(ctx, req.UserID)
		if err != nil {
			return apperrors.Internal("Failed to load cart", err)
		}
		if userCart == nil {
			return apperrors.NotFound("Cart not found for user with ID %s.", req.UserID)
		}

		o := &models.Order{
			OrderNumber:     generateOrderNumber(),
			UserID:          req.UserID,
			OrderDate:       time.Now().UTC(),
			Status:          models.OrderStatusPending,
			Currency:        req.Currency,
			TotalAmount:     userCart.TotalPrice + rate.TotalRate,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
		}
		if req.CouponCode != "" {
			o.AppliedCouponCode = &req.CouponCode
		}

		for _, item := range req.Items {
			o.OrderItems = append(o.OrderItems, models.OrderItem{
				ProductID:       item.ProductID,
				VariantID:       item.VariantID,
				Quantity:        item.Quantity,
				PriceAtPurchase: item.PriceAtPurchase,
			})
			// the hold placed above becomes a permanent deduction
			if e := s.inventory.UpdateQuantity(ctx, item.VariantID, item.Quantity, OperatorSubtract); e != nil {
				return e
			}
			subtracted++
		}

		txErr := s.orders.Transact(ctx, func(repo repositories.OrderRepository) error {
			if err := repo.Create(ctx, o); err != nil {
				return err
			}
			note := "Order created."
			return repo.AppendHistory(ctx, &models.OrderHistory{
				OrderID:        o.ID,
				PreviousStatus: models.OrderStatusPending,
				NewStatus:      models.OrderStatusPending,
				Notes:          &note,
			})
		})
		if txErr != nil {
			return apperrors.FromError(txErr)
		}
		order = o

		// only after the transaction commits
		if err := s.carts.ClearCart(ctx, req.UserID); err != nil {
			s.logger.Warn("failed to clear cart after order creation",
				zap.String("user_id", req.UserID.String()),
				zap.Error(err),
			)
		}
		return nil
	}()

	if appErr != nil {
		// holds already converted to deductions no longer exist as
		// reservations; restocking them instead of releasing keeps other
		// in-flight orders' holds intact
		for i, item := range reserved {
			var relErr *apperrors.Error
			if i < subtracted {
				relErr = s.inventory.UpdateQuantity(ctx, item.VariantID, item.Quantity, OperatorAdd)
			} else {
				relErr = s.inventory.ReleaseStock(ctx, item.VariantID, item.Quantity)
			}
			if relErr != nil {
				s.logger.Warn("failed to release reserved stock during compensation",
					zap.String("variant_id", item.VariantID.String()),
					zap.Int("quantity", item.Quantity),
					zap.Error(relErr),
				)
			}
		}
		return nil, apperrors.BadRequest("An error occurred while processing your order. %s", appErr.Message)
	}

	if err := s.notifier.SendOrderConfirmation(ctx, order); err != nil {
		s.logger.Warn("failed to send order confirmation",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
	s.publishEvent(ctx, models.EventOrderCreated, order)

	return order, nil
}

// UpdateOrderStatus applies a transition-table-guarded status change and
// appends the matching history row atomically.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus models.OrderStatus, notes *string) (*models.Order, *apperrors.Error) {
	if !newStatus.IsValid() {
		return nil, apperrors.BadRequest("Unknown order status %q.", newStatus)
	}

	var order *models.Order
	txErr := s.orders.Transact(ctx, func(repo repositories.OrderRepository) error {
		o, err := loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if !o.Status.CanTransitionTo(newStatus) {
			return apperrors.BadRequest("Invalid order status transition from %s to %s.", o.Status, newStatus)
		}

		if err := repo.AppendHistory(ctx, &models.OrderHistory{
			OrderID:        o.ID,
			PreviousStatus: o.Status,
			NewStatus:      newStatus,
			Notes:          notes,
		}); err != nil {
			return err
		}
		if err := repo.UpdateStatus(ctx, o.ID, newStatus); err != nil {
			return err
		}

		o.Status = newStatus
		order = o
		return nil
	})
	if txErr != nil {
		return nil, apperrors.FromError(txErr)
	}

	if newStatus == models.OrderStatusShipped || newStatus == models.OrderStatusDelivered {
		if err := s.notifier.SendShippingUpdate(ctx, order, newStatus); err != nil {
			s.logger.Warn("failed to send shipping update",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
		}
	}
	s.publishEvent(ctx, models.EventOrderStatusChanged, order)

	return order, nil
}

// CancelOrder is itself a guarded transition: it releases every item's stock
// and, when payment may already have been captured, refunds the full total.
// A failed refund aborts the whole cancellation.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, *apperrors.Error) {
	var order *models.Order
	txErr := s.orders.Transact(ctx, func(repo repositories.OrderRepository) error {
		o, err := loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if o.Status == models.OrderStatusDelivered || o.Status == models.OrderStatusCancelled {
			return apperrors.BadRequest("Order cannot be cancelled in its current status (%s).", o.Status)
		}
		prior := o.Status

		note := "Order cancelled."
		if err := repo.AppendHistory(ctx, &models.OrderHistory{
			OrderID:        o.ID,
			PreviousStatus: prior,
			NewStatus:      models.OrderStatusCancelled,
			Notes:          &note,
		}); err != nil {
			return err
		}
		if err := repo.UpdateStatus(ctx, o.ID, models.OrderStatusCancelled); err != nil {
			return err
		}
		o.Status = models.OrderStatusCancelled

		// refund before touching inventory so a refund failure rolls the
		// cancellation back with no stock side effects
		if (prior == models.OrderStatusPending || prior == models.OrderStatusPaid) && o.PaymentIntentID != nil {
			if _, err := s.payments.CreateRefund(ctx, *o.PaymentIntentID, o.TotalAmount, o.ID); err != nil {
				return apperrors.Payment(
					fmt.Sprintf("Failed to create refund for order %s with amount %d.", o.ID, o.TotalAmount), err)
			}
		}

		for _, item := range o.OrderItems {
			if relErr := s.inventory.ReleaseStock(ctx, item.VariantID, item.Quantity); relErr != nil {
				return relErr
			}
		}

		order = o
		return nil
	})
	if txErr != nil {
		return nil, apperrors.FromError(txErr)
	}

	s.publishEvent(ctx, models.EventOrderStatusChanged, order)
	return order, nil
}

// HandleWebhookEvent maps a verified payment event onto an order status
// transition: succeeded events drive the order to paid, failed ones back to
// pending.
func (s *OrderService) HandleWebhookEvent(ctx context.Context, event stripe.Event) *apperrors.Error {
	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return apperrors.Payment("Failed to decode payment intent event", err)
		}
		orderID, appErr := orderIDFromMetadata(pi.Metadata, pi.ID)
		if appErr != nil {
			return appErr
		}
		return s.reconcilePaymentStatus(ctx, orderID, models.OrderStatusPaid, &pi.ID, nil)

	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return apperrors.Payment("Failed to decode checkout session event", err)
		}
		orderID, appErr := orderIDFromMetadata(sess.Metadata, sess.ID)
		if appErr != nil {
			return appErr
		}
		return s.reconcilePaymentStatus(ctx, orderID, models.OrderStatusPaid, nil, &sess.ID)

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return apperrors.Payment("Failed to decode payment intent event", err)
		}
		orderID, appErr := orderIDFromMetadata(pi.Metadata, pi.ID)
		if appErr != nil {
			return appErr
		}
		return s.reconcilePaymentStatus(ctx, orderID, models.OrderStatusPending, &pi.ID, nil)

	default:
		s.logger.Info("unhandled webhook event type", zap.String("event_type", string(event.Type)))
		return nil
	}
}

// CreatePaymentIntent creates a payment intent for a pending order and
// returns the client secret.
func (s *OrderService) CreatePaymentIntent(ctx context.Context, orderID uuid.UUID) (string, *apperrors.Error) {
	o, err := loadOrder(ctx, s.orders, orderID)
	if err != nil {
		return "", apperrors.FromError(err)
	}
	if o.Status != models.OrderStatusPending {
		return "", apperrors.BadRequest("Order %s is not awaiting payment.", orderID)
	}

	secret, payErr := s.payments.CreatePaymentIntent(ctx, o.TotalAmount, o.Currency, o.ID)
	if payErr != nil {
		return "", apperrors.FromError(payErr)
	}
	return secret, nil
}

// CreateCheckoutSession creates a hosted checkout session for a pending
// order and records the session id on it.
func (s *OrderService) CreateCheckoutSession(ctx context.Context, orderID uuid.UUID, successURL, cancelURL string) (string, *apperrors.Error) {
	o, err := loadOrder(ctx, s.orders, orderID)
	if err != nil {
		return "", apperrors.FromError(err)
	}
	if o.Status != models.OrderStatusPending {
		return "", apperrors.BadRequest("Order %s is not awaiting payment.", orderID)
	}

	lineItems := make([]payment.LineItem, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		product, resolveErr := s.products.GetProduct(ctx, item.ProductID)
		if resolveErr != nil {
			return "", apperrors.Internal("Failed to resolve product", resolveErr)
		}
		if product == nil {
			return "", apperrors.NotFound("Product with ID %s not found.", item.ProductID)
		}
		lineItems = append(lineItems, payment.LineItem{
			Name:     product.Name,
			Price:    item.PriceAtPurchase,
			Quantity: item.Quantity,
		})
	}

	sessionID, payErr := s.payments.CreateCheckoutSession(ctx, lineItems, o.Currency, o.ID, successURL, cancelURL)
	if payErr != nil {
		return "", apperrors.FromError(payErr)
	}

	o.CheckoutSessionID = &sessionID
	if updErr := s.orders.Update(ctx, o); updErr != nil {
		return "", apperrors.Internal("Failed to record checkout session", updErr)
	}
	return sessionID, nil
}

// GetUserOrders retrieves paginated orders for a specific user
func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderListResponse, *apperrors.Error) {
	orders, total, err := s.orders.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}
	return listResponse(orders, total, page, limit), nil
}

// GetAllOrders retrieves paginated orders for all users (admin only)
func (s *OrderService) GetAllOrders(ctx context.Context, page, limit int) (*OrderListResponse, *apperrors.Error) {
	orders, total, err := s.orders.FindAll(ctx, page, limit)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}
	return listResponse(orders, total, page, limit), nil
}

// GetOrderByID retrieves a specific order with items and history
func (s *OrderService) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, *apperrors.Error) {
	o, err := loadOrder(ctx, s.orders, orderID)
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	return o, nil
}

// DeleteOrder permanently removes an order (admin only)
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) *apperrors.Error {
	o, err := loadOrder(ctx, s.orders, orderID)
	if err != nil {
		return apperrors.FromError(err)
	}
	if delErr := s.orders.Delete(ctx, o); delErr != nil {
		return apperrors.Internal("Failed to delete order", delErr)
	}
	return nil
}

// ---- helpers ----

func (s *OrderService) resolveProducts(ctx context.Context, items []OrderItemRequest) (map[uuid.UUID]*models.Product, *apperrors.Error) {
	products := make(map[uuid.UUID]*models.Product, len(items))
	for _, item := range items {
		if _, ok := products[item.ProductID]; ok {
			continue
		}
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, apperrors.Internal("Failed to resolve product", err)
		}
		if product == nil {
			return nil, apperrors.NotFound("Product with ID %s not found.", item.ProductID)
		}
		products[item.ProductID] = product
	}
	return products, nil
}

// rateRequestFor ships store-hosted products from the seller's address and
// everything else from the warehouse.
func (s *OrderService) rateRequestFor(product *models.Product, destination models.Address) models.RateRequest {
	origin := s.warehouseAddr
	if product.HostedAt == models.HostedAtStore {
		origin = product.SellerAddress
	}
	return models.RateRequest{
		Origin:      origin,
		Destination: destination,
		WeightKg:    product.WeightKg,
		LengthCm:    product.LengthCm,
		WidthCm:     product.WidthCm,
		HeightCm:    product.HeightCm,
	}
}

// selectShippingRate picks the quoted rate for the requested carrier. When the
// carrier offers several services the client must name one; carrier-only
// matching would be ambiguous.
func (s *OrderService) selectShippingRate(rates []models.ShippingRate, carrier, serviceName string) (*models.ShippingRate, *apperrors.Error) {
	var matches []models.ShippingRate
	for _, rate := range rates {
		if rate.Carrier == carrier && (serviceName == "" || rate.ServiceName == serviceName) {
			matches = append(matches, rate)
		}
	}
	if len(matches) == 0 {
		return nil, apperrors.BadRequest("No shipping rates available for method %q.", carrier)
	}
	if len(matches) > 1 {
		return nil, apperrors.BadRequest("Multiple %q services available; specify a shipping service.", carrier)
	}
	return &matches[0], nil
}

func (s *OrderService) reconcilePaymentStatus(ctx context.Context, orderID uuid.UUID, target models.OrderStatus, intentID, sessionID *string) *apperrors.Error {
	txErr := s.orders.Transact(ctx, func(repo repositories.OrderRepository) error {
		o, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Payment(fmt.Sprintf("Order not found for payment status update: %s", orderID), nil)
			}
			return err
		}

		if intentID != nil && o.PaymentIntentID == nil {
			o.PaymentIntentID = intentID
		}
		if sessionID != nil && o.CheckoutSessionID == nil {
			o.CheckoutSessionID = sessionID
		}

		if o.Status == target {
			// duplicate delivery or a failure event for a still-pending order
			return repo.Update(ctx, o)
		}
		if !o.Status.CanTransitionTo(target) {
			return apperrors.BadRequest("Invalid order status transition from %s to %s.", o.Status, target)
		}

		note := "Payment status update."
		if err := repo.AppendHistory(ctx, &models.OrderHistory{
			OrderID:        o.ID,
			PreviousStatus: o.Status,
			NewStatus:      target,
			Notes:          &note,
		}); err != nil {
			return err
		}

		o.Status = target
		return repo.Update(ctx, o)
	})
	if txErr != nil {
		return apperrors.FromError(txErr)
	}
	return nil
}

func (s *OrderService) publishEvent(ctx context.Context, eventType string, order *models.Order) {
	if s.events == nil {
		return
	}
	evt := models.OrderEvent{
		Type:      eventType,
		OrderID:   order.ID,
		UserID:    order.UserID,
		Status:    order.Status,
		Amount:    order.TotalAmount,
		Currency:  order.Currency,
		Timestamp: time.Now().UTC(),
	}
	if err := s.events.PublishOrderEvent(ctx, evt); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("type", eventType),
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}

func loadOrder(ctx context.Context, repo repositories.OrderRepository, orderID uuid.UUID) (*models.Order, error) {
	o, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Order with ID %s not found.", orderID)
		}
		return nil, err
	}
	return o, nil
}

func orderIDFromMetadata(metadata map[string]string, objectID string) (uuid.UUID, *apperrors.Error) {
	raw, ok := metadata["orderId"]
	if !ok || raw == "" {
		return uuid.Nil, apperrors.Payment(fmt.Sprintf("Invalid or missing orderId in event metadata: %s", objectID), nil)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Payment(fmt.Sprintf("Invalid or missing orderId in event metadata: %s", objectID), err)
	}
	return id, nil
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%s", strings.ToUpper(uuid.NewString()[:8]))
}

func listResponse(orders []models.Order, total int64, page, limit int) *OrderListResponse {
	return &OrderListResponse{
		Orders: orders,
		Meta: MetaData{
			Page:        page,
			Limit:       limit,
			TotalOrders: total,
			TotalPages:  calculateTotalPages(total, limit),
			HasMore:     total > int64(page*limit),
		},
	}
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
