package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	apperrors "order-service/errors"
	"order-service/models"
	"order-service/payment"
	"order-service/repository"
	"order-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ---- fakes ----

// fakeOrderRepo keeps orders and history rows in memory. Transact snapshots
// both and restores them when fn fails, mimicking a rollback.
type fakeOrderRepo struct {
	orders    map[uuid.UUID]*models.Order
	histories []models.OrderHistory
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func cloneOrder(o *models.Order) *models.Order {
	cp := *o
	cp.OrderItems = append([]models.OrderItem(nil), o.OrderItems...)
	cp.History = nil
	return &cp
}

func (f *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.OrderItems {
		order.OrderItems[i].OrderID = order.ID
	}
	f.orders[order.ID] = cloneOrder(order)
	return nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *models.Order) error {
	if _, ok := f.orders[order.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.orders[order.ID] = cloneOrder(order)
	return nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, status models.OrderStatus) error {
	stored, ok := f.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = status
	return nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, order *models.Order) error {
	delete(f.orders, order.ID)
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	stored, ok := f.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := cloneOrder(stored)
	for _, h := range f.histories {
		if h.OrderID == orderID {
			cp.History = append(cp.History, h)
		}
	}
	return cp, nil
}

func (f *fakeOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *cloneOrder(o))
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) FindAll(_ context.Context, page, limit int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, *cloneOrder(o))
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) AppendHistory(_ context.Context, entry *models.OrderHistory) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()
	f.histories = append(f.histories, *entry)
	return nil
}

// Transact snapshots the in-memory state and restores it when fn fails,
// giving tests real rollback semantics.
func (f *fakeOrderRepo) Transact(_ context.Context, fn func(repo repository.OrderRepository) error) error {
	ordersSnapshot := make(map[uuid.UUID]*models.Order, len(f.orders))
	for id, o := range f.orders {
		ordersSnapshot[id] = cloneOrder(o)
	}
	historiesSnapshot := append([]models.OrderHistory(nil), f.histories...)

	if err := fn(f); err != nil {
		f.orders = ordersSnapshot
		f.histories = historiesSnapshot
		return err
	}
	return nil
}

func (f *fakeOrderRepo) historyFor(orderID uuid.UUID) []models.OrderHistory {
	var out []models.OrderHistory
	for _, h := range f.histories {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out
}

// ---- fake inventory ----

type fakeInventory struct {
	onHand   map[uuid.UUID]int
	reserved map[uuid.UUID]int

	reserveErr map[uuid.UUID]*apperrors.Error
	releaseErr *apperrors.Error

	reserveCalls  int
	releaseCalls  int
	subtractCalls int
	addCalls      int
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		onHand:     make(map[uuid.UUID]int),
		reserved:   make(map[uuid.UUID]int),
		reserveErr: make(map[uuid.UUID]*apperrors.Error),
	}
}

func (f *fakeInventory) IsInStock(_ context.Context, variantID uuid.UUID, quantity int) (bool, error) {
	return f.onHand[variantID] >= quantity, nil
}

func (f *fakeInventory) ReserveStock(_ context.Context, variantID uuid.UUID, quantity int) *apperrors.Error {
	f.reserveCalls++
	if e := f.reserveErr[variantID]; e != nil {
		return e
	}
	if f.onHand[variantID] < quantity {
		return apperrors.OutOfStock("Insufficient stock available.")
	}
	f.onHand[variantID] -= quantity
	f.reserved[variantID] += quantity
	return nil
}

func (f *fakeInventory) ReleaseStock(_ context.Context, variantID uuid.UUID, quantity int) *apperrors.Error {
	f.releaseCalls++
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.onHand[variantID] += quantity
	if f.reserved[variantID] < quantity {
		f.reserved[variantID] = 0
	} else {
		f.reserved[variantID] -= quantity
	}
	return nil
}

func (f *fakeInventory) UpdateQuantity(_ context.Context, variantID uuid.UUID, quantity int, op services.Operator) *apperrors.Error {
	switch op {
	case services.OperatorSubtract:
		f.subtractCalls++
		if f.reserved[variantID] < quantity {
			f.reserved[variantID] = 0
		} else {
			f.reserved[variantID] -= quantity
		}
	case services.OperatorAdd:
		f.addCalls++
		f.onHand[variantID] += quantity
	}
	return nil
}

func (f *fakeInventory) GetQuantityOnHand(_ context.Context, variantID uuid.UUID) (int, error) {
	return f.onHand[variantID], nil
}

func (f *fakeInventory) GetReservedQuantity(_ context.Context, variantID uuid.UUID) (int, error) {
	return f.reserved[variantID], nil
}

func (f *fakeInventory) CreateInventoryForVariant(_ context.Context, variantID uuid.UUID, initialQuantity, _ int) *apperrors.Error {
	f.onHand[variantID] = initialQuantity
	return nil
}

// ---- remaining collaborator fakes ----

type fakeCartProvider struct {
	cart    *models.Cart
	getErr  error
	cleared bool
}

func (f *fakeCartProvider) GetCart(context.Context, uuid.UUID) (*models.Cart, error) {
	return f.cart, f.getErr
}

func (f *fakeCartProvider) ClearCart(context.Context, uuid.UUID) error {
	f.cleared = true
	return nil
}

type fakeShippingProvider struct {
	rates    []models.ShippingRate
	ratesErr error
}

func (f *fakeShippingProvider) GetRates(context.Context, []models.RateRequest) ([]models.ShippingRate, error) {
	return f.rates, f.ratesErr
}

func (f *fakeShippingProvider) CreateShipment(context.Context, []models.RateRequest, string, string) (*models.Shipment, error) {
	return &models.Shipment{TrackingNumber: "TRK-TEST"}, nil
}

func (f *fakeShippingProvider) TrackShipment(context.Context, string) (*models.TrackingInformation, error) {
	return &models.TrackingInformation{}, nil
}

func (f *fakeShippingProvider) CancelShipment(context.Context, string) error {
	return nil
}

type refundCall struct {
	paymentIntentID string
	amount          int64
}

type fakeGateway struct {
	refunds   []refundCall
	refundErr error
}

func (f *fakeGateway) CreatePaymentIntent(context.Context, int64, string, uuid.UUID) (string, error) {
	return "pi_secret_test", nil
}

func (f *fakeGateway) CreateCheckoutSession(context.Context, []payment.LineItem, string, uuid.UUID, string, string) (string, error) {
	return "cs_test_session", nil
}

func (f *fakeGateway) CreateRefund(_ context.Context, paymentIntentID string, amount int64, _ uuid.UUID) (string, error) {
	if f.refundErr != nil {
		return "", f.refundErr
	}
	f.refunds = append(f.refunds, refundCall{paymentIntentID, amount})
	return "re_test", nil
}

func (f *fakeGateway) VerifyWebhook([]byte, string) (stripe.Event, error) {
	return stripe.Event{}, nil
}

type fakeNotifier struct {
	confirmations   int
	shippingUpdates int
}

func (f *fakeNotifier) SendOrderConfirmation(context.Context, *models.Order) error {
	f.confirmations++
	return nil
}

func (f *fakeNotifier) SendShippingUpdate(context.Context, *models.Order, models.OrderStatus) error {
	f.shippingUpdates++
	return nil
}

type fakeProducer struct {
	events []models.OrderEvent
}

func (f *fakeProducer) PublishOrderEvent(_ context.Context, evt models.OrderEvent) error {
	f.events = append(f.events, evt)
	return nil
}

func (f *fakeProducer) Close() error { return nil }

type fakeResolver struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeResolver) GetProduct(_ context.Context, productID uuid.UUID) (*models.Product, error) {
	return f.products[productID], nil
}

// ---- test environment ----

type orderTestEnv struct {
	svc       *services.OrderService
	orders    *fakeOrderRepo
	inventory *fakeInventory
	carts     *fakeCartProvider
	shipping  *fakeShippingProvider
	gateway   *fakeGateway
	notifier  *fakeNotifier
	producer  *fakeProducer
	resolver  *fakeResolver

	userID    uuid.UUID
	productID uuid.UUID
	variantID uuid.UUID
}

func newOrderTestEnv() *orderTestEnv {
	env := &orderTestEnv{
		orders:    newFakeOrderRepo(),
		inventory: newFakeInventory(),
		userID:    uuid.New(),
		productID: uuid.New(),
		variantID: uuid.New(),
	}

	env.inventory.onHand[env.variantID] = 10

	env.carts = &fakeCartProvider{cart: &models.Cart{
		UserID:     env.userID,
		TotalPrice: 5000,
		Items: []models.CartItem{
			{ProductID: env.productID, VariantID: env.variantID, Quantity: 2, Price: 2500},
		},
	}}

	env.shipping = &fakeShippingProvider{rates: []models.ShippingRate{
		{Carrier: "fedex", ServiceName: "Ground", TotalRate: 1000, Currency: "usd"},
		{Carrier: "dhl", ServiceName: "Express", TotalRate: 2500, Currency: "usd"},
	}}

	env.gateway = &fakeGateway{}
	env.notifier = &fakeNotifier{}
	env.producer = &fakeProducer{}
	env.resolver = &fakeResolver{products: map[uuid.UUID]*models.Product{
		env.productID: {
			ID:       env.productID,
			Name:     "Trail Pack 30L",
			Price:    2500,
			WeightKg: 1.2,
			HostedAt: models.HostedAtWarehouse,
		},
	}}

	env.svc = services.NewOrderService(
		env.orders,
		env.inventory,
		env.resolver,
		env.carts,
		env.shipping,
		env.gateway,
		env.notifier,
		env.producer,
		models.Address{Name: "Main Warehouse", Street1: "1 Depot Way", City: "Reno", Country: "US", PostalCode: "89501"},
		zap.NewNop(),
	)
	return env
}

func (env *orderTestEnv) createRequest() *services.CreateOrderRequest {
	return &services.CreateOrderRequest{
		UserID:          env.userID,
		Currency:        "usd",
		ShippingMethod:  "fedex",
		ShippingAddress: models.Address{Name: "Ana", Street1: "2 Elm St", City: "Reno", Country: "US", PostalCode: "89502", Email: "ana@example.com"},
		BillingAddress:  models.Address{Name: "Ana", Street1: "2 Elm St", City: "Reno", Country: "US", PostalCode: "89502"},
		Items: []services.OrderItemRequest{
			{ProductID: env.productID, VariantID: env.variantID, Quantity: 2, PriceAtPurchase: 2500},
		},
	}
}

func (env *orderTestEnv) seedOrder(status models.OrderStatus, paymentIntentID *string) *models.Order {
	o := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-TEST0001",
		UserID:      env.userID,
		OrderDate:   time.Now().UTC(),
		Status:      status,
		Currency:    "usd",
		TotalAmount: 6600,
		OrderItems: []models.OrderItem{
			{ID: uuid.New(), ProductID: env.productID, VariantID: env.variantID, Quantity: 2, PriceAtPurchase: 2500},
		},
		PaymentIntentID: paymentIntentID,
	}
	env.orders.orders[o.ID] = cloneOrder(o)
	return o
}

// ---- preview ----

func TestGetOrderPreview(t *testing.T) {
	env := newOrderTestEnv()

	preview, appErr := env.svc.GetOrderPreview(context.Background(), env.createRequest())
	require.Nil(t, appErr)

	assert.Equal(t, models.OrderStatusPending, preview.Status)
	assert.Equal(t, int64(5000), preview.TotalAmount, "preview total excludes shipping")
	assert.Len(t, preview.AvailableShippingRates, 2)
	assert.Equal(t, 0, env.inventory.reserveCalls, "preview must not reserve stock")
	assert.Empty(t, env.orders.orders, "preview must not persist anything")
}

func TestGetOrderPreviewOutOfStock(t *testing.T) {
	env := newOrderTestEnv()
	env.inventory.onHand[env.variantID] = 1

	_, appErr := env.svc.GetOrderPreview(context.Background(), env.createRequest())
	require.NotNil(t, appErr)
	assert.True(t, apperrors.IsBadRequest(appErr))
}

func TestGetOrderPreviewUnknownProduct(t *testing.T) {
	env := newOrderTestEnv()
	req := env.createRequest()
	req.Items[0].ProductID = uuid.New()

	_, appErr := env.svc.GetOrderPreview(context.Background(), req)
	require.NotNil(t, appErr)
	assert.True(t, apperrors.IsNotFound(appErr))
}

// ---- create ----

func TestCreateOrderHappyPath(t *testing.T) {
	env := newOrderTestEnv()

	order, appErr := env.svc.CreateOrder(context.Background(), env.createRequest())
	require.Nil(t, appErr)
	require.NotNil(t, order)

	// 5000 cart + 1000 shipping
	assert.Equal(t, int64(6000), order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.OrderNumber)

	// stock: reserved then immediately consumed
	assert.Equal(t, 8, env.inventory.onHand[env.variantID])
	assert.Equal(t, 0, env.inventory.reserved[env.variantID])
	assert.Equal(t, 1, env.inventory.subtractCalls)

	history := env.orders.historyFor(order.ID)
	require.Len(t, history, 1)
	assert.Equal(t, models.OrderStatusPending, history[0].NewStatus)

	assert.True(t, env.carts.cleared)
	assert.Equal(t, 1, env.notifier.confirmations)
	require.Len(t, env.producer.events, 1)
	assert.Equal(t, models.EventOrderCreated, env.producer.events[0].Type)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	env := newOrderTestEnv()
	env.inventory.onHand[env.variantID] = 1

	order, appErr := env.svc.CreateOrder(context.Background(), env.createRequest())
	require.NotNil(t, appErr)
	assert.Nil(t, order)
	assert.True(t, apperrors.IsBadRequest(appErr), "create failures surface as bad request")

	assert.Empty(t, env.orders.orders, "no order row may survive the failure")
	assert.False(t, env.carts.cleared)
	assert.Equal(t, 1, env.inventory.onHand[env.variantID], "stock unchanged")
	assert.Empty(t, env.producer.events)
}

func TestCreateOrderReleasesReservationsOnLaterFailure(t *testing.T) {
	env := newOrderTestEnv()
	secondVariant := uuid.New()
	secondProduct := uuid.New()
	env.inventory.onHand[secondVariant] = 0
	env.resolver.products[secondProduct] = &models.Product{
		ID: secondProduct, Name: "Water Bottle", HostedAt: models.HostedAtWarehouse,
	}

	req := env.createRequest()
	req.Items = append(req.Items, services.OrderItemRequest{
		ProductID: secondProduct, VariantID: secondVariant, Quantity: 1, PriceAtPurchase: 900,
	})

	_, appErr := env.svc.CreateOrder(context.Background(), req)
	require.NotNil(t, appErr)

	// first item's reservation was compensated, second never got one
	assert.Equal(t, 10, env.inventory.onHand[env.variantID])
	assert.Equal(t, 0, env.inventory.reserved[env.variantID])
	assert.Empty(t, env.orders.orders)
}

func TestCreateOrderMissingCart(t *testing.T) {
	env := newOrderTestEnv()
	env.carts.cart = nil

	_, appErr := env.svc.CreateOrder(context.Background(), env.createRequest())
	require.NotNil(t, appErr)
	assert.True(t, apperrors.IsBadRequest(appErr))

	assert.Equal(t, 10, env.inventory.onHand[env.variantID], "reservation released")
	assert.Empty(t, env.orders.orders)
}

func TestCreateOrderAmbiguousShippingService(t *testing.T) {
	env := newOrderTestEnv()
	env.shipping.rates = []models.ShippingRate{
		{Carrier: "fedex", ServiceName: "Ground", TotalRate: 1000, Currency: "usd"},
		{Carrier: "fedex", ServiceName: "2nd Day Air", TotalRate: 2200, Currency: "usd"},
	}

	_, appErr := env.svc.CreateOrder(context.Background(), env.createRequest())
	require.NotNil(t, appErr)
	assert.True(t, apperrors.IsBadRequest(appErr))
	assert.Equal(t, 10, env.inventory.onHand[env.variantID], "reservation released")
}

func TestCreateOrderExplicitShippingService(t *testing.T) {
	env := newOrderTestEnv()
	env.shipping.rates = []models.ShippingRate{
		{Carrier: "fedex", ServiceName: "Ground", TotalRate: 1000, Currency: "usd"},
		{Carrier: "fedex", ServiceName: "2nd Day Air", TotalRate: 2200, Currency: "usd"},
	}

	req := env.createRequest()
	req.ShippingService = "2nd Day Air"

	order, appErr := env.svc.CreateOrder(context.Background(), req)
	require.Nil(t, appErr)
	// 5000 cart + 2200 shipping
	assert.Equal(t, int64(7200), order.TotalAmount)
}

func TestCreateOrderFailureLeavesOtherHoldsIntact(t *testing.T) {
	env := newOrderTestEnv()
	// another in-flight order holds 5 units of the same variant
	env.inventory.reserved[env.variantID] = 5
	env.orders.createErr = errors.New("db down")

	_, appErr := env.svc.CreateOrder(context.Background(), env.createRequest())
	require.NotNil(t, appErr)

	assert.Equal(t, 10, env.inventory.onHand[env.variantID], "on-hand back to its pre-attempt value")
	assert.Equal(t, 5, env.inventory.reserved[env.variantID], "the concurrent hold is untouched")
	assert.Equal(t, 1, env.inventory.addCalls, "a consumed hold is restocked, not released")
	assert.Equal(t, 0, env.inventory.releaseCalls)
}

func TestCreateOrderPersistFailureRollsBack(t *testing.T) {
	env := newOrderTestEnv()
	env.orders.createErr = errors.New("connection reset")

	_, appErr := env.svc.CreateOrder(context.Background(), env.createRequest())
	require.NotNil(t, appErr)
	assert.True(t, apperrors.IsBadRequest(appErr))

	assert.Empty(t, env.orders.orders)
	assert.Empty(t, env.orders.histories)
	assert.Equal(t, 10, env.inventory.onHand[env.variantID], "compensation restored the hold")
	assert.False(t, env.carts.cleared)
	assert.Equal(t, 0, env.notifier.confirmations)
}

// ---- status transitions ----

func TestUpdateOrderStatusHappyPath(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusPaid, nil)

	order, appErr := env.svc.UpdateOrderStatus(context.Background(), seeded.ID, models.OrderStatusProcessing, nil)
	require.Nil(t, appErr)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)

	history := env.orders.historyFor(seeded.ID)
	require.Len(t, history, 1)
	assert.Equal(t, models.OrderStatusPaid, history[0].PreviousStatus)
	assert.Equal(t, models.OrderStatusProcessing, history[0].NewStatus)

	require.Len(t, env.producer.events, 1)
	assert.Equal(t, models.EventOrderStatusChanged, env.producer.events[0].Type)
	assert.Equal(t, 0, env.notifier.shippingUpdates)
}

func TestUpdateOrderStatusShippedNotifies(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusProcessing, nil)

	_, appErr := env.svc.UpdateOrderStatus(context.Background(), seeded.ID, models.OrderStatusShipped, nil)
	require.Nil(t, appErr)
	assert.Equal(t, 1, env.notifier.shippingUpdates)
}

func TestUpdateOrderStatusInvalidTransition(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusDelivered, nil)

	_, appErr := env.svc.UpdateOrderStatus(context.Background(), seeded.ID, models.OrderStatusPaid, nil)
	require.NotNil(t, appErr)
	assert.True(t, apperrors.IsBadRequest(appErr))

	assert.Empty(t, env.orders.historyFor(seeded.ID), "rejected transition writes no history")
	assert.Equal(t, models.OrderStatusDelivered, env.orders.orders[seeded.ID].Status)
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	env := newOrderTestEnv()

	_, appErr := env.svc.UpdateOrderStatus(context.Background(), uuid.New(), models.OrderStatusPaid, nil)
	require.NotNil(t, appErr)
	assert.True(t, apperrors.IsNotFound(appErr))
}

// ---- cancellation ----

func TestCancelPaidOrderRefundsAndReleases(t *testing.T) {
	env := newOrderTestEnv()
	intentID := "pi_abc123"
	seeded := env.seedOrder(models.OrderStatusPaid, &intentID)

	order, appErr := env.svc.CancelOrder(context.Background(), seeded.ID)
	require.Nil(t, appErr)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)

	require.Len(t, env.gateway.refunds, 1)
	assert.Equal(t, "pi_abc123", env.gateway.refunds[0].paymentIntentID)
	assert.Equal(t, seeded.TotalAmount, env.gateway.refunds[0].amount)

	assert.Equal(t, 1, env.inventory.releaseCalls)
	assert.Equal(t, 12, env.inventory.onHand[env.variantID])

	history := env.orders.historyFor(seeded.ID)
	require.Len(t, history, 1)
	assert.Equal(t, models.OrderStatusCancelled, history[0].NewStatus)
}

func TestCancelPendingOrderWithoutIntentSkipsRefund(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusPending, nil)

	_, appErr := env.svc.CancelOrder(context.Background(), seeded.ID)
	require.Nil(t, appErr)
	assert.Empty(t, env.gateway.refunds)
	assert.Equal(t, 1, env.inventory.releaseCalls)
}

func TestCancelProcessingOrderSkipsRefund(t *testing.T) {
	env := newOrderTestEnv()
	intentID := "pi_abc123"
	seeded := env.seedOrder(models.OrderStatusProcessing, &intentID)

	_, appErr := env.svc.CancelOrder(context.Background(), seeded.ID)
	require.Nil(t, appErr)
	assert.Empty(t, env.gateway.refunds, "refunds only apply before fulfilment starts")
}

func TestCancelOrderRefundFailureRollsBack(t *testing.T) {
	env := newOrderTestEnv()
	intentID := "pi_abc123"
	seeded := env.seedOrder(models.OrderStatusPaid, &intentID)
	env.gateway.refundErr = errors.New("card network unavailable")

	_, appErr := env.svc.CancelOrder(context.Background(), seeded.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)

	assert.Equal(t, models.OrderStatusPaid, env.orders.orders[seeded.ID].Status, "cancellation rolled back")
	assert.Empty(t, env.orders.historyFor(seeded.ID))
	assert.Equal(t, 0, env.inventory.releaseCalls, "no stock moved on a failed refund")
}

func TestCancelOrderTwice(t *testing.T) {
	env := newOrderTestEnv()
	intentID := "pi_abc123"
	seeded := env.seedOrder(models.OrderStatusPaid, &intentID)

	_, appErr := env.svc.CancelOrder(context.Background(), seeded.ID)
	require.Nil(t, appErr)

	_, appErr = env.svc.CancelOrder(context.Background(), seeded.ID)
	require.NotNil(t, appErr)
	assert.True(t, apperrors.IsBadRequest(appErr))

	assert.Len(t, env.gateway.refunds, 1, "no double refund")
	assert.Equal(t, 1, env.inventory.releaseCalls, "no double release")
}

func TestCancelDeliveredOrderRejected(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusDelivered, nil)

	_, appErr := env.svc.CancelOrder(context.Background(), seeded.ID)
	require.NotNil(t, appErr)
	assert.True(t, apperrors.IsBadRequest(appErr))
}

// ---- webhooks ----

func paymentIntentEvent(eventType, intentID string, metadata map[string]string) stripe.Event {
	payload := map[string]interface{}{"id": intentID, "metadata": metadata}
	raw, _ := json.Marshal(payload)
	return stripe.Event{Type: stripe.EventType(eventType), Data: &stripe.EventData{Raw: raw}}
}

func TestWebhookPaymentSucceeded(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusPending, nil)

	event := paymentIntentEvent("payment_intent.succeeded", "pi_hook1",
		map[string]string{"orderId": seeded.ID.String()})

	appErr := env.svc.HandleWebhookEvent(context.Background(), event)
	require.Nil(t, appErr)

	stored := env.orders.orders[seeded.ID]
	assert.Equal(t, models.OrderStatusPaid, stored.Status)
	require.NotNil(t, stored.PaymentIntentID)
	assert.Equal(t, "pi_hook1", *stored.PaymentIntentID)

	history := env.orders.historyFor(seeded.ID)
	require.Len(t, history, 1)
	assert.Equal(t, models.OrderStatusPaid, history[0].NewStatus)
}

func TestWebhookCheckoutSessionCompleted(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusPending, nil)

	payload := fmt.Sprintf(`{"id":"cs_hook1","metadata":{"orderId":%q}}`, seeded.ID)
	event := stripe.Event{Type: "checkout.session.completed", Data: &stripe.EventData{Raw: json.RawMessage(payload)}}

	appErr := env.svc.HandleWebhookEvent(context.Background(), event)
	require.Nil(t, appErr)

	stored := env.orders.orders[seeded.ID]
	assert.Equal(t, models.OrderStatusPaid, stored.Status)
	require.NotNil(t, stored.CheckoutSessionID)
	assert.Equal(t, "cs_hook1", *stored.CheckoutSessionID)
}

func TestWebhookDuplicateDeliveryIsNoOp(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusPaid, nil)

	event := paymentIntentEvent("payment_intent.succeeded", "pi_hook1",
		map[string]string{"orderId": seeded.ID.String()})

	appErr := env.svc.HandleWebhookEvent(context.Background(), event)
	require.Nil(t, appErr)
	assert.Empty(t, env.orders.historyFor(seeded.ID), "same-status event writes no history")
}

func TestWebhookMissingOrderID(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusPending, nil)

	event := paymentIntentEvent("payment_intent.succeeded", "pi_hook1", map[string]string{})

	appErr := env.svc.HandleWebhookEvent(context.Background(), event)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, models.OrderStatusPending, env.orders.orders[seeded.ID].Status, "order untouched")
}

func TestWebhookUnparseableOrderID(t *testing.T) {
	env := newOrderTestEnv()

	event := paymentIntentEvent("payment_intent.succeeded", "pi_hook1",
		map[string]string{"orderId": "42"})

	appErr := env.svc.HandleWebhookEvent(context.Background(), event)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}

func TestWebhookPaymentFailedKeepsPending(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusPending, nil)

	event := paymentIntentEvent("payment_intent.payment_failed", "pi_hook1",
		map[string]string{"orderId": seeded.ID.String()})

	appErr := env.svc.HandleWebhookEvent(context.Background(), event)
	require.Nil(t, appErr)

	stored := env.orders.orders[seeded.ID]
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	require.NotNil(t, stored.PaymentIntentID, "failed attempts still record the intent")
}

func TestWebhookUnknownEventTypeIgnored(t *testing.T) {
	env := newOrderTestEnv()

	event := stripe.Event{Type: "customer.created", Data: &stripe.EventData{Raw: json.RawMessage(`{}`)}}
	assert.Nil(t, env.svc.HandleWebhookEvent(context.Background(), event))
}

// ---- payment creation ----

func TestCreatePaymentIntentForPendingOrder(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusPending, nil)

	secret, appErr := env.svc.CreatePaymentIntent(context.Background(), seeded.ID)
	require.Nil(t, appErr)
	assert.Equal(t, "pi_secret_test", secret)
}

func TestCreatePaymentIntentRejectsPaidOrder(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusPaid, nil)

	_, appErr := env.svc.CreatePaymentIntent(context.Background(), seeded.ID)
	require.NotNil(t, appErr)
	assert.True(t, apperrors.IsBadRequest(appErr))
}

func TestCreateCheckoutSessionStoresSessionID(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusPending, nil)

	sessionID, appErr := env.svc.CreateCheckoutSession(context.Background(), seeded.ID, "https://shop.test/ok", "https://shop.test/no")
	require.Nil(t, appErr)
	assert.Equal(t, "cs_test_session", sessionID)

	stored := env.orders.orders[seeded.ID]
	require.NotNil(t, stored.CheckoutSessionID)
	assert.Equal(t, "cs_test_session", *stored.CheckoutSessionID)
}

// ---- queries ----

func TestGetUserOrdersPagination(t *testing.T) {
	env := newOrderTestEnv()
	env.seedOrder(models.OrderStatusPending, nil)
	env.seedOrder(models.OrderStatusPaid, nil)

	resp, appErr := env.svc.GetUserOrders(context.Background(), env.userID, 1, 10)
	require.Nil(t, appErr)
	assert.Len(t, resp.Orders, 2)
	assert.Equal(t, int64(2), resp.Meta.TotalOrders)
	assert.Equal(t, int64(1), resp.Meta.TotalPages)
	assert.False(t, resp.Meta.HasMore)
}

func TestGetOrderByIDNotFound(t *testing.T) {
	env := newOrderTestEnv()

	_, appErr := env.svc.GetOrderByID(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.True(t, apperrors.IsNotFound(appErr))
}

func TestDeleteOrder(t *testing.T) {
	env := newOrderTestEnv()
	seeded := env.seedOrder(models.OrderStatusCancelled, nil)

	require.Nil(t, env.svc.DeleteOrder(context.Background(), seeded.ID))
	assert.Empty(t, env.orders.orders)

	appErr := env.svc.DeleteOrder(context.Background(), seeded.ID)
	require.NotNil(t, appErr)
	assert.True(t, apperrors.IsNotFound(appErr))
}
