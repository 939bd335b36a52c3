package controllers

import (
	"io"
	"net/http"

	"order-service/payment"
	"order-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBodyBytes = 65536

type WebhookController struct {
	orderService *services.OrderService
	gateway      payment.Gateway
	logger       *zap.Logger
}

func NewWebhookController(orderService *services.OrderService, gateway payment.Gateway, logger *zap.Logger) *WebhookController {
	return &WebhookController{
		orderService: orderService,
		gateway:      gateway,
		logger:       logger,
	}
}

// HandleStripeWebhook verifies the event signature and reconciles the order's
// payment status. Unverifiable payloads get a 400 so Stripe retries them.
func (wc *WebhookController) HandleStripeWebhook(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	event, verifyErr := wc.gateway.VerifyWebhook(body, ctx.GetHeader("Stripe-Signature"))
	if verifyErr != nil {
		wc.logger.Warn("webhook signature verification failed", zap.Error(verifyErr))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
		return
	}

	if serviceErr := wc.orderService.HandleWebhookEvent(ctx.Request.Context(), event); serviceErr != nil {
		wc.logger.Error("webhook processing failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(serviceErr),
		)
		ctx.JSON(serviceErr.Code, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}
