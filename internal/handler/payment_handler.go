package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/response"
	"github.com/brightpath/institute-api/internal/service"
	"github.com/brightpath/institute-api/internal/validator"
)

// PaymentHandler handles gateway checkout endpoints.
type PaymentHandler struct {
	paymentService *service.PaymentService
	log            zerolog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		log:            log.With().Str("component", "payment_handler").Logger(),
	}
}

// CreateOrder godoc
// POST /api/payment/create-order
// Opens a gateway order and returns what the checkout widget needs.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderInput
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	order, err := h.paymentService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// VerifyPayment godoc
// POST /api/payment/verify
// Checks the checkout signature and marks the registration completed.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req service.VerifyInput
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	paymentID, err := h.paymentService.Verify(c.Request.Context(), req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"success":   true,
		"paymentId": paymentID,
	})
}
