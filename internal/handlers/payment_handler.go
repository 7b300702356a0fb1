package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/exam-portal/registration-service/internal/services"
	"github.com/exam-portal/registration-service/internal/utils"
)

type PaymentHandler struct {
	BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService, logger utils.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    NewBaseHandler(logger),
		paymentService: paymentService,
	}
}

// InitiatePayment moves the caller's registration to PAYMENT_PENDING.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Initiating payment", "registration_id", id)

	registration, err := h.paymentService.InitiatePayment(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}

// ConfirmPayment moves the caller's registration to PAID. The real gateway is
// out of scope; confirmation is taken at face value.
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Confirming payment", "registration_id", id)

	registration, err := h.paymentService.ConfirmPayment(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}
