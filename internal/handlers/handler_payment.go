package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/SscSPs/mortuary_billing_app/internal/dto"
	"github.com/SscSPs/mortuary_billing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// RegisterPaymentRoutes registers the payment routes on rg. Payments are
// append-only, so there is no update or delete route.
func RegisterPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := &paymentHandler{paymentService: paymentService}

	rg.POST("/cases/:caseID/payments", h.recordPayment)
	rg.GET("/cases/:caseID/payments", h.listPayments)
}

// recordPayment godoc
// @Summary Record a payment against a case
// @Description Appends a payment and refreshes the balance. If the refresh fails the payment is still recorded and the last known balance is returned.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Param   payment body dto.RecordPaymentRequest true "Payment"
// @Success 201 {object} dto.PaymentWithBalanceResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 409 {object} map[string]string "Duplicate reference or case complete"
// @Security BearerAuth
// @Router /cases/{caseID}/payments [post]
func (h *paymentHandler) recordPayment(c *gin.Context) {
	caseID := c.Param("caseID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("case_id", caseID))
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, refresh, err := h.paymentService.RecordPayment(c.Request.Context(), caseID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusCreated, dto.PaymentWithBalanceResponse{
		Payment: dto.ToPaymentResponse(caseID, payment),
		Billing: dto.ToBalanceView(refresh),
	})
}

// listPayments godoc
// @Summary List payments of a case
// @Tags payments
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Security BearerAuth
// @Router /cases/{caseID}/payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	caseID := c.Param("caseID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("case_id", caseID))
	list, err := h.paymentService.ListPayments(c.Request.Context(), caseID)
	if err != nil {
		respondError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPaymentResponse(caseID, list))
}
