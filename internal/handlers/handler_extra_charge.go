package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/SscSPs/mortuary_billing_app/internal/dto"
	"github.com/SscSPs/mortuary_billing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type extraChargeHandler struct {
	chargeService portssvc.ExtraChargeSvcFacade
}

// RegisterExtraChargeRoutes registers the extra charge routes on rg.
func RegisterExtraChargeRoutes(rg *gin.RouterGroup, chargeService portssvc.ExtraChargeSvcFacade) {
	h := &extraChargeHandler{chargeService: chargeService}

	rg.POST("/cases/:caseID/extra-charges", h.createExtraCharge)
	rg.GET("/cases/:caseID/extra-charges", h.listExtraCharges)
	rg.PATCH("/extra-charges/:chargeID/status", h.updateExtraChargeStatus)
}

// createExtraCharge godoc
// @Summary Add an extra charge to a case
// @Description Records a pending charge and refreshes the balance.
// @Tags extra-charges
// @Accept  json
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Param   body body dto.CreateExtraChargeRequest true "Charge"
// @Success 201 {object} dto.ExtraChargeWithBalanceResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 409 {object} map[string]string "Case is complete"
// @Security BearerAuth
// @Router /cases/{caseID}/extra-charges [post]
func (h *extraChargeHandler) createExtraCharge(c *gin.Context) {
	caseID := c.Param("caseID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("case_id", caseID))
	var req dto.CreateExtraChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	charge, refresh, err := h.chargeService.CreateExtraCharge(c.Request.Context(), caseID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create extra charge")
		return
	}
	c.JSON(http.StatusCreated, dto.ExtraChargeWithBalanceResponse{
		Charge:  dto.ToExtraChargeResponse(caseID, charge),
		Billing: dto.ToBalanceView(refresh),
	})
}

// listExtraCharges godoc
// @Summary List extra charges of a case
// @Tags extra-charges
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Success 200 {array} dto.ExtraChargeResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Security BearerAuth
// @Router /cases/{caseID}/extra-charges [get]
func (h *extraChargeHandler) listExtraCharges(c *gin.Context) {
	caseID := c.Param("caseID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("case_id", caseID))
	list, err := h.chargeService.ListExtraCharges(c.Request.Context(), caseID)
	if err != nil {
		respondError(c, logger, err, "Failed to list extra charges")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExtraChargeResponse(caseID, list))
}

// updateExtraChargeStatus godoc
// @Summary Change the status of an extra charge
// @Description pending can move to invoiced, paid or cancelled; invoiced to paid or cancelled. Paid and cancelled are final.
// @Tags extra-charges
// @Accept  json
// @Produce  json
// @Param   chargeID path string true "Charge ID"
// @Param   body body dto.UpdateExtraChargeStatusRequest true "New status"
// @Success 200 {object} dto.ExtraChargeWithBalanceResponse
// @Failure 400 {object} map[string]string "Invalid transition"
// @Failure 404 {object} map[string]string "Charge not found"
// @Failure 409 {object} map[string]string "Case is complete"
// @Security BearerAuth
// @Router /extra-charges/{chargeID}/status [patch]
func (h *extraChargeHandler) updateExtraChargeStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("charge_id", c.Param("chargeID")))
	var req dto.UpdateExtraChargeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	charge, refresh, err := h.chargeService.UpdateExtraChargeStatus(c.Request.Context(), c.Param("chargeID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update extra charge")
		return
	}
	c.JSON(http.StatusOK, dto.ExtraChargeWithBalanceResponse{
		Charge:  dto.ToExtraChargeResponse(refresh.LastKnown.CaseID, charge),
		Billing: dto.ToBalanceView(refresh),
	})
}
