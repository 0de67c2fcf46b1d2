package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/mortuary_billing_app/internal/clock"
	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/SscSPs/mortuary_billing_app/internal/dto"
	"github.com/SscSPs/mortuary_billing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type reconciliationHandler struct {
	reconciler portssvc.ReconciliationSvc
	history    portssvc.ChargeHistorySvc
	trigger    portssvc.ReconcileTrigger
	clock      clock.Clock
}

// RegisterReconciliationRoutes registers the manual reconcile, charge
// history and batch trigger routes on rg. trigger may be nil when the
// scheduler is disabled.
func RegisterReconciliationRoutes(
	rg *gin.RouterGroup,
	reconciler portssvc.ReconciliationSvc,
	history portssvc.ChargeHistorySvc,
	trigger portssvc.ReconcileTrigger,
	clk clock.Clock,
) {
	if clk == nil {
		clk = clock.New()
	}
	h := &reconciliationHandler{reconciler: reconciler, history: history, trigger: trigger, clock: clk}

	rg.POST("/cases/:caseID/reconcile", h.reconcileCase)
	rg.GET("/cases/:caseID/charge-history", h.listChargeHistory)
	rg.POST("/reconciliation/run", h.triggerRun)
}

// reconcileCase godoc
// @Summary Reconcile one case now
// @Tags reconciliation
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 500 {object} map[string]string "Reconcile failed"
// @Security BearerAuth
// @Router /cases/{caseID}/reconcile [post]
func (h *reconciliationHandler) reconcileCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("case_id", c.Param("caseID")))

	outcome, err := h.reconciler.ReconcileOne(c.Request.Context(), c.Param("caseID"), h.clock.Now())
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile case")
		return
	}
	resp := dto.ReconcileResponse{Outcome: outcome}
	if outcome.AuditError != nil {
		resp.AuditWarning = "charge recorded but audit entry could not be written"
	}
	c.JSON(http.StatusOK, resp)
}

// listChargeHistory godoc
// @Summary List the charge history of a case
// @Tags reconciliation
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.ChargeHistoryResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Security BearerAuth
// @Router /cases/{caseID}/charge-history [get]
func (h *reconciliationHandler) listChargeHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("case_id", c.Param("caseID")))
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	entries, err := h.history.ListChargeHistory(c.Request.Context(), c.Param("caseID"), params.Limit, params.Offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list charge history")
		return
	}
	c.JSON(http.StatusOK, dto.ToListChargeHistoryResponse(entries))
}

// triggerRun godoc
// @Summary Start a full reconciliation run
// @Description Starts a batch over every open case in the background. Returns 409 if a run is already in progress.
// @Tags reconciliation
// @Produce  json
// @Success 202 {object} dto.TriggerRunResponse
// @Failure 409 {object} dto.TriggerRunResponse
// @Failure 503 {object} map[string]string "Scheduler disabled"
// @Security BearerAuth
// @Router /reconciliation/run [post]
func (h *reconciliationHandler) triggerRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if h.trigger == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Reconciliation scheduler is disabled"})
		return
	}
	if !h.trigger.Trigger(c.Request.Context()) {
		c.JSON(http.StatusConflict, dto.TriggerRunResponse{Accepted: false, Message: "reconciliation already running"})
		return
	}
	logger.Info("Manual reconciliation run started")
	c.JSON(http.StatusAccepted, dto.TriggerRunResponse{Accepted: true, Message: "reconciliation started"})
}
