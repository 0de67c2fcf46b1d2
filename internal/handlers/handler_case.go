package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/SscSPs/mortuary_billing_app/internal/dto"
	"github.com/SscSPs/mortuary_billing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// caseHandler handles HTTP requests related to cases.
type caseHandler struct {
	caseService portssvc.CaseSvcFacade
}

func newCaseHandler(cs portssvc.CaseSvcFacade) *caseHandler {
	return &caseHandler{caseService: cs}
}

// RegisterCaseRoutes registers the case routes on rg.
func RegisterCaseRoutes(rg *gin.RouterGroup, caseService portssvc.CaseSvcFacade) {
	h := newCaseHandler(caseService)

	cases := rg.Group("/cases")
	{
		cases.POST("", h.createCase)
		cases.GET("", h.listCases)
		cases.GET("/:caseID", h.getCase)
		cases.PATCH("/:caseID/embalming", h.updateEmbalmingCost)
		cases.PATCH("/:caseID/status", h.updateCaseStatus)
		cases.POST("/:caseID/complete", h.completeCase)
	}
}

// createCase godoc
// @Summary Admit a new case
// @Description Records a new case with zero totals. admittedAt defaults to now.
// @Tags cases
// @Accept  json
// @Produce  json
// @Param   case body dto.CreateCaseRequest true "Case details"
// @Success 201 {object} dto.CaseResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Case ID already exists"
// @Failure 500 {object} map[string]string "Failed to create case"
// @Security BearerAuth
// @Router /cases [post]
func (h *caseHandler) createCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.caseService.CreateCase(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create case")
		return
	}

	logger.Info("Case created", slog.String("case_id", created.CaseID))
	c.JSON(http.StatusCreated, dto.ToCaseResponse(created))
}

// listCases godoc
// @Summary List cases
// @Tags cases
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.CaseResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 500 {object} map[string]string "Failed to list cases"
// @Security BearerAuth
// @Router /cases [get]
func (h *caseHandler) listCases(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCasesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	var status *domain.CaseStatus
	if params.Status != "" {
		s := domain.CaseStatus(params.Status)
		status = &s
	}

	cases, err := h.caseService.ListCases(c.Request.Context(), status, params.Limit, params.Offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list cases")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCaseResponse(cases))
}

// getCase godoc
// @Summary Get a case
// @Tags cases
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Success 200 {object} dto.CaseResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 500 {object} map[string]string "Failed to retrieve case"
// @Security BearerAuth
// @Router /cases/{caseID} [get]
func (h *caseHandler) getCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("case_id", c.Param("caseID")))

	found, err := h.caseService.GetCase(c.Request.Context(), c.Param("caseID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve case")
		return
	}
	c.JSON(http.StatusOK, dto.ToCaseResponse(found))
}

// updateEmbalmingCost godoc
// @Summary Set or clear the embalming cost
// @Description Updates the embalming cost and refreshes the balance. A null cost clears it.
// @Tags cases
// @Accept  json
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Param   body body dto.UpdateEmbalmingRequest true "Embalming cost"
// @Success 200 {object} dto.CaseWithBalanceResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 409 {object} map[string]string "Case is complete"
// @Security BearerAuth
// @Router /cases/{caseID}/embalming [patch]
func (h *caseHandler) updateEmbalmingCost(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("case_id", c.Param("caseID")))
	var req dto.UpdateEmbalmingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, refresh, err := h.caseService.UpdateEmbalmingCost(c.Request.Context(), c.Param("caseID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update embalming cost")
		return
	}
	c.JSON(http.StatusOK, dto.CaseWithBalanceResponse{
		Case:    dto.ToCaseResponse(updated),
		Billing: dto.ToBalanceView(refresh),
	})
}

// updateCaseStatus godoc
// @Summary Move a case between open states
// @Tags cases
// @Accept  json
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Param   body body dto.UpdateCaseStatusRequest true "New status"
// @Success 200 {object} dto.CaseResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 409 {object} map[string]string "Case is complete"
// @Security BearerAuth
// @Router /cases/{caseID}/status [patch]
func (h *caseHandler) updateCaseStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("case_id", c.Param("caseID")))
	var req dto.UpdateCaseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.caseService.UpdateCaseStatus(c.Request.Context(), c.Param("caseID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update case status")
		return
	}
	c.JSON(http.StatusOK, dto.ToCaseResponse(updated))
}

// completeCase godoc
// @Summary Complete a case
// @Description Bills the case up to now and closes it. The case stays open if the final reconcile fails.
// @Tags cases
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Success 200 {object} dto.CompleteCaseResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 409 {object} map[string]string "Case already complete"
// @Failure 500 {object} map[string]string "Final reconcile failed"
// @Security BearerAuth
// @Router /cases/{caseID}/complete [post]
func (h *caseHandler) completeCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("case_id", c.Param("caseID")))
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	closed, outcome, err := h.caseService.CompleteCase(c.Request.Context(), c.Param("caseID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to complete case")
		return
	}
	logger.Info("Case completed", slog.String("final_balance", outcome.Balance.String()))
	c.JSON(http.StatusOK, dto.CompleteCaseResponse{
		Case:        dto.ToCaseResponse(closed),
		FinalCharge: outcome,
	})
}
