package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/SscSPs/mortuary_billing_app/internal/dto"
	"github.com/SscSPs/mortuary_billing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type coffinHandler struct {
	coffinService portssvc.CoffinSvcFacade
}

// RegisterCoffinRoutes registers the catalog and assignment routes on rg.
func RegisterCoffinRoutes(rg *gin.RouterGroup, coffinService portssvc.CoffinSvcFacade) {
	h := &coffinHandler{coffinService: coffinService}

	coffins := rg.Group("/coffins")
	{
		coffins.POST("", h.createCoffin)
		coffins.GET("", h.listCoffins)
	}
	rg.POST("/cases/:caseID/coffin-assignments", h.assignCoffin)
	rg.GET("/cases/:caseID/coffin-assignments", h.listAssignments)
}

// createCoffin godoc
// @Summary Add a coffin to the catalog
// @Tags coffins
// @Accept  json
// @Produce  json
// @Param   coffin body dto.CreateCoffinRequest true "Coffin details"
// @Success 201 {object} dto.CoffinResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Coffin ID already exists"
// @Security BearerAuth
// @Router /coffins [post]
func (h *coffinHandler) createCoffin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCoffinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	coffin, err := h.coffinService.CreateCoffin(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create coffin")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCoffinResponse(coffin))
}

// listCoffins godoc
// @Summary List the coffin catalog
// @Tags coffins
// @Produce  json
// @Success 200 {array} dto.CoffinResponse
// @Security BearerAuth
// @Router /coffins [get]
func (h *coffinHandler) listCoffins(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	coffins, err := h.coffinService.ListCoffins(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list coffins")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCoffinResponse(coffins))
}

// assignCoffin godoc
// @Summary Assign a coffin to a case
// @Description Snapshots the catalog price onto a new active assignment, supersedes the previous one and refreshes the balance.
// @Tags coffins
// @Accept  json
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Param   body body dto.AssignCoffinRequest true "Assignment"
// @Success 201 {object} dto.CoffinAssignmentWithBalanceResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Case or coffin not found"
// @Failure 409 {object} map[string]string "Case is complete"
// @Security BearerAuth
// @Router /cases/{caseID}/coffin-assignments [post]
func (h *coffinHandler) assignCoffin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("case_id", c.Param("caseID")))
	var req dto.AssignCoffinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	assignment, refresh, err := h.coffinService.AssignCoffin(c.Request.Context(), c.Param("caseID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to assign coffin")
		return
	}
	c.JSON(http.StatusCreated, dto.CoffinAssignmentWithBalanceResponse{
		Assignment: dto.ToCoffinAssignmentResponse(assignment),
		Billing:    dto.ToBalanceView(refresh),
	})
}

// listAssignments godoc
// @Summary List coffin assignments of a case
// @Tags coffins
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Success 200 {array} dto.CoffinAssignmentResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Security BearerAuth
// @Router /cases/{caseID}/coffin-assignments [get]
func (h *coffinHandler) listAssignments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("case_id", c.Param("caseID")))
	list, err := h.coffinService.ListAssignments(c.Request.Context(), c.Param("caseID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list coffin assignments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCoffinAssignmentResponse(list))
}
