package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/group_ledger/internal/core/ports/services"
	"github.com/SscSPs/group_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type balanceHandler struct {
	balanceService portssvc.BalanceSvc
	queryService   portssvc.QueryFacadeSvc
}

func newBalanceHandler(balanceService portssvc.BalanceSvc, queryService portssvc.QueryFacadeSvc) *balanceHandler {
	return &balanceHandler{balanceService: balanceService, queryService: queryService}
}

// getBalances godoc
// @Summary Get net balances
// @Description Folds the ledger up to asOf. Positive means the group owes the participant.
// @Tags balances
// @Produce json
// @Param group_id path string true "Group ID"
// @Param asOf query string false "RFC3339 time, defaults to now"
// @Success 200 {object} dto.BalancesResponse
// @Failure 500 {object} dto.ErrorResponse "LEDGER_CORRUPTED"
// @Security BearerAuth
// @Router /groups/{group_id}/balances [get]
func (h *balanceHandler) getBalances(c *gin.Context) {
	var params dto.GetBalancesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.queryService.GetBalances(c.Request.Context(), c.Param("group_id"), params.AsOf)
	if err != nil {
		respondError(c, err, "compute balances")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getSettlementSuggestions godoc
// @Summary Suggest settling payments
// @Description Returns at most n-1 advisory payments that would bring every balance to zero. Nothing is recorded.
// @Tags balances
// @Produce json
// @Param group_id path string true "Group ID"
// @Param asOf query string false "RFC3339 time, defaults to now"
// @Success 200 {object} dto.SettlementSuggestionsResponse
// @Security BearerAuth
// @Router /groups/{group_id}/settlements/suggestions [get]
func (h *balanceHandler) getSettlementSuggestions(c *gin.Context) {
	var params dto.GetBalancesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.queryService.GetSettlementSuggestions(c.Request.Context(), c.Param("group_id"), params.AsOf)
	if err != nil {
		respondError(c, err, "suggest settlements")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getSummary godoc
// @Summary Ledger summary
// @Tags balances
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {object} dto.SummaryResponse
// @Security BearerAuth
// @Router /groups/{group_id}/summary [get]
func (h *balanceHandler) getSummary(c *gin.Context) {
	resp, err := h.balanceService.Summary(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		respondError(c, err, "summarize ledger")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// executeQuery godoc
// @Summary Run a structured query
// @Description Dispatches a classified balance, settlement, history or summary query.
// @Tags balances
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param query body dto.StructuredQueryRequest true "Query"
// @Success 200 {object} dto.StructuredQueryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/queries [post]
func (h *balanceHandler) executeQuery(c *gin.Context) {
	var req dto.StructuredQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.queryService.ExecuteQuery(c.Request.Context(), c.Param("group_id"), req)
	if err != nil {
		respondError(c, err, "execute query")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func registerBalanceRoutes(group *gin.RouterGroup, balanceService portssvc.BalanceSvc, queryService portssvc.QueryFacadeSvc) {
	h := newBalanceHandler(balanceService, queryService)

	group.GET("/balances", h.getBalances)
	group.GET("/settlements/suggestions", h.getSettlementSuggestions)
	group.GET("/summary", h.getSummary)
	group.POST("/queries", h.executeQuery)
}
