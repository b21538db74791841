package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/group_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/group_ledger/internal/core/ports/services"
	"github.com/SscSPs/group_ledger/internal/dto"
	"github.com/SscSPs/group_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	queryService  portssvc.QueryFacadeSvc
}

func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade, queryService portssvc.QueryFacadeSvc) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService, queryService: queryService}
}

// recordExpense godoc
// @Summary Record an expense
// @Description Appends an expense paid by one participant on behalf of the split's beneficiaries.
// @Tags ledger
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param expense body dto.RecordExpenseRequest true "Expense"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown participant"
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/expenses [post]
func (h *ledgerHandler) recordExpense(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	event, err := h.ledgerService.RecordExpense(c.Request.Context(), c.Param("group_id"), req, caller)
	if err != nil {
		respondError(c, err, "record expense")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(domain.NewExpenseEntry(*event)))
}

// recordExtractedExpense godoc
// @Summary Record an extracted expense
// @Description Records an expense from a chat extraction. "everyone" splits among active participants; mentioned beneficiaries always include the payer.
// @Tags ledger
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param expense body dto.RecordExtractedExpenseRequest true "Extraction"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/expenses/extracted [post]
func (h *ledgerHandler) recordExtractedExpense(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.RecordExtractedExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	event, err := h.queryService.RecordExtractedExpense(c.Request.Context(), c.Param("group_id"), req, caller)
	if err != nil {
		respondError(c, err, "record expense")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(domain.NewExpenseEntry(*event)))
}

// recordSettlement godoc
// @Summary Record a settlement
// @Description Appends a real-world payment from payer to payee.
// @Tags ledger
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param settlement body dto.RecordSettlementRequest true "Settlement"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/settlements [post]
func (h *ledgerHandler) recordSettlement(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.RecordSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	event, err := h.ledgerService.RecordSettlement(c.Request.Context(), c.Param("group_id"), req, caller)
	if err != nil {
		respondError(c, err, "record settlement")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(domain.NewSettlementEntry(*event)))
}

// reverseEntry godoc
// @Summary Reverse a ledger entry
// @Description Appends a compensating entry that cancels an earlier expense or settlement.
// @Tags ledger
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param sequence path int true "Sequence of the entry to reverse"
// @Param reversal body dto.ReverseEntryRequest false "Reason"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already reversed"
// @Security BearerAuth
// @Router /groups/{group_id}/entries/{sequence}/reversal [post]
func (h *ledgerHandler) reverseEntry(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	sequence, err := strconv.ParseInt(c.Param("sequence"), 10, 64)
	if err != nil {
		respondBindError(c, err)
		return
	}
	var req dto.ReverseEntryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	event, err := h.ledgerService.ReverseEntry(c.Request.Context(), c.Param("group_id"), sequence, req, caller)
	if err != nil {
		respondError(c, err, "reverse entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(domain.NewReversalEntry(*event)))
}

// listEntries godoc
// @Summary List ledger history
// @Description Pages through the group's entries ordered by occurrence time, then sequence.
// @Tags ledger
// @Produce json
// @Param group_id path string true "Group ID"
// @Param since query string false "RFC3339 lower bound (inclusive)"
// @Param until query string false "RFC3339 upper bound (inclusive)"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.queryService.GetHistory(c.Request.Context(), c.Param("group_id"), params)
	if err != nil {
		respondError(c, err, "list entries")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Debug("Listed ledger entries", slog.Int("count", len(resp.Entries)))
	c.JSON(http.StatusOK, resp)
}

func registerLedgerRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, queryService portssvc.QueryFacadeSvc) {
	h := newLedgerHandler(ledgerService, queryService)

	group.POST("/expenses", h.recordExpense)
	group.POST("/expenses/extracted", h.recordExtractedExpense)
	group.POST("/settlements", h.recordSettlement)
	group.GET("/entries", h.listEntries)
	group.POST("/entries/:sequence/reversal", h.reverseEntry)
}
