package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/group_ledger/internal/core/ports/services"
	"github.com/SscSPs/group_ledger/internal/dto"
	"github.com/SscSPs/group_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type participantHandler struct {
	participantService portssvc.ParticipantSvcFacade
}

func newParticipantHandler(participantService portssvc.ParticipantSvcFacade) *participantHandler {
	return &participantHandler{participantService: participantService}
}

// registerParticipant godoc
// @Summary Register a participant
// @Description Registers a participant in the group. Re-registering updates the display name and reactivates.
// @Tags participants
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param participant body dto.RegisterParticipantRequest true "Participant"
// @Success 200 {object} dto.ParticipantResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/participants [post]
func (h *participantHandler) registerParticipant(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.RegisterParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.participantService.Register(c.Request.Context(), c.Param("group_id"), req.ParticipantID, req.DisplayName, caller)
	if err != nil {
		respondError(c, err, "register participant")
		return
	}
	c.JSON(http.StatusOK, dto.ToParticipantResponse(p))
}

// listParticipants godoc
// @Summary List participants
// @Tags participants
// @Produce json
// @Param group_id path string true "Group ID"
// @Param includeInactive query bool false "Include deactivated participants"
// @Success 200 {object} dto.ListParticipantsResponse
// @Security BearerAuth
// @Router /groups/{group_id}/participants [get]
func (h *participantHandler) listParticipants(c *gin.Context) {
	var params dto.ListParticipantsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	participants, err := h.participantService.List(c.Request.Context(), c.Param("group_id"), params.IncludeInactive)
	if err != nil {
		respondError(c, err, "list participants")
		return
	}
	c.JSON(http.StatusOK, dto.ToListParticipantsResponse(participants))
}

// getParticipant godoc
// @Summary Resolve a participant
// @Tags participants
// @Produce json
// @Param group_id path string true "Group ID"
// @Param participant_id path string true "Participant ID"
// @Success 200 {object} dto.ParticipantResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/participants/{participant_id} [get]
func (h *participantHandler) getParticipant(c *gin.Context) {
	p, err := h.participantService.Resolve(c.Request.Context(), c.Param("group_id"), c.Param("participant_id"))
	if err != nil {
		respondError(c, err, "resolve participant")
		return
	}
	c.JSON(http.StatusOK, dto.ToParticipantResponse(p))
}

// setOptOut godoc
// @Summary Set mention opt-out
// @Tags participants
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param participant_id path string true "Participant ID"
// @Param body body dto.SetOptOutRequest true "Opt-out flag"
// @Success 200 {object} dto.ParticipantResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/participants/{participant_id}/opt-out [put]
func (h *participantHandler) setOptOut(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.SetOptOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.participantService.SetOptOut(c.Request.Context(), c.Param("group_id"), c.Param("participant_id"), *req.OptOut, caller)
	if err != nil {
		respondError(c, err, "update opt-out")
		return
	}
	c.JSON(http.StatusOK, dto.ToParticipantResponse(p))
}

// deactivateParticipant godoc
// @Summary Deactivate a participant
// @Description Soft-deletes the participant. Ledger history keeps resolving.
// @Tags participants
// @Param group_id path string true "Group ID"
// @Param participant_id path string true "Participant ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/participants/{participant_id} [delete]
func (h *participantHandler) deactivateParticipant(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	groupID, participantID := c.Param("group_id"), c.Param("participant_id")

	if err := h.participantService.Deactivate(c.Request.Context(), groupID, participantID, caller); err != nil {
		respondError(c, err, "deactivate participant")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Participant deactivated",
		slog.String("group_id", groupID), slog.String("participant_id", participantID))
	c.Status(http.StatusNoContent)
}

func registerParticipantRoutes(group *gin.RouterGroup, participantService portssvc.ParticipantSvcFacade) {
	h := newParticipantHandler(participantService)

	participants := group.Group("/participants")
	{
		participants.POST("", h.registerParticipant)
		participants.GET("", h.listParticipants)
		participants.GET("/:participant_id", h.getParticipant)
		participants.PUT("/:participant_id/opt-out", h.setOptOut)
		participants.DELETE("/:participant_id", h.deactivateParticipant)
	}
}
