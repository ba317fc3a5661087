package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/middleware"
)

type MeUseCases struct {
	Owned    userReservationLister
	Shared   userReservationLister
	Calendar calendarBuilder
	Pending  approvalLister
}

type MeHandler struct {
	uc MeUseCases
}

func NewMeHandler(uc MeUseCases) *MeHandler {
	return &MeHandler{uc: uc}
}

func (h *MeHandler) Reservations(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	list, err := h.uc.Owned.Execute(c.Request.Context(), actor.UserID)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_reservations")
		return
	}

	httpresp.List(c, list)
}

// Shared lists every reservation in the rooms the caller belongs to.
func (h *MeHandler) Shared(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	list, err := h.uc.Shared.Execute(c.Request.Context(), actor.UserID)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_shared")
		return
	}

	httpresp.List(c, list)
}

func (h *MeHandler) Calendar(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	year, month, ok := parseMonth(c, true)
	if !ok {
		return
	}

	cal, err := h.uc.Calendar.Execute(c.Request.Context(), actor.UserID, year, month)
	if err != nil {
		httperr.Respond(c, err, "failed_to_build_calendar")
		return
	}

	httpresp.OK(c, cal)
}

func (h *MeHandler) PendingApprovals(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	votes, err := h.uc.Pending.Execute(c.Request.Context(), actor.UserID)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_pending")
		return
	}

	httpresp.List(c, votes)
}
