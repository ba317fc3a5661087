package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/middleware"
	ucReservation "github.com/BruksfildServices01/rehearsal-scheduler/internal/usecase/reservation"
)

type ApprovalHandler struct {
	respond voteResponder
}

func NewApprovalHandler(respond voteResponder) *ApprovalHandler {
	return &ApprovalHandler{respond: respond}
}

// Respond records the caller's answer on one approval vote.
func (h *ApprovalHandler) Respond(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	res, err := h.respond.Execute(c.Request.Context(), ucReservation.RespondToVoteInput{
		VoteID:   id,
		Approved: req.Approved,
		Actor:    middleware.ActorFrom(c),
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_respond_approval")
		return
	}

	httpresp.OK(c, gin.H{
		"vote":        res.Vote,
		"reservation": res.Reservation,
		"outcome":     res.Outcome,
		"changed":     res.Changed,
	})
}
