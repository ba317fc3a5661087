package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/middleware"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
	ucReservation "github.com/BruksfildServices01/rehearsal-scheduler/internal/usecase/reservation"
)

// ======================================================
// HANDLER
// ======================================================

type ReservationUseCases struct {
	Create    reservationCreator
	Update    reservationUpdater
	Cancel    reservationCanceller
	Override  reservationOverrider
	Delete    reservationDeleter
	Get       reservationGetter
	ByStatus  reservationStatusLister
	All       reservationAllLister
	Approvals approvalLister
}

type ReservationHandler struct {
	uc ReservationUseCases
}

func NewReservationHandler(uc ReservationUseCases) *ReservationHandler {
	return &ReservationHandler{uc: uc}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReservationRequest struct {
	Kind    string    `json:"kind" binding:"required"`
	RoomID  *uint     `json:"room_id"`
	BandID  *uint     `json:"band_id"`
	Start   time.Time `json:"start_time" binding:"required"`
	End     time.Time `json:"end_time" binding:"required"`
	FullDay bool      `json:"full_day"`
	Color   string    `json:"color"`
	Notes   string    `json:"notes" binding:"max=500"`
}

type UpdateReservationRequest struct {
	Kind    string    `json:"kind"`
	FullDay *bool     `json:"full_day"`
	RoomID  *uint     `json:"room_id"`
	BandID  *uint     `json:"band_id"`
	Start   time.Time `json:"start_time" binding:"required"`
	End     time.Time `json:"end_time" binding:"required"`
	Color   *string   `json:"color"`
	Notes   *string   `json:"notes"`
}

type DecisionRequest struct {
	Approved *bool `json:"approved"`
}

// ======================================================
// WRITES
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	r, err := h.uc.Create.Execute(c.Request.Context(), ucReservation.CreateReservationInput{
		OwnerID: actor.UserID,
		Kind:    req.Kind,
		RoomID:  req.RoomID,
		BandID:  req.BandID,
		Start:   req.Start,
		End:     req.End,
		FullDay: req.FullDay,
		Color:   req.Color,
		Notes:   req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_reservation")
		return
	}

	httpresp.Created(c, r)
}

func (h *ReservationHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	r, err := h.uc.Update.Execute(c.Request.Context(), ucReservation.UpdateReservationInput{
		ID:      id,
		Actor:   middleware.ActorFrom(c),
		Kind:    req.Kind,
		FullDay: req.FullDay,
		RoomID:  req.RoomID,
		BandID:  req.BandID,
		Start:   req.Start,
		End:     req.End,
		Color:   req.Color,
		Notes:   req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_update_reservation")
		return
	}

	httpresp.OK(c, r)
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	r, err := h.uc.Cancel.Execute(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		httperr.Respond(c, err, "failed_to_cancel_reservation")
		return
	}

	httpresp.OK(c, r)
}

func (h *ReservationHandler) Override(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	r, err := h.uc.Override.Execute(c.Request.Context(), ucReservation.OverridePendingInput{
		ID:       id,
		Approved: req.Approved,
		Actor:    middleware.ActorFrom(c),
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_override_reservation")
		return
	}

	httpresp.OK(c, r)
}

func (h *ReservationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.uc.Delete.Execute(c.Request.Context(), id, middleware.ActorFrom(c)); err != nil {
		httperr.Respond(c, err, "failed_to_delete_reservation")
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// READS
// ======================================================

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	r, err := h.uc.Get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_reservation")
		return
	}

	httpresp.OK(c, r)
}

// List filters by ?status=. Without it only admins get the full listing.
func (h *ReservationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var list []models.Reservation
	var err error
	if status := c.Query("status"); status != "" {
		list, err = h.uc.ByStatus.Execute(ctx, status)
	} else {
		list, err = h.uc.All.Execute(ctx, middleware.ActorFrom(c))
	}
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_reservations")
		return
	}

	httpresp.List(c, list)
}

func (h *ReservationHandler) Approvals(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	votes, err := h.uc.Approvals.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_approvals")
		return
	}

	httpresp.List(c, votes)
}
