package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httpresp"
)

type RoomHandler struct {
	list roomReservationLister
}

func NewRoomHandler(list roomReservationLister) *RoomHandler {
	return &RoomHandler{list: list}
}

// Reservations lists a room's reservations, optionally for one month.
func (h *RoomHandler) Reservations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	year, month, ok := parseMonth(c, false)
	if !ok {
		return
	}

	list, err := h.list.Execute(c.Request.Context(), id, year, month)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_room_reservations")
		return
	}

	httpresp.List(c, list)
}
