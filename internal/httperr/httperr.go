package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func StatusOf(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[string]string{
	"invalid_interval":      "Start must be before end.",
	"invalid_kind":          "Unknown reservation kind.",
	"room_required":         "A rehearsal needs a room.",
	"band_required":         "A band show needs a band.",
	"room_not_found":        "Room not found.",
	"band_not_found":        "Band not found.",
	"time_conflict":         "The interval overlaps another reservation.",
	"reservation_not_found": "Reservation not found.",
	"vote_not_found":        "Approval not found.",
	"invalid_state":         "The reservation cannot change in its current state.",
	"missing_approved":      "The approved field is required.",
	"kind_immutable":        "The reservation kind cannot change.",
	"full_day_immutable":    "The full-day flag cannot change.",
	"invalid_status":        "Unknown reservation status.",
	"not_pending":           "The reservation is not awaiting approvals.",
	"not_owner":             "Only the owner or an admin can do this.",
	"not_voter":             "This approval belongs to another user.",
	"admin_only":            "Only an admin can do this.",
	"invalid_year":          "Invalid year.",
	"invalid_month":         "Invalid month.",
	"invalid_id":            "Invalid id.",
	"invalid_request":       "Invalid request body.",
}

// Respond writes err as a JSON error body. Business errors map through
// their Kind; anything else is a 500 with fallbackCode.
func Respond(c *gin.Context, err error, fallbackCode string) {
	var be BusinessError
	if errors.As(err, &be) {
		msg, ok := messages[be.Code]
		if !ok {
			msg = be.Code
		}
		Write(c, StatusOf(be.Kind), be.Code, msg)
		return
	}

	Internal(c, fallbackCode, "Internal error.")
}
