package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/timezone"
)

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

// parseMonth reads ?year=&month=. Missing values fall back to the current
// month when required, or to zero otherwise.
func parseMonth(c *gin.Context, required bool) (int, int, bool) {
	now := timezone.Now()

	year, ok := queryInt(c, "year", "invalid_year", "Invalid year.")
	if !ok {
		return 0, 0, false
	}
	month, ok := queryInt(c, "month", "invalid_month", "Invalid month.")
	if !ok {
		return 0, 0, false
	}

	if required {
		if year == 0 {
			year = now.Year()
		}
		if month == 0 {
			month = int(now.Month())
		}
	}

	return year, month, true
}

func queryInt(c *gin.Context, name, code, message string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		httperr.BadRequest(c, code, message)
		return 0, false
	}
	return v, true
}
