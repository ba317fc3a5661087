package reservation

import (
	"strings"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
)

// ===============================
// Reservation Status
// ===============================

type Status string

const (
	StatusConfirmed        Status = "CONFIRMED"
	StatusPendingApprovals Status = "PENDING_APPROVALS"
	StatusApproved         Status = "APPROVED"
	StatusRejected         Status = "REJECTED"
	StatusCancelled        Status = "CANCELLED"
)

// LiveStatuses block competing bookings in the same scope.
var LiveStatuses = []Status{
	StatusConfirmed,
	StatusApproved,
	StatusPendingApprovals,
}

func (s Status) IsLive() bool {
	for _, l := range LiveStatuses {
		if s == l {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToUpper(strings.TrimSpace(raw))); s {
	case StatusConfirmed, StatusPendingApprovals, StatusApproved, StatusRejected, StatusCancelled:
		return s, nil
	}
	return "", httperr.ErrValidation("invalid_status")
}

// ===============================
// Validations
// ===============================

// InitialStatus is decided at creation only. A full-day rehearsal waits on
// the room's stakeholders; everything else is confirmed straight away.
func InitialStatus(kind Kind, fullDay bool) Status {
	if kind == KindRehearsal && fullDay {
		return StatusPendingApprovals
	}
	return StatusConfirmed
}

func CanCancel(current Status) error {
	if !current.IsLive() {
		return httperr.ErrValidation("invalid_state")
	}
	return nil
}

func CanEdit(current Status) error {
	if current.IsTerminal() {
		return httperr.ErrValidation("invalid_state")
	}
	return nil
}

func CanResolve(current Status) error {
	if current != StatusPendingApprovals {
		return httperr.ErrValidation("not_pending")
	}
	return nil
}
