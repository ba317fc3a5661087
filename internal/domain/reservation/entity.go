package reservation

import (
	"time"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(r *models.Reservation, now time.Time) error {
	if err := CanCancel(Status(r.Status)); err != nil {
		return err
	}

	r.Status = string(StatusCancelled)
	r.CancelledAt = &now
	return nil
}

// Resolve applies an aggregate outcome. It only moves a reservation that is
// still waiting on approvals and reports whether the status changed.
func Resolve(r *models.Reservation, o Outcome) bool {
	if Status(r.Status) != StatusPendingApprovals {
		return false
	}

	next, ok := o.Status()
	if !ok {
		return false
	}

	r.Status = string(next)
	return true
}

// RecordVote sets the response. A later response overwrites an earlier one.
func RecordVote(v *models.ApprovalVote, approved bool, now time.Time) {
	answer := approved
	v.Approved = &answer
	v.RespondedAt = &now
}

func ResetVote(v *models.ApprovalVote) {
	v.Approved = nil
	v.RespondedAt = nil
}

// Actor is the identified caller of an operation.
type Actor struct {
	UserID uint
	Admin  bool
}

func (a Actor) CanManage(r *models.Reservation) bool {
	return a.Admin || a.UserID == r.OwnerID
}

// Recipients unions the given id sets in order, without duplicates and
// without the excluded ids.
func Recipients(exclude []uint, sets ...[]uint) []uint {
	seen := make(map[uint]struct{}, len(exclude))
	for _, id := range exclude {
		seen[id] = struct{}{}
	}

	var out []uint
	for _, set := range sets {
		for _, id := range set {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
