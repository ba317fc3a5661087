package reservation

import (
	"sort"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/models"
)

type Outcome string

const (
	OutcomeStillPending Outcome = "STILL_PENDING"
	OutcomeApproved     Outcome = "APPROVED"
	OutcomeRejected     Outcome = "REJECTED"
)

// Aggregate folds the votes of one reservation. A single rejection wins
// over everything else; approval needs a non-empty, fully approved set.
func Aggregate(votes []models.ApprovalVote) Outcome {
	if len(votes) == 0 {
		return OutcomeStillPending
	}

	approved := 0
	for _, v := range votes {
		if v.Approved == nil {
			continue
		}
		if !*v.Approved {
			return OutcomeRejected
		}
		approved++
	}

	if approved == len(votes) {
		return OutcomeApproved
	}
	return OutcomeStillPending
}

// Status is the reservation status an outcome moves to. STILL_PENDING
// reports false.
func (o Outcome) Status() (Status, bool) {
	switch o {
	case OutcomeApproved:
		return StatusApproved, true
	case OutcomeRejected:
		return StatusRejected, true
	}
	return "", false
}

// Stakeholders is the room's direct members plus every member of a band
// homed there, deduplicated, sorted, and without the owner.
func Stakeholders(owner uint, roomMembers []uint, homeBands []BandRef) []uint {
	seen := map[uint]struct{}{owner: {}}
	out := make([]uint, 0, len(roomMembers))

	add := func(id uint) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, id := range roomMembers {
		add(id)
	}
	for _, b := range homeBands {
		for _, id := range b.Members {
			add(id)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NewVotes creates one pending vote per stakeholder.
func NewVotes(reservationID uint, stakeholders []uint) []models.ApprovalVote {
	votes := make([]models.ApprovalVote, 0, len(stakeholders))
	for _, uid := range stakeholders {
		votes = append(votes, models.ApprovalVote{
			ReservationID: reservationID,
			UserID:        uid,
		})
	}
	return votes
}

// Voters lists the user ids holding a vote.
func Voters(votes []models.ApprovalVote) []uint {
	out := make([]uint, 0, len(votes))
	for _, v := range votes {
		out = append(out, v.UserID)
	}
	return out
}
