package notify

import (
	"context"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/audit"
)

// AuditNotifier keeps a row per event in the audit log.
type AuditNotifier struct {
	logger *audit.Logger
}

func NewAuditNotifier(l *audit.Logger) *AuditNotifier {
	return &AuditNotifier{logger: l}
}

func (n *AuditNotifier) Name() string { return "audit" }

func (n *AuditNotifier) Notify(ctx context.Context, ev Event) error {
	reservationID := ev.Reservation.ID

	return n.logger.Log(ctx, audit.Entry{
		UserID:   ev.ActorID,
		Action:   ev.Action(),
		Entity:   "reservation",
		EntityID: &reservationID,
		Metadata: map[string]any{
			"event_id":   ev.ID.String(),
			"recipients": ev.Recipients,
			"status":     ev.Reservation.Status,
		},
	})
}
