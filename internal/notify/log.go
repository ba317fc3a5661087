package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes every event to the structured log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(l *zap.Logger) *LogNotifier {
	return &LogNotifier{log: l}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(_ context.Context, ev Event) error {
	fields := []zap.Field{
		zap.String("event_id", ev.ID.String()),
		zap.String("event", string(ev.Kind)),
		zap.Uint("reservation_id", ev.Reservation.ID),
		zap.String("reservation_kind", ev.Reservation.Kind),
		zap.Uints("recipients", ev.Recipients),
	}
	if ev.ActorID != nil {
		fields = append(fields, zap.Uint("actor_id", *ev.ActorID))
	}

	n.log.Info("reservation notification", fields...)
	return nil
}
