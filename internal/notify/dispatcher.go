package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/pkg/logger"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/pkg/metrics"
)

// Notifier is one delivery channel for reservation events.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, ev Event) error
}

// Hook is what the workflow fires events into. It never fails back.
type Hook interface {
	Dispatch(ev Event)
}

const (
	defaultBuffer = 100
	notifyTimeout = 5 * time.Second
)

type Dispatcher struct {
	notifiers []Notifier
	metrics   *metrics.Metrics
	log       *zap.Logger

	queue chan Event
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(
	buffer int,
	m *metrics.Metrics,
	notifiers ...Notifier,
) *Dispatcher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	d := &Dispatcher{
		notifiers: notifiers,
		metrics:   m,
		log:       logger.Get().Named("notify"),
		queue:     make(chan Event, buffer),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		for _, n := range d.notifiers {
			d.deliver(n, ev)
		}
	}
}

func (d *Dispatcher) deliver(n Notifier, ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	err := safeNotify(ctx, n, ev)
	if err != nil {
		d.count(ev, "failed")
		d.log.Error("notification failed",
			zap.String("notifier", n.Name()),
			zap.String("event", string(ev.Kind)),
			zap.Uint("reservation_id", ev.Reservation.ID),
			zap.Error(err),
		)
		return
	}
	d.count(ev, "sent")
}

func safeNotify(ctx context.Context, n Notifier, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()
	return n.Notify(ctx, ev)
}

// Dispatch enqueues ev. A full or closed queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.count(ev, "dropped")
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.count(ev, "dropped")
		d.log.Warn("notification queue full, dropping event",
			zap.String("event", string(ev.Kind)),
			zap.Uint("reservation_id", ev.Reservation.ID),
		)
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) count(ev Event, result string) {
	if d.metrics == nil {
		return
	}
	d.metrics.NotificationsTotal.WithLabelValues(ev.Kind.Label(), result).Inc()
}

var _ Hook = (*Dispatcher)(nil)
