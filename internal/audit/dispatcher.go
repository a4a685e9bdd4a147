package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Event struct {
	UserID    *uint
	RequestID string
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
}

// Dispatcher writes events in the background; a full queue drops events
// instead of blocking the request.
type Dispatcher struct {
	sink  Sink
	queue chan Event
	wg    sync.WaitGroup
	once  sync.Once
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sink.Log(ctx, ev); err != nil {
			log.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
		cancel()
	}
}

// Dispatch is safe on a nil Dispatcher.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close flushes queued events. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}

// Actor identifies who triggered an audited action.
type Actor struct {
	UserID    *uint
	RequestID string
}

func (a Actor) Event(action, entity string, entityID uint, metadata any) Event {
	id := entityID
	return Event{
		UserID:    a.UserID,
		RequestID: a.RequestID,
		Action:    action,
		Entity:    entity,
		EntityID:  &id,
		Metadata:  metadata,
	}
}
