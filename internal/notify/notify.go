// Package notify delivers cosmetic feedback for task events: sound cues,
// desktop notifications and the user's hook command. Delivery is
// fire-and-forget; callers never wait on a sink and never see its errors.
package notify

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// Kind names an event.
type Kind string

const (
	Click    Kind = "click"
	Add      Kind = "add"
	Complete Kind = "complete"
	Reopen   Kind = "reopen"
	Edit     Kind = "edit"
	Delete   Kind = "delete"
	Clear    Kind = "clear_completed"
	Overdue  Kind = "overdue"
)

// IsMutation reports whether k corresponds to a store change.
func (k Kind) IsMutation() bool {
	switch k {
	case Add, Complete, Reopen, Edit, Delete, Clear:
		return true
	}
	return false
}

// Event is one message to the sinks.
type Event struct {
	Kind     Kind
	TaskID   string
	TaskText string
	// Title and Body are set for events meant for the desktop.
	Title  string
	Body   string
	Urgent bool
}

// Sink receives events. Deliver may block; the dispatcher runs each sink on
// its own goroutine.
type Sink interface {
	Name() string
	Accepts(Event) bool
	Deliver(ctx context.Context, ev Event) error
}

// queueSize is the per-sink backlog before events are dropped.
const queueSize = 32

// Dispatcher fans events out to sinks without blocking the sender.
type Dispatcher struct {
	logger *log.Logger
	ctx    context.Context
	cancel context.CancelFunc
	queues []chan Event
	sinks  []Sink
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts one worker per sink. A nil logger discards sink
// errors.
func NewDispatcher(logger *log.Logger, sinks ...Sink) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{logger: logger, ctx: ctx, cancel: cancel}
	for _, s := range sinks {
		if s == nil {
			continue
		}
		q := make(chan Event, queueSize)
		d.sinks = append(d.sinks, s)
		d.queues = append(d.queues, q)
		d.wg.Add(1)
		go d.run(s, q)
	}
	return d
}

func (d *Dispatcher) run(s Sink, q <-chan Event) {
	defer d.wg.Done()
	for ev := range q {
		if d.ctx.Err() != nil {
			continue
		}
		if err := s.Deliver(d.ctx, ev); err != nil && d.logger != nil {
			d.logger.Warn("notification failed", "sink", s.Name(), "event", ev.Kind, "err", err)
		}
	}
}

// Send queues ev for every sink that accepts it. A full queue drops the
// event for that sink. Send after Close is a no-op.
func (d *Dispatcher) Send(ev Event) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	for i, s := range d.sinks {
		if !s.Accepts(ev) {
			continue
		}
		select {
		case d.queues[i] <- ev:
		default:
			if d.logger != nil {
				d.logger.Debug("notification dropped", "sink", s.Name(), "event", ev.Kind)
			}
		}
	}
}

// Close stops accepting events and waits for queued deliveries. When ctx
// ends first, in-flight deliveries are cancelled and the rest discarded.
func (d *Dispatcher) Close(ctx context.Context) {
	if d == nil {
		return
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, q := range d.queues {
		close(q)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		d.cancel()
		<-done
	}
	d.cancel()
}
