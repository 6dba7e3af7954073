package notify

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Tone is a single beep. Hz is kept for sinks that can synthesize a
// frequency; the bell only honours Duration.
type Tone struct {
	Hz       int
	Duration time.Duration
}

// Cues maps events to the tones played for them.
var Cues = map[Kind][]Tone{
	Click:    {clickTone},
	Add:      addTones,
	Edit:     addTones,
	Complete: {{1000, 80 * time.Millisecond}, {1200, 80 * time.Millisecond}},
	Delete:   {deleteTone},
	Clear:    {deleteTone},
}

var (
	clickTone  = Tone{800, 50 * time.Millisecond}
	deleteTone = Tone{400, 100 * time.Millisecond}
	addTones   = []Tone{{600, 50 * time.Millisecond}, {900, 50 * time.Millisecond}}
)

// BellSink renders sound cues as terminal bells, one per tone, spaced by the
// tone duration.
type BellSink struct {
	mu    sync.Mutex
	w     io.Writer
	muted atomic.Bool
	sleep func(ctx context.Context, d time.Duration)
}

// NewBellSink writes bells to w.
func NewBellSink(w io.Writer, enabled bool) *BellSink {
	s := &BellSink{w: w, sleep: sleepCtx}
	s.muted.Store(!enabled)
	return s
}

// Enabled reports whether sound is on.
func (s *BellSink) Enabled() bool { return !s.muted.Load() }

// Toggle flips sound on or off and returns the new state.
func (s *BellSink) Toggle() bool {
	for {
		old := s.muted.Load()
		if s.muted.CompareAndSwap(old, !old) {
			return old
		}
	}
}

func (s *BellSink) Name() string { return "bell" }

func (s *BellSink) Accepts(ev Event) bool {
	_, ok := Cues[ev.Kind]
	return ok && s.Enabled()
}

func (s *BellSink) Deliver(ctx context.Context, ev Event) error {
	for _, tone := range Cues[ev.Kind] {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.mu.Lock()
		_, err := io.WriteString(s.w, "\a")
		s.mu.Unlock()
		if err != nil {
			return err
		}
		s.sleep(ctx, tone.Duration)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
