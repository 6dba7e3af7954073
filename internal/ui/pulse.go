package ui

import "time"

const (
	pulseStep     = 0.05
	pulseInterval = 50 * time.Millisecond
)

// Pulse is a triangle wave over [0,1] driving the border animation.
type Pulse struct {
	Phase float64
	dir   float64
}

// Step advances the phase by one increment, reversing at either end.
func (p *Pulse) Step() {
	if p.dir == 0 {
		p.dir = 1
	}
	p.Phase += pulseStep * p.dir
	switch {
	case p.Phase >= 1:
		p.Phase = 1
		p.dir = -1
	case p.Phase <= 0:
		p.Phase = 0
		p.dir = 1
	}
}
