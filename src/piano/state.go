package piano

import "sync"

// ----- Playing State ----- //

// Timer is the reprogrammable interrupt source behind the waveform
// generator. Reprogram sets the interval between fires; it must not
// block, because it runs inside the publish critical section.
type Timer interface {
	Reprogram(halfPeriodMicros int64)
}

// Cell holds the (note, octave) pair the generator is producing. It is
// written by the scanner and read by the interrupt path; the mutex is
// the hosted equivalent of suspending interrupt delivery, so the
// combined note+octave+timer update in Publish can never be observed
// half-done. This is the only critical section in the system and it
// stays a few assignments long.
type Cell struct {
	mu     sync.Mutex
	note   int
	octave int
	timer  Timer
}

// NewCell starts silent.
func NewCell(timer Timer) *Cell {
	return &Cell{
		note:   NoteNone,
		octave: OctaveNone,
		timer:  timer,
	}
}

// Publish atomically replaces the playing pair and reprograms the
// timer to the note's half-period. Publishing silence leaves the timer
// at its last rate; the fire path forces the output low instead of
// toggling.
func (c *Cell) Publish(note int, octave int) {
	c.mu.Lock()
	c.note = note
	c.octave = octave
	if note != NoteNone {
		c.timer.Reprogram(lookupHalfPeriod(note, octave))
	}
	c.mu.Unlock()
}

// Snapshot returns a consistent pair: both valid or both none.
func (c *Cell) Snapshot() (note int, octave int) {
	c.mu.Lock()
	note = c.note
	octave = c.octave
	c.mu.Unlock()
	return note, octave
}
