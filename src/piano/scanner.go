package piano

import (
	"context"
	"log"
	"strings"
	"time"
)

// ----- Input Scanner ----- //

// DefaultScanInterval trades imperceptible key latency against scan
// load.
const DefaultScanInterval = 33 * time.Millisecond

// ScannerConfig ...
type ScannerConfig struct {
	ScanInterval time.Duration
	Verbose      bool // one status line per scan cycle
}

// Scanner polls the keys and pot on a fixed cadence, resolves the note
// that should be sounding and publishes it to the cell. It is the only
// writer of the playing state.
type Scanner struct {
	board    Board
	pins     Pins
	cell     *Cell
	interval time.Duration
	verbose  bool

	// last published pair, so unchanged cycles skip the publish and
	// the timer is never reprogrammed needlessly
	lastNote   int
	lastOctave int
}

// NewScanner ...
func NewScanner(board Board, pins Pins, cell *Cell, config ScannerConfig) *Scanner {
	interval := config.ScanInterval
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	return &Scanner{
		board:      board,
		pins:       pins,
		cell:       cell,
		interval:   interval,
		verbose:    config.Verbose,
		lastNote:   NoteNone,
		lastOctave: OctaveNone,
	}
}

// Run polls until the context is cancelled.
func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("Scanner interrupted.")
			return nil
		case <-ticker.C:
			s.scan()
		}
	}
}

func (s *Scanner) scan() {
	octave := OctaveFromAnalog(s.board.ReadAnalog(s.pins.Pot))

	// Scan C..B in order; the last pressed key encountered wins, so
	// the highest held note plays. Keys are active-low.
	var pressed [NumNotes]bool
	note := NoteNone
	for i := 0; i < NumNotes; i++ {
		if !s.board.ReadDigital(s.pins.Keys[i]) {
			pressed[i] = true
			note = i
		}
	}

	if s.verbose {
		printStatus(octave, &pressed, note)
	}

	playOctave := octave
	if note == NoteNone {
		playOctave = OctaveNone
	}
	if note == s.lastNote && playOctave == s.lastOctave {
		return
	}
	s.cell.Publish(note, playOctave)
	s.lastNote = note
	s.lastOctave = playOctave
}

func printStatus(octave int, pressed *[NumNotes]bool, note int) {
	var row strings.Builder
	for _, p := range pressed {
		if p {
			row.WriteByte('#')
		} else {
			row.WriteByte('.')
		}
	}
	if note == NoteNone {
		log.Printf("octave %d |%s| no note\n", octave, row.String())
		return
	}
	log.Printf("octave %d |%s| %s%d\n", octave, row.String(), NoteName(note), octave)
}
