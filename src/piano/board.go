package piano

import "sync"

// ----- Board ----- //

// Board is the capability the engine needs from the hardware: indexed
// digital/analog reads for the keys and pot, digital writes and
// toggles for the speaker pin. Everything above this interface is
// hardware-agnostic.
type Board interface {
	ReadDigital(pin int) bool
	ReadAnalog(pin int) int // 10-bit, 0..1023
	WriteDigital(pin int, high bool)
	Toggle(pin int)
}

// Pins is the wiring table. Key pins use pull-ups, so a pressed key
// reads low.
type Pins struct {
	Keys    [NumNotes]int
	Pot     int
	Speaker int
}

// DefaultPins mirrors the reference wiring: keys on 2..13 in scan
// order C..B, pot on 14 (A0), speaker on 18.
func DefaultPins() Pins {
	return Pins{
		Keys:    [NumNotes]int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13},
		Pot:     14,
		Speaker: 18,
	}
}

// ----- MemBoard ----- //

const numBoardPins = 32

// MemBoard is an in-memory Board. It is the input hub for the hosted
// frontends (MIDI, terminal, serial) and the substitute input source
// in tests.
type MemBoard struct {
	mu      sync.Mutex
	pins    Pins
	digital [numBoardPins]bool
	analog  [numBoardPins]int
}

// NewMemBoard returns a board with all key pins pulled high
// (unpressed) and the pot centered.
func NewMemBoard(pins Pins) *MemBoard {
	b := &MemBoard{pins: pins}
	for _, pin := range pins.Keys {
		b.digital[pin] = true
	}
	b.analog[pins.Pot] = analogMax / 2
	return b
}

// ReadDigital ...
func (b *MemBoard) ReadDigital(pin int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.digital[pin]
}

// ReadAnalog ...
func (b *MemBoard) ReadAnalog(pin int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.analog[pin]
}

// WriteDigital ...
func (b *MemBoard) WriteDigital(pin int, high bool) {
	b.mu.Lock()
	b.digital[pin] = high
	b.mu.Unlock()
}

// Toggle ...
func (b *MemBoard) Toggle(pin int) {
	b.mu.Lock()
	b.digital[pin] = !b.digital[pin]
	b.mu.Unlock()
}

// Press pulls the key's pin low, as a closed switch against a pull-up
// would.
func (b *MemBoard) Press(note int) {
	b.WriteDigital(b.pins.Keys[note], false)
}

// Release ...
func (b *MemBoard) Release(note int) {
	b.WriteDigital(b.pins.Keys[note], true)
}

// SetPot clamps the value to 10-bit range and latches it on the pot
// pin.
func (b *MemBoard) SetPot(value int) {
	if value < 0 {
		value = 0
	}
	if value > analogMax {
		value = analogMax
	}
	b.mu.Lock()
	b.analog[b.pins.Pot] = value
	b.mu.Unlock()
}
