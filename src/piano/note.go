package piano

import "math"

// ----- Notes ----- //

// Semitone indices in scan order. When several keys are held, the
// highest index wins.
const (
	NoteC = iota
	NoteCSharp
	NoteD
	NoteDSharp
	NoteE
	NoteF
	NoteFSharp
	NoteG
	NoteGSharp
	NoteA
	NoteASharp
	NoteB
	NumNotes
)

// NoteNone / OctaveNone mark silence. They are always published as a
// pair: a playing state is either fully valid or fully none.
const (
	NoteNone   = -1
	OctaveNone = -1
)

var noteNames = [NumNotes]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// NoteName ...
func NoteName(note int) string {
	if note == NoteNone {
		return "none"
	}
	return noteNames[note]
}

// ----- Tuning ----- //

const tuningA4 = 440.0

// Playable octave range. Chosen so every half-period stays well inside
// microsecond timer resolution.
const (
	BaseOctave = 2
	MaxOctave  = 6
)
const numOctaves = MaxOctave - BaseOctave + 1

// Frequency returns the equal-tempered frequency in Hz, referenced to
// A4 = 440 Hz at octave 4.
func Frequency(note int, octave int) float64 {
	return tuningA4 * math.Pow(2, float64(note-NoteA)/12+float64(octave-4))
}

// PeriodMicros returns the waveform period in whole microseconds.
// Fractional microseconds truncate, matching µs timer hardware.
func PeriodMicros(note int, octave int) int64 {
	return int64(1e6 / Frequency(note, octave))
}

// HalfPeriodMicros returns the interval between output toggles: two
// timer fires per waveform cycle.
func HalfPeriodMicros(note int, octave int) int64 {
	return PeriodMicros(note, octave) / 2
}

// halfPeriods[octave-BaseOctave][note], precomputed once so the
// publish path never touches floating point.
var halfPeriods = buildHalfPeriods()

func buildHalfPeriods() [numOctaves][NumNotes]int64 {
	var table [numOctaves][NumNotes]int64
	for octave := BaseOctave; octave <= MaxOctave; octave++ {
		for note := 0; note < NumNotes; note++ {
			table[octave-BaseOctave][note] = HalfPeriodMicros(note, octave)
		}
	}
	return table
}

func lookupHalfPeriod(note int, octave int) int64 {
	return halfPeriods[octave-BaseOctave][note]
}

// ----- Octave selector ----- //

const analogMax = 1023

// OctaveFromAnalog quantizes a 10-bit pot reading into
// [BaseOctave, MaxOctave]: scale by the octave count, then divide by
// 1024 via a right shift.
func OctaveFromAnalog(reading int) int {
	return BaseOctave + (reading*numOctaves)>>10
}

// AnalogForOctave returns a pot reading in the middle of the band that
// quantizes back to the given octave. Used by frontends that know the
// octave directly (MIDI, terminal) instead of a physical pot.
func AnalogForOctave(octave int) int {
	return ((octave-BaseOctave)*1024 + 512) / numOctaves
}

// ClampOctave ...
func ClampOctave(octave int) int {
	if octave < BaseOctave {
		return BaseOctave
	}
	if octave > MaxOctave {
		return MaxOctave
	}
	return octave
}
