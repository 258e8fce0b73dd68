package piano

import (
	"fmt"
	"testing"
	"time"
)

func newSpeakerRig() (*MemBoard, *Speaker, *Cell) {
	pins := DefaultPins()
	board := NewMemBoard(pins)
	speaker := NewSpeaker(board, pins.Speaker)
	cell := NewCell(speaker)
	gen := NewGenerator(cell, speaker, pins.Speaker)
	speaker.SetInterrupt(gen.Fire)
	return board, speaker, cell
}

func sampleAt(buf []byte, i int) int16 {
	return int16(buf[bytesPerSample*i]) | int16(buf[bytesPerSample*i+1])<<8
}

func TestRenderedFrequency(t *testing.T) {
	_, speaker, cell := newSpeakerRig()
	cell.Publish(NoteA, 4)

	buf := make([]byte, bufferSizeInBytes)
	buffers := 48
	risingEdges := 0
	var prev int16
	for n := 0; n < buffers; n++ {
		if _, err := speaker.Read(buf); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		for i := 0; i < samplesPerCycle; i++ {
			cur := sampleAt(buf, i)
			if prev <= 0 && cur > 0 {
				risingEdges++
			}
			prev = cur
		}
	}
	seconds := float64(buffers*samplesPerCycle) / sampleRate
	got := float64(risingEdges) / seconds
	want := 1e6 / float64(2*lookupHalfPeriod(NoteA, 4))
	if got < want*0.99 || got > want*1.01 {
		t.Errorf("expected ~%.1f Hz from the sample stream, but got: %.1f Hz", want, got)
	}
}

func TestSilenceRendersFlat(t *testing.T) {
	_, speaker, _ := newSpeakerRig()
	buf := make([]byte, bufferSizeInBytes)
	if _, err := speaker.Read(buf); err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	for i := 0; i < samplesPerCycle; i++ {
		if sampleAt(buf, i) != 0 {
			t.Fatalf("expected silence at sample %d, but got: %v", i, sampleAt(buf, i))
		}
	}
}

func TestNoteOffSettlesLow(t *testing.T) {
	_, speaker, cell := newSpeakerRig()
	cell.Publish(NoteC, 6)
	buf := make([]byte, bufferSizeInBytes)
	if _, err := speaker.Read(buf); err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	cell.Publish(NoteNone, OctaveNone)
	// the next fire forces the pin low, at most one half-period away;
	// skip one buffer and the rest must be flat
	for n := 0; n < 2; n++ {
		if _, err := speaker.Read(buf); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
	}
	for i := 0; i < samplesPerCycle; i++ {
		if sampleAt(buf, i) != 0 {
			t.Fatalf("expected flat output after note off, but got %v at sample %d", sampleAt(buf, i), i)
		}
	}
}

func TestRenderThroughput(t *testing.T) {
	_, speaker, cell := newSpeakerRig()
	cell.Publish(NoteE, 5)
	buf := make([]byte, bufferSizeInBytes)
	times := 1000
	start := time.Now()
	for n := 0; n < times; n++ {
		if _, err := speaker.Read(buf); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
	}
	average := time.Since(start) / time.Duration(times)
	budget := time.Second * samplesPerCycle / sampleRate
	fmt.Printf("average render time: %v (budget %v)\n", average, budget)
	if average > budget {
		t.Errorf("rendering slower than real time: %v per %v buffer", average, budget)
	}
}
