package piano

import (
	"context"
	"log"

	"gitlab.com/gomidi/rtmididrv"
)

// ListenToMidiIn opens the first MIDI input device and streams its
// raw messages until the context is cancelled.
func ListenToMidiIn(ctx context.Context) <-chan []byte {
	ch := make(chan []byte, 65536)
	go func() {
		drv, err := rtmididrv.New()
		if err != nil {
			log.Printf("midi input: failed to initialize driver: %v\n", err)
			return
		}
		defer func() {
			if err := drv.Close(); err != nil {
				log.Printf("midi input: error while closing driver: %v\n", err)
			}
		}()
		ins, err := drv.Ins()
		if err != nil {
			log.Printf("midi input: failed to list devices: %v\n", err)
			return
		}
		if len(ins) == 0 {
			log.Println("midi input: no device found")
			return
		}
		in := ins[0]
		if err := in.Open(); err != nil {
			log.Printf("midi input: failed to open %v: %v\n", in, err)
			return
		}
		log.Printf("midi input: opened %s\n", in.String())
		defer func() {
			if err := in.Close(); err != nil {
				log.Printf("midi input: error while closing device: %v\n", err)
			}
		}()
		if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
			ch <- data
		}); err != nil {
			log.Printf("midi input: failed to set listener: %v\n", err)
		}
		defer func() {
			if err := in.StopListening(); err != nil {
				log.Printf("midi input: failed to stop listening: %v\n", err)
			}
		}()
		defer close(ch)
		<-ctx.Done()
	}()
	return ch
}

// RunMidiInput plays the first MIDI input device on the board's keys.
// A note-on presses the key for the note's pitch class and retunes the
// pot to the note's octave (clamped to the playable range); the engine
// stays monophonic, so chords resolve by the usual highest-key rule.
func RunMidiInput(ctx context.Context, board *MemBoard) error {
	ch := ListenToMidiIn(ctx)
	// per-pitch-class hold counts, so overlapping note-ons on the same
	// key release only after the last note-off
	var held [NumNotes]int
	for {
		select {
		case <-ctx.Done():
			log.Println("MIDI input interrupted.")
			return nil
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			applyMidiMessage(data, board, &held)
		}
	}
}

func applyMidiMessage(data []byte, board *MemBoard, held *[NumNotes]int) {
	if len(data) < 3 {
		return
	}
	note := int(data[1])
	key := note % NumNotes
	if data[0]>>4 == 8 || data[0]>>4 == 9 && data[2] == 0 {
		if held[key] > 0 {
			held[key]--
		}
		if held[key] == 0 {
			board.Release(key)
		}
	} else if data[0]>>4 == 9 && data[2] > 0 {
		// MIDI octave convention: note 60 = C4
		board.SetPot(AnalogForOctave(ClampOctave(note/12 - 1)))
		board.Press(key)
		held[key]++
	}
}
