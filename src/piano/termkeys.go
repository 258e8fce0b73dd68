package piano

import (
	"context"
	"log"
	"os"
	"time"

	"golang.org/x/term"
)

// Home-row piano layout: sharps sit on the row above their naturals.
var termKeyBindings = map[byte]int{
	'a': NoteC,
	'w': NoteCSharp,
	's': NoteD,
	'e': NoteDSharp,
	'd': NoteE,
	'f': NoteF,
	't': NoteFSharp,
	'g': NoteG,
	'y': NoteGSharp,
	'h': NoteA,
	'u': NoteASharp,
	'j': NoteB,
}

// Terminals report key presses but never key releases, so a pressed
// key is held for this long and re-armed on repeat.
const termHoldTime = 300 * time.Millisecond

// RunTerminalInput plays the keyboard in raw mode: a w s e d f t g y
// h u j are C..B, digits select the octave, q quits.
func RunTerminalInput(ctx context.Context, board *MemBoard) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer func() {
		if err := term.Restore(fd, oldState); err != nil {
			log.Printf("failed to restore terminal: %v\n", err)
		}
	}()
	log.Printf("terminal input: a w s e d f t g y h u j play C..B, %d-%d select octave, q quits\n", BaseOctave, MaxOctave)

	keyCh := make(chan byte, 64)
	go func() {
		defer close(keyCh)
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n > 0 {
				keyCh <- buf[0]
			}
		}
	}()

	var release [NumNotes]*time.Timer
	defer func() {
		for _, t := range release {
			if t != nil {
				t.Stop()
			}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			log.Println("terminal input interrupted.")
			return nil
		case b, ok := <-keyCh:
			if !ok {
				return nil
			}
			switch {
			case b == 'q' || b == 3: // q or Ctrl-C in raw mode
				log.Println("terminal input: quit")
				return nil
			case b >= '0' && b <= '9':
				board.SetPot(AnalogForOctave(ClampOctave(int(b - '0'))))
			default:
				key, ok := termKeyBindings[b]
				if !ok {
					continue
				}
				board.Press(key)
				if release[key] == nil {
					k := key
					release[k] = time.AfterFunc(termHoldTime, func() {
						board.Release(k)
					})
				} else {
					release[key].Reset(termHoldTime)
				}
			}
		}
	}
}
