package piano

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"strings"

	"go.bug.st/serial"
)

// Frame protocol from a microcontroller scanning the physical keys:
// one line per scan, "K<hex mask> P<pot>", e.g. "K040 P512". Bit i of
// the mask is key i pressed (C = bit 0), pot is the raw 10-bit
// reading.

// RunSerialInput feeds frames from a serial key scanner into the
// board until the context is cancelled.
func RunSerialInput(ctx context.Context, device string, baud int, board *MemBoard) error {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(device, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", device, err)
	}
	log.Printf("serial input: opened %s at %d baud\n", device, baud)
	go func() {
		// unblocks the pending read below
		<-ctx.Done()
		if err := port.Close(); err != nil {
			log.Printf("error while closing serial port: %v\n", err)
		}
	}()

	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		if err := applySerialFrame(strings.TrimSpace(scanner.Text()), board); err != nil {
			log.Printf("serial input: dropped frame: %v\n", err)
		}
	}
	select {
	case <-ctx.Done():
		log.Println("serial input interrupted.")
		return nil
	default:
		return scanner.Err()
	}
}

func applySerialFrame(line string, board *MemBoard) error {
	if line == "" {
		return nil
	}
	var mask, pot int
	if _, err := fmt.Sscanf(line, "K%x P%d", &mask, &pot); err != nil {
		return fmt.Errorf("bad frame %q: %w", line, err)
	}
	for i := 0; i < NumNotes; i++ {
		if mask>>i&1 == 1 {
			board.Press(i)
		} else {
			board.Release(i)
		}
	}
	board.SetPot(pot)
	return nil
}
