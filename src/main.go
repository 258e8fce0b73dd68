package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jinjor/square-piano/src/piano"
	"golang.org/x/sync/errgroup"
)

var (
	input      = flag.String("input", "term", "key input source: term, midi or serial")
	serialDev  = flag.String("serial-dev", "/dev/ttyUSB0", "serial device for -input=serial")
	serialBaud = flag.Int("serial-baud", 115200, "baud rate for -input=serial")
	scanEvery  = flag.Duration("scan-interval", piano.DefaultScanInterval, "key scan interval")
	verbose    = flag.Bool("verbose", false, "print a status line every scan cycle")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	log.Printf("NumCPU: %v\n", runtime.NumCPU())

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pins := piano.DefaultPins()
	board := piano.NewMemBoard(pins)
	speaker := piano.NewSpeaker(board, pins.Speaker)
	cell := piano.NewCell(speaker)
	generator := piano.NewGenerator(cell, speaker, pins.Speaker)
	speaker.SetInterrupt(generator.Fire)
	scanner := piano.NewScanner(speaker, pins, cell, piano.ScannerConfig{
		ScanInterval: *scanEvery,
		Verbose:      *verbose,
	})

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, os.Kill, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return speaker.Start(ctx)
	})
	g.Go(func() error {
		return scanner.Run(ctx)
	})
	g.Go(func() error {
		// a frontend quitting (e.g. "q" in the terminal) shuts the
		// whole process down
		defer cancel()
		switch *input {
		case "midi":
			return piano.RunMidiInput(ctx, board)
		case "serial":
			return piano.RunSerialInput(ctx, *serialDev, *serialBaud, board)
		case "term":
			return piano.RunTerminalInput(ctx, board)
		default:
			return fmt.Errorf("unknown input source: %s", *input)
		}
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}
