package piano

import (
	"sync"
	"testing"
)

func TestFireTogglesWhileSounding(t *testing.T) {
	rig := newTestRig()
	rig.cell.Publish(NoteA, 4)
	if rig.board.ReadDigital(rig.pins.Speaker) {
		t.Fatalf("expected speaker pin to start low")
	}
	rig.gen.Fire()
	if !rig.board.ReadDigital(rig.pins.Speaker) {
		t.Errorf("expected pin high after first fire")
	}
	rig.gen.Fire()
	if rig.board.ReadDigital(rig.pins.Speaker) {
		t.Errorf("expected pin low after second fire")
	}
}

func TestFireForcesLowWhileSilent(t *testing.T) {
	rig := newTestRig()
	rig.cell.Publish(NoteA, 4)
	rig.gen.Fire() // pin high
	rig.cell.Publish(NoteNone, OctaveNone)
	for i := 0; i < 5; i++ {
		rig.gen.Fire()
		if rig.board.ReadDigital(rig.pins.Speaker) {
			t.Fatalf("expected pin forced low while silent, fire %d", i)
		}
	}
}

func TestSilenceSkipsReprogram(t *testing.T) {
	rig := newTestRig()
	rig.cell.Publish(NoteNone, OctaveNone)
	if len(rig.timer.reprograms) != 0 {
		t.Errorf("expected publishing silence to leave the timer alone, but got: %v", rig.timer.reprograms)
	}
}

// The snapshot must never pair a note from one publish with the octave
// of another, however the publishes interleave with reads.
func TestSnapshotNeverTorn(t *testing.T) {
	rig := newTestRig()
	pairs := [][2]int{
		{NoteC, 2},
		{NoteB, 6},
		{NoteNone, OctaveNone},
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
				p := pairs[i%len(pairs)]
				rig.cell.Publish(p[0], p[1])
			}
		}
	}()
	for i := 0; i < 100000; i++ {
		note, octave := rig.cell.Snapshot()
		valid := false
		for _, p := range pairs {
			if note == p[0] && octave == p[1] {
				valid = true
				break
			}
		}
		if !valid {
			t.Errorf("observed torn pair: note %d octave %d", note, octave)
			break
		}
	}
	close(done)
	wg.Wait()
}
