package piano

// ----- Waveform Generator ----- //

// Generator is the timer interrupt body. The timer fires at twice the
// playing note's frequency; each fire toggles the speaker pin once, so
// two fires complete one square-wave cycle. While silent every fire
// forces the pin low instead, guaranteeing a deterministic idle level.
//
// Fire must stay free of blocking and allocation: it runs on the
// interrupt path.
type Generator struct {
	cell  *Cell
	board Board
	pin   int
}

// NewGenerator ...
func NewGenerator(cell *Cell, board Board, pin int) *Generator {
	return &Generator{
		cell:  cell,
		board: board,
		pin:   pin,
	}
}

// Fire runs once per timer interrupt.
func (g *Generator) Fire() {
	note, _ := g.cell.Snapshot()
	if note == NoteNone {
		g.board.WriteDigital(g.pin, false)
		return
	}
	g.board.Toggle(g.pin)
}
