// Package terminal renders a live register/status inspector for a running
// core over a tcell screen, in place of jeebie's framebuffer renderer —
// this core has no video pipeline of its own (spec.md §1 Non-goals), so
// there is no pixel buffer to draw; what's useful to watch instead is the
// scheduler clock and each component's live register state.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kouen-dev/go-satemu/saturn"
)

// refreshInterval matches jeebie's terminal renderer's frame cadence.
const refreshInterval = time.Second / 30

// Inspector is a read-only tcell view over a *saturn.Saturn core, refreshed
// on a timer from whatever goroutine is advancing it.
type Inspector struct {
	screen  tcell.Screen
	core    *saturn.Saturn
	running bool
}

// New opens a tcell screen bound to core. The core keeps running
// concurrently; Run only reads its state.
func New(core *saturn.Saturn) (*Inspector, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: init screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: init screen: %v", err)
	}
	return &Inspector{screen: screen, core: core, running: true}, nil
}

// Run blocks, redrawing the inspector until Escape is pressed or Stop is
// called from another goroutine.
func (in *Inspector) Run() {
	defer in.screen.Fini()

	in.screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorWhite))
	in.screen.Clear()

	go in.handleInput()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for in.running {
		<-ticker.C
		in.render()
		in.screen.Show()
	}
}

// Stop ends the render loop on its next tick.
func (in *Inspector) Stop() { in.running = false }

func (in *Inspector) handleInput() {
	for in.running {
		ev := in.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape {
				in.running = false
				return
			}
		case *tcell.EventResize:
			in.screen.Sync()
		}
	}
}

func (in *Inspector) render() {
	in.screen.Clear()

	row := 0
	line := func(format string, args ...any) {
		in.drawText(0, row, fmt.Sprintf(format, args...))
		row++
	}

	line("satemu — live core inspector (Esc to quit)")
	row++
	line("frame %d   scheduler now %d", in.core.FrameCount(), in.core.Scheduler.Now())
	row++
	line("SCU  intr status=%#010x mask=%#010x", in.core.SCU.InterruptStatus(), in.core.SCU.InterruptMask())
	line("SCSP pending(aux)=%#06x pending(scu)=%#06x", in.core.SCSP.PendingAux(), in.core.SCSP.PendingSCU())
	line("CD   status=%#04x hirq=%#06x", in.core.CDBlock.Drive.StatusCode(), in.core.CDBlock.HIRQ())
	line("DSP  executing=%t pc=%d", in.core.DSP.Executing(), in.core.DSP.PC())
}

func (in *Inspector) drawText(x, y int, text string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, r := range text {
		in.screen.SetContent(x+i, y, r, nil, style)
	}
}
