// Package retrodfrg draws a DOS-style full-screen board: a title, summary
// lines, a row of named phases that get ticked off or crossed out, and a
// status block. It knows nothing about the work being reported.
package retrodfrg

import (
	"errors"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ErrInterrupted is returned when the user requests to stop the operation.
var ErrInterrupted = errors.New("interrupted")

// PhaseState is the mark shown next to a phase.
type PhaseState int

const (
	PhasePending PhaseState = iota
	PhaseDone
	PhaseFailed
)

// UI is a terminal board. Setters only record state; LayoutAndDraw renders it.
type UI struct {
	mu       sync.Mutex
	s        tcell.Screen
	stopChan chan struct{}
	once     sync.Once

	title        string
	phases       []string
	phaseState   map[string]PhaseState
	summaryLines []string
	legendLines  []string
	statusLines  []string
}

// NewUI takes over the controlling terminal.
func NewUI() (*UI, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewUIWithScreen(s)
}

// NewUIWithScreen initialises s and starts listening for Q, Esc and Ctrl+C.
func NewUIWithScreen(s tcell.Screen) (*UI, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.DisableMouse()
	u := &UI{
		s:          s,
		stopChan:   make(chan struct{}),
		phaseState: make(map[string]PhaseState),
	}
	go u.eventLoop(s)
	return u, nil
}

// Close restores the terminal. It is safe to call more than once.
func (u *UI) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.s == nil {
		return
	}
	u.s.Fini()
	u.s = nil
}

// RequestStop signals that the user has requested to stop the current operation.
// It can be called multiple times safely.
func (u *UI) RequestStop() {
	u.once.Do(func() {
		close(u.stopChan)
		u.mu.Lock()
		defer u.mu.Unlock()
		if u.s != nil {
			_ = u.s.PostEvent(tcell.NewEventInterrupt(nil))
		}
	})
}

// IsStopped returns true if the user has requested to stop the operation.
func (u *UI) IsStopped() bool {
	select {
	case <-u.stopChan:
		return true
	default:
		return false
	}
}

// Size returns the current screen width and height.
func (u *UI) Size() (width, height int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.s == nil {
		return 0, 0
	}
	return u.s.Size()
}

var (
	styleDone   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFailed = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

func putStr(s tcell.Screen, x, y int, str string, style tcell.Style) {
	w, _ := s.Size()
	for i, r := range []rune(str) {
		pos := x + i
		if pos >= w {
			break
		}
		s.SetContent(pos, y, r, nil, style)
	}
}

// LayoutAndDraw redraws the entire UI with the current state.
// Close may run concurrently from a signal handler, so the screen is held
// for the whole redraw.
func (u *UI) LayoutAndDraw() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.s == nil {
		return
	}
	u.s.Clear()
	w, h := u.s.Size()

	y := 0
	if u.title != "" {
		putStr(u.s, 0, y, strings.Repeat("═", w), tcell.StyleDefault)
		centerX := (w - len([]rune(u.title))) / 2
		if centerX < 0 {
			centerX = 0
		}
		putStr(u.s, centerX, y, u.title, tcell.StyleDefault)
		y++
	}
	for _, line := range u.summaryLines {
		if y >= h {
			break
		}
		putStr(u.s, 0, y, line, tcell.StyleDefault)
		y++
	}
	for _, line := range u.legendLines {
		if y >= h {
			break
		}
		putStr(u.s, 0, y, line, tcell.StyleDefault)
		y++
	}

	if len(u.phases) > 0 && y < h {
		putStr(u.s, 0, y, strings.Repeat("─", w), tcell.StyleDefault)
		putStr(u.s, 2, y, " Phase ", tcell.StyleDefault)
		y++
		x := 0
		for _, p := range u.phases {
			cell := "[" + string(u.mark(p)) + "]" + p
			n := len([]rune(cell))
			if x > 0 && x+n > w {
				x = 0
				y++
			}
			if y >= h {
				break
			}
			style := tcell.StyleDefault
			switch u.PhaseState(p) {
			case PhaseDone:
				style = styleDone
			case PhaseFailed:
				style = styleFailed
			}
			putStr(u.s, x, y, cell, style)
			x += n + 1
		}
		y++
	}

	if len(u.statusLines) > 0 && y < h {
		putStr(u.s, 0, y, strings.Repeat("─", w), tcell.StyleDefault)
		putStr(u.s, 2, y, " Status ", tcell.StyleDefault)
		y++
		for _, line := range u.statusLines {
			if y >= h {
				break
			}
			putStr(u.s, 0, y, line, tcell.StyleDefault)
			y++
		}
	}

	u.s.Show()
}

func (u *UI) mark(p string) rune {
	switch u.PhaseState(p) {
	case PhaseDone:
		return '✓'
	case PhaseFailed:
		return '✗'
	}
	return ' '
}

// PhaseState reports the mark of phase p. Names are case-insensitive.
func (u *UI) PhaseState(p string) PhaseState {
	return u.phaseState[strings.ToLower(p)]
}

// SetPhaseDone marks the specified phase as completed.
func (u *UI) SetPhaseDone(p string) {
	u.phaseState[strings.ToLower(p)] = PhaseDone
}

// SetPhaseFailed marks the specified phase as failed.
func (u *UI) SetPhaseFailed(p string) {
	u.phaseState[strings.ToLower(p)] = PhaseFailed
}

// SetPhases sets the list of phases to display, all pending.
func (u *UI) SetPhases(labels []string) {
	u.phases = append([]string(nil), labels...)
	u.phaseState = make(map[string]PhaseState, len(labels))
}

// SetTitle sets the title displayed at the top of the UI.
func (u *UI) SetTitle(t string) {
	u.title = t
}

// SetSummaryLines sets the summary/info lines displayed below the title.
func (u *UI) SetSummaryLines(lines []string) {
	u.summaryLines = append([]string(nil), lines...)
}

// SetLegend sets the legend lines displayed below the summary.
func (u *UI) SetLegend(lines []string) {
	u.legendLines = append([]string(nil), lines...)
}

// SetStatusLines sets the status lines displayed at the bottom of the UI.
func (u *UI) SetStatusLines(lines []string) {
	u.statusLines = append([]string(nil), lines...)
}

func (u *UI) eventLoop(s tcell.Screen) {
	for {
		ev := s.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyCtrlC:
				u.RequestStop()
			case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
				u.RequestStop()
			case ev.Key() == tcell.KeyEscape:
				u.RequestStop()
			}
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			return
		case nil:
			return
		}
	}
}
