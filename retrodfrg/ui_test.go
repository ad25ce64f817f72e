package retrodfrg

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimUI(t *testing.T) (*UI, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	u, err := NewUIWithScreen(sim)
	require.NoError(t, err)
	t.Cleanup(u.Close)
	return u, sim
}

// screenRows returns the visible text of sim, one string per row.
func screenRows(sim tcell.SimulationScreen) []string {
	cells, w, h := sim.GetContents()
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		var b strings.Builder
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(c.Runes[0])
		}
		rows[y] = strings.TrimRight(b.String(), " ")
	}
	return rows
}

func TestLayoutAndDraw(t *testing.T) {
	u, sim := newSimUI(t)

	u.SetTitle(" CHECK ")
	u.SetSummaryLines([]string{"Directory: /tmp"})
	u.SetLegend([]string{"Legend: Q to quit"})
	u.SetPhases([]string{"stat", "seek", "close"})
	u.SetPhaseDone("STAT")
	u.SetPhaseFailed("seek")
	u.SetStatusLines([]string{"seek FAIL boom"})
	u.LayoutAndDraw()

	rows := screenRows(sim)
	screen := strings.Join(rows, "\n")
	assert.Contains(t, rows[0], " CHECK ")
	assert.True(t, strings.HasPrefix(rows[0], "═"))
	assert.Equal(t, "Directory: /tmp", rows[1])
	assert.Equal(t, "Legend: Q to quit", rows[2])
	assert.Contains(t, rows[3], " Phase ")
	assert.Equal(t, "[✓]stat [✗]seek [ ]close", rows[4])
	assert.Contains(t, rows[5], " Status ")
	assert.Contains(t, screen, "seek FAIL boom")

	assert.Equal(t, PhaseDone, u.PhaseState("stat"))
	assert.Equal(t, PhaseFailed, u.PhaseState("SEEK"))
	assert.Equal(t, PhasePending, u.PhaseState("close"))
}

func TestLayoutAndDraw_WrapsPhases(t *testing.T) {
	u, sim := newSimUI(t)
	sim.SetSize(20, 10)

	u.SetPhases([]string{"stream-tell", "fd-tell", "dup-tell"})
	u.LayoutAndDraw()

	rows := screenRows(sim)
	assert.Equal(t, "[ ]stream-tell", rows[1])
	assert.Equal(t, "[ ]fd-tell", rows[2])
	assert.Equal(t, "[ ]dup-tell", rows[3])
}

func TestSetPhases_ResetsState(t *testing.T) {
	u, _ := newSimUI(t)
	u.SetPhases([]string{"a"})
	u.SetPhaseDone("a")
	u.SetPhases([]string{"a"})
	assert.Equal(t, PhasePending, u.PhaseState("a"))
}

func TestQuitKeyRequestsStop(t *testing.T) {
	for name, inject := range map[string]func(tcell.SimulationScreen){
		"q":      func(s tcell.SimulationScreen) { s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone) },
		"escape": func(s tcell.SimulationScreen) { s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone) },
		"ctrl-c": func(s tcell.SimulationScreen) { s.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl) },
	} {
		t.Run(name, func(t *testing.T) {
			u, sim := newSimUI(t)
			assert.False(t, u.IsStopped())

			inject(sim)

			require.Eventually(t, u.IsStopped, time.Second, 5*time.Millisecond)
			assert.ErrorIs(t, WaitWithStop(u, time.Minute), ErrInterrupted)
		})
	}
}

func TestWaitWithStop_Timeout(t *testing.T) {
	u, _ := newSimUI(t)
	assert.NoError(t, WaitWithStop(u, 10*time.Millisecond))
}

func TestCloseIsIdempotent(t *testing.T) {
	u, _ := newSimUI(t)
	u.Close()
	u.Close()
	u.RequestStop()
	u.LayoutAndDraw()

	w, h := u.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
	select {
	case <-u.Stopped():
	default:
		t.Fatal("Stopped channel not closed")
	}
}

func TestCloseDuringRedraw(t *testing.T) {
	u, _ := newSimUI(t)
	u.SetTitle(" CHECK ")
	u.SetPhases([]string{"stat", "seek", "close"})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			u.LayoutAndDraw()
			u.Size()
		}
	}()
	go func() {
		defer wg.Done()
		time.Sleep(time.Millisecond)
		u.Close()
	}()
	wg.Wait()

	w, h := u.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
}
