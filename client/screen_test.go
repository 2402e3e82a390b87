package client

import (
	"log/slog"
	"testing"
	"time"

	"termtris/tetris"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScreen(t *testing.T, watching bool) (*screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	sc, err := newScreen(sim, slog.New(slog.DiscardHandler), "Terminal Tetris", watching)
	require.NoError(t, err)
	sim.SetSize(40, 30)
	t.Cleanup(sc.close)
	return sc, sim
}

func line(sim tcell.SimulationScreen, y, from, to int) string {
	var out []rune
	for x := from; x < to; x++ {
		r, _, _, _ := sim.GetContent(x, y)
		out = append(out, r)
	}
	return string(out)
}

func TestScreenRender(t *testing.T) {
	sc, sim := testScreen(t, false)
	e, _ := tetris.NewTestEngine(tetris.O)
	sc.render(e.Snapshot())

	assert.Equal(t, "Terminal Tetris", line(sim, 0, 1, 16))
	assert.Equal(t, "┌────", line(sim, 1, 0, 5))
	// O spawns at (5, 0), every cell is two columns wide.
	assert.Equal(t, "│          [][]      │", line(sim, 2, 0, 22))
	assert.Equal(t, "│          [][]      │", line(sim, 3, 0, 22))
	r, _, st, _ := sim.GetContent(11, 2)
	assert.Equal(t, '[', r)
	fg, _, _ := st.Decompose()
	assert.Equal(t, tcell.ColorYellow, fg)
	r, _, _, _ = sim.GetContent(1, 2)
	assert.Equal(t, ' ', r)

	assert.Equal(t, "Score: 0", line(sim, 23, 1, 9))
	assert.Equal(t, "Press ESC to exit, or q to pause.", line(sim, 25, 1, 34))

	sc.gameOver()
	assert.Equal(t, "GAME OVER! Press Space to exit.", line(sim, 25, 1, 32))
}

func TestScreenKeys(t *testing.T) {
	sc, sim := testScreen(t, false)

	sim.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	for _, want := range []tetris.Key{tetris.KeyLeft, "q", keyInterrupt} {
		select {
		case k := <-sc.Keys():
			assert.Equal(t, want, k)
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for key %q", want)
		}
	}
}

func TestScreenCloseEndsKeys(t *testing.T) {
	sc, _ := testScreen(t, true)
	require.NoError(t, sc.Close())

	select {
	case _, ok := <-sc.Keys():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for the keys channel to close")
	}
}

func TestScreenCloseWithUnreadKeys(t *testing.T) {
	sc, sim := testScreen(t, false)
	sim.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, sc.Close())

	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-sc.Keys():
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("timeout waiting for the keys channel to close")
		}
	}
}
