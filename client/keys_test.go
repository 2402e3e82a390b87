package client

import (
	"testing"

	"termtris/tetris"

	"github.com/eiannone/keyboard"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestKeyFromEvent(t *testing.T) {
	tests := []struct {
		event keyboard.KeyEvent
		want  tetris.Key
	}{
		{event: keyboard.KeyEvent{Key: keyboard.KeyArrowLeft}, want: tetris.KeyLeft},
		{event: keyboard.KeyEvent{Key: keyboard.KeyArrowRight}, want: tetris.KeyRight},
		{event: keyboard.KeyEvent{Key: keyboard.KeyArrowUp}, want: tetris.KeyUp},
		{event: keyboard.KeyEvent{Key: keyboard.KeyArrowDown}, want: tetris.KeyDown},
		{event: keyboard.KeyEvent{Key: keyboard.KeySpace}, want: tetris.KeySpace},
		{event: keyboard.KeyEvent{Rune: ' '}, want: tetris.KeySpace},
		{event: keyboard.KeyEvent{Key: keyboard.KeyEsc}, want: tetris.KeyEsc},
		{event: keyboard.KeyEvent{Key: keyboard.KeyCtrlC}, want: keyInterrupt},
		{event: keyboard.KeyEvent{Rune: 'q'}, want: "q"},
		{event: keyboard.KeyEvent{Rune: 'Q'}, want: "Q"},
		{event: keyboard.KeyEvent{Rune: 'a'}, want: "a"},
		{event: keyboard.KeyEvent{Key: keyboard.KeyF1}, want: tetris.NoKey},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, keyFromEvent(tt.event))
		})
	}
}

func TestKeyFromTcell(t *testing.T) {
	tests := []struct {
		event *tcell.EventKey
		want  tetris.Key
	}{
		{event: tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), want: tetris.KeyLeft},
		{event: tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), want: tetris.KeyRight},
		{event: tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), want: tetris.KeyUp},
		{event: tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), want: tetris.KeyDown},
		{event: tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), want: tetris.KeySpace},
		{event: tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone), want: tetris.KeyEsc},
		{event: tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), want: keyInterrupt},
		{event: tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), want: "q"},
		{event: tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), want: tetris.NoKey},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, keyFromTcell(tt.event))
		})
	}
}

func TestSendKeyStopsWhenClosed(t *testing.T) {
	keys := make(chan tetris.Key, 1)
	done := make(chan struct{})
	assert.True(t, sendKey(keys, done, tetris.KeyLeft))
	assert.Equal(t, tetris.KeyLeft, <-keys)

	close(done)
	assert.False(t, sendKey(make(chan tetris.Key), done, tetris.KeyRight), "expected no reader to block the send")
}
