package client

import (
	"fmt"
	"log/slog"
	"sync"

	"termtris/tetris"

	"github.com/eiannone/keyboard"
)

// keyInterrupt is sent by the key sources on ctrl-c. It exits the client
// right away, whatever the game is doing.
const keyInterrupt tetris.Key = "Ctrl+C"

type keySource interface {
	// Keys is closed when the source stops reading input.
	Keys() <-chan tetris.Key
	Close() error
}

// keyboardSource reads the console in raw mode through the keyboard package.
type keyboardSource struct {
	events <-chan keyboard.KeyEvent
	keys   chan tetris.Key
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

func newKeyboardSource(l *slog.Logger) (*keyboardSource, error) {
	events, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	k := &keyboardSource{
		events: events,
		keys:   make(chan tetris.Key),
		done:   make(chan struct{}),
		logger: l,
	}
	go k.listen()
	return k, nil
}

func (k *keyboardSource) Keys() <-chan tetris.Key { return k.keys }

func (k *keyboardSource) Close() error {
	k.once.Do(func() { close(k.done) })
	return keyboard.Close()
}

func (k *keyboardSource) listen() {
	defer close(k.keys)
	for event := range k.events {
		if event.Err != nil {
			k.logger.Error("keyboard events error", slog.String("error", event.Err.Error()))
			return
		}
		if key := keyFromEvent(event); key != tetris.NoKey && !sendKey(k.keys, k.done, key) {
			return
		}
	}
}

// sendKey sends key unless done is closed first. Nobody reads the keys once
// the source is closed.
func sendKey(keys chan<- tetris.Key, done <-chan struct{}, key tetris.Key) bool {
	select {
	case keys <- key:
		return true
	case <-done:
		return false
	}
}

func keyFromEvent(e keyboard.KeyEvent) tetris.Key {
	switch e.Key {
	case keyboard.KeyArrowLeft:
		return tetris.KeyLeft
	case keyboard.KeyArrowRight:
		return tetris.KeyRight
	case keyboard.KeyArrowUp:
		return tetris.KeyUp
	case keyboard.KeyArrowDown:
		return tetris.KeyDown
	case keyboard.KeySpace:
		return tetris.KeySpace
	case keyboard.KeyEsc:
		return tetris.KeyEsc
	case keyboard.KeyCtrlC:
		return keyInterrupt
	}
	switch e.Rune {
	case 0:
		return tetris.NoKey
	case ' ':
		return tetris.KeySpace
	}
	return tetris.Key(string(e.Rune))
}
