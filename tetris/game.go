package tetris

import (
	"sync"
	"time"
)

// DefaultFrameInterval is how often the game loop checks gravity, ~60 FPS.
const DefaultFrameInterval = 16 * time.Millisecond

type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	return &wrappedTicker{ticker: time.NewTicker(d)}
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

// Game runs an engine in its own goroutine. Keys and frame ticks are handled
// one at a time by that goroutine, which is the only one touching the engine,
// and every change is published as a snapshot on the update channel.
type Game struct {
	engine   *Engine
	ticker   Ticker
	keyCh    chan Key
	updateCh chan *Snapshot
	doneCh   chan struct{}
	exitCh   chan struct{}
	stop     sync.Once
}

func NewGame(e *Engine) *Game {
	return NewConfigurableGame(e, newWrappedTicker(DefaultFrameInterval))
}

func NewConfigurableGame(e *Engine, ticker Ticker) *Game {
	return &Game{
		engine:   e,
		ticker:   ticker,
		keyCh:    make(chan Key),
		updateCh: make(chan *Snapshot),
		doneCh:   make(chan struct{}),
		exitCh:   make(chan struct{}),
	}
}

// Start runs the game loop. The first update is the initial state, the last
// one is sent when the game is over, after which the update channel is closed.
func (g *Game) Start() {
	go g.listen()
}

// Stop ends the game loop without waiting for the game to be over.
func (g *Game) Stop() {
	g.stop.Do(func() { close(g.doneCh) })
}

// Key sends a key to the game loop. It's a no-op once the loop has exited.
func (g *Game) Key(k Key) {
	select {
	case g.keyCh <- k:
	case <-g.exitCh:
	}
}

func (g *Game) GetUpdate() <-chan *Snapshot { return g.updateCh }

// Done is closed when the game loop has exited.
func (g *Game) Done() <-chan struct{} { return g.exitCh }

func (g *Game) listen() {
	defer close(g.exitCh)
	defer close(g.updateCh)
	defer g.ticker.Stop()

	g.ticker.Reset(DefaultFrameInterval)
	if !g.publish() {
		return
	}
	for g.engine.Phase() != GameOver {
		select {
		case <-g.ticker.C():
			if !g.engine.Tick() {
				continue
			}
		case k := <-g.keyCh:
			g.engine.HandleKey(k)
		case <-g.doneCh:
			return
		}
		if !g.publish() {
			return
		}
	}
}

// publish blocks until the snapshot is read or the game is stopped.
func (g *Game) publish() bool {
	select {
	case g.updateCh <- g.engine.Snapshot():
		return true
	case <-g.doneCh:
		return false
	}
}
