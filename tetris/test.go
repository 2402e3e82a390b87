package tetris

import (
	"sync"
	"time"
)

// MockTicker is a mock implementation of the ticker interface.
type MockTicker struct {
	ch          chan time.Time
	stop, reset bool
	mu          sync.Mutex
}

func NewMockTicker() *MockTicker          { return &MockTicker{ch: make(chan time.Time)} }
func (m *MockTicker) C() <-chan time.Time { return m.ch }
func (m *MockTicker) Tick()               { m.ch <- time.Now() }
func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}
func (m *MockTicker) Reset(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset = true
}
func (m *MockTicker) IsReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reset
}
func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	now time.Time
	mu  sync.Mutex
}

func NewManualClock() *ManualClock { return &ManualClock{now: time.Unix(0, 0)} }

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewTestEngine creates a 10x20 engine whose catalog only has the given
// shape, so every spawned piece is that shape. Gravity is driven by the
// returned clock.
func NewTestEngine(shape Shape) (*Engine, *ManualClock) {
	var catalog []*Piece
	for _, p := range Tetrominoes() {
		if p.Shape() == shape {
			catalog = append(catalog, p)
		}
	}
	clock := NewManualClock()
	cfg := DefaultConfig()
	cfg.Catalog = catalog
	cfg.Clock = clock
	cfg.Seed = 1
	e, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return e, clock
}

// NewTestGame creates a game for a test engine and returns it with a manual ticker.
func NewTestGame(shape Shape) (*Game, *MockTicker, *ManualClock) {
	e, clock := NewTestEngine(shape)
	ticker := NewMockTicker()
	return NewConfigurableGame(e, ticker), ticker, clock
}
