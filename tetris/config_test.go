package tetris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		update  func(c *Config)
		wantErr bool
	}{
		{name: "default config", update: func(*Config) {}},
		{name: "small board", update: func(c *Config) { c.Width = 3 }, wantErr: true},
		{name: "flat board", update: func(c *Config) { c.Height = 0 }, wantErr: true},
		{name: "negative fall interval", update: func(c *Config) { c.FallInterval = -time.Second }, wantErr: true},
		{name: "unknown action", update: func(c *Config) { c.KeyBindings["x"] = "drop" }, wantErr: true},
		{name: "pause key rebound", update: func(c *Config) { c.KeyBindings["q"] = MoveLeft }, wantErr: true},
		{name: "escape rebound", update: func(c *Config) { c.KeyBindings[KeyEsc] = SoftDrop }, wantErr: true},
		{name: "no bindings", update: func(c *Config) { c.KeyBindings = nil }},
		{name: "narrowest board for the tetrominoes", update: func(c *Config) { c.Width, c.Height = 5, 4 }},
		{name: "I piece doesn't fit 4 columns", update: func(c *Config) { c.Width, c.Height = 4, 4 }, wantErr: true},
		{name: "O piece fits 4 columns", update: func(c *Config) {
			c.Width, c.Height = 4, 4
			c.Catalog = []*Piece{newO()}
		}},
		{name: "nil catalog piece", update: func(c *Config) { c.Catalog = []*Piece{newT(), nil} }, wantErr: true},
		{name: "zero catalog piece", update: func(c *Config) { c.Catalog = []*Piece{{}} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.update(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseBindings(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    map[Key]Action
		wantErr bool
	}{
		{
			name: "empty keeps the defaults",
			in:   "",
			want: DefaultKeyBindings(),
		},
		{
			name: "every action",
			in:   "left=a, right=d, rotate=w, soft_drop=s",
			want: map[Key]Action{"a": MoveLeft, "d": MoveRight, "w": RotateRight, "s": SoftDrop},
		},
		{
			name: "partial",
			in:   "rotate=Space",
			want: map[Key]Action{KeyLeft: MoveLeft, KeyRight: MoveRight, KeySpace: RotateRight, KeyDown: SoftDrop},
		},
		{
			name:    "unknown action",
			in:      "drop=Space",
			wantErr: true,
		},
		{
			name:    "missing key",
			in:      "left=",
			wantErr: true,
		},
		{
			name:    "key bound twice",
			in:      "left=a,right=a",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseBindings(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
