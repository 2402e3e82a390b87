package tetris

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var ErrEmptyCatalog = errors.New("empty piece catalog")

// Bag is a random bag generator: every piece of the catalog is drawn exactly
// once before the bag is refilled with a new permutation of the catalog.
// A piece drawn last from one bag can be drawn first from the next one.
type Bag struct {
	catalog []*Piece
	bag     []*Piece
	rng     *rand.Rand
}

// NewBag returns an empty bag for catalog. The first call to Next fills it.
func NewBag(catalog []*Piece, rng *rand.Rand) (*Bag, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := make([]*Piece, len(catalog))
	for i, p := range catalog {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("catalog piece %d: %w", i, err)
		}
		c[i] = p.Clone()
	}
	return &Bag{catalog: c, rng: rng}, nil
}

// Next removes a piece from the bag and returns it. The returned piece is a
// new instance the caller owns.
func (b *Bag) Next() *Piece {
	if len(b.bag) == 0 {
		b.refill()
	}
	p := b.bag[len(b.bag)-1]
	b.bag = b.bag[:len(b.bag)-1]
	return p.Clone()
}

// Len is the number of pieces left before the next refill.
func (b *Bag) Len() int { return len(b.bag) }

// Size is the number of pieces in the catalog.
func (b *Bag) Size() int { return len(b.catalog) }

func (b *Bag) refill() {
	b.bag = make([]*Piece, 0, len(b.catalog))
	for _, i := range b.rng.Perm(len(b.catalog)) {
		b.bag = append(b.bag, b.catalog[i])
	}
}
