package pb

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"termtris/tetris"

	"google.golang.org/protobuf/types/known/structpb"
)

// emptyCell marks an empty cell in the encoded rows.
const emptyCell = '.'

var ErrMalformedSnapshot = errors.New("malformed snapshot")

// FromSnapshot encodes a snapshot of the session game as:
//
//	{
//	  "session": "6f1c...",
//	  "width": 10, "height": 20,
//	  "rows": ["..........", ..., "IIII.OOJJJ"],
//	  "active": [[4, 0], [5, 0], [6, 0], [5, 1]],
//	  "shape": "T",
//	  "score": 40,
//	  "phase": "running",
//	  "stats": {"lines": 1, "pieces": 12, ...}
//	}
//
// Shape labels are single runes, see tetris.Shape.
func FromSnapshot(session string, s *tetris.Snapshot) (*structpb.Struct, error) {
	rows := make([]any, len(s.Rows))
	for y, row := range s.Rows {
		var b strings.Builder
		for _, c := range row {
			b.WriteRune(encodeShape(c))
		}
		rows[y] = b.String()
	}
	active := make([]any, len(s.Active))
	for i, c := range s.Active {
		active[i] = []any{c.X, c.Y}
	}

	m, err := structpb.NewStruct(map[string]any{
		"session": session,
		"width":   s.Width,
		"height":  s.Height,
		"rows":    rows,
		"active":  active,
		"shape":   string(encodeShape(s.Shape)),
		"score":   s.Score,
		"phase":   s.Phase.String(),
		"stats": map[string]any{
			"lines":    s.Stats.Lines,
			"pieces":   s.Stats.Pieces,
			"singles":  s.Stats.Singles,
			"doubles":  s.Stats.Doubles,
			"triples":  s.Stats.Triples,
			"tetrises": s.Stats.Tetrises,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to encode snapshot: %w", err)
	}
	return m, nil
}

// ToSnapshot decodes a message built by FromSnapshot.
func ToSnapshot(m *structpb.Struct) (string, *tetris.Snapshot, error) {
	f := m.GetFields()
	phase, err := tetris.ParsePhase(f["phase"].GetStringValue())
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	stats := f["stats"].GetStructValue().GetFields()
	s := &tetris.Snapshot{
		Width:  int(f["width"].GetNumberValue()),
		Height: int(f["height"].GetNumberValue()),
		Shape:  decodeShape(firstRune(f["shape"].GetStringValue())),
		Score:  int(f["score"].GetNumberValue()),
		Phase:  phase,
		Stats: tetris.Stats{
			Lines:    int(stats["lines"].GetNumberValue()),
			Pieces:   int(stats["pieces"].GetNumberValue()),
			Singles:  int(stats["singles"].GetNumberValue()),
			Doubles:  int(stats["doubles"].GetNumberValue()),
			Triples:  int(stats["triples"].GetNumberValue()),
			Tetrises: int(stats["tetrises"].GetNumberValue()),
		},
	}

	rows := f["rows"].GetListValue().GetValues()
	if len(rows) != s.Height {
		return "", nil, fmt.Errorf("%w: %d rows for height %d", ErrMalformedSnapshot, len(rows), s.Height)
	}
	s.Rows = make([][]tetris.Shape, s.Height)
	for y, v := range rows {
		row := []rune(v.GetStringValue())
		if len(row) != s.Width {
			return "", nil, fmt.Errorf("%w: row %d has %d cells for width %d", ErrMalformedSnapshot, y, len(row), s.Width)
		}
		s.Rows[y] = make([]tetris.Shape, s.Width)
		for x, r := range row {
			s.Rows[y][x] = decodeShape(r)
		}
	}

	for i, v := range f["active"].GetListValue().GetValues() {
		xy := v.GetListValue().GetValues()
		if len(xy) != 2 {
			return "", nil, fmt.Errorf("%w: active cell %d has %d coordinates", ErrMalformedSnapshot, i, len(xy))
		}
		s.Active = append(s.Active, tetris.Vector{X: int(xy[0].GetNumberValue()), Y: int(xy[1].GetNumberValue())})
	}
	return f["session"].GetStringValue(), s, nil
}

func encodeShape(s tetris.Shape) rune {
	if s == tetris.Empty {
		return emptyCell
	}
	return firstRune(string(s))
}

func decodeShape(r rune) tetris.Shape {
	if r == emptyCell || r == utf8.RuneError {
		return tetris.Empty
	}
	return tetris.Shape(string(r))
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
