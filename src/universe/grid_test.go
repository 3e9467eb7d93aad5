package universe

import (
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
)

func fullGrid(t *testing.T, rows int, columns int) *Grid {
	t.Helper()
	g, err := NewGrid(rows, columns)
	if err != nil {
		t.Fatal(err)
	}
	for i := range g.cells {
		g.cells[i] = Alive
	}
	return g
}

func TestNewGridDimensions(t *testing.T) {
	for _, tc := range []struct {
		rows, columns int
		ok            bool
	}{
		{1, 1, true},
		{5, 50, true},
		{0, 5, false},
		{5, 0, false},
		{-1, 5, false},
		{51, 5, false},
	} {
		_, err := NewGrid(tc.rows, tc.columns)
		if tc.ok && err != nil {
			t.Errorf("NewGrid(%d, %d): %v", tc.rows, tc.columns, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("NewGrid(%d, %d): expected ErrInvalidArgument, got %v", tc.rows, tc.columns, err)
		}
	}
}

func TestGridOutOfRange(t *testing.T) {
	g, _ := NewGrid(3, 4)
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 4}} {
		if _, err := g.Get(c[0], c[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Get%v: expected ErrOutOfRange, got %v", c, err)
		}
		if err := g.Set(c[0], c[1], Alive); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Set%v: expected ErrOutOfRange, got %v", c, err)
		}
		if _, err := g.Toggle(c[0], c[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Toggle%v: expected ErrOutOfRange, got %v", c, err)
		}
		if _, err := g.CountAdjacent(c[0], c[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("CountAdjacent%v: expected ErrOutOfRange, got %v", c, err)
		}
	}
}

func TestGridToggleTwice(t *testing.T) {
	g, _ := NewGrid(3, 3)
	before, _ := g.Get(1, 2)
	after, err := g.Toggle(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := g.Get(1, 2); got == before || got != after {
		t.Fatalf("after toggle cell is %v, expected %v", got, after)
	}
	_, _ = g.Toggle(1, 2)
	if got, _ := g.Get(1, 2); got != before {
		t.Fatalf("after second toggle cell is %v, expected %v", got, before)
	}
}

func TestCountAdjacentClipsAtEdges(t *testing.T) {
	const rows, columns = 4, 5
	g := fullGrid(t, rows, columns)
	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			expected := 0
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					r, c := row+dr, col+dc
					if (dr != 0 || dc != 0) && r >= 0 && r < rows && c >= 0 && c < columns {
						expected++
					}
				}
			}
			got, err := g.CountAdjacent(row, col)
			if err != nil {
				t.Fatal(err)
			}
			if got != expected {
				t.Errorf("cell (%d,%d) has %d neighbours, expected %d", row, col, got, expected)
			}
		}
	}
	if n, _ := g.CountAdjacent(0, 0); n != 3 {
		t.Errorf("corner has %d neighbours, expected 3", n)
	}
	if n, _ := g.CountAdjacent(0, 2); n != 5 {
		t.Errorf("edge has %d neighbours, expected 5", n)
	}
	if n, _ := g.CountAdjacent(1, 1); n != 8 {
		t.Errorf("interior has %d neighbours, expected 8", n)
	}
}

func TestGridRandomize(t *testing.T) {
	g, _ := NewGrid(1, 1)
	rng := rand.New(rand.NewPCG(7, 0))
	if err := g.Randomize(rng, 50, 50); err != nil {
		t.Fatal(err)
	}
	if g.Rows() != 50 || g.Columns() != 50 {
		t.Fatalf("randomized grid is %dx%d", g.Rows(), g.Columns())
	}
	if live := g.LiveCells(); live < 1000 || live > 1500 {
		t.Fatalf("%d live cells out of 2500, expected about half", live)
	}
	if err := g.Clear(5, 6); err != nil {
		t.Fatal(err)
	}
	if g.LiveCells() != 0 || g.Rows() != 5 || g.Columns() != 6 {
		t.Fatalf("cleared grid is %dx%d with %d live cells", g.Rows(), g.Columns(), g.LiveCells())
	}
}

func TestGridEqualAndClone(t *testing.T) {
	g := fullGrid(t, 3, 3)
	c := g.Clone()
	if !g.Equal(c) {
		t.Fatal("clone differs")
	}
	_, _ = c.Toggle(0, 0)
	if g.Equal(c) {
		t.Fatal("clone shares cells with the original")
	}
	o := fullGrid(t, 1, 9)
	if g.Equal(o) {
		t.Fatal("grids with different shapes are equal")
	}
}
