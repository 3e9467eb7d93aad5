package universe

import (
	"math/rand/v2"

	"github.com/pkg/errors"
)

//Cell is the state of one cell, Dead or Alive
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

//Grid is the rectangular cell matrix stored row by row
type Grid struct {
	rows    int
	columns int
	cells   []Cell
}

//NewGrid allocates a grid with all cells dead
func NewGrid(rows int, columns int) (*Grid, error) {
	if err := validateDimensions(rows, columns); err != nil {
		return nil, err
	}
	return newGrid(rows, columns), nil
}

func newGrid(rows int, columns int) *Grid {
	return &Grid{rows: rows, columns: columns, cells: make([]Cell, rows*columns)}
}

func validateDimensions(rows int, columns int) error {
	if rows <= 0 || columns <= 0 || rows > MaxDimension || columns > MaxDimension {
		return errors.Wrapf(ErrInvalidArgument, "dimensions %dx%d, expected 1..%d", rows, columns, MaxDimension)
	}
	return nil
}

//Rows returns the number of rows
func (g *Grid) Rows() int { return g.rows }

//Columns returns the number of columns
func (g *Grid) Columns() int { return g.columns }

func (g *Grid) index(row int, col int) (int, error) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.columns {
		return 0, errors.Wrapf(ErrOutOfRange, "cell (%d,%d) outside %dx%d", row, col, g.rows, g.columns)
	}
	return row*g.columns + col, nil
}

//Get returns the state of the cell at row, col
func (g *Grid) Get(row int, col int) (Cell, error) {
	i, err := g.index(row, col)
	if err != nil {
		return Dead, err
	}
	return g.cells[i], nil
}

//Set changes the state of the cell at row, col
func (g *Grid) Set(row int, col int, value Cell) error {
	i, err := g.index(row, col)
	if err != nil {
		return err
	}
	if value != Dead {
		value = Alive
	}
	g.cells[i] = value
	return nil
}

//Toggle flips the cell at row, col and returns the new state
func (g *Grid) Toggle(row int, col int) (Cell, error) {
	i, err := g.index(row, col)
	if err != nil {
		return Dead, err
	}
	g.cells[i] ^= Alive
	return g.cells[i], nil
}

//Resize replaces the dimensions; all cells are dead afterwards
func (g *Grid) Resize(rows int, columns int) error {
	if err := validateDimensions(rows, columns); err != nil {
		return err
	}
	g.rows, g.columns = rows, columns
	g.cells = make([]Cell, rows*columns)
	return nil
}

//Clear resizes the grid and kills every cell
func (g *Grid) Clear(rows int, columns int) error {
	return g.Resize(rows, columns)
}

//Randomize resizes the grid and sets every cell alive with probability 0.5
func (g *Grid) Randomize(rng *rand.Rand, rows int, columns int) error {
	if err := g.Resize(rows, columns); err != nil {
		return err
	}
	for i := range g.cells {
		g.cells[i] = Cell(rng.IntN(2))
	}
	return nil
}

//LiveCells counts the cells which are alive
func (g *Grid) LiveCells() int {
	live := 0
	for _, c := range g.cells {
		live += int(c)
	}
	return live
}

//Equal reports whether both grids have the same dimensions and cells
func (g *Grid) Equal(o *Grid) bool {
	if g.rows != o.rows || g.columns != o.columns {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

//Clone returns a deep copy
func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, columns: g.columns, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

//CountAdjacent counts live cells among the up to 8 neighbours of row, col.
//Cells beyond the edges count as dead, there is no wrap around.
func (g *Grid) CountAdjacent(row int, col int) (int, error) {
	if _, err := g.index(row, col); err != nil {
		return 0, err
	}
	return g.countAdjacent(row, col), nil
}

func (g *Grid) countAdjacent(row int, col int) int {
	minRow, maxRow := max(0, row-1), min(g.rows-1, row+1)
	minCol, maxCol := max(0, col-1), min(g.columns-1, col+1)
	count := 0
	for r := minRow; r <= maxRow; r++ {
		base := r * g.columns
		for c := minCol; c <= maxCol; c++ {
			if r == row && c == col {
				continue
			}
			count += int(g.cells[base+c])
		}
	}
	return count
}

//walk calls cb for each cell, row by row
func (g *Grid) walk(cb func(row int, col int, c Cell)) {
	for i, c := range g.cells {
		cb(i/g.columns, i%g.columns, c)
	}
}
