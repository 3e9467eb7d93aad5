package universe

import (
	"golang.org/x/sync/errgroup"
)

/*
	Transition with a multithreaded computation algorithm
	the field is split into row bands which are computed by a bounded pool of goroutines,
	all goroutines read only the current buffer and write disjoint parts of the next one
*/

const (
	DefWorkers          = 4 //default workers
	DefRowsPerBand = 3 //rows of one band
)

//band describes the rows [first, last] evaluated by one worker
type band struct {
	first   int
	last    int
	changed bool
}

//splitRows divides rows into bands of DefRowsPerBand rows, the last one may be shorter
func splitRows(rows int) []band {
	bands := make([]band, 0, (rows+DefRowsPerBand-1)/DefRowsPerBand)
	for first := 0; first < rows; first += DefRowsPerBand {
		bands = append(bands, band{first: first, last: min(first+DefRowsPerBand, rows) - 1})
	}
	return bands
}

//newParallelTransition returns a transition evaluating row bands on at most workers goroutines
func newParallelTransition(workers int) transition {
	if workers <= 0 {
		workers = DefWorkers
	}
	return func(cur *Grid, next *Grid, rules *RuleSet) bool {
		bands := splitRows(cur.rows)
		var eg errgroup.Group
		eg.SetLimit(workers)
		for i := range bands {
			b := &bands[i]
			eg.Go(func() error {
				calcBand(cur, next, rules, b)
				return nil
			})
		}
		_ = eg.Wait()
		changed := false
		for _, b := range bands {
			changed = changed || b.changed
		}
		return changed
	}
}

//calcBand calculates new states for the cells inside the band
func calcBand(cur *Grid, next *Grid, rules *RuleSet, b *band) {
	b.changed = false
	for row := b.first; row <= b.last; row++ {
		for col := 0; col < cur.columns; col++ {
			i := row*cur.columns + col
			nextState := rules.next(cur.cells[i], cur.countAdjacent(row, col))
			b.changed = b.changed || nextState != cur.cells[i]
			next.cells[i] = nextState
		}
	}
}
