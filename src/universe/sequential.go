package universe

/*
	Sequential transition with two buffers
	All cells state is calculated from the current buffer into the next one, the engine swaps them afterwards
*/

//sequentialTransition fills next from cur in a single pass and reports whether any cell changed
func sequentialTransition(cur *Grid, next *Grid, rules *RuleSet) (changed bool) {
	cur.walk(func(row int, col int, c Cell) {
		nextState := rules.next(c, cur.countAdjacent(row, col))
		changed = changed || nextState != c
		next.cells[row*cur.columns+col] = nextState
	})
	return
}
