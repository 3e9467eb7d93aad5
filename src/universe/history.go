package universe

//HistoryCheckLength is the number of committed generations kept for loop detection
const HistoryCheckLength = 5

//History is a bounded, oldest first list of committed grids
type History struct {
	entries []*Grid
}

//Reset drops all entries
func (h *History) Reset() {
	h.entries = h.entries[:0]
}

//Push appends a copy of g, dropping the oldest entries beyond HistoryCheckLength
func (h *History) Push(g *Grid) {
	if len(h.entries) >= HistoryCheckLength {
		n := copy(h.entries, h.entries[len(h.entries)-HistoryCheckLength+1:])
		h.entries = h.entries[:n]
	}
	h.entries = append(h.entries, g.Clone())
}

//Contains reports whether any kept grid equals g
func (h *History) Contains(g *Grid) bool {
	for _, e := range h.entries {
		if e.Equal(g) {
			return true
		}
	}
	return false
}

//Len returns the number of kept grids
func (h *History) Len() int {
	return len(h.entries)
}
