package universe

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  `yaml:"name"`        //template name
	Descr       string  `yaml:"descr"`       //template descr
	Coordinates [][]int `yaml:"coordinates"` //array of [row, col] coordinates
}

//BuiltinTemplates are registered on every new Scheduler
var BuiltinTemplates = []Template{
	{"blinker", "period 2 oscillator", [][]int{{0, 0}, {0, 1}, {0, 2}}},
	{"block", "still life", [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
	{"glider", "moves one cell diagonally every 4 generations", [][]int{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}},
	{"plus", "center cell with its 4 orthogonal neighbours", [][]int{{0, 1}, {1, 0}, {1, 1}, {1, 2}, {2, 1}}},
	{"toad", "period 2 oscillator", [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 0}, {1, 1}, {1, 2}}},
}

//centered shifts the coordinates so the pattern's bounding box sits in the middle of the board
func (t Template) centered(rows int, columns int) [][]int {
	maxRow, maxCol := 0, 0
	for _, c := range t.Coordinates {
		if len(c) == 2 {
			maxRow, maxCol = max(maxRow, c[0]), max(maxCol, c[1])
		}
	}
	offRow, offCol := (rows-maxRow-1)/2, (columns-maxCol-1)/2
	out := make([][]int, 0, len(t.Coordinates))
	for _, c := range t.Coordinates {
		if len(c) != 2 {
			out = append(out, c)
			continue
		}
		out = append(out, []int{c[0] + offRow, c[1] + offCol})
	}
	return out
}
