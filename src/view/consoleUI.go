package view

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"simlife/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal board
type ConsoleUI struct {
	u universe.Universe
	g *gocui.Gui
	k []keyBindings

	liveFiller string
	deadFiller string
	template   int
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateStopped: aurora.Colorize("stopped", aurora.BlueFg).String(),
		universe.RunningStateRunning: aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateHalted:  aurora.Colorize("halted", aurora.RedFg).String(),
	}
)

func NewViewTerminal() *ConsoleUI {

	var err error
	t := ConsoleUI{
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'r', "R", "Run/Stop", t.cmdToggle, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Settle with random", t.cmdSettleWithRandom, ""},
		{'t', "T", "Next template", t.cmdNextTemplate, ""},
		{'+', "+/-", "Fps", t.fpsBy(1), ""},
		{'-', "", "", t.fpsBy(-1), ""},
		{'k', "J/K", "Rows", t.resizeBy(1, 0), ""},
		{'j', "", "", t.resizeBy(-1, 0), ""},
		{'l', "H/L", "Columns", t.resizeBy(0, 1), ""},
		{'h', "", "", t.resizeBy(0, -1), ""},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", t.cmdMouseClick, "battlefield"},
	}
	survivalKeys := []gocui.Key{gocui.KeyF1, gocui.KeyF2, gocui.KeyF3, gocui.KeyF4, gocui.KeyF5, gocui.KeyF6, gocui.KeyF7, gocui.KeyF8}
	for n := 1; n <= universe.MaxNeighbours; n++ {
		name, descr := "", ""
		if n == 1 {
			name, descr = "1-8/F1-F8", "Birth/Survival flags"
		}
		t.k = append(t.k,
			keyBindings{rune('0' + n), name, descr, t.flipRule(universe.Birth, n), ""},
			keyBindings{survivalKeys[n-1], "", "", t.flipRule(universe.Survival, n), ""})
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

func (t *ConsoleUI) Start() {
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
	t.g.Close()
}

func (t *ConsoleUI) Refresh(st universe.Status) {
	t.renderField(t.u.Grid())
	t.renderRules()
	t.renderStatus(st)
}

func (t *ConsoleUI) renderField(a *universe.Grid) {

	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("battlefield")
		if e != nil {
			return e
		}
		v.Clear()

		crop := false
		maxW, maxH := v.Size()
		if a.Columns() > maxW || a.Rows() > maxH {
			crop = true
		}

		var b bytes.Buffer

		for row := 0; row < a.Rows(); row++ {
			//discard the data outside the view area
			if row >= maxH {
				break
			}
			//line feed char
			if row != 0 {
				b.WriteByte(10)
			}
			if crop && row == (maxH-1) {
				b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
				break
			}
			for col := 0; col < a.Columns() && col < maxW; col++ {
				if c, _ := a.Get(row, col); c == universe.Alive {
					b.WriteString(t.liveFiller)
				} else {
					b.WriteString(t.deadFiller)
				}
			}
		}
		_, _ = fmt.Fprint(v, b.String())
		return nil
	})
}

func (t *ConsoleUI) renderStatus(s universe.Status) {
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.Generation))
			_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", s.Rows, s.Columns))
			_, _ = fmt.Fprintln(v, t.renderProp("Fps", "%v", s.Fps))
			if s.ExitReason != "" {
				_, _ = fmt.Fprintln(v, " "+aurora.Yellow(s.Text()).String())
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderRules() {
	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("rules")
		if e != nil {
			return nil
		}
		v.Clear()
		for _, kind := range []universe.RuleKind{universe.Birth, universe.Survival} {
			var b strings.Builder
			for n := 1; n <= universe.MaxNeighbours; n++ {
				flag, _ := t.u.RuleFlag(kind, n)
				if flag {
					b.WriteString(aurora.Green(fmt.Sprintf(" %d", n)).String())
				} else {
					b.WriteString(aurora.Gray(8, fmt.Sprintf(" %d", n)).String())
				}
			}
			_, _ = fmt.Fprintln(v, t.renderProp(kind.String(), "%s", b.String()))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 30
	minWindowHeight := 24

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("rules")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		return nil

	} else {
		if _, err := t.headerLayout(g, 3, "This is \"The Life\" game simulation"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
	}

	if v, err := g.SetView("rules", 0, 3, leftColumnWidth, 6); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Rules"
		v.Frame = true
		t.renderRules()
	}

	if v, err := g.SetView("status", 0, 7, leftColumnWidth, maxY-6); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus(t.u.Status())
	}

	if v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-6); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Battle Field"
		v.Frame = true
	}
	t.renderField(t.u.Grid())

	if v, err := g.SetView("help", -1, maxY-6, maxX, maxY-1); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		first := true
		for _, k := range t.k {
			if k.name == "" {
				continue
			}
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		if maxX < len(text) {
			panic(fmt.Sprintf("Terminal width is too small: %v", maxX))
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

//invalid requests (stop while stopped, a size beyond the limits) are ignored by the UI
func ignore(err error) error {
	if err != nil {
		log.Printf("ignored: %v", err)
	}
	return nil
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	_, err := t.u.Step()
	return ignore(err)
}

func (t *ConsoleUI) cmdToggle(_ *gocui.View) error {
	return ignore(t.u.Toggle())
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	return ignore(t.u.Clear())
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	return ignore(t.u.Randomize())
}

func (t *ConsoleUI) cmdNextTemplate(_ *gocui.View) error {
	names := t.u.TemplateNames()
	if len(names) == 0 {
		return nil
	}
	t.template = (t.template + 1) % len(names)
	return ignore(t.u.ApplyTemplate(names[t.template]))
}

func (t *ConsoleUI) fpsBy(delta int) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		return ignore(t.u.SetFps(t.u.Fps() + delta))
	}
}

//resizeBy changes the board size and settles it with random data, like a size slider does
func (t *ConsoleUI) resizeBy(dRows int, dColumns int) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		rows, columns := t.u.Dimensions()
		if err := t.u.SetDimensions(rows+dRows, columns+dColumns); err != nil {
			return ignore(err)
		}
		return ignore(t.u.Randomize())
	}
}

func (t *ConsoleUI) flipRule(kind universe.RuleKind, n int) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		flag, err := t.u.RuleFlag(kind, n)
		if err != nil {
			return ignore(err)
		}
		return ignore(t.u.SetRuleFlag(kind, n, !flag))
	}
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	return ignore(t.u.ToggleCell(cy, cx))
}
