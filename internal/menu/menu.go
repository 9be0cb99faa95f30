package menu

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/starford/mysnippets/internal/apperr"
)

// MarkerClass tags the root of the snippets menu.
const MarkerClass = "MySnippets-statusbar-menu"

const aestheticStyle = "background-color: transparent; backdrop-filter: blur(8px); -webkit-backdrop-filter: blur(8px);"

// ControlKind distinguishes toggles from buttons.
type ControlKind string

const (
	KindToggle ControlKind = "toggle"
	KindButton ControlKind = "button"
)

// Control is an interactive element inside a row.
type Control struct {
	ID      string
	Kind    ControlKind
	Region  Region
	Class   string
	Icon    string
	Tooltip string
	Style   string
	Value   bool // displayed value of a toggle
	Bounds  Rect

	onClick  func(*Event)
	onChange func(bool)
}

// fire delivers a click to the control. A toggle flips its displayed value
// and reports the change before its click listeners run.
func (c *Control) fire(ev *Event) {
	if c.Kind == KindToggle {
		c.Value = !c.Value
		if c.onChange != nil {
			c.onChange(c.Value)
		}
	}
	if c.onClick != nil {
		c.onClick(ev)
	}
}

// Row is one line of the menu.
type Row struct {
	Index      int
	Title      string
	TitleStyle string
	Icon       string
	Separator  bool
	Snippet    string // empty for the separator and the actions row
	Bounds     Rect
	Controls   []*Control

	gap     int
	onClick func(*Event)
}

// ID returns the row's target id.
func (r *Row) ID() string {
	return rowID(r.Index)
}

// Control returns the control owning region, or nil.
func (r *Row) Control(region Region) *Control {
	for _, c := range r.Controls {
		if c.Region == region {
			return c
		}
	}
	return nil
}

// Classify maps an event to the region of this row that owns it. A target
// id matches a control when it names the control or one of its
// descendants; otherwise the position is tested against control bounds.
func (r *Row) Classify(ev Event) Region {
	if ev.Target != "" {
		for _, c := range r.Controls {
			if ev.Target == c.ID || hasPathPrefix(ev.Target, c.ID) {
				return c.Region
			}
		}
		return RegionElsewhere
	}
	for _, c := range r.Controls {
		if c.Bounds.Contains(ev.Pos) {
			return c.Region
		}
	}
	return RegionElsewhere
}

func hasPathPrefix(s, prefix string) bool {
	return len(s) > len(prefix) && s[:len(prefix)] == prefix && s[len(prefix)] == '/'
}

func (r *Row) addToggle(value bool) *Control {
	c := &Control{
		ID:     r.ID() + "/toggle",
		Kind:   KindToggle,
		Region: RegionToggle,
		Class:  "checkbox-container",
		Value:  value,
	}
	r.Controls = append(r.Controls, c)
	return c
}

func (r *Row) addButton(region Region, icon, class, tooltip string) *Control {
	c := &Control{
		ID:      r.ID() + "/" + region.String(),
		Kind:    KindButton,
		Region:  region,
		Class:   class,
		Icon:    icon,
		Tooltip: tooltip,
	}
	r.Controls = append(r.Controls, c)
	return c
}

// Menu is one popup menu instance.
type Menu struct {
	ID     string
	Class  string
	Style  string
	Anchor Point
	Width  int
	Height int
	Rows   []*Row

	hidden bool
	report func(Result)
	onHide []func()
}

func newMenu() *Menu {
	return &Menu{
		ID:     uuid.NewString(),
		report: func(Result) {},
	}
}

func (m *Menu) addItem(build func(*Row)) *Row {
	row := &Row{Index: len(m.Rows), gap: controlGap}
	m.Rows = append(m.Rows, row)
	build(row)
	return row
}

func (m *Menu) addSeparator() {
	m.Rows = append(m.Rows, &Row{Index: len(m.Rows), Separator: true})
}

func (m *Menu) showAtPosition(p Point) {
	m.Anchor = p
	m.layout()
}

// Hidden reports whether the menu has been dismissed.
func (m *Menu) Hidden() bool {
	return m.hidden
}

// Hide dismisses the menu. Hiding twice is a no-op.
func (m *Menu) Hide() {
	if m.hidden {
		return
	}
	m.hidden = true
	for _, fn := range m.onHide {
		fn()
	}
}

// Contains reports whether p lies inside the menu.
func (m *Menu) Contains(p Point) bool {
	return rect(0, 0, m.Width, m.Height).Contains(p)
}

// RowAt returns the row under p, or nil.
func (m *Menu) RowAt(p Point) *Row {
	for _, row := range m.Rows {
		if row.Bounds.Contains(p) {
			return row
		}
	}
	return nil
}

// Dispatch routes one click through the menu.
func (m *Menu) Dispatch(ev Event) error {
	if m.hidden {
		return fmt.Errorf("menu: %s is hidden", m.ID)
	}

	var row *Row
	if ev.Target != "" {
		i, ok := parseRowID(ev.Target)
		if !ok || i >= len(m.Rows) {
			return fmt.Errorf("menu: %q: %w", ev.Target, apperr.ErrBadTarget)
		}
		row = m.Rows[i]
	} else {
		if !m.Contains(ev.Pos) {
			m.Hide()
			return nil
		}
		row = m.RowAt(ev.Pos)
	}
	if row == nil || row.Separator {
		// Padding and separators swallow clicks.
		return nil
	}

	if region := row.Classify(ev); region != RegionElsewhere {
		if c := row.Control(region); c != nil {
			c.fire(&ev)
		}
	}
	if !ev.stopped && row.onClick != nil {
		row.onClick(&ev)
	}
	if !ev.stopped {
		m.Hide()
	}
	return nil
}
