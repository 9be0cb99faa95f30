package menu

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a position in menu-local pixels (origin at the menu's top-left).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is a half-open rectangle [Min, Max).
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Center returns the middle point of r.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

func rect(x, y, w, h int) Rect {
	return Rect{Min: Point{X: x, Y: y}, Max: Point{X: x + w, Y: y + h}}
}

// Anchor insets from the bottom-right corner of the viewport.
const (
	AnchorInsetX = 15
	AnchorInsetY = 37
)

// AnchorFor returns the position the menu is shown at for a viewport of
// width w and height h.
func AnchorFor(w, h int) Point {
	return Point{X: w - AnchorInsetX, Y: h - AnchorInsetY}
}

// Layout metrics.
const (
	MenuWidth       = 240
	RowHeight       = 28
	SeparatorHeight = 9

	menuPadding  = 6
	toggleWidth  = 36
	toggleHeight = 18
	buttonWidth  = 26
	buttonHeight = 24
	controlGap   = 6
	buttonMargin = 3
)

// layout assigns bounds to every row and control. Rows stack top to
// bottom; controls are right-aligned in declaration order.
func (m *Menu) layout() {
	y := menuPadding
	for _, row := range m.Rows {
		h := RowHeight
		if row.Separator {
			h = SeparatorHeight
		}
		row.Bounds = rect(0, y, MenuWidth, h)

		x := MenuWidth - menuPadding
		for i := len(row.Controls) - 1; i >= 0; i-- {
			c := row.Controls[i]
			w, ch := buttonWidth, buttonHeight
			if c.Kind == KindToggle {
				w, ch = toggleWidth, toggleHeight
			}
			x -= w
			c.Bounds = rect(x, y+(h-ch)/2, w, ch)
			x -= row.gap
		}
		y += h
	}
	m.Width = MenuWidth
	m.Height = y + menuPadding
}

func rowID(i int) string {
	return fmt.Sprintf("row-%d", i)
}

// parseRowID extracts the row index from a target id such as "row-3" or
// "row-3/open".
func parseRowID(target string) (int, bool) {
	head, _, _ := strings.Cut(target, "/")
	num, ok := strings.CutPrefix(head, "row-")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(num)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
