package menu

// View is the serialisable form of a menu handed to front ends.
type View struct {
	ID     string    `json:"id"`
	Class  string    `json:"class"`
	Style  string    `json:"style,omitempty"`
	Anchor Point     `json:"anchor"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Rows   []RowView `json:"rows"`
}

// RowView is the serialisable form of a row.
type RowView struct {
	ID         string        `json:"id"`
	Index      int           `json:"index"`
	Title      string        `json:"title,omitempty"`
	TitleStyle string        `json:"title_style,omitempty"`
	Icon       string        `json:"icon,omitempty"`
	Separator  bool          `json:"separator,omitempty"`
	Snippet    string        `json:"snippet,omitempty"`
	Bounds     Rect          `json:"bounds"`
	Controls   []ControlView `json:"controls,omitempty"`
}

// ControlView is the serialisable form of a control.
type ControlView struct {
	ID      string      `json:"id"`
	Kind    ControlKind `json:"kind"`
	Region  Region      `json:"region"`
	Class   string      `json:"class,omitempty"`
	Icon    string      `json:"icon,omitempty"`
	Tooltip string      `json:"tooltip,omitempty"`
	Style   string      `json:"style,omitempty"`
	Value   bool        `json:"value"`
	Bounds  Rect        `json:"bounds"`
}

// View snapshots the menu.
func (m *Menu) View() View {
	v := View{
		ID:     m.ID,
		Class:  m.Class,
		Style:  m.Style,
		Anchor: m.Anchor,
		Width:  m.Width,
		Height: m.Height,
		Rows:   make([]RowView, 0, len(m.Rows)),
	}
	for _, row := range m.Rows {
		rv := RowView{
			ID:         row.ID(),
			Index:      row.Index,
			Title:      row.Title,
			TitleStyle: row.TitleStyle,
			Icon:       row.Icon,
			Separator:  row.Separator,
			Snippet:    row.Snippet,
			Bounds:     row.Bounds,
		}
		for _, c := range row.Controls {
			rv.Controls = append(rv.Controls, ControlView{
				ID:      c.ID,
				Kind:    c.Kind,
				Region:  c.Region,
				Class:   c.Class,
				Icon:    c.Icon,
				Tooltip: c.Tooltip,
				Style:   c.Style,
				Value:   c.Value,
				Bounds:  c.Bounds,
			})
		}
		v.Rows = append(v.Rows, rv)
	}
	return v
}
