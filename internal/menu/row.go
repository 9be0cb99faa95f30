package menu

// buildSnippetRow appends the row for one snippet: its name, a toggle
// showing the enabled state and a button that opens the file.
func buildSnippetRow(m *Menu, name string, app *App) {
	m.addItem(func(row *Row) {
		row.Title = name
		row.Snippet = name

		toggle := row.addToggle(app.Registry.IsEnabled(name))
		open := row.addButton(RegionOpenButton, "ms-snippet", "MS-OpenSnippet", "Open snippet")

		// Always re-read the registry: the state may have changed since
		// the menu was built.
		changeStatus := func() {
			enabled := app.Registry.IsEnabled(name)
			err := app.Registry.SetEnabled(name, !enabled)
			toggle.Value = app.Registry.IsEnabled(name)
			m.report(Result{Op: OpToggle, Target: name, Err: err})
		}

		toggle.onChange = func(bool) { changeStatus() }
		toggle.onClick = func(ev *Event) { ev.StopPropagation() }

		open.onClick = func(ev *Event) {
			ev.StopPropagation()
			path, err := app.Registry.SnippetPath(name)
			if err == nil {
				err = app.Opener.Open(path)
			}
			m.report(Result{Op: OpOpen, Target: name, Err: err})
		}

		row.onClick = func(ev *Event) {
			switch row.Classify(*ev) {
			case RegionToggle, RegionOpenButton:
				return
			}
			ev.PreventDefault()
			ev.StopPropagation()
			changeStatus()
		}
	})
}
