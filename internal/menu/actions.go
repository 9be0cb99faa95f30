package menu

// buildActionsRow appends the trailing row with the reload, open-folder and
// create buttons. folder is captured now and used when the button fires.
func buildActionsRow(m *Menu, app *App, plugin *Plugin, folder string) {
	m.addItem(func(row *Row) {
		row.Icon = ""
		row.Title = "Actions"
		row.TitleStyle = "font-weight: 700"
		row.gap = buttonMargin

		reload := row.addButton(RegionReload, "ms-reload", "MySnippetsButton MS-Reload", "Reload snippets")
		openFolder := row.addButton(RegionOpenFolder, "ms-folder", "MySnippetsButton MS-Folder", "Open snippets folder")
		create := row.addButton(RegionCreate, "ms-add", "MySnippetsButton MS-Add", "Create new snippet")

		reload.Style = "margin-right: 3px"
		create.Style = "margin-left: 3px"

		reload.onClick = func(ev *Event) {
			ev.StopPropagation()
			err := app.Registry.RequestReload()
			if err == nil && app.Notifier != nil {
				app.Notifier.Notify(NoticeReloaded)
			}
			m.report(Result{Op: OpReload, Err: err})
		}
		openFolder.onClick = func(ev *Event) {
			ev.StopPropagation()
			m.report(Result{Op: OpOpenFolder, Target: folder, Err: app.Opener.Open(folder)})
		}
		create.onClick = func(ev *Event) {
			ev.StopPropagation()
			m.report(Result{Op: OpCreate, Err: app.Dialog.Open(app, plugin)})
		}
	})
}
