package host

import (
	"github.com/starford/mysnippets/internal/menu"
	"github.com/starford/mysnippets/internal/sse"
)

// Publisher is the part of the SSE broker the dialog needs.
type Publisher interface {
	Publish(event sse.Event)
}

// CreateSnippetDialog asks connected front ends to open the
// create-snippet modal. Naming and writing the file is the front end's job.
type CreateSnippetDialog struct {
	pub Publisher
}

// NewCreateSnippetDialog returns a dialog that publishes through pub.
func NewCreateSnippetDialog(pub Publisher) *CreateSnippetDialog {
	return &CreateSnippetDialog{pub: pub}
}

// Open implements menu.Dialog.
func (d *CreateSnippetDialog) Open(app *menu.App, plugin *menu.Plugin) error {
	d.pub.Publish(sse.Event{
		Type: sse.TypeDialogOpen,
		Data: map[string]string{
			"dialog":  "create-snippet",
			"plugin":  plugin.ID,
			"folder":  app.Registry.SnippetsFolder(),
			"version": plugin.Version,
		},
	})
	return nil
}
