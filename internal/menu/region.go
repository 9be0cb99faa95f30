package menu

import "fmt"

// Region names a sub-area of a row that owns click handling.
type Region int

const (
	RegionElsewhere Region = iota
	RegionToggle
	RegionOpenButton
	RegionReload
	RegionOpenFolder
	RegionCreate
)

var regionNames = map[Region]string{
	RegionElsewhere:  "elsewhere",
	RegionToggle:     "toggle",
	RegionOpenButton: "open",
	RegionReload:     "reload",
	RegionOpenFolder: "open-folder",
	RegionCreate:     "create",
}

func (r Region) String() string {
	if s, ok := regionNames[r]; ok {
		return s
	}
	return fmt.Sprintf("region(%d)", int(r))
}

// MarshalText encodes the region by name.
func (r Region) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a region name.
func (r *Region) UnmarshalText(b []byte) error {
	for k, v := range regionNames {
		if v == string(b) {
			*r = k
			return nil
		}
	}
	return fmt.Errorf("menu: unknown region %q", b)
}

// Event is one click delivered to the menu.
type Event struct {
	// Pos is the click position in menu-local pixels.
	Pos Point
	// Target optionally names the element that was clicked, e.g.
	// "row-0/toggle". When set it takes precedence over Pos.
	Target string

	stopped   bool
	prevented bool
}

// StopPropagation keeps the event from reaching enclosing handlers.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault suppresses the host's default handling.
func (e *Event) PreventDefault() { e.prevented = true }

// PropagationStopped reports whether a handler claimed the event.
func (e *Event) PropagationStopped() bool { return e.stopped }

// DefaultPrevented reports whether a handler suppressed default handling.
func (e *Event) DefaultPrevented() bool { return e.prevented }
