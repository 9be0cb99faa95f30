// Package menu builds the snippets popup menu and arbitrates clicks on it.
//
// A Menu is a headless model: rows of controls with menu-local geometry.
// A front end renders the View it is handed and reports raw clicks back as
// Events; Dispatch routes each click to exactly one handler.
//
// Click routing:
//   - The event is resolved to a row, either by its Target id ("row-2/toggle")
//     or by its position.
//   - Row.Classify maps the event to a Region. A click inside a control's
//     region fires that control first; toggles flip their value and buttons
//     run their handler.
//   - If propagation was not stopped, the row's own click handler runs.
//   - If propagation is still not stopped, the click was unclaimed and the
//     menu hides, as a host menu does after an item click. Clicks outside
//     the menu bounds hide it too.
//
// Lifecycle:
//   - Controller owns the single live menu. Show is a no-op while a menu is
//     live; hiding the menu clears the reference.
//   - Every Controller method takes one mutex, so handlers never run
//     concurrently with each other or with Show.
package menu
