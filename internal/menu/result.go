package menu

import (
	"fmt"
	"log/slog"
)

// Operations performed by menu handlers.
const (
	OpToggle     = "toggle"
	OpOpen       = "open"
	OpReload     = "reload"
	OpOpenFolder = "open-folder"
	OpCreate     = "create"
)

// NoticeReloaded is shown after a successful reload.
const NoticeReloaded = "Snippets reloaded"

// Result is the outcome of one collaborator call made by a handler.
type Result struct {
	Op     string
	Target string
	Err    error
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Message renders a user-facing failure message.
func (r Result) Message() string {
	switch r.Op {
	case OpToggle:
		return fmt.Sprintf("Failed to toggle snippet %q: %v", r.Target, r.Err)
	case OpOpen:
		return fmt.Sprintf("Failed to open snippet %q: %v", r.Target, r.Err)
	case OpReload:
		return fmt.Sprintf("Failed to reload snippets: %v", r.Err)
	case OpOpenFolder:
		return fmt.Sprintf("Failed to open snippets folder: %v", r.Err)
	case OpCreate:
		return fmt.Sprintf("Failed to open snippet creation dialog: %v", r.Err)
	}
	return fmt.Sprintf("Failed to %s: %v", r.Op, r.Err)
}

// FailurePolicy decides what happens to failed Results.
type FailurePolicy int

const (
	// PolicyNotify logs the failure and shows it to the user.
	PolicyNotify FailurePolicy = iota
	// PolicyLog only logs the failure.
	PolicyLog
	// PolicySilent drops the failure.
	PolicySilent
)

// Policy names as used in configuration.
const (
	PolicyNameNotify = "notify"
	PolicyNameLog    = "log"
	PolicyNameSilent = "silent"
)

// ParsePolicy maps a configuration name to a FailurePolicy. The empty
// string selects PolicyNotify.
func ParsePolicy(name string) (FailurePolicy, error) {
	switch name {
	case "", PolicyNameNotify:
		return PolicyNotify, nil
	case PolicyNameLog:
		return PolicyLog, nil
	case PolicyNameSilent:
		return PolicySilent, nil
	}
	return PolicyNotify, fmt.Errorf("menu: unknown failure policy %q", name)
}

func (p FailurePolicy) reporter(app *App) func(Result) {
	return func(r Result) {
		if r.OK() || p == PolicySilent {
			return
		}
		app.logger().Warn("menu: action failed",
			slog.String("op", r.Op),
			slog.String("target", r.Target),
			slog.String("error", r.Err.Error()))
		if p == PolicyNotify && app.Notifier != nil {
			app.Notifier.Notify(r.Message())
		}
	}
}
