//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "strings"

// Action is the access verb a caller wants to perform on a person record.
// The verb spelling is embedded verbatim in required role names
// (e.g. "campus.Read.Student"), so it is capitalized.
type Action string

const (
	ActionRead   Action = "Read"
	ActionWrite  Action = "Write"
	ActionDelete Action = "Delete"
)

// Valid reports whether the action is supported.
func (a Action) Valid() bool {
	switch a {
	case ActionRead, ActionWrite, ActionDelete:
		return true
	default:
		return false
	}
}

// ParseAction normalizes an action string case-insensitively and reports
// whether it is supported.
func ParseAction(value string) (Action, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "read":
		return ActionRead, true
	case "write":
		return ActionWrite, true
	case "delete":
		return ActionDelete, true
	default:
		return "", false
	}
}
