package admin

import (
	"strconv"
	"strings"
)

type ActionKind int

const (
	ActionSave ActionKind = iota
	// ActionEnter is sent by the form's default button, i.e. the Enter key.
	ActionEnter
	ActionAdd
	ActionRemove
)

// Action is the value of the submit button that posted a member form:
// "save", "enter", "add:<field>" or "remove:<field>:<index>".
type Action struct {
	Kind  ActionKind
	Field string
	Index int
}

// ParseAction never fails; unknown values mean save.
func ParseAction(s string) Action {
	parts := strings.Split(strings.TrimSpace(s), ":")
	switch parts[0] {
	case "enter":
		return Action{Kind: ActionEnter}
	case "add":
		if len(parts) == 2 && isTagField(parts[1]) {
			return Action{Kind: ActionAdd, Field: parts[1]}
		}
	case "remove":
		if len(parts) == 3 && isTagField(parts[1]) {
			if i, err := strconv.Atoi(parts[2]); err == nil {
				return Action{Kind: ActionRemove, Field: parts[1], Index: i}
			}
		}
	}
	return Action{Kind: ActionSave}
}

func isTagField(s string) bool {
	for _, f := range TagFields {
		if f == s {
			return true
		}
	}
	return false
}
