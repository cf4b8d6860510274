package planner

import (
	"fmt"
	"strings"

	"github.com/corey-alix/trip-planner-app/internal/apperrors"
)

// Action is a navigation step from one stop to its neighbour.
type Action int

const (
	ActionNext Action = iota + 1
	ActionPrior
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrior:
		return "prior"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction accepts "next" and "prior" (or "previous").
func ParseAction(value string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "next":
		return ActionNext, nil
	case "prior", "previous":
		return ActionPrior, nil
	default:
		return 0, fmt.Errorf("%w: unknown navigation action %q", apperrors.Validation, value)
	}
}

// offset is the index step an action takes.
func (a Action) offset() (int, error) {
	switch a {
	case ActionNext:
		return 1, nil
	case ActionPrior:
		return -1, nil
	default:
		return 0, fmt.Errorf("%w: unknown navigation action %d", apperrors.Validation, int(a))
	}
}
