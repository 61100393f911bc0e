package commands

import (
	"fmt"
	"strconv"

	"github.com/sandeepkv93/habitd/internal/model"
)

type Result struct {
	Message string
}

type Handlers struct {
	Add       func(AddArgs) (Result, error)
	Increment func(TargetArgs) (Result, error)
	Reset     func(TargetArgs) (Result, error)
	Theme     func(ThemeArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeIncrement:
		if handlers.Increment == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "inc handler not configured"}
		}
		return handlers.Increment(*cmd.Increment)
	case TypeReset:
		if handlers.Reset == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "reset handler not configured"}
		}
		return handlers.Reset(*cmd.Reset)
	case TypeTheme:
		if handlers.Theme == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "theme handler not configured"}
		}
		return handlers.Theme(*cmd.Theme)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

// ResolveTarget maps a target to a habit id. An exact id match wins, so
// numeric ids still resolve; otherwise a number is a 1-based position in
// habits.
func ResolveTarget(target string, habits []model.Habit) (string, error) {
	for _, h := range habits {
		if h.ID == target {
			return h.ID, nil
		}
	}
	n, err := strconv.Atoi(target)
	if err != nil {
		return "", &CommandError{Code: ErrCodeNotFound, Message: fmt.Sprintf("no habit with id %s", target)}
	}
	if n < 1 || n > len(habits) {
		return "", &CommandError{Code: ErrCodeNotFound, Message: fmt.Sprintf("no habit at position %d or with id %s", n, target)}
	}
	return habits[n-1].ID, nil
}
