package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/habitd/internal/model"
)

type Type string

const (
	TypeAdd       Type = "add"
	TypeIncrement Type = "inc"
	TypeReset     Type = "reset"
	TypeTheme     Type = "theme"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
	ErrCodeNotFound        ErrorCode = "not_found"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries the raw goal text; parsing it is the tracker's job.
type AddArgs struct {
	Name string
	Goal string
}

// TargetArgs names a habit by 1-based list position or by id.
type TargetArgs struct {
	Target string
}

type ThemeArgs struct {
	Theme model.Theme
}

type Command struct {
	Type      Type
	Raw       string
	Add       *AddArgs
	Increment *TargetArgs
	Reset     *TargetArgs
	Theme     *ThemeArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeIncrement, "+", "increment":
		target, err := parseTarget("inc", args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeIncrement, Raw: input, Increment: target}, nil
	case TypeReset:
		target, err := parseTarget("reset", args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeReset, Raw: input, Reset: target}, nil
	case TypeTheme:
		return parseTheme(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a name and a goal"}
	}
	name := strings.Join(args[:len(args)-1], " ")
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Name: name, Goal: args[len(args)-1]}}, nil
}

func parseTarget(verb string, args []string) (*TargetArgs, error) {
	if len(args) != 1 {
		return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: verb + " requires exactly one habit number or id"}
	}
	return &TargetArgs{Target: args[0]}, nil
}

func parseTheme(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "theme requires dark or light"}
	}
	theme, ok := model.ParseTheme(strings.ToLower(args[0]))
	if !ok {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown theme: %s", args[0])}
	}
	return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Theme: theme}}, nil
}
