// Package commands parses and dispatches palette commands. Parsing is
// pure; execution happens through caller-supplied handlers so the
// package stays free of storage and scheduler concerns.
package commands

import (
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeDone     Type = "done"
	TypeDelete   Type = "delete"
	TypeBirthday Type = "birthday"
	TypeGreet    Type = "greet"
	TypeClear    Type = "clear"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title string
	// ReminderAt is set when the title carried an "at:2006-01-02T15:04"
	// suffix token.
	ReminderAt *time.Time
}

type DoneArgs struct {
	Target string
}

type DeleteArgs struct {
	Target string
}

type BirthdayArgs struct {
	Name      string
	BirthDate time.Time
	Phone     string
}

type GreetArgs struct {
	Target string
}

// ClearArgs selects what to purge: "archive" or "notifications".
type ClearArgs struct {
	Subject string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Done     *DoneArgs
	Delete   *DeleteArgs
	Birthday *BirthdayArgs
	Greet    *GreetArgs
	Clear    *ClearArgs
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

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
	case TypeDone:
		return parseDone(input, args)
	case TypeDelete:
		return parseDelete(input, args)
	case TypeBirthday:
		return parseBirthday(input, args)
	case TypeGreet:
		return parseGreet(input, args)
	case TypeClear:
		return parseClear(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}

	var reminderAt *time.Time
	titleParts := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(strings.ToLower(arg), "at:") {
			value := strings.TrimPrefix(arg, "at:")
			at, err := time.ParseInLocation(dateTimeLayout, value, time.Local)
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad reminder time %q, want %s", value, dateTimeLayout)}
			}
			reminderAt = &at
			continue
		}
		titleParts = append(titleParts, arg)
	}

	title := strings.TrimSpace(strings.Join(titleParts, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title, ReminderAt: reminderAt}}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires a task id or title prefix"}
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Target: strings.Join(args, " ")}}, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "delete requires a task id or title prefix"}
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Target: strings.Join(args, " ")}}, nil
}

func parseBirthday(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "birthday requires a name and a date"}
	}

	var (
		birthDate time.Time
		phone     string
		nameParts []string
	)
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "phone:"):
			phone = strings.TrimPrefix(arg, "phone:")
		case birthDate.IsZero() && looksLikeDate(arg):
			parsed, err := time.ParseInLocation(dateLayout, arg, time.Local)
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad birth date %q, want %s", arg, dateLayout)}
			}
			birthDate = parsed
		default:
			nameParts = append(nameParts, arg)
		}
	}

	name := strings.TrimSpace(strings.Join(nameParts, " "))
	if name == "" || birthDate.IsZero() {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "birthday requires a name and a date"}
	}
	return Command{Type: TypeBirthday, Raw: raw, Birthday: &BirthdayArgs{Name: name, BirthDate: birthDate, Phone: phone}}, nil
}

func parseGreet(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "greet requires a birthday id or name prefix"}
	}
	return Command{Type: TypeGreet, Raw: raw, Greet: &GreetArgs{Target: strings.Join(args, " ")}}, nil
}

func parseClear(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "clear requires a subject: archive or notifications"}
	}
	subject := strings.ToLower(args[0])
	if subject != "archive" && subject != "notifications" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("cannot clear %q, want archive or notifications", subject)}
	}
	return Command{Type: TypeClear, Raw: raw, Clear: &ClearArgs{Subject: subject}}, nil
}

func looksLikeDate(s string) bool {
	if len(s) != len(dateLayout) {
		return false
	}
	return s[4] == '-' && s[7] == '-'
}
