package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Done     func(DoneArgs) (Result, error)
	Delete   func(DeleteArgs) (Result, error)
	Birthday func(BirthdayArgs) (Result, error)
	Greet    func(GreetArgs) (Result, error)
	Clear    func(ClearArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "done handler not configured"}
		}
		return handlers.Done(*cmd.Done)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "delete handler not configured"}
		}
		return handlers.Delete(*cmd.Delete)
	case TypeBirthday:
		if handlers.Birthday == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "birthday handler not configured"}
		}
		return handlers.Birthday(*cmd.Birthday)
	case TypeGreet:
		if handlers.Greet == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "greet handler not configured"}
		}
		return handlers.Greet(*cmd.Greet)
	case TypeClear:
		if handlers.Clear == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "clear handler not configured"}
		}
		return handlers.Clear(*cmd.Clear)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
