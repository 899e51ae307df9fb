package engine

import (
	"errors"
	"fmt"

	"github.com/nathoo/shmoopland/engine/crafting"
)

// Failure kinds reported through CommandError. Match them with errors.Is.
var (
	ErrUnrecognized  = errors.New("unrecognized command")
	ErrMissingObject = errors.New("missing object")
	ErrItemNotFound  = errors.New("item not found")
	ErrAlreadyHeld   = errors.New("already held")
	ErrNotCarried    = errors.New("not carried")
	ErrNoSuchExit    = errors.New("no such exit")
	ErrNpcNotPresent = errors.New("npc not present")
	ErrUnknownQuest  = errors.New("unknown quest")
	ErrUnknownSkill  = errors.New("unknown skill")

	ErrWrongLocation      = crafting.ErrWrongLocation
	ErrMissingIngredients = crafting.ErrMissingIngredients
	ErrNoMatch            = crafting.ErrNoMatch
)

// CommandError is a recoverable failure of one command. Message is shown to
// the player as is.
type CommandError struct {
	Kind    error
	Message string
}

func (e *CommandError) Error() string {
	return e.Message
}

func (e *CommandError) Unwrap() error {
	return e.Kind
}

func fail(kind error, format string, args ...any) *CommandError {
	return &CommandError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
