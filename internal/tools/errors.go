package tools

import (
	"errors"
	"fmt"
)

var (
	ErrToolNotFound     = errors.New("tools: tool not found")
	ErrNotAbsolute      = errors.New("tools: path is not absolute")
	ErrInvalidDir       = errors.New("tools: invalid directory")
	ErrOptionFileExists = errors.New("tools: option file already exists")
	ErrOptionFileCreate = errors.New("tools: option file creation failed")
	ErrOptionFileRead   = errors.New("tools: option file read failed")
	ErrSpawn            = errors.New("tools: spawn failed")
	ErrStopProcess      = errors.New("tools: stop process failed")
)

// Error is the single failure kind returned by this package. Kind is one of
// the package sentinels and Err is the underlying OS or library error, if any.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, cause error, format string, args ...any) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		Err:  cause,
	}
}
