package storage

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"syscall"
)

type Code int

const (
	CodeIOError Code = iota + 1
	CodeNotFound
	CodeNotSupported
	CodeInvalidArgument
	CodeCorruption
	CodeTimedOut
	CodeAborted
)

func (c Code) String() string {
	switch c {
	case CodeIOError:
		return "IO error"
	case CodeNotFound:
		return "NotFound"
	case CodeNotSupported:
		return "Not implemented"
	case CodeInvalidArgument:
		return "Invalid argument"
	case CodeCorruption:
		return "Corruption"
	case CodeTimedOut:
		return "Operation timed out"
	case CodeAborted:
		return "Operation aborted"
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

type SubCode int

const (
	SubCodeNone SubCode = iota
	SubCodeNoSpace
	SubCodePathNotFound
	SubCodeIOFenced
)

var (
	ErrIOError         = &IOError{Code: CodeIOError}
	ErrNotFound        = &IOError{Code: CodeNotFound}
	ErrNotSupported    = &IOError{Code: CodeNotSupported}
	ErrInvalidArgument = &IOError{Code: CodeInvalidArgument}
	ErrCorruption      = &IOError{Code: CodeCorruption}
	ErrTimedOut        = &IOError{Code: CodeTimedOut}
	ErrNoSpace         = &IOError{Code: CodeIOError, SubCode: SubCodeNoSpace}
)

// IOError is the error type returned by backends. Sentinels such as
// ErrNotFound match any IOError with the same Code (and SubCode, when the
// sentinel sets one) through errors.Is.
type IOError struct {
	Code    Code
	SubCode SubCode
	Op      string
	Path    string

	Retryable bool
	DataLoss  bool

	Err error
}

func (e *IOError) Error() string {
	msg := e.Code.String()
	if e.SubCode == SubCodeNoSpace {
		msg += " (no space)"
	}
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool {
	t, ok := target.(*IOError)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.SubCode == SubCodeNone || t.SubCode == e.SubCode
}

func NewIOError(op, path string, err error) *IOError {
	return &IOError{Code: CodeIOError, Op: op, Path: path, Err: err}
}

func NotFound(op, path string) *IOError {
	return &IOError{Code: CodeNotFound, SubCode: SubCodePathNotFound, Op: op, Path: path, Err: iofs.ErrNotExist}
}

func NotSupported(op, path string) *IOError {
	return &IOError{Code: CodeNotSupported, Op: op, Path: path, Err: errors.ErrUnsupported}
}

func InvalidArgument(op, path, format string, args ...any) *IOError {
	return &IOError{Code: CodeInvalidArgument, Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}

func Corruption(op, path, format string, args ...any) *IOError {
	return &IOError{Code: CodeCorruption, Op: op, Path: path, DataLoss: true, Err: fmt.Errorf(format, args...)}
}

// FromOSError classifies an error returned by the os package. A nil err
// yields nil.
func FromOSError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return err
	}
	e := &IOError{Code: CodeIOError, Op: op, Path: path, Err: err}
	switch {
	case errors.Is(err, iofs.ErrNotExist):
		e.Code = CodeNotFound
		e.SubCode = SubCodePathNotFound
	case errors.Is(err, syscall.ENOSPC):
		e.SubCode = SubCodeNoSpace
	case errors.Is(err, syscall.EINTR), errors.Is(err, syscall.EAGAIN):
		e.Retryable = true
	case errors.Is(err, os.ErrDeadlineExceeded):
		e.Code = CodeTimedOut
		e.Retryable = true
	case errors.Is(err, syscall.EINVAL):
		e.Code = CodeInvalidArgument
	case errors.Is(err, errors.ErrUnsupported):
		e.Code = CodeNotSupported
	}
	return e
}

func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsNotSupported(err error) bool    { return errors.Is(err, ErrNotSupported) }
func IsCorruption(err error) bool      { return errors.Is(err, ErrCorruption) }
func IsNoSpace(err error) bool         { return errors.Is(err, ErrNoSpace) }
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsRetryable reports whether err, or any IOError it wraps, is marked
// retryable.
func IsRetryable(err error) bool {
	var e *IOError
	return errors.As(err, &e) && e.Retryable
}
