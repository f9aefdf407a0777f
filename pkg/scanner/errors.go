package scanner

import (
	"errors"
	"fmt"
	"io/fs"
)

// IOError reports a directory that could not be enumerated or a file that
// could not be read. It is recorded in Result.Errors and never aborts a scan.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// PermissionError is an IOError caused by missing access rights.
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s: %v", e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// newIOError classifies err, returning a *PermissionError for access
// failures and an *IOError otherwise.
func newIOError(op, path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return &PermissionError{Path: path, Err: err}
	}
	return &IOError{Op: op, Path: path, Err: err}
}
