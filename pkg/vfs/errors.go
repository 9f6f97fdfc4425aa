package vfs

import (
	"errors"
	"io/fs"
)

// Errors that may be wrapped in a *PathError. ErrNotExist and ErrPermission
// are the io/fs sentinels, so errors.Is(err, fs.ErrNotExist) also works.
var (
	ErrNotExist     = fs.ErrNotExist
	ErrPermission   = fs.ErrPermission
	ErrNotDir       = errors.New("not a directory")
	ErrIsDir        = errors.New("is a directory")
	ErrNotEmpty     = errors.New("directory not empty")
	ErrNotSupported = errors.New("operation not supported")
)

// PathError records a failed operation together with the path it was
// operating on.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string { return e.Op + " " + e.Path + ": " + e.Err.Error() }

func (e *PathError) Unwrap() error { return e.Err }

// Class returns a short name for the kind of failure err represents, for use
// in logs and metric labels.
func Class(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrPermission):
		return "permission"
	case errors.Is(err, ErrNotExist):
		return "not_exist"
	case errors.Is(err, ErrNotDir):
		return "not_dir"
	case errors.Is(err, ErrIsDir):
		return "is_dir"
	case errors.Is(err, ErrNotEmpty):
		return "not_empty"
	case errors.Is(err, ErrNotSupported):
		return "not_supported"
	default:
		return "other"
	}
}
