package read

import "fmt"

// Op names the stage at which a file failed.
type Op string

const (
	OpOpen   Op = "open"
	OpDecode Op = "decode"
	OpRead   Op = "read"
)

// FileError is a per-file failure. It never aborts a run.
//
// The underlying error can be accessed via errors.Unwrap.
type FileError struct {
	Op   Op
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }
