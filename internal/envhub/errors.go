package envhub

import "fmt"

// Code identifies one member of the library's closed error taxonomy.
type Code string

const (
	CodeNotFound      Code = "not_found"
	CodeAlreadyExists Code = "already_exists"
	CodePermission    Code = "permission"
	CodePathNotOnPath Code = "path_not_on_path"
	CodeIo            Code = "io"
	CodeParse         Code = "parse"
)

// Error is the error type the library returns to its UI collaborators
// for every failure in the taxonomy: a machine-readable Code plus a
// human-readable Message, optionally wrapping an underlying cause.
// Argument checks (an empty target binary in RegisterApp, an empty
// variable name in SetVariable, an alias with no recorded install
// directory in InstallShim) return plain errors that carry no Code.
type Error struct {
	Code    Code
	Message string
	Path    string // set for Permission and PathNotOnPath
	Err     error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func notFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func alreadyExists(format string, args ...any) *Error {
	return &Error{Code: CodeAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

func permission(path string, err error) *Error {
	return &Error{Code: CodePermission, Message: "operation requires elevated privileges", Path: path, Err: err}
}

func pathNotOnPath(path string) *Error {
	return &Error{Code: CodePathNotOnPath, Message: "install directory is not on PATH", Path: path}
}

func ioErr(format string, err error) *Error {
	return &Error{Code: CodeIo, Message: fmt.Sprintf(format, err), Err: err}
}

func parseErr(err error) *Error {
	return &Error{Code: CodeParse, Message: err.Error(), Err: err}
}
