package formats

import "fmt"

// ParseError reports a malformed or truncated geometry file. It is
// recoverable: the caller keeps whatever mesh was loaded before.
type ParseError struct {
	Path    string
	Format  string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse %s (%s): %s", e.Path, e.Format, e.Message)
	}
	return fmt.Sprintf("parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError reports a file extension no parser handles
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type: %s (expected .stl, .stla or .obj)", e.Ext)
}

func parseErrorf(path, format string, msgFormat string, args ...interface{}) *ParseError {
	return &ParseError{Path: path, Format: format, Message: fmt.Sprintf(msgFormat, args...)}
}
