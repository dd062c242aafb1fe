package mongokit

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Declaration-time codes. These are fatal to NewDocument and never
	// surface from a validation pass.
	CodeSchema = "schema_error"
	CodePath   = "path_error"

	// Validation-time codes.
	CodeInvalidType = "invalid_type"
	CodeUnknownKey  = "unknown_key"
	CodeRequired    = "required"
	CodeValidator   = "validation"
	CodeExtension   = "extension"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // Dot path (for example: foo.spam). Empty for document-level issues.
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected/got details, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"expected":"string", "got":"int"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		if it.Path == "" {
			b.WriteString(it.Code)
			continue
		}
		// e.g. invalid_type at foo.spam
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func singleIssue(code, path, msg string) Issues {
	return AppendIssues(nil, Issue{Code: code, Path: path, Message: msg})
}
