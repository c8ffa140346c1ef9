package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid config")
	ErrExecution     = errors.New("execution error")

	ErrUnknownKeyFormat = errors.New("unknown key format")
	ErrUnknownPaginator = errors.New("unknown paginator")
	ErrClientNotSet     = errors.New("client was not set")

	ErrShapeMismatch            = errors.New("shape mismatch")
	ErrUnsupportedDatatype      = errors.New("unsupported datatype")
	ErrRelationshipNotFound     = errors.New("relationship not found")
	ErrRelationshipNotIncluded  = errors.New("relationship not included")
	ErrUnsupportedSortDirection = errors.New("unsupported sort direction")
	ErrDuplicateAttribute       = errors.New("duplicate attribute")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindInvalidConfig ErrorKind = "invalid_config"
	KindExecution     ErrorKind = "execution"

	KindConfiguration            ErrorKind = "configuration"
	KindShapeMismatch            ErrorKind = "shape_mismatch"
	KindUnsupportedDatatype      ErrorKind = "unsupported_datatype"
	KindRelationshipNotFound     ErrorKind = "relationship_not_found"
	KindRelationshipNotIncluded  ErrorKind = "relationship_not_included"
	KindUnsupportedSortDirection ErrorKind = "unsupported_sort_direction"
	KindAPI                      ErrorKind = "api_error"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path or request path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// ErrorObjects is the top-level `errors` member of a JSON:API payload.
// It satisfies error so server-reported failures can travel as a cause.
type ErrorObjects []ErrorObject

func (e ErrorObjects) Error() string {
	if len(e) == 0 {
		return "no error objects"
	}
	parts := make([]string, 0, len(e))
	for _, obj := range e {
		parts = append(parts, obj.String())
	}
	return strings.Join(parts, "; ")
}
