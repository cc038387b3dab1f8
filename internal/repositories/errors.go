package repositories

import "fmt"

// Error implements RepositoryError for the bundled storage backends.
type Error struct {
	op          string
	err         error
	notFound    bool
	conflict    bool
	unavailable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.op != "" {
		return fmt.Sprintf("%s: %v", e.op, e.err)
	}
	return e.err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// IsNotFound reports whether the error represents a missing record.
func (e *Error) IsNotFound() bool {
	return e != nil && e.notFound
}

// IsConflict reports whether the error represents a conflicting write.
func (e *Error) IsConflict() bool {
	return e != nil && e.conflict
}

// IsUnavailable reports whether the error represents a transient backend outage.
func (e *Error) IsUnavailable() bool {
	return e != nil && e.unavailable
}

// NewNotFoundError categorises a missing-record failure.
func NewNotFoundError(op string, err error) *Error {
	return &Error{op: op, err: err, notFound: true}
}

// NewConflictError categorises a conflicting write.
func NewConflictError(op string, err error) *Error {
	return &Error{op: op, err: err, conflict: true}
}

// NewUnavailableError categorises a transient backend failure.
func NewUnavailableError(op string, err error) *Error {
	return &Error{op: op, err: err, unavailable: true}
}

// IsNotFound reports whether err categorises as a missing record.
func IsNotFound(err error) bool {
	repoErr, ok := err.(RepositoryError)
	return ok && repoErr.IsNotFound()
}

// IsConflict reports whether err categorises as a conflicting write.
func IsConflict(err error) bool {
	repoErr, ok := err.(RepositoryError)
	return ok && repoErr.IsConflict()
}
