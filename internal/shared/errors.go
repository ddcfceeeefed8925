package shared

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error. Callers only ever see the message string;
// the kind is for logging and envelope shaping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// String returns a short label for log output.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified domain error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New constructs a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf constructs a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	// ErrUnauthenticated indicates a missing or invalid token on a guarded operation.
	ErrUnauthenticated = New(KindAuthentication, "Authentication Required")
	// ErrPermissionDenied indicates an insufficient role or failed ownership check.
	ErrPermissionDenied = New(KindAuthorization, "Permission Denied")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = New(KindNotFound, "User Not Found")
	// ErrWrongPassword indicates a failed password comparison on login.
	ErrWrongPassword = New(KindAuthentication, "Wrong Password")
	// ErrEmailTaken indicates an email uniqueness violation.
	ErrEmailTaken = New(KindConflict, "Email already exists")
	// ErrUsernameTaken indicates a username uniqueness violation.
	ErrUsernameTaken = New(KindConflict, "User name already exists")
	// ErrCategoryNameTaken indicates a category name uniqueness violation.
	ErrCategoryNameTaken = New(KindConflict, "Category name already exists")
	// ErrCategoryNotFound indicates the referenced category does not exist.
	ErrCategoryNotFound = New(KindNotFound, "Category Not Found")
	// ErrInternal hides unexpected persistence or runtime faults from callers.
	ErrInternal = New(KindInternal, "Internal server error occurred")
)

// KindOf extracts the kind of an error chain. Unclassified errors are internal.
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}
