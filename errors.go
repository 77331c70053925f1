package embedded

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorType classifies the failures surfaced by this package.
type ErrorType int

const (
	// EngineFailure wraps an error reported by the underlying engine.
	EngineFailure ErrorType = iota
	// AlreadyRunning is reported when an instance is already live in the process.
	AlreadyRunning
	// NotRunning is reported when an operation needs a live instance.
	NotRunning
	// ParameterNotFound is reported for a parameter index outside the statement.
	ParameterNotFound
	// ColumnNotFound is reported for an unknown result column.
	ColumnNotFound
	// IndexOutOfRange is reported for a row index outside the result.
	IndexOutOfRange
	// MissingParameter is reported when rendering a statement with unset parameters.
	MissingParameter
	// PrecisionExceeded is reported when a decimal does not fit its slot.
	PrecisionExceeded
	// InvalidLiteral is reported when a value cannot be written as a literal for its slot.
	InvalidLiteral
	// UnsupportedConversion is reported for a value kind and target type that do not mix.
	UnsupportedConversion
	// ResultSetClosed is reported by accessors of a closed result set.
	ResultSetClosed
	// ConnectionClosed is reported by operations on a closed connection.
	ConnectionClosed
	// StatementClosed is reported by operations on a released prepared statement.
	StatementClosed
	// ConfigMismatch is reported when joining a running instance with conflicting settings.
	ConfigMismatch
	// UnexpectedResult is reported when a statement produced the wrong kind of result.
	UnexpectedResult
	// TransactionFailure is reported for transaction control used in the wrong mode.
	TransactionFailure
)

var errorTypeNames = [...]string{
	EngineFailure:         "engine failure",
	AlreadyRunning:        "already running",
	NotRunning:            "not running",
	ParameterNotFound:     "parameter not found",
	ColumnNotFound:        "column not found",
	IndexOutOfRange:       "index out of range",
	MissingParameter:      "missing parameter",
	PrecisionExceeded:     "precision exceeded",
	InvalidLiteral:        "invalid literal",
	UnsupportedConversion: "unsupported conversion",
	ResultSetClosed:       "result set closed",
	ConnectionClosed:      "connection closed",
	StatementClosed:       "statement closed",
	ConfigMismatch:        "configuration mismatch",
	UnexpectedResult:      "unexpected result",
	TransactionFailure:    "transaction failure",
}

func (t ErrorType) String() string {
	if int(t) >= 0 && int(t) < len(errorTypeNames) {
		return errorTypeNames[t]
	}
	return fmt.Sprintf("ErrorType(%d)", int(t))
}

// Error is the error type returned by every operation of this package.
type Error struct {
	Type    ErrorType
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// Error returns the error message.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Type.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("embedded: %s: %v", msg, e.Err)
	}
	return "embedded: " + msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same type, so that
// errors.Is(err, ErrNotRunning) matches any NotRunning failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// Sentinels usable with errors.Is.
var (
	ErrEngine                = &Error{Type: EngineFailure}
	ErrAlreadyRunning        = &Error{Type: AlreadyRunning}
	ErrNotRunning            = &Error{Type: NotRunning}
	ErrParameterNotFound     = &Error{Type: ParameterNotFound}
	ErrColumnNotFound        = &Error{Type: ColumnNotFound}
	ErrIndexOutOfRange       = &Error{Type: IndexOutOfRange}
	ErrMissingParameter      = &Error{Type: MissingParameter}
	ErrPrecisionExceeded     = &Error{Type: PrecisionExceeded}
	ErrInvalidLiteral        = &Error{Type: InvalidLiteral}
	ErrUnsupportedConversion = &Error{Type: UnsupportedConversion}
	ErrResultSetClosed       = &Error{Type: ResultSetClosed}
	ErrConnectionClosed      = &Error{Type: ConnectionClosed}
	ErrStatementClosed       = &Error{Type: StatementClosed}
	ErrConfigMismatch        = &Error{Type: ConfigMismatch}
	ErrUnexpectedResult      = &Error{Type: UnexpectedResult}
	ErrTransaction           = &Error{Type: TransactionFailure}
)

// Causes attached to ErrConfigMismatch, one per conflicting setting.
var (
	ErrRunningInMemory         = errors.New("an instance is already running in memory")
	ErrRunningInDirectory      = errors.New("an instance is already running in a directory")
	ErrDifferentDirectory      = errors.New("an instance is already running in a different directory")
	ErrDifferentQuietFlag      = errors.New("an instance is already running with a different quiet flag")
	ErrDifferentSequentialFlag = errors.New("an instance is already running with a different sequential flag")
)

// NewError creates a new Error.
func NewError(typ ErrorType, message string) *Error {
	return &Error{
		Type:    typ,
		Message: message,
	}
}

func newErrorf(typ ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: typ, Message: fmt.Sprintf(format, args...)}
}

// engineError wraps a failure returned across the engine boundary.
func engineError(err error, op string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Type: EngineFailure, Message: op, Err: errors.WithStack(err)}
}

// IsError checks if an error is of a specific type.
func IsError(err error, typ ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == typ
}
