package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrIO is returned when a project file cannot be read or written.
	ErrIO = Register(-1, "io error")

	// ErrUndefinedValue is returned when a required field holds the
	// undefined sentinel.
	ErrUndefinedValue = Register(2, "undefined value")

	// ErrNonexistingID is returned when a table, row, column or map cannot be
	// found.
	ErrNonexistingID = Register(3, "nonexisting id")

	// ErrValidation is returned for structurally invalid input that blocks
	// the migration.
	ErrValidation = Register(4, "validation error")

	// ErrOutOfRange is returned when a numeric value lies outside its
	// documented bounds and the caller chose not to clip it.
	ErrOutOfRange = Register(5, "out of range value")

	// ErrInvalidArgument is returned when a component is constructed from an
	// unusable collaborator, e.g. a model that was never loaded.
	ErrInvalidArgument = Register(6, "invalid argument")

	// ErrDepoAgeLimit is returned when a surface is older than the absolute
	// deposition age limit.
	ErrDepoAgeLimit = Register(21, "deposition age beyond limit")

	// ErrNegativeThickness is returned when a legacy thickness input is
	// negative and the migration rule becomes ill-defined.
	ErrNegativeThickness = Register(31, "negative thickness")

	// ErrUndatedLithology is returned when a user lithology has no derivable
	// parent and was created after the cutoff date.
	ErrUndatedLithology = Register(41, "undated user lithology")

	// ErrNoPorosityMapping is returned when a standard lithology uses a
	// deprecated porosity model and no replacement parameter set exists.
	ErrNoPorosityMapping = Register(42, "no porosity model mapping")
)

// GenericExitCode is used for failures that do not wrap a registered error.
const GenericExitCode = 1

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Codes must be unique. Code 0 means success and code 1 is reserved for
// unregistered failures; registering either, or reusing a code, panics.
//
// Use this function only during a program startup phase.
func Register(code int, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		if e == nil {
			panic(fmt.Sprintf("error code %d is reserved", code))
		}
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness.
var usedCodes = map[int]*Error{
	0:               nil,
	GenericExitCode: nil,
}

// Error represents a root error.
//
// Each instance created during the runtime should wrap one of the declared
// root errors. This allows kind tests and exit code selection.
type Error struct {
	code int
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the numeric code, which doubles as the process exit code.
func (e Error) Code() int {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//
//	e.New("my description")
//	Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == error(kind) {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping a error returned at the end of a function.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// Attach the stacktrace only once, at the most inner wrap.
	if !hasStackTrace(err) {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

// ExitCode returns the code of the registered root error wrapped by err.
// A nil error maps to 0 and an unregistered one to GenericExitCode.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	for {
		if e, ok := err.(*Error); ok {
			return e.code
		}
		c, ok := err.(causer)
		if !ok {
			return GenericExitCode
		}
		err = c.Cause()
	}
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Unwrap lets the standard library errors.Is and errors.As walk the chain.
func (e *wrappedError) Unwrap() error {
	return e.parent
}

// Format prints the description chain with %s and %v, and adds the stack
// trace recorded at the innermost wrap with %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s: %+v", e.msg, e.parent)
			return
		}
		fallthrough
	case 's':
		fmt.Fprint(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func hasStackTrace(err error) bool {
	for {
		if _, ok := err.(stackTracer); ok {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
}
