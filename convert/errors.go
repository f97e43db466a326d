package convert

import "fmt"

// Kind classifies a conversion failure. The CLI maps kinds to process exit
// codes, batch processing records the matching error code with the job.
type Kind int

const (
	// KindInput covers unreadable, unparsable or invalid source payloads.
	KindInput Kind = iota + 1
	// KindConversion covers failures while assembling the document: image
	// loading, format conversion, table composition.
	KindConversion
	// KindIO covers failures writing the finished package.
	KindIO
)

// Error carries the failure classification through the pipeline. It wraps
// the underlying cause, errors.As picks it out of any wrap chain.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInput:
		return "input error: " + e.Err.Error()
	case KindConversion:
		return "conversion error: " + e.Err.Error()
	case KindIO:
		return "io error: " + e.Err.Error()
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the stable error code recorded with failed jobs.
func (e *Error) Code() string {
	switch e.Kind {
	case KindInput:
		return "INPUT_ERROR"
	case KindConversion:
		return "CONVERSION_ERROR"
	case KindIO:
		return "IO_ERROR"
	default:
		return "ERROR"
	}
}

// ExitCode returns the process exit code for the failure kind.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindInput:
		return 1
	case KindConversion:
		return 2
	case KindIO:
		return 3
	default:
		return 1
	}
}

func failInput(format string, a ...any) error {
	return &Error{Kind: KindInput, Err: fmt.Errorf(format, a...)}
}

func failConversion(format string, a ...any) error {
	return &Error{Kind: KindConversion, Err: fmt.Errorf(format, a...)}
}

func failIO(format string, a ...any) error {
	return &Error{Kind: KindIO, Err: fmt.Errorf(format, a...)}
}
