package convert

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestErrorClassification checks the kind to code and exit code mapping the
// CLI and the job store rely on.
func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		kind   Kind
		code   string
		exit   int
		prefix string
	}{
		{"input", failInput("no input source has been specified"), KindInput, "INPUT_ERROR", 1, "input error: "},
		{"conversion", failConversion("unsupported image format: %s", "chart.bin"), KindConversion, "CONVERSION_ERROR", 2, "conversion error: "},
		{"io", failIO("output file already exists: %s", "/tmp/a.hwpx"), KindIO, "IO_ERROR", 3, "io error: "},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var cerr *Error
			if !errors.As(c.err, &cerr) {
				t.Fatalf("expected *Error, got %T", c.err)
			}
			if cerr.Kind != c.kind {
				t.Errorf("wrong kind: got %d, want %d", cerr.Kind, c.kind)
			}
			if got := cerr.Code(); got != c.code {
				t.Errorf("wrong code: got %s, want %s", got, c.code)
			}
			if got := cerr.ExitCode(); got != c.exit {
				t.Errorf("wrong exit code: got %d, want %d", got, c.exit)
			}
			if !strings.HasPrefix(c.err.Error(), c.prefix) {
				t.Errorf("message %q does not start with %q", c.err.Error(), c.prefix)
			}
		})
	}
}

// TestErrorUnwrapsCause makes sure the cause survives classification so
// callers can still match on sentinel errors.
func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := failConversion("unable to download image: %w", cause)

	if !errors.Is(err, cause) {
		t.Errorf("classified error lost its cause: %v", err)
	}

	var cerr *Error
	if !errors.As(fmt.Errorf("outer context: %w", err), &cerr) {
		t.Error("classification not found through an extra wrap")
	} else if cerr.Kind != KindConversion {
		t.Errorf("wrong kind through wrap: got %d, want %d", cerr.Kind, KindConversion)
	}
}
