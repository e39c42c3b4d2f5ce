package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"gtodo/internal/exitcode"
	"gtodo/internal/tasklist"
)

// ErrTaskRefRequired indicates no task number was provided.
var ErrTaskRefRequired = errors.New("task number required")

// ParseTaskRef parses the 1-based task number in args[0] and returns the
// 0-based list index together with the remaining args.
//
// Task numbers always refer to positions in the unfiltered list, the same
// numbers `list` prints under any filter.
func ParseTaskRef(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, ErrTaskRefRequired
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, nil, fmt.Errorf("invalid task number: %s", ref)
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid task number: %s", ref)
	}
	if num < 1 {
		return 0, nil, fmt.Errorf("%w: %d", tasklist.ErrOutOfRange, num)
	}
	return num - 1, args[1:], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// reportError writes err to errOut and returns the matching exit code.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, ErrTaskRefRequired),
		errors.Is(err, tasklist.ErrEmptyTask),
		errors.Is(err, tasklist.ErrOutOfRange),
		errors.Is(err, tasklist.ErrInvalidFilter):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.StorageError
	}
}

// parseRef runs ParseTaskRef and reports failures. ok is false when the
// caller should return code.
func parseRef(errOut io.Writer, args []string) (index int, rest []string, code int, ok bool) {
	index, rest, err := ParseTaskRef(args)
	if err != nil {
		if errors.Is(err, ErrTaskRefRequired) || errors.Is(err, tasklist.ErrOutOfRange) {
			return 0, nil, reportError(errOut, err), false
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 0, nil, exitcode.UserError, false
	}
	return index, rest, exitcode.Success, true
}
