package services

import (
	"errors"
	"fmt"
)

// SubmissionError rejects user or admin input. Reason is shown to the user
// verbatim, so it names the exact problem.
type SubmissionError struct {
	Reason string
	// ExpectedSum and ActualSum are set for bowl confidence submissions.
	ExpectedSum int
	ActualSum   int
}

func (e *SubmissionError) Error() string {
	if e.ExpectedSum > 0 {
		return fmt.Sprintf("%s (expected confidence total %d, got %d)", e.Reason, e.ExpectedSum, e.ActualSum)
	}
	return e.Reason
}

func rejectf(format string, args ...interface{}) *SubmissionError {
	return &SubmissionError{Reason: fmt.Sprintf(format, args...)}
}

// IsSubmissionError reports whether err is (or wraps) a SubmissionError
func IsSubmissionError(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}
