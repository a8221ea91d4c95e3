package contact

// invalidSubmissionError signals a rejected submission for 400 mapping.
type invalidSubmissionError struct{ reason string }

func (e invalidSubmissionError) Error() string { return e.reason }

// ErrInvalidSubmission constructs an invalidSubmissionError.
func ErrInvalidSubmission(reason string) error { return invalidSubmissionError{reason: reason} }

// IsInvalidSubmission reports whether err indicates a rejected submission.
func IsInvalidSubmission(err error) bool {
	_, ok := err.(invalidSubmissionError)
	return ok
}
