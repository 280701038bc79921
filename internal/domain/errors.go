package domain

import "fmt"

// ValidationError reports a malformed or out-of-range input. It is returned
// before any work starts and should not be retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NumericAnomalyError reports a path whose balance stopped being finite.
type NumericAnomalyError struct {
	Path  int
	Year  int
	Value float64
}

func (e *NumericAnomalyError) Error() string {
	return fmt.Sprintf("numeric anomaly: path %d produced non-finite balance %v in year %d", e.Path, e.Value, e.Year)
}
