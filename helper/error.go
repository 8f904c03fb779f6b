package helper

import "fmt"

// NewError wraps an error with a short context describing the failed step.
func NewError(context string, err error) error {
	return fmt.Errorf("error in %s: %w", context, err)
}
