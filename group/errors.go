package group

import "fmt"

// AggregateError wraps multiple task errors (CollectAll mode).
type AggregateError struct {
	Errors []error
}

func (a AggregateError) Error() string {
	if len(a.Errors) == 0 {
		return "no errors"
	}
	return fmt.Sprintf("%d errors: %v", len(a.Errors), a.Errors)
}

func (a AggregateError) Unwrap() []error {
	return a.Errors
}
