package persistence

import "errors"

// ErrWorkflowNotFound is returned when the requested workflow does not exist.
var ErrWorkflowNotFound = errors.New("workflow not found")

// ErrInvalidWorkflow wraps boundary validation failures on save.
var ErrInvalidWorkflow = errors.New("invalid workflow")

func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

func IsInvalidWorkflow(err error) bool {
	return errors.Is(err, ErrInvalidWorkflow)
}
