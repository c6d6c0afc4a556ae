package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/tools"
)

// ErrTooManyToolRounds is returned by Say when the model keeps requesting
// tools past the configured number of rounds.
var ErrTooManyToolRounds = errors.New("too many consecutive tool rounds")

// ServiceError is a failure to reach the model service or an error answer
// from it.
type ServiceError struct {
	// StatusCode is the HTTP status of the answer, or 0 when unknown.
	StatusCode int
	Err        error
}

func newServiceError(err error) *ServiceError {
	e := &ServiceError{Err: err}
	var apiErr *agent.APIError
	if errors.As(err, &apiErr) {
		e.StatusCode = apiErr.StatusCode
	}
	return e
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("model service call failed: %v", e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ProtocolError means the service answered, but not with an assistant
// message.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "unexpected model reply: " + e.Reason
}

// Describe turns an error of Say into a short message for the user.
func Describe(err error) string {
	var serviceErr *ServiceError
	var protocolErr *ProtocolError
	var mismatchErr *tools.ToolMismatchError
	switch {
	case errors.Is(err, context.Canceled):
		return "Interrupted."
	case errors.Is(err, ErrTooManyToolRounds):
		return "The model kept calling tools without answering; stopped. Please try again."
	case errors.As(err, &serviceErr):
		if serviceErr.StatusCode != 0 {
			return fmt.Sprintf("The model service failed with status %d: %v. Please try again.", serviceErr.StatusCode, serviceErr.Err)
		}
		return fmt.Sprintf("The model service failed: %v. Please try again.", serviceErr.Err)
	case errors.As(err, &protocolErr):
		return fmt.Sprintf("The model sent an unexpected reply (%s). Please try again.", protocolErr.Reason)
	case errors.As(err, &mismatchErr):
		return fmt.Sprintf("The model asked for an unknown tool %q. Please try again.", mismatchErr.Name)
	}
	return fmt.Sprintf("Error: %v. Please try again.", err)
}
