package chat

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/tools"
)

func TestDescribe(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		want string
	}{
		{
			name: "service with status",
			err:  newServiceError(fmt.Errorf("wrapped: %w", &agent.APIError{StatusCode: 503, Message: "overloaded"})),
			want: "status 503",
		},
		{
			name: "service without status",
			err:  newServiceError(errors.New("dial tcp: refused")),
			want: "dial tcp: refused",
		},
		{
			name: "protocol",
			err:  &ProtocolError{Reason: "no output message"},
			want: "no output message",
		},
		{
			name: "mismatch",
			err:  &tools.ToolMismatchError{Name: "rm"},
			want: `"rm"`,
		},
		{
			name: "rounds",
			err:  ErrTooManyToolRounds,
			want: "kept calling tools",
		},
		{
			name: "other",
			err:  errors.New("disk full"),
			want: "disk full",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Describe(tc.err)
			if !strings.Contains(got, tc.want) || !strings.HasSuffix(got, "Please try again.") {
				t.Errorf("Describe() = %q, want it to mention %q and ask to try again", got, tc.want)
			}
		})
	}
}

func TestNewServiceErrorStatus(t *testing.T) {
	err := newServiceError(&agent.APIError{StatusCode: 401, Type: "authentication_error"})
	if err.StatusCode != 401 {
		t.Errorf("StatusCode = %d, want 401", err.StatusCode)
	}
	var apiErr *agent.APIError
	if !errors.As(err, &apiErr) {
		t.Error("ServiceError must unwrap to the APIError")
	}
}
