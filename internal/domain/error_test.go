package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "code only",
			err:  &Error{Code: CodeUnavailable},
			want: "UNAVAILABLE",
		},
		{
			name: "code and message",
			err:  &Error{Code: CodeNotFound, Message: "tool missing"},
			want: "NOT_FOUND: tool missing",
		},
		{
			name: "op code and message",
			err:  &Error{Code: CodeInternal, Op: "router.invoke", Message: "boom"},
			want: "router.invoke: INTERNAL: boom",
		},
		{
			name: "message from cause",
			err:  &Error{Code: CodeInternal, Cause: errors.New("underlying")},
			want: "INTERNAL: underlying",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap_PreservesExistingCode(t *testing.T) {
	inner := E(CodeInvalidArgument, "localtools.invoke", "bad value", nil)
	wrapped := Wrap(CodeInternal, "router.invoke", fmt.Errorf("dispatch: %w", inner))

	code, ok := CodeFrom(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidArgument, code)
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(CodeInternal, "op", nil))
}

func TestCodeFrom_PlainError(t *testing.T) {
	_, ok := CodeFrom(errors.New("plain"))
	assert.False(t, ok)
}

func TestE_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := E(CodeInternal, "op", "", cause)
	assert.ErrorIs(t, err, cause)
}
