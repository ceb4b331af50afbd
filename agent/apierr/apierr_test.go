package apierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindDefaultStatus(t *testing.T) {
	require.Equal(t, 504, Timeout.Status())
	require.Equal(t, 409, Conflict.Status())
	require.Equal(t, 404, NotFound.Status())
	require.Equal(t, 500, Configuration.Status())
	require.Equal(t, 500, Upstream.Status())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(Timeout, cause, "wait exhausted")

	require.ErrorIs(t, err, cause)
	require.True(t, Is(err, Timeout))
	require.False(t, Is(err, Conflict))
	require.Equal(t, 504, StatusOf(err))
}

func TestAsErrorSeesThruWrapping(t *testing.T) {
	inner := New(NotFound, "rev_reg_id missing")
	outer := fmt.Errorf("publish pending revocations: %w", inner)

	e := AsError(outer)
	require.NotNil(t, e)
	require.Equal(t, NotFound, e.Kind)
	require.Equal(t, 404, e.Status)

	require.Nil(t, AsError(errors.New("plain")))
	require.Equal(t, 500, StatusOf(errors.New("plain")))
}

func TestWithStatusOverride(t *testing.T) {
	err := New(Upstream, "bad request").WithStatus(400)
	require.Equal(t, 400, err.Status)
	require.Equal(t, "upstream (400): bad request", err.Error())
}
