package accel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCallNilNativeUsesLocal(t *testing.T) {
	got, err := Call(Policy{}, "op", nil,
		func() (int, error) { return 7, nil },
		func(a, b int) bool { return a == b })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestCallNativeWins(t *testing.T) {
	got, err := Call(Policy{}, "op",
		func() (string, error) { return "native", nil },
		func() (string, error) { return "local", nil },
		func(a, b string) bool { return a == b })
	require.NoError(t, err)
	assert.Equal(t, "native", got)
}

func TestCallUnavailableFallsBack(t *testing.T) {
	got, err := Call(Policy{Logger: zap.NewNop()}, "op",
		func() (string, error) { return "", ErrUnavailable },
		func() (string, error) { return "local", nil },
		func(a, b string) bool { return a == b })
	require.NoError(t, err)
	assert.Equal(t, "local", got)
}

func TestCallNativeErrorFallsBack(t *testing.T) {
	got, err := Call(Policy{}, "op",
		func() (int, error) { return 0, errors.New("boom") },
		func() (int, error) { return 3, nil },
		func(a, b int) bool { return a == b })
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestCallVerifyAgreement(t *testing.T) {
	got, err := Call(Policy{Verify: true}, "op",
		func() (int, error) { return 5, nil },
		func() (int, error) { return 5, nil },
		func(a, b int) bool { return a == b })
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

func TestCallVerifyMismatch(t *testing.T) {
	_, err := Call(Policy{Verify: true}, "op",
		func() (int, error) { return 5, nil },
		func() (int, error) { return 6, nil },
		func(a, b int) bool { return a == b })
	require.Error(t, err)
	assert.True(t, IsMismatch(err))

	var ae *Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "op", ae.Op)
}

func TestCallVerifyLocalErrorSurfaces(t *testing.T) {
	boom := errors.New("boom")
	_, err := Call(Policy{Verify: true}, "op",
		func() (int, error) { return 5, nil },
		func() (int, error) { return 0, boom },
		func(a, b int) bool { return a == b })
	require.ErrorIs(t, err, boom)
}

func TestErrorCodes(t *testing.T) {
	assert.True(t, IsUnavailable(ErrUnavailable))
	assert.False(t, IsMismatch(ErrUnavailable))
	assert.False(t, IsUnavailable(errors.New("plain")))
}
