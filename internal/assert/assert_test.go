package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type thing struct{}

func TestNotNil(t *testing.T) {
	var nilPtr *thing
	var nilFunc func()

	require.Panics(t, func() { NotNil(nil, "value") })
	require.Panics(t, func() { NotNil(nilPtr, "ptr") })
	require.Panics(t, func() { NotNil(nilFunc, "fn") })
	require.NotPanics(t, func() { NotNil(&thing{}, "ptr") })
	require.NotPanics(t, func() { NotNil(thing{}, "struct") })
	require.NotPanics(t, func() { NotNil(func() {}, "fn") })
}

func TestNotEmptyStr(t *testing.T) {
	require.PanicsWithValue(t, "expected name to be a non-empty string", func() { NotEmptyStr("", "name") })
	require.NotPanics(t, func() { NotEmptyStr("Tom Hanks", "name") })
}

func TestPositive(t *testing.T) {
	require.Panics(t, func() { Positive(0, "permits") })
	require.Panics(t, func() { Positive(-1, "permits") })
	require.NotPanics(t, func() { Positive(10, "permits") })
}
