package optional_test

import (
	"testing"

	"github.com/named-data/ndnc/std/types/optional"
	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	option := optional.Some(42)
	require.True(t, option.IsSet())
	val, ok := option.Get()
	require.Equal(t, 42, val)
	require.True(t, ok)
	require.Equal(t, 42, option.Unwrap())
	require.Equal(t, 42, option.GetOr(5))
	require.Equal(t, "42", option.String())

	option = optional.None[int]()
	require.False(t, option.IsSet())
	val, ok = option.Get()
	require.Equal(t, 0, val)
	require.False(t, ok)
	require.Panics(t, func() { option.Unwrap() })
	require.Equal(t, 5, option.GetOr(5))
	require.Equal(t, "none", option.String())

	option.Set(45)
	require.Equal(t, 45, option.Unwrap())
	option.Unset()
	require.False(t, option.IsSet())
}

func TestOptionalEqual(t *testing.T) {
	require.True(t, optional.Equal(optional.None[int](), optional.None[int]()))
	require.True(t, optional.Equal(optional.Some(1), optional.Some(1)))
	require.False(t, optional.Equal(optional.Some(1), optional.Some(2)))
	require.False(t, optional.Equal(optional.Some(0), optional.None[int]()))
}
