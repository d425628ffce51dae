package publicinput

import (
	"testing"

	"github.com/kysee/maci-core/field"
	"github.com/stretchr/testify/require"
)

func TestHashDeterministic(t *testing.T) {
	a := field.NewFromUint64(1)
	b := field.NewFromUint64(2)
	require.True(t, Hash(a, b).Equal(Hash(a, b)))
}

func TestHashOrderMatters(t *testing.T) {
	a := field.NewFromUint64(1)
	b := field.NewFromUint64(2)
	require.False(t, Hash(a, b).Equal(Hash(b, a)))
}

func TestHashIsTruncatedNotReduced(t *testing.T) {
	h := Hash(field.NewFromUint64(42))
	require.True(t, h.BigInt().Cmp(mask253) <= 0)
}

func TestHashEmptyInputIsWellDefined(t *testing.T) {
	require.NotPanics(t, func() { Hash() })
}
