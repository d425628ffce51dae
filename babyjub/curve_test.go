package babyjub

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasePointOnCurve(t *testing.T) {
	require.True(t, Base.IsOnCurve())
	require.True(t, Identity().IsOnCurve())
}

func TestClosureUnderScalarMul(t *testing.T) {
	// Testable Property #2 (spec §8): for any on-curve P and any
	// integer n, n*P is on the curve.
	scalars := []int64{0, 1, 2, 3, 5, 17, 1000003}
	for _, s := range scalars {
		p := ScalarMul(big.NewInt(s), Base)
		require.True(t, p.IsOnCurve(), "scalar %d produced an off-curve point", s)
	}
}

func TestScalarMulZeroIsIdentity(t *testing.T) {
	p := ScalarMul(big.NewInt(0), Base)
	require.True(t, p.Equal(Identity()))
}

func TestScalarMulOneIsNoop(t *testing.T) {
	p := ScalarMul(big.NewInt(1), Base)
	require.True(t, p.Equal(Base))
}

func TestScalarMulDistributesOverAddition(t *testing.T) {
	a, b := big.NewInt(7), big.NewInt(11)
	lhs := ScalarMul(new(big.Int).Add(a, b), Base)
	rhs := ScalarMul(a, Base).Add(ScalarMul(b, Base))
	require.True(t, lhs.Equal(rhs))
}

func TestScalarMulReducesModSubOrder(t *testing.T) {
	p1 := ScalarMul(big.NewInt(3), Base)
	shifted := new(big.Int).Add(SubOrder, big.NewInt(3))
	p2 := ScalarMul(shifted, Base)
	require.True(t, p1.Equal(p2))
}

func TestNewPointRejectsOffCurve(t *testing.T) {
	bad := Base
	bad.X = bad.X.Add(bad.X)
	_, err := NewPoint(bad.X, bad.Y)
	require.Error(t, err)
}

func TestNegIsInverse(t *testing.T) {
	p := ScalarMul(big.NewInt(9), Base)
	sum := p.Add(p.Neg())
	require.True(t, sum.Equal(Identity()))
}
