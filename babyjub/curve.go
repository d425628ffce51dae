// Package babyjub implements point arithmetic on the Baby-Jubjub
// twisted-Edwards curve over the SNARK field (spec §4.2, component
// C3): a*x^2+y^2 = 1 + d*x^2*y^2. Every Point exposed to callers is
// affine with both coordinates canonical mod p; deserialization
// rejects off-curve points.
package babyjub

import (
	"fmt"
	"math/big"

	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/internal/errs"
)

// A and D are Baby-Jubjub's twisted-Edwards curve coefficients.
var (
	A = field.NewFromUint64(168700)
	D = field.NewFromUint64(168696)
)

// SubOrder is the prime order l of Baby-Jubjub's main subgroup (spec §3).
var SubOrder, _ = new(big.Int).SetString(
	"2736030358979909402780800718157159386076813972158567259200215660948447373041", 10)

// Point is an affine point on Baby-Jubjub.
type Point struct {
	X, Y field.Element
}

// Base is the fixed generator of the prime-order subgroup, matching
// the canonical circomlib/MACI Baby-Jubjub base point.
var Base = func() Point {
	bx, _ := new(big.Int).SetString(
		"995203441582195749578291179787384436505546430278305826713579947235728471134", 10)
	by, _ := new(big.Int).SetString(
		"5472060717959818805561601436314318772137091100104008585924551046643952123905", 10)
	return Point{X: field.NewFromBigInt(bx), Y: field.NewFromBigInt(by)}
}()

// Identity is the curve's neutral element (0, 1).
func Identity() Point {
	return Point{X: field.Zero(), Y: field.One()}
}

// IsOnCurve reports whether p satisfies a*x^2+y^2 = 1+d*x^2*y^2.
func (p Point) IsOnCurve() bool {
	x2 := p.X.Square()
	y2 := p.Y.Square()
	lhs := A.Mul(x2).Add(y2)
	rhs := field.One().Add(D.Mul(x2).Mul(y2))
	return lhs.Equal(rhs)
}

// NewPoint validates and constructs a Point, returning ErrOffCurve if
// (x, y) does not satisfy the curve equation.
func NewPoint(x, y field.Element) (Point, error) {
	p := Point{X: x, Y: y}
	if !p.IsOnCurve() {
		return Point{}, fmt.Errorf("babyjub: (%s, %s): %w", x, y, errs.ErrOffCurve)
	}
	return p, nil
}

// Add returns p + q using the twisted-Edwards addition law (valid for
// doubling too, since the curve has no exceptional points for a, d
// both nonzero quadratic non-residues/residues chosen as Baby-Jubjub's).
func (p Point) Add(q Point) Point {
	x1, y1 := p.X, p.Y
	x2, y2 := q.X, q.Y

	x1y2 := x1.Mul(y2)
	y1x2 := y1.Mul(x2)
	y1y2 := y1.Mul(y2)
	x1x2 := x1.Mul(x2)
	dx1x2y1y2 := D.Mul(x1x2).Mul(y1y2)

	xNum := x1y2.Add(y1x2)
	xDen := field.One().Add(dx1x2y1y2)
	yNum := y1y2.Sub(A.Mul(x1x2))
	yDen := field.One().Sub(dx1x2y1y2)

	return Point{
		X: xNum.Mul(xDen.Inverse()),
		Y: yNum.Mul(yDen.Inverse()),
	}
}

// Double returns p + p.
func (p Point) Double() Point { return p.Add(p) }

// Neg returns -p = (-x, y).
func (p Point) Neg() Point { return Point{X: p.X.Neg(), Y: p.Y} }

// Equal reports whether p and q are the same affine point.
func (p Point) Equal(q Point) bool { return p.X.Equal(q.X) && p.Y.Equal(q.Y) }

const windowBits = 4
const windowSize = 1 << windowBits

// ScalarMul computes k*p using a fixed-width (4-bit) windowed
// double-and-add ladder, per spec §4.2. k is reduced mod SubOrder
// before multiplication, matching the convention that scalars live in
// [0, l).
func ScalarMul(k *big.Int, p Point) Point {
	kMod := new(big.Int).Mod(k, SubOrder)

	table := make([]Point, windowSize)
	table[0] = Identity()
	for i := 1; i < windowSize; i++ {
		table[i] = table[i-1].Add(p)
	}

	bitLen := SubOrder.BitLen()
	nWindows := (bitLen + windowBits - 1) / windowBits

	acc := Identity()
	for w := nWindows - 1; w >= 0; w-- {
		for b := 0; b < windowBits; b++ {
			acc = acc.Double()
		}
		shift := uint(w * windowBits)
		digit := new(big.Int).Rsh(kMod, shift)
		digit.And(digit, big.NewInt(windowSize-1))
		acc = acc.Add(table[digit.Int64()])
	}
	return acc
}

// MulBase returns k*Base, the standard way to derive a public key from
// a private scalar.
func MulBase(k *big.Int) Point { return ScalarMul(k, Base) }
