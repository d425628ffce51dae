// Package field provides SNARK-scalar-field arithmetic. All values are
// canonical representatives in [0, p) where p is the BN254 scalar
// field, which doubles as the MACI SNARK field (spec §3). Reduction
// happens inside Element; raw big.Int/uint64 values never leak across
// a module boundary unreduced.
package field

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"

	"github.com/kysee/maci-core/internal/errs"
)

// Modulus is the SNARK scalar field p, as specified in spec §3.
var Modulus = fr.Modulus()

// Element is a field element modulo Modulus, always held canonical.
type Element struct {
	v fr.Element
}

// Zero returns the additive identity.
func Zero() Element { return Element{} }

// One returns the multiplicative identity.
func One() Element {
	var e Element
	e.v.SetOne()
	return e
}

// NewFromUint64 reduces x mod p.
func NewFromUint64(x uint64) Element {
	var e Element
	e.v.SetUint64(x)
	return e
}

// NewFromBigInt reduces x mod p. x is left untouched.
func NewFromBigInt(x *big.Int) Element {
	var e Element
	e.v.SetBigInt(x)
	return e
}

// NewFromBytesBE reduces a big-endian byte string mod p.
func NewFromBytesBE(b []byte) Element {
	var e Element
	e.v.SetBytes(b)
	return e
}

// MustCanonical returns x reduced mod p, erroring if x was already
// outside [0, p) — used at ingestion boundaries (spec §7 FieldOverflow)
// where an out-of-range value signals a malformed input rather than a
// value this layer should silently wrap.
func MustCanonical(x *big.Int) (Element, error) {
	if x.Sign() < 0 || x.Cmp(Modulus) >= 0 {
		return Element{}, fmt.Errorf("field: %d is not a canonical field element: %w", x, errOverflow)
	}
	return NewFromBigInt(x), nil
}

var errOverflow = fmt.Errorf("value outside [0, p): %w", errs.ErrFieldOverflow)

// BigInt returns the canonical representative as a big.Int in [0, p).
func (e Element) BigInt() *big.Int {
	var b big.Int
	e.v.BigInt(&b)
	return &b
}

// Bytes32 returns the canonical 32-byte big-endian representation, used
// for the public-input hash (spec §4.13) and wire encoding (spec §6).
func (e Element) Bytes32() [32]byte {
	return e.v.Bytes()
}

// Add returns e + o mod p.
func (e Element) Add(o Element) Element {
	var r Element
	r.v.Add(&e.v, &o.v)
	return r
}

// Sub returns e - o mod p.
func (e Element) Sub(o Element) Element {
	var r Element
	r.v.Sub(&e.v, &o.v)
	return r
}

// Mul returns e * o mod p.
func (e Element) Mul(o Element) Element {
	var r Element
	r.v.Mul(&e.v, &o.v)
	return r
}

// Neg returns -e mod p.
func (e Element) Neg() Element {
	var r Element
	r.v.Neg(&e.v)
	return r
}

// Square returns e * e mod p.
func (e Element) Square() Element {
	var r Element
	r.v.Square(&e.v)
	return r
}

// Pow returns e^k mod p.
func (e Element) Pow(k uint64) Element {
	var r Element
	var exp big.Int
	exp.SetUint64(k)
	r.v.Exp(e.v, &exp)
	return r
}

// Inverse returns e^-1 mod p. Returns the zero element if e is zero,
// matching fr.Element's convention (callers must not invert zero in a
// context where that matters cryptographically).
func (e Element) Inverse() Element {
	var r Element
	r.v.Inverse(&e.v)
	return r
}

// IsZero reports whether e is the additive identity.
func (e Element) IsZero() bool { return e.v.IsZero() }

// Equal reports field equality.
func (e Element) Equal(o Element) bool { return e.v.Equal(&o.v) }

// Cmp orders two elements by their canonical big-endian bytes, useful
// for deterministic ordering of commitments in tests and logs.
func (e Element) Cmp(o Element) int { return e.v.Cmp(&o.v) }

// String renders the canonical decimal representative.
func (e Element) String() string { return e.v.String() }

// MarshalCBOR encodes e as its canonical 32-byte big-endian form, so
// Element survives round-tripping through witness blobs (processor's
// BatchWitness) without cbor's reflection ever seeing the unexported
// fr.Element field underneath.
func (e Element) MarshalCBOR() ([]byte, error) {
	b := e.Bytes32()
	return cbor.Marshal(b[:])
}

// UnmarshalCBOR reverses MarshalCBOR.
func (e *Element) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("field: decoding element: %w", err)
	}
	*e = NewFromBytesBE(b)
	return nil
}
