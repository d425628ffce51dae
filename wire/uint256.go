package wire

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/kysee/maci-core/field"
)

// U256 is a 256-bit unsigned integer wire type, used for values that
// travel on-chain (voice credit balances, vote weights, block
// numbers) where go-ethereum's own ABI packing expects *uint256.Int.
type U256 struct {
	inner uint256.Int
}

// NewU256FromUint64 builds a U256 from a native uint64.
func NewU256FromUint64(v uint64) U256 {
	var u U256
	u.inner.SetUint64(v)
	return u
}

// NewU256FromField converts a field element to a U256. Field elements
// are always < p < 2^254, so this never overflows uint256's 2^256
// range.
func NewU256FromField(e field.Element) U256 {
	var u U256
	u.inner.SetBytes(e.BigInt().Bytes())
	return u
}

// Field converts back to a field element, reducing mod p.
func (u U256) Field() field.Element {
	return field.NewFromBigInt(u.inner.ToBig())
}

// Uint256 exposes the underlying *uint256.Int for ABI packing via
// go-ethereum's accounts/abi.
func (u *U256) Uint256() *uint256.Int { return &u.inner }

// String renders the decimal value.
func (u U256) String() string { return u.inner.Dec() }

// MarshalJSON implements json.Marshaler, encoding as a 0x-prefixed hex
// string (go-ethereum's JSON-RPC convention for quantities).
func (u U256) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, u.inner.Hex())), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *U256) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("wire: U256: not a JSON string: %s", data)
	}
	s = s[1 : len(s)-1]
	v, err := uint256.FromHex(s)
	if err != nil {
		return fmt.Errorf("wire: U256: %w", err)
	}
	u.inner = *v
	return nil
}
