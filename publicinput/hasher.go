// Package publicinput computes the SHA-256-based public input hash
// fed to the Groth16 verifier (spec §4.13/§9, component C13's
// collaborator). This is NOT a reduction mod the SNARK field: per
// spec §9 it is SHA-256 over the concatenated 32-byte big-endian field
// elements, truncated to its low 253 bits.
package publicinput

import (
	"crypto/sha256"
	"math/big"

	"github.com/kysee/maci-core/field"
)

// mask253 is (2^253 - 1), applied to the SHA-256 digest interpreted as
// a big-endian integer.
var mask253 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 253), big.NewInt(1))

// Hash concatenates each input's canonical 32-byte big-endian form,
// SHA-256s the result, and returns the low 253 bits of that digest as
// a field element. Authoritative per spec §9 — do not swap this for a
// "mod p" reduction, which is a different and incompatible value.
func Hash(inputs ...field.Element) field.Element {
	h := sha256.New()
	for _, in := range inputs {
		b := in.Bytes32()
		h.Write(b[:])
	}
	digest := h.Sum(nil)

	v := new(big.Int).SetBytes(digest)
	v.And(v, mask253)
	return field.NewFromBigInt(v)
}
