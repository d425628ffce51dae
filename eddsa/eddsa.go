// Package eddsa implements Poseidon-EdDSA signing and verification
// over Baby-Jubjub (spec §4.4, component C5). It builds directly on
// babyjub.Point and poseidon.Hash5 rather than gnark-crypto's
// twistededwards/eddsa package — see DESIGN.md's Open Question
// decision #4 for why.
package eddsa

import (
	"math/big"

	"golang.org/x/crypto/blake2b"

	"github.com/kysee/maci-core/babyjub"
	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/internal/errs"
	"github.com/kysee/maci-core/poseidon"
)

// Signature is a Poseidon-EdDSA signature: a curve point R8 and a
// scalar S in [0, babyjub.SubOrder).
type Signature struct {
	R8 babyjub.Point
	S  *big.Int
}

// Sign produces a deterministic Poseidon-EdDSA signature of msg under
// sk, per spec §4.4: r derived from a domain-separated BLAKE2b hash of
// sk and msg, R8 = r*B, S = r + Poseidon5(R8.X, R8.Y, pk.X, pk.Y, msg)*sk
// mod l.
func Sign(sk *big.Int, msg field.Element) Signature {
	pk := babyjub.MulBase(sk)
	r := deriveNonce(sk, msg)
	r8 := babyjub.MulBase(r)

	challenge := poseidon.Hash5(r8.X, r8.Y, pk.X, pk.Y, msg)
	cInt := challenge.BigInt()

	s := new(big.Int).Mul(cInt, sk)
	s.Add(s, r)
	s.Mod(s, babyjub.SubOrder)

	return Signature{R8: r8, S: s}
}

// Verify checks sig against msg and the signer's public key pk:
// S*B == R8 + Poseidon5(R8.X, R8.Y, pk.X, pk.Y, msg)*pk.
func Verify(pk babyjub.Point, msg field.Element, sig Signature) error {
	if sig.S.Sign() < 0 || sig.S.Cmp(babyjub.SubOrder) >= 0 {
		return errs.ErrSignatureInvalid
	}
	if !sig.R8.IsOnCurve() {
		return errs.ErrSignatureInvalid
	}

	challenge := poseidon.Hash5(sig.R8.X, sig.R8.Y, pk.X, pk.Y, msg)
	lhs := babyjub.MulBase(sig.S)
	rhs := sig.R8.Add(babyjub.ScalarMul(challenge.BigInt(), pk))

	if !lhs.Equal(rhs) {
		return errs.ErrSignatureInvalid
	}
	return nil
}

// deriveNonce computes a per-message nonce r = BLAKE2b-512(sk || msg)
// mod l. Domain-separating on sk's bytes (rather than a separately
// stored seed) keeps key material to a single scalar, matching how
// the rest of this module treats private keys as plain big.Ints.
func deriveNonce(sk *big.Int, msg field.Element) *big.Int {
	h, _ := blake2b.New512([]byte("maci-eddsa-nonce"))
	skBytes := sk.Bytes()
	msgBytes := msg.Bytes32()
	h.Write(skBytes)
	h.Write(msgBytes[:])
	sum := h.Sum(nil)

	r := new(big.Int).SetBytes(sum)
	return r.Mod(r, babyjub.SubOrder)
}
