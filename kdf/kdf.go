// Package kdf derives Baby-Jubjub private scalars from seed material
// (spec §4.3, component C4), following the RFC-8032 EdDSA clamping
// convention adapted to Baby-Jubjub's subgroup order.
package kdf

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/blake2b"

	"github.com/kysee/maci-core/babyjub"
)

// SeedSize is the number of random bytes GenerateRandomPrivateKey
// draws before derivation.
const SeedSize = 32

// DerivePrivateKey turns arbitrary seed bytes into a scalar in
// [0, babyjub.SubOrder) suitable for use as a MACI private key. The
// seed is hashed with BLAKE2b-512, the low 32 bytes are clamped per
// RFC 8032 (clear the low 3 bits, clear the top bit, set the
// second-highest bit), and the clamped value is reduced modulo
// babyjub.SubOrder.
func DerivePrivateKey(seed []byte) (*big.Int, error) {
	sum := blake2b.Sum512(seed)
	h := sum[:32]

	h[0] &= 0xF8
	h[31] &= 0x7F
	h[31] |= 0x40

	sk := new(big.Int).SetBytes(reverse(h))
	sk.Mod(sk, babyjub.SubOrder)
	return sk, nil
}

// GenerateRandomPrivateKey draws SeedSize bytes from crypto/rand and
// derives a private key from them.
func GenerateRandomPrivateKey() (*big.Int, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("kdf: reading random seed: %w", err)
	}
	return DerivePrivateKey(seed)
}

// PublicKeyFromPrivate returns the Baby-Jubjub public key sk*B.
func PublicKeyFromPrivate(sk *big.Int) babyjub.Point {
	return babyjub.MulBase(sk)
}

// reverse returns a little-endian copy of b interpreted as
// big-endian, since RFC 8032 treats the clamped hash output as a
// little-endian integer.
func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
