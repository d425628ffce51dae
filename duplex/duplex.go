// Package duplex implements the Poseidon duplex-sponge AEAD used to
// encrypt MACI messages (spec §4.6, component C7): state width t=4,
// rate r=3, capacity c=1, initial state [0, k0, k1, nonce+len*2^128].
package duplex

import (
	"math/big"

	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/internal/errs"
	"github.com/kysee/maci-core/poseidon"
)

const (
	width = 4
	rate  = 3
)

// lenShift is 2^128, used to fold the plaintext length into the
// nonce slot of the initial state per spec §4.6.
var lenShift = new(big.Int).Lsh(big.NewInt(1), 128)

// Encrypt absorbs plaintext (padded with zero field elements to a
// multiple of the rate) under key (k0, k1) and nonce, returning the
// ciphertext (same padded length as the absorbed plaintext) and an
// authentication tag.
func Encrypt(plaintext []field.Element, k0, k1 field.Element, nonce uint64) (ciphertext []field.Element, authTag field.Element) {
	padded := padToRate(plaintext)
	state := initState(k0, k1, nonce, len(plaintext))

	ciphertext = make([]field.Element, len(padded))
	for b := 0; b < len(padded); b += rate {
		state = permute(state)
		for i := 0; i < rate; i++ {
			ct := state[1+i].Add(padded[b+i])
			ciphertext[b+i] = ct
			state[1+i] = ct
		}
	}

	state = permute(state)
	return ciphertext, state[1]
}

// Decrypt reverses Encrypt, verifying authTag. plaintextLen is the
// original (unpadded) plaintext length, needed both to reconstruct
// the initial state and to truncate the recovered plaintext.
func Decrypt(ciphertext []field.Element, k0, k1 field.Element, nonce uint64, plaintextLen int, authTag field.Element) ([]field.Element, error) {
	if len(ciphertext)%rate != 0 {
		return nil, errs.ErrWitnessShape
	}

	state := initState(k0, k1, nonce, plaintextLen)
	plaintext := make([]field.Element, len(ciphertext))
	for b := 0; b < len(ciphertext); b += rate {
		state = permute(state)
		for i := 0; i < rate; i++ {
			ct := ciphertext[b+i]
			plaintext[b+i] = ct.Sub(state[1+i])
			state[1+i] = ct
		}
	}

	state = permute(state)
	if !state[1].Equal(authTag) {
		return nil, errs.ErrAuthTagMismatch
	}
	return plaintext[:plaintextLen], nil
}

func initState(k0, k1 field.Element, nonce uint64, plaintextLen int) []field.Element {
	n := new(big.Int).SetUint64(nonce)
	shifted := new(big.Int).Mul(big.NewInt(int64(plaintextLen)), lenShift)
	n.Add(n, shifted)
	return []field.Element{field.Zero(), k0, k1, field.NewFromBigInt(n)}
}

func permute(state []field.Element) []field.Element {
	out, err := poseidon.Permute(state)
	if err != nil {
		panic(err) // fixed width=4, unreachable once poseidon's init succeeds
	}
	return out
}

func padToRate(in []field.Element) []field.Element {
	rem := len(in) % rate
	if rem == 0 {
		out := make([]field.Element, len(in))
		copy(out, in)
		return out
	}
	out := make([]field.Element, len(in)+(rate-rem))
	copy(out, in)
	for i := len(in); i < len(out); i++ {
		out[i] = field.Zero()
	}
	return out
}
