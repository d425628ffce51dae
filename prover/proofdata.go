package prover

import (
	"fmt"
	"math/big"

	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ProofData is a Groth16 proof in the (pA, pB, pC) shape the poll
// contract's processMessages/tallyVotes functions expect (spec §6).
// PB already carries the submission-time coordinate swap described in
// §6's "Pairing-curve note" — callers never need to apply it again.
type ProofData struct {
	PA [2]*big.Int
	PB [2][2]*big.Int
	PC [2]*big.Int
}

// newProofDataFromSolidity slices gnark's MarshalSolidity() output
// into (pA, pB, pC), following the chunked-by-field-element decoding
// types.CreateProofData uses for its own Solidity-calldata proof, but
// producing *big.Int tuples (for direct ABI packing) instead of hex
// strings, and applying the G2 swap spec §6 requires:
// pB = [[pi_b[0][1], pi_b[0][0]], [pi_b[1][1], pi_b[1][0]]].
func newProofDataFromSolidity(proofSolidity []byte) (ProofData, error) {
	const elemSize = bn254fr.Bytes
	if len(proofSolidity) < 8*elemSize {
		return ProofData{}, fmt.Errorf("prover: MarshalSolidity output too short: got %d bytes, want at least %d", len(proofSolidity), 8*elemSize)
	}

	read := func(i int) *big.Int {
		return new(big.Int).SetBytes(proofSolidity[i*elemSize : (i+1)*elemSize])
	}

	a0, a1 := read(0), read(1)
	b00, b01, b10, b11 := read(2), read(3), read(4), read(5)
	c0, c1 := read(6), read(7)

	return ProofData{
		PA: [2]*big.Int{a0, a1},
		PB: [2][2]*big.Int{{b01, b00}, {b11, b10}},
		PC: [2]*big.Int{c0, c1},
	}, nil
}
