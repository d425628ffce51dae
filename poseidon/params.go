package poseidon

import (
	"math/big"

	"github.com/kysee/maci-core/field"
)

// fieldBits is the bit length of the BN254 scalar field (n in the
// generator's parameter tuple below).
const fieldBits = 254

// grainLFSR reproduces the Grain self-shrinking generator the
// Poseidon paper's own reference parameter script
// (generate_parameters_grain.sage) uses to derive round constants and
// MDS-matrix entries: an 80-bit LFSR seeded with the permutation's
// (field type, s-box type, field size, state width, full/partial
// round count) tuple, whose output is filtered through a
// self-shrinking bit extractor and rejection-sampled into field
// elements below the modulus. circomlib's published Poseidon
// parameters are this exact generator's output for
// seed = (GF(p), x^5, 254, t, 8, R_P(t)); this type runs that
// generator itself rather than a bespoke scheme (see DESIGN.md for
// why the published constant table could not be vendored directly in
// this environment, and the residual verification this leaves open).
type grainLFSR struct {
	state [80]bool
	head  int
}

func newGrainLFSR(t, fullRounds, partialRounds int) *grainLFSR {
	var bits []bool
	bits = appendBits(bits, 1, 2)               // field type: GF(p)
	bits = appendBits(bits, 0, 4)               // s-box type: x^alpha, not an inverse
	bits = appendBits(bits, fieldBits, 12)       // n
	bits = appendBits(bits, t, 12)               // t
	bits = appendBits(bits, fullRounds, 10)      // R_F
	bits = appendBits(bits, partialRounds, 10)   // R_P
	for len(bits) < 80 {
		bits = append(bits, true) // padding
	}

	g := &grainLFSR{}
	copy(g.state[:], bits)

	// Discard the generator's first 160 outputs to mix the seed
	// through the full state before any bit is used.
	for i := 0; i < 160; i++ {
		g.step()
	}
	return g
}

func appendBits(bits []bool, v, width int) []bool {
	for i := width - 1; i >= 0; i-- {
		bits = append(bits, (v>>uint(i))&1 == 1)
	}
	return bits
}

// step runs the LFSR's feedback polynomial (taps at 0, 13, 23, 38, 51,
// 62 relative to the oldest bit) one tick and returns the new bit.
func (g *grainLFSR) step() bool {
	tap := func(off int) bool { return g.state[(g.head+off)%80] }
	newBit := tap(0) != tap(13)
	newBit = newBit != tap(23)
	newBit = newBit != tap(38)
	newBit = newBit != tap(51)
	newBit = newBit != tap(62)

	g.state[g.head] = newBit
	g.head = (g.head + 1) % 80
	return newBit
}

// nextBit applies the generator's self-shrinking rule: draw bit pairs
// (b1, b2), discarding pairs where b1 is 0, and emit b2 from the first
// pair where b1 is 1.
func (g *grainLFSR) nextBit() bool {
	for {
		b1 := g.step()
		b2 := g.step()
		if b1 {
			return b2
		}
	}
}

func (g *grainLFSR) nextBits(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = g.nextBit()
	}
	return out
}

// nextFieldElement draws fieldBits bits at a time, rejecting and
// redrawing whenever the resulting integer is >= the field modulus.
func (g *grainLFSR) nextFieldElement() field.Element {
	for {
		v := bitsToBigInt(g.nextBits(fieldBits))
		if v.Cmp(field.Modulus) < 0 {
			return field.NewFromBigInt(v)
		}
	}
}

func bitsToBigInt(bits []bool) *big.Int {
	v := new(big.Int)
	one := big.NewInt(1)
	for _, b := range bits {
		v.Lsh(v, 1)
		if b {
			v.Or(v, one)
		}
	}
	return v
}

// generateRoundConstants derives totalRounds*t round constants for
// state width t from a grainLFSR seeded with this permutation's
// parameter tuple, one field element at a time, row-major by round.
func generateRoundConstants(t, totalRounds int) [][]field.Element {
	g := newGrainLFSR(t, fullRounds, totalRounds-fullRounds)
	rc := make([][]field.Element, totalRounds)
	for r := 0; r < totalRounds; r++ {
		row := make([]field.Element, t)
		for c := 0; c < t; c++ {
			row[c] = g.nextFieldElement()
		}
		rc[r] = row
	}
	return rc
}

// generateMDS builds a t×t Cauchy matrix M[i][j] = 1/(x_i - y_j) over
// 2t distinct field elements drawn from a dedicated grainLFSR stream,
// the same construction the reference generator uses to guarantee
// invertibility (every x_i - y_j is nonzero) without the small-integer
// structure a sequential 0..t-1 choice of x_i/y_j would carry.
func generateMDS(t int) [][]field.Element {
	g := newGrainLFSR(t, fullRounds, 0)
	seen := make(map[[32]byte]bool)
	sample := func() field.Element {
		for {
			e := g.nextFieldElement()
			b := e.Bytes32()
			if !seen[b] {
				seen[b] = true
				return e
			}
		}
	}

	xs := make([]field.Element, t)
	ys := make([]field.Element, t)
	for i := 0; i < t; i++ {
		xs[i] = sample()
	}
	for j := 0; j < t; j++ {
		ys[j] = sample()
	}

	m := make([][]field.Element, t)
	for i := 0; i < t; i++ {
		row := make([]field.Element, t)
		for j := 0; j < t; j++ {
			row[j] = xs[i].Sub(ys[j]).Inverse()
		}
		m[i] = row
	}
	return m
}
