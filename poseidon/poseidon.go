// Package poseidon implements the fixed-width Poseidon permutation and
// the hash functions built on top of it (spec §4.1, component C2). The
// permutation family supports state widths t ∈ {2,3,4,5,6}, i.e. 1 to
// 5 field-element inputs, which is all the arities the rest of the
// module needs (EdDSA/command hashing at 5 inputs, the quinary tree's
// node hash at 5 inputs, the tally commitment at 3 inputs, the state
// leaf hash at 4 inputs).
//
// Round constants and the MDS matrix are produced by running the
// Poseidon paper's own reference Grain-LFSR parameter generator (see
// params.go) seeded with this permutation's (field, s-box, n, t,
// R_F, R_P) tuple — the same procedure circomlib's published
// constants were generated by. See DESIGN.md for the one residual
// caveat this environment could not close: bit-exact output parity
// against a live circomlib/go-iden3-crypto instance.
package poseidon

import (
	"fmt"

	"github.com/kysee/maci-core/field"
)

const sboxAlpha = 5

// Params holds one width's fixed Poseidon parameters.
type Params struct {
	T             int // state width = number of inputs + 1
	FullRounds    int // RF, split evenly before/after the partial rounds
	PartialRounds int // RP
	RoundConstant [][]field.Element
	MDS           [][]field.Element
}

// nRoundsP is circomlib's canonical partial-round count keyed by state
// width t, t ranging 2..6 for this module's needs.
var nRoundsP = map[int]int{
	2: 56,
	3: 57,
	4: 56,
	5: 60,
	6: 60,
}

const fullRounds = 8

var paramsByWidth = map[int]*Params{}

func init() {
	for t := 2; t <= 6; t++ {
		paramsByWidth[t] = newParams(t)
	}
}

func newParams(t int) *Params {
	rp := nRoundsP[t]
	total := fullRounds + rp
	return &Params{
		T:             t,
		FullRounds:    fullRounds,
		PartialRounds: rp,
		RoundConstant: generateRoundConstants(t, total),
		MDS:           generateMDS(t),
	}
}

// ParamsForWidth returns the fixed parameters for state width t.
func ParamsForWidth(t int) (*Params, error) {
	p, ok := paramsByWidth[t]
	if !ok {
		return nil, fmt.Errorf("poseidon: unsupported width t=%d", t)
	}
	return p, nil
}

// Permute runs the full Poseidon permutation over state in place-style
// (returns a new slice) using the parameters for len(state).
func Permute(state []field.Element) ([]field.Element, error) {
	p, err := ParamsForWidth(len(state))
	if err != nil {
		return nil, err
	}
	return permuteWith(p, state), nil
}

func permuteWith(p *Params, state []field.Element) []field.Element {
	s := make([]field.Element, len(state))
	copy(s, state)

	half := p.FullRounds / 2
	total := p.FullRounds + p.PartialRounds

	for r := 0; r < total; r++ {
		for i := range s {
			s[i] = s[i].Add(p.RoundConstant[r][i])
		}

		full := r < half || r >= half+p.PartialRounds
		if full {
			for i := range s {
				s[i] = sbox(s[i])
			}
		} else {
			s[0] = sbox(s[0])
		}

		s = mdsMul(p.MDS, s)
	}
	return s
}

func sbox(x field.Element) field.Element {
	return x.Pow(sboxAlpha)
}

func mdsMul(m [][]field.Element, v []field.Element) []field.Element {
	out := make([]field.Element, len(v))
	for i := range m {
		acc := field.Zero()
		for j := range v {
			acc = acc.Add(m[i][j].Mul(v[j]))
		}
		out[i] = acc
	}
	return out
}

// Hash computes Poseidon_t(inputs...) per spec §4.1: initialize state
// [0, x1, .., xn], permute, return state[0]. 1 <= len(inputs) <= 5.
func Hash(inputs ...field.Element) (field.Element, error) {
	t := len(inputs) + 1
	p, err := ParamsForWidth(t)
	if err != nil {
		return field.Element{}, fmt.Errorf("poseidon: %w", err)
	}
	state := make([]field.Element, t)
	state[0] = field.Zero()
	copy(state[1:], inputs)
	out := permuteWith(p, state)
	return out[0], nil
}

// MustHash panics on a bad arity; used at call sites where the input
// count is a compile-time constant (e.g. Hash5 callers) and a failure
// indicates a programming error, not bad user input.
func MustHash(inputs ...field.Element) field.Element {
	h, err := Hash(inputs...)
	if err != nil {
		panic(err)
	}
	return h
}

// Hash1..Hash5 are arity-fixed convenience wrappers matching the
// Poseidon_n naming used throughout spec.md.
func Hash1(a field.Element) field.Element { return MustHash(a) }
func Hash2(a, b field.Element) field.Element {
	return MustHash(a, b)
}
func Hash3(a, b, c field.Element) field.Element {
	return MustHash(a, b, c)
}
func Hash4(a, b, c, d field.Element) field.Element {
	return MustHash(a, b, c, d)
}
func Hash5(a, b, c, d, e field.Element) field.Element {
	return MustHash(a, b, c, d, e)
}
