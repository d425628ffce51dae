// Package tree implements the quinary (arity-5) incremental Merkle
// tree used for MACI's state and vote-option trees (spec §4.10,
// component C11): Poseidon_5 node hashing, a precomputed zero-subtree
// cache per the recurrence Z[i+1] = Poseidon5(Z[i]^5), and
// fastcache-backed memoization of already-computed internal node
// hashes.
package tree

import (
	"encoding/binary"
	"fmt"

	"github.com/VictoriaMetrics/fastcache"

	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/internal/errs"
	"github.com/kysee/maci-core/poseidon"
)

// Arity is the tree's branching factor.
const Arity = 5

// Proof is a Merkle inclusion proof for one leaf: at each level, the
// four sibling hashes (in left-to-right order with the leaf's own
// position omitted) and the leaf's index within that level's group of
// five.
type Proof struct {
	Siblings [][Arity - 1]field.Element
	Indices  []int
}

// QuinaryTree is a fixed-depth, sparsely-populated arity-5 Merkle
// tree. Unpopulated leaves read as the all-zero field element, and
// whole unpopulated subtrees collapse to a precomputed zero hash
// rather than being materialized.
type QuinaryTree struct {
	depth   int
	zeroes  []field.Element // zeroes[i] is the hash of an empty subtree of height i
	leaves  map[uint64]field.Element
	nodes   *fastcache.Cache // memoizes internal node hashes keyed by (level, index)
	nextIdx uint64
}

// New builds an empty tree of the given depth. Capacity is Arity^depth.
func New(depth int) *QuinaryTree {
	return NewWithZeroBase(depth, field.Zero())
}

// NewWithZeroBase builds an empty tree like New, but treats an
// unpopulated leaf as zeroBase instead of the raw zero element. This is
// for trees whose leaves are themselves roots of some other structure
// (AccQueue's main tree over sub-roots): an unflushed leaf position must
// read as the hash of an empty sub-tree, not as 0, or the tree's root
// will not agree with an equivalent monolithic tree built directly over
// the original leaves.
func NewWithZeroBase(depth int, zeroBase field.Element) *QuinaryTree {
	return &QuinaryTree{
		depth:  depth,
		zeroes: buildZeroes(depth, zeroBase),
		leaves: make(map[uint64]field.Element),
		nodes:  fastcache.New(4 * 1024 * 1024),
	}
}

// buildZeroes computes Z[0..depth] via the recurrence from spec §3/§8:
// Z[0] = base, Z[i+1] = Poseidon5(Z[i], Z[i], Z[i], Z[i], Z[i]).
func buildZeroes(depth int, base field.Element) []field.Element {
	z := make([]field.Element, depth+1)
	z[0] = base
	for i := 0; i < depth; i++ {
		z[i+1] = poseidon.Hash5(z[i], z[i], z[i], z[i], z[i])
	}
	return z
}

// Capacity returns Arity^depth.
func (t *QuinaryTree) Capacity() uint64 {
	cap := uint64(1)
	for i := 0; i < t.depth; i++ {
		cap *= Arity
	}
	return cap
}

// Insert appends leaf at the next free index and returns that index.
func (t *QuinaryTree) Insert(leaf field.Element) (uint64, error) {
	if t.nextIdx >= t.Capacity() {
		return 0, fmt.Errorf("tree: inserting leaf %d: %w", t.nextIdx, errs.ErrTreeCapacityExceeded)
	}
	idx := t.nextIdx
	t.Update(idx, leaf)
	t.nextIdx++
	return idx, nil
}

// Update overwrites the leaf at idx, invalidating every ancestor's
// cached hash along the way.
func (t *QuinaryTree) Update(idx uint64, leaf field.Element) {
	t.leaves[idx] = leaf
	t.invalidatePath(idx)
}

// Root returns the tree's current root hash.
func (t *QuinaryTree) Root() field.Element {
	return t.nodeHash(t.depth, 0)
}

// GetProof returns an inclusion proof for the leaf at idx.
func (t *QuinaryTree) GetProof(idx uint64) (Proof, error) {
	if idx >= t.Capacity() {
		return Proof{}, fmt.Errorf("tree: proof for leaf %d: %w", idx, errs.ErrTreeCapacityExceeded)
	}
	proof := Proof{
		Siblings: make([][Arity - 1]field.Element, t.depth),
		Indices:  make([]int, t.depth),
	}
	cur := idx
	for level := 0; level < t.depth; level++ {
		groupIdx := cur / Arity
		posInGroup := int(cur % Arity)
		proof.Indices[level] = posInGroup

		var siblings [Arity - 1]field.Element
		si := 0
		for j := uint64(0); j < Arity; j++ {
			if int(j) == posInGroup {
				continue
			}
			childIdx := groupIdx*Arity + j
			siblings[si] = t.nodeHash(level, childIdx)
			si++
		}
		proof.Siblings[level] = siblings
		cur = groupIdx
	}
	return proof, nil
}

// VerifyProof recomputes the root implied by leaf and proof and
// reports whether it matches expectedRoot.
func VerifyProof(leaf field.Element, proof Proof, expectedRoot field.Element) bool {
	cur := leaf
	for level := 0; level < len(proof.Siblings); level++ {
		var group [Arity]field.Element
		s := proof.Siblings[level]
		pos := proof.Indices[level]
		si := 0
		for j := 0; j < Arity; j++ {
			if j == pos {
				group[j] = cur
				continue
			}
			group[j] = s[si]
			si++
		}
		cur = poseidon.Hash5(group[0], group[1], group[2], group[3], group[4])
	}
	return cur.Equal(expectedRoot)
}

// nodeHash returns the hash of the node at (level, index), where
// level 0 is the leaf level and level depth is the root. Level 0 reads
// the authoritative leaves map; higher levels check the fastcache memo
// first, then fall back to the precomputed zero hash for any subtree
// with no populated leaves, and otherwise recurse.
func (t *QuinaryTree) nodeHash(level int, index uint64) field.Element {
	if level == 0 {
		if v, ok := t.leaves[index]; ok {
			return v
		}
		return t.zeroes[0]
	}

	key := cacheKey(level, index)
	if cached, ok := t.nodes.HasGet(nil, key); ok {
		return field.NewFromBytesBE(cached)
	}

	if !t.subtreeHasLeaves(level, index) {
		return t.zeroes[level]
	}

	var children [Arity]field.Element
	for j := uint64(0); j < Arity; j++ {
		children[j] = t.nodeHash(level-1, index*Arity+j)
	}
	h := poseidon.Hash5(children[0], children[1], children[2], children[3], children[4])

	b := h.Bytes32()
	t.nodes.Set(key, b[:])
	return h
}

// subtreeHasLeaves reports whether any leaf under (level, index) has
// been populated, used to decide whether a subtree collapses to its
// precomputed zero hash.
func (t *QuinaryTree) subtreeHasLeaves(level int, index uint64) bool {
	width := uint64(1)
	for i := 0; i < level; i++ {
		width *= Arity
	}
	start := index * width
	end := start + width
	for leafIdx := range t.leaves {
		if leafIdx >= start && leafIdx < end {
			return true
		}
	}
	return false
}

// invalidatePath evicts cached hashes for every ancestor of leaf idx.
func (t *QuinaryTree) invalidatePath(idx uint64) {
	cur := idx
	for level := 1; level <= t.depth; level++ {
		cur = cur / Arity
		t.nodes.Del(cacheKey(level, cur))
	}
}

func cacheKey(level int, index uint64) []byte {
	b := make([]byte, 12)
	binary.BigEndian.PutUint32(b[0:4], uint32(level))
	binary.BigEndian.PutUint64(b[4:12], index)
	return b
}
