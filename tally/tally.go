// Package tally aggregates per-user vote weights recorded by the
// message processor into a public per-option tally and its Poseidon
// commitment (spec §4.12, component C14).
package tally

import (
	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/poseidon"
	"github.com/kysee/maci-core/tree"
)

// Result is the coordinator's published tally for one poll.
type Result struct {
	PerOptionTally         []uint64 // raw vote weight per option, summed across users
	PerOptionSpent         []uint64 // voice credits spent per option (weight^2 in D2, weight in D1)
	TotalSpentVoiceCredits uint64
	TotalVoters            uint64
	AbstainVotes           uint64 // always 0 in D2 (quadratic) mode; D1 may record abstentions

	TallyResultsRoot   field.Element
	PerOptionSpentRoot field.Element
	Commitment         field.Element
}

// treeDepthFor returns the smallest quinary-tree depth whose capacity
// covers n leaves.
func treeDepthFor(n uint64) int {
	depth := 0
	capacity := uint64(1)
	for capacity < n {
		capacity *= tree.Arity
		depth++
	}
	return depth
}

// Aggregate sums the final per-(user, option) vote weights recorded by
// the processor into a Result. userWeights maps state index to a map
// of vote option index to final recorded weight.
func Aggregate(isD2 bool, maxVoteOptions uint64, userWeights map[uint64]map[uint64]uint64) Result {
	tallyRaw := make([]uint64, maxVoteOptions)
	spentRaw := make([]uint64, maxVoteOptions)
	var totalSpent uint64
	var totalVoters uint64

	for _, weights := range userWeights {
		voted := false
		for option, weight := range weights {
			if option >= maxVoteOptions || weight == 0 {
				continue
			}
			voted = true
			tallyRaw[option] += weight

			var spent uint64
			if isD2 {
				spent = weight * weight
			} else {
				spent = weight
			}
			spentRaw[option] += spent
			totalSpent += spent
		}
		if voted {
			totalVoters++
		}
	}

	depth := treeDepthFor(maxVoteOptions)
	tallyTree := tree.New(depth)
	spentTree := tree.New(depth)
	for i := uint64(0); i < maxVoteOptions; i++ {
		if _, err := tallyTree.Insert(field.NewFromUint64(tallyRaw[i])); err != nil {
			panic(err) // depth is sized for maxVoteOptions, so this cannot overflow
		}
		if _, err := spentTree.Insert(field.NewFromUint64(spentRaw[i])); err != nil {
			panic(err)
		}
	}

	r := Result{
		PerOptionTally:         tallyRaw,
		PerOptionSpent:         spentRaw,
		TotalSpentVoiceCredits: totalSpent,
		TotalVoters:            totalVoters,
		TallyResultsRoot:       tallyTree.Root(),
		PerOptionSpentRoot:     spentTree.Root(),
	}
	if !isD2 {
		// D1 (linear) mode has no quadratic-voting abstain convention of
		// its own in this module; leave it at its zero value until a
		// caller has a concrete reason to set it.
		r.AbstainVotes = 0
	}
	r.Commitment = poseidon.Hash3(r.TallyResultsRoot, field.NewFromUint64(r.TotalSpentVoiceCredits), r.PerOptionSpentRoot)
	return r
}
