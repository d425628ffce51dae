package tally

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregateQuadraticCost(t *testing.T) {
	weights := map[uint64]map[uint64]uint64{
		1: {1: 3}, // Scenario A: voter at state index 1 votes weight 3 on option 1
	}
	r := Aggregate(true, 5, weights)
	require.Equal(t, uint64(3), r.PerOptionTally[1])
	require.Equal(t, uint64(9), r.PerOptionSpent[1])
	require.Equal(t, uint64(9), r.TotalSpentVoiceCredits)
	require.Equal(t, uint64(1), r.TotalVoters)
	require.Equal(t, uint64(0), r.AbstainVotes)
}

func TestAggregateLinearCost(t *testing.T) {
	weights := map[uint64]map[uint64]uint64{
		1: {0: 4},
	}
	r := Aggregate(false, 3, weights)
	require.Equal(t, uint64(4), r.PerOptionTally[0])
	require.Equal(t, uint64(4), r.PerOptionSpent[0])
}

func TestAggregateSumsMultipleVoters(t *testing.T) {
	weights := map[uint64]map[uint64]uint64{
		1: {0: 2},
		2: {0: 3},
		3: {1: 1},
	}
	r := Aggregate(true, 2, weights)
	require.Equal(t, uint64(5), r.PerOptionTally[0])
	require.Equal(t, uint64(13), r.PerOptionSpent[0]) // 4 + 9
	require.Equal(t, uint64(1), r.PerOptionTally[1])
	require.Equal(t, uint64(3), r.TotalVoters)
}

func TestAggregateIgnoresZeroWeightVotes(t *testing.T) {
	weights := map[uint64]map[uint64]uint64{
		1: {0: 0},
	}
	r := Aggregate(true, 2, weights)
	require.Equal(t, uint64(0), r.TotalVoters)
}

func TestAggregateCommitmentDeterministic(t *testing.T) {
	weights := map[uint64]map[uint64]uint64{1: {0: 2}}
	r1 := Aggregate(true, 2, weights)
	r2 := Aggregate(true, 2, weights)
	require.True(t, r1.Commitment.Equal(r2.Commitment))
}

func TestAggregateCommitmentChangesWithTally(t *testing.T) {
	r1 := Aggregate(true, 2, map[uint64]map[uint64]uint64{1: {0: 2}})
	r2 := Aggregate(true, 2, map[uint64]map[uint64]uint64{1: {0: 3}})
	require.False(t, r1.Commitment.Equal(r2.Commitment))
}
