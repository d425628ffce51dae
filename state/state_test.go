package state

import (
	"testing"

	"github.com/kysee/maci-core/field"
	"github.com/stretchr/testify/require"
)

func TestStateLeafHashDeterministic(t *testing.T) {
	s := StateLeaf{PubKey: BlankStateLeaf().PubKey, Balance: 100}
	require.True(t, s.Hash().Equal(s.Hash()))
}

func TestStateLeafHashChangesWithBalance(t *testing.T) {
	s1 := StateLeaf{PubKey: BlankStateLeaf().PubKey, Balance: 100}
	s2 := StateLeaf{PubKey: BlankStateLeaf().PubKey, Balance: 91}
	require.False(t, s1.Hash().Equal(s2.Hash()))
}

func TestBlankStateLeafIsZeroBalance(t *testing.T) {
	require.Equal(t, uint64(0), BlankStateLeaf().Balance)
}

func TestBallotHashChangesWithNonce(t *testing.T) {
	root := field.NewFromUint64(1)
	b1 := Ballot{Nonce: 0, VoteOptionsRoot: root}
	b2 := Ballot{Nonce: 1, VoteOptionsRoot: root}
	require.False(t, b1.Hash().Equal(b2.Hash()))
}

func TestBlankBallotStartsAtNonceZero(t *testing.T) {
	b := BlankBallot(field.NewFromUint64(0))
	require.Equal(t, uint64(0), b.Nonce)
}
