package command

import (
	"math/big"
	"testing"

	"github.com/kysee/maci-core/babyjub"
	"github.com/kysee/maci-core/field"
	"github.com/stretchr/testify/require"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	cmd := Command{
		StateIndex:      1,
		VoteOptionIndex: 2,
		NewVoteWeight:   3,
		Nonce:           1,
		PollID:          9,
	}
	packed, err := Pack(cmd)
	require.NoError(t, err)
	require.Equal(t, cmd, Unpack(packed))
}

func TestPackLayoutMatchesFieldOffsets(t *testing.T) {
	cmd := Command{StateIndex: 0, VoteOptionIndex: 0, NewVoteWeight: 0, Nonce: 0, PollID: 1}
	packed, err := Pack(cmd)
	require.NoError(t, err)
	expected := new(big.Int).Lsh(big.NewInt(1), 200)
	require.Equal(t, 0, packed.Cmp(expected))
}

func TestPackRejectsFieldOverflow(t *testing.T) {
	overflowing := Command{StateIndex: uint64(1) << 50}
	_, err := Pack(overflowing)
	require.Error(t, err)
}

func TestHashDeterministic(t *testing.T) {
	cmd := Command{StateIndex: 1, VoteOptionIndex: 2, NewVoteWeight: 3, Nonce: 1, PollID: 1}
	pk := babyjub.Base
	salt := field.NewFromUint64(5)

	h1, err := Hash(cmd, pk, salt)
	require.NoError(t, err)
	h2, err := Hash(cmd, pk, salt)
	require.NoError(t, err)
	require.True(t, h1.Equal(h2))
}

func TestHashChangesWithSalt(t *testing.T) {
	cmd := Command{StateIndex: 1, VoteOptionIndex: 2, NewVoteWeight: 3, Nonce: 1, PollID: 1}
	pk := babyjub.Base

	h1, err := Hash(cmd, pk, field.NewFromUint64(1))
	require.NoError(t, err)
	h2, err := Hash(cmd, pk, field.NewFromUint64(2))
	require.NoError(t, err)
	require.False(t, h1.Equal(h2))
}

func TestGenerateSaltIsCanonicalAndVaries(t *testing.T) {
	s1, err := GenerateSalt()
	require.NoError(t, err)
	s2, err := GenerateSalt()
	require.NoError(t, err)
	require.True(t, s1.BigInt().Cmp(field.Modulus) < 0)
	require.False(t, s1.Equal(s2))
}
