package message

import (
	"testing"

	"github.com/kysee/maci-core/command"
	"github.com/kysee/maci-core/eddsa"
	"github.com/kysee/maci-core/kdf"
	"github.com/stretchr/testify/require"
)

func TestBuildOpenRoundTrip(t *testing.T) {
	userSk, err := kdf.DerivePrivateKey([]byte("user seed"))
	require.NoError(t, err)
	coordSk, err := kdf.DerivePrivateKey([]byte("coordinator seed"))
	require.NoError(t, err)
	coordPk := kdf.PublicKeyFromPrivate(coordSk)

	cmd := command.Command{StateIndex: 1, VoteOptionIndex: 1, NewVoteWeight: 3, Nonce: 1, PollID: 1}
	salt, err := command.GenerateSalt()
	require.NoError(t, err)
	newPubKey := kdf.PublicKeyFromPrivate(userSk)

	cmdHash, err := command.Hash(cmd, newPubKey, salt)
	require.NoError(t, err)
	sig := eddsa.Sign(userSk, cmdHash)

	encPrivKey, err := kdf.GenerateRandomPrivateKey()
	require.NoError(t, err)

	msg, err := Build(cmd, sig, newPubKey, salt, encPrivKey, coordPk, 0)
	require.NoError(t, err)

	gotCmd, gotSig, gotPubKey, gotSalt, err := Open(msg, coordSk, 0)
	require.NoError(t, err)
	require.Equal(t, cmd, gotCmd)
	require.True(t, gotPubKey.Equal(newPubKey))
	require.True(t, gotSalt.Equal(salt))
	require.Equal(t, 0, gotSig.S.Cmp(sig.S))
	require.True(t, gotSig.R8.Equal(sig.R8))
}

func TestOpenRejectsWrongCoordinatorKey(t *testing.T) {
	userSk, err := kdf.DerivePrivateKey([]byte("user seed"))
	require.NoError(t, err)
	coordSk, err := kdf.DerivePrivateKey([]byte("coordinator seed"))
	require.NoError(t, err)
	wrongSk, err := kdf.DerivePrivateKey([]byte("wrong seed"))
	require.NoError(t, err)
	coordPk := kdf.PublicKeyFromPrivate(coordSk)

	cmd := command.Command{StateIndex: 1, VoteOptionIndex: 1, NewVoteWeight: 3, Nonce: 1, PollID: 1}
	salt, err := command.GenerateSalt()
	require.NoError(t, err)
	newPubKey := kdf.PublicKeyFromPrivate(userSk)
	cmdHash, err := command.Hash(cmd, newPubKey, salt)
	require.NoError(t, err)
	sig := eddsa.Sign(userSk, cmdHash)

	encPrivKey, err := kdf.GenerateRandomPrivateKey()
	require.NoError(t, err)
	msg, err := Build(cmd, sig, newPubKey, salt, encPrivKey, coordPk, 0)
	require.NoError(t, err)

	_, _, _, _, err = Open(msg, wrongSk, 0)
	require.Error(t, err)
}

func TestMessageWireWidth(t *testing.T) {
	var msg Message
	require.Len(t, msg.Data, DataFields)
}
