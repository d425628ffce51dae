package ecdh

import (
	"testing"

	"github.com/kysee/maci-core/kdf"
	"github.com/stretchr/testify/require"
)

func TestSharedKeyAgrees(t *testing.T) {
	skA, err := kdf.DerivePrivateKey([]byte("alice seed"))
	require.NoError(t, err)
	skB, err := kdf.DerivePrivateKey([]byte("bob seed"))
	require.NoError(t, err)

	pkA := kdf.PublicKeyFromPrivate(skA)
	pkB := kdf.PublicKeyFromPrivate(skB)

	sharedA := GenerateSharedKey(skA, pkB)
	sharedB := GenerateSharedKey(skB, pkA)

	require.True(t, sharedA.Point.Equal(sharedB.Point))
}

func TestSharedKeyDiffersForDifferentPeers(t *testing.T) {
	skA, err := kdf.DerivePrivateKey([]byte("alice seed"))
	require.NoError(t, err)
	skB, err := kdf.DerivePrivateKey([]byte("bob seed"))
	require.NoError(t, err)
	skC, err := kdf.DerivePrivateKey([]byte("carol seed"))
	require.NoError(t, err)

	pkB := kdf.PublicKeyFromPrivate(skB)
	pkC := kdf.PublicKeyFromPrivate(skC)

	sharedAB := GenerateSharedKey(skA, pkB)
	sharedAC := GenerateSharedKey(skA, pkC)

	require.False(t, sharedAB.Point.Equal(sharedAC.Point))
}
