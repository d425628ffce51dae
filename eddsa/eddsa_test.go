package eddsa

import (
	"testing"

	"github.com/kysee/maci-core/babyjub"
	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/kdf"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	sk, err := kdf.DerivePrivateKey([]byte("signer seed"))
	require.NoError(t, err)
	pk := babyjub.MulBase(sk)

	msg := field.NewFromUint64(424242)
	sig := Sign(sk, msg)
	require.NoError(t, Verify(pk, msg, sig))
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	sk, err := kdf.DerivePrivateKey([]byte("signer seed"))
	require.NoError(t, err)
	pk := babyjub.MulBase(sk)

	sig := Sign(sk, field.NewFromUint64(1))
	err = Verify(pk, field.NewFromUint64(2), sig)
	require.Error(t, err)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	sk1, err := kdf.DerivePrivateKey([]byte("signer one"))
	require.NoError(t, err)
	sk2, err := kdf.DerivePrivateKey([]byte("signer two"))
	require.NoError(t, err)
	pk2 := babyjub.MulBase(sk2)

	msg := field.NewFromUint64(7)
	sig := Sign(sk1, msg)
	err = Verify(pk2, msg, sig)
	require.Error(t, err)
}

func TestSignIsDeterministic(t *testing.T) {
	sk, err := kdf.DerivePrivateKey([]byte("deterministic seed"))
	require.NoError(t, err)
	msg := field.NewFromUint64(99)

	sig1 := Sign(sk, msg)
	sig2 := Sign(sk, msg)
	require.True(t, sig1.R8.Equal(sig2.R8))
	require.Equal(t, 0, sig1.S.Cmp(sig2.S))
}
