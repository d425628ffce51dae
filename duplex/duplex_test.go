package duplex

import (
	"testing"

	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/internal/errs"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	k0 := field.NewFromUint64(111)
	k1 := field.NewFromUint64(222)
	pt := []field.Element{
		field.NewFromUint64(1),
		field.NewFromUint64(2),
		field.NewFromUint64(3),
		field.NewFromUint64(4),
	}

	ct, tag := Encrypt(pt, k0, k1, 7)
	got, err := Decrypt(ct, k0, k1, 7, len(pt), tag)
	require.NoError(t, err)
	require.Len(t, got, len(pt))
	for i := range pt {
		require.True(t, pt[i].Equal(got[i]))
	}
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	k0 := field.NewFromUint64(1)
	k1 := field.NewFromUint64(2)
	pt := []field.Element{field.NewFromUint64(9)}

	ct, tag := Encrypt(pt, k0, k1, 1)
	_, err := Decrypt(ct, field.NewFromUint64(3), k1, 1, len(pt), tag)
	require.ErrorIs(t, err, errs.ErrAuthTagMismatch)
}

func TestDecryptRejectsWrongNonce(t *testing.T) {
	k0 := field.NewFromUint64(1)
	k1 := field.NewFromUint64(2)
	pt := []field.Element{field.NewFromUint64(9)}

	ct, tag := Encrypt(pt, k0, k1, 1)
	_, err := Decrypt(ct, k0, k1, 2, len(pt), tag)
	require.Error(t, err)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	k0 := field.NewFromUint64(1)
	k1 := field.NewFromUint64(2)
	pt := []field.Element{field.NewFromUint64(5), field.NewFromUint64(6)}

	ct, tag := Encrypt(pt, k0, k1, 42)
	ct[0] = ct[0].Add(field.NewFromUint64(1))
	_, err := Decrypt(ct, k0, k1, 42, len(pt), tag)
	require.Error(t, err)
}

func TestCiphertextIsPaddedToRate(t *testing.T) {
	k0 := field.NewFromUint64(1)
	k1 := field.NewFromUint64(2)
	pt := []field.Element{field.NewFromUint64(1)}

	ct, _ := Encrypt(pt, k0, k1, 0)
	require.Equal(t, 0, len(ct)%rate)
}
