package prover

import (
	"math/big"
	"testing"

	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func TestNewProofDataFromSoliditySwapsB(t *testing.T) {
	const elemSize = bn254fr.Bytes
	buf := make([]byte, 8*elemSize)
	for i := 0; i < 8; i++ {
		v := big.NewInt(int64(i + 1))
		b := v.Bytes()
		copy(buf[(i+1)*elemSize-len(b):(i+1)*elemSize], b)
	}

	pd, err := newProofDataFromSolidity(buf)
	require.NoError(t, err)

	require.Equal(t, big.NewInt(1), pd.PA[0])
	require.Equal(t, big.NewInt(2), pd.PA[1])
	// raw order was b00=3, b01=4, b10=5, b11=6; swapped: [[b01,b00],[b11,b10]]
	require.Equal(t, big.NewInt(4), pd.PB[0][0])
	require.Equal(t, big.NewInt(3), pd.PB[0][1])
	require.Equal(t, big.NewInt(6), pd.PB[1][0])
	require.Equal(t, big.NewInt(5), pd.PB[1][1])
	require.Equal(t, big.NewInt(7), pd.PC[0])
	require.Equal(t, big.NewInt(8), pd.PC[1])
}

func TestNewProofDataFromSolidityRejectsShortInput(t *testing.T) {
	_, err := newProofDataFromSolidity(make([]byte, 10))
	require.Error(t, err)
}
