package wire

import (
	"encoding/json"
	"testing"

	"github.com/kysee/maci-core/field"
	"github.com/stretchr/testify/require"
)

func TestHexBytesJSONRoundTrip(t *testing.T) {
	b := HexBytes{0xde, 0xad, 0xbe, 0xef}
	data, err := json.Marshal(b)
	require.NoError(t, err)
	require.Equal(t, `"0xdeadbeef"`, string(data))

	var out HexBytes
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, b, out)
}

func TestHexBytesUnmarshalRejectsBadInput(t *testing.T) {
	var out HexBytes
	require.Error(t, out.UnmarshalJSON([]byte(`not-a-string`)))
	require.Error(t, out.UnmarshalJSON([]byte(`"0xzz"`)))
}

func TestU256FromUint64String(t *testing.T) {
	u := NewU256FromUint64(42)
	require.Equal(t, "42", u.String())
}

func TestU256FromFieldRoundTrip(t *testing.T) {
	f := field.NewFromUint64(12345)
	u := NewU256FromField(f)
	require.True(t, u.Field().Equal(f))
}

func TestU256JSONRoundTrip(t *testing.T) {
	u := NewU256FromUint64(1000)
	data, err := json.Marshal(u)
	require.NoError(t, err)

	var out U256
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, u.String(), out.String())
}

func TestU256UintExposesABIPointer(t *testing.T) {
	u := NewU256FromUint64(7)
	require.Equal(t, uint64(7), u.Uint256().Uint64())
}
