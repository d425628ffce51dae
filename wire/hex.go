// Package wire defines the on-chain/JSON wire types this module
// exchanges with a chain adapter or a coordinator's REST API: 0x-
// prefixed hex byte strings and 256-bit unsigned integers.
package wire

import (
	"encoding/hex"
	"fmt"
)

// HexBytes is a byte slice that marshals to/from JSON as a
// "0x"-prefixed hex string, the convention go-ethereum's JSON-RPC
// types use throughout.
type HexBytes []byte

// MarshalJSON implements json.Marshaler.
func (b HexBytes) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"0x%s"`, hex.EncodeToString(b))), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *HexBytes) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("wire: HexBytes: not a JSON string: %s", data)
	}
	s = s[1 : len(s)-1]
	s = trimHexPrefix(s)

	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("wire: HexBytes: %w", err)
	}
	*b = decoded
	return nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
