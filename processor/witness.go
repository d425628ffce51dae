package processor

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/golang/snappy"

	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/message"
)

// BatchWitness captures everything a downstream prover needs to build
// a processMessages circuit witness for one batch: the full §4.11
// commitment block (state and ballot roots before/after, the input
// message root, the coordinator's public-key hash, and the batch's
// message-index range), the messages themselves, and the coordinator's
// private key (needed to re-derive the per-message ECDH shared keys
// inside the circuit). It is CBOR-encoded and snappy-compressed for
// storage between the coordinator's process and prove steps.
type BatchWitness struct {
	StateRootBefore  field.Element
	StateRootAfter   field.Element
	BallotRootBefore field.Element
	BallotRootAfter  field.Element
	MessageRoot      field.Element
	CoordPubKeyHash  field.Element
	BatchStartIndex  uint64
	BatchEndIndex    uint64
	Messages         []message.Message
	CoordinatorSk    *big.Int
}

// EncodeWitness serializes w as CBOR, then compresses it with snappy.
func EncodeWitness(w BatchWitness) ([]byte, error) {
	raw, err := cbor.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("processor: encoding witness: %w", err)
	}
	return snappy.Encode(nil, raw), nil
}

// DecodeWitness reverses EncodeWitness.
func DecodeWitness(blob []byte) (BatchWitness, error) {
	raw, err := snappy.Decode(nil, blob)
	if err != nil {
		return BatchWitness{}, fmt.Errorf("processor: decompressing witness: %w", err)
	}
	var w BatchWitness
	if err := cbor.Unmarshal(raw, &w); err != nil {
		return BatchWitness{}, fmt.Errorf("processor: decoding witness: %w", err)
	}
	return w, nil
}
