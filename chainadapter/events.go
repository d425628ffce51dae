package chainadapter

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/kysee/maci-core/field"
)

// SignUpEvent mirrors the on-chain SignUp event (spec §6): a new state
// leaf's index, public key, and initial voice credit balance.
type SignUpEvent struct {
	StateIndex         uint64
	PubKeyX, PubKeyY   field.Element
	VoiceCreditBalance uint64
	Timestamp          uint64
	TxHash             common.Hash
	BlockNumber        uint64
}

// MessagePublishedEvent mirrors the on-chain MessagePublished event
// (spec §6): a published message's index, its 10-field-element
// encrypted payload, and the ephemeral public key used to derive the
// shared key it was encrypted under.
type MessagePublishedEvent struct {
	MessageIndex        uint64
	EncMessage           [10]field.Element
	EncPubKeyX, EncPubKeyY field.Element
	TxHash               common.Hash
	BlockNumber          uint64
}

// Event is the sum type ingest() streams: exactly one of SignUp or
// MessagePublished is non-nil.
type Event struct {
	SignUp           *SignUpEvent
	MessagePublished *MessagePublishedEvent
}
