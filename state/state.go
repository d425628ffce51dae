// Package state defines the two leaf types the message processor and
// tally aggregator operate on: StateLeaf (one per signed-up user) and
// Ballot (one per user, tracking replay-protection nonce and chosen
// vote weights), along with their Poseidon commitments (spec §4.10's
// state/vote-option trees, component C11).
package state

import (
	"github.com/kysee/maci-core/babyjub"
	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/poseidon"
)

// StateLeaf is one signed-up user's public key, remaining voice credit
// balance, and sign-up timestamp (seconds since epoch, taken from the
// on-chain SignUp event per spec §6).
type StateLeaf struct {
	PubKey    babyjub.Point
	Balance   uint64
	Timestamp uint64
}

// Hash returns Poseidon_4(pubKey.X, pubKey.Y, balance, timestamp), the
// leaf's state-tree commitment (spec §3).
func (s StateLeaf) Hash() field.Element {
	return poseidon.Hash4(s.PubKey.X, s.PubKey.Y, field.NewFromUint64(s.Balance), field.NewFromUint64(s.Timestamp))
}

// BlankStateLeaf is the padding leaf used at state index 0: an
// unusable identity key with zero balance and timestamp, the target
// every invalid command is routed to (spec §4.11, rule (e)).
func BlankStateLeaf() StateLeaf {
	return StateLeaf{PubKey: babyjub.Identity(), Balance: 0, Timestamp: 0}
}

// Ballot tracks a user's highest-used command nonce and the root of
// their vote-option tree (a quinary tree keyed by vote option index,
// leaf value = chosen vote weight).
type Ballot struct {
	Nonce           uint64
	VoteOptionsRoot field.Element
}

// Hash returns Poseidon_2(nonce, voteOptionsRoot), the ballot's
// commitment.
func (b Ballot) Hash() field.Element {
	return poseidon.Hash2(field.NewFromUint64(b.Nonce), b.VoteOptionsRoot)
}

// BlankBallot is the zero ballot a freshly signed-up user starts with.
func BlankBallot(emptyVoteOptionsRoot field.Element) Ballot {
	return Ballot{Nonce: 0, VoteOptionsRoot: emptyVoteOptionsRoot}
}
