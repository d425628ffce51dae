// Package processor implements the coordinator's message processor
// (spec §4.11, component C13): it decrypts a batch of published
// messages in reverse submission order, validates each against the
// rules below, and applies valid ones to the working state and
// ballot trees. Invalid commands are routed to state index 0 (a
// no-op against the blank padding leaf) rather than rejected outright,
// so a single bad message never stalls the batch.
//
// Validity predicate (a)-(e), all of which must hold:
//
//	(a) cmd.StateIndex is a populated, non-zero state index
//	(b) cmd.VoteOptionIndex < maxVoteOptions
//	(c) the command forms a contiguous descending nonce chain for its
//	    user within this batch (see ProcessBatch's doc comment)
//	(d) the EdDSA signature over the command hash verifies against the
//	    user's CURRENT working public key (which may already reflect a
//	    key-change applied by a later message in this same reverse scan)
//	(e) the resulting voice-credit balance after the vote's cost is
//	    applied is non-negative
package processor

import (
	"math/big"

	"github.com/kysee/maci-core/babyjub"
	"github.com/kysee/maci-core/command"
	"github.com/kysee/maci-core/eddsa"
	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/message"
	"github.com/kysee/maci-core/state"
	"github.com/kysee/maci-core/tree"
)

// BlankStateIndex is the padding slot invalid commands are routed to.
const BlankStateIndex = 0

// duplexNonce is used for every message's duplex-sponge decryption.
// message.Build derives each message's ephemeral public key from the
// encPrivKey its caller passes in, so the (k0, k1) pair differs per
// message, even with a fixed nonce, as long as every message is built
// with its own ephemeral key.
const duplexNonce = 0

// Processor holds the coordinator's working copy of state leaves,
// ballots, and per-option vote weights as a batch is processed.
type Processor struct {
	coordinatorSk  *big.Int
	isD2           bool
	maxVoteOptions uint64

	stateTree  *tree.QuinaryTree
	ballotTree *tree.QuinaryTree
	leaves     map[uint64]state.StateLeaf
	ballots    map[uint64]state.Ballot
	weights    map[uint64]map[uint64]uint64 // stateIndex -> voteOptionIndex -> current weight
	voteTrees  map[uint64]*tree.QuinaryTree  // stateIndex -> per-user vote-option tree

	voteTreeDepth int
}

// New creates a Processor over freshly-initialized state and ballot
// trees, both pre-populated with the blank padding leaf at index 0.
func New(coordinatorSk *big.Int, stateTreeDepth, voteTreeDepth int, isD2 bool, maxVoteOptions uint64) *Processor {
	p := &Processor{
		coordinatorSk:  coordinatorSk,
		isD2:           isD2,
		maxVoteOptions: maxVoteOptions,
		stateTree:      tree.New(stateTreeDepth),
		ballotTree:     tree.New(stateTreeDepth),
		leaves:         make(map[uint64]state.StateLeaf),
		ballots:        make(map[uint64]state.Ballot),
		weights:        make(map[uint64]map[uint64]uint64),
		voteTrees:      make(map[uint64]*tree.QuinaryTree),
		voteTreeDepth:  voteTreeDepth,
	}
	blank := state.BlankStateLeaf()
	idx, err := p.stateTree.Insert(blank.Hash())
	if err != nil {
		panic(err) // an empty tree always has room for its first leaf
	}
	p.leaves[idx] = blank
	blankBallot := state.BlankBallot(tree.New(voteTreeDepth).Root())
	p.ballots[idx] = blankBallot
	p.ballotTree.Insert(blankBallot.Hash())
	return p
}

// SignUp registers a new user with the given public key, initial
// voice-credit balance, and sign-up timestamp, returning their state
// index.
func (p *Processor) SignUp(pubKey babyjub.Point, balance, timestamp uint64) (uint64, error) {
	leaf := state.StateLeaf{PubKey: pubKey, Balance: balance, Timestamp: timestamp}
	idx, err := p.stateTree.Insert(leaf.Hash())
	if err != nil {
		return 0, err
	}
	p.leaves[idx] = leaf
	voteTree := tree.New(p.voteTreeDepth)
	p.voteTrees[idx] = voteTree
	ballot := state.BlankBallot(voteTree.Root())
	p.ballots[idx] = ballot
	if _, err := p.ballotTree.Insert(ballot.Hash()); err != nil {
		return 0, err
	}
	p.weights[idx] = make(map[uint64]uint64)
	return idx, nil
}

// StateLeaf returns the current working state leaf at idx.
func (p *Processor) StateLeaf(idx uint64) state.StateLeaf { return p.leaves[idx] }

// Ballot returns the current working ballot at idx.
func (p *Processor) Ballot(idx uint64) state.Ballot { return p.ballots[idx] }

// VoteWeight returns the current recorded weight a user has placed on
// a vote option (0 if none).
func (p *Processor) VoteWeight(idx, voteOptionIndex uint64) uint64 {
	return p.weights[idx][voteOptionIndex]
}

// Weights returns a deep copy of every signed-up user's current
// per-option vote weights, for handoff to tally.Aggregate once a batch
// has finished processing.
func (p *Processor) Weights() map[uint64]map[uint64]uint64 {
	out := make(map[uint64]map[uint64]uint64, len(p.weights))
	for idx, opts := range p.weights {
		cp := make(map[uint64]uint64, len(opts))
		for opt, w := range opts {
			cp[opt] = w
		}
		out[idx] = cp
	}
	return out
}

// StateRoot returns the working state tree's root.
func (p *Processor) StateRoot() field.Element { return p.stateTree.Root() }

// BallotRoot returns the working ballot tree's root.
func (p *Processor) BallotRoot() field.Element { return p.ballotTree.Root() }

// MessageOutcome records what happened to one processed message, for
// observability and testing.
type MessageOutcome struct {
	StateIndex uint64
	Applied    bool
}

// ProcessBatch decrypts and applies messages in reverse submission
// order (messages[len-1] first). For each user touched by the batch,
// the first message in this reverse scan that passes validation anchors
// that user's expected nonce chain; each subsequent (earlier-submitted)
// message for the same user must have exactly one less nonce than the
// last one accepted, or it is routed to index 0. A rejected message
// does not move that expectation, so an earlier message for the user
// is still accepted if it carries the nonce that is still expected.
// This is what lets
// a later key-change message take precedence over an earlier coerced
// vote: the key-change is checked (and applied) first, so the earlier
// vote's signature is checked against the already-rotated key and
// fails.
func (p *Processor) ProcessBatch(messages []message.Message) []MessageOutcome {
	outcomes := make([]MessageOutcome, len(messages))
	nextExpectedNonce := make(map[uint64]uint64) // stateIndex -> nonce the next (earlier) message must have
	anchored := make(map[uint64]bool)

	for i := len(messages) - 1; i >= 0; i-- {
		idx, applied := p.processOne(messages[i], nextExpectedNonce, anchored)
		outcomes[i] = MessageOutcome{StateIndex: idx, Applied: applied}
	}
	return outcomes
}

// processOne handles a single message during the reverse scan. The
// first message encountered for a given user (the "anchor" — their
// chronologically latest message in the batch) is eligible to apply
// provided its nonce is strictly greater than the user's ballot nonce
// as persisted from whatever batch last touched them: this is the
// check that stops a stale or already-used nonce from a prior batch
// being replayed as the next batch's anchor. Once accepted, the anchor
// sets the user's final public key, balance, and vote weight for this
// batch. Every later-encountered (i.e. chronologically earlier)
// message for the same user only extends or breaks the nonce chain
// and is signature-checked against the public key the anchor
// installed — it never re-mutates public key, balance or vote weight,
// since the
// anchor's values are what the batch's net effect should be. This is
// what makes a later key-change take precedence over an earlier
// coerced vote: by the time the coerced vote's signature is checked,
// the public key may have already rotated.
func (p *Processor) processOne(msg message.Message, nextExpectedNonce map[uint64]uint64, anchored map[uint64]bool) (uint64, bool) {
	cmd, sig, newPubKey, salt, err := message.Open(msg, p.coordinatorSk, duplexNonce)
	if err != nil {
		return BlankStateIndex, false
	}

	if cmd.StateIndex == BlankStateIndex {
		return BlankStateIndex, false
	}
	leaf, ok := p.leaves[cmd.StateIndex]
	if !ok {
		return BlankStateIndex, false
	}
	if cmd.VoteOptionIndex >= p.maxVoteOptions {
		return BlankStateIndex, false
	}

	isAnchor := !anchored[cmd.StateIndex]
	if isAnchor && cmd.Nonce <= p.ballots[cmd.StateIndex].Nonce {
		return BlankStateIndex, false
	}
	if !isAnchor && cmd.Nonce != nextExpectedNonce[cmd.StateIndex] {
		return BlankStateIndex, false
	}

	cmdHash, err := command.Hash(cmd, newPubKey, salt)
	if err != nil {
		return BlankStateIndex, false
	}
	if err := eddsa.Verify(leaf.PubKey, cmdHash, sig); err != nil {
		return BlankStateIndex, false
	}

	if isAnchor {
		oldWeight := p.weights[cmd.StateIndex][cmd.VoteOptionIndex]
		newBalance, ok := p.applyCost(leaf.Balance, oldWeight, cmd.NewVoteWeight)
		if !ok {
			return BlankStateIndex, false
		}

		leaf.PubKey = newPubKey
		leaf.Balance = newBalance
		p.leaves[cmd.StateIndex] = leaf
		p.stateTree.Update(cmd.StateIndex, leaf.Hash())

		p.weights[cmd.StateIndex][cmd.VoteOptionIndex] = cmd.NewVoteWeight
		voteTree := p.voteTrees[cmd.StateIndex]
		voteTree.Update(cmd.VoteOptionIndex, field.NewFromUint64(cmd.NewVoteWeight))
		ballot := state.Ballot{Nonce: cmd.Nonce, VoteOptionsRoot: voteTree.Root()}
		p.ballots[cmd.StateIndex] = ballot
		p.ballotTree.Update(cmd.StateIndex, ballot.Hash())
	}

	anchored[cmd.StateIndex] = true
	if cmd.Nonce == 0 {
		nextExpectedNonce[cmd.StateIndex] = 0 // no valid predecessor nonce remains
	} else {
		nextExpectedNonce[cmd.StateIndex] = cmd.Nonce - 1
	}

	return cmd.StateIndex, true
}

// applyCost computes the new balance after changing a vote from
// oldWeight to newWeight on one option, refunding the old cost and
// charging the new one. It returns ok=false if the result would be
// negative.
func (p *Processor) applyCost(balance, oldWeight, newWeight uint64) (uint64, bool) {
	var oldCost, newCost int64
	if p.isD2 {
		oldCost = int64(oldWeight) * int64(oldWeight)
		newCost = int64(newWeight) * int64(newWeight)
	} else {
		oldCost = int64(oldWeight)
		newCost = int64(newWeight)
	}
	result := int64(balance) + oldCost - newCost
	if result < 0 {
		return 0, false
	}
	return uint64(result), true
}
