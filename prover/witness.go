package prover

import "github.com/consensys/gnark/frontend"

// BatchSize is the number of messages a single processMessages proof
// covers, and MaxVoteOptions bounds a single tallyVotes proof's
// per-option arrays. Both are properties of whatever circuit the
// loaded ccs/pk artifacts were compiled for (spec §1 Non-goals: this
// module does not author circuit Define() bodies, only the witness
// shape a precompiled circuit expects).
const (
	BatchSize      = 5
	MaxVoteOptions = 25
)

// ProcessMessagesWitness is the named-field witness for the
// process-messages circuit (spec §4.14, Open Question #1 — the newer
// variant with in-circuit DuplexSponge decryption): no pre-decomposed
// per-field Command, just each message's raw encrypted payload, its
// ephemeral public key, and the coordinator's private key, plus the
// full §4.11 commitment block the public input hash binds to.
type ProcessMessagesWitness struct {
	PublicInputHash frontend.Variable `gnark:",public"`

	OldStateCommitment  frontend.Variable
	NewStateCommitment  frontend.Variable
	OldBallotCommitment frontend.Variable
	NewBallotCommitment frontend.Variable
	MessageRoot         frontend.Variable
	CoordPubKeyHash     frontend.Variable
	BatchStartIndex     frontend.Variable
	BatchEndIndex       frontend.Variable
	CoordPrivKey        frontend.Variable

	EncryptedMessage [BatchSize][10]frontend.Variable
	EncPubKeyX       [BatchSize]frontend.Variable
	EncPubKeyY       [BatchSize]frontend.Variable
}

// TallyVotesWitness is the named-field witness for the tally-votes
// circuit (spec §4.12/§4.14): the public tally commitment plus the
// per-option results and spend that hash to it.
type TallyVotesWitness struct {
	PublicInputHash frontend.Variable `gnark:",public"`

	OldTallyCommitment     frontend.Variable
	NewTallyCommitment     frontend.Variable
	TotalSpentVoiceCredits frontend.Variable
	PerOptionTally         [MaxVoteOptions]frontend.Variable
	PerOptionSpent         [MaxVoteOptions]frontend.Variable
}
