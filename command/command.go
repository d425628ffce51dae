// Package command implements MACI's vote/key-change command packing,
// hashing and salting (spec §4.7, component C8).
package command

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/kysee/maci-core/babyjub"
	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/internal/errs"
	"github.com/kysee/maci-core/poseidon"
)

// fieldBits is the width of each packed sub-field and fieldMax is the
// exclusive upper bound a value must stay under to pack losslessly.
const fieldBits = 50

var fieldMax = new(big.Int).Lsh(big.NewInt(1), fieldBits)

// Command is a single MACI command: a vote (possibly also rotating
// keys) authorized by a signature over its hash.
type Command struct {
	StateIndex      uint64
	VoteOptionIndex uint64
	NewVoteWeight   uint64
	Nonce           uint64
	PollID          uint64
}

// Pack encodes cmd into the 250-bit packed integer laid out as
// [0,50) stateIndex | [50,100) voteOptionIndex | [100,150) newVoteWeight |
// [150,200) nonce | [200,250) pollId, per spec §4.7.
func Pack(cmd Command) (*big.Int, error) {
	fields := []uint64{cmd.StateIndex, cmd.VoteOptionIndex, cmd.NewVoteWeight, cmd.Nonce, cmd.PollID}
	packed := new(big.Int)
	for i, v := range fields {
		bv := new(big.Int).SetUint64(v)
		if bv.Cmp(fieldMax) >= 0 {
			return nil, fmt.Errorf("command: field %d value %d: %w", i, v, errs.ErrFieldOverflow)
		}
		shifted := new(big.Int).Lsh(bv, uint(i*fieldBits))
		packed.Or(packed, shifted)
	}
	return packed, nil
}

// Unpack reverses Pack.
func Unpack(packed *big.Int) Command {
	mask := new(big.Int).Sub(fieldMax, big.NewInt(1))
	extract := func(i int) uint64 {
		shifted := new(big.Int).Rsh(packed, uint(i*fieldBits))
		shifted.And(shifted, mask)
		return shifted.Uint64()
	}
	return Command{
		StateIndex:      extract(0),
		VoteOptionIndex: extract(1),
		NewVoteWeight:   extract(2),
		Nonce:           extract(3),
		PollID:          extract(4),
	}
}

// Hash computes the command's signed digest per spec §4.7:
// Poseidon_5(stateIndex, newPubKey.X, newPubKey.Y, newVoteWeight, salt).
// The new public key is included so that key-change commands (spec
// §4.9) authorize their key rotation under the same signature as the
// vote itself.
func Hash(cmd Command, newPubKey babyjub.Point, salt field.Element) (field.Element, error) {
	return poseidon.Hash5(
		field.NewFromUint64(cmd.StateIndex),
		newPubKey.X, newPubKey.Y,
		field.NewFromUint64(cmd.NewVoteWeight),
		salt,
	), nil
}

// GenerateSalt draws a fresh random field element used to blind a
// command's hash, per spec §4.7.
func GenerateSalt() (field.Element, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return field.Element{}, fmt.Errorf("command: generating salt: %w", err)
	}
	return field.NewFromBytesBE(b), nil
}
