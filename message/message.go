// Package message builds and opens the encrypted MACI messages users
// publish on-chain (spec §4.8-4.9, components C9/C10). A message
// carries a sender-chosen ephemeral encryption public key plus a
// 10-field-element payload: a 9-element duplex-sponge ciphertext
// (three rate-3 blocks) followed by its authentication tag.
package message

import (
	"fmt"
	"math/big"

	"github.com/kysee/maci-core/babyjub"
	"github.com/kysee/maci-core/command"
	"github.com/kysee/maci-core/duplex"
	"github.com/kysee/maci-core/ecdh"
	"github.com/kysee/maci-core/eddsa"
	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/poseidon"
)

// plaintextFields is the number of fields carried in a command's
// plaintext payload: packed command, new public key (X, Y), salt,
// signature (R8.X, R8.Y, S) — spec §4.8 step 7's field order.
const plaintextFields = 7

// DataFields is the wire width of an encrypted message's payload
// (spec §9's EncryptedMessage[10]): 9 ciphertext elements (3 duplex
// blocks at rate 3) plus a 1-element auth tag.
const DataFields = 10

// Message is what a user publishes on-chain: an ephemeral public key
// plus the encrypted command payload.
type Message struct {
	EncPubKey babyjub.Point
	Data      [DataFields]field.Element
}

// Hash returns the message's leaf commitment for the message tree
// (spec §4.11's inputMessageRoot): the 10-element ciphertext payload is
// folded two Poseidon_5 calls at a time (its own width exceeds any
// single permutation's arity), then combined with the ephemeral public
// key under Poseidon_4. spec.md does not pin an exact message-leaf
// formula, so this mirrors the state/ballot commitment style used
// elsewhere in this module rather than inventing an unrelated scheme.
func (m Message) Hash() field.Element {
	d1 := poseidon.Hash5(m.Data[0], m.Data[1], m.Data[2], m.Data[3], m.Data[4])
	d2 := poseidon.Hash5(m.Data[5], m.Data[6], m.Data[7], m.Data[8], m.Data[9])
	return poseidon.Hash4(m.EncPubKey.X, m.EncPubKey.Y, d1, d2)
}

// Build encrypts cmd (together with its authorizing signature, the
// caller's chosen new public key, and a salt) for the coordinator,
// using an ECDH shared secret between encPrivKey and coordinatorPk.
// duplexNonce is the duplex sponge's nonce, distinct from the
// command's own replay-protection nonce field.
func Build(cmd command.Command, sig eddsa.Signature, newPubKey babyjub.Point, salt field.Element, encPrivKey *big.Int, coordinatorPk babyjub.Point, duplexNonce uint64) (Message, error) {
	plaintext, err := encodePlaintext(cmd, sig, newPubKey, salt)
	if err != nil {
		return Message{}, err
	}

	shared := ecdh.GenerateSharedKey(encPrivKey, coordinatorPk)
	ct, tag := duplex.Encrypt(plaintext, shared.Point.X, shared.Point.Y, duplexNonce)

	var msg Message
	msg.EncPubKey = babyjub.MulBase(encPrivKey)
	copy(msg.Data[:len(ct)], ct)
	msg.Data[len(ct)] = tag
	return msg, nil
}

// Open decrypts msg with the coordinator's private key, returning the
// command, its signature, the claimed new public key, and salt. It
// returns an authentication error if the message was tampered with or
// encrypted under a different shared key.
func Open(msg Message, coordinatorSk *big.Int, duplexNonce uint64) (command.Command, eddsa.Signature, babyjub.Point, field.Element, error) {
	shared := ecdh.GenerateSharedKey(coordinatorSk, msg.EncPubKey)
	ct := msg.Data[:DataFields-1]
	tag := msg.Data[DataFields-1]

	plaintext, err := duplex.Decrypt(ct, shared.Point.X, shared.Point.Y, duplexNonce, plaintextFields, tag)
	if err != nil {
		return command.Command{}, eddsa.Signature{}, babyjub.Point{}, field.Element{}, err
	}
	return decodePlaintext(plaintext)
}

// encodePlaintext lays out the command plaintext per spec §4.8 step 7:
// [packed, newPubKey.x, newPubKey.y, salt, sig.R8.x, sig.R8.y, sig.S].
func encodePlaintext(cmd command.Command, sig eddsa.Signature, newPubKey babyjub.Point, salt field.Element) ([]field.Element, error) {
	packed, err := command.Pack(cmd)
	if err != nil {
		return nil, err
	}
	packedElem, err := field.MustCanonical(packed)
	if err != nil {
		return nil, fmt.Errorf("message: packed command out of range: %w", err)
	}
	sElem, err := field.MustCanonical(sig.S)
	if err != nil {
		return nil, fmt.Errorf("message: signature S out of range: %w", err)
	}
	return []field.Element{
		packedElem,
		newPubKey.X, newPubKey.Y,
		salt,
		sig.R8.X, sig.R8.Y,
		sElem,
	}, nil
}

func decodePlaintext(pt []field.Element) (command.Command, eddsa.Signature, babyjub.Point, field.Element, error) {
	if len(pt) != plaintextFields {
		return command.Command{}, eddsa.Signature{}, babyjub.Point{}, field.Element{}, fmt.Errorf("message: decoded plaintext has %d fields, want %d", len(pt), plaintextFields)
	}

	cmd := command.Unpack(pt[0].BigInt())
	newPubKey, err := babyjub.NewPoint(pt[1], pt[2])
	if err != nil {
		return command.Command{}, eddsa.Signature{}, babyjub.Point{}, field.Element{}, fmt.Errorf("message: new public key: %w", err)
	}
	salt := pt[3]
	r8, err := babyjub.NewPoint(pt[4], pt[5])
	if err != nil {
		return command.Command{}, eddsa.Signature{}, babyjub.Point{}, field.Element{}, fmt.Errorf("message: signature R8: %w", err)
	}
	sig := eddsa.Signature{R8: r8, S: pt[6].BigInt()}

	return cmd, sig, newPubKey, salt, nil
}
