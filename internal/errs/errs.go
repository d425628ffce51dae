// Package errs enumerates the error kinds shared across the maci-core
// layers, so callers can distinguish a fatal structural failure from a
// per-message invalidation with errors.Is instead of string matching.
package errs

import "errors"

var (
	// ErrFieldOverflow: an input integer is >= the SNARK field, or a
	// packed command field is >= 2^50. Fatal for the call.
	ErrFieldOverflow = errors.New("field overflow")

	// ErrOffCurve: a point is not on Baby-Jubjub. Fatal for the call.
	ErrOffCurve = errors.New("point not on curve")

	// ErrAuthTagMismatch: the duplex-sponge authentication tag did not
	// match on decrypt. The caller treats the message as INVALID; the
	// batch continues.
	ErrAuthTagMismatch = errors.New("auth tag mismatch")

	// ErrSignatureInvalid: EdDSA verification returned false. The
	// caller treats the message as INVALID; the batch continues.
	ErrSignatureInvalid = errors.New("signature invalid")

	// ErrCommandRulesViolated: a §4.11 validity predicate failed
	// (nonce, range, or voice-credit check). INVALID; batch continues.
	ErrCommandRulesViolated = errors.New("command rules violated")

	// ErrTreeCapacityExceeded: insert at index >= arity^depth. Fatal.
	ErrTreeCapacityExceeded = errors.New("tree capacity exceeded")

	// ErrQueueSealed: enqueue called on an AccQueue after merge(). Fatal.
	ErrQueueSealed = errors.New("queue sealed")

	// ErrWitnessShape: prover inputs failed an arity/shape check. Fatal.
	ErrWitnessShape = errors.New("witness shape mismatch")

	// ErrProverError: the external prover rejected the witness. Fatal,
	// surfaced to the caller.
	ErrProverError = errors.New("prover error")
)
