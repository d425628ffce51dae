// Package ecdh computes Baby-Jubjub Diffie-Hellman shared secrets
// between a MACI user and the coordinator (spec §4.5, component C6).
package ecdh

import (
	"math/big"

	"github.com/kysee/maci-core/babyjub"
)

// SharedKey is an ECDH shared secret point. Its X and Y coordinates
// are the k0, k1 values fed into the duplex sponge's initial state
// (spec §4.6).
type SharedKey struct {
	Point babyjub.Point
}

// GenerateSharedKey computes sk*peerPk, the standard Diffie-Hellman
// construction over Baby-Jubjub: both sides compute the same point
// because (a*B)*b == (b*B)*a.
func GenerateSharedKey(sk *big.Int, peerPk babyjub.Point) SharedKey {
	return SharedKey{Point: babyjub.ScalarMul(sk, peerPk)}
}
