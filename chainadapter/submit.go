package chainadapter

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/kysee/maci-core/prover"
)

// SubmitProcessMessages calls processMessages(newStateCommitment, pA,
// pB, pC) on the poll contract (spec §6). proof.PB is already in the
// submission-ready swapped-coordinate form (spec §6 "Pairing-curve
// note") — callers get that for free from prover.ProofData.
func (c *ChainAdapter) SubmitProcessMessages(ctx context.Context, newStateCommitment *big.Int, proof prover.ProofData) (*types.Transaction, error) {
	return c.submitProof(ctx, "processMessages", newStateCommitment, proof)
}

// SubmitTallyVotes calls tallyVotes(newTallyCommitment, pA, pB, pC).
func (c *ChainAdapter) SubmitTallyVotes(ctx context.Context, newTallyCommitment *big.Int, proof prover.ProofData) (*types.Transaction, error) {
	return c.submitProof(ctx, "tallyVotes", newTallyCommitment, proof)
}

func (c *ChainAdapter) submitProof(ctx context.Context, method string, commitment *big.Int, proof prover.ProofData) (*types.Transaction, error) {
	if c.opts == nil {
		return nil, fmt.Errorf("chainadapter: %s: no transact signer configured", method)
	}
	opts := *c.opts
	opts.Context = ctx

	tx, err := c.bound.Transact(&opts, method, commitment, proof.PA, proof.PB, proof.PC)
	if err != nil {
		return nil, fmt.Errorf("chainadapter: %s: %w", method, err)
	}
	c.log.Info().Str("method", method).Str("tx", tx.Hash().Hex()).Msg("submitted proof")
	return tx, nil
}

// SubmitPublishResults calls publishResults(forVotes, againstVotes,
// abstainVotes, totalVoters, tallyResultsHash) with the final,
// unproven tally values (spec §6) — this is the plaintext disclosure
// step that follows a verified tallyVotes proof.
func (c *ChainAdapter) SubmitPublishResults(ctx context.Context, forVotes, againstVotes []*big.Int, abstainVotes, totalVoters uint64, tallyResultsHash [32]byte) (*types.Transaction, error) {
	if c.opts == nil {
		return nil, fmt.Errorf("chainadapter: publishResults: no transact signer configured")
	}
	opts := *c.opts
	opts.Context = ctx

	tx, err := c.bound.Transact(&opts, "publishResults",
		forVotes, againstVotes,
		new(big.Int).SetUint64(abstainVotes),
		new(big.Int).SetUint64(totalVoters),
		tallyResultsHash,
	)
	if err != nil {
		return nil, fmt.Errorf("chainadapter: publishResults: %w", err)
	}
	c.log.Info().Str("tx", tx.Hash().Hex()).Msg("submitted results")
	return tx, nil
}
