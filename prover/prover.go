// Package prover is the concrete Groth16 ProverAdapter spec §4.14
// names as an external collaborator: it loads a precompiled
// constraint system and proving key from disk and turns a named-field
// witness into a Solidity-submittable proof. Authoring the circuits
// themselves is explicitly out of scope (spec §1 Non-goals); this
// package only consumes artifacts produced by a separate setup step,
// mirroring relayer.go's setupCircuit/generateProof split.
package prover

import (
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/rs/zerolog"

	"github.com/kysee/maci-core/internal/errs"
	"github.com/kysee/maci-core/internal/obs"
)

// ProverAdapter holds the loaded artifacts for both circuits this
// coordinator needs proofs from. Each circuit's ccs/pk is loaded once
// and reused across every batch/tally proof for the poll's lifetime.
type ProverAdapter struct {
	processCcs constraint.ConstraintSystem
	processPk  groth16.ProvingKey
	tallyCcs   constraint.ConstraintSystem
	tallyPk    groth16.ProvingKey
	log        zerolog.Logger
}

// New returns an empty ProverAdapter; call LoadProcessArtifacts and/or
// LoadTallyArtifacts before proving.
func New() *ProverAdapter {
	return &ProverAdapter{log: obs.New("prover")}
}

// LoadProcessArtifacts reads the compiled process-messages circuit
// and its proving key from ccsPath/pkPath.
func (p *ProverAdapter) LoadProcessArtifacts(ccsPath, pkPath string) error {
	ccs, pk, err := loadArtifacts(ccsPath, pkPath)
	if err != nil {
		return fmt.Errorf("prover: process artifacts: %w", err)
	}
	p.processCcs, p.processPk = ccs, pk
	p.log.Info().Int("constraints", ccs.GetNbConstraints()).Msg("loaded process-messages circuit")
	return nil
}

// LoadTallyArtifacts reads the compiled tally-votes circuit and its
// proving key from ccsPath/pkPath.
func (p *ProverAdapter) LoadTallyArtifacts(ccsPath, pkPath string) error {
	ccs, pk, err := loadArtifacts(ccsPath, pkPath)
	if err != nil {
		return fmt.Errorf("prover: tally artifacts: %w", err)
	}
	p.tallyCcs, p.tallyPk = ccs, pk
	p.log.Info().Int("constraints", ccs.GetNbConstraints()).Msg("loaded tally-votes circuit")
	return nil
}

func loadArtifacts(ccsPath, pkPath string) (constraint.ConstraintSystem, groth16.ProvingKey, error) {
	fCcs, err := os.Open(ccsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open ccs %s: %w", ccsPath, err)
	}
	defer fCcs.Close()

	ccs := groth16.NewCS(ecc.BN254)
	if _, err := ccs.ReadFrom(fCcs); err != nil {
		return nil, nil, fmt.Errorf("read ccs %s: %w", ccsPath, err)
	}

	fPk, err := os.Open(pkPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open pk %s: %w", pkPath, err)
	}
	defer fPk.Close()

	pk := groth16.NewProvingKey(ecc.BN254)
	if _, err := pk.ReadFrom(fPk); err != nil {
		return nil, nil, fmt.Errorf("read pk %s: %w", pkPath, err)
	}

	return ccs, pk, nil
}

// ProveProcessMessages proves a process-messages batch witness and
// returns the proof in submission-ready (pA, pB, pC) form.
func (p *ProverAdapter) ProveProcessMessages(w ProcessMessagesWitness) (ProofData, error) {
	if p.processCcs == nil || p.processPk == nil {
		return ProofData{}, fmt.Errorf("prover: %w: process-messages artifacts not loaded", errs.ErrWitnessShape)
	}
	return p.prove(p.processCcs, p.processPk, w)
}

// ProveTallyVotes proves a tally-votes witness and returns the proof
// in submission-ready (pA, pB, pC) form.
func (p *ProverAdapter) ProveTallyVotes(w TallyVotesWitness) (ProofData, error) {
	if p.tallyCcs == nil || p.tallyPk == nil {
		return ProofData{}, fmt.Errorf("prover: %w: tally-votes artifacts not loaded", errs.ErrWitnessShape)
	}
	return p.prove(p.tallyCcs, p.tallyPk, w)
}

// prove takes a plain witness-assignment struct (tagged with
// `gnark:",public"` where needed). It deliberately is not typed as
// frontend.Circuit: these structs carry no Define method, since this
// package does not author circuit internals (spec §1 Non-goals) — it
// only supplies field assignments for a circuit compiled elsewhere.
func (p *ProverAdapter) prove(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, assignment any) (ProofData, error) {
	fullWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return ProofData{}, fmt.Errorf("prover: %w: build witness: %v", errs.ErrWitnessShape, err)
	}

	proof, err := groth16.Prove(ccs, pk, fullWitness, backend.WithProverHashToFieldFunction(sha256.New()))
	if err != nil {
		return ProofData{}, fmt.Errorf("prover: %w: %v", errs.ErrProverError, err)
	}

	solidityProof, ok := proof.(interface{ MarshalSolidity() []byte })
	if !ok {
		return ProofData{}, fmt.Errorf("prover: %w: proof does not implement MarshalSolidity", errs.ErrProverError)
	}

	proofData, err := newProofDataFromSolidity(solidityProof.MarshalSolidity())
	if err != nil {
		return ProofData{}, fmt.Errorf("prover: %w: %v", errs.ErrProverError, err)
	}

	p.log.Debug().Int("constraints", ccs.GetNbConstraints()).Msg("proof generated")
	return proofData, nil
}
