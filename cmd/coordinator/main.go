// Command coordinator is the off-chain MACI coordinator's entrypoint,
// mirroring the teacher's provers/cmd/main.go: parse config from
// os.Args, wire a chain adapter/processor/tally/prover, and dispatch
// one of a handful of subcommands by hand rather than via a
// third-party CLI framework.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/olekukonko/tablewriter"

	"github.com/kysee/maci-core/accqueue"
	"github.com/kysee/maci-core/babyjub"
	"github.com/kysee/maci-core/chainadapter"
	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/internal/config"
	"github.com/kysee/maci-core/internal/obs"
	"github.com/kysee/maci-core/kdf"
	"github.com/kysee/maci-core/message"
	"github.com/kysee/maci-core/poseidon"
	"github.com/kysee/maci-core/processor"
	"github.com/kysee/maci-core/prover"
	"github.com/kysee/maci-core/publicinput"
	"github.com/kysee/maci-core/tally"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: coordinator <watch|process|tally> [--flag value ...]")
		os.Exit(1)
	}

	subcommand := os.Args[1]
	cfg := config.NewConfig(os.Args[2:]...)
	log := obs.New("coordinator")

	var err error
	switch subcommand {
	case "watch":
		err = runWatch(cfg)
	case "process":
		err = runProcess(cfg)
	case "tally":
		err = runTally(cfg)
	default:
		err = fmt.Errorf("unknown subcommand %q", subcommand)
	}
	if err != nil {
		log.Fatal().Err(err).Str("subcommand", subcommand).Msg("coordinator exited")
	}
}

// runWatch polls the chain adapter for new SignUp/MessagePublished
// events, logging them, with the same poll-and-backoff shape as the
// teacher's RelayerMain loop.
func runWatch(cfg *config.Config) error {
	log := obs.New("coordinator.watch")

	adapter, err := chainadapter.New(cfg.RPCEndpoint, common.HexToAddress(cfg.PollAddress), nil)
	if err != nil {
		return fmt.Errorf("dial chain adapter: %w", err)
	}
	defer adapter.Close()

	fromBlock := cfg.StartBlock
	for {
		events, err := adapter.Ingest(context.Background(), fromBlock)
		if err != nil {
			log.Error().Err(err).Msg("ingest failed, retrying")
			time.Sleep(time.Second)
			continue
		}
		for _, ev := range events {
			switch {
			case ev.SignUp != nil:
				log.Info().Uint64("stateIndex", ev.SignUp.StateIndex).Uint64("block", ev.SignUp.BlockNumber).Msg("SignUp")
				fromBlock = ev.SignUp.BlockNumber + 1
			case ev.MessagePublished != nil:
				log.Info().Uint64("messageIndex", ev.MessagePublished.MessageIndex).Uint64("block", ev.MessagePublished.BlockNumber).Msg("MessagePublished")
				fromBlock = ev.MessagePublished.BlockNumber + 1
			}
		}
		time.Sleep(time.Second)
	}
}

// runProcess ingests one batch of events, signs up voters, processes
// messages in reverse order, and persists the resulting proof and
// witness blob to OutputDir.
func runProcess(cfg *config.Config) error {
	log := obs.New("coordinator.process")

	coordinatorSk, err := coordinatorKey(cfg)
	if err != nil {
		return err
	}

	adapter, err := chainadapter.New(cfg.RPCEndpoint, common.HexToAddress(cfg.PollAddress), nil)
	if err != nil {
		return fmt.Errorf("dial chain adapter: %w", err)
	}
	defer adapter.Close()

	events, err := adapter.Ingest(context.Background(), cfg.StartBlock)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	proc := processor.New(coordinatorSk, cfg.StateTreeDepth, cfg.VoteOptionTreeDepth, cfg.IsD2, cfg.MaxVoteOptions)
	stateRootBefore := proc.StateRoot()
	ballotRootBefore := proc.BallotRoot()

	msgTree := accqueue.New(cfg.MessageTreeSubDepth, cfg.MessageTreeDepth)
	var messages []message.Message
	var batchStartIndex, batchEndIndex uint64
	haveIndex := false
	for _, ev := range events {
		switch {
		case ev.SignUp != nil:
			pubKey, perr := pointFromEvent(ev.SignUp.PubKeyX, ev.SignUp.PubKeyY)
			if perr != nil {
				log.Warn().Err(perr).Uint64("stateIndex", ev.SignUp.StateIndex).Msg("skipping malformed SignUp")
				continue
			}
			if _, serr := proc.SignUp(pubKey, ev.SignUp.VoiceCreditBalance, ev.SignUp.Timestamp); serr != nil {
				log.Warn().Err(serr).Msg("signup failed")
			}
		case ev.MessagePublished != nil:
			pubKey, perr := pointFromEvent(ev.MessagePublished.EncPubKeyX, ev.MessagePublished.EncPubKeyY)
			if perr != nil {
				log.Warn().Err(perr).Uint64("messageIndex", ev.MessagePublished.MessageIndex).Msg("skipping malformed message")
				continue
			}
			msg := message.Message{EncPubKey: pubKey, Data: ev.MessagePublished.EncMessage}
			messages = append(messages, msg)
			if err := msgTree.Enqueue(msg.Hash()); err != nil {
				return fmt.Errorf("enqueue message %d: %w", ev.MessagePublished.MessageIndex, err)
			}
			idx := ev.MessagePublished.MessageIndex
			if !haveIndex {
				batchStartIndex, batchEndIndex = idx, idx+1
				haveIndex = true
			} else {
				if idx < batchStartIndex {
					batchStartIndex = idx
				}
				if idx+1 > batchEndIndex {
					batchEndIndex = idx + 1
				}
			}
		}
	}
	if err := msgTree.Merge(); err != nil {
		return fmt.Errorf("merge message tree: %w", err)
	}
	messageRoot := msgTree.Root()

	outcomes := proc.ProcessBatch(messages)
	applied := 0
	for _, o := range outcomes {
		if o.Applied {
			applied++
		}
	}
	log.Info().Int("messages", len(messages)).Int("applied", applied).Msg("batch processed")

	stateRootAfter := proc.StateRoot()
	ballotRootAfter := proc.BallotRoot()
	coordPubKey := kdf.PublicKeyFromPrivate(coordinatorSk)
	coordPubKeyHash := poseidon.Hash2(coordPubKey.X, coordPubKey.Y)

	witness := processor.BatchWitness{
		StateRootBefore:  stateRootBefore,
		StateRootAfter:   stateRootAfter,
		BallotRootBefore: ballotRootBefore,
		BallotRootAfter:  ballotRootAfter,
		MessageRoot:      messageRoot,
		CoordPubKeyHash:  coordPubKeyHash,
		BatchStartIndex:  batchStartIndex,
		BatchEndIndex:    batchEndIndex,
		Messages:         messages,
		CoordinatorSk:    coordinatorSk,
	}
	blob, err := processor.EncodeWitness(witness)
	if err != nil {
		return fmt.Errorf("encode witness: %w", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	witnessPath := filepath.Join(cfg.OutputDir, "process-batch.witness")
	if err := os.WriteFile(witnessPath, blob, 0o644); err != nil {
		return fmt.Errorf("write witness: %w", err)
	}
	log.Info().Str("path", witnessPath).Int("bytes", len(blob)).Msg("witness persisted")

	weightsJSON, err := json.Marshal(proc.Weights())
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.OutputDir, "weights.json"), weightsJSON, 0o644); err != nil {
		return fmt.Errorf("write weights: %w", err)
	}

	pa := prover.New()
	if err := pa.LoadProcessArtifacts(filepath.Join(cfg.ArtifactDir, "ProcessMessages.ccs"), filepath.Join(cfg.ArtifactDir, "ProcessMessages.pk")); err != nil {
		log.Warn().Err(err).Msg("process-messages artifacts unavailable, skipping proof generation")
		return nil
	}
	if len(messages) != prover.BatchSize {
		log.Warn().Int("got", len(messages)).Int("want", prover.BatchSize).Msg("batch size mismatch, skipping proof generation")
		return nil
	}

	pih := publicInputHashFor(witness)
	w := prover.ProcessMessagesWitness{
		PublicInputHash:     pih.BigInt(),
		OldStateCommitment:  stateRootBefore.BigInt(),
		NewStateCommitment:  stateRootAfter.BigInt(),
		OldBallotCommitment: ballotRootBefore.BigInt(),
		NewBallotCommitment: ballotRootAfter.BigInt(),
		MessageRoot:         messageRoot.BigInt(),
		CoordPubKeyHash:     coordPubKeyHash.BigInt(),
		BatchStartIndex:     new(big.Int).SetUint64(batchStartIndex),
		BatchEndIndex:       new(big.Int).SetUint64(batchEndIndex),
		CoordPrivKey:        coordinatorSk,
	}
	for i, msg := range messages {
		for j, d := range msg.Data {
			w.EncryptedMessage[i][j] = d.BigInt()
		}
		w.EncPubKeyX[i] = msg.EncPubKey.X.BigInt()
		w.EncPubKeyY[i] = msg.EncPubKey.Y.BigInt()
	}

	proof, err := pa.ProveProcessMessages(w)
	if err != nil {
		return fmt.Errorf("prove process-messages: %w", err)
	}

	proofJSON, err := json.MarshalIndent(proof, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal proof: %w", err)
	}
	proofPath := filepath.Join(cfg.OutputDir, "process-batch-proof.json")
	if err := os.WriteFile(proofPath, proofJSON, 0o644); err != nil {
		return fmt.Errorf("write proof: %w", err)
	}
	log.Info().Str("path", proofPath).Msg("proof persisted")
	return nil
}

// publicInputHashFor binds the batch's full §4.11 commitment block —
// state and ballot roots before/after, the input message root, the
// coordinator's public-key hash, and the batch's message-index range —
// into the single field element the on-chain verifier recomputes and
// compares against publicSignals[0] (spec §6/§9).
func publicInputHashFor(w processor.BatchWitness) field.Element {
	return publicinput.Hash(
		w.StateRootBefore,
		w.StateRootAfter,
		w.BallotRootBefore,
		w.BallotRootAfter,
		w.MessageRoot,
		w.CoordPubKeyHash,
		field.NewFromUint64(w.BatchStartIndex),
		field.NewFromUint64(w.BatchEndIndex),
	)
}

// runTally aggregates the final per-user vote weights runProcess
// persisted (the processor's own Weights() snapshot, taken right
// after the batch that mutated them) and prints a per-option results
// table.
func runTally(cfg *config.Config) error {
	log := obs.New("coordinator.tally")

	weightsPath := filepath.Join(cfg.OutputDir, "weights.json")
	weightsJSON, err := os.ReadFile(weightsPath)
	if err != nil {
		return fmt.Errorf("read weights: %w", err)
	}
	var userWeights map[uint64]map[uint64]uint64
	if err := json.Unmarshal(weightsJSON, &userWeights); err != nil {
		return fmt.Errorf("decode weights: %w", err)
	}

	result := tally.Aggregate(cfg.IsD2, cfg.MaxVoteOptions, userWeights)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Option", "Votes", "Voice Credits Spent"})
	for i, v := range result.PerOptionTally {
		table.Append([]string{fmt.Sprintf("%d", i), fmt.Sprintf("%d", v), fmt.Sprintf("%d", result.PerOptionSpent[i])})
	}
	table.Render()

	log.Info().Uint64("totalVoters", result.TotalVoters).Uint64("totalSpent", result.TotalSpentVoiceCredits).Msg("tally complete")

	resultJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return os.WriteFile(filepath.Join(cfg.OutputDir, "tally.json"), resultJSON, 0o644)
}

func coordinatorKey(cfg *config.Config) (*big.Int, error) {
	if cfg.CoordinatorSeedHex == "" {
		return kdf.GenerateRandomPrivateKey()
	}
	seed, err := hex.DecodeString(cfg.CoordinatorSeedHex)
	if err != nil {
		return nil, fmt.Errorf("decode coordinator seed: %w", err)
	}
	return kdf.DerivePrivateKey(seed)
}

func pointFromEvent(x, y field.Element) (babyjub.Point, error) {
	return babyjub.NewPoint(x, y)
}
