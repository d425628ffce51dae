// Package config follows the teacher's provers/types/config.go
// pattern exactly: a Config struct populated from environment
// variables, with --flag value command-line overrides, no
// third-party flag parser.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the coordinator's runtime configuration.
type Config struct {
	RootDir string

	// RPCEndpoint is the Ethereum JSON-RPC endpoint the chain adapter
	// dials.
	RPCEndpoint string
	// PollAddress is the deployed poll contract's address (hex).
	PollAddress string
	// StartBlock is the block to begin event ingestion from.
	StartBlock uint64
	// BatchSize is the number of messages processed per
	// processMessages proof.
	BatchSize uint64

	// StateTreeDepth is the quinary state tree's depth.
	StateTreeDepth int
	// MessageTreeSubDepth is an AccQueue sub-tree's depth.
	MessageTreeSubDepth int
	// MessageTreeDepth is the AccQueue main tree's depth.
	MessageTreeDepth int
	// VoteOptionTreeDepth is each voter's vote-option tree's depth.
	VoteOptionTreeDepth int
	// MaxVoteOptions bounds the number of distinct vote options.
	MaxVoteOptions uint64

	// IsD2 selects quadratic (true) vs linear (false) voice-credit
	// cost accounting.
	IsD2 bool

	// ArtifactDir holds the compiled ccs/pk/vk files for both
	// circuits (process-messages, tally-votes).
	ArtifactDir string
	// OutputDir is where proof JSON and witness blobs are written.
	OutputDir string

	// CoordinatorSeedHex is a 32-byte hex seed the coordinator's MACI
	// (Baby-Jubjub) private key is derived from via kdf.DerivePrivateKey —
	// distinct from the Ethereum signing key below.
	CoordinatorSeedHex string
	// CoordinatorEthKeyHex is the ECDSA private key (hex, no 0x) used
	// to sign submitted Ethereum transactions.
	CoordinatorEthKeyHex string
}

// NewConfig parses configuration from environment variables or
// command-line args, in that precedence order (CLI overrides env).
func NewConfig(args ...string) *Config {
	cfg := Config{
		RootDir:              getEnv("ROOT", "."),
		RPCEndpoint:          getEnv("RPC_ENDPOINT", "http://localhost:8545"),
		PollAddress:          getEnv("POLL_ADDRESS", ""),
		StartBlock:           getEnvUint64("START_BLOCK", 0),
		BatchSize:            getEnvUint64("BATCH_SIZE", 5),
		StateTreeDepth:       getEnvInt("STATE_TREE_DEPTH", 10),
		MessageTreeSubDepth:  getEnvInt("MESSAGE_TREE_SUB_DEPTH", 2),
		MessageTreeDepth:     getEnvInt("MESSAGE_TREE_DEPTH", 10),
		VoteOptionTreeDepth:  getEnvInt("VOTE_OPTION_TREE_DEPTH", 3),
		MaxVoteOptions:       getEnvUint64("MAX_VOTE_OPTIONS", 25),
		IsD2:                 getEnvBool("IS_D2", true),
		ArtifactDir:          getEnv("ARTIFACT_DIR", "./.build"),
		OutputDir:            getEnv("OUTPUT_DIR", "./output"),
		CoordinatorSeedHex:   getEnv("COORDINATOR_SEED", ""),
		CoordinatorEthKeyHex: getEnv("COORDINATOR_ETH_KEY", ""),
	}

	for i := 0; i < len(args); i++ {
		if len(args) <= i+1 {
			panic(fmt.Errorf("missing argument for %s", args[i]))
		}

		switch args[i] {
		case "--root":
			cfg.RootDir = args[i+1]
			i++
		case "--rpc":
			cfg.RPCEndpoint = args[i+1]
			i++
		case "--poll":
			cfg.PollAddress = args[i+1]
			i++
		case "--start-block":
			cfg.StartBlock, _ = strconv.ParseUint(args[i+1], 10, 64)
			i++
		case "--batch-size":
			cfg.BatchSize, _ = strconv.ParseUint(args[i+1], 10, 64)
			i++
		case "--artifact-dir":
			cfg.ArtifactDir = args[i+1]
			i++
		case "--output-dir":
			cfg.OutputDir = args[i+1]
			i++
		case "--is-d2":
			cfg.IsD2, _ = strconv.ParseBool(args[i+1])
			i++
		}
	}

	return &cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return defaultValue
}
