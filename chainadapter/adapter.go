// Package chainadapter is the concrete Ethereum implementation of
// spec §4.14's Chain Adapter contract: ingest(fromBlock) streams
// ordered SignUp/MessagePublished events, submit(...) posts the
// coordinator's Groth16 proofs and final results. The deployed poll
// contract itself is out of scope (spec §1 Non-goals); this package
// only needs an ABI matching its event/function signatures.
package chainadapter

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum"
	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/internal/obs"
)

// ChainAdapter talks to one deployed poll contract over an
// *ethclient.Client, using the signer in opts to submit transactions.
type ChainAdapter struct {
	client *ethclient.Client
	poll   common.Address
	abi    ethabi.ABI
	bound  *bind.BoundContract
	opts   *bind.TransactOpts
	log    zerolog.Logger
}

// New dials rpcEndpoint and returns a ChainAdapter bound to poll. opts
// signs and pays for transactions submitted via the Submit* methods;
// pass nil if this adapter is only used for ingest(fromBlock).
func New(rpcEndpoint string, poll common.Address, opts *bind.TransactOpts) (*ChainAdapter, error) {
	client, err := ethclient.Dial(rpcEndpoint)
	if err != nil {
		return nil, fmt.Errorf("chainadapter: dial %s: %w", rpcEndpoint, err)
	}

	parsedABI := mustParsePollABI()
	bound := bind.NewBoundContract(poll, parsedABI, client, client, client)

	return &ChainAdapter{
		client: client,
		poll:   poll,
		abi:    parsedABI,
		bound:  bound,
		opts:   opts,
		log:    obs.New("chainadapter"),
	}, nil
}

// Close releases the underlying RPC connection.
func (c *ChainAdapter) Close() { c.client.Close() }

// Ingest streams every SignUp and MessagePublished log emitted by the
// poll contract from fromBlock through the chain head, in ascending
// block/log-index order (spec §6's "ordered stream" contract; message
// processing itself consumes them in reverse, but ingestion always
// hands them over in publish order).
func (c *ChainAdapter) Ingest(ctx context.Context, fromBlock uint64) ([]Event, error) {
	parsedABI := mustParsePollABI()
	signUpTopic := parsedABI.Events["SignUp"].ID
	msgTopic := parsedABI.Events["MessagePublished"].ID

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		Addresses: []common.Address{c.poll},
		Topics:    [][]common.Hash{{signUpTopic, msgTopic}},
	}

	logs, err := c.client.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("chainadapter: filter logs from block %d: %w", fromBlock, err)
	}

	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})

	events := make([]Event, 0, len(logs))
	for _, lg := range logs {
		if len(lg.Topics) == 0 {
			continue
		}
		switch lg.Topics[0] {
		case signUpTopic:
			ev, err := decodeSignUp(parsedABI, lg)
			if err != nil {
				return nil, err
			}
			events = append(events, Event{SignUp: ev})
		case msgTopic:
			ev, err := decodeMessagePublished(parsedABI, lg)
			if err != nil {
				return nil, err
			}
			events = append(events, Event{MessagePublished: ev})
		default:
			c.log.Debug().Str("topic", lg.Topics[0].Hex()).Msg("ignoring unrecognized log topic")
		}
	}

	c.log.Info().Int("count", len(events)).Uint64("fromBlock", fromBlock).Msg("ingested events")
	return events, nil
}

func decodeSignUp(parsedABI ethabi.ABI, lg types.Log) (*SignUpEvent, error) {
	var raw struct {
		PubKeyX            *big.Int
		PubKeyY            *big.Int
		VoiceCreditBalance *big.Int
		Timestamp          *big.Int
	}
	if err := parsedABI.UnpackIntoInterface(&raw, "SignUp", lg.Data); err != nil {
		return nil, fmt.Errorf("chainadapter: unpack SignUp: %w", err)
	}
	if len(lg.Topics) < 2 {
		return nil, fmt.Errorf("chainadapter: SignUp log missing indexed stateIndex topic")
	}
	return &SignUpEvent{
		StateIndex:         lg.Topics[1].Big().Uint64(),
		PubKeyX:            field.NewFromBigInt(raw.PubKeyX),
		PubKeyY:            field.NewFromBigInt(raw.PubKeyY),
		VoiceCreditBalance: raw.VoiceCreditBalance.Uint64(),
		Timestamp:          raw.Timestamp.Uint64(),
		TxHash:             lg.TxHash,
		BlockNumber:        lg.BlockNumber,
	}, nil
}

func decodeMessagePublished(parsedABI ethabi.ABI, lg types.Log) (*MessagePublishedEvent, error) {
	var raw struct {
		EncMessage [10]*big.Int
		EncPubKeyX *big.Int
		EncPubKeyY *big.Int
	}
	if err := parsedABI.UnpackIntoInterface(&raw, "MessagePublished", lg.Data); err != nil {
		return nil, fmt.Errorf("chainadapter: unpack MessagePublished: %w", err)
	}
	if len(lg.Topics) < 2 {
		return nil, fmt.Errorf("chainadapter: MessagePublished log missing indexed messageIndex topic")
	}

	var encMessage [10]field.Element
	for i, v := range raw.EncMessage {
		encMessage[i] = field.NewFromBigInt(v)
	}

	return &MessagePublishedEvent{
		MessageIndex: lg.Topics[1].Big().Uint64(),
		EncMessage:   encMessage,
		EncPubKeyX:   field.NewFromBigInt(raw.EncPubKeyX),
		EncPubKeyY:   field.NewFromBigInt(raw.EncPubKeyY),
		TxHash:       lg.TxHash,
		BlockNumber:  lg.BlockNumber,
	}, nil
}
