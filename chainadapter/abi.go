package chainadapter

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// pollABIJSON is the minimal poll-contract interface this adapter
// talks to (spec §6): the two events it ingests and the three
// artifact-submission functions it calls. The deployed contract is
// out of scope (spec §1 Non-goals) — this ABI only needs to match
// whatever poll contract actually emits/accepts these signatures.
const pollABIJSON = `[
	{
		"type": "event",
		"name": "SignUp",
		"inputs": [
			{"name": "stateIndex", "type": "uint256", "indexed": true},
			{"name": "pubKeyX", "type": "uint256", "indexed": false},
			{"name": "pubKeyY", "type": "uint256", "indexed": false},
			{"name": "voiceCreditBalance", "type": "uint256", "indexed": false},
			{"name": "timestamp", "type": "uint256", "indexed": false}
		]
	},
	{
		"type": "event",
		"name": "MessagePublished",
		"inputs": [
			{"name": "messageIndex", "type": "uint256", "indexed": true},
			{"name": "encMessage", "type": "uint256[10]", "indexed": false},
			{"name": "encPubKeyX", "type": "uint256", "indexed": false},
			{"name": "encPubKeyY", "type": "uint256", "indexed": false}
		]
	},
	{
		"type": "function",
		"name": "processMessages",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "newStateCommitment", "type": "uint256"},
			{"name": "pA", "type": "uint256[2]"},
			{"name": "pB", "type": "uint256[2][2]"},
			{"name": "pC", "type": "uint256[2]"}
		],
		"outputs": []
	},
	{
		"type": "function",
		"name": "tallyVotes",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "newTallyCommitment", "type": "uint256"},
			{"name": "pA", "type": "uint256[2]"},
			{"name": "pB", "type": "uint256[2][2]"},
			{"name": "pC", "type": "uint256[2]"}
		],
		"outputs": []
	},
	{
		"type": "function",
		"name": "publishResults",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "forVotes", "type": "uint256[]"},
			{"name": "againstVotes", "type": "uint256[]"},
			{"name": "abstainVotes", "type": "uint256"},
			{"name": "totalVoters", "type": "uint256"},
			{"name": "tallyResultsHash", "type": "bytes32"}
		],
		"outputs": []
	}
]`

func mustParsePollABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(pollABIJSON))
	if err != nil {
		panic("chainadapter: invalid embedded poll ABI: " + err.Error())
	}
	return parsed
}
