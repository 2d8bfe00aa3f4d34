package chain

import (
	"github.com/crytic/solsim/events"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TestChainEvents defines the event emitters of a TestChain.
type TestChainEvents struct {
	// BlockCommitted is published after each block the chain commits.
	BlockCommitted events.EventEmitter[BlockCommittedEvent]

	// ContractDeployed is published after a contract deployment is mined successfully.
	ContractDeployed events.EventEmitter[ContractDeployedEvent]

	// TransactionMined is published after a contract transaction is mined, whether it succeeded or not.
	TransactionMined events.EventEmitter[TransactionMinedEvent]
}

// BlockCommittedEvent describes an event where the TestChain commits a new block.
type BlockCommittedEvent struct {
	Chain     *TestChain
	BlockHash common.Hash
}

// ContractDeployedEvent describes an event where a contract was deployed to the TestChain.
type ContractDeployedEvent struct {
	Chain    *TestChain
	Contract *DeployedContract
	Receipt  *types.Receipt
}

// TransactionMinedEvent describes an event where a transaction calling a deployed contract was mined.
type TransactionMinedEvent struct {
	Chain    *TestChain
	Contract *DeployedContract
	Method   string
	Receipt  *types.Receipt
}
