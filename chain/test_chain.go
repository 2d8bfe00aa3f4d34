package chain

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/crytic/solsim/chain/config"
	compilationTypes "github.com/crytic/solsim/compilation/types"
	"github.com/crytic/solsim/logging"
	"github.com/crytic/solsim/logging/colors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"golang.org/x/exp/maps"
)

// TestChain is an in-process Ethereum chain. Blocks are only produced when Commit is called, which the deployment
// and transaction helpers do after sending each transaction.
type TestChain struct {
	// backend is the simulated node the chain runs on.
	backend *simulated.Backend

	// client is the RPC client of backend.
	client simulated.Client

	// testChainConfig represents the configuration used by this TestChain.
	testChainConfig *config.TestChainConfig

	// genesisAlloc is the initial state of the chain.
	genesisAlloc types.GenesisAlloc

	// Events defines the event system for the TestChain.
	Events TestChainEvents
}

// NewTestChain creates a simulated chain with the provided genesis allocation and config. If a nil config is
// provided, a default one is used.
func NewTestChain(genesisAlloc types.GenesisAlloc, testChainConfig *config.TestChainConfig) (*TestChain, error) {
	var err error
	if testChainConfig == nil {
		testChainConfig, err = config.DefaultTestChainConfig()
		if err != nil {
			return nil, err
		}
	}
	if err = testChainConfig.Validate(); err != nil {
		return nil, err
	}

	// Copy the allocation so later changes by the caller are not reflected in GenesisAlloc.
	alloc := make(types.GenesisAlloc, len(genesisAlloc))
	maps.Copy(alloc, genesisAlloc)

	backend := simulated.NewBackend(alloc, simulated.WithBlockGasLimit(testChainConfig.BlockGasLimit))
	chain := &TestChain{
		backend:         backend,
		client:          backend.Client(),
		testChainConfig: testChainConfig,
		genesisAlloc:    alloc,
	}
	return chain, nil
}

// NewTestChainWithAccount creates a simulated chain where account is funded with the configured initial balance.
func NewTestChainWithAccount(account *Account, testChainConfig *config.TestChainConfig) (*TestChain, error) {
	var err error
	if testChainConfig == nil {
		testChainConfig, err = config.DefaultTestChainConfig()
		if err != nil {
			return nil, err
		}
	}
	balance, err := testChainConfig.InitialBalanceWei()
	if err != nil {
		return nil, err
	}

	genesisAlloc := types.GenesisAlloc{
		account.Address: {Balance: balance},
	}
	return NewTestChain(genesisAlloc, testChainConfig)
}

// Client returns the RPC client of the chain.
func (t *TestChain) Client() simulated.Client {
	return t.client
}

// TestChainConfig returns the configuration the chain was created with.
func (t *TestChain) TestChainConfig() *config.TestChainConfig {
	return t.testChainConfig
}

// GenesisAlloc returns the genesis allocation the chain was created with.
func (t *TestChain) GenesisAlloc() types.GenesisAlloc {
	return t.genesisAlloc
}

// ChainID returns the chain identifier used for transaction signing.
func (t *TestChain) ChainID(ctx context.Context) (*big.Int, error) {
	return t.client.ChainID(ctx)
}

// Commit seals the pending transactions into a new block and returns its hash.
func (t *TestChain) Commit() (common.Hash, error) {
	hash := t.backend.Commit()
	err := t.Events.BlockCommitted.Publish(BlockCommittedEvent{
		Chain:     t,
		BlockHash: hash,
	})
	return hash, err
}

// HeadBlockNumber returns the number of the latest committed block.
func (t *TestChain) HeadBlockNumber(ctx context.Context) (uint64, error) {
	return t.client.BlockNumber(ctx)
}

// BalanceOf returns the balance of address at the latest block.
func (t *TestChain) BalanceOf(ctx context.Context, address common.Address) (*big.Int, error) {
	return t.client.BalanceAt(ctx, address, nil)
}

// Close shuts down the simulated node.
func (t *TestChain) Close() error {
	return t.backend.Close()
}

// transactOpts returns signing options for account bound to ctx.
func (t *TestChain) transactOpts(ctx context.Context, account *Account) (*bind.TransactOpts, error) {
	chainID, err := t.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(account.PrivateKey, chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

// mine commits a block holding tx and waits for its receipt.
func (t *TestChain) mine(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if _, err := t.Commit(); err != nil {
		return nil, err
	}
	return bind.WaitMined(ctx, t.client, tx)
}

// DeployContract deploys contract from deployer, passing args to its constructor. A block is committed for the
// deployment and the receipt is checked. Returns the deployed contract, or ErrTransactionReverted if the
// deployment reverted.
func (t *TestChain) DeployContract(
	ctx context.Context,
	deployer *Account,
	name string,
	contract *compilationTypes.CompiledContract,
	args ...any) (*DeployedContract, error) {
	logger := logging.GlobalLogger.NewSubLogger("module", logging.CHAIN_SERVICE)

	// The creation transaction carries the init bytecode followed by the encoded constructor arguments.
	deploymentData, err := contract.GetDeploymentMessageData(args)
	if err != nil {
		return nil, fmt.Errorf("could not deploy contract '%s': %w", name, err)
	}
	logger.Debug("Deploying ", colors.Bold, name, colors.Reset, " (", len(deploymentData), " bytes of deployment data)")

	opts, err := t.transactOpts(ctx, deployer)
	if err != nil {
		return nil, err
	}
	creator := bind.NewBoundContract(common.Address{}, contract.Abi, t.client, t.client, t.client)
	tx, err := creator.RawCreationTransact(opts, deploymentData)
	if err != nil {
		return nil, fmt.Errorf("could not deploy contract '%s': %w", name, classifyRevert(err, ErrTransactionReverted))
	}
	address := crypto.CreateAddress(opts.From, tx.Nonce())
	bound := bind.NewBoundContract(address, contract.Abi, t.client, t.client, t.client)

	receipt, err := t.mine(ctx, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("could not deploy contract '%s': %w", name, ErrTransactionReverted)
	}

	code, err := t.client.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("could not deploy contract '%s': no code at %s after deployment", name, address.Hex())
	}
	// Immutables legitimately differ, so a mismatch is only worth a debug line.
	if len(contract.RuntimeBytecode) > 0 &&
		!bytes.Equal(compilationTypes.RemoveContractMetadata(code), compilationTypes.RemoveContractMetadata(contract.RuntimeBytecode)) {
		logger.Debug("Code deployed for ", name, " differs from its compiled runtime bytecode")
	}

	deployed := &DeployedContract{
		Name:    name,
		Address: address,
		Abi:     contract.Abi,
		chain:   t,
		sender:  deployer,
		bound:   bound,
	}
	logger.Info("Deployed ", colors.Bold, name, colors.Reset, " at ", address.Hex(), " (gas used: ", receipt.GasUsed, ")")

	err = t.Events.ContractDeployed.Publish(ContractDeployedEvent{
		Chain:    t,
		Contract: deployed,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, err
	}
	return deployed, nil
}
