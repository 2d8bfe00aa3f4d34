package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/crytic/solsim/chain/config"
	"github.com/crytic/solsim/utils/testutils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createChain creates a TestChain funding a random account with the default configuration.
func createChain(t *testing.T) (*TestChain, *Account) {
	account, err := NewRandomAccount()
	require.NoError(t, err)

	chain, err := NewTestChainWithAccount(account, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = chain.Close()
	})
	return chain, account
}

// deployCounter deploys the counter fixture with initial value x.
func deployCounter(t *testing.T, chain *TestChain, account *Account, x int64) *DeployedContract {
	contract, err := chain.DeployContract(context.Background(), account, testutils.CounterContractName, testutils.CounterContract(), big.NewInt(x))
	require.NoError(t, err)
	return contract
}

// callUint calls a method returning a single uint256.
func callUint(t *testing.T, contract *DeployedContract, method string) *big.Int {
	results, err := contract.Call(context.Background(), method)
	require.NoError(t, err)
	require.Len(t, results, 1)
	value, ok := results[0].(*big.Int)
	require.True(t, ok)
	return value
}

func TestNewAccountFromHex(t *testing.T) {
	account, err := NewAccountFromHex("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), account.Address)

	_, err = NewAccountFromHex("not a key")
	assert.Error(t, err)
}

func TestTestChainGenesisBalance(t *testing.T) {
	chain, account := createChain(t)
	ctx := context.Background()

	balance, err := chain.BalanceOf(ctx, account.Address)
	require.NoError(t, err)
	expected, err := chain.TestChainConfig().InitialBalanceWei()
	require.NoError(t, err)
	assert.Zero(t, balance.Cmp(expected))

	chainID, err := chain.ChainID(ctx)
	require.NoError(t, err)
	assert.Positive(t, chainID.Sign())

	// A custom config sets the funded balance.
	testChainConfig := &config.TestChainConfig{BlockGasLimit: 15_000_000, InitialBalance: "0.5"}
	customChain, err := NewTestChainWithAccount(account, testChainConfig)
	require.NoError(t, err)
	defer customChain.Close()
	balance, err = customChain.BalanceOf(ctx, account.Address)
	require.NoError(t, err)
	assert.Zero(t, balance.Cmp(big.NewInt(500_000_000_000_000_000)))
}

func TestTestChainInvalidConfig(t *testing.T) {
	account, err := NewRandomAccount()
	require.NoError(t, err)

	_, err = NewTestChainWithAccount(account, &config.TestChainConfig{BlockGasLimit: 1_000_000, InitialBalance: "lots"})
	assert.Error(t, err)
	_, err = NewTestChain(nil, &config.TestChainConfig{InitialBalance: "1"})
	assert.Error(t, err)
}

func TestDeployAndInteract(t *testing.T) {
	chain, account := createChain(t)
	ctx := context.Background()

	committed := 0
	chain.Events.BlockCommitted.Subscribe(func(event BlockCommittedEvent) error {
		committed++
		return nil
	})
	var deployedEvents []ContractDeployedEvent
	chain.Events.ContractDeployed.Subscribe(func(event ContractDeployedEvent) error {
		deployedEvents = append(deployedEvents, event)
		return nil
	})

	startBlock, err := chain.HeadBlockNumber(ctx)
	require.NoError(t, err)

	contract := deployCounter(t, chain, account, 5)
	require.Len(t, deployedEvents, 1)
	assert.Equal(t, contract.Address, deployedEvents[0].Contract.Address)
	assert.Equal(t, testutils.CounterContractName, contract.Name)

	assert.EqualValues(t, 5, callUint(t, contract, "x").Int64())

	receipt, err := contract.Transact(ctx, "changeX", big.NewInt(7))
	require.NoError(t, err)
	assert.NotZero(t, receipt.GasUsed)

	assert.EqualValues(t, 7, callUint(t, contract, "x").Int64())
	assert.EqualValues(t, 14, callUint(t, contract, "doubleX").Int64())

	// One block for the deployment and one for changeX.
	assert.Equal(t, 2, committed)
	headBlock, err := chain.HeadBlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, startBlock+2, headBlock)

	// The deployer paid for gas.
	balance, err := chain.BalanceOf(ctx, account.Address)
	require.NoError(t, err)
	initial, err := chain.TestChainConfig().InitialBalanceWei()
	require.NoError(t, err)
	assert.Equal(t, -1, balance.Cmp(initial))
}

func TestTransactReverted(t *testing.T) {
	chain, account := createChain(t)
	ctx := context.Background()
	contract := deployCounter(t, chain, account, 1)

	_, err := contract.Transact(ctx, "fail")
	assert.ErrorIs(t, err, ErrTransactionReverted)

	_, err = contract.Call(ctx, "fail")
	assert.ErrorIs(t, err, ErrCallReverted)

	// State is unchanged by the reverted transaction.
	assert.EqualValues(t, 1, callUint(t, contract, "x").Int64())
}

func TestUnknownMethodAndBadArguments(t *testing.T) {
	chain, account := createChain(t)
	ctx := context.Background()
	contract := deployCounter(t, chain, account, 1)

	_, err := contract.Call(ctx, "missing")
	assert.ErrorContains(t, err, "has no method")
	_, err = contract.Transact(ctx, "missing")
	assert.ErrorContains(t, err, "has no method")

	// Constructor arguments are checked against the ABI before deploying.
	_, err = chain.DeployContract(ctx, account, testutils.CounterContractName, testutils.CounterContract())
	assert.Error(t, err)
	_, err = chain.DeployContract(ctx, account, testutils.CounterContractName, testutils.CounterContract(), "five")
	assert.Error(t, err)
}

func TestClassifyRevert(t *testing.T) {
	assert.NoError(t, classifyRevert(nil, ErrTransactionReverted))

	other := assert.AnError
	assert.Equal(t, other, classifyRevert(other, ErrTransactionReverted))
}

// TestDeployContractTransactionData ensures the creation transaction carries exactly the deployment message data
// and the contract lands at the address derived from the deployer's nonce.
func TestDeployContractTransactionData(t *testing.T) {
	chain, account := createChain(t)
	ctx := context.Background()

	var deployedEvents []ContractDeployedEvent
	chain.Events.ContractDeployed.Subscribe(func(event ContractDeployedEvent) error {
		deployedEvents = append(deployedEvents, event)
		return nil
	})

	contract := deployCounter(t, chain, account, 5)
	require.Len(t, deployedEvents, 1)
	receipt := deployedEvents[0].Receipt
	assert.Equal(t, contract.Address, receipt.ContractAddress)
	assert.Equal(t, crypto.CreateAddress(account.Address, 0), contract.Address)

	tx, isPending, err := chain.Client().TransactionByHash(ctx, receipt.TxHash)
	require.NoError(t, err)
	assert.False(t, isPending)
	assert.Nil(t, tx.To())

	expected, err := testutils.CounterContract().GetDeploymentMessageData([]any{big.NewInt(5)})
	require.NoError(t, err)
	assert.Equal(t, expected, tx.Data())

	// Bad constructor arguments are rejected before anything is sent.
	_, err = chain.DeployContract(ctx, account, testutils.CounterContractName, testutils.CounterContract(), "five")
	assert.Error(t, err)
	nonce, err := chain.Client().NonceAt(ctx, account.Address, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonce)
}
