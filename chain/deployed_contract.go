package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// DeployedContract is a contract deployed to a TestChain. Transactions are sent from the account that deployed it.
type DeployedContract struct {
	// Name is the name the contract was deployed under.
	Name string

	// Address is the address of the contract on the chain.
	Address common.Address

	// Abi describes the methods of the contract.
	Abi abi.ABI

	chain  *TestChain
	sender *Account
	bound  *bind.BoundContract
}

// method looks up an ABI method by name.
func (c *DeployedContract) method(name string) (*abi.Method, error) {
	method, ok := c.Abi.Methods[name]
	if !ok {
		return nil, fmt.Errorf("contract '%s' has no method '%s'", c.Name, name)
	}
	return &method, nil
}

// Call executes a read-only call of method against the latest block and returns the decoded return values. Returns
// ErrCallReverted if execution reverted.
func (c *DeployedContract) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	if _, err := c.method(method); err != nil {
		return nil, err
	}

	var results []any
	opts := &bind.CallOpts{
		Context: ctx,
		From:    c.sender.Address,
	}
	if err := c.bound.Call(opts, &results, method, args...); err != nil {
		return nil, fmt.Errorf("call to %s.%s failed: %w", c.Name, method, classifyRevert(err, ErrCallReverted))
	}
	return results, nil
}

// Transact sends a transaction calling method, commits a block for it and waits for the receipt. Returns
// ErrTransactionReverted if execution reverted.
func (c *DeployedContract) Transact(ctx context.Context, method string, args ...any) (*types.Receipt, error) {
	if _, err := c.method(method); err != nil {
		return nil, err
	}

	opts, err := c.chain.transactOpts(ctx, c.sender)
	if err != nil {
		return nil, err
	}
	tx, err := c.bound.Transact(opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("transaction %s.%s failed: %w", c.Name, method, classifyRevert(err, ErrTransactionReverted))
	}

	receipt, err := c.chain.mine(ctx, tx)
	if err != nil {
		return nil, err
	}

	err = c.chain.Events.TransactionMined.Publish(TransactionMinedEvent{
		Chain:    c.chain,
		Contract: c,
		Method:   method,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("transaction %s.%s failed: %w", c.Name, method, ErrTransactionReverted)
	}
	return receipt, nil
}
