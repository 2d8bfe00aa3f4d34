package config

import (
	"math/big"

	"github.com/crytic/solsim/utils"
	"github.com/pkg/errors"
)

// TestChainConfig represents the chain configuration.
type TestChainConfig struct {
	// BlockGasLimit is the gas limit of every block the chain produces.
	BlockGasLimit uint64 `json:"blockGasLimit"`

	// InitialBalance is the ether amount, as a decimal string, each account funded at genesis receives.
	InitialBalance string `json:"initialBalance"`
}

// InitialBalanceWei returns InitialBalance converted to wei.
func (t *TestChainConfig) InitialBalanceWei() (*big.Int, error) {
	return utils.ParseEther(t.InitialBalance)
}

// Validate checks the configuration for invalid values.
func (t *TestChainConfig) Validate() error {
	if t.BlockGasLimit == 0 {
		return errors.New("chain.blockGasLimit must be greater than zero")
	}
	if _, err := t.InitialBalanceWei(); err != nil {
		return errors.Wrap(err, "chain.initialBalance is invalid")
	}
	return nil
}
