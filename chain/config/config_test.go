package config

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTestChainConfig(t *testing.T) {
	config, err := DefaultTestChainConfig()
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	balance, err := config.InitialBalanceWei()
	require.NoError(t, err)
	expected := new(big.Int).Exp(big.NewInt(10), big.NewInt(19), nil)
	assert.Zero(t, balance.Cmp(expected))
}

func TestTestChainConfigValidate(t *testing.T) {
	config, err := DefaultTestChainConfig()
	require.NoError(t, err)

	config.BlockGasLimit = 0
	assert.ErrorContains(t, config.Validate(), "blockGasLimit")

	config.BlockGasLimit = 1_000_000
	config.InitialBalance = "-3"
	assert.ErrorContains(t, config.Validate(), "initialBalance")
}
