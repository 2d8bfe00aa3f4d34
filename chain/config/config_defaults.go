package config

// DefaultTestChainConfig obtains a default configuration for a chain.TestChain.
// Returns a TestChainConfig populated with default values.
func DefaultTestChainConfig() (*TestChainConfig, error) {
	config := &TestChainConfig{
		BlockGasLimit:  30_000_000,
		InitialBalance: "10",
	}
	return config, nil
}
