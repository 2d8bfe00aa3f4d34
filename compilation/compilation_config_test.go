package compilation

import (
	"encoding/json"
	"testing"

	"github.com/crytic/solsim/compilation/platforms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedCompilationPlatforms(t *testing.T) {
	assert.Equal(t, []string{"solc", "solc-combined"}, GetSupportedCompilationPlatforms())
	assert.True(t, IsSupportedCompilationPlatform(DefaultPlatform))
	assert.False(t, IsSupportedCompilationPlatform("truffle"))

	// Each call yields a fresh config.
	a := GetDefaultPlatformConfig("solc")
	a.SetTarget("a.sol")
	assert.Equal(t, "", GetDefaultPlatformConfig("solc").GetTarget())
}

func TestCompilationConfigPlatformConfig(t *testing.T) {
	config, err := NewCompilationConfig(DefaultPlatform)
	require.NoError(t, err)
	assert.Equal(t, "solc", config.Platform)

	platformConfig, err := config.GetPlatformConfig()
	require.NoError(t, err)
	solcConfig, ok := platformConfig.(*platforms.SolcCompilationConfig)
	require.True(t, ok)
	assert.Equal(t, platforms.DefaultContractSource, solcConfig.Source)
	assert.EqualValues(t, 200, solcConfig.Optimizer.Runs)

	require.NoError(t, config.SetTarget("contracts/Token.sol"))
	platformConfig, err = config.GetPlatformConfig()
	require.NoError(t, err)
	assert.Equal(t, "contracts/Token.sol", platformConfig.GetTarget())

	// Partial platform configs are laid over the platform defaults.
	partial := json.RawMessage(`{"target": "b.sol"}`)
	config = &CompilationConfig{Platform: "solc", PlatformConfig: &partial}
	platformConfig, err = config.GetPlatformConfig()
	require.NoError(t, err)
	assert.Equal(t, "b.sol", platformConfig.GetTarget())
	assert.EqualValues(t, 200, platformConfig.(*platforms.SolcCompilationConfig).Optimizer.Runs)
}

func TestCompilationConfigUnsupportedPlatform(t *testing.T) {
	_, err := NewCompilationConfig("hardhat")
	assert.Error(t, err)

	config := &CompilationConfig{Platform: "hardhat"}
	_, _, err = config.Compile()
	assert.ErrorContains(t, err, "unsupported")
	assert.Error(t, config.SetTarget("x.sol"))

	bad := json.RawMessage(`{"target": 5}`)
	config = &CompilationConfig{Platform: "solc", PlatformConfig: &bad}
	_, err = config.GetPlatformConfig()
	assert.Error(t, err)
}
