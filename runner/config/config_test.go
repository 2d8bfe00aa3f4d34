package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crytic/solsim/compilation/platforms"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProjectConfig(t *testing.T) {
	projectConfig, err := GetDefaultProjectConfig("solc")
	require.NoError(t, err)
	require.NoError(t, projectConfig.Validate())

	assert.Equal(t, platforms.DefaultContractName, projectConfig.Deployment.ContractName)
	assert.Equal(t, []string{"5"}, projectConfig.Deployment.ConstructorArgs)
	assert.Equal(t, zerolog.InfoLevel, projectConfig.Logging.Level)

	expectedSteps := []Step{
		{Kind: StepKindCall, Method: "x"},
		{Kind: StepKindTransact, Method: "changeX", Args: []string{"7"}},
		{Kind: StepKindCall, Method: "x"},
		{Kind: StepKindCall, Method: "doubleX"},
	}
	if diff := cmp.Diff(expectedSteps, projectConfig.Steps); diff != "" {
		t.Errorf("default steps mismatch (-want +got):\n%s", diff)
	}

	// Without a platform there is no compilation config, which does not validate.
	projectConfig, err = GetDefaultProjectConfig("")
	require.NoError(t, err)
	assert.Nil(t, projectConfig.Compilation)
	assert.Error(t, projectConfig.Validate())

	_, err = GetDefaultProjectConfig("truffle")
	assert.Error(t, err)
}

func TestProjectConfigRoundTrip(t *testing.T) {
	projectConfig, err := GetDefaultProjectConfig("solc")
	require.NoError(t, err)
	projectConfig.Deployment.DeployerPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	projectConfig.Logging.LogDirectory = "logs"

	path := filepath.Join(t.TempDir(), "solsim.json")
	require.NoError(t, projectConfig.WriteToFile(path))

	readConfig, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, projectConfig.Deployment, readConfig.Deployment)
	assert.Equal(t, projectConfig.Steps, readConfig.Steps)
	assert.Equal(t, projectConfig.Chain, readConfig.Chain)
	assert.Equal(t, projectConfig.Logging, readConfig.Logging)
	assert.Equal(t, projectConfig.Compilation.Platform, readConfig.Compilation.Platform)
}

func TestReadProjectConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solsim.json")
	contents := `{
		"deployment": {"contractName": "Token", "constructorArgs": ["1000"]},
		"steps": [{"kind": "call", "method": "totalSupply"}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	projectConfig, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	require.NoError(t, projectConfig.Validate())

	assert.Equal(t, "Token", projectConfig.Deployment.ContractName)
	assert.Equal(t, []string{"1000"}, projectConfig.Deployment.ConstructorArgs)
	assert.Equal(t, []Step{{Kind: StepKindCall, Method: "totalSupply"}}, projectConfig.Steps)

	// Unset sections keep their defaults.
	assert.Equal(t, "solc", projectConfig.Compilation.Platform)
	assert.EqualValues(t, 30_000_000, projectConfig.Chain.BlockGasLimit)

	// File steps replace the defaults outright.
	require.NoError(t, os.WriteFile(path, []byte(`{"steps": [{"kind": "call", "method": "x"}, {"kind": "transact", "method": "reset"}]}`), 0644))
	projectConfig, err = ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Step{{Kind: StepKindCall, Method: "x"}, {Kind: StepKindTransact, Method: "reset"}}, projectConfig.Steps)

	// Without steps in the file, the default steps are kept.
	require.NoError(t, os.WriteFile(path, []byte(`{"deployment": {"contractName": "Other"}}`), 0644))
	projectConfig, err = ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Len(t, projectConfig.Steps, 4)

	_, err = ReadProjectConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = ReadProjectConfigFromFile(path)
	assert.Error(t, err)
}

func TestProjectConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *ProjectConfig)
		errMsg string
	}{
		{"empty contract name", func(p *ProjectConfig) { p.Deployment.ContractName = " " }, "contractName"},
		{"no steps", func(p *ProjectConfig) { p.Steps = nil }, "at least one step"},
		{"unknown step kind", func(p *ProjectConfig) { p.Steps[0].Kind = "send" }, "unknown kind"},
		{"missing method", func(p *ProjectConfig) { p.Steps[1].Method = "" }, "step 2"},
		{"bad key", func(p *ProjectConfig) { p.Deployment.DeployerPrivateKey = "xyz" }, "private key"},
		{"zero gas limit", func(p *ProjectConfig) { p.Chain.BlockGasLimit = 0 }, "blockGasLimit"},
		{"bad balance", func(p *ProjectConfig) { p.Chain.InitialBalance = "1.2.3" }, "initialBalance"},
		{"unknown platform", func(p *ProjectConfig) { p.Compilation.Platform = "hardhat" }, "unsupported"},
		{"no compilation", func(p *ProjectConfig) { p.Compilation = nil }, "compilation"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			projectConfig, err := GetDefaultProjectConfig("solc")
			require.NoError(t, err)
			tc.modify(projectConfig)
			assert.ErrorContains(t, projectConfig.Validate(), tc.errMsg)
		})
	}
}
