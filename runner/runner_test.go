package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/crytic/solsim/chain"
	"github.com/crytic/solsim/compilation/platforms"
	"github.com/crytic/solsim/compilation/types"
	"github.com/crytic/solsim/runner/config"
	"github.com/crytic/solsim/utils/testutils"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterProjectConfig returns the default project config, targeting the counter fixture.
func counterProjectConfig(t *testing.T) config.ProjectConfig {
	projectConfig, err := config.GetDefaultProjectConfig("solc")
	require.NoError(t, err)
	projectConfig.Deployment.ContractName = testutils.CounterContractName
	projectConfig.Logging.Level = zerolog.WarnLevel
	return *projectConfig
}

// newCounterRunner creates a Runner which uses the counter fixture instead of invoking a compiler.
func newCounterRunner(t *testing.T, projectConfig config.ProjectConfig, stdout *bytes.Buffer) *Runner {
	runner, err := NewRunner(projectConfig, stdout)
	require.NoError(t, err)
	runner.compile = func() ([]types.Compilation, string, error) {
		return []types.Compilation{*testutils.CounterCompilation()}, "", nil
	}
	return runner
}

func TestRunDefaultSteps(t *testing.T) {
	var stdout bytes.Buffer
	runner := newCounterRunner(t, counterProjectConfig(t), &stdout)

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff("5\n7\n14\n", stdout.String()); diff != "" {
		t.Errorf("unexpected output (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"5", "7", "14"}, result.Outputs)
	assert.NotZero(t, result.ContractAddress)
	assert.Contains(t, result.Compilation.SourcePathToArtifact, testutils.CounterSourcePath)
}

func TestRunCustomSteps(t *testing.T) {
	projectConfig := counterProjectConfig(t)
	projectConfig.Deployment.ConstructorArgs = []string{"0x10"}
	projectConfig.Deployment.DeployerPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	projectConfig.Steps = []config.Step{
		{Kind: config.StepKindCall, Method: "doubleX"},
		{Kind: config.StepKindTransact, Method: "changeX", Args: []string{"21"}},
		{Kind: config.StepKindTransact, Method: "changeX", Args: []string{"50"}},
		{Kind: config.StepKindCall, Method: "doubleX"},
	}

	var stdout bytes.Buffer
	result, err := newCounterRunner(t, projectConfig, &stdout).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "32\n100\n", stdout.String())
	assert.Equal(t, []string{"32", "100"}, result.Outputs)
}

func TestRunStepFailures(t *testing.T) {
	tests := []struct {
		name    string
		steps   []config.Step
		outputs []string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "reverted transaction",
			steps:   []config.Step{{Kind: config.StepKindCall, Method: "x"}, {Kind: config.StepKindTransact, Method: "fail"}},
			outputs: []string{"5"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, chain.ErrTransactionReverted)
				assert.ErrorContains(t, err, "step 2")
			},
		},
		{
			name:    "unknown method",
			steps:   []config.Step{{Kind: config.StepKindCall, Method: "y"}},
			outputs: []string{},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "has no method 'y'")
			},
		},
		{
			name:    "invalid argument",
			steps:   []config.Step{{Kind: config.StepKindTransact, Method: "changeX", Args: []string{"-7"}}},
			outputs: []string{},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "step 1")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			projectConfig := counterProjectConfig(t)
			projectConfig.Steps = tc.steps

			var stdout bytes.Buffer
			result, err := newCounterRunner(t, projectConfig, &stdout).Run(context.Background())
			require.Error(t, err)
			tc.check(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tc.outputs, result.Outputs)
		})
	}
}

func TestRunDeploymentFailures(t *testing.T) {
	projectConfig := counterProjectConfig(t)
	projectConfig.Deployment.ContractName = "Missing"
	_, err := newCounterRunner(t, projectConfig, &bytes.Buffer{}).Run(context.Background())
	assert.ErrorContains(t, err, "could not find contract 'Missing'")

	projectConfig = counterProjectConfig(t)
	projectConfig.Deployment.ConstructorArgs = []string{"five"}
	_, err = newCounterRunner(t, projectConfig, &bytes.Buffer{}).Run(context.Background())
	assert.ErrorContains(t, err, "invalid constructor arguments")

	// Compilation errors are distinguishable from run errors.
	runner := newCounterRunner(t, counterProjectConfig(t), &bytes.Buffer{})
	compileErr := errors.New("ParserError")
	runner.compile = func() ([]types.Compilation, string, error) {
		return nil, "", compileErr
	}
	_, err = runner.Run(context.Background())
	assert.ErrorIs(t, err, ErrCompilationFailed)
	assert.ErrorIs(t, err, compileErr)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	_, err := newCounterRunner(t, counterProjectConfig(t), &stdout).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stdout.String())
}

func TestNewRunnerValidates(t *testing.T) {
	projectConfig := counterProjectConfig(t)
	projectConfig.Steps = nil
	_, err := NewRunner(projectConfig, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunWritesLogFile(t *testing.T) {
	logDirectory := filepath.Join(t.TempDir(), "logs")
	projectConfig := counterProjectConfig(t)
	projectConfig.Logging.Level = zerolog.InfoLevel
	projectConfig.Logging.LogDirectory = logDirectory

	_, err := newCounterRunner(t, projectConfig, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(logDirectory, "solsim-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	contents, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"module":"chain"`)
	assert.Contains(t, string(contents), "Deployed")
}

func TestRunDefaultProjectWithSolc(t *testing.T) {
	if _, err := exec.LookPath(platforms.DefaultSolcPath); err != nil {
		t.Skip("solc is not installed")
	}
	solcVersion, err := platforms.GetSystemSolcVersion("")
	require.NoError(t, err)
	if platforms.CheckPragmaCompatibility(platforms.DefaultContractSource, solcVersion) != nil {
		t.Skipf("installed solc %s cannot compile the default source", solcVersion)
	}

	projectConfig, err := config.GetDefaultProjectConfig("solc")
	require.NoError(t, err)
	projectConfig.Logging.Level = zerolog.WarnLevel

	var stdout bytes.Buffer
	runner, err := NewRunner(*projectConfig, &stdout)
	require.NoError(t, err)
	_, err = runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5\n7\n14\n", stdout.String())
}
