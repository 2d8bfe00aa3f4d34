package config

import (
	"encoding/json"
	"os"
	"strings"

	chainConfig "github.com/crytic/solsim/chain/config"
	"github.com/crytic/solsim/compilation"
	"github.com/crytic/solsim/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ProjectConfig describes everything a runner.Runner needs: what to compile, the chain to deploy on, the contract to
// deploy and the steps to execute against it.
type ProjectConfig struct {
	// Compilation describes the configuration used to compile the underlying project.
	Compilation *compilation.CompilationConfig `json:"compilation"`

	// Chain represents the chain.TestChain config to use when initializing a chain.
	Chain chainConfig.TestChainConfig `json:"chainConfig"`

	// Deployment describes which contract is deployed and how.
	Deployment DeploymentConfig `json:"deployment"`

	// Steps are executed in order against the deployed contract.
	Steps []Step `json:"steps"`

	// Logging describes the configuration used for logging
	Logging LoggingConfig `json:"loggingConfig"`
}

// DeploymentConfig describes the contract deployment.
type DeploymentConfig struct {
	// ContractName names the contract to deploy, either bare ("Contract") or qualified by its source path
	// ("contract.sol:Contract").
	ContractName string `json:"contractName"`

	// ConstructorArgs are the constructor arguments as strings, converted according to the constructor's ABI.
	ConstructorArgs []string `json:"constructorArgs"`

	// DeployerPrivateKey is a hex encoded private key for the deploying account. If empty, a fresh key is generated
	// for every run.
	DeployerPrivateKey string `json:"deployerPrivateKey,omitempty"`
}

// StepKind distinguishes read-only calls from transactions.
type StepKind string

const (
	// StepKindCall executes the method with a read-only call and prints its return values.
	StepKindCall StepKind = "call"

	// StepKindTransact sends a transaction calling the method. Nothing is printed.
	StepKindTransact StepKind = "transact"
)

// Step is one contract interaction.
type Step struct {
	// Kind is either StepKindCall or StepKindTransact.
	Kind StepKind `json:"kind"`

	// Method is the name of the contract method.
	Method string `json:"method"`

	// Args are the method arguments as strings, converted according to the method's ABI.
	Args []string `json:"args,omitempty"`
}

// LoggingConfig describes the configuration options used for logging
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be emitted or discarded.
	// Increasing level values represent more severe logs
	Level zerolog.Level `json:"level"`

	// NoColor disables ANSI colours in console output.
	NoColor bool `json:"noColor"`

	// LogDirectory describes the directory where structured log _files_ will be outputted. If the string is empty, then
	// no log files are kept
	LogDirectory string `json:"logDirectory"`
}

// ReadProjectConfigFromFile reads a JSON-serialized ProjectConfig from a provided file path. Fields the file does
// not set keep the values of the default project config.
// Returns the ProjectConfig if it succeeds, or an error if one occurs.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	projectConfig, err := GetDefaultProjectConfig(compilation.DefaultPlatform)
	if err != nil {
		return nil, err
	}
	// Steps in the file replace the default steps rather than being decoded over them element by element.
	defaultSteps := projectConfig.Steps
	projectConfig.Steps = nil
	err = json.Unmarshal(b, projectConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse project config '%s'", path)
	}
	if projectConfig.Steps == nil {
		projectConfig.Steps = defaultSteps
	}
	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in a JSON-serialized format.
// Returns an error if one occurs.
func (p *ProjectConfig) WriteToFile(path string) error {
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}

	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Validate validates that the ProjectConfig meets certain requirements.
// Returns an error if one occurs.
func (p *ProjectConfig) Validate() error {
	if p.Compilation == nil {
		return errors.New("project config must contain a compilation config")
	}
	if !compilation.IsSupportedCompilationPlatform(p.Compilation.Platform) {
		return errors.Errorf("compilation platform '%s' is unsupported (options: %s)",
			p.Compilation.Platform, strings.Join(compilation.GetSupportedCompilationPlatforms(), ", "))
	}

	if err := p.Chain.Validate(); err != nil {
		return err
	}

	if strings.TrimSpace(p.Deployment.ContractName) == "" {
		return errors.New("deployment.contractName must not be empty")
	}
	if p.Deployment.DeployerPrivateKey != "" {
		if _, err := utils.HexStringToPrivateKey(p.Deployment.DeployerPrivateKey); err != nil {
			return errors.Wrap(err, "malformed deployer private key")
		}
	}

	if len(p.Steps) == 0 {
		return errors.New("at least one step must be configured")
	}
	for i, step := range p.Steps {
		if step.Kind != StepKindCall && step.Kind != StepKindTransact {
			return errors.Errorf("step %d has unknown kind '%s' (options: %s, %s)", i+1, step.Kind, StepKindCall, StepKindTransact)
		}
		if strings.TrimSpace(step.Method) == "" {
			return errors.Errorf("step %d does not name a method", i+1)
		}
	}
	return nil
}
