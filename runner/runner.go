package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/crytic/solsim/chain"
	"github.com/crytic/solsim/compilation/types"
	"github.com/crytic/solsim/logging"
	"github.com/crytic/solsim/logging/colors"
	"github.com/crytic/solsim/runner/config"
	"github.com/crytic/solsim/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// ErrCompilationFailed wraps any error that occurs while compiling the project.
var ErrCompilationFailed = errors.New("compilation failed")

// Runner compiles a project, deploys its contract to a fresh TestChain and executes the configured steps against
// it. Results of call steps are written to stdout, one line per step.
type Runner struct {
	// config describes the project being run.
	config config.ProjectConfig

	// stdout receives the results of call steps.
	stdout io.Writer

	// compile produces the compilations the contract is looked up in.
	compile func() ([]types.Compilation, string, error)

	// logger is the runner's sub-logger of logging.GlobalLogger.
	logger *logging.Logger
}

// Result describes a completed run.
type Result struct {
	// Compilation is the compilation the deployed contract was found in.
	Compilation *types.Compilation

	// ContractAddress is the address the contract was deployed at.
	ContractAddress common.Address

	// Outputs holds the formatted output line of every call step, in order.
	Outputs []string
}

// NewRunner validates projectConfig and returns a Runner for it. The global logger is replaced according to the
// project's logging configuration.
func NewRunner(projectConfig config.ProjectConfig, stdout io.Writer) (*Runner, error) {
	if projectConfig.Logging.NoColor {
		colors.DisableColor()
	}
	logging.GlobalLogger = logging.NewLogger(projectConfig.Logging.Level, true)
	logger := logging.GlobalLogger.NewSubLogger("module", logging.RUNNER_SERVICE)

	if err := projectConfig.Validate(); err != nil {
		logger.Error("Invalid project configuration", err)
		return nil, err
	}

	return &Runner{
		config:  projectConfig,
		stdout:  stdout,
		compile: projectConfig.Compilation.Compile,
		logger:  logger,
	}, nil
}

// openLogFile creates the structured log file for this run if a log directory is configured. The returned function
// detaches and closes it.
func (r *Runner) openLogFile() (func(), error) {
	if r.config.Logging.LogDirectory == "" {
		return func() {}, nil
	}

	filename := fmt.Sprintf("solsim-%d-%s.log", time.Now().Unix(), uuid.NewString())
	file, err := utils.CreateFile(r.config.Logging.LogDirectory, filename)
	if err != nil {
		return nil, err
	}
	logging.GlobalLogger.AddWriter(file, logging.STRUCTURED)

	// Sub-loggers copy their writers, so the runner logger needs its own reference.
	r.logger.AddWriter(file, logging.STRUCTURED)
	return func() {
		logging.GlobalLogger.RemoveWriter(file)
		r.logger.RemoveWriter(file)
		_ = file.Close()
	}, nil
}

// findContract looks up the deployment contract across compilations.
func (r *Runner) findContract(compilations []types.Compilation) (*types.Compilation, *types.CompiledContract, string, error) {
	name := r.config.Deployment.ContractName
	var lookupErr error
	for i := range compilations {
		contract, sourcePath, err := compilations[i].Contract(name)
		if err == nil {
			return &compilations[i], contract, sourcePath, nil
		}
		lookupErr = err
	}
	if lookupErr == nil {
		lookupErr = fmt.Errorf("compilation produced no contracts")
	}
	return nil, nil, "", fmt.Errorf("could not find contract '%s': %w", name, lookupErr)
}

// deployerAccount returns the configured deployer account, or a freshly generated one.
func (r *Runner) deployerAccount() (*chain.Account, error) {
	if r.config.Deployment.DeployerPrivateKey != "" {
		return chain.NewAccountFromHex(r.config.Deployment.DeployerPrivateKey)
	}
	return chain.NewRandomAccount()
}

// Run compiles the project, deploys the contract and executes every step in order. The first failing step aborts
// the run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	closeLogFile, err := r.openLogFile()
	if err != nil {
		r.logger.Error("Failed to create log file", err)
		return nil, err
	}
	defer closeLogFile()

	// Compile the project.
	compilations, compilationOutput, err := r.compile()
	if compilationOutput != "" {
		r.logger.Warn("Compiler output:\n", compilationOutput)
	}
	if err != nil {
		r.logger.Error("Failed to compile target", err)
		return nil, fmt.Errorf("%w: %w", ErrCompilationFailed, err)
	}

	compilation, contract, sourcePath, err := r.findContract(compilations)
	if err != nil {
		r.logger.Error("Failed to select the contract to deploy", err)
		return nil, err
	}
	if compilerVersion := contract.CompilerVersion(); compilerVersion != "" {
		r.logger.Debug("Selected contract ", colors.Bold, r.config.Deployment.ContractName, colors.Reset, " from ", sourcePath,
			" (compiled with solc ", compilerVersion, ")")
	} else {
		r.logger.Debug("Selected contract ", colors.Bold, r.config.Deployment.ContractName, colors.Reset, " from ", sourcePath)
	}

	// Start a chain funding the deployer.
	deployer, err := r.deployerAccount()
	if err != nil {
		return nil, err
	}
	testChain, err := chain.NewTestChainWithAccount(deployer, &r.config.Chain)
	if err != nil {
		r.logger.Error("Failed to create the test chain", err)
		return nil, err
	}
	defer testChain.Close()

	testChain.Events.TransactionMined.Subscribe(func(event chain.TransactionMinedEvent) error {
		r.logger.Debug("Mined ", event.Contract.Name, ".", event.Method, " in block ", event.Receipt.BlockNumber.String(),
			" (gas used: ", event.Receipt.GasUsed, ")")
		return nil
	})

	// Deploy the contract.
	constructorArgs, err := ConvertArguments(contract.Abi.Constructor.Inputs, r.config.Deployment.ConstructorArgs)
	if err != nil {
		err = fmt.Errorf("invalid constructor arguments for '%s': %w", r.config.Deployment.ContractName, err)
		r.logger.Error("Failed to deploy contract", err)
		return nil, err
	}
	deployed, err := testChain.DeployContract(ctx, deployer, r.config.Deployment.ContractName, contract, constructorArgs...)
	if err != nil {
		r.logger.Error("Failed to deploy contract", err)
		return nil, err
	}

	result := &Result{
		Compilation:     compilation,
		ContractAddress: deployed.Address,
		Outputs:         make([]string, 0),
	}

	// Execute the steps.
	for i, step := range r.config.Steps {
		if err = ctx.Err(); err != nil {
			return result, err
		}

		output, err := r.runStep(ctx, deployed, step)
		if err != nil {
			err = fmt.Errorf("step %d (%s %s) failed: %w", i+1, step.Kind, step.Method, err)
			r.logger.Error("Run aborted", err)
			return result, err
		}
		if step.Kind == config.StepKindCall {
			result.Outputs = append(result.Outputs, output)
			if _, err = fmt.Fprintln(r.stdout, output); err != nil {
				return result, err
			}
		}
	}

	if balance, err := testChain.BalanceOf(ctx, deployer.Address); err == nil {
		r.logger.Debug("Deployer ", deployer.Address.Hex(), " balance after run: ", utils.FormatEther(balance), " ETH")
	}
	return result, nil
}

// runStep executes a single step and returns the formatted output of call steps.
func (r *Runner) runStep(ctx context.Context, deployed *chain.DeployedContract, step config.Step) (string, error) {
	method, ok := deployed.Abi.Methods[step.Method]
	if !ok {
		return "", fmt.Errorf("contract '%s' has no method '%s'", deployed.Name, step.Method)
	}
	args, err := ConvertArguments(method.Inputs, step.Args)
	if err != nil {
		return "", err
	}

	switch step.Kind {
	case config.StepKindCall:
		results, err := deployed.Call(ctx, step.Method, args...)
		if err != nil {
			return "", err
		}
		return FormatValues(results), nil
	case config.StepKindTransact:
		receipt, err := deployed.Transact(ctx, step.Method, args...)
		if err != nil {
			return "", err
		}
		r.logger.Info("Called ", colors.Bold, step.Method, colors.Reset, " (tx ", receipt.TxHash.Hex(), ")")
		return "", nil
	default:
		return "", fmt.Errorf("unknown step kind '%s'", step.Kind)
	}
}
