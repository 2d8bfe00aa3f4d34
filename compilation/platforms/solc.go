package platforms

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/crytic/solsim/compilation/cache"
	"github.com/crytic/solsim/compilation/types"
	"github.com/crytic/solsim/logging"
	"github.com/crytic/solsim/logging/colors"
	"github.com/crytic/solsim/utils"
)

// SolcCompilationConfig compiles a single Solidity source through the compiler's standard JSON interface. The
// source is either the file named by Target or, when Target is empty, the inline Source text.
type SolcCompilationConfig struct {
	// Target is the path of a Solidity file to compile. When empty, Source is compiled instead.
	Target string `json:"target"`

	// Source is inline Solidity source text, used only when Target is empty.
	Source string `json:"source,omitempty"`

	// SourceName is the file name inline Source is presented to the compiler under.
	SourceName string `json:"sourceName,omitempty"`

	// SolcPath is the compiler executable. Empty means DefaultSolcPath.
	SolcPath string `json:"solcPath,omitempty"`

	// Optimizer configures the compiler's optimizer.
	Optimizer SolcOptimizerConfig `json:"optimizer"`

	// EVMVersion selects the EVM version the compiler targets. Empty means the compiler default.
	EVMVersion string `json:"evmVersion,omitempty"`

	// artifactCache, if set, is consulted before invoking the compiler.
	artifactCache *cache.ArtifactCache
}

// SolcOptimizerConfig mirrors the optimizer section of the compiler's standard JSON settings.
type SolcOptimizerConfig struct {
	Enabled bool   `json:"enabled"`
	Runs    uint64 `json:"runs"`
}

// NewSolcCompilationConfig returns a config compiling the file at target, or DefaultContractSource when target is
// empty.
func NewSolcCompilationConfig(target string) *SolcCompilationConfig {
	config := &SolcCompilationConfig{
		Target:     target,
		SourceName: DefaultSourceName,
		Optimizer: SolcOptimizerConfig{
			Enabled: false,
			Runs:    200,
		},
	}
	if target == "" {
		config.Source = DefaultContractSource
	}
	return config
}

func (s *SolcCompilationConfig) Platform() string {
	return "solc"
}

// GetTarget returns the target for compilation
func (s *SolcCompilationConfig) GetTarget() string {
	return s.Target
}

// SetTarget sets the new target for compilation
func (s *SolcCompilationConfig) SetTarget(newTarget string) {
	s.Target = newTarget
}

// SetArtifactCache sets the artifact cache used by Compile.
func (s *SolcCompilationConfig) SetArtifactCache(c *cache.ArtifactCache) {
	s.artifactCache = c
}

// solcStandardInput is the compiler input object of the standard JSON interface.
type solcStandardInput struct {
	Language string                     `json:"language"`
	Sources  map[string]solcSourceInput `json:"sources"`
	Settings solcSettings               `json:"settings"`
}

type solcSourceInput struct {
	Content string `json:"content"`
}

type solcSettings struct {
	Optimizer       SolcOptimizerConfig            `json:"optimizer"`
	EVMVersion      string                         `json:"evmVersion,omitempty"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

// solcStandardOutput is the subset of the standard JSON compiler output that is used.
type solcStandardOutput struct {
	Errors    []SolcDiagnostic                         `json:"errors"`
	Sources   map[string]solcSourceOutput              `json:"sources"`
	Contracts map[string]map[string]solcContractOutput `json:"contracts"`
}

type solcSourceOutput struct {
	ID  int `json:"id"`
	AST any `json:"ast"`
}

type solcContractOutput struct {
	ABI json.RawMessage `json:"abi"`
	EVM struct {
		Bytecode         solcBytecodeOutput `json:"bytecode"`
		DeployedBytecode solcBytecodeOutput `json:"deployedBytecode"`
	} `json:"evm"`
}

type solcBytecodeOutput struct {
	Object    string `json:"object"`
	SourceMap string `json:"sourceMap"`
}

// SolcDiagnostic is an error or warning reported by the compiler.
type SolcDiagnostic struct {
	Severity         string `json:"severity"`
	Type             string `json:"type"`
	Component        string `json:"component"`
	ErrorCode        string `json:"errorCode"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage"`
}

// String returns the compiler's own formatting of the diagnostic when available.
func (d SolcDiagnostic) String() string {
	if d.FormattedMessage != "" {
		return strings.TrimSpace(d.FormattedMessage)
	}
	return fmt.Sprintf("%s: %s", d.Type, d.Message)
}

// CompilationError is returned when the compiler reports one or more diagnostics of severity "error".
type CompilationError struct {
	Diagnostics []SolcDiagnostic
}

func (e *CompilationError) Error() string {
	messages := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		messages[i] = d.String()
	}
	return fmt.Sprintf("compilation failed with %d error(s):\n%s", len(e.Diagnostics), strings.Join(messages, "\n"))
}

// sourceContent returns the source name and text to compile, along with the directory imports resolve against.
func (s *SolcCompilationConfig) sourceContent() (string, string, string, error) {
	if s.Target != "" {
		b, err := os.ReadFile(s.Target)
		if err != nil {
			return "", "", "", fmt.Errorf("could not read compilation target: %w", err)
		}
		return filepath.Base(s.Target), string(b), filepath.Dir(s.Target), nil
	}

	if strings.TrimSpace(s.Source) == "" {
		return "", "", "", fmt.Errorf("solc compilation requires either a target file or inline source")
	}
	sourceName := s.SourceName
	if sourceName == "" {
		sourceName = DefaultSourceName
	}
	return sourceName, s.Source, "", nil
}

// BuildStandardInput returns the compiler input object for the configured source.
func (s *SolcCompilationConfig) BuildStandardInput() ([]byte, error) {
	sourceName, content, _, err := s.sourceContent()
	if err != nil {
		return nil, err
	}
	return s.buildStandardInput(sourceName, content)
}

func (s *SolcCompilationConfig) buildStandardInput(sourceName string, content string) ([]byte, error) {
	input := solcStandardInput{
		Language: "Solidity",
		Sources: map[string]solcSourceInput{
			sourceName: {Content: content},
		},
		Settings: solcSettings{
			Optimizer:  s.Optimizer,
			EVMVersion: s.EVMVersion,
			OutputSelection: map[string]map[string][]string{
				"*": {
					"*": {"*"},
					"":  {"ast"},
				},
			},
		},
	}
	return json.Marshal(input)
}

func (s *SolcCompilationConfig) Compile() ([]types.Compilation, string, error) {
	logger := logging.GlobalLogger.NewSubLogger("module", logging.COMPILATION_SERVICE)

	sourceName, content, baseDirectory, err := s.sourceContent()
	if err != nil {
		return nil, "", err
	}

	solcPath := s.SolcPath
	if solcPath == "" {
		solcPath = DefaultSolcPath
	}
	v, err := GetSystemSolcVersion(solcPath)
	if err != nil {
		return nil, "", err
	}
	if err = CheckPragmaCompatibility(content, v); err != nil {
		return nil, "", err
	}

	input, err := s.buildStandardInput(sourceName, content)
	if err != nil {
		return nil, "", err
	}

	// Reuse a previous compiler output for the same compiler version and input if we have one.
	var (
		output   []byte
		cacheKey = cache.Key(v.String(), input)
		cacheHit bool
	)
	if s.artifactCache != nil {
		output, cacheHit, err = s.artifactCache.Get(cacheKey)
		if err != nil {
			return nil, "", err
		}
	}

	if cacheHit {
		logger.Debug("Reusing cached compiler output for ", colors.Bold, sourceName, colors.Reset)
	} else {
		logger.Info("Compiling ", colors.Bold, sourceName, colors.Reset, " with solc ", v.String())

		// File targets resolve their imports relative to their own directory.
		args := []string{"--standard-json"}
		if baseDirectory != "" {
			args = append(args, "--base-path", ".")
		}
		cmd := exec.Command(solcPath, args...)
		cmd.Dir = baseDirectory
		cmd.Stdin = bytes.NewReader(input)

		var cmdCombined []byte
		output, _, cmdCombined, err = utils.RunCommandWithOutputAndError(cmd)
		if err != nil {
			return nil, string(cmdCombined), fmt.Errorf("error while executing solc:\n%s\n\nCommand Output:\n%s\n", err.Error(), string(cmdCombined))
		}
	}

	compilation, warnings, err := ParseStandardOutput(output)
	if err != nil {
		return nil, warnings, err
	}

	if s.artifactCache != nil && !cacheHit {
		if err = s.artifactCache.Put(cacheKey, output); err != nil {
			logger.Warn("Failed to store compiler output in the artifact cache", err)
		}
	}
	return []types.Compilation{*compilation}, warnings, nil
}

// ParseStandardOutput converts standard JSON compiler output into a Compilation. Warnings and other non-fatal
// diagnostics are returned as text. If the compiler reported errors, a *CompilationError is returned.
func ParseStandardOutput(output []byte) (*types.Compilation, string, error) {
	var results solcStandardOutput
	if err := json.Unmarshal(output, &results); err != nil {
		return nil, "", fmt.Errorf("could not parse solc output: %w", err)
	}

	var (
		failures []SolcDiagnostic
		notices  []string
	)
	for _, diagnostic := range results.Errors {
		if diagnostic.Severity == "error" {
			failures = append(failures, diagnostic)
		} else {
			notices = append(notices, diagnostic.String())
		}
	}
	warnings := strings.Join(notices, "\n")
	if len(failures) > 0 {
		return nil, warnings, &CompilationError{Diagnostics: failures}
	}

	compilation := types.NewCompilation()
	for sourcePath, source := range results.Sources {
		compilation.SourcePathToArtifact[sourcePath] = types.SourceArtifact{
			Ast:       source.AST,
			Contracts: make(map[string]types.CompiledContract),
		}
	}

	// Iterate deterministically so errors are reproducible.
	sourcePaths := make([]string, 0, len(results.Contracts))
	for sourcePath := range results.Contracts {
		sourcePaths = append(sourcePaths, sourcePath)
	}
	sort.Strings(sourcePaths)

	for _, sourcePath := range sourcePaths {
		artifact, ok := compilation.SourcePathToArtifact[sourcePath]
		if !ok {
			artifact = types.SourceArtifact{Contracts: make(map[string]types.CompiledContract)}
			compilation.SourcePathToArtifact[sourcePath] = artifact
		}

		for contractName, contract := range results.Contracts[sourcePath] {
			contractAbi, err := types.ParseABIFromInterface(contract.ABI)
			if err != nil {
				return nil, warnings, fmt.Errorf("unable to parse ABI for contract '%s': %w", contractName, err)
			}

			initBytecode, err := decodeBytecode(contract.EVM.Bytecode.Object)
			if err != nil {
				return nil, warnings, fmt.Errorf("unable to parse init bytecode for contract '%s': %w", contractName, err)
			}
			runtimeBytecode, err := decodeBytecode(contract.EVM.DeployedBytecode.Object)
			if err != nil {
				return nil, warnings, fmt.Errorf("unable to parse runtime bytecode for contract '%s': %w", contractName, err)
			}

			artifact.Contracts[contractName] = types.CompiledContract{
				Abi:             *contractAbi,
				InitBytecode:    initBytecode,
				RuntimeBytecode: runtimeBytecode,
				SrcMapsInit:     contract.EVM.Bytecode.SourceMap,
				SrcMapsRuntime:  contract.EVM.DeployedBytecode.SourceMap,
			}
		}
	}
	return compilation, warnings, nil
}

// decodeBytecode decodes a hex bytecode object. Unlinked library placeholders are reported as errors because
// linking is not supported.
func decodeBytecode(object string) ([]byte, error) {
	object = strings.TrimPrefix(object, "0x")
	if strings.Contains(object, "__") {
		return nil, fmt.Errorf("bytecode contains unlinked library references")
	}
	return hex.DecodeString(object)
}
