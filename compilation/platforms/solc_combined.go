package platforms

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/crytic/solsim/compilation/types"
	"github.com/crytic/solsim/logging"
	"github.com/crytic/solsim/logging/colors"
	"github.com/crytic/solsim/utils"
	"github.com/ethereum/go-ethereum/common/compiler"
)

// SolcCombinedCompilationConfig compiles a Solidity file with the compiler's --combined-json output mode. It
// supports compiler versions that predate the standard JSON interface.
type SolcCombinedCompilationConfig struct {
	// Target is the path of the Solidity file to compile.
	Target string `json:"target"`

	// SolcPath is the compiler executable. Empty means DefaultSolcPath.
	SolcPath string `json:"solcPath,omitempty"`
}

func NewSolcCombinedCompilationConfig(target string) *SolcCombinedCompilationConfig {
	return &SolcCombinedCompilationConfig{
		Target: target,
	}
}

func (s *SolcCombinedCompilationConfig) Platform() string {
	return "solc-combined"
}

// GetTarget returns the target for compilation
func (s *SolcCombinedCompilationConfig) GetTarget() string {
	return s.Target
}

// SetTarget sets the new target for compilation
func (s *SolcCombinedCompilationConfig) SetTarget(newTarget string) {
	s.Target = newTarget
}

// CombinedOutputOptions returns the --combined-json fields supported by solc version v.
func CombinedOutputOptions(v *semver.Version) string {
	// compact-format exists from 0.4.12 up to and including 0.8.9.
	useCompactFormat := (v.Major() == 0 && v.Minor() == 4 && v.Patch() >= 12) ||
		(v.Major() == 0 && v.Minor() >= 5 && v.Minor() <= 7) ||
		(v.Major() == 0 && v.Minor() == 8 && v.Patch() <= 9)

	// hashes is missing before 0.4.12 and in the 0.3 series.
	if (v.Major() == 0 && v.Minor() == 4 && v.Patch() <= 11) || (v.Major() == 0 && v.Minor() <= 3) {
		return "abi,ast,bin,bin-runtime,srcmap,srcmap-runtime,userdoc,devdoc"
	} else if useCompactFormat {
		return "abi,ast,bin,bin-runtime,srcmap,srcmap-runtime,userdoc,devdoc,hashes,compact-format"
	}
	return "abi,ast,bin,bin-runtime,srcmap,srcmap-runtime,userdoc,devdoc,hashes"
}

func (s *SolcCombinedCompilationConfig) Compile() ([]types.Compilation, string, error) {
	if s.Target == "" {
		return nil, "", fmt.Errorf("the solc-combined platform requires a target file")
	}
	logger := logging.GlobalLogger.NewSubLogger("module", logging.COMPILATION_SERVICE)

	solcPath := s.SolcPath
	if solcPath == "" {
		solcPath = DefaultSolcPath
	}
	v, err := GetSystemSolcVersion(solcPath)
	if err != nil {
		return nil, "", err
	}

	logger.Info("Compiling ", colors.Bold, s.Target, colors.Reset, " with solc ", v.String(), " (combined JSON)")
	cmd := exec.Command(solcPath, s.Target, "--combined-json", CombinedOutputOptions(v))
	cmdStdout, cmdStderr, cmdCombined, err := utils.RunCommandWithOutputAndError(cmd)
	if err != nil {
		return nil, string(cmdCombined), fmt.Errorf("error while executing solc:\n%s\n\nCommand Output:\n%s\n", err.Error(), string(cmdCombined))
	}

	compilation, err := ParseCombinedOutput(cmdStdout, v)
	if err != nil {
		return nil, string(cmdStderr), err
	}
	return []types.Compilation{*compilation}, string(cmdStderr), nil
}

// ParseCombinedOutput converts --combined-json compiler output into a Compilation.
func ParseCombinedOutput(output []byte, v *semver.Version) (*types.Compilation, error) {
	var results struct {
		Sources map[string]struct {
			AST any `json:"AST"`
		} `json:"sources"`
	}
	if err := json.Unmarshal(output, &results); err != nil {
		return nil, err
	}

	compilation := types.NewCompilation()
	for sourcePath, source := range results.Sources {
		compilation.SourcePathToArtifact[sourcePath] = types.SourceArtifact{
			Ast:       source.AST,
			Contracts: make(map[string]types.CompiledContract),
		}
	}

	contracts, err := compiler.ParseCombinedJSON(output, "", v.String(), v.String(), "")
	if err != nil {
		return nil, err
	}

	for name, contract := range contracts {
		// Names have the form "path:contract"; the path may itself contain colons.
		nameSplit := strings.Split(name, ":")
		sourcePath := strings.Join(nameSplit[0:len(nameSplit)-1], ":")
		contractName := nameSplit[len(nameSplit)-1]

		contractAbi, err := types.ParseABIFromInterface(contract.Info.AbiDefinition)
		if err != nil {
			return nil, fmt.Errorf("unable to parse ABI for contract '%s': %w", contractName, err)
		}

		initBytecode, err := decodeBytecode(contract.Code)
		if err != nil {
			return nil, fmt.Errorf("unable to parse init bytecode for contract '%s': %w", contractName, err)
		}
		runtimeBytecode, err := decodeBytecode(contract.RuntimeCode)
		if err != nil {
			return nil, fmt.Errorf("unable to parse runtime bytecode for contract '%s': %w", contractName, err)
		}

		artifact, ok := compilation.SourcePathToArtifact[sourcePath]
		if !ok {
			artifact = types.SourceArtifact{Contracts: make(map[string]types.CompiledContract)}
			compilation.SourcePathToArtifact[sourcePath] = artifact
		}

		srcMapInit, _ := contract.Info.SrcMap.(string)
		artifact.Contracts[contractName] = types.CompiledContract{
			Abi:             *contractAbi,
			InitBytecode:    initBytecode,
			RuntimeBytecode: runtimeBytecode,
			SrcMapsInit:     srcMapInit,
			SrcMapsRuntime:  contract.Info.SrcMapRuntime,
		}
	}
	return compilation, nil
}
