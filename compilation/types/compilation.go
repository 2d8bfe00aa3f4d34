package types

import (
	"fmt"
	"sort"
	"strings"
)

// Compilation represents the artifacts of a smart contract compilation.
type Compilation struct {
	// SourcePathToArtifact maps each compiled source path (or synthetic source name for inline sources) to the
	// artifacts produced for it.
	SourcePathToArtifact map[string]SourceArtifact
}

// NewCompilation returns a new, empty Compilation object.
func NewCompilation() *Compilation {
	return &Compilation{
		SourcePathToArtifact: make(map[string]SourceArtifact),
	}
}

// ContractNames returns the names of all contracts in the compilation, sorted, in "source:name" form.
func (c *Compilation) ContractNames() []string {
	names := make([]string, 0)
	for sourcePath, source := range c.SourcePathToArtifact {
		for contractName := range source.Contracts {
			names = append(names, sourcePath+":"+contractName)
		}
	}
	sort.Strings(names)
	return names
}

// Contract looks up a compiled contract by name. The name is either a bare contract name, which must be unique
// across all sources, or a fully qualified "source:name". Returns the contract and the source path it came from.
func (c *Compilation) Contract(name string) (*CompiledContract, string, error) {
	// A qualified name splits on the last colon, since source paths may contain colons on Windows.
	if idx := strings.LastIndex(name, ":"); idx != -1 {
		sourcePath, contractName := name[:idx], name[idx+1:]
		source, ok := c.SourcePathToArtifact[sourcePath]
		if !ok {
			return nil, "", fmt.Errorf("source '%s' is not part of the compilation", sourcePath)
		}
		contract, ok := source.Contracts[contractName]
		if !ok {
			return nil, "", fmt.Errorf("contract '%s' was not found in source '%s'", contractName, sourcePath)
		}
		return &contract, sourcePath, nil
	}

	var (
		found      *CompiledContract
		foundPath  string
		candidates []string
	)
	for sourcePath, source := range c.SourcePathToArtifact {
		if contract, ok := source.Contracts[name]; ok {
			contract := contract
			found, foundPath = &contract, sourcePath
			candidates = append(candidates, sourcePath+":"+name)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, "", fmt.Errorf("contract '%s' was not found in the compilation (available: %s)", name, strings.Join(c.ContractNames(), ", "))
	case 1:
		return found, foundPath, nil
	default:
		sort.Strings(candidates)
		return nil, "", fmt.Errorf("contract name '%s' is ambiguous, qualify it as one of: %s", name, strings.Join(candidates, ", "))
	}
}
