package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/exp/slices"
)

// CompiledContract represents a single contract unit from a smart contract compilation.
type CompiledContract struct {
	// Abi describes the contract's constructor, functions, events and errors.
	Abi abi.ABI

	// InitBytecode is the bytecode used to deploy the contract, before constructor arguments are appended.
	InitBytecode []byte

	// RuntimeBytecode is the code expected at the contract address once deployed. Immutables and constructor logic
	// can make the actual code differ.
	RuntimeBytecode []byte

	// SrcMapsInit is the source map for InitBytecode.
	SrcMapsInit string

	// SrcMapsRuntime is the source map for RuntimeBytecode.
	SrcMapsRuntime string
}

// ParseABIFromInterface parses a generic object into an abi.ABI and returns it, or an error if one occurs.
func ParseABIFromInterface(i any) (*abi.ABI, error) {
	var (
		result abi.ABI
		err    error
	)

	// If it's a string or raw JSON, just parse it. Otherwise, we assume it's an interface and serialize it first.
	switch t := i.(type) {
	case string:
		result, err = abi.JSON(strings.NewReader(t))
	case json.RawMessage:
		result, err = abi.JSON(strings.NewReader(string(t)))
	default:
		var b []byte
		b, err = json.Marshal(i)
		if err != nil {
			return nil, err
		}
		result, err = abi.JSON(strings.NewReader(string(b)))
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDeploymentMessageData returns the data for a contract creation transaction: the init bytecode followed by the
// ABI encoded constructor arguments.
func (c *CompiledContract) GetDeploymentMessageData(args []any) ([]byte, error) {
	initBytecodeWithArgs := slices.Clone(c.InitBytecode)
	if len(c.Abi.Constructor.Inputs) > 0 || len(args) > 0 {
		data, err := c.Abi.Pack("", args...)
		if err != nil {
			return nil, fmt.Errorf("could not encode constructor arguments due to error: %v", err)
		}
		initBytecodeWithArgs = append(initBytecodeWithArgs, data...)
	}
	return initBytecodeWithArgs, nil
}

// CompilerVersion returns the compiler version embedded in the runtime bytecode metadata, or the empty string if
// the bytecode carries none.
func (c *CompiledContract) CompilerVersion() string {
	metadata := ExtractContractMetadata(c.RuntimeBytecode)
	if metadata == nil {
		return ""
	}
	return metadata.ExtractCompilerVersion()
}
