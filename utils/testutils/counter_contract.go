// Package testutils provides fixtures shared by tests across packages.
package testutils

import (
	"fmt"

	"github.com/crytic/solsim/compilation/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/core/vm"
)

const (
	// CounterSourcePath is the source path CounterCompilation files the counter contract under.
	CounterSourcePath = "counter.sol"

	// CounterContractName is the name of the counter contract.
	CounterContractName = "Counter"
)

// CounterABI matches the ABI of the built-in demo contract, plus fail(), which always reverts.
const CounterABI = `[
	{"inputs":[{"internalType":"uint256","name":"_x","type":"uint256"}],"stateMutability":"nonpayable","type":"constructor"},
	{"inputs":[],"name":"x","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"_x","type":"uint256"}],"name":"changeX","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[],"name":"doubleX","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"fail","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

// selector returns the 4 byte function selector of signature.
func selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

// op concatenates opcodes and their immediate operands.
func op(parts ...any) []byte {
	var code []byte
	for _, part := range parts {
		switch p := part.(type) {
		case vm.OpCode:
			code = append(code, byte(p))
		case int:
			code = append(code, byte(p))
		case []byte:
			code = append(code, p...)
		default:
			panic(fmt.Sprintf("unsupported bytecode part %T", part))
		}
	}
	return code
}

// counterRuntimeBytecode assembles the runtime code: a selector dispatcher followed by one block per function.
// Storage slot 0 holds x. Unknown selectors, including fail(), revert.
func counterRuntimeBytecode() []byte {
	type function struct {
		signature string
		body      []byte
	}
	functions := []function{
		{"x()", op(vm.JUMPDEST, vm.PUSH1, 0, vm.SLOAD, vm.PUSH1, 0, vm.MSTORE, vm.PUSH1, 0x20, vm.PUSH1, 0, vm.RETURN)},
		{"changeX(uint256)", op(vm.JUMPDEST, vm.PUSH1, 4, vm.CALLDATALOAD, vm.PUSH1, 0, vm.SSTORE, vm.STOP)},
		{"doubleX()", op(vm.JUMPDEST, vm.PUSH1, 0, vm.SLOAD, vm.PUSH1, 2, vm.MUL, vm.PUSH1, 0, vm.MSTORE, vm.PUSH1, 0x20, vm.PUSH1, 0, vm.RETURN)},
	}

	header := op(vm.PUSH1, 0, vm.CALLDATALOAD, vm.PUSH1, 0xe0, vm.SHR)
	fallback := op(vm.PUSH1, 0, vm.DUP1, vm.REVERT)

	// Each dispatch entry is DUP1 PUSH4 <selector> EQ PUSH1 <dest> JUMPI.
	const entrySize = 10
	offset := len(header) + entrySize*len(functions) + len(fallback)

	dispatcher := header
	var bodies []byte
	for _, f := range functions {
		dispatcher = append(dispatcher, op(vm.DUP1, vm.PUSH4, selector(f.signature), vm.EQ, vm.PUSH1, offset, vm.JUMPI)...)
		bodies = append(bodies, f.body...)
		offset += len(f.body)
	}
	if offset > 0xff {
		panic("counter runtime bytecode exceeds PUSH1 range")
	}
	return append(append(dispatcher, fallback...), bodies...)
}

// counterInitBytecode assembles init code which stores the trailing 32 byte constructor argument in slot 0 and
// returns runtime.
func counterInitBytecode(runtime []byte) []byte {
	storeArg := op(
		vm.PUSH1, 0x20, vm.PUSH1, 0x20, vm.CODESIZE, vm.SUB, vm.PUSH1, 0, vm.CODECOPY,
		vm.PUSH1, 0, vm.MLOAD, vm.PUSH1, 0, vm.SSTORE,
	)
	// PUSH1 len PUSH1 off PUSH1 0 CODECOPY PUSH1 len PUSH1 0 RETURN
	const returnRuntimeSize = 12
	runtimeOffset := len(storeArg) + returnRuntimeSize

	returnRuntime := op(
		vm.PUSH1, len(runtime), vm.PUSH1, runtimeOffset, vm.PUSH1, 0, vm.CODECOPY,
		vm.PUSH1, len(runtime), vm.PUSH1, 0, vm.RETURN,
	)
	return append(append(storeArg, returnRuntime...), runtime...)
}

// CounterContract returns a compiled contract with the same interface as the built-in demo contract, assembled
// directly so tests do not need a Solidity compiler.
func CounterContract() *types.CompiledContract {
	contractAbi, err := types.ParseABIFromInterface(CounterABI)
	if err != nil {
		panic(err)
	}
	runtime := counterRuntimeBytecode()
	return &types.CompiledContract{
		Abi:             *contractAbi,
		InitBytecode:    counterInitBytecode(runtime),
		RuntimeBytecode: runtime,
	}
}

// CounterCompilation returns a compilation holding only CounterContract.
func CounterCompilation() *types.Compilation {
	compilation := types.NewCompilation()
	compilation.SourcePathToArtifact[CounterSourcePath] = types.SourceArtifact{
		Contracts: map[string]types.CompiledContract{
			CounterContractName: *CounterContract(),
		},
	}
	return compilation
}
