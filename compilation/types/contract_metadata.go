package types

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor"
)

// ContractMetadata is the CBOR-encoded map the Solidity compiler appends to runtime bytecode (unless told not to).
// Reference: https://docs.soliditylang.org/en/v0.8.16/metadata.html
type ContractMetadata map[string]any

// byteCodeHashMetadataKeys are the keys under which ContractMetadata can hold a hash of the source metadata.
var byteCodeHashMetadataKeys = [...]string{
	"ipfs",
	"bzzr1",
	"bzzr0",
}

// ExtractContractMetadata decodes the metadata appended to bytecode. The final two bytes of the bytecode hold the
// big-endian length of the CBOR payload that precedes them. Returns nil if no metadata could be decoded.
func ExtractContractMetadata(bytecode []byte) *ContractMetadata {
	if len(bytecode) < 2 {
		return nil
	}
	metadataLength := int(binary.BigEndian.Uint16(bytecode[len(bytecode)-2:]))
	if metadataLength == 0 || metadataLength > len(bytecode)-2 {
		return nil
	}

	encoded := bytecode[len(bytecode)-2-metadataLength : len(bytecode)-2]
	var metadata ContractMetadata
	if err := cbor.Unmarshal(encoded, &metadata); err != nil || len(metadata) == 0 {
		return nil
	}
	return &metadata
}

// RemoveContractMetadata returns bytecode with any trailing contract metadata (and its length suffix) removed.
// Bytecode without decodable metadata is returned as-is.
func RemoveContractMetadata(bytecode []byte) []byte {
	if ExtractContractMetadata(bytecode) == nil {
		return bytecode
	}
	metadataLength := int(binary.BigEndian.Uint16(bytecode[len(bytecode)-2:]))
	return bytecode[:len(bytecode)-2-metadataLength]
}

// ExtractBytecodeHash returns the metadata hash stored in m, or nil if there is none.
func (m ContractMetadata) ExtractBytecodeHash() []byte {
	for _, possibleMetadataKey := range byteCodeHashMetadataKeys {
		if bytecodeHashData, keyExists := m[possibleMetadataKey]; keyExists {
			if bytecodeHash, ok := bytecodeHashData.([]byte); ok {
				return bytecodeHash
			}
		}
	}
	return nil
}

// ExtractCompilerVersion returns the solc version recorded in m. Release builds store it as three bytes
// (major, minor, patch); prerelease builds store a string. Returns the empty string if absent.
func (m ContractMetadata) ExtractCompilerVersion() string {
	switch v := m["solc"].(type) {
	case []byte:
		if len(v) == 3 {
			return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
		}
	case string:
		return v
	}
	return ""
}
