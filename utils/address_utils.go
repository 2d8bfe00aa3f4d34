package utils

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// HexStringToAddress converts a hex string, with or without the "0x" prefix, to a common.Address. Unlike
// common.HexToAddress it rejects malformed input instead of silently truncating or zero-filling it.
func HexStringToAddress(s string) (*common.Address, error) {
	prefixed := s
	if !strings.HasPrefix(prefixed, "0x") && !strings.HasPrefix(prefixed, "0X") {
		prefixed = "0x" + prefixed
	}
	if !common.IsHexAddress(prefixed) {
		return nil, fmt.Errorf("'%s' is not a valid 20 byte hex address", s)
	}
	address := common.HexToAddress(prefixed)
	return &address, nil
}
