package runner

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/crytic/solsim/utils"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"
)

// ConvertArguments converts string arguments to the Go values the ABI encoder expects for inputs.
func ConvertArguments(inputs abi.Arguments, args []string) ([]any, error) {
	if len(inputs) != len(args) {
		return nil, fmt.Errorf("expected %d argument(s) but got %d", len(inputs), len(args))
	}

	values := make([]any, len(args))
	for i, input := range inputs {
		value, err := ConvertArgument(input.Type, args[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = strconv.Itoa(i)
			}
			return nil, fmt.Errorf("invalid value for argument '%s' (%s): %w", name, input.Type.String(), err)
		}
		values[i] = value
	}
	return values, nil
}

// ConvertArgument converts s to the Go value the ABI encoder expects for typ. Integers accept decimal or 0x
// prefixed hex, byte types accept hex with or without the 0x prefix.
func ConvertArgument(typ abi.Type, s string) (any, error) {
	s = strings.TrimSpace(s)
	switch typ.T {
	case abi.UintTy:
		return convertUnsigned(typ.Size, s)
	case abi.IntTy:
		return convertSigned(typ.Size, s)
	case abi.BoolTy:
		return strconv.ParseBool(s)
	case abi.AddressTy:
		address, err := utils.HexStringToAddress(s)
		if err != nil {
			return nil, err
		}
		return *address, nil
	case abi.StringTy:
		return s, nil
	case abi.BytesTy:
		return decodeHex(s)
	case abi.FixedBytesTy:
		b, err := decodeHex(s)
		if err != nil {
			return nil, err
		}
		if len(b) > typ.Size {
			return nil, fmt.Errorf("%d bytes do not fit in bytes%d", len(b), typ.Size)
		}
		// Shorter values are right padded, as Solidity does for bytesN literals.
		array := reflect.New(typ.GetType()).Elem()
		reflect.Copy(array, reflect.ValueOf(b))
		return array.Interface(), nil
	default:
		return nil, fmt.Errorf("arguments of type %s are not supported", typ.String())
	}
}

// parseMagnitude parses an unsigned integer given in decimal or as 0x prefixed hex. Signs, other radix prefixes
// and digit separators are rejected.
func parseMagnitude(s string) (*big.Int, error) {
	var (
		value *uint256.Int
		err   error
	)
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		// FromHex rejects leading zeros.
		digits := strings.TrimLeft(s[2:], "0")
		if digits == "" && len(s) > 2 {
			digits = "0"
		}
		value, err = uint256.FromHex("0x" + digits)
	case strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-"):
		err = fmt.Errorf("unexpected sign")
	default:
		value, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return nil, err
	}
	return value.ToBig(), nil
}

// convertUnsigned parses an unsigned integer of the given bit size.
func convertUnsigned(size int, s string) (any, error) {
	b, err := parseMagnitude(s)
	if err != nil {
		return nil, fmt.Errorf("'%s' is not an unsigned integer: %w", s, err)
	}
	if !utils.IsIntegerInBounds(b, false, size) {
		return nil, fmt.Errorf("%s is out of range for uint%d", b.String(), size)
	}

	switch size {
	case 8:
		return uint8(b.Uint64()), nil
	case 16:
		return uint16(b.Uint64()), nil
	case 32:
		return uint32(b.Uint64()), nil
	case 64:
		return b.Uint64(), nil
	default:
		return b, nil
	}
}

// convertSigned parses a signed integer of the given bit size: an optional minus sign followed by the same syntax
// convertUnsigned accepts.
func convertSigned(size int, s string) (any, error) {
	negative := strings.HasPrefix(s, "-")
	b, err := parseMagnitude(strings.TrimPrefix(s, "-"))
	if err != nil {
		return nil, fmt.Errorf("'%s' is not an integer: %w", s, err)
	}
	if negative {
		b.Neg(b)
	}
	if !utils.IsIntegerInBounds(b, true, size) {
		return nil, fmt.Errorf("%s is out of range for int%d", b.String(), size)
	}

	switch size {
	case 8:
		return int8(b.Int64()), nil
	case 16:
		return int16(b.Int64()), nil
	case 32:
		return int32(b.Int64()), nil
	case 64:
		return b.Int64(), nil
	default:
		return b, nil
	}
}

// decodeHex decodes hex with an optional 0x prefix.
func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil {
		return nil, fmt.Errorf("'%s' is not valid hex: %w", s, err)
	}
	return b, nil
}
