package runner

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// FormatValue renders a decoded ABI value for output: integers in decimal, addresses checksummed, byte values as
// 0x prefixed hex and arrays as a bracketed, comma separated list.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "<nil>"
	case *big.Int:
		return v.String()
	case common.Address:
		return v.Hex()
	case []byte:
		return hexutil.Encode(v)
	case string:
		return v
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Array:
		// Fixed size byte arrays are bytesN values.
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hexutil.Encode(b)
		}
		return formatList(rv)
	case reflect.Slice:
		return formatList(rv)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// FormatValues renders every value with FormatValue, separated by spaces.
func FormatValues(values []any) string {
	formatted := make([]string, len(values))
	for i, value := range values {
		formatted[i] = FormatValue(value)
	}
	return strings.Join(formatted, " ")
}

// formatList renders the elements of an array or slice.
func formatList(rv reflect.Value) string {
	elements := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elements[i] = FormatValue(rv.Index(i).Interface())
	}
	return "[" + strings.Join(elements, ", ") + "]"
}
