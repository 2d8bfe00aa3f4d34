package chain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransactionReverted is returned when a transaction, including a contract deployment, reverts.
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrCallReverted is returned when a read-only call reverts.
	ErrCallReverted = errors.New("call reverted")
)

// executionRevertedMessage is the message the execution layer reports for reverted execution, whether during gas
// estimation or a call.
const executionRevertedMessage = "execution reverted"

// classifyRevert wraps err with sentinel if it reports reverted execution, and returns it unchanged otherwise.
func classifyRevert(err error, sentinel error) error {
	if err == nil || !strings.Contains(err.Error(), executionRevertedMessage) {
		return err
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
