package exitcodes

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInnerErrorAndExitCode(t *testing.T) {
	err, code := GetInnerErrorAndExitCode(nil)
	assert.NoError(t, err)
	assert.Equal(t, ExitCodeSuccess, code)

	plain := errors.New("plain")
	err, code = GetInnerErrorAndExitCode(plain)
	assert.Equal(t, plain, err)
	assert.Equal(t, ExitCodeGeneralError, code)

	inner := errors.New("solc failed")
	err, code = GetInnerErrorAndExitCode(NewErrorWithExitCode(inner, ExitCodeCompilationFailed))
	assert.Equal(t, inner, err)
	assert.Equal(t, ExitCodeCompilationFailed, code)

	// Wrapped exit code errors are found too.
	err, code = GetInnerErrorAndExitCode(fmt.Errorf("run: %w", NewErrorWithExitCode(inner, ExitCodeHandledError)))
	assert.Equal(t, inner, err)
	assert.Equal(t, ExitCodeHandledError, code)

	assert.ErrorIs(t, NewErrorWithExitCode(inner, ExitCodeHandledError), inner)
	assert.Equal(t, "", NewErrorWithExitCode(nil, ExitCodeHandledError).Error())
}
