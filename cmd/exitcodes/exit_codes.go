package exitcodes

const (
	// ================================
	// Platform-universal exit codes
	// ================================

	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// ================================
	// Application-specific exit codes
	// ================================
	// Note: Despite not being standardized, exit codes 2-5 are often used for common use cases, so we avoid them.

	// ExitCodeHandledError indicates that an error occurred during a run which was already logged. Note that an error
	// with error code ExitCodeGeneralError and ExitCodeHandledError are mutually exclusive errors
	ExitCodeHandledError = 6

	// ExitCodeCompilationFailed indicates the compilation target could not be compiled. The compiler diagnostics were
	// already logged.
	ExitCodeCompilationFailed = 8
)
