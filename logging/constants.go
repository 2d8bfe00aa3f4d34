package logging

// Values of the "module" field attached by each package's sub-logger.
const (
	// COMPILATION_SERVICE identifies the compilation packages.
	COMPILATION_SERVICE = "compilation"
	// CHAIN_SERVICE identifies the chain package.
	CHAIN_SERVICE = "chain"
	// RUNNER_SERVICE identifies the runner package.
	RUNNER_SERVICE = "runner"
	// CLI_SERVICE identifies the cmd package.
	CLI_SERVICE = "cli"
)
