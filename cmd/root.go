package cmd

import (
	"github.com/crytic/solsim/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cmdLogger is the logger used by the CLI before a project's logging configuration is applied.
var cmdLogger = logging.NewLogger(zerolog.InfoLevel, true).NewSubLogger("module", logging.CLI_SERVICE)

var rootCmd = &cobra.Command{
	Use:   "solsim",
	Short: "Compile, deploy and script a Solidity contract on a simulated chain",
	Long: "solsim compiles a Solidity contract, deploys it to an in-process simulated Ethereum chain and executes a " +
		"scripted sequence of calls against it, printing each result. Without a subcommand it behaves like \"run\".",
	Args:          cmdValidateRunArgs,
	RunE:          cmdRunRun,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// The root command runs the project, so it accepts the same flags as run.
	err := addRunFlags(rootCmd)
	if err != nil {
		cmdLogger.Panic("Failed to initialize the root command", err)
	}
}

func Execute() error {
	return rootCmd.Execute()
}
