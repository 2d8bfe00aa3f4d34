package cmd

import (
	"github.com/crytic/solsim/runner/config"
	"github.com/spf13/cobra"
)

// addInitFlags adds the various flags for the init command
func addInitFlags(cmd *cobra.Command) error {
	// Output path for configuration
	cmd.Flags().String("out", "", "output path for the new project configuration file")

	// Target file
	cmd.Flags().String("target", "", TargetFlagDescription)

	// Contract to deploy
	cmd.Flags().String("contract", "", "name of the contract to deploy")
	return nil
}

// updateProjectConfigWithInitFlags will update the given projectConfig with any CLI arguments that were provided to the init command
func updateProjectConfigWithInitFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	err := updateCompilationTarget(cmd, projectConfig)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("contract") {
		projectConfig.Deployment.ContractName, err = cmd.Flags().GetString("contract")
		if err != nil {
			return err
		}
	}
	return nil
}
