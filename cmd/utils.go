package cmd

import (
	"errors"

	"github.com/crytic/solsim/runner/config"
	"github.com/spf13/cobra"
)

// updateCompilationTarget will update the compilation target in the projectConfig if the --target flag is used in the
// command
func updateCompilationTarget(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	if !cmd.Flags().Changed("target") {
		return nil
	}
	if projectConfig.Compilation == nil {
		return errors.New("cannot set a target without a compilation config")
	}

	newTarget, err := cmd.Flags().GetString("target")
	if err != nil {
		return err
	}
	return projectConfig.Compilation.SetTarget(newTarget)
}
