package cmd

import (
	"errors"
	"fmt"

	"github.com/crytic/solsim/runner/config"
	"github.com/spf13/cobra"
)

// addRunFlags adds the various flags for the run command
func addRunFlags(cmd *cobra.Command) error {
	// Get the default project config and throw an error if we cant
	defaultConfig, err := config.GetDefaultProjectConfig(DefaultCompilationPlatform)
	if err != nil {
		return err
	}

	// Prevent alphabetical sorting of usage message
	cmd.Flags().SortFlags = false

	// Config file
	cmd.Flags().String("config", "", fmt.Sprintf("path to config file (default is %s in the working directory, if present)", DefaultProjectConfigFilename))

	// Target
	cmd.Flags().String("target", "", TargetFlagDescription)

	// Contract to deploy
	cmd.Flags().String("contract", "",
		fmt.Sprintf("name of the contract to deploy (unless a config file is provided, default is %q)", defaultConfig.Deployment.ContractName))

	// Constructor arguments
	cmd.Flags().StringSlice("args", []string{},
		fmt.Sprintf("constructor arguments (unless a config file is provided, default is %v)", defaultConfig.Deployment.ConstructorArgs))

	// Initial balance
	cmd.Flags().String("balance", "",
		fmt.Sprintf("ether balance of the deployer account (unless a config file is provided, default is %s)", defaultConfig.Chain.InitialBalance))

	// Artifact cache
	cmd.Flags().String("cache-dir", "", "directory in which compiler output is cached between runs")
	cmd.Flags().Bool("no-cache", false, "disable the compiler output cache, even if a config file enables it")

	// Logging
	cmd.Flags().String("log-level", "",
		fmt.Sprintf("minimum level of log messages (unless a config file is provided, default is %s)", defaultConfig.Logging.Level))
	cmd.Flags().Bool("no-color", false, "disable colored console output")
	return nil
}

// updateProjectConfigWithRunFlags will update the given projectConfig with any CLI arguments that were provided to the
// run command
func updateProjectConfigWithRunFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update target if necessary
	err = updateCompilationTarget(cmd, projectConfig)
	if err != nil {
		return err
	}

	// Update contract name
	if cmd.Flags().Changed("contract") {
		projectConfig.Deployment.ContractName, err = cmd.Flags().GetString("contract")
		if err != nil {
			return err
		}
	}

	// Update constructor arguments
	if cmd.Flags().Changed("args") {
		projectConfig.Deployment.ConstructorArgs, err = cmd.Flags().GetStringSlice("args")
		if err != nil {
			return err
		}
	}

	// Update initial balance
	if cmd.Flags().Changed("balance") {
		projectConfig.Chain.InitialBalance, err = cmd.Flags().GetString("balance")
		if err != nil {
			return err
		}
	}

	// Update the cache directory. --no-cache takes precedence.
	if (cmd.Flags().Changed("cache-dir") || cmd.Flags().Changed("no-cache")) && projectConfig.Compilation == nil {
		return errors.New("cannot configure the artifact cache without a compilation config")
	}
	if cmd.Flags().Changed("cache-dir") {
		projectConfig.Compilation.CacheDirectory, err = cmd.Flags().GetString("cache-dir")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("no-cache") {
		noCache, err := cmd.Flags().GetBool("no-cache")
		if err != nil {
			return err
		}
		if noCache {
			projectConfig.Compilation.CacheDirectory = ""
		}
	}

	// Update logging
	if cmd.Flags().Changed("log-level") {
		levelStr, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}
		err = projectConfig.Logging.Level.UnmarshalText([]byte(levelStr))
		if err != nil {
			return fmt.Errorf("invalid log level '%s': %w", levelStr, err)
		}
	}
	if cmd.Flags().Changed("no-color") {
		projectConfig.Logging.NoColor, err = cmd.Flags().GetBool("no-color")
		if err != nil {
			return err
		}
	}
	return nil
}
