package config

import (
	chainConfig "github.com/crytic/solsim/chain/config"
	"github.com/crytic/solsim/compilation"
	"github.com/crytic/solsim/compilation/platforms"
	"github.com/rs/zerolog"
)

// GetDefaultProjectConfig obtains the built-in demo project: the default contract is deployed with x = 5, x is
// read, changed to 7 and read again, then doubled. The compilation config uses the provided platform, or is nil if
// an empty string is provided.
func GetDefaultProjectConfig(platform string) (*ProjectConfig, error) {
	var (
		compilationConfig *compilation.CompilationConfig
		err               error
	)
	if platform != "" {
		compilationConfig, err = compilation.NewCompilationConfig(platform)
		if err != nil {
			return nil, err
		}
	}

	testChainConfig, err := chainConfig.DefaultTestChainConfig()
	if err != nil {
		return nil, err
	}

	projectConfig := &ProjectConfig{
		Compilation: compilationConfig,
		Chain:       *testChainConfig,
		Deployment: DeploymentConfig{
			ContractName:    platforms.DefaultContractName,
			ConstructorArgs: []string{"5"},
		},
		Steps: []Step{
			{Kind: StepKindCall, Method: "x"},
			{Kind: StepKindTransact, Method: "changeX", Args: []string{"7"}},
			{Kind: StepKindCall, Method: "x"},
			{Kind: StepKindCall, Method: "doubleX"},
		},
		Logging: LoggingConfig{
			Level:        zerolog.InfoLevel,
			NoColor:      false,
			LogDirectory: "",
		},
	}
	return projectConfig, nil
}
