package cmd

import "github.com/crytic/solsim/compilation"

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = "solsim.json"

// DefaultCompilationPlatform describes the default compilation platform to use if one is not provided
const DefaultCompilationPlatform = compilation.DefaultPlatform

// TargetFlagDescription describes the --target flag shared by several commands.
const TargetFlagDescription = "Solidity file to compile (default is the built-in demo contract)"
