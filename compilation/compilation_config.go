package compilation

import (
	"encoding/json"
	"fmt"

	"github.com/crytic/solsim/compilation/cache"
	"github.com/crytic/solsim/compilation/platforms"
	"github.com/crytic/solsim/compilation/types"
	"github.com/crytic/solsim/logging"
)

// DefaultPlatform is the platform used when none is specified.
const DefaultPlatform = "solc"

// CompilationConfig describes the configuration options used to compile a smart contract
// target.
type CompilationConfig struct {
	// Platform references an identifier indicating which compilation platform to use.
	// PlatformConfig is a structure dependent on the defined Platform.
	Platform string `json:"platform"`

	// PlatformConfig describes the Platform-specific configuration needed to compile.
	PlatformConfig *json.RawMessage `json:"platformConfig"`

	// CacheDirectory is a directory holding an artifact cache of compiler output. Empty disables caching.
	CacheDirectory string `json:"cacheDirectory,omitempty"`
}

// NewCompilationConfig returns a CompilationConfig with default values for a given platform identifier.
// If an error occurs, it is returned instead.
func NewCompilationConfig(platform string) (*CompilationConfig, error) {
	if !IsSupportedCompilationPlatform(platform) {
		return nil, fmt.Errorf("could not get default compilation configs: platform '%s' is unsupported", platform)
	}
	return NewCompilationConfigFromPlatformConfig(GetDefaultPlatformConfig(platform))
}

// NewCompilationConfigFromPlatformConfig takes a platforms.PlatformConfig and wraps it in a generic
// CompilationConfig. This allows many platform config types to be serialized/deserialized to their appropriate
// types and supported generally.
func NewCompilationConfigFromPlatformConfig(platformConfig platforms.PlatformConfig) (*CompilationConfig, error) {
	b, err := json.Marshal(platformConfig)
	if err != nil {
		return nil, err
	}
	platformConfigMsg := (*json.RawMessage)(&b)
	return &CompilationConfig{Platform: platformConfig.Platform(), PlatformConfig: platformConfigMsg}, nil
}

// GetPlatformConfig deserializes the inner platforms.PlatformConfig over the defaults of the configured platform.
func (c *CompilationConfig) GetPlatformConfig() (platforms.PlatformConfig, error) {
	if !IsSupportedCompilationPlatform(c.Platform) {
		return nil, fmt.Errorf("platform '%s' is unsupported", c.Platform)
	}

	// json.Unmarshal needs a concrete structure to populate, so start from the platform defaults.
	platformConfig := GetDefaultPlatformConfig(c.Platform)
	if c.PlatformConfig != nil {
		if err := json.Unmarshal(*c.PlatformConfig, platformConfig); err != nil {
			return nil, fmt.Errorf("could not parse '%s' platform config: %w", c.Platform, err)
		}
	}
	return platformConfig, nil
}

// SetTarget updates the target of the inner platform config.
func (c *CompilationConfig) SetTarget(newTarget string) error {
	platformConfig, err := c.GetPlatformConfig()
	if err != nil {
		return err
	}
	platformConfig.SetTarget(newTarget)

	b, err := json.Marshal(platformConfig)
	if err != nil {
		return err
	}
	c.PlatformConfig = (*json.RawMessage)(&b)
	return nil
}

// Compile takes a generic CompilationConfig and deserializes the inner platforms.PlatformConfig, which
// is then used to compile the underlying targets. Returns a list of compilations returned by the platform provider or
// an error. Compiler output may also be returned in either case.
func (c *CompilationConfig) Compile() ([]types.Compilation, string, error) {
	platformConfig, err := c.GetPlatformConfig()
	if err != nil {
		return nil, "", fmt.Errorf("could not compile from configs: %w", err)
	}

	if cacheable, ok := platformConfig.(platforms.CacheablePlatformConfig); ok && c.CacheDirectory != "" {
		artifactCache, err := cache.Open(c.CacheDirectory)
		if err != nil {
			// A broken cache should not prevent compilation.
			logging.GlobalLogger.NewSubLogger("module", logging.COMPILATION_SERVICE).Warn("Artifact cache unavailable, compiling without it", err)
		} else {
			defer artifactCache.Close()
			cacheable.SetArtifactCache(artifactCache)
		}
	}
	return platformConfig.Compile()
}
