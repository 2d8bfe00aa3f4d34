package platforms

import (
	"github.com/crytic/solsim/compilation/cache"
	"github.com/crytic/solsim/compilation/types"
)

// PlatformConfig describes the interface all compilation platform configs must implement.
type PlatformConfig interface {
	// Compile compiles the target and returns the compilations along with any diagnostic text the compiler
	// printed (warnings, or its raw output on failure).
	Compile() ([]types.Compilation, string, error)
	Platform() string
	GetTarget() string
	SetTarget(string)
}

// CacheablePlatformConfig is implemented by platforms that can reuse compiler output from an artifact cache.
type CacheablePlatformConfig interface {
	PlatformConfig

	// SetArtifactCache sets the cache consulted by subsequent Compile calls. A nil cache disables caching.
	SetArtifactCache(c *cache.ArtifactCache)
}
