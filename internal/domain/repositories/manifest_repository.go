package repositories

import (
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
)

// ManifestRepository reads and mutates npm package manifests. It is the only
// component allowed to touch the manifest file during a pipeline run.
type ManifestRepository interface {
	// Exists reports whether a manifest file exists at path.
	Exists(path string) bool

	// FindPackage scans the dependency sections in priority order
	// (dependencies, devDependencies, peerDependencies) and returns the first
	// section declaring the package together with its current version. A
	// missing or unparsable manifest is treated as "not found", never as an
	// error: skipping is safer than corrupting.
	FindPackage(path, name string) (entities.DependencySection, string, bool)

	// SetVersion rewrites the package's declared version and persists the
	// manifest. It succeeds only when the section already exists and already
	// declares the package: this repository never adds a dependency. It
	// returns false (without error) when the section or package is absent,
	// and an error on read, parse, or write failures.
	SetVersion(path string, section entities.DependencySection, name, newVersion string) (bool, error)
}
