package repositories

import "context"

// PackageManagerRepository abstracts the npm CLI for one repository directory.
type PackageManagerRepository interface {
	// Install runs a dependency installation from the manifest. When forced
	// is true the installation bypasses lockfile and peer-dependency
	// conflicts so the lockfile is regenerated for the new versions.
	Install(ctx context.Context, dir string, forced bool) error

	// RemoveInstallDir deletes the on-disk dependency directory so the next
	// install observes a cold state instead of a stale cache. Removing a
	// directory that does not exist is not an error.
	RemoveInstallDir(dir string) error
}
