package repositories

import (
	"go.uber.org/dig"

	gitRepo "github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/repositories/git"
	ghRepo "github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/repositories/github"
	manifestRepo "github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/repositories/manifest"
	npmRepo "github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/repositories/npm"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/shell"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// One shell runner shared by every CLI-backed repository
	if err := container.Provide(func() shell.CommandRunner {
		return shell.NewOSCommandRunner()
	}); err != nil {
		return err
	}

	// Repository constructors already return their domain interfaces
	if err := container.Provide(gitRepo.NewGitCLIRepository); err != nil {
		return err
	}
	if err := container.Provide(npmRepo.NewNpmPackageManagerRepository); err != nil {
		return err
	}
	if err := container.Provide(ghRepo.NewGitHubCodeReviewRepository); err != nil {
		return err
	}
	if err := container.Provide(manifestRepo.NewJSONManifestRepository); err != nil {
		return err
	}

	return nil
}
