package npm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/repositories"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/shell"
)

const (
	npmProgram = "npm"
	installDir = "node_modules"
)

// NpmPackageManagerRepository implements repositories.PackageManagerRepository
// by invoking the npm CLI through the shell runner.
type NpmPackageManagerRepository struct {
	runner shell.CommandRunner
}

// NewNpmPackageManagerRepository creates an npm-backed package manager.
func NewNpmPackageManagerRepository(runner shell.CommandRunner) repositories.PackageManagerRepository {
	return &NpmPackageManagerRepository{runner: runner}
}

// Install runs "npm install" in dir, with --force when forced is true.
func (p *NpmPackageManagerRepository) Install(ctx context.Context, dir string, forced bool) error {
	args := []string{"install"}
	if forced {
		args = append(args, "--force")
	}

	result, err := p.runner.Run(ctx, shell.Command{Program: npmProgram, Args: args, Dir: dir})
	if err != nil {
		return fmt.Errorf("failed to run npm install: %w", err)
	}
	if !result.Succeeded() {
		diagnostic := strings.TrimSpace(result.Stderr)
		return fmt.Errorf("npm install exited with code %d: %s", result.ExitCode, diagnostic)
	}
	return nil
}

// RemoveInstallDir deletes dir's node_modules so the next install is cold.
func (p *NpmPackageManagerRepository) RemoveInstallDir(dir string) error {
	target := filepath.Join(dir, installDir)
	logger.Debugf("Removing %s", target)
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to remove %s: %w", target, err)
	}
	return nil
}
