//go:build unit

package npm_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	npmRepo "github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/repositories/npm"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/shell"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/test/infrastructure/shelldoubles"
)

func TestNpmPackageManagerRepositoryInstall(t *testing.T) {
	t.Parallel()

	t.Run("should run a plain install by default", func(t *testing.T) {
		// given
		runner := &shelldoubles.StubCommandRunner{}
		repo := npmRepo.NewNpmPackageManagerRepository(runner)

		// when
		err := repo.Install(context.Background(), "/tmp/web", false)

		// then
		require.NoError(t, err)
		assert.Equal(t, "npm", runner.Last().Program)
		assert.Equal(t, []string{"install"}, runner.Last().Args)
		assert.Equal(t, "/tmp/web", runner.Last().Dir)
	})

	t.Run("should add --force when forced", func(t *testing.T) {
		runner := &shelldoubles.StubCommandRunner{}
		repo := npmRepo.NewNpmPackageManagerRepository(runner)

		err := repo.Install(context.Background(), "/tmp/web", true)

		require.NoError(t, err)
		assert.Equal(t, []string{"install", "--force"}, runner.Last().Args)
	})

	t.Run("should fail with the npm diagnostic on a non-zero exit", func(t *testing.T) {
		runner := &shelldoubles.StubCommandRunner{
			Results: []shell.Result{{ExitCode: 1, Stderr: "npm ERR! ERESOLVE unable to resolve dependency tree"}},
		}
		repo := npmRepo.NewNpmPackageManagerRepository(runner)

		err := repo.Install(context.Background(), "/tmp/web", false)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "ERESOLVE")
	})
}

func TestNpmPackageManagerRepositoryRemoveInstallDir(t *testing.T) {
	t.Parallel()

	t.Run("should remove an existing node_modules directory", func(t *testing.T) {
		// given
		dir := t.TempDir()
		target := filepath.Join(dir, "node_modules", "react")
		require.NoError(t, os.MkdirAll(target, 0o755))

		repo := npmRepo.NewNpmPackageManagerRepository(&shelldoubles.StubCommandRunner{})

		// when
		err := repo.RemoveInstallDir(dir)

		// then
		require.NoError(t, err)
		_, statErr := os.Stat(filepath.Join(dir, "node_modules"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("should succeed when node_modules does not exist", func(t *testing.T) {
		repo := npmRepo.NewNpmPackageManagerRepository(&shelldoubles.StubCommandRunner{})

		assert.NoError(t, repo.RemoveInstallDir(t.TempDir()))
	})
}
