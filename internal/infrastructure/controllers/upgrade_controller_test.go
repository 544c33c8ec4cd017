//go:build unit

package controllers_test

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/controllers"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/test/domain/commanddoubles"
)

// newTestCommand wires the controller's flags onto a bare cobra command the
// same way the entrypoint does.
func newTestCommand(controller *controllers.UpgradeController) *cobra.Command {
	cmd := &cobra.Command{Use: "upgrade"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().Bool("dry-run", false, "")
	cmd.Flags().Bool("verbose", false, "")
	controller.AddFlags(cmd)
	return cmd
}

func TestUpgradeControllerExecute(t *testing.T) {
	t.Parallel()

	t.Run("should pass flags through to the command", func(t *testing.T) {
		// given
		stub := &commanddoubles.StubUpgradeCommand{}
		controller := controllers.NewUpgradeController(stub)
		cmd := newTestCommand(controller)
		require.NoError(t, cmd.Flags().Set("packages", "react,react-dom"))
		require.NoError(t, cmd.Flags().Set("versions", "18.3.1,18.3.1"))
		require.NoError(t, cmd.Flags().Set("repos", "/tmp/a,/tmp/b"))
		require.NoError(t, cmd.Flags().Set("dry-run", "true"))
		require.NoError(t, cmd.Flags().Set("concurrency", "3"))

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		require.Len(t, stub.Calls, 1)
		call := stub.Calls[0]
		assert.Equal(t, []string{"react", "react-dom"}, call.Request.Packages)
		assert.Equal(t, []string{"18.3.1", "18.3.1"}, call.Request.Versions)
		assert.Equal(t, []string{"/tmp/a", "/tmp/b"}, call.Request.Repositories)
		assert.True(t, call.Opts.DryRun)
		assert.Equal(t, 3, call.Opts.Concurrency)
		// defaults flow in when no config file is given
		assert.Equal(t, "main", call.Opts.TrunkBranch)
		assert.Equal(t, "origin", call.Opts.Remote)
	})

	t.Run("should return an error when any repository failed", func(t *testing.T) {
		// given
		stub := &commanddoubles.StubUpgradeCommand{
			Summary: entities.BatchSummary{Reports: []entities.RepositoryReport{
				{Repository: "/tmp/a", Outcome: entities.SuccessOutcome(nil, nil, "https://example.com/pr/1")},
				{Repository: "/tmp/b", Outcome: entities.FailedOutcome(entities.StagePush, "rejected")},
			}},
		}
		controller := controllers.NewUpgradeController(stub)
		cmd := newTestCommand(controller)

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 repositories failed")
	})

	t.Run("should succeed for an all-green batch", func(t *testing.T) {
		stub := &commanddoubles.StubUpgradeCommand{
			Summary: entities.BatchSummary{Reports: []entities.RepositoryReport{
				{Repository: "/tmp/a", Outcome: entities.NoChangesOutcome(nil)},
			}},
		}
		controller := controllers.NewUpgradeController(stub)
		cmd := newTestCommand(controller)

		assert.NoError(t, controller.Execute(cmd, nil))
	})

	t.Run("should pass the cobra command context through to the command", func(t *testing.T) {
		// given
		stub := &commanddoubles.StubUpgradeCommand{}
		controller := controllers.NewUpgradeController(stub)
		cmd := newTestCommand(controller)

		type contextKey struct{}
		ctx := context.WithValue(context.Background(), contextKey{}, "marker")
		cmd.SetContext(ctx)

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		require.Len(t, stub.Calls, 1)
		assert.Equal(t, "marker", stub.Calls[0].Ctx.Value(contextKey{}))
	})

	t.Run("should fail when an explicit config path cannot be loaded", func(t *testing.T) {
		stub := &commanddoubles.StubUpgradeCommand{}
		controller := controllers.NewUpgradeController(stub)
		cmd := newTestCommand(controller)
		require.NoError(t, cmd.Flags().Set("config", "/nonexistent/batchupgrade.yaml"))

		err := controller.Execute(cmd, nil)

		require.Error(t, err)
		assert.Empty(t, stub.Calls)
	})
}
