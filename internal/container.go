package internal

import (
	"go.uber.org/dig"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/commands"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/controllers"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/repositories"
)

// RegisterProviders registers all internal providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register all layers (bottom-up: infrastructure repos -> domain entities -> domain commands -> controllers)
	if err := repositories.RegisterProviders(container); err != nil {
		return err
	}
	if err := entities.RegisterProviders(container); err != nil {
		return err
	}
	if err := commands.RegisterProviders(container); err != nil {
		return err
	}
	if err := controllers.RegisterProviders(container); err != nil {
		return err
	}

	// Register the main app internal
	if err := container.Provide(NewAppInternal); err != nil {
		return err
	}

	return nil
}
