package internal

import (
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
)

// AppInternal aggregates the wired controllers for the command-line layer.
type AppInternal struct {
	controllers *[]entities.Controller
}

// NewAppInternal creates the application aggregate from the controller slice.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: controllers}
}

// GetControllers returns every registered controller.
func (it *AppInternal) GetControllers() []entities.Controller {
	return *it.controllers
}
