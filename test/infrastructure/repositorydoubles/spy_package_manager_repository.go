//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/repositories"
)

// SpyPackageManagerRepository implements repositories.PackageManagerRepository
// as a configurable spy. Safe for concurrent use.
type SpyPackageManagerRepository struct {
	mu sync.Mutex

	// --- configured failures ---
	RemoveErr        error
	ForcedInstallErr error
	InstallErr       error

	// spy: "RemoveInstallDir", "Install(forced)" and "Install" in call order
	Calls []string
}

var _ repositories.PackageManagerRepository = (*SpyPackageManagerRepository)(nil)

func (p *SpyPackageManagerRepository) Install(_ context.Context, _ string, forced bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if forced {
		p.Calls = append(p.Calls, "Install(forced)")
		return p.ForcedInstallErr
	}
	p.Calls = append(p.Calls, "Install")
	return p.InstallErr
}

func (p *SpyPackageManagerRepository) RemoveInstallDir(_ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, "RemoveInstallDir")
	return p.RemoveErr
}
