//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"sync"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/repositories"
)

// ManifestEntry is one declared dependency in the stub manifest.
type ManifestEntry struct {
	Section entities.DependencySection
	Version string
}

// SetVersionCall records a single invocation of SetVersion.
type SetVersionCall struct {
	Section entities.DependencySection
	Name    string
	Version string
}

// StubManifestRepository implements repositories.ManifestRepository over an
// in-memory package table instead of a file on disk. Safe for concurrent use.
type StubManifestRepository struct {
	mu sync.Mutex

	// Missing makes Exists report no manifest at all.
	Missing bool
	// Packages maps a package name to its declared entry.
	Packages map[string]ManifestEntry

	// --- SetVersion ---
	SetErr error
	// spy: writes received
	SetCalls []SetVersionCall
}

var _ repositories.ManifestRepository = (*StubManifestRepository)(nil)

func (p *StubManifestRepository) Exists(_ string) bool {
	return !p.Missing
}

func (p *StubManifestRepository) FindPackage(
	_, name string,
) (entities.DependencySection, string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.Packages[name]
	if !ok {
		return "", "", false
	}
	return entry.Section, entry.Version, true
}

func (p *StubManifestRepository) SetVersion(
	_ string, section entities.DependencySection, name, newVersion string,
) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SetCalls = append(p.SetCalls, SetVersionCall{
		Section: section, Name: name, Version: newVersion,
	})
	if p.SetErr != nil {
		return false, p.SetErr
	}
	entry, ok := p.Packages[name]
	if !ok || entry.Section != section {
		return false, nil
	}
	entry.Version = newVersion
	p.Packages[name] = entry
	return true, nil
}
