package entities

// DependencySection is one of the manifest keys that can declare a package's
// required version.
type DependencySection string

const (
	SectionDependencies     DependencySection = "dependencies"
	SectionDevDependencies  DependencySection = "devDependencies"
	SectionPeerDependencies DependencySection = "peerDependencies"
)

// DependencySections returns the sections in lookup priority order. When a
// package appears in more than one section, the first match wins.
func DependencySections() []DependencySection {
	return []DependencySection{
		SectionDependencies,
		SectionDevDependencies,
		SectionPeerDependencies,
	}
}

// ResolutionKind tags the outcome of analyzing one requested package against
// one repository's manifest.
type ResolutionKind string

const (
	// ResolutionNotFound means the package is absent from every dependency
	// section (or the manifest is missing or unreadable).
	ResolutionNotFound ResolutionKind = "not-found"
	// ResolutionAlreadyCurrent means the declared version already satisfies
	// the requested target.
	ResolutionAlreadyCurrent ResolutionKind = "already-current"
	// ResolutionUpdated means the declared version was rewritten to the
	// requested target.
	ResolutionUpdated ResolutionKind = "updated"
)

// PackageResolution is the per (repository, package) analysis outcome.
// Computed fresh on every run, never persisted.
type PackageResolution struct {
	Package        string
	Kind           ResolutionKind
	CurrentVersion string            // set for AlreadyCurrent
	FromVersion    string            // set for Updated
	ToVersion      string            // set for Updated
	Section        DependencySection // set for Updated
}
