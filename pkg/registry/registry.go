// Package registry holds one record per library or plugin discovered in the
// analyzed source tree: identity, kind, declared direct dependencies, and
// optional packaging overrides.
//
// The registry is populated once by the source-tree scanner (or from a
// snapshot) and is read-only after the dependency graph built from it has
// been consumed by a view projection.
package registry

import (
	"sort"
	"strings"

	"github.com/pasccom/qtcreator-deptree/pkg/errors"
)

// Kind distinguishes libraries from plugins.
type Kind int

const (
	// KindLibrary is a shared library under src/libs.
	KindLibrary Kind = iota
	// KindPlugin is a plugin under src/plugins.
	KindPlugin
)

// String returns the lower-case kind name used in snapshots and CLI output.
func (k Kind) String() string {
	switch k {
	case KindLibrary:
		return "library"
	case KindPlugin:
		return "plugin"
	default:
		return "unknown"
	}
}

// ParseKind converts a snapshot kind string back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "library", "lib":
		return KindLibrary, nil
	case "plugin":
		return KindPlugin, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidKind, "invalid component kind: %q", s)
	}
}

// Component is one library or plugin record.
type Component struct {
	Name       string // declared name (case preserved for display and file paths)
	Kind       Kind
	FolderName string // source folder, used for devel include paths
	HasExports bool   // component exports symbols; gates devel subpackages

	// DependsOn holds declared direct dependency names, in declaration
	// order, not yet resolved against the registry.
	DependsOn []string

	// Packaging overrides, appended after computed values and never
	// replacing them.
	RequiresExtra   []string
	FilesExtra      []string
	DevelFilesExtra []string
}

// PackageName derives the subpackage name for the component.
// Libraries drop a leading "lib" and plugins a trailing "plugin" before the
// kind prefix is applied, so "LibUtils" becomes "lib-utils" and
// "CorePlugin" becomes "plugin-core".
func (c *Component) PackageName() string {
	lower := strings.ToLower(c.Name)
	switch c.Kind {
	case KindLibrary:
		return "lib-" + strings.TrimPrefix(lower, "lib")
	case KindPlugin:
		return "plugin-" + strings.TrimSuffix(lower, "plugin")
	default:
		return lower
	}
}

// Registry maps case-insensitive component names to records.
type Registry struct {
	components map[string]*Component
	sealed     bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{components: make(map[string]*Component)}
}

// Add registers a component. Blank dependency names are dropped; duplicate
// declarations of the same dependency are kept only once, preserving the
// first occurrence. Fails with ErrCodeDuplicateComponent if the
// case-insensitive name is already present, and with ErrCodeRegistrySealed
// once a view has consumed the graph.
func (r *Registry) Add(name string, kind Kind, folder string, deps []string) (*Component, error) {
	if r.sealed {
		return nil, errors.New(errors.ErrCodeRegistrySealed, "registry is sealed")
	}
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "component name must not be empty")
	}
	key := strings.ToLower(name)
	if _, exists := r.components[key]; exists {
		return nil, errors.New(errors.ErrCodeDuplicateComponent, "duplicate component: %s", name)
	}
	if folder == "" {
		folder = name
	}

	c := &Component{Name: name, Kind: kind, FolderName: folder}
	seen := make(map[string]bool, len(deps))
	for _, d := range deps {
		if d == "" {
			continue
		}
		dk := strings.ToLower(d)
		if seen[dk] {
			continue
		}
		seen[dk] = true
		c.DependsOn = append(c.DependsOn, d)
	}

	r.components[key] = c
	return c, nil
}

// Override appends packaging extras to an existing component. The merge is
// append-only: repeated calls accumulate and nothing is deduplicated.
// Fails with ErrCodeUnknownComponent if the name is absent and with
// ErrCodeRegistrySealed once a view has consumed the graph.
func (r *Registry) Override(name string, requires, files, develFiles []string) error {
	if r.sealed {
		return errors.New(errors.ErrCodeRegistrySealed, "registry is sealed, overrides must be applied before any view is computed")
	}
	c, ok := r.components[strings.ToLower(name)]
	if !ok {
		return errors.New(errors.ErrCodeUnknownComponent, "override for unknown component: %s", name)
	}
	c.RequiresExtra = append(c.RequiresExtra, requires...)
	c.FilesExtra = append(c.FilesExtra, files...)
	c.DevelFilesExtra = append(c.DevelFilesExtra, develFiles...)
	return nil
}

// Lookup returns the component record for a case-insensitive name.
// Fails with ErrCodeUnknownComponent if absent.
func (r *Registry) Lookup(name string) (*Component, error) {
	c, ok := r.components[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownComponent, "unknown component: %s", name)
	}
	return c, nil
}

// Has reports whether a component with the given name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.components[strings.ToLower(name)]
	return ok
}

// Components returns all records sorted by case-insensitive name.
// Sorting keeps every projection over the registry diffable across runs.
func (r *Registry) Components() []*Component {
	out := make([]*Component, 0, len(r.components))
	for _, c := range r.components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Len returns the number of registered components.
func (r *Registry) Len() int { return len(r.components) }

// Seal marks the registry read-only. Called by the first view projection
// that consumes the graph; later Add or Override calls fail.
func (r *Registry) Seal() { r.sealed = true }

// Sealed reports whether the registry has been sealed.
func (r *Registry) Sealed() bool { return r.sealed }
