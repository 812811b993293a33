// Package rpm projects a dependency graph as RPM spec fragments: per
// component a subpackage block with computed Requires lines, and a file
// list block with the conventional install path. Development variants
// cover the header install and are only emitted for components exporting
// symbols.
//
// All blocks follow the subpackage conventions of the qtcreator spec file:
// runtime subpackages are declared relative to the main package, devel
// subpackages with an explicit -n name.
package rpm

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pasccom/qtcreator-deptree/pkg/depgraph"
	"github.com/pasccom/qtcreator-deptree/pkg/pkginfo"
	"github.com/pasccom/qtcreator-deptree/pkg/registry"
)

// Options gates which component kinds are projected.
type Options struct {
	Libs    bool
	Plugins bool
}

func (o Options) shows(k registry.Kind) bool {
	if k == registry.KindLibrary {
		return o.Libs
	}
	return o.Plugins
}

// View emits RPM spec fragments for a graph. Summary and description text
// comes from the package-info provider and falls back to placeholders.
type View struct {
	info pkginfo.Provider
}

// NewView creates a view. A nil provider uses static placeholders.
func NewView(info pkginfo.Provider) *View {
	if info == nil {
		info = pkginfo.Static{}
	}
	return &View{info: info}
}

// components returns the gated components in canonical order and seals the
// graph against late overrides.
func components(g *depgraph.Graph, opts Options) []*registry.Component {
	g.Seal()
	var out []*registry.Component
	for _, c := range g.Components() {
		if opts.shows(c.Kind) {
			out = append(out, c)
		}
	}
	return out
}

// Metadata emits the runtime subpackage blocks: %package header, summary,
// one Requires line per minimal dependency, override extras, and the
// %description block. An empty graph emits nothing.
func (v *View) Metadata(ctx context.Context, g *depgraph.Graph, opts Options) (string, error) {
	var buf bytes.Buffer
	for _, c := range components(g, opts) {
		pkg := c.PackageName()
		fmt.Fprintf(&buf, "%%package %s\n", pkg)
		fmt.Fprintf(&buf, "Summary:    %s\n", v.lookup(ctx, pkginfo.Request{
			Kind:    pkginfo.KindSummary,
			Package: pkg,
		}))
		deps, err := g.MinimalDependencies(c.Name)
		if err != nil {
			return "", err
		}
		for _, d := range deps {
			dep, err := g.Component(d)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&buf, "Requires:   qtcreator-%s = %%{version}\n", dep.PackageName())
		}
		for _, extra := range c.RequiresExtra {
			fmt.Fprintf(&buf, "Requires:   %s\n", extra)
		}
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "%%description %s\n", pkg)
		fmt.Fprintf(&buf, "%s\n", v.lookup(ctx, pkginfo.Request{
			Kind:    pkginfo.KindDescription,
			Package: pkg,
		}))
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// DevelMetadata emits the devel subpackage blocks for components exporting
// symbols. Each block requires the main devel package, the component's own
// runtime subpackage, and the devel subpackage of every minimal dependency.
func (v *View) DevelMetadata(ctx context.Context, g *depgraph.Graph, opts Options) (string, error) {
	var buf bytes.Buffer
	for _, c := range components(g, opts) {
		if !c.HasExports {
			continue
		}
		pkg := c.PackageName()
		fmt.Fprintf(&buf, "%%package -n qtcreator-%s-devel\n", pkg)
		fmt.Fprintf(&buf, "Summary:    %s\n", v.lookup(ctx, pkginfo.Request{
			Kind:    pkginfo.KindSummary,
			Package: pkg + "-devel",
			Default: fmt.Sprintf("Development files for qtcreator-%s", pkg),
		}))
		buf.WriteString("Requires:   qtcreator-devel = %{version}\n")
		fmt.Fprintf(&buf, "Requires:   qtcreator-%s = %%{version}\n", pkg)
		deps, err := g.MinimalDependencies(c.Name)
		if err != nil {
			return "", err
		}
		for _, d := range deps {
			dep, err := g.Component(d)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&buf, "Requires:   qtcreator-%s-devel = %%{version}\n", dep.PackageName())
		}
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "%%description -n qtcreator-%s-devel\n", pkg)
		fmt.Fprintf(&buf, "%s\n", v.lookup(ctx, pkginfo.Request{
			Kind:    pkginfo.KindDescription,
			Package: pkg + "-devel",
			Default: fmt.Sprintf("This package contains the files needed to compile a Qt Creator lib or plugin\ninvolving library %s.", c.Name),
		}))
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// Files emits the runtime %files blocks: the conventional shared-object
// install path per kind plus override extras.
func (v *View) Files(g *depgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	for _, c := range components(g, opts) {
		fmt.Fprintf(&buf, "%%files %s\n", c.PackageName())
		buf.WriteString("%defattr(-, root, root)\n")
		if c.Kind == registry.KindLibrary {
			fmt.Fprintf(&buf, "%%{_libdir}/qtcreator/lib%s.so*\n", c.Name)
		} else {
			fmt.Fprintf(&buf, "%%{_libdir}/qtcreator/plugins/lib%s.so\n", c.Name)
		}
		for _, extra := range c.FilesExtra {
			fmt.Fprintf(&buf, "%s\n", extra)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

// DevelFiles emits the devel %files blocks for components exporting
// symbols: the header install directory per kind plus override extras.
func (v *View) DevelFiles(g *depgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	for _, c := range components(g, opts) {
		if !c.HasExports {
			continue
		}
		fmt.Fprintf(&buf, "%%files -n qtcreator-%s-devel\n", c.PackageName())
		buf.WriteString("%defattr(-, root, root)\n")
		if c.Kind == registry.KindLibrary {
			buf.WriteString("%dir %{_includedir}/qtcreator/src/libs\n")
			fmt.Fprintf(&buf, "%%{_includedir}/qtcreator/src/libs/%s\n", c.FolderName)
		} else {
			buf.WriteString("%dir %{_includedir}/qtcreator/src/plugins\n")
			fmt.Fprintf(&buf, "%%{_includedir}/qtcreator/src/plugins/%s\n", c.FolderName)
		}
		for _, extra := range c.DevelFilesExtra {
			fmt.Fprintf(&buf, "%s\n", extra)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

// lookup resolves package text, falling back to the request default. The
// composite provider already fails soft, but a bare provider may not.
func (v *View) lookup(ctx context.Context, req pkginfo.Request) string {
	text, err := v.info.Lookup(ctx, req)
	if err != nil || text == "" {
		return req.Fallback()
	}
	return text
}
