// Package pri scans a Qt Creator style source tree for component
// declarations. Libraries live under src/libs and plugins under
// src/plugins, one folder each, with a <folder>_dependencies.pri file
// declaring the component's display name and its direct dependencies.
//
// Dependency tokens in declaration files name sibling folders, not display
// names. The scanner resolves them to display names while assembling the
// registry so that later stages only ever deal in component names.
package pri

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pasccom/qtcreator-deptree/pkg/errors"
	"github.com/pasccom/qtcreator-deptree/pkg/registry"
)

// Scanner reads component declarations from a source tree root.
type Scanner struct {
	logger *log.Logger
}

// NewScanner creates a scanner. A nil logger falls back to the default.
func NewScanner(logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{logger: logger}
}

// record is one scanned folder before cross-folder dependency resolution.
type record struct {
	folder     string
	kind       registry.Kind
	decl       declaration
	hasExports bool
}

// Scan walks src/libs and src/plugins under root and assembles the
// component registry. Folders without a declaration file, or whose
// declaration lacks a name, are skipped with a warning. Fails with
// ErrCodeFileNotFound if either directory is missing.
func (s *Scanner) Scan(ctx context.Context, root string) (*registry.Registry, error) {
	var records []record
	for _, dir := range []struct {
		path string
		kind registry.Kind
	}{
		{filepath.Join(root, "src", "libs"), registry.KindLibrary},
		{filepath.Join(root, "src", "plugins"), registry.KindPlugin},
	} {
		recs, err := s.scanDir(ctx, dir.path, dir.kind)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}

	// Resolve folder tokens to display names. Tokens naming no scanned
	// folder are kept as-is so graph construction reports them.
	nameByFolder := make(map[string]string, len(records))
	for _, rec := range records {
		nameByFolder[strings.ToLower(rec.folder)] = rec.decl.name
	}

	r := registry.New()
	for _, rec := range records {
		deps := make([]string, 0, len(rec.decl.deps))
		for _, tok := range rec.decl.deps {
			if name, ok := nameByFolder[strings.ToLower(tok)]; ok {
				deps = append(deps, name)
			} else {
				deps = append(deps, tok)
			}
		}
		c, err := r.Add(rec.decl.name, rec.kind, rec.folder, deps)
		if err != nil {
			return nil, err
		}
		c.HasExports = rec.hasExports
	}
	return r, nil
}

func (s *Scanner) scanDir(ctx context.Context, dir string, kind registry.Kind) ([]record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "source directory %s", dir)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read directory %s", dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var records []record
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.IsDir() {
			continue
		}
		folder := e.Name()
		folderPath := filepath.Join(dir, folder)

		declPath := filepath.Join(folderPath, folder+"_dependencies.pri")
		if fi, err := os.Stat(declPath); err != nil || fi.IsDir() {
			s.logger.Warn("no dependency declaration, skipping folder",
				"folder", folder, "expected", filepath.Base(declPath))
			continue
		}

		decl, err := parseDeclFile(declPath, kind)
		if err != nil {
			return nil, err
		}
		if decl.name == "" {
			s.logger.Warn("declaration has no component name, skipping folder",
				"folder", folder)
			continue
		}

		records = append(records, record{
			folder:     folder,
			kind:       kind,
			decl:       decl,
			hasExports: hasExports(folderPath),
		})
		s.logger.Debug("scanned component",
			"name", decl.name, "kind", kind.String(), "deps", len(decl.deps))
	}
	return records, nil
}

// hasExports reports whether any file under the folder mentions EXPORT,
// which marks components installing development headers.
func hasExports(dir string) bool {
	found := false
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || found || d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err == nil && strings.Contains(string(data), "EXPORT") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
