// Package graphio serializes a scanned component registry to a JSON
// snapshot and restores it. A snapshot decouples the slow source-tree scan
// from the view commands: scan once, project many times.
//
// The format is human-readable and round-trip safe: records are sorted by
// name so re-serializing an imported snapshot yields identical bytes.
package graphio

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pasccom/qtcreator-deptree/pkg/errors"
	"github.com/pasccom/qtcreator-deptree/pkg/registry"
)

// Snapshot is the serialization format for a scanned registry.
type Snapshot struct {
	Components []ComponentRecord `json:"components"`
}

// ComponentRecord is one serialized component.
type ComponentRecord struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Folder     string   `json:"folder,omitempty"`
	HasExports bool     `json:"has_exports,omitempty"`
	DependsOn  []string `json:"depends_on,omitempty"`

	RequiresExtra   []string `json:"requires_extra,omitempty"`
	FilesExtra      []string `json:"files_extra,omitempty"`
	DevelFilesExtra []string `json:"devel_files_extra,omitempty"`
}

// FromRegistry converts a registry to its snapshot form. Records and each
// record's depends list are sorted by name, so snapshots of the same tree
// are byte-identical no matter the declaration order.
func FromRegistry(r *registry.Registry) Snapshot {
	comps := r.Components()
	s := Snapshot{Components: make([]ComponentRecord, len(comps))}
	for i, c := range comps {
		deps := append([]string(nil), c.DependsOn...)
		sort.Slice(deps, func(a, b int) bool {
			return strings.ToLower(deps[a]) < strings.ToLower(deps[b])
		})
		s.Components[i] = ComponentRecord{
			Name:            c.Name,
			Kind:            c.Kind.String(),
			Folder:          c.FolderName,
			HasExports:      c.HasExports,
			DependsOn:       deps,
			RequiresExtra:   c.RequiresExtra,
			FilesExtra:      c.FilesExtra,
			DevelFilesExtra: c.DevelFilesExtra,
		}
	}
	return s
}

// ToRegistry rebuilds a registry from a snapshot. Returns the decoding
// errors of the registry itself (duplicate names, invalid kinds).
func ToRegistry(s Snapshot) (*registry.Registry, error) {
	r := registry.New()
	for _, rec := range s.Components {
		kind, err := registry.ParseKind(rec.Kind)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "component %s", rec.Name)
		}
		c, err := r.Add(rec.Name, kind, rec.Folder, rec.DependsOn)
		if err != nil {
			return nil, err
		}
		c.HasExports = rec.HasExports
		c.RequiresExtra = rec.RequiresExtra
		c.FilesExtra = rec.FilesExtra
		c.DevelFilesExtra = rec.DevelFilesExtra
	}
	return r, nil
}

// Marshal converts a registry to indented JSON bytes.
func Marshal(r *registry.Registry) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a registry snapshot as JSON to an io.Writer.
func Write(r *registry.Registry, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromRegistry(r)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	return nil
}

// WriteFile writes a registry snapshot to a JSON file with 0644 permissions.
func WriteFile(r *registry.Registry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return Write(r, f)
}

// Read decodes a JSON snapshot from an io.Reader into a registry.
func Read(rd io.Reader) (*registry.Registry, error) {
	var s Snapshot
	if err := json.NewDecoder(rd).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	return ToRegistry(s)
}

// ReadFile reads a JSON snapshot file into a registry.
// Fails with ErrCodeFileNotFound if the file does not exist.
func ReadFile(path string) (*registry.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}
