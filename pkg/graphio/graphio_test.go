package graphio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pasccom/qtcreator-deptree/pkg/errors"
	"github.com/pasccom/qtcreator-deptree/pkg/registry"
)

func sampleRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	if _, err := r.Add("Utils", registry.KindLibrary, "utils", nil); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	c, err := r.Add("Core", registry.KindPlugin, "coreplugin", []string{"Utils"})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	c.HasExports = true
	if err := r.Override("core", []string{"qtcreator-qbs = %{version}"}, nil, nil); err != nil {
		t.Fatalf("Override() error: %v", err)
	}
	return r
}

func TestRoundTrip(t *testing.T) {
	r := sampleRegistry(t)

	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	back, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	core, err := back.Lookup("core")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if core.Kind != registry.KindPlugin || !core.HasExports {
		t.Errorf("core = kind %v, exports %v", core.Kind, core.HasExports)
	}
	if len(core.DependsOn) != 1 || core.DependsOn[0] != "Utils" {
		t.Errorf("core.DependsOn = %v", core.DependsOn)
	}
	if len(core.RequiresExtra) != 1 {
		t.Errorf("core.RequiresExtra = %v", core.RequiresExtra)
	}

	again, err := Marshal(back)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("re-serialized snapshot differs from original")
	}
}

func TestMarshal_SortedByName(t *testing.T) {
	r := registry.New()
	for _, name := range []string{"zlib", "Aggregation", "Utils"} {
		if _, err := r.Add(name, registry.KindLibrary, name, nil); err != nil {
			t.Fatalf("Add(%s) error: %v", name, err)
		}
	}

	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	text := string(data)
	if strings.Index(text, "Aggregation") > strings.Index(text, "Utils") ||
		strings.Index(text, "Utils") > strings.Index(text, "zlib") {
		t.Errorf("components not sorted:\n%s", text)
	}
}

func TestFromRegistry_SortsDependsOn(t *testing.T) {
	r := registry.New()
	for _, name := range []string{"zlib", "Aggregation", "Utils"} {
		if _, err := r.Add(name, registry.KindLibrary, name, nil); err != nil {
			t.Fatalf("Add(%s) error: %v", name, err)
		}
	}
	if _, err := r.Add("Core", registry.KindPlugin, "coreplugin",
		[]string{"zlib", "Utils", "Aggregation"}); err != nil {
		t.Fatalf("Add(Core) error: %v", err)
	}

	s := FromRegistry(r)
	for _, rec := range s.Components {
		if rec.Name != "Core" {
			continue
		}
		want := []string{"Aggregation", "Utils", "zlib"}
		if len(rec.DependsOn) != len(want) {
			t.Fatalf("DependsOn = %v, want %v", rec.DependsOn, want)
		}
		for i := range want {
			if rec.DependsOn[i] != want[i] {
				t.Errorf("DependsOn[%d] = %q, want %q", i, rec.DependsOn[i], want[i])
			}
		}
		return
	}
	t.Fatal("Core record not found in snapshot")
}

func TestWriteFile_ReadFile(t *testing.T) {
	r := sampleRegistry(t)
	path := filepath.Join(t.TempDir(), "graph.json")

	if err := WriteFile(r, path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if back.Len() != r.Len() {
		t.Errorf("Len() = %d, want %d", back.Len(), r.Len())
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile() err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRead_BadJSON(t *testing.T) {
	_, err := Read(strings.NewReader("{not json"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Read() err = %v, want INVALID_FORMAT", err)
	}
}

func TestRead_BadKind(t *testing.T) {
	_, err := Read(strings.NewReader(`{"components": [{"name": "X", "kind": "module"}]}`))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Read() err = %v, want INVALID_FORMAT", err)
	}
}
