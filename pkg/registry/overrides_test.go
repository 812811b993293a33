package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pasccom/qtcreator-deptree/pkg/errors"
)

const overridesTOML = `
[override.core]
requires = ["qtcreator-qbs = %{version}"]
files = ["%{_libdir}/qtcreator/plugins/core-extra.so"]

[override.utils]
devel-files = ["%{_includedir}/qtcreator/src/libs/utils/extra"]
`

func writeOverrides(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overrides.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write overrides: %v", err)
	}
	return path
}

func TestLoadOverrides(t *testing.T) {
	o, err := LoadOverrides(writeOverrides(t, overridesTOML))
	if err != nil {
		t.Fatalf("LoadOverrides() error: %v", err)
	}

	if len(o.Override) != 2 {
		t.Fatalf("len(Override) = %d, want 2", len(o.Override))
	}
	if got := o.Override["core"].Requires[0]; got != "qtcreator-qbs = %{version}" {
		t.Errorf("core requires = %q", got)
	}
	if got := o.Override["utils"].DevelFiles[0]; got != "%{_includedir}/qtcreator/src/libs/utils/extra" {
		t.Errorf("utils devel-files = %q", got)
	}
}

func TestLoadOverrides_MissingFile(t *testing.T) {
	_, err := LoadOverrides(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadOverrides() err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadOverrides_BadTOML(t *testing.T) {
	_, err := LoadOverrides(writeOverrides(t, "[override.core\nrequires = ["))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("LoadOverrides() err = %v, want INVALID_FORMAT", err)
	}
}

func TestOverridesApply(t *testing.T) {
	r := New()
	if _, err := r.Add("Core", KindPlugin, "coreplugin", nil); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if _, err := r.Add("Utils", KindLibrary, "utils", nil); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	o, err := LoadOverrides(writeOverrides(t, overridesTOML))
	if err != nil {
		t.Fatalf("LoadOverrides() error: %v", err)
	}
	if err := o.Apply(r); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	core, _ := r.Lookup("core")
	if len(core.RequiresExtra) != 1 || len(core.FilesExtra) != 1 {
		t.Errorf("core extras = %v / %v", core.RequiresExtra, core.FilesExtra)
	}
}

func TestOverridesApply_UnknownComponent(t *testing.T) {
	r := New()
	o := Overrides{Override: map[string]OverrideEntry{"ghost": {Requires: []string{"x"}}}}

	if err := o.Apply(r); !errors.Is(err, errors.ErrCodeUnknownComponent) {
		t.Errorf("Apply() err = %v, want UNKNOWN_COMPONENT", err)
	}
}
