package registry

import (
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/pasccom/qtcreator-deptree/pkg/errors"
)

// Overrides is the pre-declared packaging patch table, keyed by component
// name. It is loaded from a TOML file of the form:
//
//	[override.core]
//	requires = ["qtcreator-qbs = %{version}"]
//	files = ["%{_libdir}/qtcreator/plugins/core-extra.so"]
//	devel-files = ["%{_includedir}/qtcreator/src/plugins/core/extra"]
type Overrides struct {
	Override map[string]OverrideEntry `toml:"override"`
}

// OverrideEntry holds the extra lines appended to one component's
// computed packaging output.
type OverrideEntry struct {
	Requires   []string `toml:"requires"`
	Files      []string `toml:"files"`
	DevelFiles []string `toml:"devel-files"`
}

// LoadOverrides reads an overrides table from a TOML file.
func LoadOverrides(path string) (Overrides, error) {
	var o Overrides
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return o, errors.Wrap(errors.ErrCodeFileNotFound, err, "overrides file %s", path)
		}
		return o, err
	}
	if err := toml.Unmarshal(data, &o); err != nil {
		return o, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse overrides %s", path)
	}
	return o, nil
}

// Apply merges every override entry into the registry. An entry naming a
// component that does not exist is a fatal configuration mismatch.
func (o Overrides) Apply(r *Registry) error {
	// Deterministic application order; overrides are append-only so the
	// order only matters for error reporting.
	names := make([]string, 0, len(o.Override))
	for name := range o.Override {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e := o.Override[name]
		if err := r.Override(name, e.Requires, e.Files, e.DevelFiles); err != nil {
			return err
		}
	}
	return nil
}
