// Package spectmpl splices generated RPM spec fragments into a template
// document. The template carries marker lines where each fragment belongs;
// everything else passes through untouched, so hand-maintained parts of the
// spec file stay hand-maintained.
package spectmpl

import (
	"io"
	"os"
	"strings"

	"github.com/pasccom/qtcreator-deptree/pkg/errors"
)

// Marker lines recognized in templates. A marker must stand alone on its
// line, surrounding whitespace allowed.
const (
	MarkerMetadata      = "@DEPTREE_METADATA@"
	MarkerDevelMetadata = "@DEPTREE_DEVEL_METADATA@"
	MarkerFiles         = "@DEPTREE_FILES@"
	MarkerDevelFiles    = "@DEPTREE_DEVEL_FILES@"
)

// Fragments holds the generated blocks, one per marker.
type Fragments struct {
	Metadata      string
	DevelMetadata string
	Files         string
	DevelFiles    string
}

func (f Fragments) lookup(marker string) (string, bool) {
	switch marker {
	case MarkerMetadata:
		return f.Metadata, true
	case MarkerDevelMetadata:
		return f.DevelMetadata, true
	case MarkerFiles:
		return f.Files, true
	case MarkerDevelFiles:
		return f.DevelFiles, true
	default:
		return "", false
	}
}

// Splice replaces every marker line in the template with its fragment.
// A marker whose fragment is empty is simply dropped, which keeps output
// for empty graphs well-formed. Unrecognized text is copied through.
func Splice(template string, f Fragments) string {
	var b strings.Builder
	lines := strings.Split(template, "\n")
	for i, line := range lines {
		last := i == len(lines)-1
		if fragment, ok := f.lookup(strings.TrimSpace(line)); ok {
			// Fragments carry their own trailing newline.
			b.WriteString(strings.TrimSuffix(fragment, "\n"))
			if fragment == "" {
				continue
			}
		} else {
			b.WriteString(line)
		}
		if !last {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// SpliceFile reads a template file, splices the fragments, and writes the
// result. It returns the marker lines the template consumed, in document
// order, so callers can report what was filled in. Fails with
// ErrCodeFileNotFound if the template does not exist.
func SpliceFile(path string, w io.Writer, f Fragments) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "template %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read template %s", path)
	}
	template := string(data)
	if _, err := io.WriteString(w, Splice(template, f)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write spliced template")
	}
	return Markers(template), nil
}

// Markers lists the marker lines present in a template, in document order.
func Markers(template string) []string {
	var out []string
	for _, line := range strings.Split(template, "\n") {
		trimmed := strings.TrimSpace(line)
		switch trimmed {
		case MarkerMetadata, MarkerDevelMetadata, MarkerFiles, MarkerDevelFiles:
			out = append(out, trimmed)
		}
	}
	return out
}
