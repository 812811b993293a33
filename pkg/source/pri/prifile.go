package pri

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/pasccom/qtcreator-deptree/pkg/errors"
	"github.com/pasccom/qtcreator-deptree/pkg/registry"
)

var (
	reSpaces        = regexp.MustCompile(` +`)
	reLibName       = regexp.MustCompile(`^QTC_LIB_NAME *= *`)
	reLibDepends    = regexp.MustCompile(`^QTC_LIB_DEPENDS *\+?= *`)
	rePluginName    = regexp.MustCompile(`^QTC_PLUGIN_NAME *= *`)
	rePluginDepends = regexp.MustCompile(`^QTC_PLUGIN_DEPENDS *\+?= *`)
)

// declaration is the raw content of one dependency declaration file before
// cross-folder resolution: the declared display name and dependency tokens,
// which reference sibling folders rather than display names.
type declaration struct {
	name string
	deps []string
}

// parseDeclFile reads a qmake dependency declaration file. Lines ending in
// a backslash continue on the next line. Libraries take their name from
// QTC_LIB_NAME, plugins from QTC_PLUGIN_NAME. Library dependencies are read
// for both kinds; plugin dependencies only for plugins.
func parseDeclFile(path string, kind registry.Kind) (declaration, error) {
	var d declaration

	f, err := os.Open(path)
	if err != nil {
		return d, errors.Wrap(errors.ErrCodeFileNotFound, err, "declaration file %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var pending string
	flush := func(line string) {
		switch {
		case kind == registry.KindLibrary && reLibName.MatchString(line):
			d.name = reLibName.ReplaceAllString(line, "")
		case kind == registry.KindPlugin && rePluginName.MatchString(line):
			d.name = rePluginName.ReplaceAllString(line, "")
		}
		if reLibDepends.MatchString(line) {
			d.deps = append(d.deps, splitDeps(reLibDepends.ReplaceAllString(line, ""))...)
		}
		if kind == registry.KindPlugin && rePluginDepends.MatchString(line) {
			d.deps = append(d.deps, splitDeps(rePluginDepends.ReplaceAllString(line, ""))...)
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if pending != "" {
			line = pending + " " + line
			pending = ""
		}
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, `\`) {
			pending = strings.TrimSpace(strings.TrimSuffix(line, `\`))
			continue
		}
		flush(line)
	}
	if pending != "" {
		flush(pending)
	}
	if err := scanner.Err(); err != nil {
		return d, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", path)
	}
	return d, nil
}

func splitDeps(s string) []string {
	var out []string
	for _, tok := range reSpaces.Split(strings.TrimSpace(s), -1) {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
