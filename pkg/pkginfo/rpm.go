package pkginfo

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pasccom/qtcreator-deptree/pkg/errors"
)

// RPMQuery resolves package text from the installed RPM database via the
// rpm command line tool. Useful when regenerating metadata for packages a
// previous build already installed.
type RPMQuery struct {
	// Command overrides the rpm binary, for tests.
	Command string
}

// NewRPMQuery creates an RPM database provider.
func NewRPMQuery() *RPMQuery { return &RPMQuery{Command: "rpm"} }

func (q *RPMQuery) Name() string { return "rpm" }

// Lookup queries the RPM database for the package's summary or
// description. Fails with ErrCodeNotFound when the package is not
// installed or rpm is unavailable.
func (q *RPMQuery) Lookup(ctx context.Context, req Request) (string, error) {
	format := "%{summary}"
	if req.Kind == KindDescription {
		format = "%{description}"
	}

	cmd := exec.CommandContext(ctx, q.Command, "-q", "--queryformat", format, req.Package)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(errors.ErrCodeNotFound, err,
			"rpm query for %s: %s", req.Package, strings.TrimSpace(stderr.String()))
	}
	text := strings.TrimSpace(out.String())
	if text == "" || text == "(none)" {
		return "", notFound(req)
	}
	return text, nil
}
