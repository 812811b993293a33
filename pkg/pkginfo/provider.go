// Package pkginfo resolves human-readable summary and description text for
// generated subpackages. Lookups cascade through a chain of providers and
// fail soft: a component with no known text gets its request's fallback, so
// a missing data source never aborts a packaging run.
package pkginfo

import (
	"context"
	"fmt"
)

// Kind selects which text a request resolves.
type Kind int

const (
	// KindSummary is the one-line package summary.
	KindSummary Kind = iota
	// KindDescription is the multi-line package description.
	KindDescription
)

func (k Kind) String() string {
	if k == KindDescription {
		return "description"
	}
	return "summary"
}

// Request is one text lookup for a subpackage.
type Request struct {
	Kind    Kind
	Package string // full subpackage name, e.g. "qtcreator-lib-utils"
	Default string // text used when no provider answers
}

// Fallback returns the request's default text, or a generic placeholder
// when none was supplied.
func (r Request) Fallback() string {
	if r.Default != "" {
		return r.Default
	}
	if r.Kind == KindDescription {
		return fmt.Sprintf("This package is part of Qt Creator (%s).", r.Package)
	}
	return fmt.Sprintf("Qt Creator component %s", r.Package)
}

// Provider resolves package text from one data source.
//
// Lookup returns the resolved text, or an error when the source cannot
// answer. Callers treat every error as "try the next source": provider
// failures are never fatal.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Lookup resolves the requested text.
	Lookup(ctx context.Context, req Request) (string, error)
}
