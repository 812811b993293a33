package pkginfo

import (
	"context"

	"github.com/pasccom/qtcreator-deptree/pkg/errors"
	"github.com/pasccom/qtcreator-deptree/pkg/observability"
)

// Composite cascades lookups through a provider chain: the first provider
// returning non-empty text wins, failures move on to the next source.
type Composite struct {
	providers []Provider
}

// NewComposite builds a provider chain, tried in argument order.
func NewComposite(providers ...Provider) *Composite {
	return &Composite{providers: providers}
}

func (c *Composite) Name() string { return "composite" }

// Lookup tries each provider in turn. When no provider answers, it falls
// back to the request's default text rather than failing.
func (c *Composite) Lookup(ctx context.Context, req Request) (string, error) {
	for _, p := range c.providers {
		observability.Query().OnQuery(ctx, p.Name(), req.Kind.String(), req.Package)
		if text, err := p.Lookup(ctx, req); err == nil && text != "" {
			return text, nil
		}
	}
	observability.Query().OnQueryFallback(ctx, req.Kind.String(), req.Package)
	return req.Fallback(), nil
}

// Static answers every lookup with the request's fallback text. It sits at
// the end of a chain, or stands alone when no external data source is
// configured.
type Static struct{}

func (Static) Name() string { return "static" }

func (Static) Lookup(_ context.Context, req Request) (string, error) {
	return req.Fallback(), nil
}

// notFound is returned by providers whose source has no entry for the
// requested package.
func notFound(req Request) error {
	return errors.New(errors.ErrCodeNotFound, "no %s for %s", req.Kind, req.Package)
}
