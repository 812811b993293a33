package pkginfo

import (
	"context"
	"testing"
	"time"

	"github.com/pasccom/qtcreator-deptree/pkg/cache"
)

type fakeProvider struct {
	name    string
	answers map[string]string // package -> text
	calls   int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Lookup(_ context.Context, req Request) (string, error) {
	p.calls++
	if text, ok := p.answers[req.Package]; ok {
		return text, nil
	}
	return "", notFound(req)
}

func TestComposite_FirstAnswerWins(t *testing.T) {
	first := &fakeProvider{name: "first", answers: map[string]string{"qtcreator-lib-utils": "Utility library"}}
	second := &fakeProvider{name: "second", answers: map[string]string{"qtcreator-lib-utils": "shadowed"}}
	c := NewComposite(first, second)

	text, err := c.Lookup(context.Background(), Request{Kind: KindSummary, Package: "qtcreator-lib-utils"})
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if text != "Utility library" {
		t.Errorf("Lookup() = %q, want %q", text, "Utility library")
	}
	if second.calls != 0 {
		t.Errorf("second provider called %d times, want 0", second.calls)
	}
}

func TestComposite_CascadesOnFailure(t *testing.T) {
	first := &fakeProvider{name: "first"}
	second := &fakeProvider{name: "second", answers: map[string]string{"qtcreator-plugin-core": "Core plugin"}}
	c := NewComposite(first, second)

	text, err := c.Lookup(context.Background(), Request{Kind: KindSummary, Package: "qtcreator-plugin-core"})
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if text != "Core plugin" {
		t.Errorf("Lookup() = %q, want %q", text, "Core plugin")
	}
}

func TestComposite_FallsBackToDefault(t *testing.T) {
	c := NewComposite(&fakeProvider{name: "empty"})

	req := Request{Kind: KindDescription, Package: "qtcreator-lib-ghost", Default: "No description available."}
	text, err := c.Lookup(context.Background(), req)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if text != "No description available." {
		t.Errorf("Lookup() = %q, want default", text)
	}
}

func TestStatic_UsesPlaceholderWithoutDefault(t *testing.T) {
	text, err := Static{}.Lookup(context.Background(), Request{Kind: KindSummary, Package: "qtcreator-lib-utils"})
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if text == "" {
		t.Error("Lookup() = empty, want placeholder text")
	}
}

func TestCached_SecondLookupServedFromCache(t *testing.T) {
	inner := &fakeProvider{name: "inner", answers: map[string]string{"qtcreator-lib-utils": "Utility library"}}
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	defer store.Close()

	c := NewCached(inner, store, time.Minute)
	req := Request{Kind: KindSummary, Package: "qtcreator-lib-utils"}

	for i := 0; i < 2; i++ {
		text, err := c.Lookup(context.Background(), req)
		if err != nil {
			t.Fatalf("Lookup() #%d error: %v", i+1, err)
		}
		if text != "Utility library" {
			t.Errorf("Lookup() #%d = %q", i+1, text)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner provider called %d times, want 1", inner.calls)
	}
}

func TestCached_DoesNotCacheFailures(t *testing.T) {
	inner := &fakeProvider{name: "inner"}
	c := NewCached(inner, cache.NewNullCache(), time.Minute)

	req := Request{Kind: KindSummary, Package: "qtcreator-lib-ghost"}
	if _, err := c.Lookup(context.Background(), req); err == nil {
		t.Error("Lookup() error = nil, want failure passthrough")
	}
	if _, err := c.Lookup(context.Background(), req); err == nil {
		t.Error("second Lookup() error = nil, want failure passthrough")
	}
	if inner.calls != 2 {
		t.Errorf("inner provider called %d times, want 2", inner.calls)
	}
}

func TestRPMQuery_UnavailableCommand(t *testing.T) {
	q := &RPMQuery{Command: "rpm-definitely-not-installed"}
	if _, err := q.Lookup(context.Background(), Request{Kind: KindSummary, Package: "qtcreator"}); err == nil {
		t.Error("Lookup() error = nil, want failure for missing command")
	}
}

func TestRequest_Fallback(t *testing.T) {
	r := Request{Kind: KindSummary, Package: "qtcreator-lib-utils"}
	if r.Fallback() == "" {
		t.Error("Fallback() = empty without default")
	}
	r.Default = "custom"
	if r.Fallback() != "custom" {
		t.Errorf("Fallback() = %q, want custom", r.Fallback())
	}
}
