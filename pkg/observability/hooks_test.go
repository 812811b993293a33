package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	scans   int
	reduces int
}

func (h *recordingPipelineHooks) OnScanStart(context.Context, string) { h.scans++ }
func (h *recordingPipelineHooks) OnReduceComplete(context.Context, int, int, time.Duration) {
	h.reduces++
}

func TestSetPipelineHooks(t *testing.T) {
	defer Reset()

	h := &recordingPipelineHooks{}
	SetPipelineHooks(h)

	Pipeline().OnScanStart(context.Background(), "/src")
	Pipeline().OnReduceComplete(context.Background(), 3, 1, time.Millisecond)

	if h.scans != 1 {
		t.Errorf("scans = %d, want 1", h.scans)
	}
	if h.reduces != 1 {
		t.Errorf("reduces = %d, want 1", h.reduces)
	}
}

func TestSetPipelineHooks_NilIgnored(t *testing.T) {
	defer Reset()

	SetPipelineHooks(nil)
	if Pipeline() == nil {
		t.Fatal("Pipeline() = nil after SetPipelineHooks(nil)")
	}
}

func TestReset_RestoresNoops(t *testing.T) {
	SetPipelineHooks(&recordingPipelineHooks{})
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T after Reset, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T after Reset, want NoopCacheHooks", Cache())
	}
	if _, ok := Query().(NoopQueryHooks); !ok {
		t.Errorf("Query() = %T after Reset, want NoopQueryHooks", Query())
	}
}
