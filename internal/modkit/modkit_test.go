package modkit

import (
	"net/http"
	"testing"
)

func TestBuildDefaultsAndOptions(t *testing.T) {
	mw := func(next http.Handler) http.Handler { return next }
	b := Build(
		WithName("classify"),
		WithPrefix("/v1"),
		WithMiddlewares(mw),
		WithPorts(42),
	)
	if b.Name != "classify" || b.Prefix != "/v1" {
		t.Fatalf("name/prefix not applied: %+v", b)
	}
	if len(b.Mw) != 1 {
		t.Fatalf("expected one middleware, got %d", len(b.Mw))
	}
	if got, ok := b.Ports.(int); !ok || got != 42 {
		t.Fatalf("ports not carried through: %v", b.Ports)
	}
	if b.Subrouter == nil || b.Register == nil {
		t.Fatal("router hooks should default to no-ops")
	}
}
