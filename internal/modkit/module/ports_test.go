package module

import (
	"testing"

	phttp "bookmarkd/internal/platform/net/http"
	kit "bookmarkd/internal/platform/testkit"
)

type counterPort interface{ Count() int }

type fixedCounter struct{ n int }

func (f fixedCounter) Count() int { return f.n }

type stubModule struct{ ports any }

func (s stubModule) Name() string             { return "stub" }
func (s stubModule) Ports() any               { return s.ports }
func (s stubModule) MountRoutes(phttp.Router) {}

func TestPortsOfDirect(t *testing.T) {
	m := stubModule{ports: fixedCounter{n: 2}}
	got, ok := PortsOf[counterPort](m)
	if !ok || got.Count() != 2 {
		t.Fatalf("direct port: ok=%v got=%v", ok, got)
	}
}

func TestPortsOfWalksStructFields(t *testing.T) {
	type bundle struct {
		Counter counterPort
		Other   string
	}
	m := stubModule{ports: bundle{Counter: fixedCounter{n: 7}}}
	got, ok := PortsOf[counterPort](m)
	if !ok || got.Count() != 7 {
		t.Fatalf("bundled port: ok=%v got=%v", ok, got)
	}
}

func TestPortsOfMissing(t *testing.T) {
	if _, ok := PortsOf[counterPort](stubModule{}); ok {
		t.Fatal("nil ports must not resolve")
	}
	if _, ok := PortsOf[counterPort](stubModule{ports: struct{ X int }{}}); ok {
		t.Fatal("unrelated ports must not resolve")
	}
}

func TestMustPortsOfPanicsOnMiss(t *testing.T) {
	kit.MustPanic(t, func() {
		_ = MustPortsOf[counterPort](stubModule{})
	})
}
