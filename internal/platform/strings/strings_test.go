package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	def := []string{"a"}
	if got := IfEmpty(nil, def); len(got) != 1 || got[0] != "a" {
		t.Fatalf("got %v", got)
	}
	in := []string{"b"}
	if got := IfEmpty(in, def); len(got) != 1 || got[0] != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestMustPrefix(t *testing.T) {
	if got := MustPrefix(" /v1/ "); got != "/v1" {
		t.Fatalf("got %q", got)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("empty prefix should panic")
		}
	}()
	MustPrefix("  /  ")
}

func TestMustString(t *testing.T) {
	if MustString("x", "name") != "x" {
		t.Fatal("value should pass through")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("blank value should panic")
		}
	}()
	MustString("   ", "name")
}
