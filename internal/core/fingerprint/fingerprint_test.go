package fingerprint

import "testing"

func TestNormalizeFoldsWidthAndCase(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello  World", "hello world"},
		{"ＨＥＬＬＯ", "hello"},
		{"café", "café"},
		{"a‍b", "ab"}, // zero width joiner dropped
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q want %q", c.in, got, c.want)
		}
	}
}

func TestKeyIsStableAndShort(t *testing.T) {
	a := Key("Check out this THREAD")
	b := Key("check out this  thread")
	if a != b {
		t.Fatalf("equivalent content should share a key: %q vs %q", a, b)
	}
	if len(a) != KeyLen {
		t.Fatalf("key length %d want %d", len(a), KeyLen)
	}
	if a == Key("something else entirely") {
		t.Fatal("distinct content should not collide on trivial inputs")
	}
}

func TestURLKeyNormalizesHostNotPath(t *testing.T) {
	if URLKey("HTTPS://Example.COM/Path") != URLKey("https://example.com/Path") {
		t.Fatal("scheme and host should be case insensitive")
	}
	if URLKey("https://example.com/Path") == URLKey("https://example.com/path") {
		t.Fatal("path case must be preserved")
	}
	if URLKey("https://example.com/a/") != URLKey("https://example.com/a") {
		t.Fatal("trailing slash should not change the key")
	}
}
