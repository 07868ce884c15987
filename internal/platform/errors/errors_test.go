package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeContentGone, http.StatusNotFound},
		{ErrorCodeDuplicate, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeRateLimited, http.StatusTooManyRequests},
		{ErrorCodeTransient, http.StatusServiceUnavailable},
		{ErrorCodeMalformed, http.StatusBadGateway},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError}, // default branch
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestWrapKeepsOrigAndCode(t *testing.T) {
	src := stderrs.New("root")
	e := Wrap(src, ErrorCodeTransient, "fetch failed")
	if CodeOf(e) != ErrorCodeTransient {
		t.Fatalf("CodeOf = %v", CodeOf(e))
	}
	if got := stderrs.Unwrap(e); got == nil || got.Error() != "root" {
		t.Fatalf("Unwrap = %v", got)
	}
	if Root(e).Error() != "root" {
		t.Fatalf("Root = %v", Root(e))
	}
}

func TestCodeOfPlainErrorIsUnknown(t *testing.T) {
	if got := CodeOf(stderrs.New("whatever")); got != ErrorCodeUnknown {
		t.Fatalf("CodeOf(plain) = %v", got)
	}
}

func TestRetryableFollowsTaxonomy(t *testing.T) {
	retry := []error{
		Transientf("timeout"),
		RateLimitedf("429"),
		Malformedf("bad payload"),
		stderrs.New("unclassified"),
	}
	for _, e := range retry {
		if !Retryable(e) {
			t.Fatalf("%v should be retryable", e)
		}
	}
	terminal := []error{
		ContentGonef("deleted"),
		Unauthorizedf("nope"),
		Configf("bad config"),
		StateCorruptionf("bad file"),
	}
	for _, e := range terminal {
		if Retryable(e) {
			t.Fatalf("%v should be terminal", e)
		}
	}
}

func TestFatalErrors(t *testing.T) {
	if !Fatal(Configf("missing key")) || !Fatal(StateCorruptionf("bad state")) {
		t.Fatal("config and state corruption are fatal")
	}
	if Fatal(Transientf("flake")) {
		t.Fatal("transient is not fatal")
	}
}

func TestWireFormCarriesCodeAndMessage(t *testing.T) {
	e := Newf(ErrorCodeValidation, "field %s is bad", "url")
	w := WireFrom(e)
	if w.Code != ErrorCodeValidation || w.Message != "field url is bad" {
		t.Fatalf("wire %+v", w)
	}
}

func TestWithFieldAndOp(t *testing.T) {
	e := WithOp(WithField(InvalidArgf("bad"), "url"), "submit")
	pe, ok := As(e)
	if !ok {
		t.Fatal("As failed")
	}
	if pe.Field() != "url" || pe.Op() != "submit" {
		t.Fatalf("field=%q op=%q", pe.Field(), pe.Op())
	}
}
