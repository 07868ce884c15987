// Package fingerprint derives stable short keys from record content and URLs
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Remove zero-width and format chars
// 5 Width fold fullwidth to ASCII
// 6 Collapse whitespace to single spaces and trim
// the normalized form is hashed with sha256 and truncated to a 16 hex char key
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// KeyLen is the length of the hex key returned by Key and URLKey
const KeyLen = 16

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// Normalize returns the canonical form of s used for fingerprinting
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}

	return strings.Join(strings.Fields(ns), " ")
}

// Key hashes the normalized content and returns a short stable hex key
func Key(s string) string {
	sum := sha256.Sum256([]byte(Normalize(s)))
	return hex.EncodeToString(sum[:])[:KeyLen]
}

// URLKey keys a URL without case folding the path since URL paths are case sensitive
// the scheme and host are lowercased and a trailing slash is dropped
func URLKey(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "://"); i > 0 {
		s = strings.ToLower(s[:i]) + s[i:]
		rest := s[i+3:]
		if j := strings.IndexAny(rest, "/?#"); j >= 0 {
			s = s[:i+3] + strings.ToLower(rest[:j]) + rest[j:]
		} else {
			s = s[:i+3] + strings.ToLower(rest)
		}
	}
	s = strings.TrimSuffix(s, "/")
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:KeyLen]
}
