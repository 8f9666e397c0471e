// Package slug normalises names of places and organisations into the
// URL-safe form used inside election identifiers.
//
// The transformation is idempotent: Slugify(Slugify(s)) == Slugify(s) for
// all inputs. Identifiers embed slugs verbatim, so re-slugging an already
// built identifier segment must never change it.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD, drops combining marks, and recomposes.
// "Ynys Môn" -> "Ynys Mon".
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify returns the canonical slug for a name: diacritics stripped,
// case-folded, punctuation dropped, whitespace runs collapsed to single
// hyphens. Apostrophes vanish rather than split words, so
// "St. Helen's" -> "st-helens".
func Slugify(s string) string {
	folded, _, err := transform.String(stripAccents, s)
	if err != nil {
		// Remove is total over valid UTF-8; invalid bytes pass through and
		// get dropped by the keep filter below.
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '_':
			pendingHyphen = true
		default:
			// punctuation and anything else: dropped without separating
		}
	}
	return b.String()
}
