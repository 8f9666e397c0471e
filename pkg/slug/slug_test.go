package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The cases cover characters that actually appear in names of UK places,
// and every case doubles as an idempotence check.
func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"apostrophe and full stop", "St. Helen's", "st-helens"},
		{"exclamation mark", "Westward Ho!", "westward-ho"},
		{"welsh diacritics", "Ynys Môn", "ynys-mon"},
		{"gaelic diacritics and apostrophe", "Eilean a' Cheò", "eilean-a-cheo"},
		{"leading and trailing whitespace", "   foo \t ", "foo"},
		{"ampersand dropped", "Langbaurgh & Coatham", "langbaurgh-coatham"},
		{"already a slug", "place-name", "place-name"},
		{"mixed case", "Greater London", "greater-london"},
		{"underscores treated as separators", "some_ward_name", "some-ward-name"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Slugify(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, Slugify(got), "slugify must be idempotent")
		})
	}
}

func FuzzSlugifyIdempotent(f *testing.F) {
	for _, seed := range []string{"St. Helen's", "Ynys Môn", "a--b", "  ", "Çà-et-là"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		once := Slugify(s)
		if twice := Slugify(once); twice != once {
			t.Fatalf("Slugify not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}
