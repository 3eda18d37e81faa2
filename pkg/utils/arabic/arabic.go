// Package arabic normalizes Arabic text for matching and converts numbers
// between Western and Arabic-Indic digits.
package arabic

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// letterFolds maps orthographic variants onto a single base letter.
var letterFolds = strings.NewReplacer(
	"أ", "ا",
	"إ", "ا",
	"آ", "ا",
	"ة", "ه",
	"ى", "ي",
)

// marks covers the harakat block, the superscript alef and the tatweel.
var marks = runes.Predicate(func(r rune) bool {
	return (r >= '\u064B' && r <= '\u065F') || r == '\u0670' || r == '\u0640'
})

// Normalize folds alef/teh-marbuta/alef-maksura variants, strips diacritics
// and tatweel, and trims surrounding whitespace. It is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	folded := letterFolds.Replace(text)
	stripped, _, err := transform.String(runes.Remove(marks), folded)
	if err != nil {
		stripped = folded
	}

	return strings.TrimSpace(stripped)
}

// SearchKey is the lower-cased normalized form used for substring matching
// against persisted location columns.
func SearchKey(text string) string {
	return strings.ToLower(Normalize(text))
}
