// Package textnorm canonicalizes text coming from the legacy archive and the
// catalog API. Records were authored across two decades of office software, so
// fields routinely carry Windows-1252 control bytes misread as Unicode,
// non-breaking spaces, typographic dashes and HTML entities.
package textnorm

import (
	"html"
	"strings"
)

// replacements maps problematic code points to their safe equivalents.
// The control range U+0080..U+009F holds Windows-1252 glyphs that were
// misdecoded as ISO-8859-1 at some point in the records' history.
var replacements = map[rune]string{
	'\u00A0': " ", // non-breaking space

	// Windows-1252 control range, restored to the intended glyphs
	'\u0080': "€", // euro sign
	'\u0082': "‚", // single low-9 quotation mark
	'\u0083': "ƒ", // latin small f with hook
	'\u0084': "„", // double low-9 quotation mark
	'\u0085': "…", // horizontal ellipsis
	'\u0086': "†", // dagger
	'\u0087': "‡", // double dagger
	'\u0088': "ˆ", // modifier circumflex
	'\u0089': "‰", // per mille sign
	'\u008A': "Š", // S with caron
	'\u008B': "‹", // single left angle quotation
	'\u008C': "Œ", // ligature OE
	'\u008E': "Ž", // Z with caron
	'\u0091': "‘", // left single quotation mark
	'\u0092': "’", // right single quotation mark
	'\u0093': "“", // left double quotation mark
	'\u0094': "”", // right double quotation mark
	'\u0095': "•", // bullet
	'\u0096': "–", // en dash
	'\u0097': "—", // em dash
	'\u0098': "˜", // small tilde
	'\u0099': "™", // trade mark sign
	'\u009A': "š", // s with caron
	'\u009B': "›", // single right angle quotation
	'\u009C': "œ", // ligature oe
	'\u009E': "ž", // z with caron
	'\u009F': "Ÿ", // Y with diaeresis

	// General punctuation folded to plain hyphens/spaces
	'\u2010': "-", // hyphen
	'\u2011': "-", // non-breaking hyphen
	'\u2012': "-", // figure dash
	'\u2028': " ", // line separator
	'\u2029': " ", // paragraph separator
	'\u2212': "-", // minus sign

	'\uFEFF': "", // BOM
}

// Normalize replaces problematic code points with safe equivalents and drops
// invalid UTF-8 bytes. It is idempotent: no replacement output is itself a
// replaced code point. It never fails; empty input comes back empty.
func Normalize(text string) string {
	if text == "" {
		return text
	}
	text = strings.ToValidUTF8(text, "")

	var b strings.Builder
	b.Grow(len(text))
	changed := false
	for _, r := range text {
		if rep, ok := replacements[r]; ok {
			b.WriteString(rep)
			changed = true
			continue
		}
		b.WriteRune(r)
	}
	if !changed {
		return text
	}
	return b.String()
}

// DecodeEntities converts named, numeric and hex HTML entities into their
// literal characters. Callers apply it before Normalize.
func DecodeEntities(text string) string {
	if text == "" {
		return text
	}
	return html.UnescapeString(text)
}

// diacritics maps accented Latin letters to their ASCII base letter. Used by
// the filename sanitizer only; document bodies keep their accents.
var diacritics = map[rune]rune{
	'\u00E1': 'a', '\u00E0': 'a', '\u00E4': 'a', '\u00E2': 'a', '\u00E3': 'a', '\u00E5': 'a',
	'\u00E9': 'e', '\u00E8': 'e', '\u00EB': 'e', '\u00EA': 'e',
	'\u00ED': 'i', '\u00EC': 'i', '\u00EF': 'i', '\u00EE': 'i',
	'\u00F3': 'o', '\u00F2': 'o', '\u00F6': 'o', '\u00F4': 'o', '\u00F5': 'o',
	'\u00FA': 'u', '\u00F9': 'u', '\u00FC': 'u', '\u00FB': 'u',
	'\u00F1': 'n', '\u00E7': 'c', '\u00FD': 'y', '\u00FF': 'y',
	'\u00C1': 'A', '\u00C0': 'A', '\u00C4': 'A', '\u00C2': 'A', '\u00C3': 'A', '\u00C5': 'A',
	'\u00C9': 'E', '\u00C8': 'E', '\u00CB': 'E', '\u00CA': 'E',
	'\u00CD': 'I', '\u00CC': 'I', '\u00CF': 'I', '\u00CE': 'I',
	'\u00D3': 'O', '\u00D2': 'O', '\u00D6': 'O', '\u00D4': 'O', '\u00D5': 'O',
	'\u00DA': 'U', '\u00D9': 'U', '\u00DC': 'U', '\u00DB': 'U',
	'\u00D1': 'N', '\u00C7': 'C', '\u00DD': 'Y',
}

// FoldDiacritics maps accented Latin letters to their ASCII base letters.
func FoldDiacritics(text string) string {
	if text == "" {
		return text
	}
	return strings.Map(func(r rune) rune {
		if base, ok := diacritics[r]; ok {
			return base
		}
		return r
	}, text)
}
