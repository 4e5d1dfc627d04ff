// Package output handles file naming and writing for generated documents.
// Filenames are derived from program metadata (subject, career code, year)
// and constrained to a filesystem- and header-safe character set.
package output

import (
	"strings"

	"github.com/Ignatius32/programas-crubunco/core/textnorm"
)

// maxBaseLen caps the filename (without extension) to stay well inside
// filesystem and Content-Disposition limits.
const maxBaseLen = 150

// Filename composes "<subject>_<career>_<year>.pdf" from program metadata.
// The subject is normalized and diacritic-folded first; anything outside the
// safe set becomes an underscore and underscore runs collapse to one.
func Filename(subject, careerCode, year string) string {
	return Compose(subject, careerCode, year, ".pdf")
}

// Compose builds a sanitized "<subject>_<career>_<year><ext>" name.
func Compose(subject, careerCode, year, ext string) string {
	if subject == "" {
		subject = "programa"
	}
	parts := []string{subject, careerCode, year}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	base := sanitize(strings.Join(kept, "_"))
	return truncate(base, maxBaseLen) + ext
}

// sanitize maps a raw title into the safe filename set.
func sanitize(s string) string {
	s = textnorm.DecodeEntities(s)
	s = textnorm.Normalize(s)
	s = textnorm.FoldDiacritics(s)

	var b strings.Builder
	b.Grow(len(s))
	lastUnderscore := false
	for _, ch := range s {
		safe := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') || ch == '-'
		if safe {
			b.WriteRune(ch)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// truncate cuts s to at most n bytes without splitting a multi-byte rune.
// After sanitize the string is ASCII, but truncate stays rune-safe anyway.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return strings.TrimRight(s[:n], "_")
}
