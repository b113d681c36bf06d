// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sanitize derives filesystem-safe output filenames from
// conversation titles.
package sanitize

import (
	"regexp"
	"strings"
)

const (
	// maxStemRunes bounds the title-derived part of the filename.
	maxStemRunes = 80

	// idSuffixRunes is how much of the conversation id disambiguates
	// equal titles.
	idSuffixRunes = 8
)

var (
	// illegalChars drops everything outside letters, digits, underscore,
	// hyphen, and whitespace.
	illegalChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Filename derives the Markdown filename for a conversation. Illegal
// characters are stripped, whitespace runs collapse to underscores, the stem
// is bounded, and the leading runes of the conversation id are appended so
// two conversations with the same title never collide. Same title and id
// always yield the same name.
func Filename(title, id string) string {
	stem := illegalChars.ReplaceAllString(title, "")
	stem = strings.TrimSpace(stem)
	stem = whitespace.ReplaceAllString(stem, "_")

	if r := []rune(stem); len(r) > maxStemRunes {
		stem = strings.TrimRight(string(r[:maxStemRunes]), "_")
	}
	if stem == "" {
		stem = "untitled"
	}

	suffix := id
	if r := []rune(suffix); len(r) > idSuffixRunes {
		suffix = string(r[:idSuffixRunes])
	}
	if suffix == "" {
		return stem + ".md"
	}
	return stem + "_" + suffix + ".md"
}
