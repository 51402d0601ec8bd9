package utils

import (
	"strings"
	"unicode"
)

// Slugify normalizes free-form text into a lowercase, hyphen-separated slug.
// Runs of non-alphanumeric characters collapse into a single hyphen.
func Slugify(input string) string {
	var b strings.Builder
	b.Grow(len(input))

	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}

// DeriveSpaceID computes the deterministic identifier of a space from its name.
func DeriveSpaceID(spaceName string) string {
	return Slugify(spaceName)
}

// DeriveThreadID computes the deterministic identifier of a thread from its
// title and the creator identity. Two creators posting the same title yield
// distinct ids; the same creator reusing a title collides on purpose.
func DeriveThreadID(title, creatorID string) string {
	slug := Slugify(title)
	if slug == "" {
		return creatorID
	}
	return slug + "-" + creatorID
}
