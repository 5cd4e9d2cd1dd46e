package catalog

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	topupSuffix = regexp.MustCompile(`(?i)\btopup\s*$`)

	// Mobile Legends entries carry the game name in front of the item name.
	manualPrefixes = []string{
		"MOBILELEGENDS - ",
		"MOBILELEGEND - ",
		"MOBILELEGENDS-",
		"MOBILELEGEND-",
	}
	nameSeparators = []string{" - ", "- ", " -", "-"}
)

// Slugify turns a display name into a URL segment: lowercase ASCII
// letters, digits and single dashes in place of whitespace runs.
func Slugify(s string) string {
	s = norm.NFKD.String(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 0x300 && r <= 0x36f:
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', isSpace(r):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.FieldsFunc(b.String(), isSpace), "-")
}

// isSpace matches the whitespace class of the storefront's slug format,
// which counts U+FEFF and leaves out U+0085.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0xa0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return r >= 0x2000 && r <= 0x200a
}

// EndsWithTopup reports whether the value ends with the word "topup".
// Such entries are balance top-ups of the supplier itself and never sold.
func EndsWithTopup(s string) bool {
	return topupSuffix.MatchString(strings.TrimSpace(s))
}

// SanitizeName strips the supplier's "Brand - " style prefixes from a
// product, provider or category name.
func SanitizeName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	for _, prefix := range manualPrefixes {
		if len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
			return strings.TrimSpace(name[len(prefix):])
		}
	}

	lastPos, sepLen := -1, 0
	for _, sep := range nameSeparators {
		if pos := strings.LastIndex(name, sep); pos > lastPos {
			lastPos, sepLen = pos, len(sep)
		}
	}
	if lastPos >= 0 {
		if after := strings.TrimSpace(name[lastPos+sepLen:]); after != "" {
			return after
		}
	}

	return name
}
