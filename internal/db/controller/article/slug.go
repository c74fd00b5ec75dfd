package article

import (
	"regexp"
	"strings"

	"github.com/gosimple/slug"

	"github.com/inkwell-api/inkwell/internal/uniuri"
)

const maxSlugBase = 200

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidSlug reports whether s consists of letters, digits, hyphens and underscores.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Slugify transliterates title to lowercase ASCII words joined by hyphens.
func Slugify(title string) string {
	s := slug.Make(title)

	if len(s) > maxSlugBase {
		s = strings.TrimRight(s[:maxSlugBase], "-")
	}

	return s
}

// generateSlug derives a slug from title with a random suffix.
func generateSlug(title string) string {
	base := Slugify(title)
	if base == "" {
		return uniuri.Suffix()
	}

	return base + "-" + uniuri.Suffix()
}
