// Package search builds case-insensitive substring filters for list endpoints.
package search

import (
	"strings"

	"gorm.io/gorm"
)

// escapeChar marks the next pattern character as literal. Backslash is avoided
// because MySQL string literals treat it as an escape of their own.
const escapeChar = "!"

var escaper = strings.NewReplacer( //nolint:gochecknoglobals
	escapeChar, escapeChar+escapeChar,
	"%", escapeChar+"%",
	"_", escapeChar+"_",
)

// Pattern returns a LIKE pattern matching term anywhere. Wildcards in term match literally.
func Pattern(term string) string {
	return "%" + escaper.Replace(strings.ToLower(term)) + "%"
}

// Contains narrows q to rows where any of columns contains term, ignoring case.
// An empty or blank term leaves q unchanged.
func Contains(q *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}

	pattern := Pattern(term)
	conds := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))

	for _, column := range columns {
		conds = append(conds, "LOWER("+column+") LIKE ? ESCAPE '"+escapeChar+"'")
		args = append(args, pattern)
	}

	return q.Where(strings.Join(conds, " OR "), args...)
}
