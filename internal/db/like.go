package db

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE/ILIKE pattern matching s anywhere in the
// column. Wildcards in s match literally (backslash is the default escape).
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
