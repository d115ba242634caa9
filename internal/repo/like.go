package repo

import "strings"

// '!' is the escape character because MySQL treats a backslash inside a
// string literal as an escape of its own.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern turns user input into a case-folded literal substring
// pattern for use with `LIKE ? ESCAPE '!'`.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
