package repo

import "strings"

// escapeLike escapes LIKE metacharacters with a backslash so that prefix is
// matched literally. Use with ESCAPE '\'.
func escapeLike(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix)
}

// escapeGlob wraps GLOB metacharacters in brackets so that prefix is matched
// literally. SQLite's GLOB is case-sensitive, unlike its LIKE.
func escapeGlob(prefix string) string {
	r := strings.NewReplacer(`[`, `[[]`, `*`, `[*]`, `?`, `[?]`)
	return r.Replace(prefix)
}
