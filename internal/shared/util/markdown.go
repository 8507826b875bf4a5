package util

import "strings"

// StripMarkdown removes the markdown markers used in generated documents,
// leaving plain text suitable for .txt export.
func StripMarkdown(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '*', '_', '#', '`':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
