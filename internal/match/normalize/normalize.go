// Package normalize reduces free-form titles and artist names to a
// canonical form for comparison by the similarity scorer.
package normalize

import (
	"regexp"
	"strings"
)

var (
	featClause    = regexp.MustCompile(`\(\s*feat\.?[^)]*\)`)
	bracketClause = regexp.MustCompile(`\[[^\]]*\]`)
	remasterTail  = regexp.MustCompile(`(?i)\s*-\s*remaster(ed)?.*$`)
	punctuation   = regexp.MustCompile(`[^\w\s\-:&]`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// String reduces s to a canonical comparison form: lowercased, with
// "(feat. ...)" and "[...]" clauses removed, a trailing "- remastered..."
// suffix stripped, punctuation (other than hyphen/colon/ampersand) removed,
// and whitespace collapsed and trimmed. It is total: an empty input yields
// the empty string. Deterministic and pure.
func String(s string) string {
	if s == "" {
		return ""
	}
	out := strings.ToLower(s)
	out = featClause.ReplaceAllString(out, "")
	out = bracketClause.ReplaceAllString(out, "")
	out = remasterTail.ReplaceAllString(out, "")
	out = punctuation.ReplaceAllString(out, "")
	out = whitespace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
