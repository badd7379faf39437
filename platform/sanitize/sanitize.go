// Package sanitize strips markup from user supplied text before it is stored.
package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

// maxPasses bounds re-stripping of markup that was hidden behind entities.
const maxPasses = 3

// StripHTML returns only the text content of s, with entities decoded and
// script/style bodies dropped. Markup revealed by entity decoding is stripped too.
func StripHTML(s string) string {
	for i := 0; i < maxPasses && strings.ContainsAny(s, "<&"); i++ {
		next := textContent(s)
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

func textContent(s string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way keep what was read.
			return b.String()
		case html.StartTagToken:
			if isRawTextTag(tokenizer) {
				skipDepth++
			}
		case html.EndTagToken:
			if isRawTextTag(tokenizer) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}

func isRawTextTag(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}

// Text sanitizes a string for safe text storage by stripping HTML.
func Text(s string) string {
	return StripHTML(s)
}

// TextPtr sanitizes an optional string.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := StripHTML(*s)
	return &clean
}

// List sanitizes every element and drops empty results.
func List(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if clean := StripHTML(v); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
