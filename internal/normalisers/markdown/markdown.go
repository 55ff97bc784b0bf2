// Package markdown derives titles, filename tokens and normalised text from
// markdown documents.
package markdown

import (
	"path"
	"regexp"
	"strings"
)

// titleScanLines is how many leading lines are searched for a heading.
const titleScanLines = 10

var (
	multiNewlines = regexp.MustCompile(`\n{3,}`)
	whitespace    = regexp.MustCompile(`\s+`)
	wordStart     = regexp.MustCompile(`\b\w`)
	headingPrefix = regexp.MustCompile(`^#\s+`)
)

// genericHeadings are headings too vague to identify a document.
var genericHeadings = map[string]bool{
	"logging":      true,
	"overview":     true,
	"introduction": true,
	"summary":      true,
}

// Preprocess collapses 3+ newlines to two, then every whitespace run to a
// single space, and trims the ends.
func Preprocess(text string) string {
	text = multiNewlines.ReplaceAllString(text, "\n\n")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// FilenameTokens returns the basename without extension with '-' and '_'
// replaced by spaces.
func FilenameTokens(filename string) string {
	base := path.Base(toSlash(filename))
	base = strings.TrimSuffix(base, path.Ext(base))
	return strings.NewReplacer("-", " ", "_", " ").Replace(base)
}

// TitleCaseFilename turns "getting-started.md" into "Getting Started".
func TitleCaseFilename(filename string) string {
	return wordStart.ReplaceAllStringFunc(FilenameTokens(filename), strings.ToUpper)
}

// ExtractTitle picks a document title. The first "# " heading within the
// first ten lines wins unless it is a single word or a generic heading, in
// which case the title-cased filename is used. Without a heading the
// title-cased filename is used as well.
func ExtractTitle(content, filename string) string {
	fallback := TitleCaseFilename(filename)

	lines := strings.SplitN(content, "\n", titleScanLines+1)
	if len(lines) > titleScanLines {
		lines = lines[:titleScanLines]
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "# ") {
			continue
		}
		heading := strings.TrimSpace(trimmed[2:])
		if !strings.Contains(heading, " ") || genericHeadings[strings.ToLower(heading)] {
			return fallback
		}
		return heading
	}
	return fallback
}

// FirstHeading returns the text of the first "# " line anywhere in content,
// or "" when there is none.
func FirstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return headingPrefix.ReplaceAllString(trimmed, "")
		}
	}
	return ""
}

// NormaliseFilename is the lower-cased form of FilenameTokens. Directory
// names are not part of it.
func NormaliseFilename(filename string) string {
	return strings.ToLower(FilenameTokens(filename))
}

// HeadExcerpt returns the first n characters of s.
func HeadExcerpt(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
