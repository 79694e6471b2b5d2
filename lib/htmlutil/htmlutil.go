package htmlutil

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under node.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	// markup inside these is never visible text
	if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		// block level siblings like <p> would otherwise be glued together
		if child.Type == html.ElementNode && (child.Data == "p" || child.Data == "br" || child.Data == "div" || child.Data == "li") {
			buffer.WriteByte(' ')
		}
		child = child.NextSibling
	}
}

// SelectionText is GetText over every node in the selection, cleaned with CleanText.
func SelectionText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer)
		buffer.WriteByte(' ')
	}
	return CleanText(buffer.String())
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func normalizeRunes(s string) string {
	newStr := strings.Builder{}
	newStr.Grow(len(s))
	for _, c := range s {
		switch {
		case unicode.IsSpace(c):
			newStr.WriteRune(' ')
		case unicode.IsPrint(c):
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText decodes html entities (including ones that were escaped twice), drops
// non-printable characters and collapses all whitespace runs into a single space.
func CleanText(s string) string {
	s = html.UnescapeString(s)
	if strings.ContainsRune(s, '&') {
		s = html.UnescapeString(s)
	}
	s = normalizeRunes(s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

var ordinalPrefix = regexp.MustCompile(`^\d+\.\s*`)
var ordinalNumber = regexp.MustCompile(`^\s*(\d+)\.`)

// StripOrdinal removes a leading "N. " list ordinal, ex. "1. Tom Hanks" -> "Tom Hanks".
func StripOrdinal(s string) string {
	return strings.TrimSpace(ordinalPrefix.ReplaceAllString(s, ""))
}

// LeadingInt parses the digits at the start of s (after leading whitespace), "12. Meryl Streep"
// gives 12. ok is false when s does not start with a digit.
func LeadingInt(s string) (value int, ok bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	value, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return value, true
}

// Ordinal parses a leading "N." list ordinal, "3. Denzel Washington" gives 3 but
// "50 Cent" is not an ordinal.
func Ordinal(s string) (value int, ok bool) {
	groups := ordinalNumber.FindStringSubmatch(s)
	if len(groups) < 2 {
		return 0, false
	}
	return LeadingInt(groups[1])
}
