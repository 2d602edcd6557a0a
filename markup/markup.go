// Package markup finds the translatable text inside translation values that
// carry inline HTML, such as "Read the <a href=\"/terms\">terms</a>", and
// writes translated text back without touching the tags.
package markup

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// IgnoredTags contains HTML tags whose content is never translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// NoTranslateAttr marks an element whose content must be kept as is.
const NoTranslateAttr = "data-no-translate"

// TextNode is a translatable run of text found in a value.
type TextNode struct {
	ID      string // Position-based identifier, "node-N"
	Text    string // Text content, trimmed
	Context string // Enclosing element description for disambiguation
}

// Error reports a value that could not be parsed or serialised.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("markup: %s: %v", e.Message, e.Cause)
	}
	return "markup: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ContainsMarkup reports whether s contains at least one HTML element.
// Plain text with stray angle brackets ("a < b") does not count.
func ContainsMarkup(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}

	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			return true
		}
	}
}

// skipped reports whether the content of element n is excluded from translation.
func skipped(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if IgnoredTags[strings.ToLower(n.Data)] {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == NoTranslateAttr {
			return true
		}
	}
	return false
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	leading := original[:leadingLen]

	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))
	trailing := ""
	if trailingLen > 0 {
		trailing = original[len(original)-trailingLen:]
	}

	return leading + translated + trailing
}

// render writes the children of n, which is the fragment root.
func render(w io.Writer, n *html.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}
