package markup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed value ready to receive translations.
type Document struct {
	doc  *goquery.Document
	body *html.Node
}

// Extract parses content as an HTML fragment and returns its translatable
// text nodes, deduplicated by text, in document order.
func Extract(content string) (*Document, []TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &Error{Message: "failed to parse value", Cause: err}
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return nil, nil, &Error{Message: "parsed value has no body"}
	}

	d := &Document{doc: doc, body: body.Get(0)}

	var nodes []TextNode
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skipped(n) {
			return
		}

		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" && !seen[trimmed] {
				seen[trimmed] = true
				nodes = append(nodes, TextNode{
					ID:      fmt.Sprintf("node-%d", len(nodes)),
					Text:    trimmed,
					Context: buildContext(n),
				})
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.body)

	return d, nodes, nil
}

// Apply replaces every text node found in translations (keyed by the
// trimmed source text) and returns the re-serialised fragment. Whitespace
// around each text node is kept.
func (d *Document) Apply(translations map[string]string) (string, error) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skipped(n) {
			return
		}

		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if translated, ok := translations[trimmed]; ok && trimmed != "" {
				n.Data = preserveWhitespace(n.Data, translated)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.body)

	var sb strings.Builder
	if err := render(&sb, d.body); err != nil {
		return "", &Error{Message: "failed to serialise value", Cause: err}
	}
	return sb.String(), nil
}

// buildContext describes where a text node sits, e.g. `in <a class="cta"> | inside: p`.
func buildContext(n *html.Node) string {
	parent := n.Parent
	if parent == nil || parent.Type != html.ElementNode || parent.Data == "body" {
		return ""
	}

	var parts []string

	var classAttr, idAttr string
	for _, attr := range parent.Attr {
		switch attr.Key {
		case "class":
			classAttr = attr.Val
		case "id":
			idAttr = attr.Val
		}
	}

	switch {
	case classAttr != "":
		parts = append(parts, fmt.Sprintf("in <%s class=%q>", parent.Data, classAttr))
	case idAttr != "":
		parts = append(parts, fmt.Sprintf("in <%s id=%q>", parent.Data, idAttr))
	default:
		parts = append(parts, fmt.Sprintf("in <%s>", parent.Data))
	}

	var ancestors []string
	for a := parent.Parent; a != nil && len(ancestors) < 3; a = a.Parent {
		if a.Type == html.ElementNode && a.Data != "html" && a.Data != "body" {
			ancestors = append(ancestors, a.Data)
		}
	}
	if len(ancestors) > 0 {
		for i, j := 0, len(ancestors)-1; i < j; i, j = i+1, j-1 {
			ancestors[i], ancestors[j] = ancestors[j], ancestors[i]
		}
		parts = append(parts, "inside: "+strings.Join(ancestors, " > "))
	}

	return strings.Join(parts, " | ")
}
