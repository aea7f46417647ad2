package page

import (
	"io"
	"strings"

	"github.com/fivemoreminix/onyxview/grammar"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ClassPrefix is prepended to a category name to form a span's class.
const ClassPrefix = "hljs-"

// HTMLDocument is a parsed HTML page.
type HTMLDocument struct {
	root *html.Node
}

func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing html")
	}
	return &HTMLDocument{root}, nil
}

// QuerySelectorAll supports plain tag name selectors, which is all
// HighlightAll needs. Elements are returned in document order.
func (d *HTMLDocument) QuerySelectorAll(selector string) []Element {
	tag := strings.ToLower(strings.TrimSpace(selector))
	var out []Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, &htmlElement{n})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return out
}

// Render writes the document, including any highlighting applied to it.
func (d *HTMLDocument) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

type htmlElement struct {
	node *html.Node
}

func (e *htmlElement) Text() string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(e.node)
	return text.String()
}

func (e *htmlElement) Classes() []string {
	for _, attr := range e.node.Attr {
		if attr.Key == "class" {
			return strings.Fields(attr.Val)
		}
	}
	return nil
}

// SetSpans replaces the element's children with its text split into
// <span class="hljs-CATEGORY"> nodes, and marks the element with "hljs".
func (e *htmlElement) SetSpans(spans []grammar.Span) {
	text := e.Text()

	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}

	var pos int
	for _, s := range spans {
		if s.Start < pos || s.End > len(text) || s.Start >= s.End {
			continue
		}
		if s.Start > pos {
			e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text[pos:s.Start]})
		}
		span := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Span,
			Data:     "span",
			Attr:     []html.Attribute{{Key: "class", Val: ClassPrefix + s.Category.String()}},
		}
		span.AppendChild(&html.Node{Type: html.TextNode, Data: text[s.Start:s.End]})
		e.node.AppendChild(span)
		pos = s.End
	}
	if pos < len(text) {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text[pos:]})
	}

	e.addClass("hljs")
}

func (e *htmlElement) addClass(class string) {
	for i, attr := range e.node.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return
			}
		}
		e.node.Attr[i].Val = strings.TrimSpace(attr.Val + " " + class)
		return
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: "class", Val: class})
}
