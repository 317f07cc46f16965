package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// matches reports whether the single element in sel satisfies s.
func (s Selector) matches(sel *goquery.Selection) bool {
	if s.Tag != "" && goquery.NodeName(sel) != s.Tag {
		return false
	}

	for name, want := range s.Attrs {
		got, ok := sel.Attr(name)
		if !ok || got != want {
			return false
		}
	}

	if len(s.StyleContains) > 0 {
		style, ok := sel.Attr("style")
		if !ok {
			return false
		}
		for _, part := range s.StyleContains {
			if !strings.Contains(style, part) {
				return false
			}
		}
	}

	if s.TextContains != "" && !strings.Contains(sel.Text(), s.TextContains) {
		return false
	}

	if s.OwnText != "" {
		own := ownText(sel)
		if s.OwnTextExact {
			if strings.TrimSpace(own) != s.OwnText {
				return false
			}
		} else if !strings.Contains(own, s.OwnText) {
			return false
		}
	}

	return true
}

// findAll returns the descendants of root matching s, in document order.
func (s Selector) findAll(root *goquery.Selection) *goquery.Selection {
	tag := s.Tag
	if tag == "" {
		tag = "*"
	}
	return root.Find(tag).FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return s.matches(sel)
	})
}

// findFirst returns the first descendant of root matching s, or an empty
// selection.
func (s Selector) findFirst(root *goquery.Selection) *goquery.Selection {
	return s.findAll(root).First()
}

// ownText concatenates the direct text children of the element.
func ownText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}

	var b strings.Builder
	for c := sel.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// textOf returns the trimmed text of sel, or "" when sel is empty.
func textOf(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}

// documentOrder numbers every node of the tree rooted at n in pre-order.
func documentOrder(n *html.Node) map[*html.Node]int {
	order := make(map[*html.Node]int)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		order[n] = len(order)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return order
}

// textNodes returns every text node under n in document order.
func textNodes(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out = append(out, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}
