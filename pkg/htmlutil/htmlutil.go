// Package htmlutil is the only place that touches raw goquery selections and html nodes,
// everything else works with Element which is guaranteed to wrap exactly one element node.
package htmlutil

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

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
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText collapses every run of whitespace into a single space, drops
// non-printable characters and trims the result.
func CleanText(text string) string {
	return strings.Join(strings.Fields(removeNonPrintable(text)), " ")
}

// Resolve resolves a (possibly relative) href against base.
func Resolve(base *url.URL, href string) (*url.URL, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return nil, fmt.Errorf("resolve: empty href")
	}
	link, err := url.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("resolve '%s': %w", href, err)
	}
	return base.ResolveReference(link), nil
}

// Element is a single parsed html element.
type Element struct {
	sel *goquery.Selection
}

// TryParse returns the first node of the selection as an Element, it returns false
// if the selection is empty or its first node is not an element (text, comment, ...).
func TryParse(sel *goquery.Selection) (Element, bool) {
	if sel == nil || len(sel.Nodes) == 0 {
		return Element{}, false
	}
	node := sel.Nodes[0]
	if node == nil || node.Type != html.ElementNode {
		return Element{}, false
	}
	return Element{sel: sel.First()}, true
}

// ParseAll is TryParse applied to every node in the selection, non-element nodes
// are dropped.
func ParseAll(sel *goquery.Selection) []Element {
	if sel == nil {
		return nil
	}
	var out []Element
	sel.Each(func(_ int, s *goquery.Selection) {
		el, ok := TryParse(s)
		if ok {
			out = append(out, el)
		}
	})
	return out
}

func (e Element) Node() *html.Node {
	return e.sel.Nodes[0]
}

func (e Element) Tag() string {
	return e.Node().Data
}

// Text is the cleaned text content of the element and all its descendants.
func (e Element) Text() string {
	return CleanText(GetText(e.Node()))
}

func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.Node().Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e Element) Classes() []string {
	class, ok := e.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(class)
}

func (e Element) HasClass(class string) bool {
	for _, c := range e.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// Find returns the first descendant matching selector.
func (e Element) Find(selector string) (Element, bool) {
	return TryParse(e.sel.Find(selector))
}

// FindAll returns every descendant matching selector.
func (e Element) FindAll(selector string) []Element {
	return ParseAll(e.sel.Find(selector))
}

// Children returns the direct children matching selector.
func (e Element) Children(selector string) []Element {
	return ParseAll(e.sel.ChildrenFiltered(selector))
}

// Closest returns the nearest ancestor (excluding the element itself) matching selector.
func (e Element) Closest(selector string) (Element, bool) {
	return TryParse(e.sel.ParentsFiltered(selector).First())
}

// Href resolves the element's href attribute against base.
func (e Element) Href(base *url.URL) (*url.URL, bool) {
	href, ok := e.Attr("href")
	if !ok {
		return nil, false
	}
	link, err := Resolve(base, href)
	if err != nil {
		return nil, false
	}
	return link, true
}

// Document wraps the root of a parsed page.
type Document struct {
	Element
}

func ParseDocument(body []byte) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return Document{}, err
	}
	return Document{Element: Element{sel: doc.Selection}}, nil
}
