package importer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ResolveFunc returns the id of the folder called name under parentID,
// creating it when needed.
type ResolveFunc func(name, parentID string) string

// Anchor is a bookmark link found in an export.
type Anchor struct {
	Title    string
	URL      string
	Tags     []string
	FolderID string
}

// AnchorFunc receives each anchor in document order.
type AnchorFunc func(a Anchor)

// walker turns a Netscape bookmark tree into folder and anchor events.
// Folders are headings followed by a list holding their children.
type walker struct {
	resolve ResolveFunc
	anchor  AnchorFunc
}

// walk visits the children of n under folderID and returns the folder of a
// heading that has not been adopted by a following list yet.
func (w *walker) walk(n *html.Node, folderID string) string {
	var pending string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		pending = w.step(c, folderID, pending)
	}
	return pending
}

// step handles one child node and returns the updated pending folder.
func (w *walker) step(c *html.Node, folderID, pending string) string {
	if c.Type != html.ElementNode {
		return pending
	}
	switch c.DataAtom {
	case atom.H3:
		if name := strings.TrimSpace(textOf(c)); name != "" {
			return w.resolve(name, folderID)
		}
	case atom.A:
		href := strings.TrimSpace(attr(c, "href"))
		if href == "" {
			return pending
		}
		title := strings.TrimSpace(textOf(c))
		if title == "" {
			title = href
		}
		// A bare anchor belongs to the active folder, never to the pending one.
		w.anchor(Anchor{Title: title, URL: href, Tags: splitTags(attr(c, "tags")), FolderID: folderID})
	case atom.Dl:
		ctx := folderID
		if pending != "" {
			ctx = pending
		}
		w.walk(c, ctx)
		return ""
	case atom.Dd:
		// Folder descriptions are transparent: a list the parser nested
		// inside one still belongs to the heading before it.
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			pending = w.step(gc, folderID, pending)
		}
	case atom.Dt, atom.P, atom.Body, atom.Html:
		if p := w.walk(c, folderID); p != "" {
			return p
		}
	}
	return pending
}

// rootList returns the top-level bookmark list: body > dl, else the first
// dl anywhere, else nil.
func rootList(doc *html.Node) *html.Node {
	d := goquery.NewDocumentFromNode(doc)
	sel := d.Find("body > dl").First()
	if sel.Length() == 0 {
		sel = d.Find("dl").First()
	}
	if sel.Length() == 0 {
		return nil
	}
	return sel.Get(0)
}

// Walk parses an export and reports its folders and anchors. It returns
// false when the document holds no bookmark list at all.
func Walk(raw []byte, resolve ResolveFunc, anchor AnchorFunc) (bool, error) {
	doc, err := parseMarkup(raw)
	if err != nil {
		return false, err
	}
	root := rootList(doc)
	if root == nil {
		return false, nil
	}
	w := &walker{resolve: resolve, anchor: anchor}
	w.walk(root, "")
	return true, nil
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	collectText(&sb, n)
	return sb.String()
}

func collectText(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(sb, c)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func splitTags(raw string) []string {
	out := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
