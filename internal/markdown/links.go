package markdown

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// linkAttrs lists the attributes resolved per element. Media elements are
// skipped since PDFs cannot play them.
var linkAttrs = map[atom.Atom]string{
	atom.Img: "src",
	atom.A:   "href",
}

// ResolveLinks rewrites relative img src and a href values of an HTML
// fragment to file:// URLs under baseDir. The rendered page lives in a temp
// directory, so relative references would otherwise break. URLs, anchors,
// absolute paths and paths escaping baseDir are left alone. An empty
// baseDir returns the fragment unchanged.
func ResolveLinks(fragment, baseDir string) (string, error) {
	if baseDir == "" {
		return fragment, nil
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		resolveNode(n, absBase)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func resolveNode(n *html.Node, base string) {
	if n.Type == html.ElementNode {
		if key, ok := linkAttrs[n.DataAtom]; ok {
			for i := range n.Attr {
				if n.Attr[i].Key == key {
					n.Attr[i].Val = resolveRef(n.Attr[i].Val, base)
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		resolveNode(c, base)
	}
}

// resolveRef returns the file:// URL for a relative reference, or ref
// unchanged when it is not a local relative path.
func resolveRef(ref, base string) string {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || filepath.IsAbs(ref) || strings.HasPrefix(ref, "/") {
		return ref
	}

	target := filepath.Join(base, filepath.FromSlash(u.Path))
	rel, err := filepath.Rel(base, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ref
	}

	resolved := url.URL{Scheme: "file", Path: filepath.ToSlash(target), Fragment: u.Fragment}
	if !strings.HasPrefix(resolved.Path, "/") {
		// Windows drive letters
		resolved.Path = "/" + resolved.Path
	}
	return resolved.String()
}
