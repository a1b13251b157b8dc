package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/slugline/model"
)

// screenplayCSS lays elements out at the usual screenplay indents, relative
// to the action margin.
const screenplayCSS = `
body { background: #f4f4f4; }
.screenplay { font-family: "Courier Prime", Courier, monospace; font-size: 12pt; }
.page { background: #fff; width: 6in; margin: 1em auto; padding: 1in 1in 1in 1.5in; }
.page p { margin: 0 0 12pt 0; white-space: pre-wrap; }
.scene-heading { text-transform: uppercase; font-weight: bold; }
.character { margin-left: 2in !important; margin-bottom: 0 !important; }
.parenthetical { margin-left: 1.4in !important; width: 2in; margin-bottom: 0 !important; }
.dialogue { margin-left: 1in !important; width: 3.5in; }
.transition { text-align: right; }
.end-of-act { text-align: center; text-decoration: underline; }
.number { text-align: right; color: #999; }
.other { color: #666; }
`

// WriteHTML renders records as a standalone HTML document, one section per
// page. Each paragraph carries its label and confidence as data attributes,
// which ReadHTML reads back.
func WriteHTML(w io.Writer, title string, records []model.Record) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, attr("lang", "en"))
	doc.AppendChild(root)

	head := element(atom.Head)
	root.AppendChild(head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	head.AppendChild(withText(element(atom.Title), title))
	head.AppendChild(withText(element(atom.Style), screenplayCSS))

	body := element(atom.Body)
	root.AppendChild(body)
	main := element(atom.Main, attr("class", "screenplay"))
	body.AppendChild(main)

	var section *html.Node
	page := 0
	for _, r := range records {
		if section == nil || r.Page != page {
			page = r.Page
			section = element(atom.Section, attr("class", "page"), attr("data-page", strconv.Itoa(page)))
			main.AppendChild(section)
		}
		p := element(atom.P,
			attr("class", r.Label.Slug()),
			attr("data-label", r.Label.String()),
			attr("data-proba", strconv.FormatFloat(r.Confidence, 'f', 2, 64)),
		)
		section.AppendChild(withText(p, r.Text))
	}

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}

// ReadHTML reads records back from a document written by WriteHTML. Only
// page, text, label and confidence survive the round trip.
func ReadHTML(r io.Reader) ([]model.Record, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var records []model.Record
	var walk func(n *html.Node, page int) error
	walk = func(n *html.Node, page int) error {
		if n.Type == html.ElementNode {
			if v := getAttr(n, "data-page"); v != "" && n.DataAtom == atom.Section {
				p, err := strconv.Atoi(v)
				if err != nil {
					return fmt.Errorf("bad data-page %q: %w", v, err)
				}
				page = p
			}
			if v := getAttr(n, "data-label"); v != "" && n.DataAtom == atom.P {
				label, err := model.ParseLabel(v)
				if err != nil {
					return err
				}
				proba, _ := strconv.ParseFloat(getAttr(n, "data-proba"), 64)
				records = append(records, model.Record{
					Page:       page,
					Text:       strings.TrimSpace(textContent(n)),
					Label:      label,
					Confidence: proba,
				})
				return nil
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c, page); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(doc, 0); err != nil {
		return nil, err
	}
	return records, nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	return n
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
