package render

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
)

// text оборачивает текст в элементы отметок. Первая отметка самая внутренняя,
// последняя самая внешняя.
func (r *renderer) text(parent *html.Node, t *edtypes.Text) {
	if t.Text == "" {
		return
	}
	cur := textNode(t.Text)
	for _, m := range t.Marks {
		wrapper := r.markElement(m)
		if wrapper == nil {
			continue
		}
		wrapper.AppendChild(cur)
		cur = wrapper
	}
	parent.AppendChild(cur)
}

func (r *renderer) markElement(m edtypes.Mark) *html.Node {
	switch v := m.(type) {
	case edtypes.Bold:
		return element(atom.Strong, "")
	case edtypes.Italic:
		return element(atom.Em, "")
	case edtypes.Underline:
		return element(atom.U, "")
	case edtypes.Code:
		return element(atom.Code, r.cfg.InlineCodeClass)
	case edtypes.TextStyle:
		style := textStyle(v)
		if style == "" {
			return nil
		}
		span := element(atom.Span, "")
		span.Attr = append(span.Attr, html.Attribute{Key: "style", Val: style})
		return span
	case edtypes.Link:
		return r.link(v)
	}
	return nil
}

// textStyle собирает цвет и размер шрифта в одно значение style.
func textStyle(ts edtypes.TextStyle) string {
	var decls []string
	if ts.Color != nil {
		decls = append(decls, "color: "+ts.Color.Hex())
	}
	if ts.FontSize != nil && *ts.FontSize > 0 {
		decls = append(decls, "font-size: "+strconv.Itoa(*ts.FontSize)+"px")
	}
	return strings.Join(decls, "; ")
}

// link выводит ссылку. Для недопустимой схемы href не выводится.
func (r *renderer) link(l edtypes.Link) *html.Node {
	a := element(atom.A, "")
	if !l.Inert() {
		a.Attr = append(a.Attr, html.Attribute{Key: "href", Val: l.Href})
	}
	target := l.Target
	if target == "" {
		target = r.cfg.LinkTarget
	}
	rel := l.Rel
	if rel == "" {
		rel = r.cfg.LinkRel
	}
	a.Attr = append(a.Attr,
		html.Attribute{Key: "target", Val: target},
		html.Attribute{Key: "rel", Val: rel},
	)
	if l.Title != nil && *l.Title != "" {
		a.Attr = append(a.Attr, html.Attribute{Key: "title", Val: *l.Title})
	}
	return a
}
