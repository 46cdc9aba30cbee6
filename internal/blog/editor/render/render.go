// Пакет render строит детерминированное представление документа в виде дерева HTML узлов.
//
// Одинаковый документ и одинаковая таблица оформления всегда дают одинаковую разметку.
// Правила отображения:
//   - абзацы и заголовки без видимого текста не выводятся, элементы списка выводятся всегда;
//   - отметки текста применяются по порядку, первая отметка оказывается самой внутренней;
//   - цвет и размер шрифта выводятся одним span;
//   - ссылки с недопустимой схемой выводятся без href;
//   - неизвестные узлы не оборачиваются, выводятся только их дочерние узлы.
package render

import (
	"bytes"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
)

var languageReg = regexp.MustCompile(`^[A-Za-z0-9_+#.-]+$`)

// Tree - результат отображения документа.
type Tree struct {
	root *html.Node
}

// Nodes возвращает узлы верхнего уровня.
func (t *Tree) Nodes() []*html.Node {
	var out []*html.Node
	for c := t.root.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// HTML возвращает разметку дерева.
func (t *Tree) HTML() string {
	var buf bytes.Buffer
	for c := t.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			// html.Render возвращает ошибку только при записи или для void элементов с детьми
			slog.Error("Render html node", "tag", c.Data, "err", err)
		}
	}
	return buf.String()
}

// Render отображает документ. Функция чистая и не завершается ошибкой
// для любого документа, полученного из Parse или конструкторов.
func Render(doc *edtypes.Document, cfg Config) *Tree {
	r := renderer{cfg: cfg.withDefaults()}
	root := &html.Node{Type: html.DocumentNode}
	if doc != nil {
		for _, b := range doc.Content {
			r.node(root, b)
		}
	}
	return &Tree{root: root}
}

// RenderHTML возвращает разметку документа.
func RenderHTML(doc *edtypes.Document, cfg Config) string {
	return Render(doc, cfg).HTML()
}

type renderer struct {
	cfg Config
}

func (r *renderer) node(parent *html.Node, n edtypes.Node) {
	switch v := n.(type) {
	case *edtypes.Paragraph:
		r.paragraph(parent, v)
	case *edtypes.Heading:
		r.heading(parent, v)
	case *edtypes.BulletList:
		r.list(parent, atom.Ul, r.cfg.BulletListClass, v.Items, nil)
	case *edtypes.OrderedList:
		var attrs []html.Attribute
		if v.Start != 1 {
			attrs = append(attrs, html.Attribute{Key: "start", Val: strconv.Itoa(v.Start)})
		}
		r.list(parent, atom.Ol, r.cfg.OrderedListClass, v.Items, attrs)
	case *edtypes.ListItem:
		div := element(atom.Div, r.cfg.ListItemClass)
		r.children(div, v.Content)
		parent.AppendChild(div)
	case *edtypes.Image:
		r.image(parent, v)
	case *edtypes.Blockquote:
		bq := element(atom.Blockquote, r.cfg.BlockquoteClass)
		for _, b := range v.Content {
			r.node(bq, b)
		}
		parent.AppendChild(bq)
	case *edtypes.CodeBlock:
		r.codeBlock(parent, v)
	case *edtypes.HorizontalRule:
		parent.AppendChild(element(atom.Hr, r.cfg.HorizontalRuleClass))
	case *edtypes.HardBreak:
		parent.AppendChild(element(atom.Br, ""))
	case *edtypes.YouTube:
		r.youtube(parent, v)
	case *edtypes.Text:
		r.text(parent, v)
	case *edtypes.Unknown:
		r.unknown(parent, v)
	case *edtypes.Document:
		for _, b := range v.Content {
			r.node(parent, b)
		}
	case nil:
	default:
		slog.Warn("Unknown node kind", "kind", n.Kind())
	}
}

func (r *renderer) children(parent *html.Node, nodes []edtypes.Node) {
	for _, n := range nodes {
		r.node(parent, n)
	}
}

// unknown раскрывает неизвестный узел в его детей. Обертка добавляется, только если дети что-то отобразили,
// внутри строчного содержимого обертка - span.
func (r *renderer) unknown(parent *html.Node, u *edtypes.Unknown) {
	if r.cfg.UnknownWrapperClass == "" {
		r.children(parent, u.Content)
		return
	}

	tag := atom.Div
	if phrasingParent(parent) {
		tag = atom.Span
	}
	wrapper := element(tag, r.cfg.UnknownWrapperClass)
	r.children(wrapper, u.Content)
	if wrapper.FirstChild != nil {
		parent.AppendChild(wrapper)
	}
}

func phrasingParent(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Span, atom.A, atom.Strong, atom.Em, atom.U, atom.Code:
		return true
	}
	return false
}

func (r *renderer) inlines(parent *html.Node, nodes []edtypes.Inline) {
	for _, n := range nodes {
		r.node(parent, n)
	}
}

func (r *renderer) paragraph(parent *html.Node, p *edtypes.Paragraph) {
	if edtypes.IsBlank(edtypes.PlainText(p)) {
		return
	}
	el := element(atom.P, joinClasses(r.cfg.AlignClasses[p.Align.String()], r.cfg.ParagraphClass))
	r.inlines(el, p.Content)
	parent.AppendChild(el)
}

func (r *renderer) heading(parent *html.Node, h *edtypes.Heading) {
	if edtypes.IsBlank(edtypes.PlainText(h)) {
		return
	}
	level := min(max(h.Level, 1), 6)
	tag := [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}[level-1]
	el := element(tag, joinClasses(r.cfg.HeadingClasses[level-1], r.cfg.HeadingClass))
	r.inlines(el, h.Content)
	parent.AppendChild(el)
}

func (r *renderer) list(parent *html.Node, tag atom.Atom, class string, items []*edtypes.ListItem, attrs []html.Attribute) {
	list := element(tag, class)
	list.Attr = append(list.Attr, attrs...)
	for _, item := range items {
		if item == nil {
			continue
		}
		li := element(atom.Li, r.cfg.ListItemClass)
		r.children(li, item.Content)
		list.AppendChild(li)
	}
	parent.AppendChild(list)
}

func (r *renderer) image(parent *html.Node, img *edtypes.Image) {
	if edtypes.IsBlank(img.Src) {
		return
	}

	var alignClass string
	if img.Align != nil {
		alignClass = r.cfg.ImageAlignClasses[img.Align.String()]
	}
	wrapper := element(atom.Div, joinClasses(r.cfg.ImageWrapperClass, alignClass))

	alt := ""
	if img.Alt != nil {
		alt = *img.Alt
	}
	el := element(atom.Img, r.cfg.ImageClass)
	el.Attr = append([]html.Attribute{{Key: "src", Val: img.Src}, {Key: "alt", Val: alt}}, el.Attr...)
	if img.Width != nil {
		el.Attr = append(el.Attr, html.Attribute{Key: "width", Val: strconv.Itoa(*img.Width)})
	}
	if img.Height != nil {
		el.Attr = append(el.Attr, html.Attribute{Key: "height", Val: strconv.Itoa(*img.Height)})
	}
	wrapper.AppendChild(el)

	if img.Title != nil && *img.Title != "" {
		caption := element(atom.P, r.cfg.ImageCaptionClass)
		caption.AppendChild(textNode(*img.Title))
		wrapper.AppendChild(caption)
	}
	parent.AppendChild(wrapper)
}

// codeBlock выводит код дословно, без разбора разметки.
func (r *renderer) codeBlock(parent *html.Node, cb *edtypes.CodeBlock) {
	pre := element(atom.Pre, r.cfg.CodeBlockClass)
	class := r.cfg.CodeClass
	if cb.Language != nil && languageReg.MatchString(*cb.Language) {
		class = joinClasses(class, "language-"+*cb.Language)
	}
	code := element(atom.Code, class)
	if r.cfg.CodeFont != "" {
		code.Attr = append(code.Attr, html.Attribute{Key: "style", Val: "font-family: " + r.cfg.CodeFont})
	}
	if cb.Code != "" {
		code.AppendChild(textNode(cb.Code))
	}
	pre.AppendChild(code)
	parent.AppendChild(pre)
}

func (r *renderer) youtube(parent *html.Node, yt *edtypes.YouTube) {
	src := edtypes.YouTubeEmbedURL(yt.VideoID)
	if src == "" {
		div := element(atom.Div, r.cfg.YouTubePlaceholderClass)
		div.AppendChild(textNode(r.cfg.YouTubePlaceholderText))
		parent.AppendChild(div)
		return
	}

	wrapper := element(atom.Div, r.cfg.YouTubeWrapperClass)
	wrapper.Attr = append(wrapper.Attr, html.Attribute{Key: "data-youtube-video-id", Val: yt.VideoID})

	frame := element(atom.Iframe, r.cfg.YouTubeFrameClass)
	frame.Attr = append([]html.Attribute{{Key: "src", Val: src}}, frame.Attr...)
	frame.Attr = append(frame.Attr,
		html.Attribute{Key: "width", Val: "100%"},
		html.Attribute{Key: "height", Val: strconv.Itoa(r.cfg.YouTubeFrameHeight)},
		html.Attribute{Key: "frameborder", Val: "0"},
		html.Attribute{Key: "allowfullscreen", Val: "true"},
		html.Attribute{Key: "allow", Val: r.cfg.YouTubeFrameAllow},
	)
	wrapper.AppendChild(frame)
	parent.AppendChild(wrapper)
}

func element(tag atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String()}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func joinClasses(classes ...string) string {
	var parts []string
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}
