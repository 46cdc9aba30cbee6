// Пакет editor импортирует HTML в модель документа редактора.
// HTML предварительно очищается политикой безопасности, затем разбирается в блоки и строчные узлы.
//
// Основные возможности:
//   - Разбор абзацев, заголовков, списков, цитат, блоков кода, изображений и видео YouTube.
//   - Восстановление отметок текста (жирный, курсив, подчеркнутый, код, ссылки, цвет и размер).
//   - Распознавание классов оформления, которые выдает рендерер, для выравнивания абзацев и изображений.
//   - Изображения внутри абзацев выносятся в отдельные блоки.
package editor

import (
	"io"
	"log/slog"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
	"github.com/true1ck/blog-editor/internal/blog/editor/render"
	policy "github.com/true1ck/blog-editor/internal/blog/redactor-policy"
)

// ParseHTML разбирает HTML с таблицей оформления по умолчанию.
func ParseHTML(r io.Reader) (*edtypes.Document, error) {
	return ParseHTMLConfig(r, render.DefaultConfig())
}

// ParseHTMLConfig разбирает HTML. Таблица оформления нужна, чтобы распознать
// классы выравнивания в разметке, полученной от рендерера.
func ParseHTMLConfig(r io.Reader, cfg render.Config) (*edtypes.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	rootNode, err := html.Parse(strings.NewReader(policy.Sanitize(string(raw))))
	if err != nil {
		return nil, err
	}

	p := htmlParser{cfg: cfg}
	doc := &edtypes.Document{}
	if body := getBody(rootNode); body != nil {
		doc.Content = p.parseBlocks(body)
	}
	return doc, nil
}

type htmlParser struct {
	cfg render.Config
}

// item - результат разбора строчного содержимого: строчный узел или вынесенный блок.
type item struct {
	inline edtypes.Inline
	block  edtypes.Block
}

// parseBlocks разбирает дочерние узлы блочного контейнера. Строчные узлы подряд
// объединяются в абзац.
func (p *htmlParser) parseBlocks(root *html.Node) []edtypes.Block {
	var (
		blocks []edtypes.Block
		run    []item
	)
	flush := func() {
		blocks = append(blocks, p.paragraphs(edtypes.LeftAlign, run)...)
		run = nil
	}

	for el := root.FirstChild; el != nil; el = el.NextSibling {
		if isInlineNode(el) {
			run = append(run, p.parseInline(el, nil)...)
			continue
		}
		flush()
		blocks = append(blocks, p.parseBlock(el)...)
	}
	flush()
	return blocks
}

func (p *htmlParser) parseBlock(el *html.Node) []edtypes.Block {
	if el.Type != html.ElementNode {
		return nil
	}

	switch el.Data {
	case "p":
		return p.paragraphs(p.alignOf(el), p.parseInlineChildren(el, nil))
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level, _ := strconv.Atoi(el.Data[1:])
		var blocks []edtypes.Block
		h := &edtypes.Heading{Level: level}
		for _, it := range p.parseInlineChildren(el, nil) {
			if it.block != nil {
				blocks = append(blocks, it.block)
				continue
			}
			h.Content = append(h.Content, it.inline)
		}
		h.Content = mergeTexts(h.Content)
		if edtypes.IsBlank(edtypes.PlainText(h)) {
			return blocks
		}
		return append([]edtypes.Block{h}, blocks...)
	case "ul":
		return []edtypes.Block{&edtypes.BulletList{Items: p.parseListItems(el)}}
	case "ol":
		start := 1
		if s, err := strconv.Atoi(getAttrValue("start", el.Attr)); err == nil && s >= 0 {
			start = s
		}
		return []edtypes.Block{&edtypes.OrderedList{Start: start, Items: p.parseListItems(el)}}
	case "blockquote":
		return []edtypes.Block{&edtypes.Blockquote{Content: p.parseBlocks(el)}}
	case "pre":
		return []edtypes.Block{parseCode(el)}
	case "hr":
		return []edtypes.Block{&edtypes.HorizontalRule{}}
	case "img":
		if img := p.parseImage(el, nil); img != nil {
			return []edtypes.Block{img}
		}
		return nil
	case "iframe":
		if id, ok := edtypes.YouTubeVideoID(getAttrValue("src", el.Attr)); ok {
			return []edtypes.Block{&edtypes.YouTube{VideoID: id}}
		}
		return nil
	case "div":
		if id := getAttrValue("data-youtube-video-id", el.Attr); id != "" {
			return []edtypes.Block{&edtypes.YouTube{VideoID: id}}
		}
		if img := p.parseImageWrapper(el); img != nil {
			return []edtypes.Block{img}
		}
		return p.parseBlocks(el)
	case "li":
		return []edtypes.Block{&edtypes.Unknown{Type: "listItem", Content: p.parseListItem(el).Content}}
	case "br":
		return nil
	}

	// неизвестные контейнеры (section, article, table и т.п.) раскрываются
	return p.parseBlocks(el)
}

// paragraphs собирает абзацы из строчного содержимого. Вынесенные блоки
// разрывают абзац.
func (p *htmlParser) paragraphs(align edtypes.TextAlign, items []item) []edtypes.Block {
	var (
		blocks []edtypes.Block
		run    []edtypes.Inline
	)
	flush := func() {
		run = trimRun(mergeTexts(run))
		if len(run) > 0 && !edtypes.IsBlank(edtypes.PlainText(inlinesAsNodes(run)...)) {
			blocks = append(blocks, &edtypes.Paragraph{Align: align, Content: run})
		}
		run = nil
	}
	for _, it := range items {
		if it.block != nil {
			flush()
			blocks = append(blocks, it.block)
			continue
		}
		run = append(run, it.inline)
	}
	flush()
	return blocks
}

func (p *htmlParser) parseListItems(root *html.Node) []*edtypes.ListItem {
	var items []*edtypes.ListItem
	for li := root.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		items = append(items, p.parseListItem(li))
	}
	return items
}

func (p *htmlParser) parseListItem(li *html.Node) *edtypes.ListItem {
	item := &edtypes.ListItem{}
	for _, b := range p.parseBlocks(li) {
		item.Content = append(item.Content, b)
	}
	return item
}

// parseImageWrapper распознает обертку изображения от рендерера: img и необязательная подпись.
func (p *htmlParser) parseImageWrapper(div *html.Node) *edtypes.Image {
	var children []*html.Node
	for c := div.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, c)
		} else if c.Type == html.TextNode && !edtypes.IsBlank(c.Data) {
			return nil
		}
	}
	if len(children) == 0 || len(children) > 2 || children[0].Data != "img" {
		return nil
	}
	if len(children) == 2 && children[1].Data != "p" {
		return nil
	}

	img := p.parseImage(children[0], div)
	if img != nil && len(children) == 2 {
		if title := textContent(children[1]); title != "" {
			img.Title = &title
		}
	}
	return img
}

func (p *htmlParser) parseImage(el, wrapper *html.Node) *edtypes.Image {
	src := getAttrValue("src", el.Attr)
	if edtypes.IsBlank(src) {
		return nil
	}
	img := &edtypes.Image{Src: src}
	if alt := getAttrValue("alt", el.Attr); alt != "" {
		img.Alt = &alt
	}
	if title := getAttrValue("title", el.Attr); title != "" {
		img.Title = &title
	}
	img.Width = positiveInt(getAttrValue("width", el.Attr))
	img.Height = positiveInt(getAttrValue("height", el.Attr))

	for _, style := range parseStyles(getAttrValue("style", el.Attr)) {
		switch style.Key {
		case "width":
			if img.Width == nil {
				img.Width = positiveInt(style.Val)
			}
		case "height":
			if img.Height == nil {
				img.Height = positiveInt(style.Val)
			}
		}
	}

	if a, ok := edtypes.ParseImageAlign(getAttrValue("data-align", el.Attr)); ok {
		img.Align = &a
	} else if wrapper != nil {
		if a, ok := classLookup(getAttrValue("class", wrapper.Attr), p.cfg.ImageAlignClasses); ok {
			if align, ok := edtypes.ParseImageAlign(a); ok {
				img.Align = &align
			}
		}
	}
	return img
}

func (p *htmlParser) alignOf(el *html.Node) edtypes.TextAlign {
	for _, style := range parseStyles(getAttrValue("style", el.Attr)) {
		if style.Key == "text-align" {
			if a, ok := edtypes.ParseTextAlign(style.Val); ok {
				return a
			}
		}
	}
	if name, ok := classLookup(getAttrValue("class", el.Attr), p.cfg.AlignClasses); ok {
		if a, ok := edtypes.ParseTextAlign(name); ok {
			return a
		}
	}
	return edtypes.LeftAlign
}

// classLookup ищет в атрибуте class значение из таблицы и возвращает его ключ.
// Значение таблицы может состоять из нескольких классов, все они должны присутствовать.
func classLookup(class string, table map[string]string) (string, bool) {
	have := strings.Fields(class)
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		want := strings.Fields(table[k])
		if len(want) == 0 {
			continue
		}
		if !slices.ContainsFunc(want, func(c string) bool { return !slices.Contains(have, c) }) {
			return k, true
		}
	}
	return "", false
}

func (p *htmlParser) parseInlineChildren(root *html.Node, marks []edtypes.Mark) []item {
	var out []item
	for el := root.FirstChild; el != nil; el = el.NextSibling {
		out = append(out, p.parseInline(el, marks)...)
	}
	return out
}

// parseInline разбирает строчный узел. marks перечислены от внешней отметки к внутренней.
func (p *htmlParser) parseInline(el *html.Node, marks []edtypes.Mark) []item {
	switch el.Type {
	case html.TextNode:
		text := collapseSpaces(el.Data)
		if text == "" {
			return nil
		}
		out := make([]edtypes.Mark, len(marks))
		for i, m := range marks {
			out[len(marks)-1-i] = m
		}
		if len(out) == 0 {
			out = nil
		}
		return []item{{inline: &edtypes.Text{Text: text, Marks: out}}}
	case html.ElementNode:
	default:
		return nil
	}

	switch el.Data {
	case "br":
		return []item{{inline: &edtypes.HardBreak{}}}
	case "img":
		if img := p.parseImage(el, nil); img != nil {
			return []item{{block: img}}
		}
		return nil
	case "iframe":
		if id, ok := edtypes.YouTubeVideoID(getAttrValue("src", el.Attr)); ok {
			return []item{{block: &edtypes.YouTube{VideoID: id}}}
		}
		return nil
	}

	if m := p.markOf(el); m != nil {
		marks = pushMark(marks, m)
	}
	return p.parseInlineChildren(el, marks)
}

func (p *htmlParser) markOf(el *html.Node) edtypes.Mark {
	switch el.Data {
	case "strong", "b":
		return edtypes.Bold{}
	case "em", "i":
		return edtypes.Italic{}
	case "u":
		return edtypes.Underline{}
	case "code":
		return edtypes.Code{}
	case "a":
		href := getAttrValue("href", el.Attr)
		if !edtypes.IsAllowedHref(href) {
			return nil
		}
		opts := []edtypes.LinkOption{}
		if target := getAttrValue("target", el.Attr); target != "" {
			opts = append(opts, edtypes.WithTarget(target))
		}
		if rel := getAttrValue("rel", el.Attr); rel != "" {
			opts = append(opts, edtypes.WithRel(rel))
		}
		if title := getAttrValue("title", el.Attr); title != "" {
			opts = append(opts, edtypes.WithLinkTitle(title))
		}
		link, err := edtypes.NewLink(href, opts...)
		if err != nil {
			slog.Debug("Skip link mark", "href", href, "err", err)
			return nil
		}
		return link
	case "span", "mark", "font":
		ts := parseTextStyle(el)
		if ts.IsEmpty() {
			return nil
		}
		return ts
	}
	return nil
}

// pushMark добавляет отметку во вложенный контекст. Повтор отметки того же вида
// игнорируется, стили текста объединяются с приоритетом внутреннего.
func pushMark(marks []edtypes.Mark, m edtypes.Mark) []edtypes.Mark {
	for i, existing := range marks {
		if existing.Kind() != m.Kind() {
			continue
		}
		if ts, ok := m.(edtypes.TextStyle); ok {
			out := slices.Clone(marks)
			out[i] = ts.Merge(existing.(edtypes.TextStyle))
			return out
		}
		return marks
	}
	return append(slices.Clip(marks), m)
}

func parseTextStyle(el *html.Node) edtypes.TextStyle {
	var ts edtypes.TextStyle
	for _, style := range parseStyles(getAttrValue("style", el.Attr)) {
		if style.Val == "inherit" {
			continue
		}
		switch style.Key {
		case "color":
			c, err := edtypes.ParseColor(style.Val)
			if err != nil {
				slog.Debug("Parse text color", "input", style.Val, "err", err)
				continue
			}
			ts.Color = &c
		case "font-size":
			ts.FontSize = positiveInt(style.Val)
		}
	}
	if ts.Color == nil {
		if c, err := edtypes.ParseColor(getAttrValue("color", el.Attr)); err == nil {
			ts.Color = &c
		}
	}
	return ts
}

// parseCode берет текст блока кода дословно. Язык определяется по классу language-*.
func parseCode(root *html.Node) *edtypes.CodeBlock {
	var (
		text strings.Builder
		lang string
	)
	iterNodes(root, func(child *html.Node) bool {
		switch child.Type {
		case html.TextNode:
			text.WriteString(child.Data)
		case html.ElementNode:
			if child.Data == "br" {
				text.WriteByte('\n')
			}
			for _, c := range strings.Fields(getAttrValue("class", child.Attr)) {
				if l, ok := strings.CutPrefix(c, "language-"); ok && lang == "" {
					lang = l
				}
			}
		}
		return false
	})
	return edtypes.NewCodeBlock(lang, text.String())
}

func textContent(root *html.Node) string {
	var sb strings.Builder
	iterNodes(root, func(child *html.Node) bool {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
		return false
	})
	return strings.TrimSpace(collapseSpaces(sb.String()))
}

// mergeTexts склеивает соседние текстовые узлы с одинаковыми отметками.
func mergeTexts(in []edtypes.Inline) []edtypes.Inline {
	var out []edtypes.Inline
	for _, n := range in {
		t, ok := n.(*edtypes.Text)
		if ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*edtypes.Text); ok && reflect.DeepEqual(prev.Marks, t.Marks) {
				out[len(out)-1] = &edtypes.Text{Text: prev.Text + t.Text, Marks: prev.Marks}
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// trimRun убирает пробелы в начале и в конце абзаца.
func trimRun(run []edtypes.Inline) []edtypes.Inline {
	if len(run) == 0 {
		return run
	}
	if t, ok := run[0].(*edtypes.Text); ok {
		run[0] = &edtypes.Text{Text: strings.TrimLeft(t.Text, " "), Marks: t.Marks}
	}
	if t, ok := run[len(run)-1].(*edtypes.Text); ok {
		run[len(run)-1] = &edtypes.Text{Text: strings.TrimRight(t.Text, " "), Marks: t.Marks}
	}
	return slices.DeleteFunc(run, func(n edtypes.Inline) bool {
		t, ok := n.(*edtypes.Text)
		return ok && t.Text == ""
	})
}

func inlinesAsNodes(in []edtypes.Inline) []edtypes.Node {
	out := make([]edtypes.Node, len(in))
	for i, n := range in {
		out[i] = n
	}
	return out
}

var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "br": true, "cite": true, "code": true, "em": true,
	"font": true, "i": true, "mark": true, "s": true, "small": true, "span": true, "strike": true,
	"strong": true, "sub": true, "sup": true, "u": true,
}

func isInlineNode(el *html.Node) bool {
	switch el.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
		return inlineTags[el.Data]
	}
	return false
}

func collapseSpaces(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' || r == '\f' {
			if !space {
				sb.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}

func positiveInt(raw string) *int {
	v, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(raw), "px"))
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

func findElementByTagName(rootNode *html.Node, tagName string) *html.Node {
	var el *html.Node
	iterNodes(rootNode, func(child *html.Node) bool {
		if el != nil {
			return true
		}
		if child.Type == html.ElementNode && child.Data == tagName {
			el = child
			return true
		}
		return false
	})
	return el
}

func getBody(rootNode *html.Node) *html.Node {
	return findElementByTagName(rootNode, "body")
}

func iterNodes(node *html.Node, f func(child *html.Node) bool) {
	if f(node) {
		return
	}
	for p := node.FirstChild; p != nil; p = p.NextSibling {
		iterNodes(p, f)
	}
}

func getAttrValue(key string, attrs []html.Attribute) string {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func parseStyles(raw string) []html.Attribute {
	var res []html.Attribute
	for styleRaw := range strings.SplitSeq(raw, ";") {
		key, val, ok := strings.Cut(styleRaw, ":")
		if !ok {
			continue
		}
		res = append(res, html.Attribute{
			Key: strings.ToLower(strings.TrimSpace(key)),
			Val: strings.TrimSpace(val),
		})
	}
	return res
}
