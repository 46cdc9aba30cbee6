package edtypes

import (
	"maps"
	"strings"
	"unicode/utf8"
)

// Children возвращает дочерние узлы в порядке документа.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Document:
		return blocksToNodes(v.Content)
	case *Paragraph:
		return inlinesToNodes(v.Content)
	case *Heading:
		return inlinesToNodes(v.Content)
	case *BulletList:
		return itemsToNodes(v.Items)
	case *OrderedList:
		return itemsToNodes(v.Items)
	case *ListItem:
		return v.Content
	case *Blockquote:
		return blocksToNodes(v.Content)
	case *Unknown:
		return v.Content
	}
	return nil
}

// Walk обходит дерево в глубину в прямом порядке. Если fn возвращает false,
// дочерние узлы текущего узла пропускаются.
func Walk(n Node, fn func(Node) bool) {
	if isNilNode(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// PlainText склеивает текст всех текстовых узлов без разделителей.
// Перенос строки текста не дает. Используется для скрытия пустых абзацев и заголовков.
func PlainText(nodes ...Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		Walk(n, func(n Node) bool {
			switch v := n.(type) {
			case *Text:
				sb.WriteString(v.Text)
			case *CodeBlock:
				sb.WriteString(v.Code)
			}
			return true
		})
	}
	return sb.String()
}

// IsBlank сообщает, что строка пуста или состоит только из пробельных символов
// (включая неразрывный пробел и BOM).
func IsBlank(s string) bool {
	for _, r := range s {
		if !isSpace(r) {
			return false
		}
	}
	return true
}

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\u1680',
		'\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

// Excerpt возвращает краткое содержание документа длиной не более maxRunes символов.
// Учитываются только абзацы, заголовки, списки и цитаты, пробелы схлопываются.
func (d *Document) Excerpt(maxRunes int) string {
	if d == nil || maxRunes <= 0 {
		return ""
	}
	var parts []string
	for _, b := range d.Content {
		Walk(b, func(n Node) bool {
			switch v := n.(type) {
			case *Paragraph, *Heading:
				if t := collapseSpaces(PlainText(v)); t != "" {
					parts = append(parts, t)
				}
				return false
			case *Text:
				if t := collapseSpaces(v.Text); t != "" {
					parts = append(parts, t)
				}
			case *CodeBlock, *Image, *YouTube:
				return false
			}
			return true
		})
	}

	s := strings.Join(parts, " ")
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	r := []rune(s)
	cut := strings.TrimRightFunc(string(r[:maxRunes-1]), isSpace)
	return cut + "…"
}

// Thumbnail возвращает src первого изображения документа.
func (d *Document) Thumbnail() string {
	var src string
	if d == nil {
		return src
	}
	Walk(d, func(n Node) bool {
		if src != "" {
			return false
		}
		if img, ok := n.(*Image); ok && img.Src != "" {
			src = img.Src
			return false
		}
		return true
	})
	return src
}

// Clone возвращает глубокую копию документа.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{}
	for _, b := range d.Content {
		out.Content = append(out.Content, cloneNode(b).(Block))
	}
	return out
}

func cloneNode(n Node) Node {
	switch v := n.(type) {
	case *Paragraph:
		return &Paragraph{Align: v.Align, Content: cloneInlines(v.Content)}
	case *Heading:
		return &Heading{Level: v.Level, Content: cloneInlines(v.Content)}
	case *BulletList:
		return &BulletList{Items: cloneItems(v.Items)}
	case *OrderedList:
		return &OrderedList{Start: v.Start, Items: cloneItems(v.Items)}
	case *ListItem:
		return &ListItem{Content: cloneNodes(v.Content)}
	case *Image:
		return &Image{
			Src:           v.Src,
			Alt:           clonePtr(v.Alt),
			Title:         clonePtr(v.Title),
			Width:         clonePtr(v.Width),
			Height:        clonePtr(v.Height),
			Align:         clonePtr(v.Align),
			NaturalWidth:  clonePtr(v.NaturalWidth),
			NaturalHeight: clonePtr(v.NaturalHeight),
		}
	case *Blockquote:
		var content []Block
		for _, b := range v.Content {
			content = append(content, cloneNode(b).(Block))
		}
		return &Blockquote{Content: content}
	case *CodeBlock:
		return &CodeBlock{Language: clonePtr(v.Language), Code: v.Code}
	case *HorizontalRule:
		return &HorizontalRule{}
	case *HardBreak:
		return &HardBreak{}
	case *YouTube:
		return &YouTube{VideoID: v.VideoID}
	case *Text:
		var marks []Mark
		for _, m := range v.Marks {
			marks = append(marks, cloneMark(m))
		}
		return &Text{Text: v.Text, Marks: marks}
	case *Unknown:
		return &Unknown{Type: v.Type, Attrs: maps.Clone(v.Attrs), Content: cloneNodes(v.Content)}
	case *Document:
		return v.Clone()
	}
	return n
}

func cloneMark(m Mark) Mark {
	switch v := m.(type) {
	case TextStyle:
		return TextStyle{Color: clonePtr(v.Color), FontSize: clonePtr(v.FontSize)}
	case Link:
		v.Title = clonePtr(v.Title)
		return v
	case UnknownMark:
		return UnknownMark{Type: v.Type, Attrs: maps.Clone(v.Attrs)}
	}
	return m
}

func cloneInlines(in []Inline) []Inline {
	var out []Inline
	for _, n := range in {
		out = append(out, cloneNode(n).(Inline))
	}
	return out
}

func cloneNodes(in []Node) []Node {
	var out []Node
	for _, n := range in {
		out = append(out, cloneNode(n))
	}
	return out
}

func cloneItems(in []*ListItem) []*ListItem {
	var out []*ListItem
	for _, it := range in {
		out = append(out, cloneNode(it).(*ListItem))
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func collapseSpaces(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

func blocksToNodes(in []Block) []Node {
	out := make([]Node, 0, len(in))
	for _, b := range in {
		out = append(out, b)
	}
	return out
}

func inlinesToNodes(in []Inline) []Node {
	out := make([]Node, 0, len(in))
	for _, n := range in {
		out = append(out, n)
	}
	return out
}

func itemsToNodes(in []*ListItem) []Node {
	out := make([]Node, 0, len(in))
	for _, it := range in {
		out = append(out, it)
	}
	return out
}
