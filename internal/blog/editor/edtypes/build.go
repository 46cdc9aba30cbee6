package edtypes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidNode возвращается конструкторами при нарушении инвариантов узла.
var ErrInvalidNode = errors.New("invalid node")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidNode, fmt.Sprintf(format, args...))
}

func NewDocument(blocks ...Block) (*Document, error) {
	for i, b := range blocks {
		if isNilNode(b) {
			return nil, invalidf("doc: nil block at %d", i)
		}
	}
	return &Document{Content: append([]Block(nil), blocks...)}, nil
}

func NewParagraph(align TextAlign, content ...Inline) (*Paragraph, error) {
	if align < LeftAlign || align > JustifyAlign {
		return nil, invalidf("paragraph: unknown align %d", align)
	}
	if err := checkInlines("paragraph", content); err != nil {
		return nil, err
	}
	return &Paragraph{Align: align, Content: append([]Inline(nil), content...)}, nil
}

// NewHeading создает заголовок уровня 1..6.
func NewHeading(level int, content ...Inline) (*Heading, error) {
	if level < 1 || level > 6 {
		return nil, invalidf("heading: level %d out of range 1..6", level)
	}
	if err := checkInlines("heading", content); err != nil {
		return nil, err
	}
	return &Heading{Level: level, Content: append([]Inline(nil), content...)}, nil
}

func NewBulletList(items ...*ListItem) (*BulletList, error) {
	if err := checkItems("bulletList", items); err != nil {
		return nil, err
	}
	return &BulletList{Items: append([]*ListItem(nil), items...)}, nil
}

func NewOrderedList(start int, items ...*ListItem) (*OrderedList, error) {
	if start < 0 {
		return nil, invalidf("orderedList: negative start %d", start)
	}
	if err := checkItems("orderedList", items); err != nil {
		return nil, err
	}
	return &OrderedList{Start: start, Items: append([]*ListItem(nil), items...)}, nil
}

func NewListItem(content ...Node) (*ListItem, error) {
	for i, n := range content {
		if isNilNode(n) {
			return nil, invalidf("listItem: nil node at %d", i)
		}
		if n.Kind() == KindDoc {
			return nil, invalidf("listItem: doc can not be nested")
		}
	}
	return &ListItem{Content: append([]Node(nil), content...)}, nil
}

func NewBlockquote(content ...Block) (*Blockquote, error) {
	for i, b := range content {
		if isNilNode(b) {
			return nil, invalidf("blockquote: nil block at %d", i)
		}
	}
	return &Blockquote{Content: append([]Block(nil), content...)}, nil
}

// NewCodeBlock создает блок кода. Пустой language означает отсутствие языка.
func NewCodeBlock(language, code string) *CodeBlock {
	cb := &CodeBlock{Code: code}
	if language != "" {
		cb.Language = &language
	}
	return cb
}

func NewHorizontalRule() *HorizontalRule { return &HorizontalRule{} }

func NewHardBreak() *HardBreak { return &HardBreak{} }

// NewYouTube принимает только идентификатор видео. Для ссылок используйте YouTubeVideoID.
func NewYouTube(videoID string) (*YouTube, error) {
	if !IsValidVideoID(videoID) {
		return nil, invalidf("youtube: invalid video id %q", videoID)
	}
	return &YouTube{VideoID: videoID}, nil
}

// ImageOption настраивает необязательные атрибуты изображения.
type ImageOption func(*Image)

func WithAlt(alt string) ImageOption {
	return func(img *Image) { img.Alt = &alt }
}

func WithTitle(title string) ImageOption {
	return func(img *Image) { img.Title = &title }
}

func WithSize(width, height int) ImageOption {
	return func(img *Image) {
		img.Width = &width
		img.Height = &height
	}
}

func WithWidth(width int) ImageOption {
	return func(img *Image) { img.Width = &width }
}

func WithAlign(align ImageAlign) ImageOption {
	return func(img *Image) { img.Align = &align }
}

func WithNaturalSize(width, height int) ImageOption {
	return func(img *Image) {
		img.NaturalWidth = &width
		img.NaturalHeight = &height
	}
}

func NewImage(src string, opts ...ImageOption) (*Image, error) {
	if strings.TrimSpace(src) == "" {
		return nil, invalidf("image: empty src")
	}
	img := &Image{Src: src}
	for _, opt := range opts {
		opt(img)
	}
	for name, v := range map[string]*int{
		"width":         img.Width,
		"height":        img.Height,
		"naturalWidth":  img.NaturalWidth,
		"naturalHeight": img.NaturalHeight,
	} {
		if v != nil && *v <= 0 {
			return nil, invalidf("image: %s must be positive, got %d", name, *v)
		}
	}
	if img.Align != nil && (*img.Align < ImageLeft || *img.Align > ImageRight) {
		return nil, invalidf("image: unknown align %d", *img.Align)
	}
	return img, nil
}

// NewText создает текстовый узел. Текст не может быть пустым, каждый вид отметки допускается один раз.
func NewText(text string, marks ...Mark) (*Text, error) {
	if text == "" {
		return nil, invalidf("text: empty text")
	}
	seen := make(map[MarkKind]bool, len(marks))
	seenUnknown := make(map[string]bool)
	for i, m := range marks {
		if m == nil {
			return nil, invalidf("text: nil mark at %d", i)
		}
		switch mm := m.(type) {
		case TextStyle:
			if mm.IsEmpty() {
				return nil, invalidf("text: empty textStyle")
			}
			if err := checkFontSize(mm.FontSize); err != nil {
				return nil, err
			}
		case Link:
			if mm.Inert() {
				return nil, invalidf("text: link scheme not allowed: %q", mm.Href)
			}
		case UnknownMark:
			if mm.Type == "" || IsKnownMarkType(mm.Type) {
				return nil, invalidf("text: unknown mark with type %q", mm.Type)
			}
			if seenUnknown[mm.Type] {
				return nil, invalidf("text: duplicate mark %q", mm.Type)
			}
			seenUnknown[mm.Type] = true
			continue
		}
		if seen[m.Kind()] {
			return nil, invalidf("text: duplicate mark %s", m.Kind())
		}
		seen[m.Kind()] = true
	}
	return &Text{Text: text, Marks: append([]Mark(nil), marks...)}, nil
}

// LinkOption настраивает атрибуты ссылки.
type LinkOption func(*Link)

func WithLinkTitle(title string) LinkOption {
	return func(l *Link) { l.Title = &title }
}

func WithTarget(target string) LinkOption {
	return func(l *Link) { l.Target = target }
}

func WithRel(rel string) LinkOption {
	return func(l *Link) { l.Rel = rel }
}

// NewLink создает ссылку. Допускаются только схемы http, https, mailto и tel.
func NewLink(href string, opts ...LinkOption) (Link, error) {
	if !IsAllowedHref(href) {
		return Link{}, invalidf("link: scheme not allowed: %q", href)
	}
	l := Link{Href: href, Target: DefaultLinkTarget, Rel: DefaultLinkRel}
	for _, opt := range opts {
		opt(&l)
	}
	return l, nil
}

// NewTextStyle создает стиль текста. Хотя бы одно из полей должно быть задано.
func NewTextStyle(color *Color, fontSize *int) (TextStyle, error) {
	if color == nil && fontSize == nil {
		return TextStyle{}, invalidf("textStyle: neither color nor fontSize set")
	}
	if err := checkFontSize(fontSize); err != nil {
		return TextStyle{}, err
	}
	var ts TextStyle
	if color != nil {
		c := *color
		ts.Color = &c
	}
	if fontSize != nil {
		fs := *fontSize
		ts.FontSize = &fs
	}
	return ts, nil
}

func checkFontSize(fs *int) error {
	if fs != nil && *fs <= 0 {
		return invalidf("textStyle: fontSize must be positive, got %d", *fs)
	}
	return nil
}

func checkInlines(kind string, content []Inline) error {
	for i, n := range content {
		if isNilNode(n) {
			return invalidf("%s: nil inline at %d", kind, i)
		}
	}
	return nil
}

func checkItems(kind string, items []*ListItem) error {
	if len(items) == 0 {
		return invalidf("%s: at least one item required", kind)
	}
	for i, it := range items {
		if it == nil {
			return invalidf("%s: nil item at %d", kind, i)
		}
	}
	return nil
}

func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Paragraph:
		return v == nil
	case *Heading:
		return v == nil
	case *BulletList:
		return v == nil
	case *OrderedList:
		return v == nil
	case *ListItem:
		return v == nil
	case *Image:
		return v == nil
	case *Blockquote:
		return v == nil
	case *CodeBlock:
		return v == nil
	case *HorizontalRule:
		return v == nil
	case *HardBreak:
		return v == nil
	case *YouTube:
		return v == nil
	case *Text:
		return v == nil
	case *Unknown:
		return v == nil
	case *Document:
		return v == nil
	}
	return false
}
