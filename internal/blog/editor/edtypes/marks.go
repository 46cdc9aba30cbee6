package edtypes

import (
	"regexp"
)

// MarkKind - вид форматирования текста.
type MarkKind int

const (
	MarkBold MarkKind = iota
	MarkItalic
	MarkUnderline
	MarkCode
	MarkTextStyle
	MarkLink
	MarkUnknown
)

var markNames = [...]string{
	MarkBold:      "bold",
	MarkItalic:    "italic",
	MarkUnderline: "underline",
	MarkCode:      "code",
	MarkTextStyle: "textStyle",
	MarkLink:      "link",
	MarkUnknown:   "unknown",
}

func (k MarkKind) String() string {
	if k < 0 || int(k) >= len(markNames) {
		return "unknown"
	}
	return markNames[k]
}

// IsKnownMarkType сообщает, что name - имя отметки с собственным типом в модели.
func IsKnownMarkType(name string) bool {
	for k := MarkBold; k < MarkUnknown; k++ {
		if markNames[k] == name {
			return true
		}
	}
	return false
}

// Mark - форматирование, применяемое к текстовому узлу. Набор реализаций закрыт.
type Mark interface {
	Kind() MarkKind
	mark()
}

type Bold struct{}
type Italic struct{}
type Underline struct{}
type Code struct{}

// TextStyle объединяет цвет и размер шрифта в одну отметку.
// FontSize задается в пикселях.
type TextStyle struct {
	Color    *Color
	FontSize *int
}

// Merge возвращает стиль, в котором заданные поля s сохраняются,
// а пустые заполняются из other.
func (s TextStyle) Merge(other TextStyle) TextStyle {
	if s.Color == nil && other.Color != nil {
		c := *other.Color
		s.Color = &c
	}
	if s.FontSize == nil && other.FontSize != nil {
		fs := *other.FontSize
		s.FontSize = &fs
	}
	return s
}

// IsEmpty сообщает, что стиль не задает ни цвет, ни размер.
func (s TextStyle) IsEmpty() bool {
	return s.Color == nil && s.FontSize == nil
}

const (
	DefaultLinkTarget = "_blank"
	DefaultLinkRel    = "noopener noreferrer nofollow"
)

type Link struct {
	Href   string
	Target string
	Rel    string
	Title  *string
}

// Inert сообщает, что ссылка имеет недопустимую схему и выводится без href.
func (l Link) Inert() bool {
	return !IsAllowedHref(l.Href)
}

// UnknownMark сохраняет отметку неизвестного вида. При отображении игнорируется.
type UnknownMark struct {
	Type  string
	Attrs map[string]any
}

func (Bold) Kind() MarkKind        { return MarkBold }
func (Italic) Kind() MarkKind      { return MarkItalic }
func (Underline) Kind() MarkKind   { return MarkUnderline }
func (Code) Kind() MarkKind        { return MarkCode }
func (TextStyle) Kind() MarkKind   { return MarkTextStyle }
func (Link) Kind() MarkKind        { return MarkLink }
func (UnknownMark) Kind() MarkKind { return MarkUnknown }

func (Bold) mark()        {}
func (Italic) mark()      {}
func (Underline) mark()   {}
func (Code) mark()        {}
func (TextStyle) mark()   {}
func (Link) mark()        {}
func (UnknownMark) mark() {}

var allowedHrefReg = regexp.MustCompile(`(?i)^(https?://|mailto:|tel:)`)

// IsAllowedHref проверяет схему ссылки по списку http, https, mailto, tel.
func IsAllowedHref(href string) bool {
	return allowedHrefReg.MatchString(href)
}
