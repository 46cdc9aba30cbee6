// Пакет edtypes описывает типизированную модель документа редактора блога.
//
// Документ представляет собой дерево узлов закрытого набора видов (абзац, заголовок,
// списки, изображение, цитата, блок кода, видео и т.д.). Неизвестные узлы сохраняются
// как Unknown, чтобы не терять содержимое, созданное более новыми версиями редактора.
//
// Основные возможности:
//   - конструкторы с проверкой инвариантов (NewParagraph, NewHeading, NewImage, ...);
//   - обход дерева и извлечение текста (Walk, PlainText, Excerpt, Thumbnail);
//   - хранение в JSONB через зарегистрированный TipTap кодек (Value/Scan).
package edtypes

import (
	"bytes"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
)

// NodeKind - вид узла документа.
type NodeKind int

const (
	KindDoc NodeKind = iota
	KindParagraph
	KindHeading
	KindBulletList
	KindOrderedList
	KindListItem
	KindImage
	KindBlockquote
	KindCodeBlock
	KindHorizontalRule
	KindHardBreak
	KindYouTube
	KindText
	KindUnknown
)

var kindNames = [...]string{
	KindDoc:            "doc",
	KindParagraph:      "paragraph",
	KindHeading:        "heading",
	KindBulletList:     "bulletList",
	KindOrderedList:    "orderedList",
	KindListItem:       "listItem",
	KindImage:          "image",
	KindBlockquote:     "blockquote",
	KindCodeBlock:      "codeBlock",
	KindHorizontalRule: "horizontalRule",
	KindHardBreak:      "hardBreak",
	KindYouTube:        "youtube",
	KindText:           "text",
	KindUnknown:        "unknown",
}

// String возвращает имя вида в формате TipTap JSON.
func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
	return kindNames[k]
}

// KindByName возвращает вид узла по его имени в TipTap JSON.
// Для Unknown и неизвестных имен возвращает false.
func KindByName(name string) (NodeKind, bool) {
	for k, n := range kindNames {
		if n == name && NodeKind(k) != KindUnknown {
			return NodeKind(k), true
		}
	}
	return KindUnknown, false
}

// TextAlign - выравнивание текста абзаца, по умолчанию влево.
type TextAlign int

const (
	LeftAlign TextAlign = iota
	CenterAlign
	RightAlign
	JustifyAlign
)

// String возвращает имя выравнивания в формате TipTap.
func (a TextAlign) String() string {
	switch a {
	case CenterAlign:
		return "center"
	case RightAlign:
		return "right"
	case JustifyAlign:
		return "justify"
	default:
		return "left"
	}
}

// ParseTextAlign конвертирует строковое значение выравнивания в TextAlign.
// Неизвестные значения дают LeftAlign и false.
func ParseTextAlign(s string) (TextAlign, bool) {
	switch s {
	case "left":
		return LeftAlign, true
	case "center":
		return CenterAlign, true
	case "right":
		return RightAlign, true
	case "justify":
		return JustifyAlign, true
	}
	return LeftAlign, false
}

// ImageAlign - выравнивание изображения.
type ImageAlign int

const (
	ImageLeft ImageAlign = iota
	ImageCenter
	ImageRight
)

// String возвращает имя выравнивания изображения.
func (a ImageAlign) String() string {
	switch a {
	case ImageCenter:
		return "center"
	case ImageRight:
		return "right"
	default:
		return "left"
	}
}

// ParseImageAlign конвертирует строку в ImageAlign. Неизвестные значения дают ImageLeft и false.
func ParseImageAlign(s string) (ImageAlign, bool) {
	switch s {
	case "left":
		return ImageLeft, true
	case "center":
		return ImageCenter, true
	case "right":
		return ImageRight, true
	}
	return ImageLeft, false
}

// Node - узел дерева документа. Набор реализаций закрыт этим пакетом.
type Node interface {
	Kind() NodeKind
	node()
}

// Block - узел, допустимый на уровне блоков (документ, цитата).
type Block interface {
	Node
	block()
}

// Inline - узел, допустимый внутри абзаца или заголовка.
type Inline interface {
	Node
	inline()
}

// TipTapParser - функция для парсинга TipTap JSON, устанавливается из tiptap пакета
var TipTapParser func(io.Reader) (*Document, error)

// TipTapSerializer - функция для сериализации Document в TipTap JSON, устанавливается из tiptap пакета
var TipTapSerializer func(*Document) []byte

// Document - корневой узел "doc". Пустой документ не содержит дочерних узлов.
type Document struct {
	Content []Block
}

func (*Document) Kind() NodeKind { return KindDoc }
func (*Document) node()          {}

// IsEmpty сообщает, что документ не содержит видимого содержимого.
func (d *Document) IsEmpty() bool {
	empty := true
	if d == nil {
		return empty
	}
	Walk(d, func(n Node) bool {
		switch v := n.(type) {
		case *Text:
			empty = empty && IsBlank(v.Text)
		case *CodeBlock:
			empty = empty && v.Code == ""
		case *Image, *YouTube, *HorizontalRule:
			empty = false
		}
		return empty
	})
	return empty
}

// UnmarshalJSON реализует кастомную десериализацию TipTap JSON в Document.
// Автоматически вызывает зарегистрированный TipTapParser.
func (d *Document) UnmarshalJSON(data []byte) error {
	if TipTapParser == nil {
		return errors.New("TipTapParser not registered, import tiptap package to enable TipTap JSON parsing")
	}

	doc, err := TipTapParser(bytes.NewReader(data))
	if err != nil {
		return err
	}

	d.Content = doc.Content
	return nil
}

// MarshalJSON реализует кастомную сериализацию Document в TipTap JSON.
func (d Document) MarshalJSON() ([]byte, error) {
	if TipTapSerializer == nil {
		return nil, errors.New("TipTapSerializer not registered, import tiptap package to enable TipTap JSON serialization")
	}
	return TipTapSerializer(&d), nil
}

// Value реализует интерфейс driver.Valuer для сохранения Document в JSONB колонке.
func (d Document) Value() (driver.Value, error) {
	b, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Scan реализует интерфейс sql.Scanner для чтения Document из JSONB колонки.
func (d *Document) Scan(value interface{}) error {
	if value == nil {
		*d = Document{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSONB value: %T", value)
	}

	return d.UnmarshalJSON(raw)
}

// GormDataType указывает GORM использовать тип JSONB для колонок.
func (Document) GormDataType() string {
	return "jsonb"
}

// Paragraph - абзац со строчным содержимым.
type Paragraph struct {
	Align   TextAlign
	Content []Inline
}

func (*Paragraph) Kind() NodeKind { return KindParagraph }

// Heading - заголовок. Level в документах, построенных конструктором, лежит в 1..6,
// после разбора внешних данных может быть любым.
type Heading struct {
	Level   int
	Content []Inline
}

func (*Heading) Kind() NodeKind { return KindHeading }

// BulletList - маркированный список.
type BulletList struct {
	Items []*ListItem
}

func (*BulletList) Kind() NodeKind { return KindBulletList }

// OrderedList - нумерованный список, Start - номер первого пункта.
type OrderedList struct {
	Start int
	Items []*ListItem
}

func (*OrderedList) Kind() NodeKind { return KindOrderedList }

// ListItem содержит блочные или строчные узлы.
type ListItem struct {
	Content []Node
}

func (*ListItem) Kind() NodeKind { return KindListItem }

// Image - изображение. Src обязателен, размеры и выравнивание задаются при изменении размера в редакторе.
type Image struct {
	Src           string
	Alt           *string
	Title         *string
	Width         *int
	Height        *int
	Align         *ImageAlign
	NaturalWidth  *int
	NaturalHeight *int
}

func (*Image) Kind() NodeKind { return KindImage }

// Blockquote - цитата из блочных узлов.
type Blockquote struct {
	Content []Block
}

func (*Blockquote) Kind() NodeKind { return KindBlockquote }

// CodeBlock хранит код дословно, без разметки.
type CodeBlock struct {
	Language *string
	Code     string
}

func (*CodeBlock) Kind() NodeKind { return KindCodeBlock }

// HorizontalRule - горизонтальная линия.
type HorizontalRule struct{}

func (*HorizontalRule) Kind() NodeKind { return KindHorizontalRule }

// HardBreak - перенос строки внутри абзаца.
type HardBreak struct {
	// Пустая структура для представления переноса строки <br>
}

func (*HardBreak) Kind() NodeKind { return KindHardBreak }

// YouTube - встроенное видео. Пустой или некорректный VideoID отображается заглушкой.
type YouTube struct {
	VideoID string
}

func (*YouTube) Kind() NodeKind { return KindYouTube }

// Text - текстовый узел с отметками форматирования. Первая отметка отображается самой внутренней.
type Text struct {
	Text  string
	Marks []Mark
}

func (*Text) Kind() NodeKind { return KindText }

// Unknown сохраняет узел неизвестного вида вместе с атрибутами и дочерними узлами.
// При отображении обертка опускается, а дочерние узлы выводятся как есть.
type Unknown struct {
	Type    string
	Attrs   map[string]any
	Content []Node
}

func (*Unknown) Kind() NodeKind { return KindUnknown }

func (*Paragraph) node()      {}
func (*Heading) node()        {}
func (*BulletList) node()     {}
func (*OrderedList) node()    {}
func (*ListItem) node()       {}
func (*Image) node()          {}
func (*Blockquote) node()     {}
func (*CodeBlock) node()      {}
func (*HorizontalRule) node() {}
func (*HardBreak) node()      {}
func (*YouTube) node()        {}
func (*Text) node()           {}
func (*Unknown) node()        {}

func (*Paragraph) block()      {}
func (*Heading) block()        {}
func (*BulletList) block()     {}
func (*OrderedList) block()    {}
func (*Image) block()          {}
func (*Blockquote) block()     {}
func (*CodeBlock) block()      {}
func (*HorizontalRule) block() {}
func (*YouTube) block()        {}
func (*Unknown) block()        {}

func (*Text) inline()      {}
func (*HardBreak) inline() {}
func (*Unknown) inline()   {}
