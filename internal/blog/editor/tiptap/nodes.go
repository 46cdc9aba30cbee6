package tiptap

import (
	"log/slog"
	"strings"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
)

// parseParagraph парсит параграф. Неизвестное выравнивание заменяется на left.
func parseParagraph(n TipTapNode, path string) *edtypes.Paragraph {
	p := &edtypes.Paragraph{Align: edtypes.LeftAlign}
	if raw, ok := getAttrString(n.Attrs, "textAlign"); ok {
		align, known := edtypes.ParseTextAlign(raw)
		if !known {
			slog.Debug("Unknown paragraph align", "align", raw, "path", path)
		}
		p.Align = align
	}
	p.Content = parseInlines(n.Content, path)
	return p
}

// parseHeading парсит заголовок. Нечисловой уровень заменяется на 1,
// числовой сохраняется как есть.
func parseHeading(n TipTapNode, path string) *edtypes.Heading {
	level, ok := getAttrInt(n.Attrs, "level")
	if !ok {
		slog.Debug("Heading without numeric level", "path", path)
		level = 1
	}
	return &edtypes.Heading{Level: level, Content: parseInlines(n.Content, path)}
}

func parseOrderedList(n TipTapNode, path string) *edtypes.OrderedList {
	start, ok := getAttrInt(n.Attrs, "start")
	if !ok || start < 0 {
		start = 1
	}
	return &edtypes.OrderedList{Start: start, Items: parseListItems(n, path)}
}

// parseListItems оставляет только узлы listItem.
func parseListItems(n TipTapNode, path string) []*edtypes.ListItem {
	var items []*edtypes.ListItem
	for i, c := range n.Content {
		p := childPath(path, i)
		if c.Type != "listItem" {
			slog.Debug("Dropping non listItem child of list", "type", c.Type, "path", p)
			continue
		}
		items = append(items, parseListItem(c, p))
	}
	return items
}

func parseListItem(n TipTapNode, path string) *edtypes.ListItem {
	return &edtypes.ListItem{Content: parseNodes(n.Content, path)}
}

// parseImage парсит изображение. Узел без src отбрасывается.
func parseImage(n TipTapNode, path string) edtypes.Block {
	src, _ := getAttrString(n.Attrs, "src")
	if strings.TrimSpace(src) == "" {
		slog.Debug("Dropping image without src", "path", path)
		return nil
	}

	img := &edtypes.Image{
		Src:           src,
		Alt:           getAttrStringPtr(n.Attrs, "alt"),
		Title:         getAttrStringPtr(n.Attrs, "title"),
		Width:         getAttrPositiveInt(n.Attrs, "width"),
		Height:        getAttrPositiveInt(n.Attrs, "height"),
		NaturalWidth:  getAttrPositiveInt(n.Attrs, "naturalWidth"),
		NaturalHeight: getAttrPositiveInt(n.Attrs, "naturalHeight"),
	}
	if raw, ok := getAttrString(n.Attrs, "align"); ok {
		if align, known := edtypes.ParseImageAlign(raw); known {
			img.Align = &align
		} else {
			slog.Debug("Unknown image align", "align", raw, "path", path)
		}
	}
	return img
}

// parseCodeBlock склеивает текст дочерних узлов, отметки игнорируются.
func parseCodeBlock(n TipTapNode) *edtypes.CodeBlock {
	cb := &edtypes.CodeBlock{}
	if lang, ok := getAttrString(n.Attrs, "language"); ok && lang != "" {
		cb.Language = &lang
	}

	var sb strings.Builder
	for _, c := range n.Content {
		switch c.Type {
		case "text":
			sb.WriteString(c.Text)
		case "hardBreak":
			sb.WriteByte('\n')
		}
	}
	cb.Code = sb.String()
	return cb
}

// parseYouTube сохраняет узел даже с некорректным id. Ссылка на видео сводится к id,
// некорректный id заменяется пустым, такой узел отображается заглушкой.
func parseYouTube(n TipTapNode, path string) *edtypes.YouTube {
	raw, _ := getAttrString(n.Attrs, "videoId")
	id, ok := edtypes.YouTubeVideoID(raw)
	if !ok {
		if raw != "" {
			slog.Debug("Invalid youtube video id", "videoId", raw, "path", path)
		}
		id = ""
	}
	return &edtypes.YouTube{VideoID: id}
}

// parseText парсит текстовый узел. Пустой текст отбрасывается.
func parseText(n TipTapNode, path string) edtypes.Inline {
	if n.Text == "" {
		slog.Debug("Dropping empty text node", "path", path)
		return nil
	}
	return &edtypes.Text{Text: n.Text, Marks: parseMarks(n.Marks, path)}
}

// parseUnknown сохраняет неизвестный узел вместе с атрибутами и дочерними узлами.
func parseUnknown(n TipTapNode, path string) *edtypes.Unknown {
	slog.Debug("Unknown node type", "type", n.Type, "path", path)
	return &edtypes.Unknown{
		Type:    n.Type,
		Attrs:   n.Attrs,
		Content: parseNodes(n.Content, path),
	}
}
