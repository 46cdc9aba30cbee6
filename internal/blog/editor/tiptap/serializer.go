package tiptap

import (
	"bytes"
	"encoding/json"
	"log/slog"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
)

var emptyDoc = []byte(`{"type":"doc"}`)

// Serialize конвертирует Document в канонический TipTap JSON.
// Одинаковые документы всегда дают одинаковые байты: объявленные атрибуты
// выводятся всегда (отсутствующие как null), пустые content и marks опускаются.
func Serialize(doc *edtypes.Document) []byte {
	if doc == nil {
		return emptyDoc
	}

	root := TipTapNode{Type: "doc"}
	for _, b := range doc.Content {
		if n, ok := serializeNode(b); ok {
			root.Content = append(root.Content, n)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(root); err != nil {
		slog.Error("Serialize tiptap document", "err", err)
		return emptyDoc
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

func serializeNodes[T edtypes.Node](nodes []T) []TipTapNode {
	var out []TipTapNode
	for _, n := range nodes {
		if sn, ok := serializeNode(n); ok {
			out = append(out, sn)
		}
	}
	return out
}

// serializeNode сериализует один узел. Возвращает false для nil узлов.
func serializeNode(node edtypes.Node) (TipTapNode, bool) {
	switch n := node.(type) {
	case *edtypes.Paragraph:
		if n == nil {
			break
		}
		return TipTapNode{
			Type:    "paragraph",
			Attrs:   map[string]any{"textAlign": n.Align.String()},
			Content: serializeNodes(n.Content),
		}, true
	case *edtypes.Heading:
		if n == nil {
			break
		}
		return TipTapNode{
			Type:    "heading",
			Attrs:   map[string]any{"level": n.Level},
			Content: serializeNodes(n.Content),
		}, true
	case *edtypes.BulletList:
		if n == nil {
			break
		}
		return TipTapNode{Type: "bulletList", Content: serializeNodes(n.Items)}, true
	case *edtypes.OrderedList:
		if n == nil {
			break
		}
		return TipTapNode{
			Type:    "orderedList",
			Attrs:   map[string]any{"start": n.Start},
			Content: serializeNodes(n.Items),
		}, true
	case *edtypes.ListItem:
		if n == nil {
			break
		}
		return TipTapNode{Type: "listItem", Content: serializeNodes(n.Content)}, true
	case *edtypes.Image:
		if n == nil {
			break
		}
		return serializeImage(n), true
	case *edtypes.Blockquote:
		if n == nil {
			break
		}
		return TipTapNode{Type: "blockquote", Content: serializeNodes(n.Content)}, true
	case *edtypes.CodeBlock:
		if n == nil {
			break
		}
		cb := TipTapNode{
			Type:  "codeBlock",
			Attrs: map[string]any{"language": stringOrNil(n.Language)},
		}
		if n.Code != "" {
			cb.Content = []TipTapNode{{Type: "text", Text: n.Code}}
		}
		return cb, true
	case *edtypes.HorizontalRule:
		if n == nil {
			break
		}
		return TipTapNode{Type: "horizontalRule"}, true
	case *edtypes.HardBreak:
		if n == nil {
			break
		}
		return TipTapNode{Type: "hardBreak"}, true
	case *edtypes.YouTube:
		if n == nil {
			break
		}
		var id any
		if n.VideoID != "" {
			id = n.VideoID
		}
		return TipTapNode{Type: "youtube", Attrs: map[string]any{"videoId": id}}, true
	case *edtypes.Text:
		if n == nil || n.Text == "" {
			break
		}
		return TipTapNode{Type: "text", Text: n.Text, Marks: serializeMarks(n.Marks)}, true
	case *edtypes.Unknown:
		if n == nil || n.Type == "" {
			break
		}
		return TipTapNode{
			Type:    n.Type,
			Attrs:   marshalableAttrs(n.Attrs),
			Content: serializeNodes(n.Content),
		}, true
	}
	return TipTapNode{}, false
}

func serializeImage(img *edtypes.Image) TipTapNode {
	var align any
	if img.Align != nil {
		align = img.Align.String()
	}
	return TipTapNode{
		Type: "image",
		Attrs: map[string]any{
			"src":           img.Src,
			"alt":           stringOrNil(img.Alt),
			"title":         stringOrNil(img.Title),
			"width":         intOrNil(img.Width),
			"height":        intOrNil(img.Height),
			"align":         align,
			"naturalWidth":  intOrNil(img.NaturalWidth),
			"naturalHeight": intOrNil(img.NaturalHeight),
		},
	}
}

func serializeMarks(marks []edtypes.Mark) []TipTapMark {
	var out []TipTapMark
	for _, m := range marks {
		switch mm := m.(type) {
		case edtypes.Bold:
			out = append(out, TipTapMark{Type: "bold"})
		case edtypes.Italic:
			out = append(out, TipTapMark{Type: "italic"})
		case edtypes.Underline:
			out = append(out, TipTapMark{Type: "underline"})
		case edtypes.Code:
			out = append(out, TipTapMark{Type: "code"})
		case edtypes.TextStyle:
			var color any
			if mm.Color != nil {
				color = mm.Color.Hex()
			}
			out = append(out, TipTapMark{
				Type:  "textStyle",
				Attrs: map[string]any{"color": color, "fontSize": intOrNil(mm.FontSize)},
			})
		case edtypes.Link:
			out = append(out, TipTapMark{
				Type: "link",
				Attrs: map[string]any{
					"href":   mm.Href,
					"target": mm.Target,
					"rel":    mm.Rel,
					"title":  stringOrNil(mm.Title),
				},
			})
		case edtypes.UnknownMark:
			if mm.Type == "" {
				continue
			}
			out = append(out, TipTapMark{Type: mm.Type, Attrs: marshalableAttrs(mm.Attrs)})
		}
	}
	return out
}

// marshalableAttrs отбрасывает значения, которые нельзя записать в JSON.
func marshalableAttrs(attrs map[string]any) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if _, err := json.Marshal(v); err != nil {
			slog.Warn("Dropping unserializable attribute", "attr", k, "err", err)
			continue
		}
		out[k] = v
	}
	return out
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func intOrNil(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}
