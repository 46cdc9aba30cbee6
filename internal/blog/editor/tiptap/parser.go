package tiptap

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
)

func init() {
	edtypes.TipTapParser = ParseJSON
	edtypes.TipTapSerializer = Serialize
}

// Parse разбирает TipTap JSON в Document.
func Parse(data []byte) (*edtypes.Document, error) {
	return ParseJSON(bytes.NewReader(data))
}

// ParseJSON читает TipTap JSON из reader и возвращает Document.
// Ошибка типа *ParseError возвращается только если JSON некорректен,
// корень не объект или у корня нет строкового поля type.
func ParseJSON(r io.Reader) (*edtypes.Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &ParseError{Reason: "invalid JSON: " + err.Error(), Path: "$"}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Reason: "invalid JSON: trailing data after document", Path: "$"}
	}
	return ParseValue(raw)
}

// ParseValue разбирает уже декодированное JSON значение (map[string]any).
func ParseValue(v any) (*edtypes.Document, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &ParseError{Reason: "root is not an object", Path: "$"}
	}
	if t, ok := m["type"].(string); !ok || t == "" {
		return nil, &ParseError{Reason: "root has no type", Path: "$"}
	}

	root, _ := toNode(m)
	if root.Type == "doc" {
		return &edtypes.Document{Content: parseBlocks(root.Content, "$")}, nil
	}

	slog.Debug("Root node is not a doc, wrapping", "type", root.Type)
	return &edtypes.Document{Content: parseBlocks([]TipTapNode{root}, "$")}, nil
}

// toNode переводит декодированное значение в TipTapNode, пропуская элементы неверной формы.
func toNode(v any) (TipTapNode, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return TipTapNode{}, false
	}

	var n TipTapNode
	n.Type, _ = m["type"].(string)
	n.Attrs, _ = m["attrs"].(map[string]any)
	n.Text, _ = m["text"].(string)

	if content, ok := m["content"].([]any); ok {
		for _, c := range content {
			if cn, ok := toNode(c); ok {
				n.Content = append(n.Content, cn)
			}
		}
	}

	if marks, ok := m["marks"].([]any); ok {
		for _, raw := range marks {
			mm, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			t, _ := mm["type"].(string)
			if t == "" {
				continue
			}
			attrs, _ := mm["attrs"].(map[string]any)
			n.Marks = append(n.Marks, TipTapMark{Type: t, Attrs: attrs})
		}
	}
	return n, true
}

// parseBlocks разбирает дочерние узлы блочного контейнера.
// Строчные узлы подряд объединяются в один абзац.
func parseBlocks(nodes []TipTapNode, path string) []edtypes.Block {
	var (
		blocks []edtypes.Block
		run    []edtypes.Inline
	)
	flush := func() {
		if len(run) > 0 {
			blocks = append(blocks, &edtypes.Paragraph{Align: edtypes.LeftAlign, Content: run})
			run = nil
		}
	}

	for i, n := range nodes {
		p := childPath(path, i)
		if isInlineType(n.Type) {
			if in := parseInline(n, p); in != nil {
				if len(run) == 0 {
					slog.Debug("Wrapping inline run at block position", "path", p)
				}
				run = append(run, in)
			}
			continue
		}
		flush()
		if b := parseBlock(n, p); b != nil {
			blocks = append(blocks, b)
		}
	}
	flush()
	return blocks
}

// parseInlines разбирает содержимое абзаца или заголовка. Блочные узлы отбрасываются.
func parseInlines(nodes []TipTapNode, path string) []edtypes.Inline {
	var out []edtypes.Inline
	for i, n := range nodes {
		p := childPath(path, i)
		if _, known := edtypes.KindByName(n.Type); known && !isInlineType(n.Type) {
			slog.Debug("Dropping block node in inline content", "type", n.Type, "path", p)
			continue
		}
		if in := parseInline(n, p); in != nil {
			out = append(out, in)
		}
	}
	return out
}

// parseNodes разбирает содержимое без ограничений на вид (элемент списка, неизвестный узел).
func parseNodes(nodes []TipTapNode, path string) []edtypes.Node {
	var out []edtypes.Node
	for i, n := range nodes {
		p := childPath(path, i)
		var node edtypes.Node
		if isInlineType(n.Type) {
			if in := parseInline(n, p); in != nil {
				node = in
			}
		} else if n.Type == "listItem" {
			node = parseListItem(n, p)
		} else if b := parseBlock(n, p); b != nil {
			node = b
		}
		if node != nil {
			out = append(out, node)
		}
	}
	return out
}

func isInlineType(t string) bool {
	return t == "text" || t == "hardBreak"
}

func parseInline(n TipTapNode, path string) edtypes.Inline {
	switch n.Type {
	case "text":
		return parseText(n, path)
	case "hardBreak":
		return &edtypes.HardBreak{}
	case "":
		slog.Debug("Dropping node without type", "path", path)
		return nil
	default:
		return parseUnknown(n, path)
	}
}

func parseBlock(n TipTapNode, path string) edtypes.Block {
	switch n.Type {
	case "paragraph":
		return parseParagraph(n, path)
	case "heading":
		return parseHeading(n, path)
	case "bulletList":
		return &edtypes.BulletList{Items: parseListItems(n, path)}
	case "orderedList":
		return parseOrderedList(n, path)
	case "image":
		return parseImage(n, path)
	case "blockquote":
		return &edtypes.Blockquote{Content: parseBlocks(n.Content, path)}
	case "codeBlock":
		return parseCodeBlock(n)
	case "horizontalRule":
		return &edtypes.HorizontalRule{}
	case "youtube":
		return parseYouTube(n, path)
	case "listItem":
		slog.Debug("List item outside of list, keeping as unknown", "path", path)
		item := parseListItem(n, path)
		return &edtypes.Unknown{Type: "listItem", Content: item.Content}
	case "":
		slog.Debug("Dropping node without type", "path", path)
		return nil
	default:
		return parseUnknown(n, path)
	}
}
