package render

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
	policy "github.com/true1ck/blog-editor/internal/blog/redactor-policy"
)

var minifier *minify.M = minify.New()

func init() {
	minifier.Add("text/html", &mhtml.Minifier{KeepEndTags: true, KeepQuotes: true})
}

// SafeHTML отображает документ и пропускает результат через политику безопасности.
// Используется, когда разметка встраивается рядом с недоверенным содержимым.
func SafeHTML(doc *edtypes.Document, cfg Config) string {
	return policy.Sanitize(RenderHTML(doc, cfg))
}

// Minify сжимает разметку. При ошибке возвращается исходная строка.
func Minify(s string) string {
	out, err := minifier.String("text/html", s)
	if err != nil {
		slog.Warn("Minify rendered html", "err", err)
		return s
	}
	return out
}

// PlainText возвращает текстовое представление документа.
// Блоки разделяются пустой строкой, перенос строки дает "\n".
func PlainText(doc *edtypes.Document) string {
	if doc == nil {
		return ""
	}
	var blocks []string
	for _, b := range doc.Content {
		if s := plainBlock(b, ""); s != "" {
			blocks = append(blocks, s)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func plainBlock(n edtypes.Node, indent string) string {
	switch v := n.(type) {
	case *edtypes.Paragraph:
		return strings.TrimSpace(plainInlines(v.Content))
	case *edtypes.Heading:
		return strings.TrimSpace(plainInlines(v.Content))
	case *edtypes.BulletList:
		var lines []string
		for _, item := range v.Items {
			lines = append(lines, plainItem(item, indent, "- "))
		}
		return strings.Join(lines, "\n")
	case *edtypes.OrderedList:
		var lines []string
		for i, item := range v.Items {
			lines = append(lines, plainItem(item, indent, strconv.Itoa(v.Start+i)+". "))
		}
		return strings.Join(lines, "\n")
	case *edtypes.ListItem:
		return plainItem(v, indent, "")
	case *edtypes.Blockquote:
		var parts []string
		for _, b := range v.Content {
			if s := plainBlock(b, ""); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return ""
		}
		lines := strings.Split(strings.Join(parts, "\n\n"), "\n")
		for i, l := range lines {
			lines[i] = strings.TrimRight("> "+l, " ")
		}
		return strings.Join(lines, "\n")
	case *edtypes.CodeBlock:
		return v.Code
	case *edtypes.Image:
		if v.Alt != nil && *v.Alt != "" {
			return "[" + *v.Alt + "]"
		}
		return ""
	case *edtypes.YouTube:
		if edtypes.IsValidVideoID(v.VideoID) {
			return edtypes.YouTubeWatchURL(v.VideoID)
		}
		return ""
	case *edtypes.HorizontalRule:
		return "---"
	case *edtypes.Text, *edtypes.HardBreak:
		return plainInlines([]edtypes.Inline{v.(edtypes.Inline)})
	case *edtypes.Unknown:
		var parts []string
		var inline strings.Builder
		flush := func() {
			if s := strings.TrimSpace(inline.String()); s != "" {
				parts = append(parts, s)
			}
			inline.Reset()
		}
		for _, c := range v.Content {
			switch c.(type) {
			case *edtypes.Text, *edtypes.HardBreak:
				inline.WriteString(plainInlines([]edtypes.Inline{c.(edtypes.Inline)}))
			default:
				flush()
				if s := plainBlock(c, indent); s != "" {
					parts = append(parts, s)
				}
			}
		}
		flush()
		return strings.Join(parts, "\n\n")
	}
	return ""
}

func plainItem(item *edtypes.ListItem, indent, marker string) string {
	if item == nil {
		return indent + marker
	}
	var lines []string
	for _, c := range item.Content {
		s := plainBlock(c, indent+"  ")
		if s == "" {
			continue
		}
		switch c.(type) {
		case *edtypes.BulletList, *edtypes.OrderedList:
			// вложенный список уже содержит отступ
			lines = append(lines, s)
		default:
			lines = append(lines, strings.ReplaceAll(s, "\n", "\n"+indent+"  "))
		}
	}
	if len(lines) == 0 {
		return strings.TrimRight(indent+marker, " ")
	}
	first := lines[0]
	if _, nested := firstNested(item); nested {
		return strings.TrimRight(indent+marker, " ") + "\n" + strings.Join(lines, "\n")
	}
	return indent + marker + first + joinRest(lines[1:])
}

func firstNested(item *edtypes.ListItem) (edtypes.Node, bool) {
	for _, c := range item.Content {
		if plainBlock(c, "") == "" {
			continue
		}
		switch c.(type) {
		case *edtypes.BulletList, *edtypes.OrderedList:
			return c, true
		}
		return c, false
	}
	return nil, false
}

func joinRest(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return "\n" + strings.Join(lines, "\n")
}

func plainInlines(nodes []edtypes.Inline) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch v := n.(type) {
		case *edtypes.Text:
			sb.WriteString(v.Text)
		case *edtypes.HardBreak:
			sb.WriteByte('\n')
		case *edtypes.Unknown:
			for _, c := range v.Content {
				if in, ok := c.(edtypes.Inline); ok {
					sb.WriteString(plainInlines([]edtypes.Inline{in}))
				}
			}
		}
	}
	return sb.String()
}
