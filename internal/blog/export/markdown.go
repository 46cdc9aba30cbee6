// Пакет export преобразует документ редактора в форматы для выгрузки: Markdown и PDF.
//
// Основные возможности:
//   - Markdown с сохранением заголовков, списков, цитат, блоков кода и отметок текста.
//   - PDF с поддержкой шрифтов Unicode, ссылок и загрузки изображений.
package export

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
)

// ToMarkdown записывает документ в формате Markdown.
func ToMarkdown(doc *edtypes.Document, w io.Writer) error {
	m := md.NewMarkdown(w)
	if doc != nil {
		first := true
		for _, b := range doc.Content {
			if !hasMarkdown(b) {
				continue
			}
			if !first {
				m.LF()
			}
			first = false
			writeMarkdownBlock(m, b)
		}
	}
	return m.Build()
}

// MarkdownString возвращает документ в формате Markdown.
func MarkdownString(doc *edtypes.Document) (string, error) {
	var sb strings.Builder
	if err := ToMarkdown(doc, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func hasMarkdown(n edtypes.Node) bool {
	switch v := n.(type) {
	case *edtypes.Paragraph, *edtypes.Heading:
		return !edtypes.IsBlank(edtypes.PlainText(v))
	case *edtypes.Image:
		return !edtypes.IsBlank(v.Src)
	case *edtypes.Unknown:
		for _, c := range v.Content {
			if hasMarkdown(c) {
				return true
			}
		}
		return false
	}
	return true
}

func writeMarkdownBlock(m *md.Markdown, n edtypes.Node) {
	switch v := n.(type) {
	case *edtypes.Paragraph:
		m.PlainText(markdownInlines(v.Content))
	case *edtypes.Heading:
		text := strings.ReplaceAll(markdownInlines(v.Content), "\n", " ")
		switch min(max(v.Level, 1), 6) {
		case 1:
			m.H1(text)
		case 2:
			m.H2(text)
		case 3:
			m.H3(text)
		case 4:
			m.H4(text)
		case 5:
			m.H5(text)
		default:
			m.H6(text)
		}
	case *edtypes.BulletList:
		m.BulletList(markdownItems(v.Items)...)
	case *edtypes.OrderedList:
		items := markdownItems(v.Items)
		if v.Start == 1 {
			m.OrderedList(items...)
			return
		}
		for i, item := range items {
			m.PlainText(strconv.Itoa(v.Start+i) + ". " + item)
		}
	case *edtypes.ListItem:
		m.PlainText(markdownItem(v))
	case *edtypes.Blockquote:
		var parts []string
		for _, b := range v.Content {
			if hasMarkdown(b) {
				parts = append(parts, markdownBlockString(b))
			}
		}
		for _, line := range strings.Split(strings.Join(parts, "\n\n"), "\n") {
			m.Blockquote(line)
		}
	case *edtypes.CodeBlock:
		lang := md.SyntaxHighlight("")
		if v.Language != nil {
			lang = md.SyntaxHighlight(*v.Language)
		}
		m.CodeBlocks(lang, v.Code)
	case *edtypes.HorizontalRule:
		m.HorizontalRule()
	case *edtypes.Image:
		m.PlainText(markdownImage(v))
	case *edtypes.YouTube:
		if url := edtypes.YouTubeWatchURL(v.VideoID); url != "" {
			m.PlainText(md.Link(url, url))
		} else {
			m.PlainText("YouTube")
		}
	case *edtypes.Text, *edtypes.HardBreak:
		m.PlainText(markdownInlines([]edtypes.Inline{v.(edtypes.Inline)}))
	case *edtypes.Unknown:
		first := true
		for _, c := range v.Content {
			if !hasMarkdown(c) {
				continue
			}
			if !first {
				m.LF()
			}
			first = false
			writeMarkdownBlock(m, c)
		}
	}
}

// markdownBlockString возвращает разметку блока без завершающего перевода строки.
func markdownBlockString(n edtypes.Node) string {
	m := md.NewMarkdown(io.Discard)
	writeMarkdownBlock(m, n)
	return strings.TrimRight(m.String(), "\n")
}

func markdownItems(items []*edtypes.ListItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, markdownItem(item))
	}
	return out
}

// markdownItem возвращает содержимое элемента списка. Строки после первой
// сдвигаются, чтобы вложенные блоки оставались внутри элемента.
func markdownItem(item *edtypes.ListItem) string {
	if item == nil {
		return ""
	}
	var parts []string
	var inline []edtypes.Inline
	flush := func() {
		if len(inline) > 0 {
			parts = append(parts, markdownInlines(inline))
			inline = nil
		}
	}
	for _, c := range item.Content {
		if in, ok := c.(edtypes.Inline); ok {
			if _, unknown := c.(*edtypes.Unknown); !unknown {
				inline = append(inline, in)
				continue
			}
		}
		flush()
		if hasMarkdown(c) {
			parts = append(parts, markdownBlockString(c))
		}
	}
	flush()
	return strings.ReplaceAll(strings.Join(parts, "\n"), "\n", "\n   ")
}

func markdownImage(img *edtypes.Image) string {
	alt := ""
	if img.Alt != nil {
		alt = markdownEscaper.Replace(*img.Alt)
	}
	if img.Title != nil && *img.Title != "" {
		return fmt.Sprintf("![%s](%s %q)", alt, img.Src, *img.Title)
	}
	return fmt.Sprintf("![%s](%s)", alt, img.Src)
}

func markdownInlines(nodes []edtypes.Inline) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch v := n.(type) {
		case *edtypes.Text:
			sb.WriteString(markdownText(v))
		case *edtypes.HardBreak:
			sb.WriteString("  \n")
		case *edtypes.Unknown:
			var inner []edtypes.Inline
			for _, c := range v.Content {
				if in, ok := c.(edtypes.Inline); ok {
					inner = append(inner, in)
				}
			}
			sb.WriteString(markdownInlines(inner))
		}
	}
	return sb.String()
}

// markdownText применяет отметки в порядке объявления, первая отметка самая внутренняя.
func markdownText(t *edtypes.Text) string {
	s := t.Text
	if !slices.ContainsFunc(t.Marks, func(m edtypes.Mark) bool { return m.Kind() == edtypes.MarkCode }) {
		s = markdownEscaper.Replace(s)
	}
	for _, mark := range t.Marks {
		switch v := mark.(type) {
		case edtypes.Bold:
			s = md.Bold(s)
		case edtypes.Italic:
			s = md.Italic(s)
		case edtypes.Underline:
			s = "<u>" + s + "</u>"
		case edtypes.Code:
			s = md.Code(s)
		case edtypes.Link:
			if !v.Inert() {
				s = md.Link(s, v.Href)
			}
		}
	}
	return s
}
