package editor

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
	"github.com/true1ck/blog-editor/internal/blog/editor/render"
)

var markdownConverter = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Table),
)

// ParseMarkdown переводит Markdown в HTML и разбирает его как импорт HTML.
// Сырой HTML внутри Markdown не пропускается.
func ParseMarkdown(r io.Reader, cfg render.Config) (*edtypes.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := markdownConverter.Convert(src, &buf); err != nil {
		return nil, err
	}
	return ParseHTMLConfig(&buf, cfg)
}
