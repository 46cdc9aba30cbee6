package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
	"github.com/true1ck/blog-editor/internal/blog/editor/tiptap"
)

const sampleJSON = `{"type":"doc","content":[
	{"type":"heading","attrs":{"level":2},"content":[{"type":"text","text":"Заголовок"}]},
	{"type":"paragraph","content":[
		{"type":"text","text":"bold","marks":[{"type":"bold"}]},
		{"type":"text","text":" and "},
		{"type":"text","text":"both","marks":[{"type":"bold"},{"type":"italic"}]},
		{"type":"hardBreak"},
		{"type":"text","text":"link","marks":[{"type":"link","attrs":{"href":"https://a.b"}}]},
		{"type":"text","text":" bad","marks":[{"type":"link","attrs":{"href":"javascript:alert(1)"}}]},
		{"type":"text","text":" x_y","marks":[{"type":"code"}]}
	]},
	{"type":"paragraph"},
	{"type":"bulletList","content":[
		{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"one"}]}]},
		{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"two"}]}]}
	]},
	{"type":"orderedList","attrs":{"start":4},"content":[
		{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"four"}]}]}
	]},
	{"type":"blockquote","content":[{"type":"paragraph","content":[{"type":"text","text":"quoted"}]}]},
	{"type":"codeBlock","attrs":{"language":"go"},"content":[{"type":"text","text":"fmt.Println(1)"}]},
	{"type":"horizontalRule"},
	{"type":"image","attrs":{"src":"https://cdn/a.png","alt":"pic"}},
	{"type":"youtube","attrs":{"videoId":"dQw4w9WgXcQ"}},
	{"type":"callout","content":[{"type":"paragraph","content":[{"type":"text","text":"inside unknown 😋"}]}]}
]}`

func sampleDoc(t *testing.T) *edtypes.Document {
	t.Helper()
	doc, err := tiptap.Parse([]byte(sampleJSON))
	require.NoError(t, err)
	return doc
}

func TestMarkdown(t *testing.T) {
	out, err := MarkdownString(sampleDoc(t))
	require.NoError(t, err)

	for _, want := range []string{
		"## Заголовок",
		"**bold** and ***both***",
		"[link](https://a.b)",
		" bad",
		"` x_y`",
		"- one",
		"- two",
		"4. four",
		"> quoted",
		"```go",
		"fmt.Println(1)",
		"![pic](https://cdn/a.png)",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"inside unknown",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "javascript")
}

func TestMarkdownEscapesText(t *testing.T) {
	doc, err := tiptap.Parse([]byte(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"a*b_c[d]"}]}]}`))
	require.NoError(t, err)

	out, err := MarkdownString(doc)
	require.NoError(t, err)
	assert.Contains(t, out, `a\*b\_c\[d\]`)
}

func TestMarkdownEmpty(t *testing.T) {
	out, err := MarkdownString(&edtypes.Document{})
	require.NoError(t, err)
	assert.Empty(t, bytes.TrimSpace([]byte(out)))

	_, err = MarkdownString(nil)
	assert.NoError(t, err)
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	err := ToPDF(context.Background(), sampleDoc(t), &buf, PDFOptions{Title: "Пост", Author: "author"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFEmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ToPDF(context.Background(), nil, &buf, PDFOptions{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := ToPDF(ctx, sampleDoc(t), &buf, PDFOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPDFWithImages(t *testing.T) {
	data := testPNG(t, 8, 8)
	var requested []string
	loader := ImageLoaderFunc(func(ctx context.Context, src string) ([]byte, string, error) {
		requested = append(requested, src)
		if src == "https://cdn/broken.png" {
			return nil, "", errors.New("not found")
		}
		return data, "png", nil
	})

	doc, err := tiptap.Parse([]byte(`{"type":"doc","content":[
		{"type":"image","attrs":{"src":"https://cdn/a.png","width":100,"align":"center","title":"caption"}},
		{"type":"image","attrs":{"src":"https://cdn/a.png"}},
		{"type":"image","attrs":{"src":"https://cdn/broken.png","alt":"broken"}}
	]}`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ToPDF(context.Background(), doc, &buf, PDFOptions{Images: loader}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, []string{"https://cdn/a.png", "https://cdn/broken.png"}, requested)
}

func TestHTTPImageLoader(t *testing.T) {
	data := testPNG(t, 64, 32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/a.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	base, err := url.Parse(srv.URL)
	require.NoError(t, err)
	loader := NewHTTPImageLoader(base, 5*time.Second)
	loader.MaxSize = 16

	out, imageType, err := loader.LoadImage(context.Background(), "/files/a.png")
	require.NoError(t, err)
	assert.Equal(t, "jpg", imageType)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	_, _, err = loader.LoadImage(context.Background(), "/files/missing.png")
	assert.Error(t, err)

	_, _, err = loader.LoadImage(context.Background(), "ftp://host/a.png")
	assert.Error(t, err)
}
