package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
	"github.com/true1ck/blog-editor/internal/blog/editor/render"
	"github.com/true1ck/blog-editor/internal/blog/editor/tiptap"
)

func parseHTML(t *testing.T, s string) *edtypes.Document {
	t.Helper()
	doc, err := ParseHTML(strings.NewReader(s))
	require.NoError(t, err)
	require.NotNil(t, doc)
	return doc
}

func serialize(doc *edtypes.Document) string {
	return string(tiptap.Serialize(doc))
}

func TestRenderImportRoundTrip(t *testing.T) {
	original, err := tiptap.Parse([]byte(`{"type":"doc","content":[
		{"type":"heading","attrs":{"level":1},"content":[{"type":"text","text":"Title"}]},
		{"type":"paragraph","attrs":{"textAlign":"center"},"content":[
			{"type":"text","text":"Hello "},
			{"type":"text","text":"bold","marks":[{"type":"bold"}]},
			{"type":"text","text":" "},
			{"type":"text","text":"both","marks":[{"type":"bold"},{"type":"italic"}]},
			{"type":"hardBreak"},
			{"type":"text","text":"colored","marks":[{"type":"textStyle","attrs":{"color":"#ff0000","fontSize":18}}]},
			{"type":"text","text":" "},
			{"type":"text","text":"code","marks":[{"type":"code"}]},
			{"type":"text","text":" "},
			{"type":"text","text":"under","marks":[{"type":"underline"}]}
		]},
		{"type":"bulletList","content":[
			{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"one"}]}]},
			{"type":"listItem","content":[
				{"type":"paragraph","content":[{"type":"text","text":"two"}]},
				{"type":"orderedList","attrs":{"start":3},"content":[
					{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"three"}]}]}
				]}
			]}
		]},
		{"type":"blockquote","content":[{"type":"paragraph","content":[{"type":"text","text":"quote"}]}]},
		{"type":"codeBlock","attrs":{"language":"go"},"content":[{"type":"text","text":"x := 1\nif x < 2 {}"}]},
		{"type":"horizontalRule"},
		{"type":"image","attrs":{"src":"https://cdn.example.com/a.png","alt":"pic","title":"Caption","width":320,"height":200,"align":"right"}},
		{"type":"youtube","attrs":{"videoId":"dQw4w9WgXcQ"}},
		{"type":"paragraph","attrs":{"textAlign":"justify"},"content":[{"type":"text","text":"end"}]}
	]}`))
	require.NoError(t, err)

	rendered := render.RenderHTML(original, render.DefaultConfig())
	imported := parseHTML(t, rendered)

	assert.Equal(t, serialize(original), serialize(imported))
}

func TestParseHTMLMarks(t *testing.T) {
	doc := parseHTML(t, `<p><strong><em>x</em></strong><b><strong>y</strong></b><span style="color: rgb(0, 0, 255)"><span style="font-size: 20px">z</span></span></p>`)
	require.Len(t, doc.Content, 1)
	p := doc.Content[0].(*edtypes.Paragraph)
	require.Len(t, p.Content, 3)

	x := p.Content[0].(*edtypes.Text)
	assert.Equal(t, []edtypes.Mark{edtypes.Italic{}, edtypes.Bold{}}, x.Marks)

	y := p.Content[1].(*edtypes.Text)
	assert.Equal(t, []edtypes.Mark{edtypes.Bold{}}, y.Marks)

	z := p.Content[2].(*edtypes.Text)
	require.Len(t, z.Marks, 1)
	ts := z.Marks[0].(edtypes.TextStyle)
	require.NotNil(t, ts.Color)
	assert.Equal(t, "#0000ff", ts.Color.Hex())
	require.NotNil(t, ts.FontSize)
	assert.Equal(t, 20, *ts.FontSize)
}

func TestParseHTMLLinks(t *testing.T) {
	doc := parseHTML(t, `<p><a href="https://example.com" title="Example">ok</a> <a href="javascript:alert(1)">bad</a></p>`)
	require.Len(t, doc.Content, 1)
	p := doc.Content[0].(*edtypes.Paragraph)

	ok := p.Content[0].(*edtypes.Text)
	require.Len(t, ok.Marks, 1)
	link := ok.Marks[0].(edtypes.Link)
	assert.Equal(t, "https://example.com", link.Href)
	require.NotNil(t, link.Title)
	assert.Equal(t, "Example", *link.Title)

	assert.Equal(t, " bad", p.Content[1].(*edtypes.Text).Text)
	assert.Empty(t, p.Content[1].(*edtypes.Text).Marks)
}

func TestParseHTMLHoistsImages(t *testing.T) {
	doc := parseHTML(t, `<p>before <img src="https://cdn/a.png" alt="a" width="100"> after</p>`)
	require.Len(t, doc.Content, 3)

	assert.Equal(t, "before", edtypes.PlainText(doc.Content[0]))
	img := doc.Content[1].(*edtypes.Image)
	assert.Equal(t, "https://cdn/a.png", img.Src)
	assert.Equal(t, 100, *img.Width)
	assert.Equal(t, "after", edtypes.PlainText(doc.Content[2]))
}

func TestParseHTMLStripsUnsafeMarkup(t *testing.T) {
	doc := parseHTML(t, `<p onclick="evil()">hi<script>alert(1)</script></p><iframe src="https://evil.example/x"></iframe>`)
	assert.Equal(t, `{"type":"doc","content":[{"type":"paragraph","attrs":{"textAlign":"left"},"content":[{"type":"text","text":"hi"}]}]}`, serialize(doc))
}

func TestParseHTMLBlocks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "bare text",
			html: "  some   text\n here ",
			want: `{"type":"paragraph","attrs":{"textAlign":"left"},"content":[{"type":"text","text":"some text here"}]}`,
		},
		{
			name: "style align",
			html: `<p style="text-align: center">x</p>`,
			want: `{"type":"paragraph","attrs":{"textAlign":"center"},"content":[{"type":"text","text":"x"}]}`,
		},
		{
			name: "empty paragraph",
			html: `<p> </p><h2></h2>`,
			want: ``,
		},
		{
			name: "ordered list start",
			html: `<ol start="5"><li>a</li></ol>`,
			want: `{"type":"orderedList","attrs":{"start":5},"content":[{"type":"listItem","content":[{"type":"paragraph","attrs":{"textAlign":"left"},"content":[{"type":"text","text":"a"}]}]}]}`,
		},
		{
			name: "code with language",
			html: "<pre><code class=\"language-python\">def f():\n    pass</code></pre>",
			want: `{"type":"codeBlock","attrs":{"language":"python"},"content":[{"type":"text","text":"def f():\n    pass"}]}`,
		},
		{
			name: "youtube iframe",
			html: `<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ"></iframe>`,
			want: `{"type":"youtube","attrs":{"videoId":"dQw4w9WgXcQ"}}`,
		},
		{
			name: "heading",
			html: `<h3>Sub <em>title</em></h3>`,
			want: `{"type":"heading","attrs":{"level":3},"content":[{"type":"text","text":"Sub "},{"type":"text","marks":[{"type":"italic"}],"text":"title"}]}`,
		},
		{
			name: "unknown container is flattened",
			html: `<section><article><p>x</p></article></section>`,
			want: `{"type":"paragraph","attrs":{"textAlign":"left"},"content":[{"type":"text","text":"x"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseHTML(t, tt.html)
			want := `{"type":"doc"}`
			if tt.want != "" {
				want = `{"type":"doc","content":[` + tt.want + `]}`
			}
			assert.Equal(t, want, serialize(doc))
		})
	}
}

func TestParseHTMLMergesAdjacentText(t *testing.T) {
	doc := parseHTML(t, `<p>a<span>b</span>c</p>`)
	p := doc.Content[0].(*edtypes.Paragraph)
	require.Len(t, p.Content, 1)
	assert.Equal(t, "abc", p.Content[0].(*edtypes.Text).Text)
}

func TestParseMarkdown(t *testing.T) {
	doc, err := ParseMarkdown(strings.NewReader("# Title\n\nHello **world** and [site](https://example.com)\n\n- a\n- b\n\n<script>alert(1)</script>\n"), render.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, doc.Content, 3)

	h := doc.Content[0].(*edtypes.Heading)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "Title", h.Content[0].(*edtypes.Text).Text)

	p := doc.Content[1].(*edtypes.Paragraph)
	require.Len(t, p.Content, 4)
	assert.Equal(t, "Hello ", p.Content[0].(*edtypes.Text).Text)
	bold := p.Content[1].(*edtypes.Text)
	assert.Equal(t, "world", bold.Text)
	assert.Equal(t, []edtypes.Mark{edtypes.Bold{}}, bold.Marks)
	link := p.Content[3].(*edtypes.Text).Marks[0].(edtypes.Link)
	assert.Equal(t, "https://example.com", link.Href)

	list := doc.Content[2].(*edtypes.BulletList)
	assert.Len(t, list.Items, 2)
	assert.NotContains(t, serialize(doc), "alert")
}
