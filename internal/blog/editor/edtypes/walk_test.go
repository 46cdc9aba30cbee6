package edtypes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	h, err := NewHeading(1, mustText(t, "Title"))
	require.NoError(t, err)
	p, err := NewParagraph(LeftAlign, mustText(t, "Hello"), NewHardBreak(), mustText(t, "world", Bold{}))
	require.NoError(t, err)
	img, err := NewImage("https://cdn/a.png", WithAlt("a"))
	require.NoError(t, err)
	img2, err := NewImage("https://cdn/b.png")
	require.NoError(t, err)
	inner, err := NewParagraph(CenterAlign, mustText(t, "item"))
	require.NoError(t, err)
	li, err := NewListItem(inner, img2)
	require.NoError(t, err)
	ul, err := NewBulletList(li)
	require.NoError(t, err)
	doc, err := NewDocument(h, ul, p, img, NewCodeBlock("go", "code()"))
	require.NoError(t, err)
	return doc
}

func TestWalkOrder(t *testing.T) {
	doc := sampleDocument(t)

	var kinds []string
	Walk(doc, func(n Node) bool {
		kinds = append(kinds, n.Kind().String())
		return true
	})
	assert.Equal(t, []string{
		"doc",
		"heading", "text",
		"bulletList", "listItem", "paragraph", "text", "image",
		"paragraph", "text", "hardBreak", "text",
		"image",
		"codeBlock",
	}, kinds)
}

func TestWalkSkipChildren(t *testing.T) {
	doc := sampleDocument(t)

	count := 0
	Walk(doc, func(n Node) bool {
		count++
		return n.Kind() != KindBulletList
	})
	assert.Equal(t, 10, count)
}

func TestPlainText(t *testing.T) {
	p, err := NewParagraph(LeftAlign, mustText(t, "a"), NewHardBreak(), mustText(t, "b"))
	require.NoError(t, err)
	assert.Equal(t, "ab", PlainText(p))

	br, err := NewParagraph(LeftAlign, NewHardBreak())
	require.NoError(t, err)
	assert.Equal(t, "", PlainText(br))

	unk := &Unknown{Type: "callout", Content: []Node{mustText(t, "x"), &Unknown{Type: "y", Content: []Node{mustText(t, "z")}}}}
	assert.Equal(t, "xz", PlainText(unk))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \t\n"))
	assert.True(t, IsBlank("\u00a0 \ufeff"))
	assert.False(t, IsBlank(" x "))
	assert.False(t, IsBlank("\u200b"), "zero width space is not whitespace")
}

func TestDocumentIsEmpty(t *testing.T) {
	assert.True(t, (*Document)(nil).IsEmpty())
	assert.True(t, (&Document{}).IsEmpty())

	p, err := NewParagraph(LeftAlign, mustText(t, "   "))
	require.NoError(t, err)
	doc, err := NewDocument(p)
	require.NoError(t, err)
	assert.True(t, doc.IsEmpty())

	doc, err = NewDocument(p, NewHorizontalRule())
	require.NoError(t, err)
	assert.False(t, doc.IsEmpty())

	assert.False(t, sampleDocument(t).IsEmpty())
}

func TestExcerpt(t *testing.T) {
	doc := sampleDocument(t)
	assert.Equal(t, "Title item Helloworld", doc.Excerpt(500))
	assert.Equal(t, "Title…", doc.Excerpt(7))
	assert.Equal(t, "", doc.Excerpt(0))

	long, err := NewParagraph(LeftAlign, mustText(t, strings.Repeat("я", 600)))
	require.NoError(t, err)
	doc, err = NewDocument(long)
	require.NoError(t, err)
	ex := doc.Excerpt(500)
	assert.Equal(t, 500, len([]rune(ex)))
	assert.True(t, strings.HasSuffix(ex, "…"))
}

func TestThumbnail(t *testing.T) {
	assert.Equal(t, "https://cdn/b.png", sampleDocument(t).Thumbnail())
	assert.Equal(t, "", (&Document{}).Thumbnail())
}

func TestClone(t *testing.T) {
	doc := sampleDocument(t)
	c := doc.Clone()
	require.Equal(t, doc, c)

	c.Content[0].(*Heading).Content[0].(*Text).Text = "changed"
	*c.Content[3].(*Image).Alt = "changed"
	assert.Equal(t, "Title", doc.Content[0].(*Heading).Content[0].(*Text).Text)
	assert.Equal(t, "a", *doc.Content[3].(*Image).Alt)
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "bulletList", KindBulletList.String())
	assert.Equal(t, "youtube", KindYouTube.String())

	k, ok := KindByName("codeBlock")
	assert.True(t, ok)
	assert.Equal(t, KindCodeBlock, k)

	_, ok = KindByName("unknown")
	assert.False(t, ok)
	_, ok = KindByName("table")
	assert.False(t, ok)
}
