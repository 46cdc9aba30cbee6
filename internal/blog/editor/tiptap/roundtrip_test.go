package tiptap

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
)

// docGen строит случайные документы только через конструкторы модели.
type docGen struct {
	t *testing.T
	r *rand.Rand
}

func (g docGen) must(err error) {
	g.t.Helper()
	require.NoError(g.t, err)
}

func (g docGen) text() *edtypes.Text {
	words := []string{"hello", "мир", " spaced ", "<tag>", "a&b", "\"quoted\"", "emoji 😀", "tab\tnewline\n"}
	var marks []edtypes.Mark
	for _, m := range g.r.Perm(6) {
		if g.r.IntN(3) != 0 {
			continue
		}
		switch m {
		case 0:
			marks = append(marks, edtypes.Bold{})
		case 1:
			marks = append(marks, edtypes.Italic{})
		case 2:
			marks = append(marks, edtypes.Underline{})
		case 3:
			marks = append(marks, edtypes.Code{})
		case 4:
			var (
				c  *edtypes.Color
				fs *int
			)
			if g.r.IntN(2) == 0 {
				c = &edtypes.Color{R: uint8(g.r.IntN(256)), G: uint8(g.r.IntN(256)), B: uint8(g.r.IntN(256)), A: 255}
			}
			if c == nil || g.r.IntN(2) == 0 {
				size := 8 + g.r.IntN(40)
				fs = &size
			}
			ts, err := edtypes.NewTextStyle(c, fs)
			g.must(err)
			marks = append(marks, ts)
		case 5:
			var opts []edtypes.LinkOption
			if g.r.IntN(2) == 0 {
				opts = append(opts, edtypes.WithLinkTitle("title"))
			}
			if g.r.IntN(3) == 0 {
				opts = append(opts, edtypes.WithTarget("_self"), edtypes.WithRel(""))
			}
			l, err := edtypes.NewLink([]string{"https://a.b/c", "mailto:x@y.z", "tel:+1"}[g.r.IntN(3)], opts...)
			g.must(err)
			marks = append(marks, l)
		}
	}
	txt, err := edtypes.NewText(words[g.r.IntN(len(words))], marks...)
	g.must(err)
	return txt
}

func (g docGen) inlines() []edtypes.Inline {
	var out []edtypes.Inline
	for range g.r.IntN(4) {
		if g.r.IntN(5) == 0 {
			out = append(out, edtypes.NewHardBreak())
			continue
		}
		out = append(out, g.text())
	}
	return out
}

func (g docGen) block(depth int) edtypes.Block {
	kinds := 9
	if depth > 2 {
		kinds = 6
	}
	switch g.r.IntN(kinds) {
	case 0:
		p, err := edtypes.NewParagraph(edtypes.TextAlign(g.r.IntN(4)), g.inlines()...)
		g.must(err)
		return p
	case 1:
		h, err := edtypes.NewHeading(1+g.r.IntN(6), g.inlines()...)
		g.must(err)
		return h
	case 2:
		var opts []edtypes.ImageOption
		if g.r.IntN(2) == 0 {
			opts = append(opts, edtypes.WithAlt([]string{"", "alt"}[g.r.IntN(2)]))
		}
		if g.r.IntN(2) == 0 {
			opts = append(opts, edtypes.WithTitle("caption"))
		}
		if g.r.IntN(2) == 0 {
			opts = append(opts, edtypes.WithSize(1+g.r.IntN(2000), 1+g.r.IntN(2000)))
		}
		if g.r.IntN(2) == 0 {
			opts = append(opts, edtypes.WithAlign(edtypes.ImageAlign(g.r.IntN(3))))
		}
		if g.r.IntN(2) == 0 {
			opts = append(opts, edtypes.WithNaturalSize(1+g.r.IntN(4000), 1+g.r.IntN(4000)))
		}
		img, err := edtypes.NewImage(fmt.Sprintf("https://cdn.example.com/%d.png", g.r.IntN(100)), opts...)
		g.must(err)
		return img
	case 3:
		lang := []string{"", "go", "js"}[g.r.IntN(3)]
		code := []string{"", "x := 1", "  indented\n\ttabs\n", "<script>alert(1)</script>"}[g.r.IntN(4)]
		return edtypes.NewCodeBlock(lang, code)
	case 4:
		return edtypes.NewHorizontalRule()
	case 5:
		yt, err := edtypes.NewYouTube([]string{"dQw4w9WgXcQ", "abc-DEF_123"}[g.r.IntN(2)])
		g.must(err)
		return yt
	case 6:
		var blocks []edtypes.Block
		for range g.r.IntN(3) {
			blocks = append(blocks, g.block(depth+1))
		}
		bq, err := edtypes.NewBlockquote(blocks...)
		g.must(err)
		return bq
	case 7:
		ul, err := edtypes.NewBulletList(g.items(depth)...)
		g.must(err)
		return ul
	default:
		ol, err := edtypes.NewOrderedList(g.r.IntN(5), g.items(depth)...)
		g.must(err)
		return ol
	}
}

func (g docGen) items(depth int) []*edtypes.ListItem {
	items := make([]*edtypes.ListItem, 1+g.r.IntN(3))
	for i := range items {
		var content []edtypes.Node
		for range g.r.IntN(3) {
			if g.r.IntN(4) == 0 {
				content = append(content, g.text())
				continue
			}
			content = append(content, g.block(depth+1))
		}
		item, err := edtypes.NewListItem(content...)
		g.must(err)
		items[i] = item
	}
	return items
}

func (g docGen) document() *edtypes.Document {
	var blocks []edtypes.Block
	for range g.r.IntN(6) {
		blocks = append(blocks, g.block(0))
	}
	doc, err := edtypes.NewDocument(blocks...)
	g.must(err)
	return doc
}

func TestRoundTripGenerated(t *testing.T) {
	for seed := uint64(0); seed < 300; seed++ {
		g := docGen{t: t, r: rand.New(rand.NewPCG(seed, seed*31+7))}
		doc := g.document()

		data := Serialize(doc)
		parsed, err := Parse(data)
		require.NoError(t, err, "seed %d", seed)
		require.Equal(t, doc, parsed, "seed %d: %s", seed, data)
		require.Equal(t, data, Serialize(parsed), "seed %d", seed)
	}
}

func TestRoundTripPreservesMarkOrder(t *testing.T) {
	for _, marks := range [][]edtypes.Mark{
		{edtypes.Bold{}, edtypes.Italic{}},
		{edtypes.Italic{}, edtypes.Bold{}},
		{edtypes.Code{}, edtypes.Underline{}, edtypes.Bold{}},
	} {
		txt, err := edtypes.NewText("hi", marks...)
		require.NoError(t, err)
		p, err := edtypes.NewParagraph(edtypes.LeftAlign, txt)
		require.NoError(t, err)
		doc, err := edtypes.NewDocument(p)
		require.NoError(t, err)

		parsed, err := Parse(Serialize(doc))
		require.NoError(t, err)
		assert.Equal(t, marks, parsed.Content[0].(*edtypes.Paragraph).Content[0].(*edtypes.Text).Marks)
	}
}

func TestParseCanonicalizes(t *testing.T) {
	messy := wrapDoc(`{"type":"paragraph","content":[{"type":"text","text":"x","marks":[
		{"type":"bold"},
		{"type":"textStyle","attrs":{"color":"#F00"}},
		{"type":"bold"},
		{"type":"textStyle","attrs":{"color":"#00f","fontSize":"16px"}}
	]}]}`)

	doc := parseDoc(t, messy)
	canonical := Serialize(doc)
	assert.Equal(t,
		`{"type":"doc","content":[{"type":"paragraph","attrs":{"textAlign":"left"},"content":[{"type":"text","marks":[{"type":"bold"},{"type":"textStyle","attrs":{"color":"#ff0000","fontSize":16}}],"text":"x"}]}]}`,
		string(canonical))

	again, err := Parse(canonical)
	require.NoError(t, err)
	assert.Equal(t, canonical, Serialize(again), "canonical form is a fixed point")
}

func TestInertLinkSurvivesRoundTrip(t *testing.T) {
	doc := parseDoc(t, wrapDoc(`{"type":"paragraph","content":[{"type":"text","text":"x","marks":[{"type":"link","attrs":{"href":"javascript:alert(1)"}}]}]}`))
	link := doc.Content[0].(*edtypes.Paragraph).Content[0].(*edtypes.Text).Marks[0].(edtypes.Link)
	assert.True(t, link.Inert())
	assert.Equal(t, "javascript:alert(1)", link.Href)
	assert.Equal(t, edtypes.DefaultLinkTarget, link.Target)

	again, err := Parse(Serialize(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}
