package tiptap_test

import (
	"fmt"
	"strings"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
	"github.com/true1ck/blog-editor/internal/blog/editor/tiptap"
)

// ExampleParseJSON демонстрирует базовое использование парсера TipTap JSON.
func ExampleParseJSON() {
	jsonContent := `{
		"type": "doc",
		"content": [
			{
				"type": "paragraph",
				"attrs": {"textAlign": "left"},
				"content": [
					{"type": "text", "marks": [{"type": "bold"}], "text": "Привет"},
					{"type": "text", "text": " "},
					{"type": "text", "marks": [{"type": "italic"}], "text": "мир"}
				]
			},
			{"type": "image", "attrs": {"alt": "без src"}}
		]
	}`

	doc, err := tiptap.ParseJSON(strings.NewReader(jsonContent))
	if err != nil {
		fmt.Printf("Ошибка парсинга: %v\n", err)
		return
	}

	fmt.Printf("Документ содержит %d элементов\n", len(doc.Content))
	fmt.Println(edtypes.PlainText(doc))

	// Output:
	// Документ содержит 1 элементов
	// Привет мир
}

func ExampleSerialize() {
	txt, _ := edtypes.NewText("Hello")
	h, _ := edtypes.NewHeading(1, txt)
	doc, _ := edtypes.NewDocument(h, edtypes.NewHorizontalRule())

	fmt.Println(string(tiptap.Serialize(doc)))

	// Output:
	// {"type":"doc","content":[{"type":"heading","attrs":{"level":1},"content":[{"type":"text","text":"Hello"}]},{"type":"horizontalRule"}]}
}
