// Пакет tiptap реализует разбор и сериализацию документов в формате TipTap JSON.
//
// Разбор снисходителен: ошибка возвращается только для синтаксически неверного JSON
// или корня без типа, все остальные отклонения исправляются детерминированно.
// Сериализация канонична: для каждого вида узла набор атрибутов фиксирован.
package tiptap

import "fmt"

// TipTapNode представляет узел в TipTap JSON формате.
type TipTapNode struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []TipTapNode   `json:"content,omitempty"`
	Marks   []TipTapMark   `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// TipTapMark представляет форматирование текста.
type TipTapMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// ParseError - ошибка разбора документа: неверный JSON или корень без распознаваемого типа.
type ParseError struct {
	Reason string
	Path   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tiptap: %s at %s", e.Reason, e.Path)
}
