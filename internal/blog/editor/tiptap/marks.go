package tiptap

import (
	"log/slog"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
)

// parseMarks переводит отметки TipTap в модель.
// Повторы простых отметок и ссылок отбрасываются (остается первая),
// повторные textStyle сливаются в первую, неизвестные отметки сохраняются.
func parseMarks(marks []TipTapMark, path string) []edtypes.Mark {
	var (
		out      []edtypes.Mark
		seen     = make(map[string]bool, len(marks))
		styleIdx = -1
	)

	for _, m := range marks {
		if m.Type == "textStyle" {
			ts := parseTextStyle(m.Attrs, path)
			if styleIdx >= 0 {
				slog.Debug("Merging duplicate textStyle mark", "path", path)
				out[styleIdx] = out[styleIdx].(edtypes.TextStyle).Merge(ts)
				continue
			}
			if ts.IsEmpty() {
				slog.Debug("Dropping empty textStyle mark", "path", path)
				continue
			}
			styleIdx = len(out)
			out = append(out, ts)
			continue
		}

		if seen[m.Type] {
			slog.Debug("Dropping duplicate mark", "mark", m.Type, "path", path)
			continue
		}
		seen[m.Type] = true

		switch m.Type {
		case "bold":
			out = append(out, edtypes.Bold{})
		case "italic":
			out = append(out, edtypes.Italic{})
		case "underline":
			out = append(out, edtypes.Underline{})
		case "code":
			out = append(out, edtypes.Code{})
		case "link":
			out = append(out, parseLink(m.Attrs, path))
		default:
			slog.Debug("Unknown mark type", "mark", m.Type, "path", path)
			out = append(out, edtypes.UnknownMark{Type: m.Type, Attrs: m.Attrs})
		}
	}
	return out
}

// parseTextStyle извлекает цвет и размер шрифта. Неразбираемые значения пропускаются.
func parseTextStyle(attrs map[string]any, path string) edtypes.TextStyle {
	var ts edtypes.TextStyle
	if raw, ok := getAttrString(attrs, "color"); ok && raw != "" {
		c, err := edtypes.ParseColor(raw)
		if err != nil {
			slog.Debug("Unsupported text color", "color", raw, "path", path)
		} else {
			ts.Color = &c
		}
	}
	ts.FontSize = getAttrPositiveInt(attrs, "fontSize")
	return ts
}

// parseLink сохраняет ссылку с недопустимой схемой, такая ссылка отображается без href.
func parseLink(attrs map[string]any, path string) edtypes.Link {
	href, _ := getAttrString(attrs, "href")
	l := edtypes.Link{
		Href:   href,
		Target: edtypes.DefaultLinkTarget,
		Rel:    edtypes.DefaultLinkRel,
		Title:  getAttrStringPtr(attrs, "title"),
	}
	if target, ok := getAttrString(attrs, "target"); ok {
		l.Target = target
	}
	if rel, ok := getAttrString(attrs, "rel"); ok {
		l.Rel = rel
	}
	if l.Inert() {
		slog.Debug("Link with disallowed scheme", "href", href, "path", path)
	}
	return l
}
