package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
)

const (
	bodyFontSize = 12.0
	codeFontSize = 10.0
	lineFactor   = 1.4
	listIndent   = 6.0
	quoteIndent  = 5.0
)

var headingSizes = [6]float64{22, 19, 16, 14, 13, 12}

// Font - TTF шрифт с поддержкой Unicode. Пустые начертания заменяются обычным.
type Font struct {
	Regular    []byte
	Bold       []byte
	Italic     []byte
	BoldItalic []byte
}

// PDFOptions задает параметры выгрузки в PDF.
type PDFOptions struct {
	Title  string
	Author string

	// Без шрифта используется Helvetica, символы вне cp1252 не выводятся.
	Font *Font

	// Без загрузчика изображения выводятся ссылками.
	Images ImageLoader
}

type pdfWriter struct {
	ctx  context.Context
	pdf  *fpdf.Fpdf
	opts PDFOptions

	family    string
	translate func(string) string

	defaultMargins Margins
}

type Margins struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

func (m *Margins) GetMargins(pdf fpdf.Pdf) {
	m.Left, m.Top, m.Right, m.Bottom = pdf.GetMargins()
}

// ToPDF записывает документ в формате PDF.
func ToPDF(ctx context.Context, doc *edtypes.Document, out io.Writer, opts PDFOptions) error {
	pdf := fpdf.New("P", "mm", "A4", "") // 210*297 mm

	w := pdfWriter{
		ctx:  ctx,
		pdf:  pdf,
		opts: opts,
	}
	w.defaultMargins.GetMargins(pdf)
	w.setupFonts()

	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	pdf.SetCreator("blog-editor", true)
	pdf.SetAutoPageBreak(true, 15)

	pdf.AddPage()

	if opts.Title != "" {
		pdf.Bookmark(w.translate(opts.Title), 0, -1)
		w.setFont("B", headingSizes[0])
		pdf.SetTextColor(0, 0, 0)
		w.write(opts.Title)
		pdf.Ln(-1)
		pdf.Ln(4)
	}

	if doc != nil {
		for _, b := range doc.Content {
			if err := ctx.Err(); err != nil {
				return err
			}
			w.writeBlock(b)
			w.resetMargins()
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(out)
}

func (w *pdfWriter) setupFonts() {
	if w.opts.Font == nil || len(w.opts.Font.Regular) == 0 {
		w.family = "Helvetica"
		w.translate = w.pdf.UnicodeTranslatorFromDescriptor("")
		return
	}

	w.family = "Body"
	w.translate = func(s string) string { return s }
	f := w.opts.Font
	pick := func(b []byte) []byte {
		if len(b) == 0 {
			return f.Regular
		}
		return b
	}
	w.pdf.AddUTF8FontFromBytes(w.family, "", f.Regular)
	w.pdf.AddUTF8FontFromBytes(w.family, "B", pick(f.Bold))
	w.pdf.AddUTF8FontFromBytes(w.family, "I", pick(f.Italic))
	w.pdf.AddUTF8FontFromBytes(w.family, "BI", pick(f.BoldItalic))
}

func (w *pdfWriter) setFont(style string, size float64) {
	w.pdf.SetFont(w.family, style, size)
}

func (w *pdfWriter) lineHeight() float64 {
	_, unit := w.pdf.GetFontSize()
	return unit * lineFactor
}

func (w *pdfWriter) writeBlock(n edtypes.Node) {
	switch v := n.(type) {
	case *edtypes.Paragraph:
		if edtypes.IsBlank(edtypes.PlainText(v)) {
			return
		}
		w.writeInlines(v.Content, bodyFontSize, "")
		w.pdf.Ln(-1)
		w.pdf.Ln(2)
	case *edtypes.Heading:
		if edtypes.IsBlank(edtypes.PlainText(v)) {
			return
		}
		level := min(max(v.Level, 1), 6)
		w.pdf.Ln(2)
		w.pdf.Bookmark(w.translate(edtypes.PlainText(v)), 0, -1)
		w.writeInlines(v.Content, headingSizes[level-1], "B")
		w.pdf.Ln(-1)
		w.pdf.Ln(2)
	case *edtypes.BulletList:
		for _, item := range v.Items {
			w.writeListItem(item, "•")
		}
		w.pdf.Ln(1)
	case *edtypes.OrderedList:
		for i, item := range v.Items {
			w.writeListItem(item, strconv.Itoa(v.Start+i)+".")
		}
		w.pdf.Ln(1)
	case *edtypes.ListItem:
		w.writeListItem(v, "")
	case *edtypes.Blockquote:
		w.writeQuote(v)
	case *edtypes.CodeBlock:
		w.writeCode(v)
	case *edtypes.HorizontalRule:
		left, _, right, _ := w.pdf.GetMargins()
		pageW, _ := w.pdf.GetPageSize()
		w.pdf.Ln(2)
		w.pdf.SetLineWidth(0.3)
		w.pdf.SetDrawColor(200, 200, 200)
		w.pdf.Line(left, w.pdf.GetY(), pageW-right, w.pdf.GetY())
		w.pdf.Ln(4)
	case *edtypes.Image:
		w.writeImage(v)
	case *edtypes.YouTube:
		w.setFont("", bodyFontSize)
		w.pdf.SetTextColor(0, 0, 238)
		if url := edtypes.YouTubeWatchURL(v.VideoID); url != "" {
			w.write("YouTube: "+url, url)
		} else {
			w.pdf.SetTextColor(120, 120, 120)
			w.write("YouTube")
		}
		w.pdf.SetTextColor(0, 0, 0)
		w.pdf.Ln(-1)
		w.pdf.Ln(2)
	case *edtypes.Text, *edtypes.HardBreak:
		w.writeInlines([]edtypes.Inline{v.(edtypes.Inline)}, bodyFontSize, "")
		w.pdf.Ln(-1)
	case *edtypes.Unknown:
		var inline []edtypes.Inline
		flush := func() {
			if len(inline) > 0 {
				w.writeInlines(inline, bodyFontSize, "")
				w.pdf.Ln(-1)
				inline = nil
			}
		}
		for _, c := range v.Content {
			switch cc := c.(type) {
			case *edtypes.Text, *edtypes.HardBreak:
				inline = append(inline, cc.(edtypes.Inline))
			default:
				flush()
				w.writeBlock(c)
			}
		}
		flush()
	}
}

func (w *pdfWriter) writeListItem(item *edtypes.ListItem, marker string) {
	left, top, right, _ := w.pdf.GetMargins()
	w.setFont("", bodyFontSize)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.SetX(left)
	if marker != "" {
		w.write(marker)
	}

	w.pdf.SetLeftMargin(left + listIndent)
	w.pdf.SetX(left + listIndent)
	if item != nil {
		var inline []edtypes.Inline
		flush := func() {
			if len(inline) > 0 {
				w.writeInlines(inline, bodyFontSize, "")
				w.pdf.Ln(-1)
				inline = nil
			}
		}
		for _, c := range item.Content {
			switch cc := c.(type) {
			case *edtypes.Text, *edtypes.HardBreak:
				inline = append(inline, cc.(edtypes.Inline))
			case *edtypes.Paragraph:
				flush()
				if !edtypes.IsBlank(edtypes.PlainText(cc)) {
					w.writeInlines(cc.Content, bodyFontSize, "")
					w.pdf.Ln(-1)
				}
			default:
				flush()
				w.writeBlock(c)
			}
		}
		flush()
	}
	if w.pdf.GetX() > left+listIndent {
		w.pdf.Ln(-1)
	}
	w.pdf.SetMargins(left, top, right)
}

func (w *pdfWriter) writeQuote(q *edtypes.Blockquote) {
	left, top, right, _ := w.pdf.GetMargins()
	w.pdf.Ln(2)
	y1 := w.pdf.GetY()
	w.pdf.SetLeftMargin(left + quoteIndent)
	w.pdf.SetX(left + quoteIndent)
	for _, b := range q.Content {
		w.writeBlock(b)
	}
	w.pdf.SetMargins(left, top, right)

	w.pdf.SetLineWidth(0.5)
	w.pdf.SetDrawColor(74, 71, 82)
	w.pdf.Line(left+1, y1, left+1, w.pdf.GetY())
	w.pdf.Ln(2)
}

func (w *pdfWriter) writeCode(cb *edtypes.CodeBlock) {
	w.pdf.SetFont("Courier", "", codeFontSize)
	w.pdf.SetTextColor(40, 40, 40)
	w.pdf.SetFillColor(243, 244, 246)
	_, unit := w.pdf.GetFontSize()
	code := w.pdf.UnicodeTranslatorFromDescriptor("")(cleanUnsupportedSymbols(cb.Code))
	w.pdf.MultiCell(0, unit*1.3, strings.ReplaceAll(code, "\t", "    "), "", "L", true)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(3)
}

func (w *pdfWriter) writeImage(img *edtypes.Image) {
	if edtypes.IsBlank(img.Src) {
		return
	}

	if info := w.loadImage(img.Src); info != nil {
		pageW, _ := w.pdf.GetPageSize()
		left, _, right, _ := w.pdf.GetMargins()
		maxWidth := pageW - left - right

		width := info.Width()
		if img.Width != nil {
			width = w.PxToUnit(*img.Width)
		}
		width = min(width, maxWidth)

		x := left
		if img.Align != nil {
			switch *img.Align {
			case edtypes.ImageCenter:
				x = left + (maxWidth-width)/2
			case edtypes.ImageRight:
				x = left + maxWidth - width
			}
		}
		w.pdf.ImageOptions(img.Src, x, -1, width, 0, true, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	} else {
		label := img.Src
		if img.Alt != nil && *img.Alt != "" {
			label = *img.Alt
		}
		w.setFont("", bodyFontSize)
		w.pdf.SetTextColor(0, 0, 238)
		w.write("["+label+"]", img.Src)
		w.pdf.SetTextColor(0, 0, 0)
		w.pdf.Ln(-1)
	}

	if img.Title != nil && *img.Title != "" {
		w.setFont("I", bodyFontSize-2)
		w.pdf.SetTextColor(107, 114, 128)
		w.write(*img.Title)
		w.pdf.SetTextColor(0, 0, 0)
		w.pdf.Ln(-1)
	}
	w.pdf.Ln(2)
}

// loadImage регистрирует изображение в документе. При ошибке возвращает nil,
// а изображение выводится ссылкой.
func (w *pdfWriter) loadImage(src string) *fpdf.ImageInfoType {
	if w.opts.Images == nil {
		return nil
	}
	if info := w.pdf.GetImageInfo(src); info != nil {
		return info
	}

	data, imageType, err := w.opts.Images.LoadImage(w.ctx, src)
	if err != nil {
		slog.Warn("Load image for pdf", "src", src, "err", err)
		return nil
	}

	info := w.pdf.RegisterImageOptionsReader(src, fpdf.ImageOptions{ImageType: imageType, ReadDpi: true}, bytes.NewReader(data))
	if w.pdf.Err() {
		slog.Warn("Register image for pdf", "src", src, "err", w.pdf.Error())
		w.pdf.ClearError()
		return nil
	}
	return info
}

func (w *pdfWriter) writeInlines(nodes []edtypes.Inline, size float64, baseStyle string) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *edtypes.Text:
			w.writeText(v, size, baseStyle)
		case *edtypes.HardBreak:
			w.setFont(baseStyle, size)
			w.pdf.Ln(w.lineHeight())
		case *edtypes.Unknown:
			var inner []edtypes.Inline
			for _, c := range v.Content {
				if in, ok := c.(edtypes.Inline); ok {
					inner = append(inner, in)
				}
			}
			w.writeInlines(inner, size, baseStyle)
		}
	}
}

func (w *pdfWriter) writeText(t *edtypes.Text, size float64, baseStyle string) {
	style := baseStyle
	family := w.family
	var link string
	w.pdf.SetTextColor(0, 0, 0)

	for _, m := range t.Marks {
		switch v := m.(type) {
		case edtypes.Bold:
			if !strings.Contains(style, "B") {
				style += "B"
			}
		case edtypes.Italic:
			style += "I"
		case edtypes.Underline:
			style += "U"
		case edtypes.Code:
			family = "Courier"
		case edtypes.TextStyle:
			if v.Color != nil {
				w.pdf.SetTextColor(int(v.Color.R), int(v.Color.G), int(v.Color.B))
			}
			if v.FontSize != nil && *v.FontSize > 0 {
				size = float64(*v.FontSize) * 0.75
			}
		case edtypes.Link:
			if !v.Inert() {
				link = v.Href
			}
		}
	}
	if link != "" {
		style += "U"
		w.pdf.SetTextColor(0, 0, 238)
	}

	w.pdf.SetFont(family, style, size)
	if family == "Courier" && w.family != "Helvetica" {
		// у Courier нет Unicode, поэтому текст кода переводится в cp1252
		w.writeRaw(w.pdf.UnicodeTranslatorFromDescriptor("")(cleanUnsupportedSymbols(t.Text)), link)
	} else {
		w.write(t.Text, link)
	}
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *pdfWriter) write(text string, link ...string) {
	w.writeRaw(w.translate(cleanUnsupportedSymbols(text)), link...)
}

func (w *pdfWriter) writeRaw(text string, link ...string) {
	h := w.lineHeight()
	if len(link) > 0 && link[0] != "" {
		w.pdf.WriteLinkString(h, text, link[0])
		return
	}
	w.pdf.Write(h, text)
}

// cleanUnsupportedSymbols удаляет символы вне базовой плоскости Unicode (эмодзи).
func cleanUnsupportedSymbols(text string) string {
	return strings.Map(func(r rune) rune {
		if r >= 65536 {
			return -1
		}
		return r
	}, text)
}

func (w *pdfWriter) PxToUnit(px int) float64 {
	return w.pdf.PointConvert(float64(px) * 0.75)
}

func (w *pdfWriter) resetMargins() {
	w.pdf.SetMargins(w.defaultMargins.Left, w.defaultMargins.Top, w.defaultMargins.Right)
}
