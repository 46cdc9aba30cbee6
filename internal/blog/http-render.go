package blog

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/true1ck/blog-editor/internal/blog/apierrors"
	"github.com/true1ck/blog-editor/internal/blog/editor"
	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
	"github.com/true1ck/blog-editor/internal/blog/editor/render"
	"github.com/true1ck/blog-editor/internal/blog/editor/tiptap"
	"github.com/true1ck/blog-editor/internal/blog/export"
	errStack "github.com/true1ck/blog-editor/internal/blog/stack-error"
)

const (
	FormatHTML     = "html"
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatPDF      = "pdf"
	FormatJSON     = "json"
)

func (s *Services) AddRenderServices(g *echo.Group) {
	g.POST("render/", s.renderDocument)
	g.POST("import/html/", s.importHTML)
	g.POST("import/markdown/", s.importMarkdown)
}

// renderDocument разбирает TipTap JSON из тела запроса и возвращает документ в формате из параметра format.
func (s *Services) renderDocument(c echo.Context) error {
	format := formatParam(c)
	if !validFormat(format) {
		return EErrorDefined(c, apierrors.ErrRenderFormat.WithFormattedMessage(format))
	}

	doc, err := tiptap.ParseJSON(c.Request().Body)
	if err != nil {
		return s.documentError(c, err)
	}
	return s.writeDocument(c, doc, format, c.QueryParam("title"))
}

// importHTML переводит HTML из тела запроса в канонический TipTap JSON.
func (s *Services) importHTML(c echo.Context) error {
	doc, err := editor.ParseHTMLConfig(c.Request().Body, s.cfg.Render)
	if err != nil {
		errStack.LogError(c, errStack.TrackErrorStack(err))
		return EErrorDefined(c, apierrors.ErrHTMLImportFailed)
	}
	return c.JSONBlob(http.StatusOK, tiptap.Serialize(doc))
}

// importMarkdown переводит Markdown из тела запроса в канонический TipTap JSON.
func (s *Services) importMarkdown(c echo.Context) error {
	doc, err := editor.ParseMarkdown(c.Request().Body, s.cfg.Render)
	if err != nil {
		errStack.LogError(c, errStack.TrackErrorStack(err))
		return EErrorDefined(c, apierrors.ErrHTMLImportFailed)
	}
	return c.JSONBlob(http.StatusOK, tiptap.Serialize(doc))
}

func formatParam(c echo.Context) string {
	if f := c.QueryParam("format"); f != "" {
		return f
	}
	return FormatHTML
}

func validFormat(format string) bool {
	switch format {
	case FormatHTML, FormatText, FormatMarkdown, FormatPDF, FormatJSON:
		return true
	}
	return false
}

// documentError отвечает на ошибку разбора документа 400, остальные ошибки передаются в EError.
func (s *Services) documentError(c echo.Context, err error) error {
	var perr *tiptap.ParseError
	if errors.As(err, &perr) {
		s.metrics.ParseErrors.Inc()
		return EErrorDefined(c, apierrors.ErrDocumentInvalid.WithFormattedMessage(perr.Error()))
	}
	return EError(c, err)
}

// writeDocument отдает документ в запрошенном формате.
func (s *Services) writeDocument(c echo.Context, doc *edtypes.Document, format, title string) error {
	switch format {
	case FormatHTML:
		var out string
		if s.cfg.SanitizeOutput {
			out = render.SafeHTML(doc, s.cfg.Render)
		} else {
			out = render.RenderHTML(doc, s.cfg.Render)
		}
		if s.cfg.MinifyOutput {
			out = render.Minify(out)
		}
		s.metrics.Renders.WithLabelValues(format).Inc()
		return c.HTML(http.StatusOK, out)

	case FormatText:
		s.metrics.Renders.WithLabelValues(format).Inc()
		return c.String(http.StatusOK, render.PlainText(doc))

	case FormatMarkdown:
		out, err := export.MarkdownString(doc)
		if err != nil {
			return EError(c, errStack.TrackErrorStack(err).AddContext("format", format))
		}
		s.metrics.Renders.WithLabelValues(format).Inc()
		return c.Blob(http.StatusOK, "text/markdown; charset=UTF-8", []byte(out))

	case FormatPDF:
		var buf bytes.Buffer
		if err := export.ToPDF(c.Request().Context(), doc, &buf, export.PDFOptions{
			Title:  title,
			Font:   s.pdfFont,
			Images: s.images,
		}); err != nil {
			errStack.LogError(c, errStack.TrackErrorStack(err).AddContext("format", format))
			return EErrorDefined(c, apierrors.ErrRenderFailed)
		}
		s.metrics.Renders.WithLabelValues(format).Inc()
		c.Response().Header().Set(echo.HeaderContentDisposition, contentDisposition(title, "pdf"))
		return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())

	case FormatJSON:
		s.metrics.Renders.WithLabelValues(format).Inc()
		return c.JSONBlob(http.StatusOK, tiptap.Serialize(doc))
	}
	return EErrorDefined(c, apierrors.ErrRenderFormat.WithFormattedMessage(format))
}

func contentDisposition(title, ext string) string {
	name := "document"
	if title != "" {
		name = title
	}
	return fmt.Sprintf("inline; filename*=UTF-8''%s.%s", url.PathEscape(name), ext)
}
